package book

import (
	"net/http"

	"bookshelf/internal/httpx"

	"github.com/go-chi/chi/v5"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type searchResponse struct {
	Books []Book `json:"books"`
}

type bookResponse struct {
	Book Book `json:"book"`
}

// Search handles GET /api/books
// @Summary Search books
// @Description Case-insensitive match on title or author
// @Tags books
// @Produce json
// @Param query query string false "Search text"
// @Success 200 {object} searchResponse
// @Failure 401 {object} httpx.CodedMessageResponse
// @Router /api/books [get]
// @Security BearerAuth
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) error {
	books, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusOK, searchResponse{Books: books})
	return nil
}

// Get handles GET /api/books/{id}
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} bookResponse
// @Failure 404 {object} httpx.MessageResponse
// @Router /api/books/{id} [get]
// @Security BearerAuth
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) error {
	b, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return httpx.RespondError(w, err)
	}
	httpx.JSON(w, http.StatusOK, bookResponse{Book: b})
	return nil
}
