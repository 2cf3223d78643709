package listitem

import (
	"encoding/json"
	"errors"
	"io"
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

// ItemHandlerFunc handles a request for a list item the caller owns.
type ItemHandlerFunc func(w http.ResponseWriter, r *http.Request, item ListItem) error

type listItemResponse struct {
	ListItem Expanded `json:"listItem"`
}

type listItemsResponse struct {
	ListItems []Expanded `json:"listItems"`
}

type createReq struct {
	BookID string `json:"bookId"`
}

// SetListItem loads the {id} item and passes it to next when the
// authenticated user owns it. Otherwise it answers 404 or 403 itself.
func (h *HTTPHandler) SetListItem(next ItemHandlerFunc) httpx.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		item, err := h.service.Load(r.Context(), httpx.UserIDFrom(r), chi.URLParam(r, "id"))
		if err != nil {
			return httpx.RespondError(w, err)
		}
		return next(w, r, item)
	}
}

// GetListItems handles GET /api/list-items
// @Summary List the caller's list items
// @Tags list-items
// @Produce json
// @Security BearerAuth
// @Success 200 {object} listItemsResponse
// @Failure 401 {object} httpx.CodedMessageResponse
// @Router /api/list-items [get]
func (h *HTTPHandler) GetListItems(w http.ResponseWriter, r *http.Request) error {
	items, err := h.service.ListForOwner(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusOK, listItemsResponse{ListItems: items})
	return nil
}

// GetListItem handles GET /api/list-items/{id}
// @Summary Get a list item
// @Tags list-items
// @Produce json
// @Security BearerAuth
// @Param id path string true "List item ID"
// @Success 200 {object} listItemResponse
// @Failure 403 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.MessageResponse
// @Router /api/list-items/{id} [get]
func (h *HTTPHandler) GetListItem(w http.ResponseWriter, r *http.Request, item ListItem) error {
	expanded, err := h.service.Expand(r.Context(), item)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusOK, listItemResponse{ListItem: expanded})
	return nil
}

// CreateListItem handles POST /api/list-items
// @Summary Add a book to the caller's list
// @Tags list-items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createReq true "Book to add"
// @Success 200 {object} listItemResponse
// @Failure 400 {object} httpx.MessageResponse
// @Router /api/list-items [post]
func (h *HTTPHandler) CreateListItem(w http.ResponseWriter, r *http.Request) error {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid request body")
		return nil
	}

	expanded, err := h.service.Create(r.Context(), httpx.UserIDFrom(r), req.BookID)
	if err != nil {
		return httpx.RespondError(w, err)
	}
	httpx.JSON(w, http.StatusOK, listItemResponse{ListItem: expanded})
	return nil
}

// UpdateListItem handles PUT /api/list-items/{id}
// @Summary Update notes, rating or dates of a list item
// @Tags list-items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "List item ID"
// @Param request body Updates true "Fields to change"
// @Success 200 {object} listItemResponse
// @Failure 400 {object} httpx.MessageResponse
// @Failure 403 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.MessageResponse
// @Router /api/list-items/{id} [put]
func (h *HTTPHandler) UpdateListItem(w http.ResponseWriter, r *http.Request, item ListItem) error {
	var updates Updates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid request body")
		return nil
	}
	if errs := httpx.ValidateStruct(updates); len(errs) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, errs[0].Message)
		return nil
	}

	expanded, err := h.service.Update(r.Context(), item, updates)
	if err != nil {
		return httpx.RespondError(w, err)
	}
	httpx.JSON(w, http.StatusOK, listItemResponse{ListItem: expanded})
	return nil
}

// DeleteListItem handles DELETE /api/list-items/{id}
// @Summary Delete a list item
// @Tags list-items
// @Produce json
// @Security BearerAuth
// @Param id path string true "List item ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.MessageResponse
// @Router /api/list-items/{id} [delete]
func (h *HTTPHandler) DeleteListItem(w http.ResponseWriter, r *http.Request, item ListItem) error {
	if err := h.service.Delete(r.Context(), item); err != nil {
		return httpx.RespondError(w, err)
	}
	httpx.JSONSuccess(w)
	return nil
}
