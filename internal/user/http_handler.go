package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bookshelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type registerReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,password_strength"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	User View `json:"user"`
}

func (r *registerReq) normalize() { r.Username = strings.TrimSpace(r.Username) }
func (r *loginReq) normalize()    { r.Username = strings.TrimSpace(r.Username) }

// decodeCredentials reads and validates the body. When ok is false, msg is
// the 400 message to send.
func decodeCredentials(r *http.Request, req interface{ normalize() }) (msg string, ok bool) {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return "Invalid request body", false
	}
	req.normalize()
	if errs := httpx.ValidateStruct(req); len(errs) > 0 {
		return errs[0].Message, false
	}
	return "", true
}

// Register handles POST /api/auth/register
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerReq true "Registration request"
// @Success 200 {object} userResponse
// @Failure 400 {object} httpx.MessageResponse
// @Router /api/auth/register [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) error {
	var req registerReq
	if msg, ok := decodeCredentials(r, &req); !ok {
		httpx.JSONError(w, http.StatusBadRequest, msg)
		return nil
	}
	view, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		return httpx.RespondError(w, err)
	}
	httpx.JSON(w, http.StatusOK, userResponse{User: view})
	return nil
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginReq true "Login request"
// @Success 200 {object} userResponse
// @Failure 400 {object} httpx.MessageResponse
// @Router /api/auth/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var req loginReq
	if msg, ok := decodeCredentials(r, &req); !ok {
		httpx.JSONError(w, http.StatusBadRequest, msg)
		return nil
	}

	view, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return httpx.RespondError(w, err)
	}
	httpx.JSON(w, http.StatusOK, userResponse{User: view})
	return nil
}

// Me handles GET /api/auth/me
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} userResponse
// @Failure 401 {object} httpx.CodedMessageResponse
// @Router /api/auth/me [get]
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) error {
	u, err := h.service.GetByID(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httpx.NewUnauthorizedError(httpx.CodeInvalidToken, "invalid token", err)
		}
		return err
	}
	httpx.JSON(w, http.StatusOK, userResponse{User: u.View(httpx.TokenFrom(r))})
	return nil
}
