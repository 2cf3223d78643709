package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookshelf/internal/apperr"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type CodedMessageResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StackResponse struct {
	Message string `json:"message"`
	Stack   string `json:"stack"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func JSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func JSONError(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, MessageResponse{Message: message})
}

func JSONSuccess(w http.ResponseWriter) {
	JSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// RespondError writes coded application errors as {message} with their
// status and returns nil. Any other error is returned untouched so the
// caller can hand it to the ErrorHandler.
func RespondError(w http.ResponseWriter, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		JSONError(w, appErr.HTTPStatus(), appErr.Message)
		return nil
	}
	return err
}
