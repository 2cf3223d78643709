package httpx

import (
	"errors"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// UnauthorizedError reports missing or invalid credentials. The error
// handler renders it as 401 {code, message}.
type UnauthorizedError struct {
	Code    string
	Message string
	Err     error
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func (e *UnauthorizedError) Unwrap() error {
	return e.Err
}

func NewUnauthorizedError(code, message string, err error) *UnauthorizedError {
	return &UnauthorizedError{Code: code, Message: message, Err: err}
}

// HandlerFunc is an HTTP handler that may return an error it did not
// translate into a response itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorNext receives errors the handler cannot respond to because the
// response has already started.
type ErrorNext func(w http.ResponseWriter, r *http.Request, err error)

// ErrorHandler is the last-resort boundary for request errors.
type ErrorHandler struct {
	logger *zap.Logger
	next   ErrorNext
}

func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	h := &ErrorHandler{logger: logger}
	h.next = h.logUnwritable
	return h
}

// WithNext replaces the func that receives errors once headers are sent.
func (h *ErrorHandler) WithNext(next ErrorNext) *ErrorHandler {
	return &ErrorHandler{logger: h.logger, next: next}
}

// Handle writes the response for err:
// headers already sent -> next(err), nothing written;
// *UnauthorizedError -> 401 {code, message};
// anything else -> 500 {message, stack}.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if HeadersSent(w) {
		h.next(w, r, err)
		return
	}

	var unauthorized *UnauthorizedError
	if errors.As(err, &unauthorized) {
		JSON(w, http.StatusUnauthorized, CodedMessageResponse{
			Code:    unauthorized.Code,
			Message: unauthorized.Message,
		})
		return
	}

	h.logger.Error("unhandled request error",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFrom(r)),
	)
	JSON(w, http.StatusInternalServerError, StackResponse{
		Message: err.Error(),
		Stack:   stackOf(err),
	})
}

// Wrap adapts fn to http.Handler, sending returned errors through Handle.
func (h *ErrorHandler) Wrap(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.Handle(w, r, err)
		}
	}
}

func (h *ErrorHandler) logUnwritable(_ http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request error after response started",
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFrom(r)),
	)
}

// StackTracer is implemented by errors that captured their own stack.
type StackTracer interface {
	StackTrace() string
}

func stackOf(err error) string {
	var st StackTracer
	if errors.As(err, &st) {
		return st.StackTrace()
	}
	return string(debug.Stack())
}

type headerTracker interface {
	HeaderWritten() bool
}

// HeadersSent reports whether a status line has been written to w, looking
// through wrappers that expose Unwrap.
func HeadersSent(w http.ResponseWriter) bool {
	for w != nil {
		if t, ok := w.(headerTracker); ok {
			return t.HeaderWritten()
		}
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return false
		}
		w = u.Unwrap()
	}
	return false
}
