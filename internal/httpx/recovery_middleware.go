package httpx

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

type panicError struct {
	value any
	stack string
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) StackTrace() string {
	return e.stack
}

// RecoveryMiddleware turns handler panics into errors for the error handler.
func RecoveryMiddleware(errs *ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				errs.Handle(w, r, &panicError{value: rec, stack: string(debug.Stack())})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
