package httpx

import (
	"errors"
	"net/http"
	"strings"

	"bookshelf/internal/platform/crypto"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CodeCredentialsRequired  = "credentials_required"
	CodeCredentialsBadScheme = "credentials_bad_scheme"
	CodeInvalidToken         = "invalid_token"
)

// AuthMiddleware requires a valid "Authorization: Bearer <jwt>" header and
// stores the token subject in the request context. Failures go to errs as
// *UnauthorizedError.
func AuthMiddleware(secret string, errs *ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				errs.Handle(w, r, NewUnauthorizedError(CodeCredentialsRequired, "No authorization token was found", nil))
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				errs.Handle(w, r, NewUnauthorizedError(CodeCredentialsBadScheme, "Format is Authorization: Bearer [token]", nil))
				return
			}

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				errs.Handle(w, r, NewUnauthorizedError(CodeInvalidToken, tokenErrorMessage(err), err))
				return
			}

			recordAccessUser(r.Context(), claims.Sub)
			ctx := ContextWithUser(r.Context(), claims.Sub, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "jwt expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "invalid signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "jwt malformed"
	default:
		return "invalid token"
	}
}
