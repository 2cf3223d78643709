package crypto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is stamped on every token and required when parsing.
const Issuer = "bookshelf"

const clockSkew = 30 * time.Second

type Claims struct {
	Sub      string `json:"sub"` // user id
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Token is a signed access token.
type Token struct {
	Value     string
	ID        string // jti
	ExpiresAt time.Time
}

// GenerateToken signs an HS256 token for the user valid for ttl.
func GenerateToken(secret, userID, username string, ttl time.Duration) (Token, error) {
	now := time.Now()
	tok := Token{ID: uuid.NewString(), ExpiresAt: now.Add(ttl)}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Sub:      userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tok.ID,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(tok.ExpiresAt),
		},
	}).SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	tok.Value = signed
	return tok, nil
}

// ParseToken verifies signature, algorithm, expiry and issuer. Errors wrap
// the jwt package sentinels (jwt.ErrTokenExpired and friends).
func ParseToken(secret, tokenStr string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	)
	if err != nil {
		return nil, err
	}
	if claims.Sub == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &claims, nil
}
