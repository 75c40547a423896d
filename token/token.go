// Package token mints and checks the stateless bearer tokens used by the
// API. Validity is a pure function of the token string and the signing
// secret; nothing is stored server-side, so a token cannot be revoked
// before it expires.
package token

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Observed TTLs differ between the registration and login paths. Kept as
// separate constants pending a product decision on unifying them.
const (
	UserRegisterTTL = 30 * 24 * time.Hour
	UserLoginTTL    = 24 * time.Hour
	AdminTTL        = 24 * time.Hour
)

var (
	ErrMalformed        = errors.New("token is malformed")
	ErrExpired          = errors.New("token is expired")
	ErrSignatureInvalid = errors.New("token signature is invalid")
)

// Claims carried inside every session token.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.StandardClaims
}

// Issue signs a token for the given principal, valid for ttl from now.
func Issue(secret, id, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		ID:   id,
		Role: role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Verify parses and validates a token string and returns its claims.
func Verify(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrMalformed
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrExpired
			}
		}
		return nil, ErrSignatureInvalid
	}
	if !t.Valid {
		return nil, ErrSignatureInvalid
	}
	return claims, nil
}
