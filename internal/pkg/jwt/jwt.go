package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrNoExpiry       = errors.New("token has no expiry claim")
)

// Claims represents the claims the backend puts in an access token
type Claims struct {
	UserID   int64  `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"rol,omitempty"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Decode reads the claims of a token WITHOUT verifying its signature.
// Verification is the backend's job; the console only needs the expiry.
func Decode(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// ExpiresAt returns the exp claim of a token
func ExpiresAt(tokenString string) (time.Time, error) {
	claims, err := Decode(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// TimeUntilExpiry returns exp - now; zero or negative means expired
func TimeUntilExpiry(tokenString string, now time.Time) (time.Duration, error) {
	exp, err := ExpiresAt(tokenString)
	if err != nil {
		return 0, err
	}
	return exp.Sub(now), nil
}

// GenerateAccessToken signs a token the way the backend does; used by tests and local fakes
func GenerateAccessToken(userID int64, username, role, secret string, expiresAt time.Time) (string, error) {
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "tienda-api",
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
