package token

import (
	"fmt"
	"strings"
	"time"

	"handyhub-session-svc/src/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims issued by the auth service.
type Claims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// ParseUnverified decodes the claims of a JWT without checking its signature.
func ParseUnverified(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, models.ErrTokenRequired
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTokenMalformed, err)
	}

	return claims, nil
}

// ExpirationFromJWT returns the exp claim of a JWT.
func ExpirationFromJWT(tokenString string) (time.Time, error) {
	claims, err := ParseUnverified(tokenString)
	if err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", models.ErrTokenMalformed, err)
	}
	if exp == nil {
		return time.Time{}, models.ErrTokenNoExpiration
	}

	return exp.Time, nil
}

// ExtractBearer strips the "Bearer " prefix from an Authorization header value.
func ExtractBearer(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
