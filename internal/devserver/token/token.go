// Package token issues and validates the bearer tokens handed out by the
// development server.
package token

import (
	"fmt"
	"time"

	"github.com/explooosion/catalog-console/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Issuer signs and validates HS256 access tokens carrying username and role
type Issuer struct {
	secret string
	expiry time.Duration
}

// NewIssuer creates a new token issuer
func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{
		secret: secret,
		expiry: expiry,
	}
}

// Issue creates a signed token for the given account
func (i *Issuer) Issue(username string, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"role":     string(role),
		"exp":      time.Now().Add(i.expiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(i.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses tokenString and returns the username and role it carries
func (i *Issuer) Validate(tokenString string) (string, models.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(i.secret), nil
	})

	if err != nil {
		return "", "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", "", fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", "", fmt.Errorf("username not found in token")
	}

	role, _ := claims["role"].(string)

	return username, models.Role(role), nil
}
