// Package token decodes Maya access tokens on the client side.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the statements the backend embeds in an access token.
// The registered subject claim carries the account email.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Email returns the account email carried in the subject claim.
func (c *Claims) Email() string {
	return c.Subject
}

// Expired reports whether the expiry claim is in the past. Tokens without
// an exp claim never report expired.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// Decode extracts the claims from an access token without verifying the
// signature. The client holds no signing secret; the server stays the only
// authority on token validity.
func Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	return claims, nil
}
