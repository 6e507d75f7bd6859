// Package auth renders the signed-in/signed-out header from an access token.
//
// Tokens are decoded without verification: the claims only drive what the
// header shows, never what the user may do.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenKey is the storage key the access token is kept under.
const DefaultTokenKey = "accessToken"

// ErrMalformedToken reports a token that cannot be decoded.
var ErrMalformedToken = errors.New("malformed token")

// Claims is the part of the token payload the header uses.
type Claims struct {
	// Expires is the zero time when the token carries no exp claim.
	Expires   time.Time
	FirstName string
}

var parser = jwt.NewParser()

// DecodeToken extracts Claims from raw without checking its signature.
func DecodeToken(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, fmt.Errorf("%w: empty", ErrMalformedToken)
	}
	mapClaims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, mapClaims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var claims Claims
	if exp != nil {
		claims.Expires = exp.Time
	}
	if sub, ok := mapClaims["sub"].(map[string]any); ok {
		if name, ok := sub["firstName"].(string); ok {
			claims.FirstName = strings.TrimSpace(name)
		}
	}
	return claims, nil
}

// Valid reports whether the claims are unexpired at now, compared in whole seconds.
func (c Claims) Valid(now time.Time) bool {
	if c.Expires.IsZero() {
		return false
	}
	return c.Expires.Unix() > now.Unix()
}
