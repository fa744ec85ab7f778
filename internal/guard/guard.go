// Package guard implements the optional shared-secret check that gates
// discovery and dispatch.
package guard

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized is returned when a credential is missing or wrong.
var ErrUnauthorized = errors.New("unauthorized")

// Guard compares caller credentials against a configured secret. A Guard
// with an empty secret is open and accepts every caller.
type Guard struct {
	secret string
	header string
}

// New returns a guard for secret, read from header on HTTP requests.
func New(secret, header string) *Guard {
	return &Guard{secret: secret, header: header}
}

// Open returns a guard that accepts every caller.
func Open() *Guard { return &Guard{} }

// Enabled reports whether a secret is configured.
func (g *Guard) Enabled() bool {
	return g != nil && g.secret != ""
}

// Header returns the header name the secret is read from.
func (g *Guard) Header() string {
	if g == nil {
		return ""
	}
	return g.header
}

// Check validates credential. Open guards always succeed.
func (g *Guard) Check(credential string) error {
	if !g.Enabled() {
		return nil
	}
	if credential == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(credential), []byte(g.secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Credential extracts the caller's credential from r: the configured header
// first, then an "Authorization: Bearer" token.
func (g *Guard) Credential(r *http.Request) string {
	if g != nil && g.header != "" {
		if v := strings.TrimSpace(r.Header.Get(g.header)); v != "" {
			return v
		}
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
