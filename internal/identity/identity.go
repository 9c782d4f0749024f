// Package identity issues the signed, opaque per-tab session cookie and
// carries the session ID through the request context.
package identity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// SessionCookieName is the cookie holding the signed session ID.
	SessionCookieName = "apex_session"
)

type contextKey int

const (
	sessionIDKey contextKey = iota
)

// Signer signs and verifies session IDs with an HMAC key.
type Signer struct {
	key   []byte
	isDev bool
}

// NewSigner creates a signer. isDev drops the Secure cookie flag so the
// cookie works over plain http on localhost.
func NewSigner(secret string, isDev bool) *Signer {
	return &Signer{key: []byte(secret), isDev: isDev}
}

func (s *Signer) mac(id string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Sign returns the cookie value for id.
func (s *Signer) Sign(id string) string {
	return id + "." + s.mac(id)
}

// Verify returns the session ID inside value if its signature is valid.
func (s *Signer) Verify(value string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.mac(id))) {
		return "", false
	}
	return id, true
}

// Issue assigns a fresh session ID, writes its cookie and returns the ID.
func (s *Signer) Issue(w http.ResponseWriter) string {
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Sign(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !s.isDev,
	})
	return id
}

// SessionIDFromContext extracts the session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

// WithSessionID returns a context carrying id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromRequest returns the verified session ID carried by the request cookie.
func (s *Signer) SessionIDFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", false
	}
	return s.Verify(c.Value)
}

// Middleware puts the verified session ID into the request context, issuing
// a new cookie when the request carries none or a forged one.
func Middleware(s *Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := s.SessionIDFromRequest(r)
			if !ok {
				id = s.Issue(w)
			}
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

// IPFromRequest returns a normalized remote IP for optional request tracing.
func IPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
