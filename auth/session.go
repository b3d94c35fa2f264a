// Package auth gates moderator-only operations behind server-side sessions.
//
// A session binds an opaque random token to a moderator identity. The token travels to the
// client in a signed cookie; the binding itself lives in a SessionStore.
package auth

import (
	"context"
	"encoding/base32"
	"errors"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
)

// DefaultSessionTTL is the session lifetime used when none, or a non-positive one, is configured.
const DefaultSessionTTL = 168 * time.Hour

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session is the server-side binding of a token to a moderator.
type Session struct {
	Token       string    `json:"token"`
	ModeratorID uint      `json:"moderatorId"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// IsExpired reports whether the session is past its expiry at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionStore holds session bindings.
// Get returns ErrSessionNotFound for unknown tokens and ErrSessionExpired for stale ones.
// Delete of an unknown token returns ErrSessionNotFound.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteByModerator(ctx context.Context, moderatorID uint) (int, error)
	Close() error
}

// NewSessionToken returns 256 bits of randomness encoded for use in a cookie.
func NewSessionToken() (string, error) {
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return "", errors.New("generate session token: random source unavailable")
	}
	return strings.TrimRight(base32.StdEncoding.EncodeToString(key), "="), nil
}

// SessionTTL converts a configured lifetime in hours, falling back to DefaultSessionTTL when
// hours is not positive.
func SessionTTL(hours int) time.Duration {
	if hours <= 0 {
		return DefaultSessionTTL
	}
	return time.Duration(hours) * time.Hour
}
