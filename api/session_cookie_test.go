package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCookies_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		hours int
	}{
		{"configured", 2},
		{"zero", 0},
		{"negative", -24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookies := newSessionCookies("session", []byte("0123456789abcdef0123456789abcdef"), auth.SessionTTL(tt.hours), true)

			rec := httptest.NewRecorder()
			require.NoError(t, cookies.set(rec, "token-value"))
			set := rec.Result().Cookies()
			require.Len(t, set, 1)
			assert.Positive(t, set[0].MaxAge)
			assert.True(t, set[0].HttpOnly)
			assert.Equal(t, http.SameSiteNoneMode, set[0].SameSite)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.AddCookie(set[0])
			assert.Equal(t, "token-value", cookies.token(req))
		})
	}
}

func TestSessionCookies_RejectsForeignSignature(t *testing.T) {
	ours := newSessionCookies("session", []byte("0123456789abcdef0123456789abcdef"), auth.DefaultSessionTTL, false)
	theirs := newSessionCookies("session", []byte("fedcba9876543210fedcba9876543210"), auth.DefaultSessionTTL, false)

	rec := httptest.NewRecorder()
	require.NoError(t, theirs.set(rec, "forged"))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	assert.Empty(t, ours.token(req))
}
