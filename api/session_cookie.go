package api

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog/log"
)

// sessionCookies signs session tokens into cookies and reads them back.
type sessionCookies struct {
	name   string
	codec  *securecookie.SecureCookie
	ttl    time.Duration
	secure bool
}

// newSessionCookies signs with secret, or with a random per-process key when secret is empty.
// With a random key every restart invalidates outstanding cookies.
func newSessionCookies(name string, secret []byte, ttl time.Duration, secure bool) sessionCookies {
	if len(secret) == 0 {
		log.Warn().Msg("SESSION_SECRET is not set; using a random key, sessions will not survive restarts")
		secret = securecookie.GenerateRandomKey(64)
	}
	codec := securecookie.New(secret, nil)
	codec.MaxAge(int(ttl.Seconds()))
	return sessionCookies{name: name, codec: codec, ttl: ttl, secure: secure}
}

func (c sessionCookies) sameSite() http.SameSite {
	// cross-origin credentialed requests need SameSite=None, which browsers only accept with Secure
	if c.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (c sessionCookies) set(w http.ResponseWriter, token string) error {
	encoded, err := c.codec.Encode(c.name, token)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite(),
	})
	return nil
}

func (c sessionCookies) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite(),
	})
}

// token returns the session token carried by the request, or "" when the cookie is absent or
// its signature does not verify.
func (c sessionCookies) token(r *http.Request) string {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return ""
	}
	var token string
	if err := c.codec.Decode(c.name, cookie.Value, &token); err != nil {
		return ""
	}
	return token
}
