package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Cookie issues and reads the opaque session ID the trivia progress is keyed
// by. The ID carries no data; all state lives server-side in the Store.
type Cookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionID returns the session ID from the request cookie, if present.
func (c Cookie) SessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Ensure returns the request's session ID, issuing a fresh one onto the
// response when the request has none.
func (c Cookie) Ensure(w http.ResponseWriter, r *http.Request) string {
	if id, ok := c.SessionID(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    id,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
