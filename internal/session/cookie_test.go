package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureIssuesCookieOnce(t *testing.T) {
	c := Cookie{Name: "trivia_session", TTL: 2 * time.Hour}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	id := c.Ensure(w, r)

	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "trivia_session", cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 7200, cookies[0].MaxAge)

	// A request carrying the cookie keeps its ID and gets no new Set-Cookie.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "trivia_session", Value: id})
	assert.Equal(t, id, c.Ensure(w, r))
	assert.Empty(t, w.Result().Cookies())
}

func TestSessionID(t *testing.T) {
	c := Cookie{Name: "trivia_session"}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := c.SessionID(r)
	assert.False(t, ok)

	r.AddCookie(&http.Cookie{Name: "trivia_session", Value: "abc"})
	id, ok := c.SessionID(r)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
}
