package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findSessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == Name {
			return c
		}
	}
	return nil
}

func TestSet(t *testing.T) {
	rec := httptest.NewRecorder()
	Set(rec, "tok", time.Hour, true)

	cookie := findSessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "tok", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestSet_InsecureForLocalEnv(t *testing.T) {
	rec := httptest.NewRecorder()
	Set(rec, "tok", time.Hour, false)

	cookie := findSessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.False(t, cookie.Secure)
}

func TestClear(t *testing.T) {
	rec := httptest.NewRecorder()
	Clear(rec, true)

	cookie := findSessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}
