package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticketing-api/internal/auth"
	"github.com/iliyamo/cinema-ticketing-api/internal/middleware"
)

var mwTrust = auth.TrustConfig{
	Secret:   []byte("mw-secret"),
	Issuer:   "cinema-api",
	Audience: "cinema-clients",
}

func callProtected(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/movies", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id":   c.Get("user_id"),
			"user_name": c.Get("user_name"),
		})
	}
	require.NoError(t, middleware.BearerAuth(mwTrust)(next)(c))
	return rec
}

func TestBearerAuthMissingHeader(t *testing.T) {
	rec := callProtected(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestBearerAuthPassesClaimsThrough(t *testing.T) {
	token, err := auth.Issue(auth.Identity{ID: "42", Login: "alice@example.com"}, mwTrust, time.Now().UTC())
	require.NoError(t, err)

	rec := callProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"42"`)
	assert.Contains(t, rec.Body.String(), `"user_name":"alice@example.com"`)
}

// Every rejected token gets the same body: a garbage token, a tampered
// one and an expired one must be indistinguishable to the client.
func TestBearerAuthGenericRejection(t *testing.T) {
	expired, err := auth.Issue(auth.Identity{ID: "42", Login: "alice@example.com"}, mwTrust,
		time.Now().UTC().Add(-25*time.Hour))
	require.NoError(t, err)

	wrongKey := mwTrust
	wrongKey.Secret = []byte("other-secret")
	forged, err := auth.Issue(auth.Identity{ID: "42", Login: "alice@example.com"}, wrongKey, time.Now().UTC())
	require.NoError(t, err)

	bodies := map[string]bool{}
	for _, tok := range []string{"garbage", expired, forged} {
		rec := callProtected(t, "Bearer "+tok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		bodies[rec.Body.String()] = true
	}
	assert.Len(t, bodies, 1, "all rejections must share one body")
	for body := range bodies {
		assert.Contains(t, body, "invalid token")
	}
}
