package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticketing-api/internal/config"
	"github.com/iliyamo/cinema-ticketing-api/internal/middleware"
)

// Without Redis both middlewares must degrade to pass-through: the
// catalog and login still work, just uncached and unthrottled.
func TestCacheAndRateLimitFailOpenWithoutRedis(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	cacheMW := middleware.ResponseCache(config.LoadCacheConfig(), nil)
	require.NoError(t, cacheMW(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	limitMW := middleware.RateLimit(config.LoadRateLimitConfig(), nil)
	require.NoError(t, limitMW(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
