package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-escape-reservation/internal/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 20,
	}
}

func TestRedisCache_HitMissAndPurge(t *testing.T) {
	mr, rdb := newTestRedis(t)
	cfg := testCacheConfig()

	calls := 0
	e := echo.New()
	e.GET("/times", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"calls": calls})
	}, NewRedisCache(cfg, rdb))
	e.POST("/admin/times", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, NewCacheInvalidator(cfg, rdb))
	e.POST("/admin/times/conflict", func(c echo.Context) error {
		return c.JSON(http.StatusConflict, echo.Map{"error": "time already exists"})
	}, NewCacheInvalidator(cfg, rdb))

	get := func() *httptest.ResponseRecorder {
		return serve(e, httptest.NewRequest(http.MethodGet, "/times", nil))
	}

	rec := get()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	first := rec.Body.String()
	assert.Len(t, mr.Keys(), 1)

	rec = get()
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, first, rec.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, calls)

	// A rejected write leaves the cache alone.
	rec = serve(e, httptest.NewRequest(http.MethodPost, "/admin/times/conflict", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "HIT", get().Header().Get("X-Cache"))

	rec = serve(e, httptest.NewRequest(http.MethodPost, "/admin/times", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, mr.Keys())

	rec = get()
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestRedisCache_SkipsErrorResponses(t *testing.T) {
	mr, rdb := newTestRedis(t)

	e := echo.New()
	e.GET("/themes", func(c echo.Context) error {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "busy"})
	}, NewRedisCache(testCacheConfig(), rdb))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/themes", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, mr.Keys())
}

func TestTokenBucket_RejectsOverCapacity(t *testing.T) {
	mr, rdb := newTestRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "test:rl",
	}

	e := echo.New()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, rdb))

	login := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		return serve(e, req)
	}

	for i, want := range []string{"1", "0"} {
		rec := login("10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, want, rec.Header().Get("X-RateLimit-Remaining"))
	}

	rec := login("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.True(t, retry > 0 && retry <= 60, "Retry-After = %d", retry)
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")

	// Another caller has its own bucket.
	assert.Equal(t, http.StatusOK, login("10.0.0.2").Code)

	// The limiter lets requests through while Redis is down.
	mr.Close()
	assert.Equal(t, http.StatusOK, login("10.0.0.1").Code)
}
