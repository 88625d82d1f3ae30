package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/tair/storefront/pkg/auth"
)

func newLimitedHandler(t *testing.T, client *redis.Client, max int) http.Handler {
	t.Helper()
	limiter := NewRateLimiter(client, tokenResolver{validToken: 1}, max, time.Minute)
	return limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func send(handler http.Handler, method string, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/favorites/1", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	handler := newLimitedHandler(t, client, 2)

	assert.Equal(t, http.StatusOK, send(handler, http.MethodPost, validToken).Code)
	assert.Equal(t, http.StatusOK, send(handler, http.MethodDelete, validToken).Code)

	rec := send(handler, http.MethodPost, validToken)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"ok":false,"error":"Too Many Requests"}`, rec.Body.String())

	assert.True(t, mr.Exists("favorites:ratelimit:user:1"))
}

func TestRateLimiter_ReadsAreNotLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	handler := newLimitedHandler(t, client, 1)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, send(handler, http.MethodGet, validToken).Code)
	}
	assert.False(t, mr.Exists("favorites:ratelimit:user:1"))
}

func TestRateLimiter_AnonymousKeyedByAddress(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	handler := newLimitedHandler(t, client, 5)

	send(handler, http.MethodPost, "")
	// httptest requests originate from 192.0.2.1
	assert.True(t, mr.Exists("favorites:ratelimit:ip:192.0.2.1"))
}

func TestRateLimiter_FailsOpenWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	handler := newLimitedHandler(t, client, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send(handler, http.MethodPost, validToken).Code)
	}
}
