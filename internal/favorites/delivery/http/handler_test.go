package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/usecase"
	"github.com/tair/storefront/internal/favorites/usecase/command"
	"github.com/tair/storefront/internal/favorites/usecase/query"
	"github.com/tair/storefront/pkg/auth"
)

const validToken = "valid-token"

type testResponse struct {
	OK      bool              `json:"ok"`
	Error   string            `json:"error"`
	Exists  *bool             `json:"exists"`
	Deleted *int64            `json:"deleted"`
	Data    []domain.Favorite `json:"data"`
}

func newTestRouter(repo domain.FavoriteRepository) *mux.Router {
	resolver := tokenResolver{validToken: 1}
	svc := usecase.NewFavoritesService(
		resolver,
		command.NewAddFavoriteHandler(repo, nil),
		command.NewRemoveFavoriteHandler(repo, nil),
		query.NewCheckFavoriteHandler(repo),
		query.NewListFavoritesHandler(repo),
	)
	handler := NewFavoriteHandler(svc, prometheus.NewRegistry())

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string, withCookie bool) (int, testResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if withCookie {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: validToken})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func TestFavoriteHandler_Lifecycle(t *testing.T) {
	router := newTestRouter(&memoryRepository{})

	status, resp := do(t, router, http.MethodGet, "/api/favorites/5", "", true)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.OK)
	require.NotNil(t, resp.Exists)
	assert.False(t, *resp.Exists)

	status, resp = do(t, router, http.MethodPost, "/api/favorites", `{"productId":5}`, true)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.OK)

	status, _ = do(t, router, http.MethodPost, "/api/favorites", `{"productId":"5"}`, true)
	assert.Equal(t, http.StatusOK, status)

	status, resp = do(t, router, http.MethodGet, "/api/favorites/5", "", true)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, *resp.Exists)

	status, resp = do(t, router, http.MethodGet, "/api/favorites", "", true)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, int64(5), resp.Data[0].ProductID)

	status, resp = do(t, router, http.MethodDelete, "/api/favorites/5", "", true)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Deleted)
	assert.Equal(t, int64(1), *resp.Deleted)

	status, resp = do(t, router, http.MethodDelete, "/api/favorites/5", "", true)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Deleted)
	assert.Equal(t, int64(0), *resp.Deleted)
}

func TestFavoriteHandler_Unauthorized(t *testing.T) {
	router := newTestRouter(&memoryRepository{})

	cases := []struct{ method, path, body string }{
		{http.MethodGet, "/api/favorites/abc", ""},
		{http.MethodPost, "/api/favorites", `{"productId":"abc"}`},
		{http.MethodDelete, "/api/favorites/0", ""},
		{http.MethodGet, "/api/favorites", ""},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			status, resp := do(t, router, tc.method, tc.path, tc.body, false)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.False(t, resp.OK)
			assert.Equal(t, "Unauthorized", resp.Error)
		})
	}
}

func TestFavoriteHandler_InvalidProductID(t *testing.T) {
	router := newTestRouter(&memoryRepository{})

	cases := []struct{ method, path, body string }{
		{http.MethodGet, "/api/favorites/abc", ""},
		{http.MethodGet, "/api/favorites/-2", ""},
		{http.MethodPost, "/api/favorites", `{"productId":0}`},
		{http.MethodPost, "/api/favorites", `{}`},
		{http.MethodPost, "/api/favorites", `not json`},
		{http.MethodPost, "/api/favorites", `{"productId":null}`},
		{http.MethodDelete, "/api/favorites/1.5", ""},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s %s %s", tc.method, tc.path, tc.body), func(t *testing.T) {
			status, resp := do(t, router, tc.method, tc.path, tc.body, true)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, resp.OK)
			assert.Equal(t, "Invalid productId", resp.Error)
		})
	}
}

func TestFavoriteHandler_IntegralDecimalID(t *testing.T) {
	router := newTestRouter(&memoryRepository{})

	status, resp := do(t, router, http.MethodPost, "/api/favorites", `{"productId": 5.0}`, true)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.OK)

	status, resp = do(t, router, http.MethodGet, "/api/favorites/5.0", "", true)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Exists)
	assert.True(t, *resp.Exists)
}

func TestFavoriteHandler_StorageFailure(t *testing.T) {
	router := newTestRouter(&memoryRepository{
		failWith: fmt.Errorf("%w: %w", domain.ErrStorage, errors.New("connection reset")),
	})

	status, resp := do(t, router, http.MethodGet, "/api/favorites/5", "", true)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, resp.OK)
	assert.Equal(t, "Internal Server Error", resp.Error)
}

func TestProductIDFromBody(t *testing.T) {
	tests := map[string]string{
		`{"productId": 12}`:   "12",
		`{"productId": "12"}`: "12",
		`{"productId": 1.5}`:  "1.5",
		`{}`:                  "",
		`garbage`:             "",
	}
	for body, want := range tests {
		assert.Equal(t, want, productIDFromBody(strings.NewReader(body)), body)
	}
}
