package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/usecase"
	"github.com/tair/storefront/pkg/auth"
	"github.com/tair/storefront/pkg/logger"
)

// FavoriteHandler handles HTTP requests for favorites
type FavoriteHandler struct {
	service *usecase.FavoritesService

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	mutations      *prometheus.CounterVec
}

// NewFavoriteHandler creates a new favorite handler and registers its metrics with reg
func NewFavoriteHandler(service *usecase.FavoritesService, reg prometheus.Registerer) *FavoriteHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorites_service_requests_total",
			Help: "Total number of requests to favorites service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "favorites_service_request_duration_seconds",
			Help:    "Duration of favorites service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "favorites_service_request_duration_summary",
			Help: "Summary of request durations with percentiles (client-side quantiles)",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	mutations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorites_service_mutations_total",
			Help: "Favorite mutations by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	reg.MustRegister(requestCounter, requestLatency, requestSummary, mutations)

	return &FavoriteHandler{
		service:        service,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		requestSummary: requestSummary,
		mutations:      mutations,
	}
}

// Response is the envelope every favorites endpoint answers with
type Response struct {
	OK      bool        `json:"ok"`
	Error   string      `json:"error,omitempty"`
	Exists  *bool       `json:"exists,omitempty"`
	Deleted *int64      `json:"deleted,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *FavoriteHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers favorites routes
func (h *FavoriteHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/favorites", h.metricsMiddleware("/api/favorites", h.ListFavorites)).Methods("GET")
	router.HandleFunc("/api/favorites", h.metricsMiddleware("/api/favorites", h.AddFavorite)).Methods("POST")
	router.HandleFunc("/api/favorites/{id}", h.metricsMiddleware("/api/favorites/{id}", h.CheckFavorite)).Methods("GET")
	router.HandleFunc("/api/favorites/{id}", h.metricsMiddleware("/api/favorites/{id}", h.RemoveFavorite)).Methods("DELETE")
}

// CheckFavorite handles GET /api/favorites/{id}
func (h *FavoriteHandler) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	exists, err := h.service.CheckFavorite(r.Context(), auth.CredentialFromRequest(r), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{OK: true, Exists: &exists})
}

// AddFavorite handles POST /api/favorites
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	err := h.service.AddFavorite(r.Context(), auth.CredentialFromRequest(r), productIDFromBody(r.Body))
	if err != nil {
		h.mutations.WithLabelValues("add", outcome(err)).Inc()
		h.respondError(w, r, err)
		return
	}

	h.mutations.WithLabelValues("add", "ok").Inc()
	respondJSON(w, http.StatusOK, Response{OK: true})
}

// RemoveFavorite handles DELETE /api/favorites/{id}
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.RemoveFavorite(r.Context(), auth.CredentialFromRequest(r), mux.Vars(r)["id"])
	if err != nil {
		h.mutations.WithLabelValues("remove", outcome(err)).Inc()
		h.respondError(w, r, err)
		return
	}

	h.mutations.WithLabelValues("remove", "ok").Inc()
	respondJSON(w, http.StatusOK, Response{OK: true, Deleted: &deleted})
}

// ListFavorites handles GET /api/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.service.ListFavorites(r.Context(), auth.CredentialFromRequest(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{OK: true, Data: favorites})
}

// productIDFromBody reads productId from a JSON body. Numbers and numeric strings are
// both accepted; an unreadable body yields "" so validation reports it after auth.
func productIDFromBody(body io.Reader) string {
	var req struct {
		ProductID json.RawMessage `json:"productId"`
	}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return ""
	}

	raw := strings.TrimSpace(string(req.ProductID))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		return unquoted
	}
	return raw
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

func (h *FavoriteHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		respondJSON(w, http.StatusUnauthorized, Response{Error: "Unauthorized"})
	case errors.Is(err, domain.ErrInvalidProductID):
		respondJSON(w, http.StatusBadRequest, Response{Error: "Invalid productId"})
	case errors.Is(err, domain.ErrInvalidInput):
		respondJSON(w, http.StatusBadRequest, Response{Error: "Invalid request"})
	default:
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Favorites request failed")
		respondJSON(w, http.StatusInternalServerError, Response{Error: "Internal Server Error"})
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
