package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/panpal/panpal/internal/favorites/domain"
	"github.com/panpal/panpal/internal/favorites/usecase/command"
	"github.com/panpal/panpal/internal/favorites/usecase/query"
	"github.com/panpal/panpal/kafka"
	"github.com/panpal/panpal/pkg/logger"
)

// FavoriteHandler handles HTTP requests for favorites
type FavoriteHandler struct {
	addHandler    *command.AddFavoriteHandler
	removeHandler *command.RemoveFavoriteHandler
	listHandler   *query.ListFavoriteIDsHandler
	statusHandler *query.GetFavoriteStatusHandler

	publisher *kafka.Publisher

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	toggleCounter  *prometheus.CounterVec
}

// NewFavoriteHandler creates a new favorites handler. publisher may be
// nil when Kafka is unavailable; events are then skipped.
func NewFavoriteHandler(repo domain.FavoriteRepository, publisher *kafka.Publisher) *FavoriteHandler {
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

	toggleCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorites_service_toggles_total",
			Help: "Favorite add and remove operations",
		},
		[]string{"operation", "outcome"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(toggleCounter)

	return &FavoriteHandler{
		addHandler:     command.NewAddFavoriteHandler(repo),
		removeHandler:  command.NewRemoveFavoriteHandler(repo),
		listHandler:    query.NewListFavoriteIDsHandler(repo),
		statusHandler:  query.NewGetFavoriteStatusHandler(repo),
		publisher:      publisher,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		toggleCounter:  toggleCounter,
	}
}

// RegisterRoutes wires the favorites endpoints
func (h *FavoriteHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")

	router.HandleFunc("/api/favorites/ids",
		h.metricsMiddleware("/api/favorites/ids", AuthMiddleware(h.ListIDs))).Methods("GET")
	router.HandleFunc("/api/favorites/{recipeId}/status",
		h.metricsMiddleware("/api/favorites/{recipeId}/status", AuthMiddleware(h.Status))).Methods("GET")
	router.HandleFunc("/api/favorites/{recipeId}",
		h.metricsMiddleware("/api/favorites/{recipeId}", AuthMiddleware(h.Add))).Methods("POST")
	router.HandleFunc("/api/favorites/{recipeId}",
		h.metricsMiddleware("/api/favorites/{recipeId}", AuthMiddleware(h.Remove))).Methods("DELETE")
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (h *FavoriteHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// Health handles GET /health
func (h *FavoriteHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ListIDs handles GET /api/favorites/ids
func (h *FavoriteHandler) ListIDs(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	ids, err := h.listHandler.Handle(query.ListFavoriteIDsQuery{UserID: userID})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"ids":   ids,
		"count": len(ids),
	})
}

// Status handles GET /api/favorites/{recipeId}/status
func (h *FavoriteHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	recipeID, err := parseRecipeID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	status, err := h.statusHandler.Handle(query.GetFavoriteStatusQuery{
		UserID:   userID,
		RecipeID: recipeID,
	})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

// Add handles POST /api/favorites/{recipeId}
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	recipeID, err := parseRecipeID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	result, err := h.addHandler.Handle(command.AddFavoriteCommand{
		UserID:   userID,
		RecipeID: recipeID,
	})
	if err != nil {
		h.toggleCounter.WithLabelValues("add", "error").Inc()
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.toggleCounter.WithLabelValues("add", "ok").Inc()

	if result.Added {
		h.publishChange(r, userID, recipeID, true)
	}

	h.respondJSON(w, http.StatusOK, result)
}

// Remove handles DELETE /api/favorites/{recipeId}
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	recipeID, err := parseRecipeID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	result, err := h.removeHandler.Handle(command.RemoveFavoriteCommand{
		UserID:   userID,
		RecipeID: recipeID,
	})
	if err != nil {
		h.toggleCounter.WithLabelValues("remove", "error").Inc()
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.toggleCounter.WithLabelValues("remove", "ok").Inc()

	if result.Removed {
		h.publishChange(r, userID, recipeID, false)
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *FavoriteHandler) publishChange(r *http.Request, userID, recipeID uint, favorited bool) {
	if h.publisher == nil {
		return
	}
	event := kafka.FavoriteChangedEvent{
		UserID:    userID,
		RecipeID:  recipeID,
		Favorited: favorited,
	}
	if err := h.publisher.PublishFavoriteChanged(r.Context(), event); err != nil {
		logger.Error(r.Context()).
			Err(err).
			Uint("recipe_id", recipeID).
			Msg("Failed to publish favorite change event")
	}
}

func parseRecipeID(r *http.Request) (uint, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["recipeId"], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (h *FavoriteHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (h *FavoriteHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
