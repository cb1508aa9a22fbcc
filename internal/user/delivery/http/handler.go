package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/panpal/panpal/internal/user/domain"
	"github.com/panpal/panpal/internal/user/usecase/command"
	"github.com/panpal/panpal/internal/user/usecase/query"
)

// userResponse is the public view of a user. The password hash never
// leaves the service.
type userResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      string    `json:"role"`
	Provider  string    `json:"provider"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		Provider:  u.Provider,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// UserHandler handles HTTP requests for users
type UserHandler struct {
	registerHandler *command.RegisterUserHandler
	loginHandler    *command.LoginUserHandler
	updateHandler   *command.UpdateProfileHandler
	getHandler      *query.GetUserHandler
	listHandler     *query.ListUsersHandler
	statsHandler    *query.GetStatsHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	loginCounter   *prometheus.CounterVec
}

// NewUserHandler creates a new user handler
func NewUserHandler(repo domain.UserRepository) *UserHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_requests_total",
			Help: "Total number of requests to user service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "user_service_request_duration_seconds",
			Help:    "Duration of user service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	loginCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(loginCounter)

	return &UserHandler{
		registerHandler: command.NewRegisterUserHandler(repo),
		loginHandler:    command.NewLoginUserHandler(repo),
		updateHandler:   command.NewUpdateProfileHandler(repo),
		getHandler:      query.NewGetUserHandler(repo),
		listHandler:     query.NewListUsersHandler(repo),
		statsHandler:    query.NewGetStatsHandler(repo),
		requestCounter:  requestCounter,
		requestLatency:  requestLatency,
		loginCounter:    loginCounter,
	}
}

// RegisterRoutes wires the user endpoints
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")

	router.HandleFunc("/auth/register",
		h.metricsMiddleware("/auth/register", h.Register)).Methods("POST")
	router.HandleFunc("/auth/login",
		h.metricsMiddleware("/auth/login", h.Login)).Methods("POST")

	router.HandleFunc("/api/users/me",
		h.metricsMiddleware("/api/users/me", AuthMiddleware(h.Me))).Methods("GET")
	router.HandleFunc("/api/users/me",
		h.metricsMiddleware("/api/users/me", AuthMiddleware(h.UpdateMe))).Methods("PUT")
	router.HandleFunc("/api/users/{id}",
		h.metricsMiddleware("/api/users/{id}", h.GetByID)).Methods("GET")

	router.HandleFunc("/api/admin/users",
		h.metricsMiddleware("/api/admin/users", AuthMiddleware(AdminMiddleware(h.List)))).Methods("GET")
	router.HandleFunc("/api/admin/stats",
		h.metricsMiddleware("/api/admin/stats", AuthMiddleware(AdminMiddleware(h.Stats)))).Methods("GET")
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (h *UserHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
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
func (h *UserHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Register handles POST /auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd command.RegisterUserCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.registerHandler.Handle(cmd)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd command.LoginUserCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.loginHandler.Handle(cmd)
	if err != nil {
		h.loginCounter.WithLabelValues("failure").Inc()
		h.respondError(w, http.StatusUnauthorized, err.Error())
		return
	}
	h.loginCounter.WithLabelValues("success").Inc()

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": resp.Token,
		"user":  toUserResponse(resp.User),
	})
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	user, err := h.getHandler.Handle(query.GetUserQuery{ID: userID})
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateMe handles PUT /api/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var cmd command.UpdateProfileCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cmd.UserID = userID

	user, err := h.updateHandler.Handle(cmd)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, toUserResponse(user))
}

// GetByID handles GET /api/users/{id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.getHandler.Handle(query.GetUserQuery{ID: uint(id)})
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, toUserResponse(user))
}

// List handles GET /api/admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.listHandler.Handle(query.ListUsersQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"users": resp,
		"count": len(resp),
	})
}

// Stats handles GET /api/admin/stats
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

func (h *UserHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (h *UserHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
