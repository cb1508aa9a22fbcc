package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/panpal/panpal/internal/recipe/domain"
	"github.com/panpal/panpal/internal/recipe/usecase/command"
	"github.com/panpal/panpal/internal/recipe/usecase/query"
)

// RecipeHandler handles HTTP requests for recipes
type RecipeHandler struct {
	createHandler  *command.CreateRecipeHandler
	updateHandler  *command.UpdateRecipeHandler
	deleteHandler  *command.DeleteRecipeHandler
	rateHandler    *command.RateRecipeHandler
	commentHandler *command.AddCommentHandler

	getHandler          *query.GetRecipeHandler
	listHandler         *query.ListRecipesHandler
	batchHandler        *query.ListByIDsHandler
	listCommentsHandler *query.ListCommentsHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(repo domain.RecipeRepository) *RecipeHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_service_requests_total",
			Help: "Total number of requests to recipe service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_service_request_duration_seconds",
			Help:    "Duration of recipe service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &RecipeHandler{
		createHandler:       command.NewCreateRecipeHandler(repo),
		updateHandler:       command.NewUpdateRecipeHandler(repo),
		deleteHandler:       command.NewDeleteRecipeHandler(repo),
		rateHandler:         command.NewRateRecipeHandler(repo),
		commentHandler:      command.NewAddCommentHandler(repo),
		getHandler:          query.NewGetRecipeHandler(repo),
		listHandler:         query.NewListRecipesHandler(repo),
		batchHandler:        query.NewListByIDsHandler(repo),
		listCommentsHandler: query.NewListCommentsHandler(repo),
		requestCounter:      requestCounter,
		requestLatency:      requestLatency,
	}
}

// RegisterRoutes wires the recipe endpoints
func (h *RecipeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")

	// Public read paths
	router.HandleFunc("/api/recipes",
		h.metricsMiddleware("/api/recipes", h.List)).Methods("GET")
	router.HandleFunc("/api/recipes/batch",
		h.metricsMiddleware("/api/recipes/batch", h.Batch)).Methods("POST")
	router.HandleFunc("/api/recipes/{id}",
		h.metricsMiddleware("/api/recipes/{id}", h.Get)).Methods("GET")
	router.HandleFunc("/api/recipes/{id}/comments",
		h.metricsMiddleware("/api/recipes/{id}/comments", h.ListComments)).Methods("GET")

	// Authenticated write paths
	router.HandleFunc("/api/recipes",
		h.metricsMiddleware("/api/recipes", AuthMiddleware(h.Create))).Methods("POST")
	router.HandleFunc("/api/recipes/{id}",
		h.metricsMiddleware("/api/recipes/{id}", AuthMiddleware(h.Update))).Methods("PUT")
	router.HandleFunc("/api/recipes/{id}",
		h.metricsMiddleware("/api/recipes/{id}", AuthMiddleware(h.Delete))).Methods("DELETE")
	router.HandleFunc("/api/recipes/{id}/rating",
		h.metricsMiddleware("/api/recipes/{id}/rating", AuthMiddleware(h.Rate))).Methods("POST")
	router.HandleFunc("/api/recipes/{id}/comments",
		h.metricsMiddleware("/api/recipes/{id}/comments", AuthMiddleware(h.AddComment))).Methods("POST")
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (h *RecipeHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
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
func (h *RecipeHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type recipePayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Cuisine     string  `json:"cuisine"`
	Difficulty  string  `json:"difficulty"`
	PrepMinutes int     `json:"prep_minutes"`
	CookMinutes int     `json:"cook_minutes"`
	Servings    int     `json:"servings"`
	ImageURL    string  `json:"image_url"`
	Ingredients []struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
	} `json:"ingredients"`
	Steps []struct {
		Text string `json:"text"`
	} `json:"steps"`
}

func (p recipePayload) ingredients() []command.IngredientInput {
	out := make([]command.IngredientInput, 0, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		out = append(out, command.IngredientInput{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	return out
}

func (p recipePayload) steps() []command.StepInput {
	out := make([]command.StepInput, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, command.StepInput{Text: s.Text})
	}
	return out
}

// Create handles POST /api/recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var req recipePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	recipe, err := h.createHandler.Handle(command.CreateRecipeCommand{
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Cuisine:     req.Cuisine,
		Difficulty:  req.Difficulty,
		PrepMinutes: req.PrepMinutes,
		CookMinutes: req.CookMinutes,
		Servings:    req.Servings,
		ImageURL:    req.ImageURL,
		Ingredients: req.ingredients(),
		Steps:       req.steps(),
	})
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, recipe)
}

// Get handles GET /api/recipes/{id}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	recipe, err := h.getHandler.Handle(query.GetRecipeQuery{ID: id})
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, recipe)
}

// List handles GET /api/recipes
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	limit, _ := strconv.Atoi(params.Get("limit"))
	offset, _ := strconv.Atoi(params.Get("offset"))
	maxMinutes, _ := strconv.Atoi(params.Get("max_minutes"))
	authorID, _ := strconv.ParseUint(params.Get("author_id"), 10, 32)

	page, err := h.listHandler.Handle(query.ListRecipesQuery{
		Search:     params.Get("search"),
		Cuisine:    params.Get("cuisine"),
		Difficulty: params.Get("difficulty"),
		AuthorID:   uint(authorID),
		MaxMinutes: maxMinutes,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

// Batch handles POST /api/recipes/batch
func (h *RecipeHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	recipes, err := h.batchHandler.Handle(query.ListByIDsQuery{IDs: req.IDs})
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// Update handles PUT /api/recipes/{id}
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	var req recipePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	recipe, err := h.updateHandler.Handle(command.UpdateRecipeCommand{
		ID:          id,
		EditorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Cuisine:     req.Cuisine,
		Difficulty:  req.Difficulty,
		PrepMinutes: req.PrepMinutes,
		CookMinutes: req.CookMinutes,
		Servings:    req.Servings,
		ImageURL:    req.ImageURL,
		Ingredients: req.ingredients(),
		Steps:       req.steps(),
	})
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, recipe)
}

// Delete handles DELETE /api/recipes/{id}
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	role, _ := r.Context().Value(RoleKey).(string)

	id, err := parseID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	err = h.deleteHandler.Handle(command.DeleteRecipeCommand{
		ID:          id,
		RequesterID: userID,
		IsAdmin:     role == "admin",
	})
	if err != nil {
		h.respondError(w, http.StatusForbidden, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Recipe deleted successfully"})
}

// Rate handles POST /api/recipes/{id}/rating
func (h *RecipeHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	var req struct {
		Score int `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	recipe, err := h.rateHandler.Handle(command.RateRecipeCommand{
		RecipeID: id,
		UserID:   userID,
		Score:    req.Score,
	})
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, recipe)
}

// AddComment handles POST /api/recipes/{id}/comments
func (h *RecipeHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.commentHandler.Handle(command.AddCommentCommand{
		RecipeID: id,
		UserID:   userID,
		Body:     req.Body,
	})
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, comment)
}

// ListComments handles GET /api/recipes/{id}/comments
func (h *RecipeHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	params := r.URL.Query()
	limit, _ := strconv.Atoi(params.Get("limit"))
	offset, _ := strconv.Atoi(params.Get("offset"))

	comments, err := h.listCommentsHandler.Handle(query.ListCommentsQuery{
		RecipeID: id,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"comments": comments,
		"count":    len(comments),
	})
}

func parseID(r *http.Request) (uint, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (h *RecipeHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (h *RecipeHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
