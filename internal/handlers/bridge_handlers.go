package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"bridge-platform/internal/repository"
	"bridge-platform/internal/services"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

// Pagination bounds for list endpoints.
const (
	defaultLimit = 100
	maxLimit     = 1000
)

// BridgeHandler handles bridge API endpoints
type BridgeHandler struct {
	bridgeService *services.BridgeService
	statsService  *services.StatisticsService
	logger        *logging.StructuredLogger
	metrics       *metrics.Collector
}

// NewBridgeHandler creates a new bridge handler
func NewBridgeHandler(
	bridgeService *services.BridgeService,
	statsService *services.StatisticsService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *BridgeHandler {
	return &BridgeHandler{
		bridgeService: bridgeService,
		statsService:  statsService,
		logger:        logger,
		metrics:       metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// ListStructures handles GET /api/structures
func (h *BridgeHandler) ListStructures(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/structures"
	defer h.observe(endpoint, time.Now())
	ctx := r.Context()

	page, limit := parsePagination(r)
	filter := repository.StructureFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if state := r.URL.Query().Get("state"); state != "" {
		filter.StateCode = &state
	}
	if county := r.URL.Query().Get("county"); county != "" {
		filter.CountyCode = &county
	}

	structures, total, err := h.bridgeService.ListStructures(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_LIST_STRUCTURES_ERROR] Failed to list structures", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", endpoint)
		h.sendError(w, r, endpoint, "failed to retrieve structures", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest(endpoint, "GET", "200")
	h.sendJSON(w, paginate(structures, total, page, limit), http.StatusOK)
}

// GetStructure handles GET /api/structures/{number}
func (h *BridgeHandler) GetStructure(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/structures/{number}"
	defer h.observe(endpoint, time.Now())
	ctx := r.Context()

	number := mux.Vars(r)["number"]

	structure, err := h.bridgeService.GetStructure(ctx, number)
	if err != nil {
		h.handleLookupError(w, r, endpoint, "structure", err)
		return
	}

	h.metrics.RecordAPIRequest(endpoint, "GET", "200")
	h.sendJSON(w, structure, http.StatusOK)
}

// GetStructureInspections handles GET /api/structures/{number}/inspections
func (h *BridgeHandler) GetStructureInspections(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/structures/{number}/inspections"
	defer h.observe(endpoint, time.Now())
	ctx := r.Context()

	number := mux.Vars(r)["number"]
	page, limit := parsePagination(r)

	inspections, total, err := h.bridgeService.StructureInspections(ctx, number, limit, (page-1)*limit)
	if err != nil {
		h.handleLookupError(w, r, endpoint, "inspections", err)
		return
	}

	h.metrics.RecordAPIRequest(endpoint, "GET", "200")
	h.sendJSON(w, paginate(inspections, total, page, limit), http.StatusOK)
}

// ListInspections handles GET /api/inspections
func (h *BridgeHandler) ListInspections(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/inspections"
	defer h.observe(endpoint, time.Now())
	ctx := r.Context()

	page, limit := parsePagination(r)
	filter := repository.InspectionFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if number := r.URL.Query().Get("structure_number"); number != "" {
		filter.StructureNumber = &number
	}

	year, ok := h.parseYear(w, r, endpoint)
	if !ok {
		return
	}
	filter.Year = year

	inspections, total, err := h.bridgeService.ListInspections(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_LIST_INSPECTIONS_ERROR] Failed to list inspections", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", endpoint)
		h.sendError(w, r, endpoint, "failed to retrieve inspections", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest(endpoint, "GET", "200")
	h.sendJSON(w, paginate(inspections, total, page, limit), http.StatusOK)
}

// GetConditionSummary handles GET /api/inspections/summary
func (h *BridgeHandler) GetConditionSummary(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/inspections/summary"
	defer h.observe(endpoint, time.Now())
	ctx := r.Context()

	year, ok := h.parseYear(w, r, endpoint)
	if !ok {
		return
	}

	reports, err := h.statsService.ConditionReports(ctx, year)
	if err != nil {
		h.logger.Error(ctx, "[API_CONDITION_SUMMARY_ERROR] Failed to summarize conditions", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", endpoint)
		h.sendError(w, r, endpoint, "failed to summarize conditions", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest(endpoint, "GET", "200")
	h.sendJSON(w, map[string]interface{}{"data": reports}, http.StatusOK)
}

// ListDimension handles GET /api/dimensions/{table}
func (h *BridgeHandler) ListDimension(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/dimensions/{table}"
	defer h.observe(endpoint, time.Now())
	ctx := r.Context()

	entries, err := h.bridgeService.ListDimension(ctx, mux.Vars(r)["table"])
	if err != nil {
		h.handleLookupError(w, r, endpoint, "dimension", err)
		return
	}

	h.metrics.RecordAPIRequest(endpoint, "GET", "200")
	h.sendJSON(w, map[string]interface{}{"data": entries}, http.StatusOK)
}

// ListConditionRatings handles GET /api/condition-ratings
func (h *BridgeHandler) ListConditionRatings(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/condition-ratings"
	defer h.observe(endpoint, time.Now())
	ctx := r.Context()

	ratings, err := h.bridgeService.ListConditionRatings(ctx)
	if err != nil {
		h.handleLookupError(w, r, endpoint, "condition ratings", err)
		return
	}

	h.metrics.RecordAPIRequest(endpoint, "GET", "200")
	h.sendJSON(w, map[string]interface{}{"data": ratings}, http.StatusOK)
}

// ListMetadata handles GET /api/metadata
func (h *BridgeHandler) ListMetadata(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/metadata"
	defer h.observe(endpoint, time.Now())
	ctx := r.Context()

	var table *string
	if t := r.URL.Query().Get("table"); t != "" {
		table = &t
	}

	docs, err := h.bridgeService.ListMetadata(ctx, table)
	if err != nil {
		h.handleLookupError(w, r, endpoint, "metadata", err)
		return
	}

	h.metrics.RecordAPIRequest(endpoint, "GET", "200")
	h.sendJSON(w, map[string]interface{}{"data": docs}, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *BridgeHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK

	if err := h.bridgeService.HealthCheck(ctx); err != nil {
		h.logger.Warn(ctx, "[HEALTH_CHECK_FAILED] Database unreachable", logging.Fields{
			"error": err.Error(),
		})
		status["status"] = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, code)
}

// handleLookupError maps not-found errors to 404 and everything else to 500.
func (h *BridgeHandler) handleLookupError(w http.ResponseWriter, r *http.Request, endpoint, resource string, err error) {
	var notFound *repository.NotFoundError
	if errors.As(err, &notFound) {
		h.sendError(w, r, endpoint, notFound.Error(), http.StatusNotFound)
		return
	}

	h.logger.Error(r.Context(), "[API_LOOKUP_ERROR] Failed to retrieve "+resource, logging.Fields{
		"endpoint": endpoint,
	}, err)
	h.metrics.RecordAPIError("internal_error", endpoint)
	h.sendError(w, r, endpoint, "failed to retrieve "+resource, http.StatusInternalServerError)
}

// parseYear reads the optional year query parameter. On a bad value it
// writes a 400 and returns false.
func (h *BridgeHandler) parseYear(w http.ResponseWriter, r *http.Request, endpoint string) (*int, bool) {
	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		return nil, true
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 0 {
		h.sendError(w, r, endpoint, "invalid year, expected a non-negative integer", http.StatusBadRequest)
		return nil, false
	}
	return &year, true
}

func (h *BridgeHandler) observe(endpoint string, start time.Time) {
	h.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func parsePagination(r *http.Request) (page, limit int) {
	page, limit = 1, defaultLimit

	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= maxLimit {
		limit = l
	}
	return page, limit
}

func paginate(data interface{}, total, page, limit int) PaginatedResponse {
	return PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
}

// sendJSON sends a JSON response
func (h *BridgeHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *BridgeHandler) sendError(w http.ResponseWriter, r *http.Request, endpoint, message string, statusCode int) {
	h.metrics.RecordAPIRequest(endpoint, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RequestID tags each request with an id, taken from X-Request-ID when the
// client sent one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// RegisterRoutes registers all bridge API routes
func (h *BridgeHandler) RegisterRoutes(router *mux.Router) {
	router.Use(RequestID)

	router.HandleFunc("/api/structures", h.ListStructures).Methods("GET")
	router.HandleFunc("/api/structures/{number}", h.GetStructure).Methods("GET")
	router.HandleFunc("/api/structures/{number}/inspections", h.GetStructureInspections).Methods("GET")
	router.HandleFunc("/api/inspections", h.ListInspections).Methods("GET")
	router.HandleFunc("/api/inspections/summary", h.GetConditionSummary).Methods("GET")
	router.HandleFunc("/api/dimensions/{table}", h.ListDimension).Methods("GET")
	router.HandleFunc("/api/condition-ratings", h.ListConditionRatings).Methods("GET")
	router.HandleFunc("/api/metadata", h.ListMetadata).Methods("GET")
	router.HandleFunc("/api/docs/openapi.json", OpenAPISpec).Methods("GET")
	router.HandleFunc("/api/docs", SwaggerUI).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
