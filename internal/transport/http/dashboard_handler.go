package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/errors"
)

// DashboardHandler serves the chart aggregation endpoints.
type DashboardHandler struct {
	service      DashboardService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
		validate:     validator.New(),
	}
}

// Routes returns the router for the dashboard endpoints.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/data", h.Data)
	r.Get("/students_by_sport", h.StudentsBySport)
	r.Get("/winners", h.Winners)
	r.Get("/department", h.Department)
	r.Get("/budget", h.Budget)
	r.Get("/operations", h.Operations)
	return r
}

// dataQuery carries the main dashboard filters. The upper-case GENDER and
// mixed-case School parameter names match what the frontend sends.
type dataQuery struct {
	Gender string `validate:"omitempty,max=64"`
	School string `validate:"omitempty,max=128"`
}

// Data handles GET /api/data with optional gender and school filters.
func (h *DashboardHandler) Data(w http.ResponseWriter, r *http.Request) {
	q := dataQuery{
		Gender: r.URL.Query().Get("GENDER"),
		School: r.URL.Query().Get("School"),
	}
	if err := h.validate.Struct(q); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			"INVALID_INPUT", "Invalid input provided", err.Error(), http.StatusBadRequest))
		return
	}

	data, err := h.service.Dashboard(r.Context(), q.Gender, q.School)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, data)
}

// sportQuery carries the drill-down sport selector.
type sportQuery struct {
	Sport string `validate:"required,max=64"`
}

// StudentsBySport handles GET /api/students_by_sport?sport=.
func (h *DashboardHandler) StudentsBySport(w http.ResponseWriter, r *http.Request) {
	q := sportQuery{Sport: strings.TrimSpace(r.URL.Query().Get("sport"))}
	if err := h.validate.Struct(q); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			"INVALID_INPUT", "Invalid input provided", "sport parameter is required", http.StatusBadRequest))
		return
	}

	records, err := h.service.StudentsBySport(r.Context(), q.Sport)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, records)
}

// Winners handles GET /api/winners?sport=.
func (h *DashboardHandler) Winners(w http.ResponseWriter, r *http.Request) {
	q := sportQuery{Sport: strings.TrimSpace(r.URL.Query().Get("sport"))}
	if err := h.validate.Struct(q); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			"INVALID_INPUT", "Invalid input provided", "sport parameter is required", http.StatusBadRequest))
		return
	}

	records, err := h.service.WinnersBySport(r.Context(), q.Sport)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, records)
}

// departmentQuery carries the department view parameters.
type departmentQuery struct {
	Month string `validate:"omitempty,max=32"`
	Tab   string `validate:"omitempty,max=64"`
	Limit int    `validate:"omitempty,min=0,max=1000"`
}

// Department handles GET /api/department?month=&tab=&limit=.
func (h *DashboardHandler) Department(w http.ResponseWriter, r *http.Request) {
	q := departmentQuery{
		Month: strings.TrimSpace(r.URL.Query().Get("month")),
		Tab:   strings.TrimSpace(r.URL.Query().Get("tab")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				"INVALID_INPUT", "Invalid input provided", "limit must be an integer", http.StatusBadRequest))
			return
		}
		q.Limit = limit
	}
	if err := h.validate.Struct(q); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			"INVALID_INPUT", "Invalid input provided", err.Error(), http.StatusBadRequest))
		return
	}

	data, err := h.service.Department(r.Context(), q.Month, q.Tab, q.Limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, data)
}

// Budget handles GET /api/budget.
func (h *DashboardHandler) Budget(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Budget(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, data)
}

// Operations handles GET /api/operations?tab=.
func (h *DashboardHandler) Operations(w http.ResponseWriter, r *http.Request) {
	tab := strings.TrimSpace(r.URL.Query().Get("tab"))

	data, err := h.service.Operations(r.Context(), tab)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, data)
}
