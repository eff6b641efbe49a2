package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
)

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// SelectedYear resolves the ?year= query parameter, defaulting to the
// dashboard's default year when absent.
func (h *APIHandlers) SelectedYear(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return h.dashboard.DefaultYear(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequest(fmt.Sprintf("invalid year %q", raw))
	}
	return year, nil
}

func (h *APIHandlers) snapshot(w http.ResponseWriter, r *http.Request) (*services.Snapshot, bool) {
	requestID := observability.GetRequestID(r.Context())

	year, err := h.SelectedYear(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return nil, false
	}

	snap, err := h.dashboard.Snapshot(r.Context(), year)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return nil, false
	}
	return snap, true
}

func (h *APIHandlers) HandleYears(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, map[string]any{
		"years":        h.dashboard.AvailableYears(),
		"default_year": h.dashboard.DefaultYear(),
	}, cacheHeaders)
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.snapshot(w, r); ok {
		errors.WriteSuccessWithHeaders(w, snap, cacheHeaders)
	}
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.snapshot(w, r); ok {
		errors.WriteSuccessWithHeaders(w, snap.KPIs, cacheHeaders)
	}
}

func (h *APIHandlers) HandleMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.snapshot(w, r); ok {
		errors.WriteSuccessWithHeaders(w, snap.Monthly, cacheHeaders)
	}
}

func (h *APIHandlers) HandleCategoryRevenue(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.snapshot(w, r); ok {
		errors.WriteSuccessWithHeaders(w, snap.Categories, cacheHeaders)
	}
}

func (h *APIHandlers) HandleStateRevenue(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.snapshot(w, r); ok {
		errors.WriteSuccessWithHeaders(w, snap.States, cacheHeaders)
	}
}

func (h *APIHandlers) HandleDeliverySatisfaction(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.snapshot(w, r); ok {
		errors.WriteSuccessWithHeaders(w, snap.Delivery, cacheHeaders)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}
