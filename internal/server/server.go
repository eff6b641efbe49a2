package server

import (
	"log/slog"
	"net/http"

	"ecommerce-dashboard/internal/handlers"
	"ecommerce-dashboard/internal/services"
)

type Server struct {
	dashboard   *services.Dashboard
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(dashboard *services.Dashboard, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		dashboard:   dashboard,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(dashboard, logger),
		sseHandlers: handlers.NewSSEHandlers(dashboard, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard page
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints, all accepting ?year=
	s.mux.HandleFunc("GET /api/years", s.apiHandlers.HandleYears)
	s.mux.HandleFunc("GET /api/dashboard", s.apiHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /api/kpis", s.apiHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /api/monthly-revenue", s.apiHandlers.HandleMonthlyRevenue)
	s.mux.HandleFunc("GET /api/category-revenue", s.apiHandlers.HandleCategoryRevenue)
	s.mux.HandleFunc("GET /api/state-revenue", s.apiHandlers.HandleStateRevenue)
	s.mux.HandleFunc("GET /api/delivery-satisfaction", s.apiHandlers.HandleDeliverySatisfaction)

	// Datastar SSE refresh for the year selector
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
