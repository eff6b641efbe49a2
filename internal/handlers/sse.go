package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"ecommerce-dashboard/internal/format"
	"ecommerce-dashboard/internal/services"
)

var kpiCardsTemplate = template.Must(template.New("kpiCards").Parse(`
<div id="kpi-cards">
<div class="metric-card"><p class="metric-label">Total Revenue</p><p class="metric-value">{{.Revenue}}</p><p class="metric-trend">{{.RevenueTrend}}</p></div>
<div class="metric-card"><p class="metric-label">Monthly Growth</p><p class="metric-value">{{.Growth}}</p><p class="metric-trend">{{.GrowthGlyph}}</p></div>
<div class="metric-card"><p class="metric-label">Average Order Value</p><p class="metric-value">{{.AOV}}</p><p class="metric-trend">{{.AOVTrend}}</p></div>
<div class="metric-card"><p class="metric-label">Total Orders</p><p class="metric-value">{{.Orders}}</p><p class="metric-trend">{{.OrdersTrend}}</p></div>
<div class="bottom-card"><p class="metric-label">Average Delivery Time</p><p class="metric-value">{{.Delivery}}</p><p class="metric-trend">{{.DeliveryTrend}}</p></div>
<div class="bottom-card"><p class="metric-value">{{.Review}}</p><p class="stars">{{.Stars}}</p><p class="metric-label">Average Review Score</p></div>
</div>`))

type kpiCardsView struct {
	Revenue       string
	RevenueTrend  string
	Growth        string
	GrowthGlyph   string
	AOV           string
	AOVTrend      string
	Orders        string
	OrdersTrend   string
	Delivery      string
	DeliveryTrend string
	Review        string
	Stars         string
}

type SSEHandlers struct {
	dashboard *services.Dashboard
	api       *APIHandlers
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		api:       NewAPIHandlers(dashboard, logger),
		logger:    logger,
	}
}

func buildKPICardsView(snap *services.Snapshot) kpiCardsView {
	kpis := snap.KPIs

	view := kpiCardsView{
		Revenue:      format.Currency(kpis.TotalRevenue.Value),
		RevenueTrend: format.Trend(kpis.TotalRevenue.Value, kpis.TotalRevenue.Prior, kpis.TotalRevenue.HasPrior),
		Growth:       format.Percent(kpis.MonthlyGrowthPct),
		GrowthGlyph:  format.Glyph(kpis.MonthlyGrowthPct),
		AOV:          format.Currency(kpis.AvgOrderValue.Value),
		AOVTrend:     format.Trend(kpis.AvgOrderValue.Value, kpis.AvgOrderValue.Prior, kpis.AvgOrderValue.HasPrior),
		Orders:       format.Count(int(kpis.TotalOrders.Value)),
		OrdersTrend:  format.Trend(kpis.TotalOrders.Value, kpis.TotalOrders.Prior, kpis.TotalOrders.HasPrior),
	}

	if kpis.AvgDeliveryDays.Available {
		view.Delivery = fmt.Sprintf("%.1f days", kpis.AvgDeliveryDays.Value)
		view.DeliveryTrend = format.Trend(kpis.AvgDeliveryDays.Value, kpis.AvgDeliveryDays.Prior, kpis.AvgDeliveryDays.HasPrior)
	} else {
		view.Delivery = format.NotApplicable
		view.DeliveryTrend = "Data not available"
	}

	if kpis.AvgReviewScore.Available {
		view.Review = fmt.Sprintf("%.1f/5.0", kpis.AvgReviewScore.Value)
		view.Stars = format.Stars(kpis.AvgReviewScore.Value)
	} else {
		view.Review = format.NotApplicable
	}

	return view
}

func renderKPICards(snap *services.Snapshot) (string, error) {
	var buf strings.Builder
	err := kpiCardsTemplate.Execute(&buf, buildKPICardsView(snap))
	return buf.String(), err
}

// HandleDashboard pushes a full refresh for the selected year: the chart
// signals as one patch, the KPI cards as rendered elements.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	year, err := h.api.SelectedYear(r)
	if err != nil {
		h.logger.Warn("invalid year on dashboard refresh", "error", err)
		sse.PatchElements(`<div id="kpi-cards">Invalid year selection</div>`)
		return
	}

	snap, err := h.dashboard.Snapshot(r.Context(), year)
	if err != nil {
		h.logger.Error("build dashboard snapshot", "year", year, "error", err)
		sse.PatchElements(`<div id="kpi-cards">Dashboard data unavailable</div>`)
		return
	}

	signals, err := json.Marshal(map[string]any{"dashboard": snap})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	html, err := renderKPICards(snap)
	if err != nil {
		h.logger.Error("render kpi cards", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
