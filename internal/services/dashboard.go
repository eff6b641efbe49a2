// Package services hosts the dashboard shell: it owns the loaded raw tables,
// memoizes filtered datasets, and assembles render-ready snapshots. The
// analytics core below it stays cache-free and purely functional.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ecommerce-dashboard/internal/analytics"
	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/ingest"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
)

type datasetKey struct {
	Year   int
	Status string
}

// Dashboard memoizes dataset builds per (year, status) pair. The cache is
// invalidated whenever Load runs, so a source-directory change starts clean.
type Dashboard struct {
	mu          sync.RWMutex
	loader      *ingest.Loader
	logger      *slog.Logger
	status      string
	defaultYear int

	dataDir  string
	raw      *ingest.RawTables
	years    []int
	datasets map[datasetKey]*models.SalesDataset
	loadedAt time.Time
}

func NewDashboard(loader *ingest.Loader, status string, defaultYear int, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		loader:      loader,
		logger:      logger,
		status:      status,
		defaultYear: defaultYear,
		datasets:    make(map[datasetKey]*models.SalesDataset),
	}
}

// Load reads the raw tables from dir and resets the dataset cache. A failure
// here is fatal to the dashboard; nothing downstream is computed.
func (d *Dashboard) Load(ctx context.Context, dir string) error {
	ctx, span := observability.StartSpan(ctx, "dashboard.load")
	defer span.Finish()
	span.SetTag("data_dir", dir)

	raw, err := d.loader.Load(ctx, dir)
	if err != nil {
		span.SetError(err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.dataDir = dir
	d.raw = raw
	d.years = raw.Years()
	d.datasets = make(map[datasetKey]*models.SalesDataset)
	d.loadedAt = time.Now()

	d.logger.Info("dashboard data ready", "years", d.years, "status_filter", d.status)
	return nil
}

// AvailableYears lists the selectable years, newest first.
func (d *Dashboard) AvailableYears() []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.years)
}

// DefaultYear is the configured default when it exists in the data,
// otherwise the newest available year.
func (d *Dashboard) DefaultYear() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if slices.Contains(d.years, d.defaultYear) {
		return d.defaultYear
	}
	if len(d.years) > 0 {
		return d.years[0]
	}
	return 0
}

func (d *Dashboard) dataset(ctx context.Context, year int) *models.SalesDataset {
	key := datasetKey{Year: year, Status: d.status}

	d.mu.RLock()
	ds, cached := d.datasets[key]
	d.mu.RUnlock()
	if cached {
		return ds
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if ds, cached = d.datasets[key]; cached {
		return ds
	}

	_, span := observability.StartSpan(ctx, "dashboard.build_dataset")
	defer span.Finish()
	span.SetTag("year", fmt.Sprintf("%d", year))
	span.SetTag("status", d.status)

	ds = ingest.BuildSalesDataset(d.raw, year, d.status)
	d.datasets[key] = ds
	return ds
}

// Snapshot is everything one dashboard render needs for the selected year.
type Snapshot struct {
	Year        int                   `json:"year"`
	PriorYear   int                   `json:"prior_year,omitempty"`
	HasPrior    bool                  `json:"has_prior"`
	KPIs        models.KPISet         `json:"kpis"`
	Monthly     models.MonthlySeries  `json:"monthly_revenue"`
	Categories  models.CategorySeries `json:"category_revenue"`
	States      models.StateSeries    `json:"state_revenue"`
	Delivery    models.DeliverySeries `json:"delivery_satisfaction"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// Snapshot builds the current and prior-year datasets and runs the KPI engine
// plus all four chart aggregators concurrently. The aggregators are pure and
// read only their own dataset arguments, so no locking is needed beyond the
// dataset cache.
func (d *Dashboard) Snapshot(ctx context.Context, year int) (*Snapshot, error) {
	d.mu.RLock()
	loaded := d.raw != nil
	hasYear := slices.Contains(d.years, year)
	hasPrior := slices.Contains(d.years, year-1)
	d.mu.RUnlock()

	if !loaded {
		return nil, errors.DataUnavailable(nil, "raw tables not loaded")
	}
	if !hasYear {
		return nil, errors.NotFound(fmt.Sprintf("no data for year %d", year))
	}

	current := d.dataset(ctx, year)
	var prior *models.SalesDataset
	if hasPrior {
		prior = d.dataset(ctx, year-1)
	}

	snap := &Snapshot{
		Year:        year,
		HasPrior:    hasPrior,
		GeneratedAt: time.Now().UTC(),
	}
	if hasPrior {
		snap.PriorYear = year - 1
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.KPIs = analytics.ComputeKPIs(current, prior)
		return nil
	})
	g.Go(func() error {
		snap.Monthly = analytics.MonthlyRevenueSeries(current, prior)
		return nil
	})
	g.Go(func() error {
		snap.Categories = analytics.CategoryRevenueSeries(current)
		return nil
	})
	g.Go(func() error {
		snap.States = analytics.StateRevenueSeries(current)
		return nil
	})
	g.Go(func() error {
		snap.Delivery = analytics.DeliverySatisfactionSeries(current)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}

// Stats backs the admin endpoint.
func (d *Dashboard) Stats() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := map[string]any{
		"status_filter":   d.status,
		"years":           slices.Clone(d.years),
		"datasets_cached": len(d.datasets),
		"loaded_at":       d.loadedAt,
	}
	if d.raw != nil {
		stats["orders"] = len(d.raw.Orders)
		stats["line_items"] = len(d.raw.Items)
	}
	return stats
}
