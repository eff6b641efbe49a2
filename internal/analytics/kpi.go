// Package analytics computes the headline KPIs and the chart series from a
// flat sales dataset. Every function is pure: it reads only its dataset
// arguments and returns fresh values, so callers are free to run them
// concurrently.
package analytics

import (
	"slices"

	"ecommerce-dashboard/internal/models"
)

// ComputeKPIs derives the headline metrics for the current dataset and pairs
// each with its prior-year counterpart when a prior dataset is supplied.
func ComputeKPIs(current, prior *models.SalesDataset) models.KPISet {
	set := models.KPISet{
		TotalRevenue:  models.KPIValue{Value: TotalRevenue(current), Available: true},
		TotalOrders:   models.KPIValue{Value: float64(TotalOrders(current)), Available: true},
		AvgOrderValue: models.KPIValue{Value: AvgOrderValue(current), Available: true},
	}

	if !prior.Empty() {
		set.TotalRevenue.Prior, set.TotalRevenue.HasPrior = TotalRevenue(prior), true
		set.TotalOrders.Prior, set.TotalOrders.HasPrior = float64(TotalOrders(prior)), true
		set.AvgOrderValue.Prior, set.AvgOrderValue.HasPrior = AvgOrderValue(prior), true
	}

	set.MonthlyGrowthPct = MonthlyGrowth(current, prior)

	set.AvgDeliveryDays = pairedAverage(current, prior, avgDeliveryDays)
	set.AvgReviewScore = pairedAverage(current, prior, avgReviewScore)

	return set
}

// TotalRevenue is the sum of line-item prices over the whole dataset.
func TotalRevenue(ds *models.SalesDataset) float64 {
	var total float64
	if ds == nil {
		return 0
	}
	for _, row := range ds.Rows {
		total += row.Price
	}
	return total
}

// TotalOrders counts distinct order ids.
func TotalOrders(ds *models.SalesDataset) int {
	if ds == nil {
		return 0
	}
	seen := make(map[string]struct{}, len(ds.Rows))
	for _, row := range ds.Rows {
		seen[row.OrderID] = struct{}{}
	}
	return len(seen)
}

// AvgOrderValue groups line items by order, sums each order's prices and
// averages the sums. The grouped path is deliberate: it diverges from
// revenue/orders on malformed data and the grouped behavior is the contract.
func AvgOrderValue(ds *models.SalesDataset) float64 {
	if ds.Empty() {
		return 0
	}
	perOrder := make(map[string]float64)
	for _, row := range ds.Rows {
		perOrder[row.OrderID] += row.Price
	}
	if len(perOrder) == 0 {
		return 0
	}
	var total float64
	for _, sum := range perOrder {
		total += sum
	}
	return total / float64(len(perOrder))
}

// MonthlyGrowth is the mean of successive month-over-month revenue changes
// within the current year, computed over the months actually present (gaps
// are skipped, not zero-filled). With a single distinct month it falls back
// to comparing that month against the same month of the prior year; when that
// baseline is zero or the prior dataset is empty the growth is 0.
func MonthlyGrowth(current, prior *models.SalesDataset) float64 {
	totals := monthlyTotals(current)
	months := make([]int, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	slices.Sort(months)

	if len(months) > 1 {
		var sum float64
		var steps int
		for i := 1; i < len(months); i++ {
			base := totals[months[i-1]]
			if base == 0 {
				continue
			}
			sum += (totals[months[i]] - base) / base * 100
			steps++
		}
		if steps == 0 {
			return 0
		}
		return sum / float64(steps)
	}

	if len(months) == 0 || prior.Empty() {
		return 0
	}

	month := months[0]
	var priorSameMonth float64
	for _, row := range prior.Rows {
		if row.PurchaseMonth == month {
			priorSameMonth += row.Price
		}
	}
	if priorSameMonth <= 0 {
		return 0
	}
	return (totals[month] - priorSameMonth) / priorSameMonth * 100
}

func monthlyTotals(ds *models.SalesDataset) map[int]float64 {
	totals := make(map[int]float64)
	if ds == nil {
		return totals
	}
	for _, row := range ds.Rows {
		totals[row.PurchaseMonth] += row.Price
	}
	return totals
}

type datasetAverage func(ds *models.SalesDataset) (value float64, ok bool)

func pairedAverage(current, prior *models.SalesDataset, avg datasetAverage) models.KPIValue {
	var v models.KPIValue
	v.Value, v.Available = avg(current)
	if !prior.Empty() {
		v.Prior, v.HasPrior = avg(prior)
	}
	return v
}

// avgDeliveryDays averages the non-null delivery days. ok is false when the
// dataset has no delivery data at all, which the cards report as unavailable.
func avgDeliveryDays(ds *models.SalesDataset) (float64, bool) {
	if ds.Empty() || !ds.Caps.HasDeliveryDays {
		return 0, false
	}
	var sum float64
	var n int
	for _, row := range ds.Rows {
		if row.DeliveryDays != nil {
			sum += float64(*row.DeliveryDays)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func avgReviewScore(ds *models.SalesDataset) (float64, bool) {
	if ds.Empty() || !ds.Caps.HasReviewScore {
		return 0, false
	}
	var sum float64
	var n int
	for _, row := range ds.Rows {
		if row.ReviewScore != nil {
			sum += *row.ReviewScore
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
