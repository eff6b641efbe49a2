package analytics

import (
	"fmt"
	"slices"

	"ecommerce-dashboard/internal/models"
)

const topCategories = 10

// Color scale endpoints for the category bars, light blue to dark blue.
var (
	lightBlue = [3]int{173, 216, 230}
	darkBlue  = [3]int{31, 119, 180}
)

// Delivery-time buckets in their fixed display order.
const (
	bucketFast    = "1-3 days"
	bucketMedium  = "4-7 days"
	bucketSlow    = "8+ days"
	bucketUnknown = "Unknown"
)

var bucketOrder = []string{bucketFast, bucketMedium, bucketSlow}

// MonthlyRevenueSeries sums revenue per purchase month, sorted month
// ascending. A non-empty prior dataset contributes a second series; the two
// are returned as-is even when their months do not overlap.
func MonthlyRevenueSeries(current, prior *models.SalesDataset) models.MonthlySeries {
	series := models.MonthlySeries{
		CurrentYear: current.Year,
		Current:     monthlyPoints(current),
	}
	if !prior.Empty() {
		series.PriorYear = prior.Year
		series.Prior = monthlyPoints(prior)
	}
	return series
}

func monthlyPoints(ds *models.SalesDataset) []models.MonthlyPoint {
	totals := monthlyTotals(ds)
	points := make([]models.MonthlyPoint, 0, len(totals))
	for month, revenue := range totals {
		points = append(points, models.MonthlyPoint{Month: month, Revenue: revenue})
	}
	slices.SortFunc(points, func(a, b models.MonthlyPoint) int {
		return a.Month - b.Month
	})
	return points
}

// CategoryRevenueSeries ranks the ten highest-revenue categories, ordered
// ascending by revenue so the horizontal bar chart draws the largest on top.
// Each entry carries a color interpolated on the light-to-dark scale by its
// position between the selection's min and max; when all selected values are
// equal every bar gets the midpoint color. Rows without a category are
// excluded from the grouping.
func CategoryRevenueSeries(ds *models.SalesDataset) models.CategorySeries {
	if ds == nil || !ds.Caps.HasCategory {
		return models.CategorySeries{}
	}

	totals := make(map[string]float64)
	var order []string
	for _, row := range ds.Rows {
		if row.Category == "" {
			continue
		}
		if _, seen := totals[row.Category]; !seen {
			order = append(order, row.Category)
		}
		totals[row.Category] += row.Price
	}

	entries := make([]models.CategoryRevenue, 0, len(order))
	for _, category := range order {
		entries = append(entries, models.CategoryRevenue{Category: category, Revenue: totals[category]})
	}
	slices.SortStableFunc(entries, func(a, b models.CategoryRevenue) int {
		switch {
		case a.Revenue < b.Revenue:
			return -1
		case a.Revenue > b.Revenue:
			return 1
		default:
			return 0
		}
	})
	if len(entries) > topCategories {
		entries = entries[len(entries)-topCategories:]
	}

	if len(entries) > 0 {
		minVal := entries[0].Revenue
		maxVal := entries[len(entries)-1].Revenue
		for i := range entries {
			normalized := 0.5
			if maxVal != minVal {
				normalized = (entries[i].Revenue - minVal) / (maxVal - minVal)
			}
			entries[i].Color = gradientColor(normalized)
		}
	}

	return models.CategorySeries{Available: true, Entries: entries}
}

func gradientColor(normalized float64) string {
	r := int(float64(lightBlue[0]) - float64(lightBlue[0]-darkBlue[0])*normalized)
	g := int(float64(lightBlue[1]) - float64(lightBlue[1]-darkBlue[1])*normalized)
	b := int(float64(lightBlue[2]) - float64(lightBlue[2]-darkBlue[2])*normalized)
	return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
}

// StateRevenueSeries sums revenue per customer state. No truncation: the map
// consumer colors every state it gets. Entries come back sorted by state code
// for determinism.
func StateRevenueSeries(ds *models.SalesDataset) models.StateSeries {
	if ds == nil || !ds.Caps.HasState {
		return models.StateSeries{}
	}

	totals := make(map[string]float64)
	for _, row := range ds.Rows {
		if row.CustomerState == "" {
			continue
		}
		totals[row.CustomerState] += row.Price
	}

	entries := make([]models.StateRevenue, 0, len(totals))
	for state, revenue := range totals {
		entries = append(entries, models.StateRevenue{State: state, Revenue: revenue})
	}
	slices.SortFunc(entries, func(a, b models.StateRevenue) int {
		switch {
		case a.State < b.State:
			return -1
		case a.State > b.State:
			return 1
		default:
			return 0
		}
	})

	return models.StateSeries{Available: true, Entries: entries}
}

// DeliverySatisfactionSeries averages review scores per delivery-time bucket.
// Rows with null delivery days fall into an Unknown bucket that is computed
// and then dropped from the output. Buckets come back in the fixed order
// fast, medium, slow; a bucket with no scored rows is omitted entirely.
func DeliverySatisfactionSeries(ds *models.SalesDataset) models.DeliverySeries {
	if ds == nil || !ds.Caps.HasDeliveryDays || !ds.Caps.HasReviewScore {
		return models.DeliverySeries{}
	}

	type accumulator struct {
		sum float64
		n   int
	}
	byBucket := make(map[string]*accumulator)
	for _, row := range ds.Rows {
		if row.ReviewScore == nil {
			continue
		}
		bucket := deliveryBucket(row.DeliveryDays)
		acc := byBucket[bucket]
		if acc == nil {
			acc = &accumulator{}
			byBucket[bucket] = acc
		}
		acc.sum += *row.ReviewScore
		acc.n++
	}

	var buckets []models.DeliveryBucket
	for _, name := range bucketOrder {
		if acc, ok := byBucket[name]; ok && acc.n > 0 {
			buckets = append(buckets, models.DeliveryBucket{
				Bucket:         name,
				AvgReviewScore: acc.sum / float64(acc.n),
			})
		}
	}

	return models.DeliverySeries{Available: true, Buckets: buckets}
}

func deliveryBucket(days *int) string {
	switch {
	case days == nil:
		return bucketUnknown
	case *days <= 3:
		return bucketFast
	case *days <= 7:
		return bucketMedium
	default:
		return bucketSlow
	}
}
