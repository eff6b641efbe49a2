package analytics

import (
	"math"
	"testing"

	"ecommerce-dashboard/internal/models"
)

const epsilon = 1e-9

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool { return math.Abs(a-b) < epsilon }

var allCaps = models.Capabilities{
	HasCategory:     true,
	HasState:        true,
	HasDeliveryDays: true,
	HasReviewScore:  true,
}

func testDataset(year int, rows ...models.OrderLineItem) *models.SalesDataset {
	return &models.SalesDataset{
		Year:   year,
		Status: "delivered",
		Rows:   rows,
		Caps:   allCaps,
	}
}

func row(orderID string, month int, price float64) models.OrderLineItem {
	return models.OrderLineItem{
		OrderID:       orderID,
		PurchaseYear:  2023,
		PurchaseMonth: month,
		Price:         price,
		Status:        "delivered",
	}
}

func TestTotalRevenue(t *testing.T) {
	ds := testDataset(2023,
		row("A", 1, 10.5),
		row("A", 1, 20),
		row("B", 2, 30),
	)

	if got := TotalRevenue(ds); !almostEqual(got, 60.5) {
		t.Errorf("TotalRevenue = %v, want 60.5", got)
	}
	if got := TotalRevenue(testDataset(2023)); got != 0 {
		t.Errorf("TotalRevenue on empty dataset = %v, want 0", got)
	}
}

func TestTotalOrders_CountsDistinctIDs(t *testing.T) {
	ds := testDataset(2023,
		row("A", 1, 10),
		row("A", 1, 20),
		row("B", 2, 30),
		row("C", 3, 40),
	)

	if got := TotalOrders(ds); got != 3 {
		t.Errorf("TotalOrders = %d, want 3", got)
	}
}

func TestAvgOrderValue_GroupedPath(t *testing.T) {
	// Orders A (10+20=30) and B (30): average of per-order sums is 30.
	ds := testDataset(2023,
		row("A", 1, 10),
		row("A", 1, 20),
		row("B", 2, 30),
	)

	if got := AvgOrderValue(ds); !almostEqual(got, 30) {
		t.Errorf("AvgOrderValue = %v, want 30", got)
	}
	if got := AvgOrderValue(testDataset(2023)); got != 0 {
		t.Errorf("AvgOrderValue on empty dataset = %v, want 0", got)
	}
}

func TestAggregationPathsAgree(t *testing.T) {
	// On well-formed data the grouped average equals revenue/orders, and
	// total revenue equals the re-summed per-order sums.
	ds := testDataset(2023,
		row("A", 1, 12.34),
		row("A", 1, 56.78),
		row("B", 2, 90.12),
		row("C", 2, 34.56),
		row("C", 3, 78.90),
	)

	grouped := AvgOrderValue(ds)
	shortcut := TotalRevenue(ds) / float64(TotalOrders(ds))
	if !almostEqual(grouped, shortcut) {
		t.Errorf("grouped AOV %v != revenue/orders %v", grouped, shortcut)
	}

	perOrder := make(map[string]float64)
	for _, r := range ds.Rows {
		perOrder[r.OrderID] += r.Price
	}
	var resummed float64
	for _, sum := range perOrder {
		resummed += sum
	}
	if !almostEqual(TotalRevenue(ds), resummed) {
		t.Errorf("TotalRevenue %v != re-summed per-order totals %v", TotalRevenue(ds), resummed)
	}
}

func TestMonthlyGrowth(t *testing.T) {
	t.Run("mean of successive changes", func(t *testing.T) {
		// Months 1:100, 2:150, 3:120 -> +50% then -20% -> mean 15%.
		ds := testDataset(2023,
			row("A", 1, 100),
			row("B", 2, 150),
			row("C", 3, 120),
		)
		if got := MonthlyGrowth(ds, nil); !almostEqual(got, 15) {
			t.Errorf("MonthlyGrowth = %v, want 15", got)
		}
	})

	t.Run("month gaps are skipped not zero-filled", func(t *testing.T) {
		// Months 1:100 and 3:200 with month 2 missing: one step, +100%.
		ds := testDataset(2023,
			row("A", 1, 100),
			row("B", 3, 200),
		)
		if got := MonthlyGrowth(ds, nil); !almostEqual(got, 100) {
			t.Errorf("MonthlyGrowth = %v, want 100", got)
		}
	})

	t.Run("single month compares same month of prior year", func(t *testing.T) {
		current := testDataset(2023, row("A", 5, 200))
		prior := testDataset(2022,
			row("P1", 5, 100),
			row("P2", 6, 400),
		)
		if got := MonthlyGrowth(current, prior); !almostEqual(got, 100) {
			t.Errorf("MonthlyGrowth = %v, want 100", got)
		}
	})

	t.Run("single month with zero prior baseline yields zero", func(t *testing.T) {
		current := testDataset(2023, row("A", 5, 200))
		prior := testDataset(2022, row("P1", 6, 400)) // nothing in month 5
		got := MonthlyGrowth(current, prior)
		if got != 0 || math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("MonthlyGrowth = %v, want 0", got)
		}
	})

	t.Run("single month with empty prior yields zero", func(t *testing.T) {
		current := testDataset(2023, row("A", 5, 200))
		if got := MonthlyGrowth(current, nil); got != 0 {
			t.Errorf("MonthlyGrowth = %v, want 0", got)
		}
	})
}

func TestComputeKPIs_Trends(t *testing.T) {
	current := testDataset(2023,
		row("A", 1, 100),
		row("B", 2, 50),
	)
	prior := testDataset(2022,
		row("P1", 1, 100),
	)

	set := ComputeKPIs(current, prior)

	if !set.TotalRevenue.HasPrior {
		t.Fatal("TotalRevenue should have a prior value")
	}
	pct, ok := set.TotalRevenue.Trend()
	if !ok {
		t.Fatal("TotalRevenue trend should be defined")
	}
	if !almostEqual(pct, 50) {
		t.Errorf("TotalRevenue trend = %v, want 50", pct)
	}
}

func TestComputeKPIs_NoPriorMeansNoTrend(t *testing.T) {
	current := testDataset(2023, row("A", 1, 100))

	set := ComputeKPIs(current, nil)

	if set.TotalRevenue.HasPrior {
		t.Error("TotalRevenue should not have a prior value")
	}
	if _, ok := set.TotalRevenue.Trend(); ok {
		t.Error("trend should be undefined without a prior dataset")
	}
}

func TestKPIValueTrend_ZeroBaseline(t *testing.T) {
	v := models.KPIValue{Value: 100, Prior: 0, HasPrior: true}
	if _, ok := v.Trend(); ok {
		t.Error("trend with zero baseline should be undefined")
	}
}

func TestComputeKPIs_DeliveryAndReviewAverages(t *testing.T) {
	withDelivery := func(r models.OrderLineItem, days int, score float64) models.OrderLineItem {
		r.DeliveryDays = intPtr(days)
		r.ReviewScore = floatPtr(score)
		return r
	}

	current := testDataset(2023,
		withDelivery(row("A", 1, 100), 2, 5),
		withDelivery(row("B", 1, 100), 6, 3),
		row("C", 2, 100), // no delivery, no review
	)

	set := ComputeKPIs(current, nil)

	if !set.AvgDeliveryDays.Available {
		t.Fatal("AvgDeliveryDays should be available")
	}
	if !almostEqual(set.AvgDeliveryDays.Value, 4) {
		t.Errorf("AvgDeliveryDays = %v, want 4", set.AvgDeliveryDays.Value)
	}
	if !set.AvgReviewScore.Available {
		t.Fatal("AvgReviewScore should be available")
	}
	if !almostEqual(set.AvgReviewScore.Value, 4) {
		t.Errorf("AvgReviewScore = %v, want 4", set.AvgReviewScore.Value)
	}
}

func TestComputeKPIs_UnavailableColumns(t *testing.T) {
	ds := &models.SalesDataset{
		Year:   2023,
		Status: "delivered",
		Rows:   []models.OrderLineItem{row("A", 1, 100)},
		Caps:   models.Capabilities{}, // nothing optional present
	}

	set := ComputeKPIs(ds, nil)

	if set.AvgDeliveryDays.Available {
		t.Error("AvgDeliveryDays should be unavailable without the column")
	}
	if set.AvgReviewScore.Available {
		t.Error("AvgReviewScore should be unavailable without the column")
	}
}

func TestComputeKPIs_AllNullDeliveryIsUnavailable(t *testing.T) {
	// Capability on, but no row carries a delivered timestamp.
	set := ComputeKPIs(testDataset(2023, row("A", 1, 100)), nil)

	if set.AvgDeliveryDays.Available {
		t.Error("AvgDeliveryDays should be unavailable with no non-null values")
	}
}
