package models

// OrderLineItem is one purchased item of an order. An order with three items
// yields three rows sharing the same OrderID, so OrderID is not unique.
type OrderLineItem struct {
	OrderID       string   `json:"order_id"`
	PurchaseYear  int      `json:"purchase_year"`
	PurchaseMonth int      `json:"purchase_month"`
	Price         float64  `json:"price"`
	Category      string   `json:"product_category_name,omitempty"`
	CustomerState string   `json:"customer_state,omitempty"`
	DeliveryDays  *int     `json:"delivery_days,omitempty"`
	ReviewScore   *float64 `json:"review_score,omitempty"`
	Status        string   `json:"order_status"`
}

// Capabilities records which optional columns the dataset actually carries.
// It is populated once when the dataset is built; aggregators consult it
// instead of probing rows.
type Capabilities struct {
	HasCategory     bool `json:"has_category"`
	HasState        bool `json:"has_state"`
	HasDeliveryDays bool `json:"has_delivery_days"`
	HasReviewScore  bool `json:"has_review_score"`
}

// SalesDataset is the flat line-item table for a single (year, status) pair.
// It is immutable after construction.
type SalesDataset struct {
	Year   int             `json:"year"`
	Status string          `json:"status"`
	Rows   []OrderLineItem `json:"rows"`
	Caps   Capabilities    `json:"capabilities"`
}

func (d *SalesDataset) Empty() bool {
	return d == nil || len(d.Rows) == 0
}

// KPIValue pairs a metric with its prior-period counterpart. Available is
// false when the underlying column has no data; HasPrior is false when the
// prior period is empty or the prior metric itself is unavailable.
type KPIValue struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
	Prior     float64 `json:"prior,omitempty"`
	HasPrior  bool    `json:"has_prior"`
}

// Trend returns the percentage change against the prior period. ok is false
// when the prior value is zero or missing; callers render "N/A" in that case
// rather than dividing.
func (v KPIValue) Trend() (pct float64, ok bool) {
	if !v.HasPrior || v.Prior == 0 {
		return 0, false
	}
	return (v.Value - v.Prior) / v.Prior * 100, true
}

type KPISet struct {
	TotalRevenue     KPIValue `json:"total_revenue"`
	TotalOrders      KPIValue `json:"total_orders"`
	AvgOrderValue    KPIValue `json:"avg_order_value"`
	MonthlyGrowthPct float64  `json:"monthly_growth_pct"`
	AvgDeliveryDays  KPIValue `json:"avg_delivery_days"`
	AvgReviewScore   KPIValue `json:"avg_review_score"`
}

type MonthlyPoint struct {
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

// MonthlySeries feeds the dual-line revenue trend chart. Prior is nil when no
// prior-year dataset was supplied; the two series are never aligned.
type MonthlySeries struct {
	CurrentYear int            `json:"current_year"`
	Current     []MonthlyPoint `json:"current"`
	PriorYear   int            `json:"prior_year,omitempty"`
	Prior       []MonthlyPoint `json:"prior,omitempty"`
}

type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Color    string  `json:"color"`
}

// CategorySeries is the top-10 category ranking, ascending by revenue so the
// renderer draws largest-at-top horizontal bars. Available is false when the
// dataset has no category column.
type CategorySeries struct {
	Available bool              `json:"available"`
	Entries   []CategoryRevenue `json:"entries,omitempty"`
}

type StateRevenue struct {
	State   string  `json:"state"`
	Revenue float64 `json:"revenue"`
}

type StateSeries struct {
	Available bool           `json:"available"`
	Entries   []StateRevenue `json:"entries,omitempty"`
}

type DeliveryBucket struct {
	Bucket         string  `json:"bucket"`
	AvgReviewScore float64 `json:"avg_review_score"`
}

// DeliverySeries holds mean review score per delivery-time bucket in the
// fixed order 1-3 days, 4-7 days, 8+ days. Buckets with no scored rows are
// omitted, never zero-filled.
type DeliverySeries struct {
	Available bool             `json:"available"`
	Buckets   []DeliveryBucket `json:"buckets,omitempty"`
}
