package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"ecommerce-dashboard/internal/ingest"
	"ecommerce-dashboard/internal/services"
)

func newTestDashboard(t *testing.T) *services.Dashboard {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"orders.csv": `order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date
o1,c1,delivered,2023-01-10 14:30:00,2023-01-12 10:00:00
o2,c2,delivered,2023-02-01 08:00:00,2023-02-10 12:00:00
o3,c1,delivered,2022-01-05 16:45:00,2022-01-11 12:00:00
`,
		"order_items.csv": `order_id,order_item_id,product_id,price
o1,1,p1,100.00
o1,2,p2,50.00
o2,1,p1,200.00
o3,1,p2,80.00
`,
		"products.csv": `product_id,product_category_name
p1,toys
p2,books
`,
		"customers.csv": `customer_id,customer_state
c1,TX
c2,CA
`,
		"order_reviews.csv": `review_id,order_id,review_score
r1,o1,5
r2,o2,4
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	logger := slog.New(slog.DiscardHandler)
	dashboard := services.NewDashboard(ingest.NewLoader(logger), "delivered", 2023, logger)
	if err := dashboard.Load(context.Background(), dir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return dashboard
}

func newTestAPIHandlers(t *testing.T) *APIHandlers {
	t.Helper()
	return NewAPIHandlers(newTestDashboard(t), slog.New(slog.DiscardHandler))
}

type successEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
}

func decodeSuccess(t *testing.T, rec *httptest.ResponseRecorder) json.RawMessage {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	var envelope successEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Error("success should be true")
	}
	return envelope.Data
}

func TestHandleHealth(t *testing.T) {
	h := newTestAPIHandlers(t)
	rec := httptest.NewRecorder()

	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var data map[string]string
	if err := json.Unmarshal(decodeSuccess(t, rec), &data); err != nil {
		t.Fatal(err)
	}
	if data["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", data["status"])
	}
}

func TestHandleYears(t *testing.T) {
	h := newTestAPIHandlers(t)
	rec := httptest.NewRecorder()

	h.HandleYears(rec, httptest.NewRequest(http.MethodGet, "/api/years", nil))

	var data struct {
		Years       []int `json:"years"`
		DefaultYear int   `json:"default_year"`
	}
	if err := json.Unmarshal(decodeSuccess(t, rec), &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Years) != 2 || data.Years[0] != 2023 || data.Years[1] != 2022 {
		t.Errorf("years = %v, want [2023 2022]", data.Years)
	}
	if data.DefaultYear != 2023 {
		t.Errorf("default year = %d, want 2023", data.DefaultYear)
	}
}

func TestHandleKPIs(t *testing.T) {
	h := newTestAPIHandlers(t)
	rec := httptest.NewRecorder()

	h.HandleKPIs(rec, httptest.NewRequest(http.MethodGet, "/api/kpis?year=2023", nil))

	var data struct {
		TotalRevenue struct {
			Value    float64 `json:"value"`
			HasPrior bool    `json:"has_prior"`
		} `json:"total_revenue"`
	}
	if err := json.Unmarshal(decodeSuccess(t, rec), &data); err != nil {
		t.Fatal(err)
	}
	if data.TotalRevenue.Value != 350 {
		t.Errorf("total revenue = %v, want 350", data.TotalRevenue.Value)
	}
	if !data.TotalRevenue.HasPrior {
		t.Error("total revenue should have a 2022 prior")
	}
}

func TestHandleKPIs_DefaultsYear(t *testing.T) {
	h := newTestAPIHandlers(t)
	rec := httptest.NewRecorder()

	h.HandleKPIs(rec, httptest.NewRequest(http.MethodGet, "/api/kpis", nil))

	decodeSuccess(t, rec)
}

func TestHandleKPIs_InvalidYear(t *testing.T) {
	h := newTestAPIHandlers(t)
	rec := httptest.NewRecorder()

	h.HandleKPIs(rec, httptest.NewRequest(http.MethodGet, "/api/kpis?year=banana", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleKPIs_UnknownYear(t *testing.T) {
	h := newTestAPIHandlers(t)
	rec := httptest.NewRecorder()

	h.HandleKPIs(rec, httptest.NewRequest(http.MethodGet, "/api/kpis?year=1999", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDeliverySatisfaction(t *testing.T) {
	h := newTestAPIHandlers(t)
	rec := httptest.NewRecorder()

	h.HandleDeliverySatisfaction(rec, httptest.NewRequest(http.MethodGet, "/api/delivery-satisfaction?year=2023", nil))

	var data struct {
		Available bool `json:"available"`
		Buckets   []struct {
			Bucket         string  `json:"bucket"`
			AvgReviewScore float64 `json:"avg_review_score"`
		} `json:"buckets"`
	}
	if err := json.Unmarshal(decodeSuccess(t, rec), &data); err != nil {
		t.Fatal(err)
	}
	if !data.Available {
		t.Fatal("series should be available")
	}
	// o1 delivered in 1 day (score 5 on two line items), o2 in 9 days
	// (score 4).
	if len(data.Buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(data.Buckets))
	}
	if data.Buckets[0].Bucket != "1-3 days" || data.Buckets[0].AvgReviewScore != 5 {
		t.Errorf("first bucket = %+v", data.Buckets[0])
	}
	if data.Buckets[1].Bucket != "8+ days" || data.Buckets[1].AvgReviewScore != 4 {
		t.Errorf("second bucket = %+v", data.Buckets[1])
	}
}
