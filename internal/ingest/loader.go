// Package ingest turns the raw e-commerce CSV tables into the flat sales
// dataset the analytics layer works on.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "ecommerce-dashboard/internal/errors"
)

const (
	ordersFile     = "orders.csv"
	orderItemsFile = "order_items.csv"
	productsFile   = "products.csv"
	customersFile  = "customers.csv"
	reviewsFile    = "order_reviews.csv"
)

// Order is one row of the orders table with the purchase timestamp already
// broken into year/month and the delivery time derived; nothing downstream
// recomputes either.
type Order struct {
	ID            string
	CustomerID    string
	Status        string
	PurchaseYear  int
	PurchaseMonth int
	DeliveryDays  *int
}

type OrderItem struct {
	OrderID   string
	ProductID string
	Price     float64
}

// RawTables is the typed in-memory form of the raw files. The optional maps
// are nil when their file was absent, which is how the builder learns a
// capability is off.
type RawTables struct {
	Orders     map[string]Order
	Items      []OrderItem
	Categories map[string]string  // product id -> category
	States     map[string]string  // customer id -> state
	Reviews    map[string]float64 // order id -> review score, first review wins

	// HasDeliveredDate is true when the orders file carried the delivered
	// timestamp column, independent of how many rows filled it in.
	HasDeliveredDate bool
}

// Years lists the distinct purchase years across all orders regardless of
// status, newest first. This drives the year selector.
func (rt *RawTables) Years() []int {
	seen := make(map[int]struct{})
	for _, o := range rt.Orders {
		seen[o.PurchaseYear] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	slices.SortFunc(years, func(a, b int) int { return b - a })
	return years
}

type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the five raw tables from dir. Orders and order items are
// required; a missing or unparsable required file is a DataUnavailable error
// and fatal to startup. The three optional tables degrade to a nil map with a
// warning so the affected charts render placeholders instead of failing.
func (l *Loader) Load(ctx context.Context, dir string) (*RawTables, error) {
	raw := &RawTables{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		orders, hasDelivered, err := l.loadOrders(ctx, filepath.Join(dir, ordersFile))
		if err != nil {
			return err
		}
		raw.Orders = orders
		raw.HasDeliveredDate = hasDelivered
		return nil
	})

	g.Go(func() error {
		items, err := l.loadOrderItems(ctx, filepath.Join(dir, orderItemsFile))
		if err != nil {
			return err
		}
		raw.Items = items
		return nil
	})

	g.Go(func() error {
		categories, err := l.loadOptionalPairs(ctx, filepath.Join(dir, productsFile), "product_id", "product_category_name")
		if err != nil {
			return err
		}
		raw.Categories = categories
		return nil
	})

	g.Go(func() error {
		states, err := l.loadOptionalPairs(ctx, filepath.Join(dir, customersFile), "customer_id", "customer_state")
		if err != nil {
			return err
		}
		raw.States = states
		return nil
	})

	g.Go(func() error {
		reviews, err := l.loadReviews(ctx, filepath.Join(dir, reviewsFile))
		if err != nil {
			return err
		}
		raw.Reviews = reviews
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, apperrors.DataUnavailable(err, "failed to load raw e-commerce tables")
	}

	l.logger.Info("raw tables loaded",
		"orders", len(raw.Orders),
		"items", len(raw.Items),
		"products", len(raw.Categories),
		"customers", len(raw.States),
		"reviews", len(raw.Reviews),
		"has_delivered_date", raw.HasDeliveredDate,
	)

	return raw, nil
}

func (l *Loader) loadOrders(ctx context.Context, path string) (map[string]Order, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, false, fmt.Errorf("read %s header: %w", filepath.Base(path), err)
	}

	idCol := columnIndex(header, "order_id")
	customerCol := columnIndex(header, "customer_id")
	statusCol := columnIndex(header, "order_status")
	purchaseCol := columnIndex(header, "order_purchase_timestamp")
	deliveredCol := columnIndex(header, "order_delivered_customer_date")
	if idCol < 0 || customerCol < 0 || statusCol < 0 || purchaseCol < 0 {
		return nil, false, fmt.Errorf("%s: missing required columns", filepath.Base(path))
	}

	orders := make(map[string]Order)
	for {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}

		purchased, err := parseTimestamp(record[purchaseCol])
		if err != nil {
			return nil, false, fmt.Errorf("parse %s purchase timestamp: %w", filepath.Base(path), err)
		}

		order := Order{
			ID:            strings.TrimSpace(record[idCol]),
			CustomerID:    strings.TrimSpace(record[customerCol]),
			Status:        strings.TrimSpace(record[statusCol]),
			PurchaseYear:  purchased.Year(),
			PurchaseMonth: int(purchased.Month()),
		}

		if deliveredCol >= 0 && strings.TrimSpace(record[deliveredCol]) != "" {
			delivered, err := parseTimestamp(record[deliveredCol])
			if err != nil {
				return nil, false, fmt.Errorf("parse %s delivered timestamp: %w", filepath.Base(path), err)
			}
			days := int(delivered.Sub(purchased).Hours() / 24)
			order.DeliveryDays = &days
		}

		orders[order.ID] = order
	}

	if len(orders) == 0 {
		return nil, false, fmt.Errorf("%s: no order records", filepath.Base(path))
	}
	return orders, deliveredCol >= 0, nil
}

func (l *Loader) loadOrderItems(ctx context.Context, path string) ([]OrderItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", filepath.Base(path), err)
	}

	orderCol := columnIndex(header, "order_id")
	productCol := columnIndex(header, "product_id")
	priceCol := columnIndex(header, "price")
	if orderCol < 0 || productCol < 0 || priceCol < 0 {
		return nil, fmt.Errorf("%s: missing required columns", filepath.Base(path))
	}

	var items []OrderItem
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(record[priceCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s price: %w", filepath.Base(path), err)
		}

		items = append(items, OrderItem{
			OrderID:   strings.TrimSpace(record[orderCol]),
			ProductID: strings.TrimSpace(record[productCol]),
			Price:     price,
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%s: no order item records", filepath.Base(path))
	}
	return items, nil
}

// loadOptionalPairs reads a two-column lookup table. A missing file is not an
// error: the capability is simply off.
func (l *Loader) loadOptionalPairs(ctx context.Context, path, keyName, valueName string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("optional table missing, feature disabled", "file", filepath.Base(path))
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", filepath.Base(path), err)
	}

	keyCol := columnIndex(header, keyName)
	valueCol := columnIndex(header, valueName)
	if keyCol < 0 || valueCol < 0 {
		return nil, fmt.Errorf("%s: missing %s or %s column", filepath.Base(path), keyName, valueName)
	}

	pairs := make(map[string]string)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		pairs[strings.TrimSpace(record[keyCol])] = strings.TrimSpace(record[valueCol])
	}
	return pairs, nil
}

func (l *Loader) loadReviews(ctx context.Context, path string) (map[string]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("optional table missing, feature disabled", "file", filepath.Base(path))
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", filepath.Base(path), err)
	}

	orderCol := columnIndex(header, "order_id")
	scoreCol := columnIndex(header, "review_score")
	if orderCol < 0 || scoreCol < 0 {
		return nil, fmt.Errorf("%s: missing order_id or review_score column", filepath.Base(path))
	}

	reviews := make(map[string]float64)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}

		orderID := strings.TrimSpace(record[orderCol])
		if _, exists := reviews[orderID]; exists {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(record[scoreCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s score: %w", filepath.Base(path), err)
		}
		reviews[orderID] = score
	}
	return reviews, nil
}

func columnIndex(header []string, name string) int {
	for i, column := range header {
		if strings.TrimSpace(column) == name {
			return i
		}
	}
	return -1
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
