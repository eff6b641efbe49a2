package ingest

import (
	"ecommerce-dashboard/internal/models"
)

// BuildSalesDataset joins the raw tables into one flat line-item table,
// keeping only orders whose purchase year equals yearFilter and whose status
// equals statusFilter exactly (case-sensitive). The capability descriptor is
// fixed here; aggregators never probe the raw tables again.
func BuildSalesDataset(raw *RawTables, yearFilter int, statusFilter string) *models.SalesDataset {
	caps := models.Capabilities{
		HasCategory:     raw.Categories != nil,
		HasState:        raw.States != nil,
		HasDeliveryDays: raw.HasDeliveredDate,
		HasReviewScore:  raw.Reviews != nil,
	}

	var rows []models.OrderLineItem
	for _, item := range raw.Items {
		order, ok := raw.Orders[item.OrderID]
		if !ok {
			continue
		}
		if order.PurchaseYear != yearFilter || order.Status != statusFilter {
			continue
		}

		row := models.OrderLineItem{
			OrderID:       order.ID,
			PurchaseYear:  order.PurchaseYear,
			PurchaseMonth: order.PurchaseMonth,
			Price:         item.Price,
			Status:        order.Status,
		}

		if caps.HasCategory {
			row.Category = raw.Categories[item.ProductID]
		}
		if caps.HasState {
			row.CustomerState = raw.States[order.CustomerID]
		}
		if order.DeliveryDays != nil {
			days := *order.DeliveryDays
			row.DeliveryDays = &days
		}
		if caps.HasReviewScore {
			if score, reviewed := raw.Reviews[order.ID]; reviewed {
				s := score
				row.ReviewScore = &s
			}
		}

		rows = append(rows, row)
	}

	return &models.SalesDataset{
		Year:   yearFilter,
		Status: statusFilter,
		Rows:   rows,
		Caps:   caps,
	}
}
