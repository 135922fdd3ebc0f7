package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenOrder is a customer order not yet fulfilled.
type OpenOrder struct {
	OrderNumber  string          `gorm:"size:50;not null;uniqueIndex" json:"orderNumber"`
	SKU          string          `gorm:"size:100;not null;index"      json:"sku"`
	CustomerName string          `gorm:"size:255;not null"            json:"customerName"`
	Quantity     int             `gorm:"not null"                     json:"quantity"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"totalAmount"`
	OrderDate    time.Time       `gorm:"not null"                     json:"orderDate"`
	Status       string          `gorm:"size:50;not null"             json:"status"`
	Base
}

// PurchaseOrder is stock ordered from a supplier.
type PurchaseOrder struct {
	PONumber  string          `gorm:"size:50;not null;uniqueIndex" json:"poNumber"`
	SKU       string          `gorm:"size:100;not null;index"      json:"sku"`
	Supplier  string          `gorm:"size:255;not null"            json:"supplier"`
	Quantity  int             `gorm:"not null"                     json:"quantity"`
	TotalCost decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"totalCost"`
	OrderDate time.Time       `gorm:"not null"                     json:"orderDate"`
	Status    string          `gorm:"size:50;not null"             json:"status"`
	Base
}
