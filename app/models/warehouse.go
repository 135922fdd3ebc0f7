package models

import "github.com/shopspring/decimal"

// WarehouseStock aggregates stock per location. Capacity is the percentage
// of floor space in use.
type WarehouseStock struct {
	WarehouseName string          `gorm:"size:100;not null;uniqueIndex" json:"warehouseName"`
	Location      string          `gorm:"size:255;not null"             json:"location"`
	TotalSkus     int             `gorm:"not null"                      json:"totalSkus"`
	TotalQuantity int             `gorm:"not null"                      json:"totalQuantity"`
	TotalValue    decimal.Decimal `gorm:"type:numeric(14,2);not null"   json:"totalValue"`
	Capacity      int             `gorm:"not null"                      json:"capacity"`
	Status        string          `gorm:"size:50;not null"              json:"status"`
	Manager       string          `gorm:"size:255;not null"             json:"manager"`
	Base
}

func (WarehouseStock) TableName() string { return "warehouses" }

// WarehouseItem is one SKU line inside a warehouse detail view.
type WarehouseItem struct {
	SKU      string          `json:"sku"`
	Quantity int             `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

type WarehouseDetails struct {
	WarehouseName string          `json:"warehouseName"`
	Location      string          `json:"location"`
	Manager       string          `json:"manager"`
	Status        string          `json:"status"`
	Capacity      int             `json:"capacity"`
	Items         []WarehouseItem `json:"items,omitempty"`
}
