package models

import "github.com/shopspring/decimal"

// InventoryItem is one SKU's stock position. QuantityAvailable is expected
// to stay at or below QuantityOnHand but nothing enforces it.
type InventoryItem struct {
	SKU               string          `gorm:"size:100;not null;uniqueIndex"  json:"sku"`
	ProductName       string          `gorm:"size:255;not null;index"        json:"productName"`
	Category          string          `gorm:"size:100;not null;index"        json:"category"`
	QuantityOnHand    int             `gorm:"not null;default:0"             json:"quantityOnHand"`
	QuantityAvailable int             `gorm:"not null;default:0"             json:"quantityAvailable"`
	UnitCost          decimal.Decimal `gorm:"type:numeric(10,2);not null"    json:"unitCost"`
	TotalValue        decimal.Decimal `gorm:"type:numeric(12,2);not null"    json:"totalValue"`
	Supplier          string          `gorm:"size:255;not null"              json:"supplier"`
	Location          string          `gorm:"size:100;not null"              json:"location"`
	ReorderLevel      int             `gorm:"not null;default:0"             json:"-"`
	LeadTimeDays      int             `gorm:"not null;default:0"             json:"-"`
	Base
}

func (InventoryItem) TableName() string { return "sku_inventory" }

// AlternativeSku maps a primary SKU to a substitute.
type AlternativeSku struct {
	PrimarySku      string          `gorm:"size:100;not null;index"     json:"primarySku"`
	AlternativeSku  string          `gorm:"size:100;not null"           json:"alternativeSku"`
	Description     string          `gorm:"type:text;not null"          json:"description"`
	ConversionRatio decimal.Decimal `gorm:"type:numeric(10,4);not null" json:"conversionRatio"`
	Base
}

func (AlternativeSku) TableName() string { return "alternative_skus" }

// InventoryDetails is the detail view of one SKU.
type InventoryDetails struct {
	InventoryItem
	ReorderLevel int    `json:"reorderLevel,omitempty"`
	LeadTime     string `json:"leadTime,omitempty"`
}
