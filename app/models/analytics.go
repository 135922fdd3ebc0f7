package models

import "github.com/shopspring/decimal"

// CategoryStock is one bar of the inventory-by-category chart.
type CategoryStock struct {
	Category  string `json:"category"`
	OnHand    int    `json:"onHand"`
	Reserved  int    `json:"reserved"`
	Available int    `json:"available"`
}

// MonthlyCost is one point of the cost-by-month chart.
type MonthlyCost struct {
	Month          string          `gorm:"size:20;not null;uniqueIndex" json:"month"`
	Position       int             `gorm:"not null;default:0"           json:"-"`
	InventoryValue decimal.Decimal `gorm:"type:numeric(14,2);not null"  json:"inventoryValue"`
	PurchaseOrders decimal.Decimal `gorm:"type:numeric(14,2);not null"  json:"purchaseOrders"`
	Sales          decimal.Decimal `gorm:"type:numeric(14,2);not null"  json:"sales"`
	Base
}

func (MonthlyCost) TableName() string { return "monthly_costs" }
