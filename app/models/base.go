package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the generated primary key and timestamps. It is embedded last
// so exported records lead with the business key.
type Base struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate assigns a UUID when none was set.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&InventoryItem{},
		&AlternativeSku{},
		&OpenOrder{},
		&PurchaseOrder{},
		&Lead{},
		&Opportunity{},
		&WarehouseStock{},
		&MonthlyCost{},
	}
}
