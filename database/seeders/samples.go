package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/stockroom/app/samples"
)

func init() {
	Register("sku_inventory", upsert("sku", samples.Inventory))
	Register("alternative_skus", replace(samples.Alternatives))
	Register("open_orders", upsert("order_number", samples.OpenOrders))
	Register("purchase_orders", upsert("po_number", samples.PurchaseOrders))
	Register("leads", upsert("lead_id", samples.Leads))
	Register("opportunities", upsert("opportunity_id", samples.Opportunities))
	Register("warehouses", upsert("warehouse_name", samples.Warehouses))
	Register("monthly_costs", upsert("month", samples.CostByMonth))
}

// upsert inserts rows, updating the existing row on a business-key conflict
// so seeding twice is harmless.
func upsert[T any](key string, rows func() []T) SeederFunc {
	return func(db *gorm.DB) error {
		data := rows()
		if len(data) == 0 {
			return nil
		}
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: key}},
			UpdateAll: true,
		}).Create(&data).Error
	}
}

// replace clears the table before inserting; used for tables without a
// unique business key.
func replace[T any](rows func() []T) SeederFunc {
	return func(db *gorm.DB) error {
		data := rows()
		return db.Transaction(func(tx *gorm.DB) error {
			var zero T
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&zero).Error; err != nil {
				return err
			}
			if len(data) == 0 {
				return nil
			}
			return tx.Create(&data).Error
		})
	}
}
