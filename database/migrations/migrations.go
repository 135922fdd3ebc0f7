// Package migrations registers the schema migrations of the inventory API.
// Importing it (for side effects) makes them available to migration.New.
package migrations

import (
	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_sku_inventory_table", migration.Table(&models.InventoryItem{}))
	migration.Register("20260101000001_create_alternative_skus_table", migration.Table(&models.AlternativeSku{}))
	migration.Register("20260101000002_create_open_orders_table", migration.Table(&models.OpenOrder{}))
	migration.Register("20260101000003_create_purchase_orders_table", migration.Table(&models.PurchaseOrder{}))
	migration.Register("20260101000004_create_leads_table", migration.Table(&models.Lead{}))
	migration.Register("20260101000005_create_opportunities_table", migration.Table(&models.Opportunity{}))
	migration.Register("20260101000006_create_warehouses_table", migration.Table(&models.WarehouseStock{}))
	migration.Register("20260101000007_create_monthly_costs_table", migration.Table(&models.MonthlyCost{}))
}
