// Package routes binds controllers to URLs for both HTTP surfaces.
package routes

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockroom/app/controllers"
	"github.com/shashiranjanraj/stockroom/app/repositories"
	"github.com/shashiranjanraj/stockroom/config"
	"github.com/shashiranjanraj/stockroom/pkg/ctx"
	"github.com/shashiranjanraj/stockroom/pkg/middleware"
	"github.com/shashiranjanraj/stockroom/pkg/router"
)

// RegisterAPI mounts the inventory API under /api. Every route requires a
// bearer token when API_AUTH is on.
func RegisterAPI(r *router.Router, db *gorm.DB) error {
	inv := repositories.NewInventoryRepository(db)
	orders := repositories.NewOrderRepository(db)

	h := controllers.NewInventoryAPIController(inv, orders)
	gql, err := controllers.NewGraphQLController(inv, orders)
	if err != nil {
		return err
	}

	api := r.Group("/api", middleware.AuthIf(config.APIAuth()))

	api.Get("/warehouses", "api.warehouses", ctx.Wrap(h.Warehouses))
	api.Get("/warehouses/{name}", "api.warehouses.show", ctx.Wrap(h.Warehouse))

	api.Get("/inventory", "api.inventory", ctx.Wrap(h.Inventory))
	api.Get("/inventory/search", "api.inventory.search", ctx.Wrap(h.Search))
	api.Get("/inventory/alternatives", "api.inventory.alternatives", ctx.Wrap(h.Alternatives))
	api.Get("/inventory/{sku}", "api.inventory.show", ctx.Wrap(h.Item))

	api.Get("/orders/open", "api.orders.open", ctx.Wrap(h.OpenOrders))
	api.Get("/orders/purchase", "api.orders.purchase", ctx.Wrap(h.PurchaseOrders))
	api.Get("/leads", "api.leads", ctx.Wrap(h.Leads))
	api.Get("/opportunities", "api.opportunities", ctx.Wrap(h.Opportunities))

	api.Get("/analytics/inventory", "api.analytics.inventory", ctx.Wrap(h.InventoryByCategory))
	api.Get("/analytics/cost", "api.analytics.cost", ctx.Wrap(h.CostByMonth))

	api.Post("/graphql", "api.graphql", ctx.Wrap(gql.Query))
	return nil
}
