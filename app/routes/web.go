package routes

import (
	"github.com/shashiranjanraj/stockroom/app/controllers"
	"github.com/shashiranjanraj/stockroom/pkg/ctx"
	"github.com/shashiranjanraj/stockroom/pkg/router"
)

// RegisterWeb mounts the dashboard.
func RegisterWeb(r *router.Router, h *controllers.DashboardController) {
	r.Get("/", "dashboard.index", ctx.Wrap(h.Index))

	d := r.Group("/dashboard")
	d.Get("/state", "dashboard.state", ctx.Wrap(h.State))
	d.Post("/search", "dashboard.search", ctx.Wrap(h.Search))

	d.Post("/tables/{section}/sort", "dashboard.sort", ctx.Wrap(h.Sort))
	d.Post("/tables/{section}/rows/{index}/click", "dashboard.row.click", ctx.Wrap(h.RowClick))
	d.Post("/tables/{section}/rows/{index}/menu", "dashboard.row.menu", ctx.Wrap(h.RowMenu))
	d.Get("/tables/{section}/export", "dashboard.table.export", ctx.Wrap(h.ExportTable))

	d.Post("/menu/select", "dashboard.menu.select", ctx.Wrap(h.MenuSelect))
	d.Post("/menu/dismiss", "dashboard.menu.dismiss", ctx.Wrap(h.MenuDismiss))
	d.Post("/sku/select", "dashboard.sku.select", ctx.Wrap(h.SelectSKU))
	d.Post("/modal/close", "dashboard.modal.close", ctx.Wrap(h.CloseModal))
	d.Post("/notice/dismiss", "dashboard.notice.dismiss", ctx.Wrap(h.DismissNotice))
	d.Get("/warehouses/{name}", "dashboard.warehouse.details", ctx.Wrap(h.Warehouse))

	d.Get("/exports/*", "dashboard.exports", ctx.Wrap(h.Exports))
	d.Get("/ws", "dashboard.ws", ctx.Wrap(h.Events))
}
