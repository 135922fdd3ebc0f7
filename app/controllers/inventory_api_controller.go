// Package controllers holds the HTTP handlers of both surfaces: the
// inventory API (InventoryAPIController) and the dashboard
// (DashboardController).
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/stockroom/app/repositories"
	"github.com/shashiranjanraj/stockroom/pkg/ctx"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
)

// InventoryAPIController serves the upstream endpoints the dashboard reads.
// List endpoints answer with a bare JSON array, except open orders and
// alternatives which are wrapped in a named member.
type InventoryAPIController struct {
	inventory *repositories.InventoryRepository
	orders    *repositories.OrderRepository
}

func NewInventoryAPIController(inv *repositories.InventoryRepository, orders *repositories.OrderRepository) *InventoryAPIController {
	return &InventoryAPIController{inventory: inv, orders: orders}
}

type skuFilter struct {
	SKU string `json:"sku" validate:"nullable,max=100"`
}

type searchQuery struct {
	Q string `json:"q" validate:"nullable,max=100"`
}

type alternativesQuery struct {
	PrimarySku string `json:"primarySku" validate:"nullable,max=100"`
}

// fail maps repository errors to 404 or 500.
func fail(c *ctx.Context, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		c.NotFound(err.Error())
		return
	}
	logger.WithCtx(c.Context()).Error("api: query failed", "path", c.R.URL.Path, "error", err)
	c.Error(http.StatusInternalServerError, "Internal Server Error")
}

func (h *InventoryAPIController) Warehouses(c *ctx.Context) {
	rows, err := h.inventory.Warehouses(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventoryAPIController) Warehouse(c *ctx.Context) {
	d, err := h.inventory.Warehouse(c.Context(), c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *InventoryAPIController) Inventory(c *ctx.Context) {
	rows, err := h.inventory.Inventory(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventoryAPIController) Search(c *ctx.Context) {
	in := searchQuery{Q: c.Query("q")}
	if !c.Validate(in) {
		return
	}
	rows, err := h.inventory.Search(c.Context(), in.Q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventoryAPIController) Alternatives(c *ctx.Context) {
	in := alternativesQuery{PrimarySku: c.Query("primarySku")}
	if !c.Validate(in) {
		return
	}
	rows, err := h.inventory.Alternatives(c.Context(), in.PrimarySku)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"alternatives": rows})
}

func (h *InventoryAPIController) Item(c *ctx.Context) {
	d, err := h.inventory.Item(c.Context(), c.Param("sku"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *InventoryAPIController) OpenOrders(c *ctx.Context) {
	in := skuFilter{SKU: c.Query("sku")}
	if !c.Validate(in) {
		return
	}
	rows, err := h.orders.OpenOrders(c.Context(), in.SKU)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"orders": rows})
}

func (h *InventoryAPIController) PurchaseOrders(c *ctx.Context) {
	in := skuFilter{SKU: c.Query("sku")}
	if !c.Validate(in) {
		return
	}
	rows, err := h.orders.PurchaseOrders(c.Context(), in.SKU)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventoryAPIController) Leads(c *ctx.Context) {
	in := skuFilter{SKU: c.Query("sku")}
	if !c.Validate(in) {
		return
	}
	rows, err := h.orders.Leads(c.Context(), in.SKU)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventoryAPIController) Opportunities(c *ctx.Context) {
	in := skuFilter{SKU: c.Query("sku")}
	if !c.Validate(in) {
		return
	}
	rows, err := h.orders.Opportunities(c.Context(), in.SKU)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventoryAPIController) InventoryByCategory(c *ctx.Context) {
	rows, err := h.inventory.InventoryByCategory(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventoryAPIController) CostByMonth(c *ctx.Context) {
	rows, err := h.inventory.CostByMonth(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
