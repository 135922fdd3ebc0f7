package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/csvexport"
	"github.com/shashiranjanraj/stockroom/pkg/table"
)

// Section names one independently loaded part of the page.
type Section string

const (
	SectionInventory      Section = "inventory"
	SectionAlternatives   Section = "alternatives"
	SectionOpenOrders     Section = "openOrders"
	SectionPurchaseOrders Section = "purchaseOrders"
	SectionLeads          Section = "leads"
	SectionOpportunities  Section = "opportunities"
	SectionWarehouses     Section = "warehouses"
	SectionInventoryChart Section = "inventoryChart"
	SectionCostChart      Section = "costChart"
)

// Sections lists every section in load order.
var Sections = []Section{
	SectionInventory,
	SectionAlternatives,
	SectionOpenOrders,
	SectionPurchaseOrders,
	SectionLeads,
	SectionOpportunities,
	SectionWarehouses,
	SectionInventoryChart,
	SectionCostChart,
}

// TableSections are the sections rendered as tables.
var TableSections = []Section{
	SectionInventory,
	SectionAlternatives,
	SectionOpenOrders,
	SectionPurchaseOrders,
	SectionLeads,
	SectionOpportunities,
	SectionWarehouses,
}

func ParseSection(s string) (Section, bool) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}

// ─── Cell renderers ──────────────────────────────────────────────────────────

func money[T any](v any, _ T) string {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return csvexport.Format(v)
	}
	return "$" + d.StringFixed(2)
}

func date[T any](v any, _ T) string {
	t, ok := v.(time.Time)
	if !ok || t.IsZero() {
		return csvexport.Format(v)
	}
	return t.Format("2006-01-02")
}

func percent[T any](v any, _ T) string { return fmt.Sprintf("%v%%", v) }

func ratio[T any](v any, _ T) string {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return csvexport.Format(v)
	}
	return d.StringFixed(2) + "x"
}

// ─── Columns ─────────────────────────────────────────────────────────────────

var inventoryColumns = []table.Column[models.InventoryItem]{
	{Key: "sku", Label: "SKU", Sortable: true, Filterable: true},
	{Key: "productName", Label: "Product Name", Sortable: true, Filterable: true},
	{Key: "category", Label: "Category", Sortable: true, Filterable: true},
	{Key: "quantityOnHand", Label: "On Hand", Sortable: true},
	{Key: "quantityAvailable", Label: "Available", Sortable: true},
	{Key: "unitCost", Label: "Unit Cost", Sortable: true, Render: money[models.InventoryItem]},
	{Key: "totalValue", Label: "Total Value", Sortable: true, Render: money[models.InventoryItem]},
	{Key: "supplier", Label: "Supplier", Sortable: true, Filterable: true},
	{Key: "location", Label: "Location", Sortable: true, Filterable: true},
}

var alternativeColumns = []table.Column[models.AlternativeSku]{
	{Key: "primarySku", Label: "Primary SKU", Sortable: true, Filterable: true},
	{Key: "alternativeSku", Label: "Alternative SKU", Sortable: true, Filterable: true},
	{Key: "description", Label: "Description", Filterable: true},
	{Key: "conversionRatio", Label: "Conversion Ratio", Sortable: true, Render: ratio[models.AlternativeSku]},
}

var openOrderColumns = []table.Column[models.OpenOrder]{
	{Key: "orderNumber", Label: "Order #", Sortable: true, Filterable: true},
	{Key: "sku", Label: "SKU", Sortable: true, Filterable: true},
	{Key: "customerName", Label: "Customer", Sortable: true, Filterable: true},
	{Key: "quantity", Label: "Quantity", Sortable: true},
	{Key: "totalAmount", Label: "Total Amount", Sortable: true, Render: money[models.OpenOrder]},
	{Key: "orderDate", Label: "Order Date", Sortable: true, Render: date[models.OpenOrder]},
	{Key: "status", Label: "Status", Sortable: true, Filterable: true},
}

var purchaseOrderColumns = []table.Column[models.PurchaseOrder]{
	{Key: "poNumber", Label: "PO #", Sortable: true, Filterable: true},
	{Key: "sku", Label: "SKU", Sortable: true, Filterable: true},
	{Key: "supplier", Label: "Supplier", Sortable: true, Filterable: true},
	{Key: "quantity", Label: "Quantity", Sortable: true},
	{Key: "totalCost", Label: "Total Cost", Sortable: true, Render: money[models.PurchaseOrder]},
	{Key: "orderDate", Label: "Order Date", Sortable: true, Render: date[models.PurchaseOrder]},
	{Key: "status", Label: "Status", Sortable: true, Filterable: true},
}

var leadColumns = []table.Column[models.Lead]{
	{Key: "leadId", Label: "Lead ID", Sortable: true, Filterable: true},
	{Key: "companyName", Label: "Company", Sortable: true, Filterable: true},
	{Key: "contactName", Label: "Contact", Sortable: true, Filterable: true},
	{Key: "interestedSku", Label: "Interested SKU", Sortable: true, Filterable: true},
	{Key: "estimatedValue", Label: "Est. Value", Sortable: true, Render: money[models.Lead]},
	{Key: "status", Label: "Status", Sortable: true, Filterable: true},
}

var opportunityColumns = []table.Column[models.Opportunity]{
	{Key: "opportunityId", Label: "Opportunity ID", Sortable: true, Filterable: true},
	{Key: "customerName", Label: "Customer", Sortable: true, Filterable: true},
	{Key: "sku", Label: "SKU", Sortable: true, Filterable: true},
	{Key: "quantity", Label: "Quantity", Sortable: true},
	{Key: "value", Label: "Value", Sortable: true, Render: money[models.Opportunity]},
	{Key: "probability", Label: "Probability", Sortable: true, Render: percent[models.Opportunity]},
	{Key: "stage", Label: "Stage", Sortable: true, Filterable: true},
}

var warehouseColumns = []table.Column[models.WarehouseStock]{
	{Key: "warehouseName", Label: "Warehouse", Sortable: true, Filterable: true},
	{Key: "location", Label: "Location", Sortable: true, Filterable: true},
	{Key: "totalSkus", Label: "SKUs", Sortable: true},
	{Key: "totalQuantity", Label: "Quantity", Sortable: true},
	{Key: "totalValue", Label: "Total Value", Sortable: true, Render: money[models.WarehouseStock]},
	{Key: "capacity", Label: "Capacity", Sortable: true, Render: percent[models.WarehouseStock]},
	{Key: "status", Label: "Status", Sortable: true, Filterable: true},
	{Key: "manager", Label: "Manager", Sortable: true, Filterable: true},
}

// ─── Query filters ───────────────────────────────────────────────────────────

func contains(s, q string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(q))
}

func alternativeMatches(a models.AlternativeSku, q string) bool {
	return contains(a.PrimarySku, q) || contains(a.AlternativeSku, q) || contains(a.Description, q)
}

func openOrderMatches(o models.OpenOrder, q string) bool         { return contains(o.SKU, q) }
func purchaseOrderMatches(o models.PurchaseOrder, q string) bool { return contains(o.SKU, q) }
func leadMatches(l models.Lead, q string) bool                   { return contains(l.InterestedSku, q) }
func opportunityMatches(o models.Opportunity, q string) bool     { return contains(o.SKU, q) }
