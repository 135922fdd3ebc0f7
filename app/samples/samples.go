// Package samples holds the static demo dataset. Services fall back to it
// when the inventory API is unreachable and the seeders load it into the
// database. Every accessor returns a fresh copy.
package samples

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/stockroom/app/models"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func Inventory() []models.InventoryItem {
	return []models.InventoryItem{
		{SKU: "SKU-12345", ProductName: "Premium Widget Pro", Category: "Electronics", QuantityOnHand: 450, QuantityAvailable: 330,
			UnitCost: money("45.99"), TotalValue: money("20695.50"), Supplier: "TechCorp Inc.", Location: "Warehouse A-12", ReorderLevel: 100, LeadTimeDays: 14},
		{SKU: "SKU-23456", ProductName: "Standard Gadget", Category: "Hardware", QuantityOnHand: 280, QuantityAvailable: 210,
			UnitCost: money("32.50"), TotalValue: money("9100.00"), Supplier: "HardwareCo", Location: "Warehouse B-5", ReorderLevel: 50, LeadTimeDays: 7},
		{SKU: "SKU-34567", ProductName: "Deluxe Component", Category: "Electronics", QuantityOnHand: 156, QuantityAvailable: 98,
			UnitCost: money("78.25"), TotalValue: money("12207.00"), Supplier: "ComponentsPlus", Location: "Warehouse A-8", ReorderLevel: 40, LeadTimeDays: 21},
		{SKU: "SKU-45678", ProductName: "Basic Tool", Category: "Tools", QuantityOnHand: 620, QuantityAvailable: 580,
			UnitCost: money("15.99"), TotalValue: money("9913.80"), Supplier: "ToolMasters", Location: "Warehouse C-3", ReorderLevel: 150, LeadTimeDays: 5},
		{SKU: "SKU-56789", ProductName: "Pro Accessory", Category: "Accessories", QuantityOnHand: 89, QuantityAvailable: 45,
			UnitCost: money("22.75"), TotalValue: money("2024.75"), Supplier: "AccessoryCorp", Location: "Warehouse B-12", ReorderLevel: 60, LeadTimeDays: 10},
	}
}

func Alternatives() []models.AlternativeSku {
	return []models.AlternativeSku{
		{PrimarySku: "SKU-12345", AlternativeSku: "SKU-12345-ALT", Description: "Standard variant of Premium Widget Pro", ConversionRatio: money("1.0")},
		{PrimarySku: "SKU-12345", AlternativeSku: "SKU-12346", Description: "Deluxe variant with enhanced features", ConversionRatio: money("0.8")},
		{PrimarySku: "SKU-23456", AlternativeSku: "SKU-23457", Description: "Budget version of Standard Gadget", ConversionRatio: money("1.2")},
	}
}

func OpenOrders() []models.OpenOrder {
	return []models.OpenOrder{
		{OrderNumber: "ORD-1001", SKU: "SKU-12345", CustomerName: "Acme Corp", Quantity: 50, TotalAmount: money("2299.50"), OrderDate: day(2025, 10, 28), Status: "pending"},
		{OrderNumber: "ORD-1002", SKU: "SKU-23456", CustomerName: "TechStart Inc", Quantity: 120, TotalAmount: money("3900.00"), OrderDate: day(2025, 10, 29), Status: "processing"},
		{OrderNumber: "ORD-1003", SKU: "SKU-34567", CustomerName: "Global Widgets", Quantity: 35, TotalAmount: money("2738.75"), OrderDate: day(2025, 10, 30), Status: "shipped"},
	}
}

func PurchaseOrders() []models.PurchaseOrder {
	return []models.PurchaseOrder{
		{PONumber: "PO-5001", SKU: "SKU-12345", Supplier: "TechCorp Inc.", Quantity: 200, TotalCost: money("9198.00"), OrderDate: day(2025, 10, 25), Status: "ordered"},
		{PONumber: "PO-5002", SKU: "SKU-45678", Supplier: "ToolMasters", Quantity: 500, TotalCost: money("7995.00"), OrderDate: day(2025, 10, 27), Status: "received"},
	}
}

func Leads() []models.Lead {
	return []models.Lead{
		{LeadID: "LEAD-301", CompanyName: "Future Tech LLC", ContactName: "John Smith", InterestedSku: "SKU-12345", EstimatedValue: money("15000.00"), Status: "new"},
		{LeadID: "LEAD-302", CompanyName: "Innovation Labs", ContactName: "Sarah Johnson", InterestedSku: "SKU-34567", EstimatedValue: money("28500.00"), Status: "contacted"},
	}
}

func Opportunities() []models.Opportunity {
	return []models.Opportunity{
		{OpportunityID: "OPP-401", CustomerName: "Enterprise Solutions", SKU: "SKU-23456", Quantity: 300, Value: money("9750.00"), Probability: 75, Stage: "negotiation"},
		{OpportunityID: "OPP-402", CustomerName: "MegaCorp Industries", SKU: "SKU-12345", Quantity: 500, Value: money("22995.00"), Probability: 60, Stage: "proposal"},
	}
}

func Warehouses() []models.WarehouseStock {
	return []models.WarehouseStock{
		{WarehouseName: "Warehouse A", Location: "New York, NY", TotalSkus: 342, TotalQuantity: 15420, TotalValue: money("1245600"), Capacity: 85, Status: "active", Manager: "John Smith"},
		{WarehouseName: "Warehouse B", Location: "Los Angeles, CA", TotalSkus: 298, TotalQuantity: 12850, TotalValue: money("987400"), Capacity: 72, Status: "active", Manager: "Sarah Johnson"},
		{WarehouseName: "Warehouse C", Location: "Chicago, IL", TotalSkus: 425, TotalQuantity: 18900, TotalValue: money("1543200"), Capacity: 91, Status: "active", Manager: "Michael Chen"},
		{WarehouseName: "Warehouse D", Location: "Houston, TX", TotalSkus: 182, TotalQuantity: 8320, TotalValue: money("654800"), Capacity: 58, Status: "active", Manager: "Emily Davis"},
	}
}

func InventoryByCategory() []models.CategoryStock {
	return []models.CategoryStock{
		{Category: "Electronics", OnHand: 606, Reserved: 276, Available: 428},
		{Category: "Hardware", OnHand: 280, Reserved: 70, Available: 210},
		{Category: "Tools", OnHand: 620, Reserved: 40, Available: 580},
		{Category: "Accessories", OnHand: 89, Reserved: 44, Available: 45},
	}
}

func CostByMonth() []models.MonthlyCost {
	rows := []struct {
		month           string
		inv, pos, sales string
	}{
		{"Jan", "2100000", "450000", "680000"},
		{"Feb", "2250000", "520000", "720000"},
		{"Mar", "2180000", "480000", "850000"},
		{"Apr", "2400000", "610000", "920000"},
		{"May", "2350000", "550000", "880000"},
		{"Jun", "2500000", "670000", "1020000"},
	}
	out := make([]models.MonthlyCost, len(rows))
	for i, r := range rows {
		out[i] = models.MonthlyCost{
			Month:          r.month,
			Position:       i + 1,
			InventoryValue: money(r.inv),
			PurchaseOrders: money(r.pos),
			Sales:          money(r.sales),
		}
	}
	return out
}

var warehouseDetails = map[string]models.WarehouseDetails{
	"Warehouse A": {
		WarehouseName: "Warehouse A", Location: "New York, NY", Manager: "John Smith", Status: "Active", Capacity: 85,
		Items: []models.WarehouseItem{
			{SKU: "SKU-12345", Quantity: 450, Value: money("20695.50")},
			{SKU: "SKU-34567", Quantity: 156, Value: money("12207.00")},
			{SKU: "SKU-45678", Quantity: 620, Value: money("9913.80")},
		},
	},
	"Warehouse B": {
		WarehouseName: "Warehouse B", Location: "Los Angeles, CA", Manager: "Sarah Johnson", Status: "Active", Capacity: 72,
		Items: []models.WarehouseItem{
			{SKU: "SKU-23456", Quantity: 280, Value: money("9100.00")},
			{SKU: "SKU-56789", Quantity: 89, Value: money("2024.75")},
		},
	},
}

// WarehouseDetails returns the sample for name, or Warehouse A.
func WarehouseDetails(name string) models.WarehouseDetails {
	d, ok := warehouseDetails[name]
	if !ok {
		d = warehouseDetails["Warehouse A"]
	}
	d.Items = append([]models.WarehouseItem(nil), d.Items...)
	return d
}

var inventoryDetails = map[string]struct {
	reorder int
	lead    string
}{
	"SKU-12345": {100, "14 days"},
	"SKU-23456": {50, "7 days"},
}

// InventoryDetails returns the sample for sku, or SKU-12345.
func InventoryDetails(sku string) models.InventoryDetails {
	extra, ok := inventoryDetails[sku]
	if !ok {
		sku = "SKU-12345"
		extra = inventoryDetails[sku]
	}
	for _, it := range Inventory() {
		if it.SKU == sku {
			return models.InventoryDetails{InventoryItem: it, ReorderLevel: extra.reorder, LeadTime: extra.lead}
		}
	}
	return models.InventoryDetails{}
}

// Matches reports whether item matches q on SKU, product name or category,
// case-insensitively. An empty q matches everything.
func Matches(item models.InventoryItem, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.SKU), q) ||
		strings.Contains(strings.ToLower(item.ProductName), q) ||
		strings.Contains(strings.ToLower(item.Category), q)
}

// Search filters the sample inventory by q.
func Search(q string) []models.InventoryItem {
	var out []models.InventoryItem
	for _, it := range Inventory() {
		if Matches(it, q) {
			out = append(out, it)
		}
	}
	return out
}
