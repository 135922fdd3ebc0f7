package controllers

import (
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/stockroom/app/repositories"
	"github.com/shashiranjanraj/stockroom/pkg/ctx"
	gql "github.com/shashiranjanraj/stockroom/pkg/graphql"
)

// GraphQLController exposes the inventory API as a single read-only
// GraphQL query root at POST /api/graphql.
type GraphQLController struct {
	schema  graphql.Schema
	handler http.HandlerFunc
}

func NewGraphQLController(inv *repositories.InventoryRepository, orders *repositories.OrderRepository) (*GraphQLController, error) {
	schema, err := gql.NewSchema(queryRoot(inv, orders))
	if err != nil {
		return nil, fmt.Errorf("controllers: graphql schema: %w", err)
	}
	return &GraphQLController{schema: schema, handler: gql.Handler(schema)}, nil
}

// Schema returns the compiled schema.
func (g *GraphQLController) Schema() graphql.Schema { return g.schema }

func (g *GraphQLController) Query(c *ctx.Context) { g.handler(c.W, c.R) }

func object(name string, fields map[string]graphql.Output) *graphql.Object {
	fs := graphql.Fields{}
	for k, t := range fields {
		fs[k] = &graphql.Field{Type: t}
	}
	return graphql.NewObject(graphql.ObjectConfig{Name: name, Fields: fs})
}

var (
	inventoryItemFields = map[string]graphql.Output{
		"sku":               graphql.NewNonNull(graphql.String),
		"productName":       graphql.String,
		"category":          graphql.String,
		"quantityOnHand":    graphql.Int,
		"quantityAvailable": graphql.Int,
		"unitCost":          gql.Decimal,
		"totalValue":        gql.Decimal,
		"supplier":          graphql.String,
		"location":          graphql.String,
	}

	inventoryItemType = object("InventoryItem", inventoryItemFields)

	inventoryDetailsType = object("InventoryDetails", merge(inventoryItemFields, map[string]graphql.Output{
		"reorderLevel": graphql.Int,
		"leadTime":     graphql.String,
	}))

	alternativeSkuType = object("AlternativeSku", map[string]graphql.Output{
		"primarySku":      graphql.NewNonNull(graphql.String),
		"alternativeSku":  graphql.NewNonNull(graphql.String),
		"description":     graphql.String,
		"conversionRatio": gql.Decimal,
	})

	openOrderType = object("OpenOrder", map[string]graphql.Output{
		"orderNumber":  graphql.NewNonNull(graphql.String),
		"sku":          graphql.String,
		"customerName": graphql.String,
		"quantity":     graphql.Int,
		"totalAmount":  gql.Decimal,
		"orderDate":    graphql.DateTime,
		"status":       graphql.String,
	})

	purchaseOrderType = object("PurchaseOrder", map[string]graphql.Output{
		"poNumber":  graphql.NewNonNull(graphql.String),
		"sku":       graphql.String,
		"supplier":  graphql.String,
		"quantity":  graphql.Int,
		"totalCost": gql.Decimal,
		"orderDate": graphql.DateTime,
		"status":    graphql.String,
	})

	leadType = object("Lead", map[string]graphql.Output{
		"leadId":         graphql.NewNonNull(graphql.String),
		"companyName":    graphql.String,
		"contactName":    graphql.String,
		"interestedSku":  graphql.String,
		"estimatedValue": gql.Decimal,
		"status":         graphql.String,
	})

	opportunityType = object("Opportunity", map[string]graphql.Output{
		"opportunityId": graphql.NewNonNull(graphql.String),
		"customerName":  graphql.String,
		"sku":           graphql.String,
		"quantity":      graphql.Int,
		"value":         gql.Decimal,
		"probability":   graphql.Int,
		"stage":         graphql.String,
	})

	warehouseType = object("Warehouse", map[string]graphql.Output{
		"warehouseName": graphql.NewNonNull(graphql.String),
		"location":      graphql.String,
		"totalSkus":     graphql.Int,
		"totalQuantity": graphql.Int,
		"totalValue":    gql.Decimal,
		"capacity":      graphql.Int,
		"status":        graphql.String,
		"manager":       graphql.String,
	})

	warehouseItemType = object("WarehouseItem", map[string]graphql.Output{
		"sku":      graphql.String,
		"quantity": graphql.Int,
		"value":    gql.Decimal,
	})

	warehouseDetailsType = object("WarehouseDetails", map[string]graphql.Output{
		"warehouseName": graphql.NewNonNull(graphql.String),
		"location":      graphql.String,
		"manager":       graphql.String,
		"status":        graphql.String,
		"capacity":      graphql.Int,
		"items":         graphql.NewList(warehouseItemType),
	})

	categoryStockType = object("CategoryStock", map[string]graphql.Output{
		"category":  graphql.String,
		"onHand":    graphql.Int,
		"reserved":  graphql.Int,
		"available": graphql.Int,
	})

	monthlyCostType = object("MonthlyCost", map[string]graphql.Output{
		"month":          graphql.String,
		"inventoryValue": gql.Decimal,
		"purchaseOrders": gql.Decimal,
		"sales":          gql.Decimal,
	})
)

func merge(a, b map[string]graphql.Output) map[string]graphql.Output {
	out := make(map[string]graphql.Output, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

var optionalSKU = graphql.FieldConfigArgument{
	"sku": &graphql.ArgumentConfig{Type: graphql.String},
}

func queryRoot(inv *repositories.InventoryRepository, orders *repositories.OrderRepository) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"inventory": &graphql.Field{
				Type: graphql.NewList(inventoryItemType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := inv.Inventory(p.Context)
					return gql.Rows(rows), err
				},
			},
			"search": &graphql.Field{
				Type: graphql.NewList(inventoryItemType),
				Args: graphql.FieldConfigArgument{
					"q": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := inv.Search(p.Context, stringArg(p, "q"))
					return gql.Rows(rows), err
				},
			},
			"item": &graphql.Field{
				Type: inventoryDetailsType,
				Args: graphql.FieldConfigArgument{
					"sku": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d, err := inv.Item(p.Context, stringArg(p, "sku"))
					if err != nil {
						return nil, err
					}
					return gql.Row(d), nil
				},
			},
			"alternatives": &graphql.Field{
				Type: graphql.NewList(alternativeSkuType),
				Args: graphql.FieldConfigArgument{
					"primarySku": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := inv.Alternatives(p.Context, stringArg(p, "primarySku"))
					return gql.Rows(rows), err
				},
			},
			"warehouses": &graphql.Field{
				Type: graphql.NewList(warehouseType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := inv.Warehouses(p.Context)
					return gql.Rows(rows), err
				},
			},
			"warehouse": &graphql.Field{
				Type: warehouseDetailsType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d, err := inv.Warehouse(p.Context, stringArg(p, "name"))
					if err != nil {
						return nil, err
					}
					row := gql.Row(d)
					row["items"] = gql.Rows(d.Items)
					return row, nil
				},
			},
			"openOrders": &graphql.Field{
				Type: graphql.NewList(openOrderType),
				Args: optionalSKU,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := orders.OpenOrders(p.Context, stringArg(p, "sku"))
					return gql.Rows(rows), err
				},
			},
			"purchaseOrders": &graphql.Field{
				Type: graphql.NewList(purchaseOrderType),
				Args: optionalSKU,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := orders.PurchaseOrders(p.Context, stringArg(p, "sku"))
					return gql.Rows(rows), err
				},
			},
			"leads": &graphql.Field{
				Type: graphql.NewList(leadType),
				Args: optionalSKU,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := orders.Leads(p.Context, stringArg(p, "sku"))
					return gql.Rows(rows), err
				},
			},
			"opportunities": &graphql.Field{
				Type: graphql.NewList(opportunityType),
				Args: optionalSKU,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := orders.Opportunities(p.Context, stringArg(p, "sku"))
					return gql.Rows(rows), err
				},
			},
			"inventoryByCategory": &graphql.Field{
				Type: graphql.NewList(categoryStockType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := inv.InventoryByCategory(p.Context)
					return gql.Rows(rows), err
				},
			},
			"costByMonth": &graphql.Field{
				Type: graphql.NewList(monthlyCostType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := inv.CostByMonth(p.Context)
					return gql.Rows(rows), err
				},
			},
		},
	})
}
