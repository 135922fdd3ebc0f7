// Package graphql serves read-only graphql-go schemas over HTTP.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/stockroom/pkg/csvexport"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
)

// NewSchema creates a schema from a root query.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Decimal serializes shopspring decimals as strings so no precision is lost.
var Decimal = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Decimal",
	Description: "An arbitrary-precision decimal encoded as a string.",
	Serialize: func(v interface{}) interface{} {
		switch d := v.(type) {
		case decimal.Decimal:
			return d.String()
		case *decimal.Decimal:
			if d == nil {
				return nil
			}
			return d.String()
		}
		return nil
	},
	ParseValue: func(v interface{}) interface{} {
		if s, ok := v.(string); ok {
			if d, err := decimal.NewFromString(s); err == nil {
				return d
			}
		}
		return nil
	},
	ParseLiteral: func(v ast.Value) interface{} {
		if s, ok := v.(*ast.StringValue); ok {
			if d, err := decimal.NewFromString(s.Value); err == nil {
				return d
			}
		}
		return nil
	},
})

// Row flattens v into a map keyed by its JSON field names, which the default
// resolver reads directly. Embedded structs are flattened.
func Row(v any) map[string]any {
	rec := csvexport.MustFromStruct(v)
	out := make(map[string]any, len(rec))
	for _, f := range rec {
		out[f.Name] = f.Value
	}
	return out
}

// Rows flattens every element with Row.
func Rows[T any](rows []T) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		out[i] = Row(r)
	}
	return out
}

// Request is the standard GraphQL-over-HTTP body.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler executes POSTed queries against schema.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"errors": []map[string]string{{"message": "invalid request body"}},
			})
			return
		}

		res := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})
		if res.HasErrors() {
			logger.WithCtx(r.Context()).Warn("graphql: query errors", "errors", len(res.Errors))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}
