package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestGroup_NamesAndRoutes(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/inventory/{sku}", "inventory.show", ok)
	api.Get("/inventory", "inventory.index", ok)
	r.Post("/dashboard/search", "dashboard.search", ok)

	url, err := r.URL("inventory.show", map[string]string{"sku": "SKU-1"})
	require.NoError(t, err)
	assert.Equal(t, "/api/inventory/SKU-1", url)

	_, err = r.URL("inventory.show", nil)
	assert.Error(t, err)

	assert.Equal(t, []router.Route{
		{Method: http.MethodGet, Path: "/api/inventory", Name: "inventory.index"},
		{Method: http.MethodGet, Path: "/api/inventory/{sku}", Name: "inventory.show"},
		{Method: http.MethodPost, Path: "/dashboard/search", Name: "dashboard.search"},
	}, r.Routes())

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inventory/SKU-1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGroup_MiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	g := r.Group("/api", mw("group"))
	g.Get("/leads", "leads.index", ok, mw("route"))

	r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/leads", nil))
	assert.Equal(t, []string{"group", "route"}, order)
}
