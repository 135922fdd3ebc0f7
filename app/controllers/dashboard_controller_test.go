package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/app/controllers"
	"github.com/shashiranjanraj/stockroom/app/dashboard"
	"github.com/shashiranjanraj/stockroom/app/routes"
	"github.com/shashiranjanraj/stockroom/app/samples"
	"github.com/shashiranjanraj/stockroom/app/services"
	"github.com/shashiranjanraj/stockroom/internal/kernel"
	"github.com/shashiranjanraj/stockroom/pkg/apiclient"
	"github.com/shashiranjanraj/stockroom/pkg/cache"
	"github.com/shashiranjanraj/stockroom/pkg/router"
	"github.com/shashiranjanraj/stockroom/pkg/session"
	"github.com/shashiranjanraj/stockroom/pkg/storage"
	"github.com/shashiranjanraj/stockroom/pkg/testkit"
)

type dashboardFixture struct {
	h     http.Handler
	pages *dashboard.Registry
	disk  storage.Disk
}

func newDashboard(t *testing.T) dashboardFixture {
	t.Helper()

	mt := testkit.NewMockTransport().
		On("", testkit.NetworkError()).
		On("/api/inventory/search", testkit.JSON(http.StatusOK, samples.Search("SKU-12345"))).
		On("/api/orders/open", testkit.JSON(http.StatusOK, map[string]any{"orders": samples.OpenOrders()}))
	client := apiclient.New(apiclient.Config{BaseURL: "http://upstream.test/api", Timeout: time.Second},
		apiclient.WithTransport(mt))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	disk := storage.NewLocal(t.TempDir(), "/dashboard/exports")
	pages := dashboard.NewRegistry(ctx, dashboard.Deps{
		Services: services.New(client, services.Options{}),
		Disk:     disk,
		LowStock: 100,
	}, time.Hour)

	k, err := kernel.New(kernel.Options{RateLimit: 1000}, func(r *router.Router) error {
		routes.RegisterWeb(r, controllers.NewDashboardController(pages, nil, disk))
		return nil
	})
	require.NoError(t, err)
	return dashboardFixture{h: k.Handler(), pages: pages, disk: disk}
}

func (f dashboardFixture) serve(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testkit.Serve(t, f.h, method, target, body)
}

func (f dashboardFixture) searchLoaded(t *testing.T, q string) {
	t.Helper()
	rec := f.serve(t, http.MethodPost, "/dashboard/search", map[string]string{"query": q})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	p, ok := f.pages.Lookup(controllers.AnonymousPage)
	require.True(t, ok)
	require.Eventually(t, func() bool { return p.Phase() == dashboard.PhaseLoaded },
		2*time.Second, 5*time.Millisecond)
}

func TestDashboard_BlankSearchIsRejected(t *testing.T) {
	f := newDashboard(t)

	rec := f.serve(t, http.MethodPost, "/dashboard/search", map[string]string{"query": "  "})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := testkit.DecodeEnvelope(t, rec, nil)
	assert.Equal(t, dashboard.EmptyQueryNotice, env.Message)
}

func TestDashboard_SearchThenState(t *testing.T) {
	f := newDashboard(t)

	rec := f.serve(t, http.MethodPost, "/dashboard/search", map[string]string{"query": "SKU-12345"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	var started struct {
		Generation uint64 `json:"generation"`
	}
	testkit.DecodeEnvelope(t, rec, &started)
	assert.Equal(t, uint64(1), started.Generation)

	p, _ := f.pages.Lookup(controllers.AnonymousPage)
	require.Eventually(t, func() bool { return p.Phase() == dashboard.PhaseLoaded },
		2*time.Second, 5*time.Millisecond)

	rec = f.serve(t, http.MethodGet, "/dashboard/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap dashboard.Snapshot
	testkit.DecodeEnvelope(t, rec, &snap)
	assert.Equal(t, dashboard.PhaseLoaded, snap.Phase)
	assert.Equal(t, 1, snap.Tables[dashboard.SectionInventory].Count)
	assert.Equal(t, "SKU-12345", snap.SelectedSKU)
}

func TestDashboard_SortErrors(t *testing.T) {
	f := newDashboard(t)
	f.searchLoaded(t, "SKU-12345")

	rec := f.serve(t, http.MethodPost, "/dashboard/tables/bogus/sort", map[string]string{"key": "sku"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.serve(t, http.MethodPost, "/dashboard/tables/alternatives/sort", map[string]string{"key": "description"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.serve(t, http.MethodPost, "/dashboard/tables/alternatives/sort", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.serve(t, http.MethodPost, "/dashboard/tables/alternatives/sort", map[string]string{"key": "conversionRatio"})
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Rows [][]string `json:"rows"`
	}
	testkit.DecodeEnvelope(t, rec, &view)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "0.80x", view.Rows[0][3])
}

func TestDashboard_RowClickOpensModal(t *testing.T) {
	f := newDashboard(t)
	f.searchLoaded(t, "SKU-12345")

	rec := f.serve(t, http.MethodPost, "/dashboard/tables/inventory/rows/7/click", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.serve(t, http.MethodPost, "/dashboard/tables/inventory/rows/x/click", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.serve(t, http.MethodPost, "/dashboard/tables/inventory/rows/0/click", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var m dashboard.Modal
	testkit.DecodeEnvelope(t, rec, &m)
	assert.Equal(t, dashboard.ModalSKUDetail, m.Kind)
	assert.Equal(t, "SKU-12345", m.SKU)

	rec = f.serve(t, http.MethodPost, "/dashboard/modal/close", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDashboard_MenuExportIsDownloadable(t *testing.T) {
	f := newDashboard(t)
	f.searchLoaded(t, "SKU-12345")

	rec := f.serve(t, http.MethodPost, "/dashboard/menu/select", map[string]string{"action": "export-csv"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.serve(t, http.MethodPost, "/dashboard/tables/inventory/rows/0/menu", map[string]int{"x": 40, "y": 60})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.serve(t, http.MethodPost, "/dashboard/menu/select", map[string]string{"action": "print"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.serve(t, http.MethodPost, "/dashboard/menu/select", map[string]string{"action": "export-csv"})
	require.Equal(t, http.StatusOK, rec.Code)
	var snap dashboard.Snapshot
	testkit.DecodeEnvelope(t, rec, &snap)
	require.NotNil(t, snap.Export)
	assert.False(t, snap.Menu.Open)

	rec = f.serve(t, http.MethodGet, snap.Export.URL, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, snap.Export.Document, rec.Body.String())
	assert.Equal(t, "text/csv;charset=utf-8;", rec.Header().Get("Content-Type"))

	rec = f.serve(t, http.MethodGet, "/dashboard/exports/exports/missing.csv", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboard_ExportsServesEscapedFileNames(t *testing.T) {
	f := newDashboard(t)
	require.NoError(t, f.disk.Put(context.Background(), "exports/2026-10-17/data-A B#1.csv", []byte("sku\nA B#1"), "text/csv"))

	rec := f.serve(t, http.MethodGet, "/dashboard/exports/exports/2026-10-17/data-A%20B%231.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sku\nA B#1", rec.Body.String())
}

func TestDashboard_MenuDismiss(t *testing.T) {
	f := newDashboard(t)
	f.searchLoaded(t, "SKU-12345")

	require.Equal(t, http.StatusOK,
		f.serve(t, http.MethodPost, "/dashboard/tables/inventory/rows/0/menu", map[string]int{"x": 40, "y": 60}).Code)

	rec := f.serve(t, http.MethodPost, "/dashboard/menu/dismiss", map[string]string{"key": "Escape"})
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]bool
	testkit.DecodeEnvelope(t, rec, &out)
	assert.True(t, out["closed"])

	rec = f.serve(t, http.MethodPost, "/dashboard/menu/dismiss", nil)
	testkit.DecodeEnvelope(t, rec, &out)
	assert.False(t, out["closed"])
}

func TestDashboard_TableExport(t *testing.T) {
	f := newDashboard(t)
	f.searchLoaded(t, "SKU-12345")

	rec := f.serve(t, http.MethodGet, "/dashboard/tables/openOrders/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="openOrders-export.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "orderNumber,sku,"))

	rec = f.serve(t, http.MethodGet, "/dashboard/tables/openOrders/export?format=excel", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = f.serve(t, http.MethodGet, "/dashboard/tables/openOrders/export?format=pdf", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDashboard_WarehouseDetails(t *testing.T) {
	f := newDashboard(t)

	rec := f.serve(t, http.MethodGet, "/dashboard/warehouses/Warehouse%20C", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var m dashboard.Modal
	testkit.DecodeEnvelope(t, rec, &m)
	assert.Equal(t, dashboard.ModalWarehouseDetail, m.Kind)
	assert.Equal(t, "Warehouse C", m.Name)
	assert.True(t, m.Fallback)
	require.NotNil(t, m.Warehouse)
}

func TestDashboard_IndexRendersShell(t *testing.T) {
	f := newDashboard(t)

	rec := f.serve(t, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "SKU Warehouse Dashboard")
	assert.Contains(t, rec.Body.String(), `data-phase="idle"`)
}

func TestDashboard_SessionsGetTheirOwnPage(t *testing.T) {
	f := newDashboard(t)
	mgr := session.NewManager(cache.NewMemory(), session.DefaultOptions())
	k, err := kernel.New(kernel.Options{Sessions: mgr, RateLimit: 1000}, func(r *router.Router) error {
		routes.RegisterWeb(r, controllers.NewDashboardController(f.pages, nil, nil))
		return nil
	})
	require.NoError(t, err)

	first := testkit.Serve(t, k.Handler(), http.MethodGet, "/dashboard/state", nil)
	second := testkit.Serve(t, k.Handler(), http.MethodGet, "/dashboard/state", nil)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b dashboard.Snapshot
	testkit.DecodeEnvelope(t, first, &a)
	testkit.DecodeEnvelope(t, second, &b)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, f.pages.Len())
}
