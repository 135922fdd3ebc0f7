package csvexport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/pkg/csvexport"
	"github.com/shashiranjanraj/stockroom/pkg/storage"
)

type row struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"productName"`
	Qty      int             `json:"quantityOnHand"`
	Cost     decimal.Decimal `json:"unitCost"`
	Internal string          `json:"-"`
	hidden   string
}

func TestEncode_QuotesCommaValue(t *testing.T) {
	rec := csvexport.Record{{Name: "sku", Value: "A,1"}, {Name: "qty", Value: 5}}
	assert.Equal(t, "sku,qty\n\"A,1\",5", csvexport.Encode(rec))
}

func TestEncode_HeaderAndRowWithoutTrailingBreak(t *testing.T) {
	rec := csvexport.Record{{Name: "sku", Value: "SKU-1"}, {Name: "qty", Value: 5}}
	lines := strings.Split(csvexport.Encode(rec), "\n")

	assert.Equal(t, []string{"sku,qty", "SKU-1,5"}, lines)
}

func TestEncode_NestedValuesAreAlwaysQuoted(t *testing.T) {
	rec := csvexport.Record{
		{Name: "tags", Value: []int{1}},
		{Name: "m", Value: map[string]any{}},
		{Name: "plain", Value: "x"},
	}
	assert.Equal(t, "tags,m,plain\n\"[1]\",\"{}\",x", csvexport.Encode(rec))
	assert.Equal(t, `"[1]"`, csvexport.Cell([]int{1}))
	assert.Equal(t, "[1]", csvexport.Format([]int{1}))
}

func TestQuote_CarriageReturnAloneIsVerbatim(t *testing.T) {
	assert.Equal(t, "a\rb", csvexport.Quote("a\rb"))
	assert.Equal(t, "\"a\nb\"", csvexport.Quote("a\nb"))
	assert.Equal(t, "plain", csvexport.Quote("plain"))
}

func TestEncode_TwoLinesWithMatchingFieldCounts(t *testing.T) {
	rec := csvexport.Record{
		{Name: "note", Value: `say "hi"`},
		{Name: "multi", Value: "line1\nline2"},
		{Name: "plain", Value: "ok"},
		{Name: "missing", Value: nil},
	}
	out := csvexport.Encode(rec)

	assert.Equal(t, "note,multi,plain,missing\n\"say \"\"hi\"\"\",\"line1\nline2\",ok,", out)
	assert.True(t, strings.HasPrefix(out, "note,multi,plain,missing\n"))
}

func TestFormat(t *testing.T) {
	when := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	var nilPtr *int

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"nil pointer", nilPtr, ""},
		{"bool", true, "true"},
		{"float", 0.85, "0.85"},
		{"decimal", decimal.RequireFromString("20695.50"), "20695.5"},
		{"time", when, "2024-01-15T00:00:00Z"},
		{"map", map[string]any{"a": 1}, `{"a":1}`},
		{"slice", []string{"x", "y"}, `["x","y"]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, csvexport.Format(tc.in))
		})
	}
}

func TestEncode_NestedValueIsQuotedJSON(t *testing.T) {
	rec := csvexport.Record{{Name: "meta", Value: map[string]any{"a": 1, "b": 2}}}
	assert.Equal(t, "meta\n\"{\"\"a\"\":1,\"\"b\"\":2}\"", csvexport.Encode(rec))
}

func TestFromStruct_UsesJSONTagsInOrder(t *testing.T) {
	rec, err := csvexport.FromStruct(&row{SKU: "SKU-1", Name: "Widget", Qty: 3, Cost: decimal.NewFromInt(2), Internal: "x"})
	require.NoError(t, err)

	assert.Equal(t, []string{"sku", "productName", "quantityOnHand", "unitCost"}, rec.Names())
	assert.Equal(t, "sku,productName,quantityOnHand,unitCost\nSKU-1,Widget,3,2", csvexport.Encode(rec))
}

func TestFromStruct_RejectsScalars(t *testing.T) {
	_, err := csvexport.FromStruct(42)
	assert.Error(t, err)
}

func TestFromMap_SortsKeys(t *testing.T) {
	rec := csvexport.FromMap(map[string]any{"qty": 5, "sku": "A"})
	assert.Equal(t, []string{"qty", "sku"}, rec.Names())
}

func TestEncodeAll(t *testing.T) {
	recs := []csvexport.Record{
		{{Name: "sku", Value: "A"}, {Name: "qty", Value: 1}},
		{{Name: "qty", Value: 2}, {Name: "sku", Value: "B"}},
	}
	assert.Equal(t, "sku,qty\nA,1\nB,2", csvexport.EncodeAll(recs))
	assert.Equal(t, "", csvexport.EncodeAll(nil))
}

func TestStemAndFilename(t *testing.T) {
	assert.Equal(t, "data-SKU-12345", csvexport.Stem(csvexport.Record{{Name: "sku", Value: "SKU-12345"}}))
	assert.Equal(t, "data-export", csvexport.Stem(nil))
	assert.Equal(t, "data-export", csvexport.Stem(csvexport.Record{{Name: "sku", Value: ""}}))
	assert.Equal(t, "data-a_b", csvexport.Stem(csvexport.Record{{Name: "sku", Value: "a/b"}}))
	assert.Equal(t, "report.csv", csvexport.Filename("report"))
	assert.Equal(t, "report.csv", csvexport.Filename("report.csv"))
}

func TestDownload_WritesAttachment(t *testing.T) {
	rec := csvexport.Record{{Name: "sku", Value: "A,1"}, {Name: "qty", Value: 5}}
	w := httptest.NewRecorder()

	require.NoError(t, csvexport.Download(w, rec, "data-A"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, csvexport.MimeType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="data-A.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "sku,qty\n\"A,1\",5", w.Body.String())
}

func TestArchive_StoresUnderDatedPath(t *testing.T) {
	ctx := context.Background()
	disk := storage.NewLocal(t.TempDir(), "http://files.test")
	rec := csvexport.Record{{Name: "sku", Value: "SKU-1"}}

	url, err := csvexport.Archive(ctx, disk, rec, "data-SKU-1")
	require.NoError(t, err)

	p := csvexport.ArchivePath("data-SKU-1", time.Now())
	assert.Equal(t, "http://files.test/"+p, url)

	got, err := disk.Get(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "sku\nSKU-1", string(got))
}

func TestArchive_EscapesFileNameInURL(t *testing.T) {
	ctx := context.Background()
	disk := storage.NewLocal(t.TempDir(), "http://files.test")
	rec := csvexport.Record{{Name: "sku", Value: "A B#1"}}
	stem := csvexport.Stem(rec)

	url, err := csvexport.Archive(ctx, disk, rec, stem)
	require.NoError(t, err)

	dir := path.Dir(csvexport.ArchivePath(stem, time.Now()))
	assert.Equal(t, "http://files.test/"+dir+"/data-A%20B%231.csv", url)

	got, err := disk.Get(ctx, csvexport.ArchivePath(stem, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "sku\nA B#1", string(got))
}
