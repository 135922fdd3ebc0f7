package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockroom/pkg/validate"
)

type exportInput struct {
	Section string `json:"section" validate:"required,alpha_dash,max=32"`
	Format  string `json:"format"  validate:"required,in=csv|excel"`
	Query   string `json:"query"   validate:"nullable,max=10"`
	X       int    `json:"x"       validate:"gte=0,lte=10000"`
}

func TestStruct_Valid(t *testing.T) {
	errs := validate.Struct(exportInput{Section: "open_orders", Format: "csv", X: 12})
	assert.False(t, validate.HasErrors(errs), errs)
}

func TestStruct_Required(t *testing.T) {
	errs := validate.Struct(&exportInput{})
	assert.Equal(t, "The section field is required.", errs["section"])
	assert.Equal(t, "The format field is required.", errs["format"])
	assert.NotContains(t, errs, "query")
}

func TestStruct_Rules(t *testing.T) {
	errs := validate.Struct(exportInput{
		Section: "inventory;drop",
		Format:  "pdf",
		Query:   "much too long query",
		X:       -1,
	})
	assert.Contains(t, errs["section"], "letters, numbers, dashes and underscores")
	assert.Equal(t, "The selected format is invalid.", errs["format"])
	assert.Equal(t, "The query field may not be greater than 10 characters.", errs["query"])
	assert.Equal(t, "The x field must be greater than or equal to 0.", errs["x"])
}

func TestStruct_NonStructIsEmpty(t *testing.T) {
	assert.Empty(t, validate.Struct("nope"))
}
