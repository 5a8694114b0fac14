package validator_test

import (
	"strings"
	"testing"

	"liberty/pkg/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Title string          `json:"title" validate:"required,min=3,max=10"`
	Price decimal.Decimal `json:"price" validate:"gt=0,lte=100"`
	Stars int             `json:"stars" validate:"gte=0,lte=5"`
}

func TestFields_Valid(t *testing.T) {
	fields, err := validator.New().Fields(item{Title: "Lamp", Price: decimal.RequireFromString("9.99"), Stars: 5})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestFields_ReportsJSONNames(t *testing.T) {
	fields, err := validator.New().Fields(item{Title: "ab", Price: decimal.Zero, Stars: 6})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"title": "must be at least 3 characters long",
		"price": "must be greater than 0",
		"stars": "must be less than or equal to 5",
	}, fields)
}

func TestFields_DecimalUpperBound(t *testing.T) {
	fields, err := validator.New().Fields(item{Title: "Lamp", Price: decimal.RequireFromString("100.01")})
	require.NoError(t, err)
	assert.Equal(t, "must be less than or equal to 100", fields["price"])
}

func TestFields_MissingAndTooLong(t *testing.T) {
	v := validator.New()

	fields, err := v.Fields(item{Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "field is required", fields["title"])

	fields, err = v.Fields(item{Title: strings.Repeat("x", 11), Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "must be at most 10 characters long", fields["title"])
}
