package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	cases := map[string]string{
		"0":          "R$ 0,00",
		"3000":       "R$ 3.000,00",
		"258.8196":   "R$ 258,82",
		"1234567.89": "R$ 1.234.567,89",
		"-13.2":      "-R$ 13,20",
	}
	for in, want := range cases {
		assert.Equal(t, want, Currency(decimal.RequireFromString(in)), in)
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "8,63%", Percentage(decimal.RequireFromString("0.0862732")))
	assert.Equal(t, "0,00%", Percentage(decimal.Zero))
	assert.Equal(t, "100,00%", Percentage(decimal.NewFromInt(1)))
}
