package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/salario/internal/payroll"
)

func TestChartSlicesDropsEmptyValues(t *testing.T) {
	res := payroll.Calculate(payroll.Input{GrossSalary: decimal.NewFromInt(1000)})

	slices := chartSlices(res)
	require.Len(t, slices, 2)
	assert.Equal(t, "Líquido", slices[0].Name)
	assert.Equal(t, "INSS", slices[1].Name)
}

func TestChartSlicesIncludesOtherDiscounts(t *testing.T) {
	res := payroll.Calculate(payroll.Input{GrossSalary: decimal.NewFromInt(3000), OtherDiscounts: decimal.NewFromInt(100)})

	slices := chartSlices(res)
	require.Len(t, slices, 4)
	assert.Equal(t, "#6B7280", slices[3].Fill)
}

func TestConicGradient(t *testing.T) {
	res := payroll.Calculate(payroll.Input{GrossSalary: decimal.NewFromInt(1000)})

	assert.Equal(t,
		"conic-gradient(#10B981 0.00% 92.50%, #F59E0B 92.50% 100.00%)",
		string(conicGradient(chartSlices(res))),
	)
	assert.Equal(t, "#e5e7eb", string(conicGradient(nil)))
}
