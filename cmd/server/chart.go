package main

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/salario/internal/payroll"
)

type chartSlice struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Fill  string          `json:"fill"`
}

type chartView struct {
	Slices   []chartSlice
	Gradient template.CSS
}

// chartSlices splits the gross salary into net pay and each discount,
// dropping empty slices.
func chartSlices(res payroll.Result) []chartSlice {
	return lo.Filter([]chartSlice{
		{Name: "Líquido", Value: res.NetSalary, Fill: "#10B981"},
		{Name: "INSS", Value: res.INSS, Fill: "#F59E0B"},
		{Name: "IRRF", Value: res.IRRF, Fill: "#EF4444"},
		{Name: "Outros", Value: res.OtherDiscounts, Fill: "#6B7280"},
	}, func(s chartSlice, _ int) bool {
		return s.Value.IsPositive()
	})
}

// conicGradient renders slices as a CSS conic-gradient pie.
func conicGradient(slices []chartSlice) template.CSS {
	total := lo.Reduce(slices, func(acc decimal.Decimal, s chartSlice, _ int) decimal.Decimal {
		return acc.Add(s.Value)
	}, decimal.Zero)
	if !total.IsPositive() {
		return template.CSS("#e5e7eb")
	}

	stops := make([]string, 0, len(slices))
	start := decimal.Zero
	for i, s := range slices {
		end := start.Add(s.Value.Div(total).Mul(decimal.NewFromInt(100)))
		if i == len(slices)-1 {
			end = decimal.NewFromInt(100)
		}
		stops = append(stops, fmt.Sprintf("%s %s%% %s%%", s.Fill, start.StringFixed(2), end.StringFixed(2)))
		start = end
	}
	return template.CSS("conic-gradient(" + strings.Join(stops, ", ") + ")")
}

func newChartView(res payroll.Result) chartView {
	slices := chartSlices(res)
	return chartView{Slices: slices, Gradient: conicGradient(slices)}
}
