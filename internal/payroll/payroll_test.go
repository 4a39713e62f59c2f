package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, name, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s = %s, want %s", name, got, want)
}

func TestContribution_MarginalBands(t *testing.T) {
	cases := []struct {
		gross string
		want  string
	}{
		{"0", "0"},
		{"1000", "75"},
		{"1412", "105.9"},
		{"2666.68", "218.8212"},
		{"3000", "258.8196"},
		{"4000.03", "378.8232"},
		{"7786.02", "908.8618"},
	}
	for _, tc := range cases {
		t.Run(tc.gross, func(t *testing.T) {
			assertDecimal(t, "contribution", tc.want, Contribution(dec(tc.gross)))
		})
	}
}

func TestContribution_FlatAboveCeiling(t *testing.T) {
	ceiling := ContributionCeiling()
	assertDecimal(t, "ceiling", "908.8618", ceiling)

	for _, gross := range []string{"7786.03", "10000", "25000", "1000000"} {
		assertDecimal(t, "contribution("+gross+")", ceiling.String(), Contribution(dec(gross)))
	}
}

func TestContribution_NonNegativeAndNonDecreasing(t *testing.T) {
	step := dec("37.25")
	prev := decimal.Zero
	for gross := decimal.Zero; gross.LessThan(dec("12000")); gross = gross.Add(step) {
		got := Contribution(gross)
		require.False(t, got.IsNegative(), "contribution(%s) is negative", gross)
		require.True(t, got.GreaterThanOrEqual(prev), "contribution(%s) = %s decreased from %s", gross, got, prev)
		prev = got
	}
}

func TestSchedule_FlatUsesFirstCoveringBracket(t *testing.T) {
	s := IRRFSchedule()

	assertDecimal(t, "exempt band edge", "0", s.Flat(dec("2259.20")))
	assertDecimal(t, "negative base", "0", s.Flat(dec("-150")))
	assertDecimal(t, "second band", "13.2", s.Flat(dec("2435.20")))
	assertDecimal(t, "top band", "1698.68", s.Flat(dec("9435.20")))
}

func TestSchedulesAreCopies(t *testing.T) {
	s := INSSSchedule()
	s[0].Rate = dec("0.5")

	assertDecimal(t, "contribution after mutating copy", "105.9", Contribution(dec("1412")))
	assert.True(t, INSSSchedule()[len(s)-1].Unbounded())
	assert.True(t, IRRFSchedule()[len(IRRFSchedule())-1].Unbounded())
}

func TestCalculate_ScenarioA(t *testing.T) {
	result := Calculate(Input{GrossSalary: dec("3000")})

	assertDecimal(t, "inss", "258.8196", result.INSS)
	assertDecimal(t, "irrf", "13.2", result.IRRF)
	assert.Equal(t, MethodSimplified, result.IRRFMethod)
	assertDecimal(t, "netSalary", "2727.9804", result.NetSalary)

	cmp := CompareMethods(dec("3000"), result.INSS, 0)
	assertDecimal(t, "itemized tax", "36.14853", cmp.Itemized.Tax)
	assertDecimal(t, "simplified tax", "13.2", cmp.Simplified.Tax)
}

func TestCalculate_ScenarioB_BelowExemption(t *testing.T) {
	result := Calculate(Input{GrossSalary: dec("1000")})

	assertDecimal(t, "irrf", "0", result.IRRF)
	assertDecimal(t, "inss", "75", result.INSS)
	assertDecimal(t, "netSalary", "925", result.NetSalary)
}

func TestCalculate_ScenarioC_CappedContribution(t *testing.T) {
	result := Calculate(Input{GrossSalary: dec("10000")})

	assertDecimal(t, "inss", ContributionCeiling().String(), result.INSS)
	assertDecimal(t, "irrf", "1604.063005", result.IRRF)
	assert.Equal(t, MethodItemized, result.IRRFMethod)
}

func TestCalculate_ScenarioD_DependentsNeverIncreaseWithholding(t *testing.T) {
	for _, gross := range []string{"2500", "3000", "4500", "6000", "10000"} {
		prev := Calculate(Input{GrossSalary: dec(gross)}).IRRF
		for deps := 1; deps <= 3; deps++ {
			got := Calculate(Input{GrossSalary: dec(gross), Dependents: deps}).IRRF
			assert.Truef(t, got.LessThanOrEqual(prev), "gross=%s dependents=%d irrf=%s > %s", gross, deps, got, prev)
			prev = got
		}
	}
}

func TestCalculate_ZeroSalary(t *testing.T) {
	result := Calculate(Input{})

	assert.True(t, result.INSS.IsZero())
	assert.True(t, result.IRRF.IsZero())
	assert.True(t, result.NetSalary.IsZero())
	assert.True(t, result.INSSEffectiveRate.IsZero())
	assert.True(t, result.IRRFEffectiveRate.IsZero())
	assert.True(t, result.NetShare().IsZero())
}

func TestCalculate_TotalsInvariant(t *testing.T) {
	inputs := []Input{
		{GrossSalary: dec("1412"), OtherDiscounts: dec("50")},
		{GrossSalary: dec("3751.05"), Dependents: 2, OtherDiscounts: dec("120.33")},
		{GrossSalary: dec("8000"), Dependents: 1, OtherDiscounts: dec("999.99")},
		{GrossSalary: dec("0"), OtherDiscounts: dec("10")},
	}
	for _, in := range inputs {
		r := Calculate(in)
		assert.True(t, r.TotalDiscounts.Equal(r.INSS.Add(r.IRRF).Add(r.OtherDiscounts)), "totals for %+v", in)
		assert.True(t, r.NetSalary.Equal(r.GrossSalary.Sub(r.TotalDiscounts)), "net for %+v", in)
	}
}

func TestWithholding_NeverExceedsEitherMethod(t *testing.T) {
	for gross := decimal.Zero; gross.LessThan(dec("15000")); gross = gross.Add(dec("211.7")) {
		for deps := 0; deps <= 4; deps++ {
			inss := Contribution(gross)
			cmp := CompareMethods(gross, inss, deps)
			got := Withholding(gross, inss, deps)

			require.False(t, got.IsNegative())
			require.True(t, got.LessThanOrEqual(cmp.Itemized.Tax), "gross=%s deps=%d", gross, deps)
			require.True(t, got.LessThanOrEqual(cmp.Simplified.Tax), "gross=%s deps=%d", gross, deps)
		}
	}
}

func TestCalculate_EffectiveRates(t *testing.T) {
	r := Calculate(Input{GrossSalary: dec("1000")})

	assertDecimal(t, "inss rate", "0.075", r.INSSEffectiveRate)
	assertDecimal(t, "irrf rate", "0", r.IRRFEffectiveRate)
	assertDecimal(t, "net share", "0.925", r.NetShare())
}

func TestInput_Clamped(t *testing.T) {
	in := Input{GrossSalary: dec("-10"), Dependents: -2, OtherDiscounts: dec("-1")}.Clamped()

	assert.True(t, in.GrossSalary.IsZero())
	assert.Equal(t, 0, in.Dependents)
	assert.True(t, in.OtherDiscounts.IsZero())

	kept := Input{GrossSalary: dec("3000"), Dependents: 1, OtherDiscounts: dec("5")}.Clamped()
	assertDecimal(t, "gross", "3000", kept.GrossSalary)
	assert.Equal(t, 1, kept.Dependents)
}

func TestInput_ClampedBoundsMagnitude(t *testing.T) {
	huge := Input{GrossSalary: dec("1e500000"), OtherDiscounts: dec("2000000000000")}.Clamped()
	assert.True(t, huge.GrossSalary.Equal(MaxAmount))
	assert.True(t, huge.OtherDiscounts.Equal(MaxAmount))

	tiny := Input{GrossSalary: dec("1e-500000"), OtherDiscounts: dec("-1e500000")}.Clamped()
	assert.True(t, tiny.GrossSalary.IsZero())
	assert.True(t, tiny.OtherDiscounts.IsZero())

	fine := Input{GrossSalary: dec("3000.123456789123")}.Clamped()
	assertDecimal(t, "rounded gross", "3000.12345679", fine.GrossSalary)

	r := Calculate(huge)
	assertDecimal(t, "inss", ContributionCeiling().String(), r.INSS)
}
