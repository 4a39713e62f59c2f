package payroll

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Bracket is one band of a progressive schedule.
type Bracket struct {
	// UpperLimit is invalid (null) for the open-ended last bracket.
	UpperLimit decimal.NullDecimal
	Rate       decimal.Decimal
	// Deduction is the fixed subtrahend of the "rate × base − deduction" form.
	Deduction decimal.Decimal
}

// Unbounded reports whether the bracket has no upper limit.
func (b Bracket) Unbounded() bool {
	return !b.UpperLimit.Valid
}

// Covers reports whether value falls at or below the bracket's upper limit.
func (b Bracket) Covers(value decimal.Decimal) bool {
	return b.Unbounded() || value.LessThanOrEqual(b.UpperLimit.Decimal)
}

// Schedule is an ascending list of brackets whose last entry is unbounded.
type Schedule []Bracket

// Marginal taxes each slice of value at the rate of the band it falls in.
func (s Schedule) Marginal(value decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	lower := decimal.Zero
	for _, b := range s {
		if !value.GreaterThan(lower) {
			break
		}

		slice := value.Sub(lower)
		if !b.Unbounded() {
			slice = decimal.Min(slice, b.UpperLimit.Decimal.Sub(lower))
		}
		total = total.Add(slice.Mul(b.Rate))

		if b.Covers(value) {
			break
		}
		lower = b.UpperLimit.Decimal
	}
	return total
}

// Flat applies the first covering bracket as value × rate − deduction.
// Values inside the first band yield zero. The result may be negative near
// band edges; callers clamp.
func (s Schedule) Flat(value decimal.Decimal) decimal.Decimal {
	if len(s) == 0 || s[0].Covers(value) {
		return decimal.Zero
	}
	for _, b := range s {
		if b.Covers(value) {
			return value.Mul(b.Rate).Sub(b.Deduction)
		}
	}
	return decimal.Zero
}

// TopLimit returns the highest bounded upper limit of the schedule.
func (s Schedule) TopLimit() decimal.Decimal {
	for i := len(s) - 1; i >= 0; i-- {
		if !s[i].Unbounded() {
			return s[i].UpperLimit.Decimal
		}
	}
	return decimal.Zero
}

func upTo(limit, rate, deduction string) Bracket {
	return Bracket{
		UpperLimit: decimal.NewNullDecimal(decimal.RequireFromString(limit)),
		Rate:       decimal.RequireFromString(rate),
		Deduction:  decimal.RequireFromString(deduction),
	}
}

func above(rate, deduction string) Bracket {
	return Bracket{
		Rate:      decimal.RequireFromString(rate),
		Deduction: decimal.RequireFromString(deduction),
	}
}

// 2024/2025 reference tables.
var (
	inssSchedule = Schedule{
		upTo("1412.00", "0.075", "0"),
		upTo("2666.68", "0.09", "0"),
		upTo("4000.03", "0.12", "0"),
		upTo("7786.02", "0.14", "0"),
		above("0", "0"), // ceiling
	}

	irrfSchedule = Schedule{
		upTo("2259.20", "0", "0"),
		upTo("2826.65", "0.075", "169.44"),
		upTo("3751.05", "0.15", "381.44"),
		upTo("4664.68", "0.225", "662.77"),
		above("0.275", "896.00"),
	}

	// DependentDeduction is subtracted from the itemized IRRF base per dependent.
	DependentDeduction = decimal.RequireFromString("189.59")
	// SimplifiedDeduction replaces every itemized deduction in the simplified base.
	SimplifiedDeduction = decimal.RequireFromString("564.80")
)

// INSSSchedule returns a copy of the social-security contribution table.
func INSSSchedule() Schedule {
	return slices.Clone(inssSchedule)
}

// IRRFSchedule returns a copy of the income-tax withholding table.
func IRRFSchedule() Schedule {
	return slices.Clone(irrfSchedule)
}
