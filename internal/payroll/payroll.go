package payroll

import (
	"github.com/shopspring/decimal"
)

// Method names an IRRF deduction method.
type Method string

const (
	MethodItemized   Method = "itemized"
	MethodSimplified Method = "simplified"
)

// Input represents the caller-supplied values for one calculation.
type Input struct {
	GrossSalary    decimal.Decimal `json:"grossSalary"`
	Dependents     int             `json:"dependents"`
	OtherDiscounts decimal.Decimal `json:"otherDiscounts"`
}

// MaxAmount caps monetary inputs.
var MaxAmount = decimal.New(1, 12)

// maxScale is the number of fractional digits kept from inputs.
const maxScale = 8

// Clamped returns a copy of the input with negative values replaced by zero
// and amounts bounded by MaxAmount.
func (in Input) Clamped() Input {
	in.GrossSalary = boundAmount(in.GrossSalary)
	if in.Dependents < 0 {
		in.Dependents = 0
	}
	in.OtherDiscounts = boundAmount(in.OtherDiscounts)
	return in
}

// boundAmount checks magnitude through the exponent first so values such as
// 1e500000 never reach a rescaling comparison.
func boundAmount(v decimal.Decimal) decimal.Decimal {
	if v.Sign() <= 0 {
		return decimal.Zero
	}
	magnitude := v.NumDigits() + int(v.Exponent())
	if magnitude > 13 {
		return MaxAmount
	}
	if magnitude < -maxScale {
		return decimal.Zero
	}
	if v.GreaterThan(MaxAmount) {
		return MaxAmount
	}
	if v.Exponent() < -maxScale {
		v = v.Round(maxScale)
	}
	return v
}

// Result contains every derived value of a salary calculation.
type Result struct {
	GrossSalary       decimal.Decimal `json:"grossSalary"`
	INSS              decimal.Decimal `json:"inss"`
	IRRF              decimal.Decimal `json:"irrf"`
	IRRFMethod        Method          `json:"irrfMethod"`
	OtherDiscounts    decimal.Decimal `json:"otherDiscounts"`
	TotalDiscounts    decimal.Decimal `json:"totalDiscounts"`
	NetSalary         decimal.Decimal `json:"netSalary"`
	INSSEffectiveRate decimal.Decimal `json:"inssAliquotEffective"`
	IRRFEffectiveRate decimal.Decimal `json:"irrfAliquotEffective"`
}

// NetShare returns NetSalary / GrossSalary, or zero for a zero salary.
func (r Result) NetShare() decimal.Decimal {
	return ratio(r.NetSalary, r.GrossSalary)
}

// MethodTax is the outcome of one deduction method.
type MethodTax struct {
	Base decimal.Decimal `json:"base"`
	Tax  decimal.Decimal `json:"tax"`
}

// MethodComparison holds both IRRF deduction methods and the chosen one.
type MethodComparison struct {
	Itemized   MethodTax `json:"itemized"`
	Simplified MethodTax `json:"simplified"`
	Chosen     Method    `json:"chosen"`
}

// Tax returns the withholding of the chosen method.
func (c MethodComparison) Tax() decimal.Decimal {
	if c.Chosen == MethodSimplified {
		return c.Simplified.Tax
	}
	return c.Itemized.Tax
}

// Contribution computes the INSS amount for a gross salary. Above the top
// limit it is the constant ContributionCeiling.
func Contribution(grossSalary decimal.Decimal) decimal.Decimal {
	return inssSchedule.Marginal(grossSalary)
}

// ContributionCeiling is the contribution of every salary above the top limit.
func ContributionCeiling() decimal.Decimal {
	return inssSchedule.Marginal(inssSchedule.TopLimit())
}

// CompareMethods runs the itemized and simplified bases through the IRRF
// schedule. Ties go to the itemized method.
func CompareMethods(grossSalary, contribution decimal.Decimal, dependents int) MethodComparison {
	itemizedBase := grossSalary.
		Sub(contribution).
		Sub(DependentDeduction.Mul(decimal.NewFromInt(int64(dependents))))
	simplifiedBase := grossSalary.Sub(SimplifiedDeduction)

	cmp := MethodComparison{
		Itemized:   MethodTax{Base: itemizedBase, Tax: nonNegative(irrfSchedule.Flat(itemizedBase))},
		Simplified: MethodTax{Base: simplifiedBase, Tax: nonNegative(irrfSchedule.Flat(simplifiedBase))},
		Chosen:     MethodItemized,
	}
	if cmp.Simplified.Tax.LessThan(cmp.Itemized.Tax) {
		cmp.Chosen = MethodSimplified
	}
	return cmp
}

// Withholding computes the IRRF due: the lower of the two method taxes.
func Withholding(grossSalary, contribution decimal.Decimal, dependents int) decimal.Decimal {
	return CompareMethods(grossSalary, contribution, dependents).Tax()
}

// Calculate computes the full salary breakdown. It is pure and safe for
// concurrent use.
func Calculate(in Input) Result {
	inss := Contribution(in.GrossSalary)
	cmp := CompareMethods(in.GrossSalary, inss, in.Dependents)
	irrf := cmp.Tax()

	totalDiscounts := inss.Add(irrf).Add(in.OtherDiscounts)

	return Result{
		GrossSalary:       in.GrossSalary,
		INSS:              inss,
		IRRF:              irrf,
		IRRFMethod:        cmp.Chosen,
		OtherDiscounts:    in.OtherDiscounts,
		TotalDiscounts:    totalDiscounts,
		NetSalary:         in.GrossSalary.Sub(totalDiscounts),
		INSSEffectiveRate: ratio(inss, in.GrossSalary),
		IRRFEffectiveRate: ratio(irrf, in.GrossSalary),
	}
}

func ratio(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole)
}

func nonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
