package onboarding

import (
	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/shopspring/decimal"
)

// salaryInputs are the fields basicSalary is derived from.
var salaryInputs = map[string]bool{
	FieldModeOfPayment: true,
	FieldAmountPerRate: true,
	FieldUnitsWorked:   true,
}

// DeriveBasicSalary computes basic salary from the mode of payment. Monthly
// (or unset) pays amountPerRate as is; other modes multiply by unitsWorked.
// Unparseable input counts as zero and the result is floored at zero.
func DeriveBasicSalary(values FormValues) decimal.Decimal {
	parser := compensation.LenientParser{}
	amount, _ := parser.Parse(values[FieldAmountPerRate])

	result := amount
	if isNonMonthly(values) {
		units, _ := parser.Parse(values[FieldUnitsWorked])
		result = amount.Mul(units)
	}

	if result.IsNegative() {
		return decimal.Zero
	}
	return result.Round(2)
}

func isNonMonthly(values FormValues) bool {
	mode := values.Get(FieldModeOfPayment)
	return mode != "" && compensation.Mode(mode) != compensation.ModeMonthly
}

// applyDerived writes basicSalary back into values.
func applyDerived(values FormValues) {
	values[FieldBasicSalary] = DeriveBasicSalary(values).StringFixed(2)
}
