package compensation

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Compute returns the display amount of a component: "12.50%" for percentage
// types, "155.00" for fixed amounts. It has no side effects and never fails;
// negative inputs are floored at zero and percentages are capped at 100.
func Compute(t ComponentType, p Parameters) string {
	if t.CalculationMethod == MethodPercentage {
		pct := clamp(p.Percentage, decimal.Zero, hundred)
		return pct.StringFixed(2) + "%"
	}
	return FixedAmount(t.Mode, p).StringFixed(2)
}

// FixedAmount resolves a fixed-amount component to currency. An unknown or
// missing mode is treated as a flat monthly amount.
func FixedAmount(mode Mode, p Parameters) decimal.Decimal {
	var amount decimal.Decimal
	switch mode {
	case ModeHourly:
		amount = p.Hours.Mul(p.HourlyRate)
	case ModeDaily:
		amount = p.Days.Mul(p.DailyRate)
	case ModeWeekly:
		amount = p.Weeks.Mul(p.WeeklyRate)
	default:
		amount = p.MonthlyAmount
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount.Round(2)
}

func clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
