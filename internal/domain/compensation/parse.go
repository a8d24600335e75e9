package compensation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NumberParser turns a raw form value into a number. The policy is kept apart
// from Compute so input handling can change without touching the arithmetic.
type NumberParser interface {
	Parse(raw string) (decimal.Decimal, error)
}

// LenientParser coerces blank or non-numeric input to zero and never fails.
type LenientParser struct{}

func (LenientParser) Parse(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(normalizeNumber(raw))
	if err != nil {
		return decimal.Zero, nil
	}
	return d, nil
}

// StrictParser rejects anything that is not a number.
type StrictParser struct{}

func (StrictParser) Parse(raw string) (decimal.Decimal, error) {
	s := normalizeNumber(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidNumber)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return d, nil
}

// normalizeNumber strips whitespace and thousands separators ("50,000.00").
func normalizeNumber(raw string) string {
	s := strings.TrimSpace(raw)
	return strings.ReplaceAll(s, ",", "")
}

// Parameter field names as sent by the form.
const (
	FieldPercentage    = "percentage"
	FieldMonthlyAmount = "monthlyAmount"
	FieldHours         = "hours"
	FieldHourlyRate    = "hourlyRate"
	FieldDays          = "days"
	FieldDailyRate     = "dailyRate"
	FieldWeeks         = "weeks"
	FieldWeeklyRate    = "weeklyRate"
)

// ParseParameters reads every known parameter field from raw. Missing fields
// are zero. With a LenientParser the returned error is always nil; with a
// StrictParser only fields that are present are checked.
func ParseParameters(parser NumberParser, raw map[string]string) (Parameters, error) {
	var p Parameters
	targets := map[string]*decimal.Decimal{
		FieldPercentage:    &p.Percentage,
		FieldMonthlyAmount: &p.MonthlyAmount,
		FieldHours:         &p.Hours,
		FieldHourlyRate:    &p.HourlyRate,
		FieldDays:          &p.Days,
		FieldDailyRate:     &p.DailyRate,
		FieldWeeks:         &p.Weeks,
		FieldWeeklyRate:    &p.WeeklyRate,
	}

	for field, target := range targets {
		value, ok := raw[field]
		if !ok {
			continue
		}
		d, err := parser.Parse(value)
		if err != nil {
			return Parameters{}, fmt.Errorf("%s: %w", field, err)
		}
		*target = d
	}
	return p, nil
}

// Merge overlays the fields present in raw onto p, leaving the rest untouched.
func (p Parameters) Merge(parser NumberParser, raw map[string]string) (Parameters, error) {
	parsed, err := ParseParameters(parser, raw)
	if err != nil {
		return p, err
	}
	if _, ok := raw[FieldPercentage]; ok {
		p.Percentage = parsed.Percentage
	}
	if _, ok := raw[FieldMonthlyAmount]; ok {
		p.MonthlyAmount = parsed.MonthlyAmount
	}
	if _, ok := raw[FieldHours]; ok {
		p.Hours = parsed.Hours
	}
	if _, ok := raw[FieldHourlyRate]; ok {
		p.HourlyRate = parsed.HourlyRate
	}
	if _, ok := raw[FieldDays]; ok {
		p.Days = parsed.Days
	}
	if _, ok := raw[FieldDailyRate]; ok {
		p.DailyRate = parsed.DailyRate
	}
	if _, ok := raw[FieldWeeks]; ok {
		p.Weeks = parsed.Weeks
	}
	if _, ok := raw[FieldWeeklyRate]; ok {
		p.WeeklyRate = parsed.WeeklyRate
	}
	return p, nil
}
