package compensation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLenientParser(t *testing.T) {
	p := LenientParser{}
	cases := map[string]string{
		"":          "0",
		"   ":       "0",
		"abc":       "0",
		"12.5":      "12.5",
		" 7 ":       "7",
		"50,000.25": "50000.25",
		"-3":        "-3",
	}
	for in, want := range cases {
		got, err := p.Parse(in)
		require.NoError(t, err, "input %q", in)
		assert.True(t, got.Equal(dec(want)), "Parse(%q) = %s, want %s", in, got, want)
	}
}

func TestStrictParser(t *testing.T) {
	p := StrictParser{}

	got, err := p.Parse("1,200")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1200")))

	for _, in := range []string{"", "  ", "12a", "abc"} {
		_, err := p.Parse(in)
		assert.ErrorIs(t, err, ErrInvalidNumber, "input %q", in)
	}
}

func TestParseParameters(t *testing.T) {
	raw := map[string]string{
		FieldHours:      "10",
		FieldHourlyRate: "15.5",
		"unrelated":     "99",
	}

	p, err := ParseParameters(LenientParser{}, raw)
	require.NoError(t, err)
	assert.True(t, p.Hours.Equal(dec("10")))
	assert.True(t, p.HourlyRate.Equal(dec("15.5")))
	assert.True(t, p.MonthlyAmount.IsZero())

	_, err = ParseParameters(StrictParser{}, map[string]string{FieldDays: "x"})
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestParameters_MergeKeepsUntouchedFields(t *testing.T) {
	base := Parameters{Hours: dec("8"), HourlyRate: dec("100")}

	merged, err := base.Merge(LenientParser{}, map[string]string{FieldHours: "12"})
	require.NoError(t, err)

	assert.True(t, merged.Hours.Equal(dec("12")))
	assert.True(t, merged.HourlyRate.Equal(dec("100")))
}

func TestDefaultParameters(t *testing.T) {
	rate := dec("250")

	hourly := DefaultParameters(ComponentType{CalculationMethod: MethodFixedAmount, Mode: ModeHourly, DefaultRate: &rate})
	assert.True(t, hourly.HourlyRate.Equal(rate))
	assert.True(t, hourly.Hours.IsZero())

	pct := DefaultParameters(ComponentType{CalculationMethod: MethodPercentage, DefaultRate: &rate})
	assert.True(t, pct.Percentage.Equal(rate))

	monthly := DefaultParameters(ComponentType{CalculationMethod: MethodFixedAmount, DefaultRate: &rate})
	assert.True(t, monthly.MonthlyAmount.Equal(rate))

	none := DefaultParameters(ComponentType{CalculationMethod: MethodFixedAmount, Mode: ModeDaily})
	assert.Equal(t, Parameters{}, none)
}
