package compensation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	overtime = ComponentType{ID: "ot", Label: "Overtime", Category: CategoryEarnings, CalculationMethod: MethodFixedAmount, Mode: ModeHourly}
	housing  = ComponentType{ID: "house", Label: "Housing", Category: CategoryEarnings, CalculationMethod: MethodFixedAmount, Mode: ModeMonthly}
	pension  = ComponentType{ID: "pension", Label: "Pension", Category: CategoryDeductions, CalculationMethod: MethodPercentage}
)

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestLedger_AddComputesAndAppends(t *testing.T) {
	l := NewLedger(CategoryEarnings)

	e := l.Add(overtime, Parameters{Hours: dec("10"), HourlyRate: dec("15.5")}, day(1), nil)

	assert.Equal(t, "155.00", e.ComputedAmount)
	assert.Equal(t, "Overtime", e.DisplayName)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 0, l.IndexOf(e.ID))

	dup := l.Add(overtime, Parameters{Hours: dec("1"), HourlyRate: dec("1")}, day(2), nil)
	assert.NotEqual(t, e.ID, dup.ID)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 1, l.IndexOf(dup.ID))
}

func TestLedger_AddThenRemoveRestoresEntries(t *testing.T) {
	l := NewLedger(CategoryEarnings)
	l.Add(housing, Parameters{MonthlyAmount: dec("1000")}, day(1), nil)
	before := l.Entries()

	added := l.Add(overtime, Parameters{Hours: dec("2"), HourlyRate: dec("50")}, day(3), nil)
	require.NoError(t, l.Remove(added.ID))

	assert.Equal(t, before, l.Entries())
}

func TestLedger_EditOnlyTouchesTarget(t *testing.T) {
	l := NewLedger(CategoryEarnings)
	first := l.Add(housing, Parameters{MonthlyAmount: dec("1000")}, day(1), nil)
	second := l.Add(overtime, Parameters{Hours: dec("2"), HourlyRate: dec("50")}, day(1), nil)
	third := l.Add(housing, Parameters{MonthlyAmount: dec("300")}, day(1), nil)

	end := day(31)
	edited, err := l.Edit(second.ID, Parameters{Hours: dec("4"), HourlyRate: dec("50")}, day(5), &end)
	require.NoError(t, err)

	assert.Equal(t, "200.00", edited.ComputedAmount)
	assert.Equal(t, 1, l.IndexOf(second.ID))

	entries := l.Entries()
	assert.Equal(t, first, entries[0])
	assert.Equal(t, third, entries[2])
	assert.Equal(t, day(5), entries[1].EffectiveDate)
	require.NotNil(t, entries[1].EndDate)
	assert.Equal(t, end, *entries[1].EndDate)
}

func TestLedger_EditAndRemoveUnknownEntry(t *testing.T) {
	l := NewLedger(CategoryDeductions)

	_, err := l.Edit(42, Parameters{}, day(1), nil)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.ErrorIs(t, l.Remove(42), ErrEntryNotFound)
}

func TestLedger_RemoveKeepsIDsStable(t *testing.T) {
	l := NewLedger(CategoryEarnings)
	a := l.Add(housing, Parameters{MonthlyAmount: dec("1")}, day(1), nil)
	b := l.Add(housing, Parameters{MonthlyAmount: dec("2")}, day(1), nil)

	require.NoError(t, l.Remove(a.ID))
	c := l.Add(housing, Parameters{MonthlyAmount: dec("3")}, day(1), nil)

	assert.Equal(t, 0, l.IndexOf(b.ID))
	assert.NotEqual(t, a.ID, c.ID)
	got, ok := l.Get(b.ID)
	require.True(t, ok)
	assert.Equal(t, "2.00", got.ComputedAmount)
}

func TestLedger_TotalSkipsPercentage(t *testing.T) {
	l := NewLedger(CategoryDeductions)
	l.Add(housing, Parameters{MonthlyAmount: dec("1000.10")}, day(1), nil)
	l.Add(pension, Parameters{Percentage: dec("5")}, day(1), nil)
	l.Add(overtime, Parameters{Hours: dec("3"), HourlyRate: dec("10")}, day(1), nil)

	assert.Equal(t, "1030.10", l.Total().StringFixed(2))
}

func TestLedger_SinglePendingOperation(t *testing.T) {
	l := NewLedger(CategoryEarnings)
	existing := l.Add(housing, Parameters{MonthlyAmount: dec("500")}, day(1), nil)

	_, err := l.BeginAdd(overtime, day(10))
	require.NoError(t, err)

	_, err = l.BeginAdd(housing, day(10))
	assert.ErrorIs(t, err, ErrPendingOperation)
	_, err = l.BeginEdit(existing.ID)
	assert.ErrorIs(t, err, ErrPendingOperation)

	l.DiscardPending()
	_, ok := l.Pending()
	assert.False(t, ok)
	assert.Equal(t, 1, l.Len())

	_, err = l.BeginEdit(existing.ID)
	assert.NoError(t, err)
}

func TestLedger_BeginAddUsesDefaults(t *testing.T) {
	rate := dec("250")
	typ := overtime
	typ.DefaultRate = &rate
	l := NewLedger(CategoryEarnings)

	op, err := l.BeginAdd(typ, day(10))
	require.NoError(t, err)

	assert.Equal(t, OperationAdd, op.Kind)
	assert.Equal(t, day(10), op.EffectiveDate)
	assert.True(t, op.Parameters.HourlyRate.Equal(rate))
	assert.Equal(t, "0.00", op.ComputedAmount)
}

func TestLedger_PendingAddCommit(t *testing.T) {
	l := NewLedger(CategoryEarnings)
	_, err := l.BeginAdd(overtime, day(10))
	require.NoError(t, err)

	op, err := l.UpdatePending(Parameters{Hours: dec("10"), HourlyRate: dec("15.5")}, day(11), nil)
	require.NoError(t, err)
	assert.Equal(t, "155.00", op.ComputedAmount)
	assert.Equal(t, 0, l.Len())

	entry, err := l.CommitPending()
	require.NoError(t, err)
	assert.Equal(t, "155.00", entry.ComputedAmount)
	assert.Equal(t, day(11), entry.EffectiveDate)
	assert.Equal(t, 1, l.Len())

	_, ok := l.Pending()
	assert.False(t, ok)
}

func TestLedger_PendingEditCommit(t *testing.T) {
	l := NewLedger(CategoryEarnings)
	e := l.Add(overtime, Parameters{Hours: dec("1"), HourlyRate: dec("10")}, day(1), nil)

	op, err := l.BeginEdit(e.ID)
	require.NoError(t, err)
	assert.Equal(t, OperationEdit, op.Kind)
	assert.Equal(t, e.ID, op.EntryID)
	assert.Equal(t, "10.00", op.ComputedAmount)

	_, err = l.UpdatePending(Parameters{Hours: dec("3"), HourlyRate: dec("10")}, day(1), nil)
	require.NoError(t, err)

	got, _ := l.Get(e.ID)
	assert.Equal(t, "10.00", got.ComputedAmount)

	committed, err := l.CommitPending()
	require.NoError(t, err)
	assert.Equal(t, e.ID, committed.ID)
	assert.Equal(t, "30.00", committed.ComputedAmount)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_NoPendingOperation(t *testing.T) {
	l := NewLedger(CategoryEarnings)

	_, err := l.UpdatePending(Parameters{}, day(1), nil)
	assert.ErrorIs(t, err, ErrNoPendingOperation)
	_, err = l.CommitPending()
	assert.ErrorIs(t, err, ErrNoPendingOperation)
}

func TestLedger_RemoveClearsPendingEditOfSameEntry(t *testing.T) {
	l := NewLedger(CategoryEarnings)
	e := l.Add(housing, Parameters{MonthlyAmount: dec("1")}, day(1), nil)
	_, err := l.BeginEdit(e.ID)
	require.NoError(t, err)

	require.NoError(t, l.Remove(e.ID))

	_, ok := l.Pending()
	assert.False(t, ok)
}

func TestLedger_JSONRoundTrip(t *testing.T) {
	l := NewLedger(CategoryEarnings)
	end := day(28)
	l.Add(housing, Parameters{MonthlyAmount: dec("1500")}, day(1), &end)
	removed := l.Add(overtime, Parameters{Hours: dec("2"), HourlyRate: dec("20")}, day(2), nil)
	l.Add(overtime, Parameters{Hours: dec("5"), HourlyRate: dec("20")}, day(3), nil)
	require.NoError(t, l.Remove(removed.ID))
	_, err := l.BeginAdd(housing, day(4))
	require.NoError(t, err)

	data, err := json.Marshal(l)
	require.NoError(t, err)

	restored := NewLedger(CategoryDeductions)
	require.NoError(t, json.Unmarshal(data, restored))

	again, err := json.Marshal(restored)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	assert.Equal(t, CategoryEarnings, restored.Category())
	assert.Equal(t, 2, restored.Len())
	_, ok := restored.Pending()
	assert.True(t, ok)

	restored.DiscardPending()
	next := restored.Add(housing, Parameters{}, day(5), nil)
	assert.Greater(t, uint64(next.ID), uint64(removed.ID)+1)
}
