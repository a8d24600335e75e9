package onboarding

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func validPersonal() FormValues {
	return FormValues{
		FieldFirstName:         "Amina",
		FieldLastName:          "Otieno",
		FieldGender:            "female",
		FieldDateOfBirth:       "1992-04-17",
		FieldNationalID:        "29384756",
		FieldMaritalStatus:     "single",
		FieldResidentialStatus: "resident",
		FieldWorkEmail:         "amina.otieno@example.co.ke",
	}
}

func validHR() FormValues {
	return FormValues{
		FieldStaffNo:        "EMP-0042",
		FieldJobTitleID:     "jt-1",
		FieldDepartmentID:   "dep-1",
		FieldEmploymentDate: "2025-03-01",
		FieldEmploymentType: "permanent",
	}
}

func validSalary() FormValues {
	return FormValues{
		FieldCurrency:      "KES",
		FieldModeOfPayment: "monthly",
		FieldAmountPerRate: "50000",
	}
}

func validContacts() FormValues {
	return FormValues{
		FieldWorkPhone:       "0712345678",
		FieldPhysicalAddress: "Ngong Road, Nairobi",
	}
}

func validTax() FormValues {
	return FormValues{
		FieldKRAPin: "A123456789Z",
		FieldNHIFNo: "NH-1",
		FieldNSSFNo: "NS-1",
		FieldSHANo:  "SH-1",
	}
}

// fillSalary sets the salary fields and a cash payment method.
func fillSalary(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.UpdateFields(validSalary()))
	require.NoError(t, s.SelectPaymentMethod(PaymentCash))
}

// advanceTo walks a fresh session to target with valid data on every tab.
func advanceTo(t *testing.T, s *Session, target Tab) {
	t.Helper()
	fills := map[Tab]func(){
		TabPersonal: func() { require.NoError(t, s.UpdateFields(validPersonal())) },
		TabHR:       func() { require.NoError(t, s.UpdateFields(validHR())) },
		TabSalary:   func() { fillSalary(t, s) },
		TabContacts: func() { require.NoError(t, s.UpdateFields(validContacts())) },
		TabTax:      func() { require.NoError(t, s.UpdateFields(validTax())) },
	}
	for s.ActiveTab < target {
		fills[s.ActiveTab]()
		require.NoError(t, s.Continue(s.ActiveTab))
	}
}

func TestSession_NewStartsOnFirstTab(t *testing.T) {
	s := NewSession("s1", "c1", testNow)

	assert.Equal(t, TabPersonal, s.ActiveTab)
	assert.Equal(t, StatusDraft, s.Status)
	assert.Empty(t, s.Record)
	assert.Equal(t, 0, s.Earnings.Len())
	assert.Equal(t, compensation.CategoryDeductions, s.Deductions.Category())
}

func TestSession_ContinueWithRequiredFieldsAdvances(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	require.NoError(t, s.UpdateFields(validPersonal()))

	require.NoError(t, s.Continue(TabPersonal))

	assert.Equal(t, TabHR, s.ActiveTab)
	assert.Equal(t, validPersonal(), s.Record[TabPersonal.Key()])
	assert.Empty(t, s.Live)
}

func TestSession_ContinueWithMissingFieldStays(t *testing.T) {
	for _, field := range RequiredFields(TabPersonal, validPersonal()) {
		t.Run(field, func(t *testing.T) {
			s := NewSession("s1", "c1", testNow)
			values := validPersonal()
			delete(values, field)
			require.NoError(t, s.UpdateFields(values))

			err := s.Continue(TabPersonal)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.NotEmpty(t, verrs)
			assert.Equal(t, TabPersonal, s.ActiveTab)
			assert.Equal(t, "is required", s.Errors[field])
			assert.Empty(t, s.Record)
		})
	}
}

func TestSession_OptionalFieldsDoNotGate(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	require.NoError(t, s.UpdateFields(validPersonal()))

	assert.NotContains(t, RequiredFields(TabPersonal, s.Live), FieldMiddleName)
	assert.NotContains(t, RequiredFields(TabPersonal, s.Live), FieldPassportNo)
	assert.NoError(t, s.Continue(TabPersonal))
}

func TestSession_ContinueRejectsInactiveTab(t *testing.T) {
	s := NewSession("s1", "c1", testNow)

	assert.ErrorIs(t, s.Continue(TabHR), ErrTabMismatch)
	assert.ErrorIs(t, s.Continue(Tab(9)), ErrInvalidTab)
}

func TestSession_BackThenContinueKeepsSnapshot(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	advanceTo(t, s, TabSalary)
	before := s.Record.Snapshot(TabHR)

	require.NoError(t, s.Back(TabSalary))
	assert.Equal(t, TabHR, s.ActiveTab)
	assert.Equal(t, before, s.Live)

	require.NoError(t, s.Continue(TabHR))
	assert.Equal(t, before, s.Record.Snapshot(TabHR))
	assert.Equal(t, TabSalary, s.ActiveTab)
}

func TestSession_BackMergesWithoutValidating(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	advanceTo(t, s, TabHR)
	require.NoError(t, s.UpdateFields(FormValues{FieldStaffNo: "EMP-7"}))

	require.NoError(t, s.Back(TabHR))

	assert.Equal(t, TabPersonal, s.ActiveTab)
	assert.Equal(t, FormValues{FieldStaffNo: "EMP-7"}, s.Record.Snapshot(TabHR))
}

func TestSession_BackFromFirstTab(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	assert.ErrorIs(t, s.Back(TabPersonal), ErrInvalidTransition)
}

func TestSession_JumpToVisitedTab(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	advanceTo(t, s, TabContacts)

	require.NoError(t, s.JumpTo(TabPersonal))
	assert.Equal(t, validPersonal(), s.Live)

	require.NoError(t, s.JumpTo(TabContacts))
	assert.Equal(t, TabContacts, s.ActiveTab)

	assert.ErrorIs(t, s.JumpTo(TabTax), ErrTabNotVisited)
	assert.ErrorIs(t, s.JumpTo(Tab(-1)), ErrInvalidTab)
}

func TestSession_LiveValuesWinInAggregate(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	advanceTo(t, s, TabHR)
	require.NoError(t, s.JumpTo(TabPersonal))
	require.NoError(t, s.UpdateFields(FormValues{FieldFirstName: "Wanjiru"}))

	assert.Equal(t, "Amina", s.Record.Snapshot(TabPersonal)[FieldFirstName])
	assert.Equal(t, "Wanjiru", s.Aggregate().Snapshot(TabPersonal)[FieldFirstName])
}

func TestSession_UpdateFieldsRejectsForeignFields(t *testing.T) {
	s := NewSession("s1", "c1", testNow)

	err := s.UpdateFields(FormValues{FieldStaffNo: "EMP-1", FieldFirstName: "A"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{FieldStaffNo}, verrs.Fields())
	assert.Empty(t, s.Live)
}

func TestSession_UpdateFieldsClearsErrorsOfEditedFields(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	require.Error(t, s.Continue(TabPersonal))
	require.Contains(t, s.Errors, FieldFirstName)

	require.NoError(t, s.UpdateFields(FormValues{FieldFirstName: "Amina"}))

	assert.NotContains(t, s.Errors, FieldFirstName)
	assert.Contains(t, s.Errors, FieldLastName)
}

func TestSession_SubmitOnlyOnLastTab(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	_, err := s.PrepareSubmit()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	advanceTo(t, s, TabAdditional)
	assert.ErrorIs(t, s.Continue(TabAdditional), ErrInvalidTransition)
}

func TestSession_PrepareSubmitFlattensEverything(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	advanceTo(t, s, TabAdditional)

	housing := compensation.ComponentType{ID: "house", Label: "Housing", CalculationMethod: compensation.MethodFixedAmount, Mode: compensation.ModeMonthly}
	pension := compensation.ComponentType{ID: "pension", Label: "Pension", CalculationMethod: compensation.MethodPercentage}
	s.Earnings.Add(housing, compensation.Parameters{MonthlyAmount: decimal.NewFromInt(8000)}, testNow, nil)
	s.Deductions.Add(pension, compensation.Parameters{Percentage: decimal.NewFromInt(5)}, testNow, nil)

	sub, err := s.PrepareSubmit()
	require.NoError(t, err)

	assert.Equal(t, "Amina", sub.Employee.FirstName)
	assert.Equal(t, "EMP-0042", sub.Employee.StaffNo)
	assert.Equal(t, "50000.00", sub.Employee.BasicSalary.StringFixed(2))
	assert.Equal(t, "A123456789Z", sub.Employee.KRAPin)
	assert.Equal(t, "0712345678", sub.Employee.WorkPhone)
	assert.Len(t, sub.Earnings, 1)
	assert.Len(t, sub.Deductions, 1)
	assert.Equal(t, "5.00%", sub.Deductions[0].ComputedAmount)
	assert.Equal(t, StatusDraft, s.Status)
	assert.Contains(t, s.Record, TabAdditional.Key())
}

func TestSession_MarkSubmittedClosesWizard(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	advanceTo(t, s, TabAdditional)

	failures := []AssignmentFailure{{Category: compensation.CategoryEarnings, Index: 0, EntryID: 1, Message: "boom"}}
	s.MarkSubmitted("emp-1", failures, testNow)

	assert.Equal(t, StatusSubmitted, s.Status)
	assert.False(t, s.Done())
	assert.ErrorIs(t, s.UpdateFields(FormValues{}), ErrSessionClosed)
	assert.ErrorIs(t, s.Back(TabAdditional), ErrSessionClosed)
	assert.ErrorIs(t, s.EditLedger(compensation.CategoryEarnings, func(*compensation.Ledger) error { return nil }), ErrSessionClosed)

	s.Reconciled(nil, testNow)
	assert.True(t, s.Done())
}

func TestSession_EncodeDecode(t *testing.T) {
	s := NewSession("s1", "c1", testNow)
	advanceTo(t, s, TabSalary)
	require.NoError(t, s.SelectPaymentMethod(PaymentBank))
	s.Earnings.Add(compensation.ComponentType{ID: "x", CalculationMethod: compensation.MethodFixedAmount}, compensation.Parameters{MonthlyAmount: decimal.NewFromInt(10)}, testNow, nil)

	data, err := EncodeSession(s)
	require.NoError(t, err)
	restored, err := DecodeSession(data)
	require.NoError(t, err)

	assert.Equal(t, s.ID, restored.ID)
	assert.Equal(t, TabSalary, restored.ActiveTab)
	assert.Equal(t, s.Live, restored.Live)
	assert.Equal(t, s.Record, restored.Record)
	assert.True(t, restored.Payment.ModalOpen)
	assert.Equal(t, 1, restored.Earnings.Len())
	assert.NotNil(t, restored.Errors)
}
