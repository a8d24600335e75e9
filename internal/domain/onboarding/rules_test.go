package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredFields_Conditional(t *testing.T) {
	base := FormValues{FieldModeOfPayment: "monthly", FieldPaymentMethod: "cash"}
	assert.Equal(t,
		[]string{FieldCurrency, FieldModeOfPayment, FieldAmountPerRate, FieldPaymentMethod},
		RequiredFields(TabSalary, base))

	hourlyBank := FormValues{FieldModeOfPayment: "hourly", FieldPaymentMethod: "bank"}
	got := RequiredFields(TabSalary, hourlyBank)
	assert.Contains(t, got, FieldUnitsWorked)
	assert.Subset(t, got, BankFields)
	assert.NotContains(t, got, FieldMobileNumber)

	cheque := FormValues{FieldPaymentMethod: "cheque"}
	assert.Subset(t, RequiredFields(TabSalary, cheque), BankFields)

	assert.Empty(t, RequiredFields(TabAdditional, FormValues{}))
}

func TestValidateTab_FormatChecks(t *testing.T) {
	values := validPersonal()
	values[FieldWorkEmail] = "not-an-email"
	values[FieldDateOfBirth] = "17/04/1992"

	errs := ValidateTab(TabPersonal, values)

	assert.Equal(t, map[string]string{
		FieldWorkEmail:   "must be a valid email",
		FieldDateOfBirth: "must be in YYYY-MM-DD format",
	}, errs.ToMap())
}

func TestValidateTab_OptionalFieldsCheckedWhenPresent(t *testing.T) {
	values := validContacts()
	assert.Empty(t, ValidateTab(TabContacts, values))

	values[FieldPersonalEmail] = "nope"
	values[FieldPersonalPhone] = "12"
	errs := ValidateTab(TabContacts, values)

	assert.ElementsMatch(t, []string{FieldPersonalEmail, FieldPersonalPhone}, errs.Fields())
}

func TestValidateTab_MissingWinsOverFormat(t *testing.T) {
	values := validTax()
	values[FieldKRAPin] = "   "

	errs := ValidateTab(TabTax, values)

	assert.Equal(t, map[string]string{FieldKRAPin: "is required"}, errs.ToMap())
}

func TestValidateTab_Amounts(t *testing.T) {
	values := FormValues{
		FieldCurrency:          "KES",
		FieldModeOfPayment:     "fortnightly",
		FieldAmountPerRate:     "lots",
		FieldPaymentMethod:     "cash",
		FieldUtilizedLeaveDays: "-1",
	}

	errs := ValidateTab(TabSalary, values).ToMap()

	assert.Equal(t, "must be a number", errs[FieldAmountPerRate])
	assert.Equal(t, "is not a supported value", errs[FieldModeOfPayment])
	assert.Equal(t, "must not be negative", errs[FieldUtilizedLeaveDays])
}

func TestMerge_IsPure(t *testing.T) {
	original := Record{TabPersonal.Key(): FormValues{FieldFirstName: "A"}}
	live := FormValues{FieldStaffNo: "1"}

	merged := Merge(original, TabHR, live)
	live[FieldStaffNo] = "2"

	assert.Len(t, original, 1)
	assert.Equal(t, "1", merged[TabHR.Key()][FieldStaffNo])
	assert.Equal(t, "A", merged[TabPersonal.Key()][FieldFirstName])

	snap := merged.Snapshot(TabHR)
	snap[FieldStaffNo] = "3"
	assert.Equal(t, "1", merged[TabHR.Key()][FieldStaffNo])
}

func TestTab_Key(t *testing.T) {
	assert.Equal(t, "personalDetails", TabPersonal.Key())
	assert.Equal(t, "additionalDetails", TabAdditional.Key())
	assert.Equal(t, "", Tab(6).Key())
}
