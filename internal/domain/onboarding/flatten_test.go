package onboarding

import (
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_PaymentFieldsFollowMethod(t *testing.T) {
	salary := validSalary()
	for k, v := range bankDetails() {
		salary[k] = v
	}
	salary[FieldMobileNumber] = "0712345678"
	salary[FieldPaymentMethod] = "cheque"
	r := Record{TabSalary.Key(): salary}

	emp := Flatten(r, nil, nil).Employee

	assert.Equal(t, "Equity Bank", emp.BankName)
	assert.Equal(t, "068", emp.BranchCode)
	assert.Empty(t, emp.MobileNumber)

	salary[FieldPaymentMethod] = "cash"
	emp = Flatten(Record{TabSalary.Key(): salary}, nil, nil).Employee
	assert.Empty(t, emp.BankName)
	assert.Empty(t, emp.MobileNumber)
}

func TestFlatten_UnitsWorkedOnlyForNonMonthly(t *testing.T) {
	salary := FormValues{FieldModeOfPayment: "monthly", FieldAmountPerRate: "1000", FieldUnitsWorked: "5"}
	emp := Flatten(Record{TabSalary.Key(): salary}, nil, nil).Employee
	assert.Nil(t, emp.UnitsWorked)
	assert.Equal(t, "1000.00", emp.BasicSalary.StringFixed(2))

	salary[FieldModeOfPayment] = "weekly"
	emp = Flatten(Record{TabSalary.Key(): salary}, nil, nil).Employee
	require.NotNil(t, emp.UnitsWorked)
	assert.Equal(t, "5", emp.UnitsWorked.String())
	assert.Equal(t, "5000.00", emp.BasicSalary.StringFixed(2))
}

func TestFlatten_BasicSalaryIgnoresStoredValue(t *testing.T) {
	salary := FormValues{FieldModeOfPayment: "monthly", FieldAmountPerRate: "1000", FieldBasicSalary: "99999"}

	emp := Flatten(Record{TabSalary.Key(): salary}, nil, nil).Employee

	assert.Equal(t, "1000.00", emp.BasicSalary.StringFixed(2))
}

func TestFlatten_WireShape(t *testing.T) {
	r := Record{
		TabPersonal.Key(): validPersonal(),
		TabHR.Key():       validHR(),
		TabSalary.Key():   validSalary(),
		TabContacts.Key(): validContacts(),
		TabTax.Key():      FormValues{FieldKRAPin: "A123456789Z", FieldIsExemptedFromTax: "true"},
	}

	data, err := json.Marshal(Flatten(r, nil, nil).Employee)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "Amina", wire["firstName"])
	assert.Equal(t, "EMP-0042", wire["staffNo"])
	assert.Equal(t, true, wire["isExemptedFromTax"])
	assert.Equal(t, "50000", wire["basicSalary"])
	assert.NotContains(t, wire, "middleName")
	assert.NotContains(t, wire, "bankName")
	assert.NotContains(t, wire, "unitsWorked")
}

func TestFlatten_CarriesLedgersInOrder(t *testing.T) {
	earnings := compensation.NewLedger(compensation.CategoryEarnings)
	typ := compensation.ComponentType{ID: "a", CalculationMethod: compensation.MethodFixedAmount}
	first := earnings.Add(typ, compensation.Parameters{}, testNow, nil)
	second := earnings.Add(typ, compensation.Parameters{}, testNow, nil)

	sub := Flatten(Record{}, earnings, compensation.NewLedger(compensation.CategoryDeductions))

	require.Len(t, sub.Earnings, 2)
	assert.Equal(t, first.ID, sub.Earnings[0].ID)
	assert.Equal(t, second.ID, sub.Earnings[1].ID)
	assert.Empty(t, sub.Deductions)
}
