package onboarding

import (
	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/validator"
)

// requirement makes fields required while when holds. A nil when always holds.
type requirement struct {
	fields []string
	when   func(values FormValues) bool
}

// ruleTable is the per-tab allow-list of fields gating Continue and Submit.
// Optional fields and derived fields (basicSalary) never appear here.
var ruleTable = map[Tab][]requirement{
	TabPersonal: {
		{fields: []string{
			FieldFirstName, FieldLastName, FieldGender, FieldDateOfBirth, FieldNationalID,
			FieldMaritalStatus, FieldResidentialStatus, FieldWorkEmail,
		}},
	},
	TabHR: {
		{fields: []string{
			FieldStaffNo, FieldJobTitleID, FieldDepartmentID, FieldEmploymentDate, FieldEmploymentType,
		}},
	},
	TabSalary: {
		{fields: []string{FieldCurrency, FieldModeOfPayment, FieldAmountPerRate, FieldPaymentMethod}},
		{fields: []string{FieldUnitsWorked}, when: isNonMonthly},
		{fields: BankFields, when: paymentMethodUses(ModalBank)},
		{fields: MobileMoneyFields, when: paymentMethodUses(ModalMobileMoney)},
	},
	TabContacts: {
		{fields: []string{FieldWorkPhone, FieldPhysicalAddress}},
	},
	TabTax: {
		{fields: []string{FieldKRAPin, FieldNHIFNo, FieldNSSFNo, FieldSHANo}},
	},
	TabAdditional: nil,
}

func paymentMethodUses(modal ModalKind) func(FormValues) bool {
	return func(values FormValues) bool {
		return PaymentMethod(values.Get(FieldPaymentMethod)).Modal() == modal
	}
}

// RequiredFields evaluates the rule table for tab against the current values.
func RequiredFields(tab Tab, values FormValues) []string {
	var required []string
	for _, req := range ruleTable[tab] {
		if req.when != nil && !req.when(values) {
			continue
		}
		required = append(required, req.fields...)
	}
	return required
}

// formatCheck returns a message when value is malformed, "" otherwise.
type formatCheck func(value string) string

func emailFormat(value string) string {
	if !validator.IsValidEmail(value) {
		return "must be a valid email"
	}
	return ""
}

func dateFormat(value string) string {
	if _, ok := validator.IsValidDate(value); !ok {
		return "must be in YYYY-MM-DD format"
	}
	return ""
}

func amountFormat(value string) string {
	d, err := compensation.StrictParser{}.Parse(value)
	if err != nil {
		return "must be a number"
	}
	if d.IsNegative() {
		return "must not be negative"
	}
	return ""
}

func phoneFormat(value string) string {
	if !validator.IsValidPhoneNumber(value) {
		return "must be a valid phone number"
	}
	return ""
}

func kraPinFormat(value string) string {
	if !validator.IsValidKRAPin(value) {
		return "must be a valid KRA PIN"
	}
	return ""
}

func oneOf(allowed ...string) formatCheck {
	return func(value string) string {
		if !validator.IsInSlice(value, allowed) {
			return "is not a supported value"
		}
		return ""
	}
}

var formatChecks = map[string]formatCheck{
	FieldWorkEmail:            emailFormat,
	FieldPersonalEmail:        emailFormat,
	FieldDateOfBirth:          dateFormat,
	FieldEmploymentDate:       dateFormat,
	FieldEndDate:              dateFormat,
	FieldAmountPerRate:        amountFormat,
	FieldUnitsWorked:          amountFormat,
	FieldAccumulatedLeaveDays: amountFormat,
	FieldUtilizedLeaveDays:    amountFormat,
	FieldWorkPhone:            phoneFormat,
	FieldPersonalPhone:        phoneFormat,
	FieldMobileNumber:         phoneFormat,
	FieldKRAPin:               kraPinFormat,
	FieldModeOfPayment: oneOf(
		string(compensation.ModeMonthly), string(compensation.ModeHourly),
		string(compensation.ModeDaily), string(compensation.ModeWeekly),
	),
	FieldPaymentMethod: oneOf(
		string(PaymentBank), string(PaymentCheque), string(PaymentMobileMoney), string(PaymentCash),
	),
	FieldIsExemptedFromTax: oneOf("true", "false"),
}

// ValidateTab checks the required fields of tab, then the format of every
// non-empty value the tab owns. Errors come back in rule-table order.
func ValidateTab(tab Tab, values FormValues) validator.ValidationErrors {
	return validateFields(RequiredFields(tab, values), tabFields[tab], values)
}

func validateFields(required, owned []string, values FormValues) validator.ValidationErrors {
	var errs validator.ValidationErrors
	missing := make(map[string]bool)

	for _, field := range required {
		if validator.IsEmpty(values[field]) {
			missing[field] = true
			errs = append(errs, validator.ValidationError{Field: field, Message: "is required"})
		}
	}

	for _, field := range owned {
		check, ok := formatChecks[field]
		value := values.Get(field)
		if !ok || value == "" || missing[field] {
			continue
		}
		if msg := check(value); msg != "" {
			errs = append(errs, validator.ValidationError{Field: field, Message: msg})
		}
	}
	return errs
}
