package onboarding

import (
	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/shopspring/decimal"
)

// FlatEmployee is the single record sent to create the employee.
type FlatEmployee struct {
	// Personal
	FirstName         string `json:"firstName"`
	MiddleName        string `json:"middleName,omitempty"`
	LastName          string `json:"lastName"`
	Gender            string `json:"gender"`
	DateOfBirth       string `json:"dateOfBirth"`
	NationalID        string `json:"nationalId"`
	PassportNo        string `json:"passportNo,omitempty"`
	MaritalStatus     string `json:"maritalStatus"`
	ResidentialStatus string `json:"residentialStatus"`
	WorkEmail         string `json:"workEmail"`
	PassportPhoto     string `json:"passportPhoto,omitempty"`

	// HR
	StaffNo        string `json:"staffNo"`
	JobTitleID     string `json:"jobTitleId"`
	DepartmentID   string `json:"departmentId"`
	EmploymentDate string `json:"employmentDate"`
	EmploymentType string `json:"employmentType"`
	ProjectID      string `json:"projectId,omitempty"`
	ReportingToID  string `json:"reportingToId,omitempty"`
	EndDate        string `json:"endDate,omitempty"`

	// Salary
	Currency             string           `json:"currency"`
	BasicSalary          decimal.Decimal  `json:"basicSalary"`
	ModeOfPayment        string           `json:"modeOfPayment"`
	AmountPerRate        decimal.Decimal  `json:"amountPerRate"`
	UnitsWorked          *decimal.Decimal `json:"unitsWorked,omitempty"`
	PaymentMethod        string           `json:"paymentMethod"`
	BankName             string           `json:"bankName,omitempty"`
	AccountNumber        string           `json:"accountNumber,omitempty"`
	BankCode             string           `json:"bankCode,omitempty"`
	BranchName           string           `json:"branchName,omitempty"`
	BranchCode           string           `json:"branchCode,omitempty"`
	AccountName          string           `json:"accountName,omitempty"`
	MobileProvider       string           `json:"mobileProvider,omitempty"`
	MobileNumber         string           `json:"mobileNumber,omitempty"`
	MobileAccountName    string           `json:"mobileAccountName,omitempty"`
	AccumulatedLeaveDays decimal.Decimal  `json:"accumulatedLeaveDays"`
	UtilizedLeaveDays    decimal.Decimal  `json:"utilizedLeaveDays"`

	// Tax
	KRAPin            string `json:"kraPin"`
	NHIFNo            string `json:"nhifNo"`
	NSSFNo            string `json:"nssfNo"`
	SHANo             string `json:"shaNo"`
	IsExemptedFromTax bool   `json:"isExemptedFromTax"`

	// Contacts
	PersonalEmail   string `json:"personalEmail,omitempty"`
	WorkPhone       string `json:"workPhone"`
	PersonalPhone   string `json:"personalPhone,omitempty"`
	PhysicalAddress string `json:"physicalAddress"`
}

// Submission is everything a final submit sends: the employee record, then
// one assignment per ledger entry in ledger order.
type Submission struct {
	Employee   FlatEmployee
	Earnings   []compensation.AssignmentEntry
	Deductions []compensation.AssignmentEntry
}

// Flatten turns the per-tab aggregate and both ledgers into a Submission.
// Sub-form fields are only carried for the selected payment method, and
// basicSalary is derived again from the salary snapshot.
func Flatten(r Record, earnings, deductions *compensation.Ledger) Submission {
	personal := r.Snapshot(TabPersonal)
	hr := r.Snapshot(TabHR)
	salary := r.Snapshot(TabSalary)
	contacts := r.Snapshot(TabContacts)
	tax := r.Snapshot(TabTax)

	parser := compensation.LenientParser{}
	number := func(field string) decimal.Decimal {
		d, _ := parser.Parse(salary[field])
		return d
	}

	emp := FlatEmployee{
		FirstName:         personal.Get(FieldFirstName),
		MiddleName:        personal.Get(FieldMiddleName),
		LastName:          personal.Get(FieldLastName),
		Gender:            personal.Get(FieldGender),
		DateOfBirth:       personal.Get(FieldDateOfBirth),
		NationalID:        personal.Get(FieldNationalID),
		PassportNo:        personal.Get(FieldPassportNo),
		MaritalStatus:     personal.Get(FieldMaritalStatus),
		ResidentialStatus: personal.Get(FieldResidentialStatus),
		WorkEmail:         personal.Get(FieldWorkEmail),
		PassportPhoto:     personal.Get(FieldPassportPhoto),

		StaffNo:        hr.Get(FieldStaffNo),
		JobTitleID:     hr.Get(FieldJobTitleID),
		DepartmentID:   hr.Get(FieldDepartmentID),
		EmploymentDate: hr.Get(FieldEmploymentDate),
		EmploymentType: hr.Get(FieldEmploymentType),
		ProjectID:      hr.Get(FieldProjectID),
		ReportingToID:  hr.Get(FieldReportingToID),
		EndDate:        hr.Get(FieldEndDate),

		Currency:             salary.Get(FieldCurrency),
		BasicSalary:          DeriveBasicSalary(salary),
		ModeOfPayment:        salary.Get(FieldModeOfPayment),
		AmountPerRate:        number(FieldAmountPerRate),
		PaymentMethod:        salary.Get(FieldPaymentMethod),
		AccumulatedLeaveDays: number(FieldAccumulatedLeaveDays),
		UtilizedLeaveDays:    number(FieldUtilizedLeaveDays),

		KRAPin:            tax.Get(FieldKRAPin),
		NHIFNo:            tax.Get(FieldNHIFNo),
		NSSFNo:            tax.Get(FieldNSSFNo),
		SHANo:             tax.Get(FieldSHANo),
		IsExemptedFromTax: tax.Get(FieldIsExemptedFromTax) == "true",

		PersonalEmail:   contacts.Get(FieldPersonalEmail),
		WorkPhone:       contacts.Get(FieldWorkPhone),
		PersonalPhone:   contacts.Get(FieldPersonalPhone),
		PhysicalAddress: contacts.Get(FieldPhysicalAddress),
	}

	if isNonMonthly(salary) {
		units := number(FieldUnitsWorked)
		emp.UnitsWorked = &units
	}

	switch PaymentMethod(emp.PaymentMethod).Modal() {
	case ModalBank:
		emp.BankName = salary.Get(FieldBankName)
		emp.AccountNumber = salary.Get(FieldAccountNumber)
		emp.BankCode = salary.Get(FieldBankCode)
		emp.BranchName = salary.Get(FieldBranchName)
		emp.BranchCode = salary.Get(FieldBranchCode)
		emp.AccountName = salary.Get(FieldAccountName)
	case ModalMobileMoney:
		emp.MobileProvider = salary.Get(FieldMobileProvider)
		emp.MobileNumber = salary.Get(FieldMobileNumber)
		emp.MobileAccountName = salary.Get(FieldMobileAccountName)
	}

	sub := Submission{Employee: emp}
	if earnings != nil {
		sub.Earnings = earnings.Entries()
	}
	if deductions != nil {
		sub.Deductions = deductions.Entries()
	}
	return sub
}
