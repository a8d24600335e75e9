package onboarding

import "strings"

// Form field names. They match the keys of the flattened employee record.
const (
	// personalDetails
	FieldFirstName         = "firstName"
	FieldMiddleName        = "middleName"
	FieldLastName          = "lastName"
	FieldGender            = "gender"
	FieldDateOfBirth       = "dateOfBirth"
	FieldNationalID        = "nationalId"
	FieldPassportNo        = "passportNo"
	FieldMaritalStatus     = "maritalStatus"
	FieldResidentialStatus = "residentialStatus"
	FieldWorkEmail         = "workEmail"
	FieldPassportPhoto     = "passportPhoto"

	// hrDetails
	FieldStaffNo        = "staffNo"
	FieldJobTitleID     = "jobTitleId"
	FieldDepartmentID   = "departmentId"
	FieldEmploymentDate = "employmentDate"
	FieldEmploymentType = "employmentType"
	FieldProjectID      = "projectId"
	FieldReportingToID  = "reportingToId"
	FieldEndDate        = "endDate"

	// salaryDetails
	FieldCurrency             = "currency"
	FieldBasicSalary          = "basicSalary"
	FieldModeOfPayment        = "modeOfPayment"
	FieldAmountPerRate        = "amountPerRate"
	FieldUnitsWorked          = "unitsWorked"
	FieldPaymentMethod        = "paymentMethod"
	FieldBankName             = "bankName"
	FieldAccountNumber        = "accountNumber"
	FieldBankCode             = "bankCode"
	FieldBranchName           = "branchName"
	FieldBranchCode           = "branchCode"
	FieldAccountName          = "accountName"
	FieldMobileProvider       = "mobileProvider"
	FieldMobileNumber         = "mobileNumber"
	FieldMobileAccountName    = "mobileAccountName"
	FieldAccumulatedLeaveDays = "accumulatedLeaveDays"
	FieldUtilizedLeaveDays    = "utilizedLeaveDays"

	// contactsDetails
	FieldPersonalEmail   = "personalEmail"
	FieldWorkPhone       = "workPhone"
	FieldPersonalPhone   = "personalPhone"
	FieldPhysicalAddress = "physicalAddress"

	// taxDetails
	FieldKRAPin            = "kraPin"
	FieldNHIFNo            = "nhifNo"
	FieldNSSFNo            = "nssfNo"
	FieldSHANo             = "shaNo"
	FieldIsExemptedFromTax = "isExemptedFromTax"
)

// BankFields are captured by the bank/cheque modal.
var BankFields = []string{
	FieldBankName,
	FieldAccountNumber,
	FieldBankCode,
	FieldBranchName,
	FieldBranchCode,
	FieldAccountName,
}

// MobileMoneyFields are captured by the mobile-money modal.
var MobileMoneyFields = []string{
	FieldMobileProvider,
	FieldMobileNumber,
	FieldMobileAccountName,
}

// tabFields lists every field a tab's form owns.
var tabFields = map[Tab][]string{
	TabPersonal: {
		FieldFirstName, FieldMiddleName, FieldLastName, FieldGender, FieldDateOfBirth,
		FieldNationalID, FieldPassportNo, FieldMaritalStatus, FieldResidentialStatus,
		FieldWorkEmail, FieldPassportPhoto,
	},
	TabHR: {
		FieldStaffNo, FieldJobTitleID, FieldDepartmentID, FieldEmploymentDate,
		FieldEmploymentType, FieldProjectID, FieldReportingToID, FieldEndDate,
	},
	TabSalary: append([]string{
		FieldCurrency, FieldBasicSalary, FieldModeOfPayment, FieldAmountPerRate,
		FieldUnitsWorked, FieldPaymentMethod, FieldAccumulatedLeaveDays, FieldUtilizedLeaveDays,
	}, append(append([]string{}, BankFields...), MobileMoneyFields...)...),
	TabContacts: {
		FieldPersonalEmail, FieldWorkPhone, FieldPersonalPhone, FieldPhysicalAddress,
	},
	TabTax: {
		FieldKRAPin, FieldNHIFNo, FieldNSSFNo, FieldSHANo, FieldIsExemptedFromTax,
	},
	TabAdditional: {},
}

// derivedFields are computed by the wizard and never accepted from input.
var derivedFields = map[string]bool{
	FieldBasicSalary: true,
}

// Fields returns the field names owned by tab.
func Fields(tab Tab) []string {
	return append([]string(nil), tabFields[tab]...)
}

func ownsField(tab Tab, field string) bool {
	for _, f := range tabFields[tab] {
		if f == field {
			return true
		}
	}
	return false
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
