package compensation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category separates earnings from deductions. Each has its own catalog and ledger.
type Category string

const (
	CategoryEarnings   Category = "earnings"
	CategoryDeductions Category = "deductions"
)

func (c Category) IsValid() bool {
	return c == CategoryEarnings || c == CategoryDeductions
}

// CalculationMethod enum
type CalculationMethod string

const (
	MethodPercentage  CalculationMethod = "percentage"
	MethodFixedAmount CalculationMethod = "fixed_amount"
)

// Mode is the time basis of a fixed-amount component.
type Mode string

const (
	ModeMonthly Mode = "monthly"
	ModeHourly  Mode = "hourly"
	ModeDaily   Mode = "daily"
	ModeWeekly  Mode = "weekly"
)

// ComponentType - earnings or deduction type configured for a company.
// Mode is only meaningful for fixed-amount types.
type ComponentType struct {
	ID                string            `json:"id"`
	Label             string            `json:"label"`
	Category          Category          `json:"category"`
	CalculationMethod CalculationMethod `json:"calculation_method"`
	Mode              Mode              `json:"mode,omitempty"`
	DefaultRate       *decimal.Decimal  `json:"default_rate,omitempty"`
}

// Parameters holds the user-entered values for an assignment. Only the fields
// relevant to the type's method and mode are read by Compute.
type Parameters struct {
	Percentage    decimal.Decimal `json:"percentage"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	Hours         decimal.Decimal `json:"hours"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	Days          decimal.Decimal `json:"days"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	Weeks         decimal.Decimal `json:"weeks"`
	WeeklyRate    decimal.Decimal `json:"weekly_rate"`
}

// DefaultParameters pre-fills the rate field of a type from its catalog default.
func DefaultParameters(t ComponentType) Parameters {
	var p Parameters
	if t.DefaultRate == nil {
		return p
	}
	rate := *t.DefaultRate

	if t.CalculationMethod == MethodPercentage {
		p.Percentage = rate
		return p
	}

	switch t.Mode {
	case ModeHourly:
		p.HourlyRate = rate
	case ModeDaily:
		p.DailyRate = rate
	case ModeWeekly:
		p.WeeklyRate = rate
	default:
		p.MonthlyAmount = rate
	}
	return p
}

// EntryID is a ledger-local identifier, assigned at add time and never reused.
type EntryID uint64

// AssignmentEntry - one component assigned to the employee being edited
type AssignmentEntry struct {
	ID                EntryID           `json:"id"`
	ComponentTypeID   string            `json:"component_type_id"`
	DisplayName       string            `json:"display_name"`
	CalculationMethod CalculationMethod `json:"calculation_method"`
	Mode              Mode              `json:"mode,omitempty"`
	EffectiveDate     time.Time         `json:"effective_date"`
	EndDate           *time.Time        `json:"end_date,omitempty"`
	ComputedAmount    string            `json:"computed_amount"`
	Parameters        Parameters        `json:"parameters"`
}

// ComponentType rebuilds the type the entry was computed from.
func (e AssignmentEntry) ComponentType(category Category) ComponentType {
	return ComponentType{
		ID:                e.ComponentTypeID,
		Label:             e.DisplayName,
		Category:          category,
		CalculationMethod: e.CalculationMethod,
		Mode:              e.Mode,
	}
}

// OperationKind enum
type OperationKind string

const (
	OperationAdd  OperationKind = "add"
	OperationEdit OperationKind = "edit"
)

// PendingOperation is the state of the single open add/edit modal of a ledger.
type PendingOperation struct {
	Kind           OperationKind `json:"kind"`
	EntryID        EntryID       `json:"entry_id,omitempty"`
	Type           ComponentType `json:"type"`
	Parameters     Parameters    `json:"parameters"`
	EffectiveDate  time.Time     `json:"effective_date"`
	EndDate        *time.Time    `json:"end_date,omitempty"`
	ComputedAmount string        `json:"computed_amount"`
}

// AssignedComponent is what the payroll API returns once an assignment is persisted.
type AssignedComponent struct {
	ID              string
	EmployeeID      string
	ComponentTypeID string
	Category        Category
	EffectiveDate   time.Time
	EndDate         *time.Time
	Amount          string
}
