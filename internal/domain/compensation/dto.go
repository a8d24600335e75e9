package compensation

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// ========== CATALOG DTOs ==========

type ComponentTypeResponse struct {
	ID                string           `json:"id"`
	Label             string           `json:"label"`
	Category          string           `json:"category"`
	CalculationMethod string           `json:"calculation_method"`
	Mode              *string          `json:"mode,omitempty"`
	DefaultRate       *decimal.Decimal `json:"default_rate,omitempty"`
}

func NewComponentTypeResponse(t ComponentType) ComponentTypeResponse {
	var mode *string
	if t.CalculationMethod == MethodFixedAmount && t.Mode != "" {
		m := string(t.Mode)
		mode = &m
	}
	return ComponentTypeResponse{
		ID:                t.ID,
		Label:             t.Label,
		Category:          string(t.Category),
		CalculationMethod: string(t.CalculationMethod),
		Mode:              mode,
		DefaultRate:       t.DefaultRate,
	}
}

// ========== PREVIEW DTOs ==========

type PreviewRequest struct {
	Category        string            `json:"category"`
	ComponentTypeID string            `json:"component_type_id"`
	Params          map[string]string `json:"params"`
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Category(r.Category).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "must be 'earnings' or 'deductions'"})
	}
	if validator.IsEmpty(r.ComponentTypeID) {
		errs = append(errs, validator.ValidationError{Field: "component_type_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PreviewResponse struct {
	ComponentTypeID   string  `json:"component_type_id"`
	CalculationMethod string  `json:"calculation_method"`
	Mode              *string `json:"mode,omitempty"`
	ComputedAmount    string  `json:"computed_amount"`
}

// ========== ENTRY INPUT ==========

// EntryInput is the modal payload for adding or editing a ledger entry.
// Params are raw form strings; dates are YYYY-MM-DD.
type EntryInput struct {
	Params        map[string]string `json:"params,omitempty"`
	EffectiveDate *string           `json:"effective_date,omitempty"`
	EndDate       *string           `json:"end_date,omitempty"`
}

// Resolve applies the input on top of the current modal values. Numbers go
// through parser; dates must be well formed. An explicitly empty end_date
// clears the end date. endDate is not checked against effectiveDate.
func (in EntryInput) Resolve(parser NumberParser, base Parameters, effective time.Time, end *time.Time) (Parameters, time.Time, *time.Time, error) {
	var errs validator.ValidationErrors

	params, err := base.Merge(parser, in.Params)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "params", Message: err.Error()})
	}

	if in.EffectiveDate != nil {
		if validator.IsEmpty(*in.EffectiveDate) {
			errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "is required"})
		} else if parsed, ok := validator.IsValidDate(*in.EffectiveDate); ok {
			effective = parsed
		} else {
			errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if in.EndDate != nil {
		if validator.IsEmpty(*in.EndDate) {
			end = nil
		} else if parsed, ok := validator.IsValidDate(*in.EndDate); ok {
			end = &parsed
		} else {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return base, effective, end, errs
	}
	return params, effective, end, nil
}

// ========== LEDGER DTOs ==========

type EntryResponse struct {
	ID                EntryID    `json:"id"`
	Index             int        `json:"index"`
	ComponentTypeID   string     `json:"component_type_id"`
	DisplayName       string     `json:"display_name"`
	CalculationMethod string     `json:"calculation_method"`
	Mode              *string    `json:"mode,omitempty"`
	EffectiveDate     string     `json:"effective_date"`
	EndDate           *string    `json:"end_date,omitempty"`
	ComputedAmount    string     `json:"computed_amount"`
	Parameters        Parameters `json:"parameters"`
}

func NewEntryResponse(index int, e AssignmentEntry) EntryResponse {
	var mode *string
	if e.CalculationMethod == MethodFixedAmount && e.Mode != "" {
		m := string(e.Mode)
		mode = &m
	}
	return EntryResponse{
		ID:                e.ID,
		Index:             index,
		ComponentTypeID:   e.ComponentTypeID,
		DisplayName:       e.DisplayName,
		CalculationMethod: string(e.CalculationMethod),
		Mode:              mode,
		EffectiveDate:     e.EffectiveDate.Format(DateLayout),
		EndDate:           formatDatePtr(e.EndDate),
		ComputedAmount:    e.ComputedAmount,
		Parameters:        e.Parameters,
	}
}

type PendingResponse struct {
	Kind            string     `json:"kind"`
	EntryID         *EntryID   `json:"entry_id,omitempty"`
	ComponentTypeID string     `json:"component_type_id"`
	DisplayName     string     `json:"display_name"`
	Parameters      Parameters `json:"parameters"`
	EffectiveDate   string     `json:"effective_date"`
	EndDate         *string    `json:"end_date,omitempty"`
	ComputedAmount  string     `json:"computed_amount"`
}

func NewPendingResponse(op PendingOperation) PendingResponse {
	var entryID *EntryID
	if op.Kind == OperationEdit {
		id := op.EntryID
		entryID = &id
	}
	return PendingResponse{
		Kind:            string(op.Kind),
		EntryID:         entryID,
		ComponentTypeID: op.Type.ID,
		DisplayName:     op.Type.Label,
		Parameters:      op.Parameters,
		EffectiveDate:   op.EffectiveDate.Format(DateLayout),
		EndDate:         formatDatePtr(op.EndDate),
		ComputedAmount:  op.ComputedAmount,
	}
}

type LedgerResponse struct {
	Category string           `json:"category"`
	Entries  []EntryResponse  `json:"entries"`
	Total    string           `json:"total"`
	Pending  *PendingResponse `json:"pending,omitempty"`
}

func NewLedgerResponse(l *Ledger) LedgerResponse {
	entries := l.Entries()
	resp := LedgerResponse{
		Category: string(l.Category()),
		Entries:  make([]EntryResponse, 0, len(entries)),
		Total:    l.Total().StringFixed(2),
	}
	for i, e := range entries {
		resp.Entries = append(resp.Entries, NewEntryResponse(i, e))
	}
	if op, ok := l.Pending(); ok {
		p := NewPendingResponse(op)
		resp.Pending = &p
	}
	return resp
}

// ========== ASSIGNMENT DTOs ==========

// AssignComponentRequest is the payload sent to the payroll API for one
// entry. Only the fields of the entry's method and mode are set.
type AssignComponentRequest struct {
	ComponentTypeID string           `json:"componentTypeId"`
	EffectiveDate   string           `json:"effectiveDate"`
	EndDate         *string          `json:"endDate,omitempty"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty"`
	MonthlyAmount   *decimal.Decimal `json:"monthlyAmount,omitempty"`
	Hours           *decimal.Decimal `json:"hours,omitempty"`
	HourlyRate      *decimal.Decimal `json:"hourlyRate,omitempty"`
	Days            *decimal.Decimal `json:"days,omitempty"`
	DailyRate       *decimal.Decimal `json:"dailyRate,omitempty"`
	Weeks           *decimal.Decimal `json:"weeks,omitempty"`
	WeeklyRate      *decimal.Decimal `json:"weeklyRate,omitempty"`
}

func NewAssignComponentRequest(e AssignmentEntry) AssignComponentRequest {
	req := AssignComponentRequest{
		ComponentTypeID: e.ComponentTypeID,
		EffectiveDate:   e.EffectiveDate.Format(DateLayout),
		EndDate:         formatDatePtr(e.EndDate),
	}
	p := e.Parameters

	if e.CalculationMethod == MethodPercentage {
		req.Percentage = &p.Percentage
		return req
	}

	switch e.Mode {
	case ModeHourly:
		req.Hours, req.HourlyRate = &p.Hours, &p.HourlyRate
	case ModeDaily:
		req.Days, req.DailyRate = &p.Days, &p.DailyRate
	case ModeWeekly:
		req.Weeks, req.WeeklyRate = &p.Weeks, &p.WeeklyRate
	default:
		req.MonthlyAmount = &p.MonthlyAmount
	}
	return req
}

type DirectAssignRequest struct {
	EmployeeID      string `json:"-"`
	Category        string `json:"-"`
	ComponentTypeID string `json:"component_type_id"`
	EntryInput
}

func (r *DirectAssignRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !Category(r.Category).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "must be 'earnings' or 'deductions'"})
	}
	if validator.IsEmpty(r.ComponentTypeID) {
		errs = append(errs, validator.ValidationError{Field: "component_type_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignedComponentResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	ComponentTypeID string  `json:"component_type_id"`
	Category        string  `json:"category"`
	EffectiveDate   string  `json:"effective_date"`
	EndDate         *string `json:"end_date,omitempty"`
	Amount          string  `json:"amount"`
}

func NewAssignedComponentResponse(a AssignedComponent) AssignedComponentResponse {
	return AssignedComponentResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		ComponentTypeID: a.ComponentTypeID,
		Category:        string(a.Category),
		EffectiveDate:   a.EffectiveDate.Format(DateLayout),
		EndDate:         formatDatePtr(a.EndDate),
		Amount:          a.Amount,
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// ParseCategory validates a category coming from a path or query parameter.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return c, nil
}
