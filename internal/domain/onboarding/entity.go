package onboarding

import (
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
)

// Tab is a wizard step. The zero value is the first tab.
type Tab int

const (
	TabPersonal Tab = iota
	TabHR
	TabSalary
	TabContacts
	TabTax
	TabAdditional
)

// TabCount is the number of wizard tabs.
const TabCount = 6

// LastTab is where submit happens.
const LastTab = TabAdditional

var tabKeys = [TabCount]string{
	"personalDetails",
	"hrDetails",
	"salaryDetails",
	"contactsDetails",
	"taxDetails",
	"additionalDetails",
}

func (t Tab) IsValid() bool {
	return t >= TabPersonal && t <= LastTab
}

// Key is the record key the tab's snapshot is stored under.
func (t Tab) Key() string {
	if !t.IsValid() {
		return ""
	}
	return tabKeys[t]
}

// Status enum
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// FormValues are raw form strings keyed by field name.
type FormValues map[string]string

func (v FormValues) Clone() FormValues {
	out := make(FormValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Get returns the trimmed value of field, or "".
func (v FormValues) Get(field string) string {
	return trim(v[field])
}

// AssignmentFailure is a component assignment that failed after the employee
// was created. Index is the entry's display position in its ledger.
type AssignmentFailure struct {
	Category        compensation.Category `json:"category"`
	Index           int                   `json:"index"`
	EntryID         compensation.EntryID  `json:"entry_id"`
	ComponentTypeID string                `json:"component_type_id"`
	Message         string                `json:"message"`
}

// Session is one employee being onboarded. Record holds the snapshot of
// every tab merged so far; Live holds the form of the active tab. Live wins
// over the active tab's snapshot until the next merge.
type Session struct {
	ID          string               `json:"id"`
	CompanyID   string               `json:"company_id"`
	Status      Status               `json:"status"`
	ActiveTab   Tab                  `json:"active_tab"`
	VisitedUpTo Tab                  `json:"visited_up_to"`
	Record      Record               `json:"record"`
	Live        FormValues           `json:"live"`
	Errors      map[string]string    `json:"errors"`
	Payment     PaymentState         `json:"payment"`
	Earnings    *compensation.Ledger `json:"earnings"`
	Deductions  *compensation.Ledger `json:"deductions"`

	EmployeeID  string              `json:"employee_id,omitempty"`
	Outstanding []AssignmentFailure `json:"outstanding,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id, companyID string, now time.Time) *Session {
	return &Session{
		ID:         id,
		CompanyID:  companyID,
		Status:     StatusDraft,
		ActiveTab:  TabPersonal,
		Record:     Record{},
		Live:       FormValues{},
		Errors:     map[string]string{},
		Earnings:   compensation.NewLedger(compensation.CategoryEarnings),
		Deductions: compensation.NewLedger(compensation.CategoryDeductions),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Ledger returns the session's ledger for category.
func (s *Session) Ledger(category compensation.Category) (*compensation.Ledger, error) {
	switch category {
	case compensation.CategoryEarnings:
		return s.Earnings, nil
	case compensation.CategoryDeductions:
		return s.Deductions, nil
	default:
		return nil, compensation.ErrInvalidCategory
	}
}

// Aggregate is the record with the active tab's live values on top.
func (s *Session) Aggregate() Record {
	return Merge(s.Record, s.ActiveTab, s.Live)
}

func (s *Session) ensureDraft() error {
	if s.Status != StatusDraft {
		return ErrSessionClosed
	}
	return nil
}
