package onboarding

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/validator"
)

// ========== REQUEST DTOs ==========

type UpdateFieldsRequest struct {
	Values map[string]string `json:"values"`
}

func (r *UpdateFieldsRequest) Validate() error {
	if len(r.Values) == 0 {
		return validator.ValidationErrors{{Field: "values", Message: "is required"}}
	}
	return nil
}

type TransitionRequest struct {
	Tab *int `json:"tab"`
}

func (r *TransitionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Tab == nil {
		errs = append(errs, validator.ValidationError{Field: "tab", Message: "is required"})
	} else if !Tab(*r.Tab).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "tab", Message: fmt.Sprintf("must be between 0 and %d", TabCount-1)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SelectPaymentMethodRequest struct {
	Method string `json:"method"`
}

func (r *SelectPaymentMethodRequest) Validate() error {
	if validator.IsEmpty(r.Method) {
		return validator.ValidationErrors{{Field: "method", Message: "is required"}}
	}
	if !PaymentMethod(r.Method).IsValid() {
		return validator.ValidationErrors{{Field: "method", Message: "must be one of bank, cheque, mobile_money, cash"}}
	}
	return nil
}

type BeginAddRequest struct {
	ComponentTypeID string `json:"component_type_id"`
}

func (r *BeginAddRequest) Validate() error {
	if validator.IsEmpty(r.ComponentTypeID) {
		return validator.ValidationErrors{{Field: "component_type_id", Message: "is required"}}
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type TabResponse struct {
	Index   int    `json:"index"`
	Key     string `json:"key"`
	Active  bool   `json:"active"`
	Visited bool   `json:"visited"`
}

type PaymentResponse struct {
	Method    string            `json:"method,omitempty"`
	ModalOpen bool              `json:"modal_open"`
	Modal     string            `json:"modal,omitempty"`
	Draft     map[string]string `json:"draft,omitempty"`
	Status    string            `json:"status"`
}

type SessionResponse struct {
	ID          string                       `json:"id"`
	Status      string                       `json:"status"`
	ActiveTab   int                          `json:"active_tab"`
	Tabs        []TabResponse                `json:"tabs"`
	Values      map[string]string            `json:"values"`
	Errors      map[string]string            `json:"errors"`
	Snapshots   map[string]map[string]string `json:"snapshots"`
	Payment     PaymentResponse              `json:"payment"`
	Earnings    compensation.LedgerResponse  `json:"earnings"`
	Deductions  compensation.LedgerResponse  `json:"deductions"`
	EmployeeID  *string                      `json:"employee_id,omitempty"`
	Outstanding []AssignmentFailure          `json:"outstanding,omitempty"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

func NewSessionResponse(s *Session) SessionResponse {
	resp := SessionResponse{
		ID:          s.ID,
		Status:      string(s.Status),
		ActiveTab:   int(s.ActiveTab),
		Tabs:        make([]TabResponse, 0, TabCount),
		Values:      s.Live.Clone(),
		Errors:      make(map[string]string, len(s.Errors)),
		Snapshots:   make(map[string]map[string]string, len(s.Record)),
		Earnings:    compensation.NewLedgerResponse(s.Earnings),
		Deductions:  compensation.NewLedgerResponse(s.Deductions),
		Outstanding: s.Outstanding,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}

	for t := TabPersonal; t <= LastTab; t++ {
		resp.Tabs = append(resp.Tabs, TabResponse{
			Index:   int(t),
			Key:     t.Key(),
			Active:  t == s.ActiveTab,
			Visited: t <= s.VisitedUpTo,
		})
	}
	for k, v := range s.Errors {
		resp.Errors[k] = v
	}
	for k, snap := range s.Record {
		resp.Snapshots[k] = snap.Clone()
	}

	resp.Payment = PaymentResponse{
		Method:    string(s.Payment.Method),
		ModalOpen: s.Payment.ModalOpen,
		Modal:     string(s.Payment.Method.Modal()),
		Status:    string(s.Payment.Status()),
	}
	if s.Payment.ModalOpen {
		resp.Payment.Draft = s.Payment.Draft.Clone()
	}

	if s.EmployeeID != "" {
		id := s.EmployeeID
		resp.EmployeeID = &id
	}
	return resp
}

type SubmitResponse struct {
	SessionID  string              `json:"session_id"`
	EmployeeID string              `json:"employee_id"`
	Assigned   int                 `json:"assigned"`
	Failed     []AssignmentFailure `json:"failed"`
	Completed  bool                `json:"completed"`
}

// SortFailures orders failures by category then display index.
func SortFailures(failures []AssignmentFailure) {
	sort.SliceStable(failures, func(i, j int) bool {
		if failures[i].Category != failures[j].Category {
			return failures[i].Category == compensation.CategoryEarnings
		}
		return failures[i].Index < failures[j].Index
	})
}
