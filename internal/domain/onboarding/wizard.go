package onboarding

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/validator"
)

// UpdateFields applies edits to the active tab's live form. Derived fields are
// ignored, sub-form fields must go through the payment modal, and a payment
// method change goes through SelectPaymentMethod. Errors on edited fields
// are cleared; basicSalary is recomputed when one of its inputs changes.
func (s *Session) UpdateFields(values FormValues) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	for field := range values {
		switch {
		case derivedFields[field]:
		case !ownsField(s.ActiveTab, field):
			errs = append(errs, validator.ValidationError{Field: field, Message: "is not a field of this tab"})
		case isModalField(field):
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be set through the payment form"})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	if method, ok := values[FieldPaymentMethod]; ok {
		if err := s.SelectPaymentMethod(PaymentMethod(trim(method))); err != nil {
			return err
		}
	}

	recompute := false
	for field, v := range values {
		if derivedFields[field] || field == FieldPaymentMethod {
			continue
		}
		s.Live[field] = v
		delete(s.Errors, field)
		if salaryInputs[field] {
			recompute = true
		}
	}
	if recompute {
		applyDerived(s.Live)
	}
	return nil
}

func isModalField(field string) bool {
	return validator.IsInSlice(field, BankFields) || validator.IsInSlice(field, MobileMoneyFields)
}

// Continue validates the active tab and, when it passes, merges it and moves
// to the next tab. On failure the tab stays active and the messages are kept
// on the session.
func (s *Session) Continue(tab Tab) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	if err := s.ensureActive(tab); err != nil {
		return err
	}
	if tab == LastTab {
		return fmt.Errorf("%w: use submit on the last tab", ErrInvalidTransition)
	}

	if errs := ValidateTab(tab, s.Live); len(errs) > 0 {
		s.Errors = errs.ToMap()
		return errs
	}

	s.Record = Merge(s.Record, tab, s.Live)
	s.enter(tab + 1)
	return nil
}

// Back merges the active tab without validating and moves one tab back.
func (s *Session) Back(tab Tab) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	if err := s.ensureActive(tab); err != nil {
		return err
	}
	if tab == TabPersonal {
		return fmt.Errorf("%w: already on the first tab", ErrInvalidTransition)
	}

	s.Record = Merge(s.Record, tab, s.Live)
	s.enter(tab - 1)
	return nil
}

// JumpTo merges the active tab without validating and moves to any tab that
// has already been reached.
func (s *Session) JumpTo(target Tab) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	if !target.IsValid() {
		return ErrInvalidTab
	}
	if target > s.VisitedUpTo {
		return fmt.Errorf("%w: tab %d", ErrTabNotVisited, target)
	}

	s.Record = Merge(s.Record, s.ActiveTab, s.Live)
	s.enter(target)
	return nil
}

func (s *Session) ensureActive(tab Tab) error {
	if !tab.IsValid() {
		return ErrInvalidTab
	}
	if tab != s.ActiveTab {
		return fmt.Errorf("%w: tab %d is not active (active is %d)", ErrTabMismatch, tab, s.ActiveTab)
	}
	return nil
}

// enter makes tab active and repopulates the live form from its snapshot.
// An open payment modal is discarded.
func (s *Session) enter(tab Tab) {
	s.closePaymentModal()
	s.ActiveTab = tab
	if tab > s.VisitedUpTo {
		s.VisitedUpTo = tab
	}
	s.Live = s.Record.Snapshot(tab)
	s.Errors = map[string]string{}
	if tab == TabSalary {
		s.Payment.Method = PaymentMethod(s.Live.Get(FieldPaymentMethod))
	}
}

// PrepareSubmit validates the final tab, merges it and flattens the whole
// aggregate. It does not change the session status.
func (s *Session) PrepareSubmit() (Submission, error) {
	if err := s.ensureDraft(); err != nil {
		return Submission{}, err
	}
	if s.ActiveTab != LastTab {
		return Submission{}, fmt.Errorf("%w: submit is only available on the last tab", ErrInvalidTransition)
	}

	if errs := ValidateTab(s.ActiveTab, s.Live); len(errs) > 0 {
		s.Errors = errs.ToMap()
		return Submission{}, errs
	}

	s.Record = Merge(s.Record, s.ActiveTab, s.Live)
	s.Errors = map[string]string{}
	return Flatten(s.Record, s.Earnings, s.Deductions), nil
}

// MarkSubmitted closes the wizard once the employee exists. Failed
// assignments are kept for a later retry.
func (s *Session) MarkSubmitted(employeeID string, failures []AssignmentFailure, now time.Time) {
	s.Status = StatusSubmitted
	s.EmployeeID = employeeID
	s.Outstanding = failures
	s.closePaymentModal()
	s.Earnings.DiscardPending()
	s.Deductions.DiscardPending()
	s.UpdatedAt = now
}

// Reconciled replaces the outstanding failures after a retry.
func (s *Session) Reconciled(remaining []AssignmentFailure, now time.Time) {
	s.Outstanding = remaining
	s.UpdatedAt = now
}

// Done reports whether the session can be discarded.
func (s *Session) Done() bool {
	return s.Status == StatusSubmitted && len(s.Outstanding) == 0
}

// EditLedger runs fn against the ledger of category while the session is a draft.
func (s *Session) EditLedger(category compensation.Category, fn func(l *compensation.Ledger) error) error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	l, err := s.Ledger(category)
	if err != nil {
		return err
	}
	return fn(l)
}
