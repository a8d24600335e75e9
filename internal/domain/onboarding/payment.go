package onboarding

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/validator"
)

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentBank        PaymentMethod = "bank"
	PaymentCheque      PaymentMethod = "cheque"
	PaymentMobileMoney PaymentMethod = "mobile_money"
	PaymentCash        PaymentMethod = "cash"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentBank, PaymentCheque, PaymentMobileMoney, PaymentCash:
		return true
	}
	return false
}

// ModalKind identifies the sub-form that captures a method's details.
type ModalKind string

const (
	ModalNone        ModalKind = ""
	ModalBank        ModalKind = "bank"
	ModalMobileMoney ModalKind = "mobile_money"
)

// Modal returns the sub-form for m. Bank and cheque share one.
func (m PaymentMethod) Modal() ModalKind {
	switch m {
	case PaymentBank, PaymentCheque:
		return ModalBank
	case PaymentMobileMoney:
		return ModalMobileMoney
	default:
		return ModalNone
	}
}

// Fields returns the sub-form's fields, all of them required.
func (k ModalKind) Fields() []string {
	switch k {
	case ModalBank:
		return BankFields
	case ModalMobileMoney:
		return MobileMoneyFields
	default:
		return nil
	}
}

// PaymentStatus is shown in the salary tab banner.
type PaymentStatus string

const (
	PaymentStatusNotRequired PaymentStatus = "not_required"
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusCompleted   PaymentStatus = "completed"
)

// PaymentState tracks the payment method sub-form. Draft holds unsaved modal
// edits and is only set while the modal is open.
type PaymentState struct {
	Method    PaymentMethod `json:"method,omitempty"`
	ModalOpen bool          `json:"modal_open"`
	Draft     FormValues    `json:"draft,omitempty"`
	Completed bool          `json:"completed"`
}

func (p PaymentState) Status() PaymentStatus {
	switch {
	case p.Method.Modal() == ModalNone:
		return PaymentStatusNotRequired
	case p.Completed:
		return PaymentStatusCompleted
	default:
		return PaymentStatusPending
	}
}

func (s *Session) ensurePaymentTab() error {
	if err := s.ensureDraft(); err != nil {
		return err
	}
	if s.ActiveTab != TabSalary {
		return fmt.Errorf("%w: payment method is edited on the salary tab", ErrTabMismatch)
	}
	return nil
}

// SelectPaymentMethod switches the payment method. When the sub-form changes
// the old sub-form's values and errors are dropped from the live form. A
// method with a sub-form opens it, seeded with the values already saved.
func (s *Session) SelectPaymentMethod(method PaymentMethod) error {
	if err := s.ensurePaymentTab(); err != nil {
		return err
	}
	if !method.IsValid() {
		return validator.ValidationErrors{{Field: FieldPaymentMethod, Message: "is not a supported value"}}
	}

	previous := PaymentMethod(s.Live.Get(FieldPaymentMethod))
	if previous.Modal() != method.Modal() {
		for _, field := range previous.Modal().Fields() {
			delete(s.Live, field)
			delete(s.Errors, field)
		}
		s.Payment.Completed = false
	}

	s.Live[FieldPaymentMethod] = string(method)
	delete(s.Errors, FieldPaymentMethod)
	s.Payment.Method = method
	s.Payment.ModalOpen = false
	s.Payment.Draft = nil

	fields := method.Modal().Fields()
	if len(fields) == 0 {
		return nil
	}
	draft := make(FormValues, len(fields))
	for _, field := range fields {
		if v, ok := s.Live[field]; ok {
			draft[field] = v
		}
	}
	s.Payment.Draft = draft
	s.Payment.ModalOpen = true
	return nil
}

// UpdatePaymentModal records unsaved edits in the open sub-form.
func (s *Session) UpdatePaymentModal(values FormValues) error {
	if err := s.ensurePaymentTab(); err != nil {
		return err
	}
	if !s.Payment.ModalOpen {
		return ErrPaymentModalClosed
	}

	allowed := s.Payment.Method.Modal().Fields()
	var errs validator.ValidationErrors
	for field := range values {
		if !validator.IsInSlice(field, allowed) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "is not part of this payment form"})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	if s.Payment.Draft == nil {
		s.Payment.Draft = FormValues{}
	}
	for field, v := range values {
		s.Payment.Draft[field] = v
	}
	return nil
}

// SavePaymentModal validates the sub-form and commits it into the live form.
// On failure the modal stays open with its draft.
func (s *Session) SavePaymentModal() error {
	if err := s.ensurePaymentTab(); err != nil {
		return err
	}
	if !s.Payment.ModalOpen {
		return ErrPaymentModalClosed
	}

	fields := s.Payment.Method.Modal().Fields()
	if errs := validateFields(fields, fields, s.Payment.Draft); len(errs) > 0 {
		return errs
	}

	for _, field := range fields {
		s.Live[field] = s.Payment.Draft[field]
		delete(s.Errors, field)
	}
	s.Payment.Completed = true
	s.Payment.ModalOpen = false
	s.Payment.Draft = nil
	return nil
}

// CancelPaymentModal drops unsaved edits. Saved values stay.
func (s *Session) CancelPaymentModal() error {
	if err := s.ensurePaymentTab(); err != nil {
		return err
	}
	s.closePaymentModal()
	return nil
}

func (s *Session) closePaymentModal() {
	s.Payment.ModalOpen = false
	s.Payment.Draft = nil
}
