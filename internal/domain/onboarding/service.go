package onboarding

import (
	"context"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
)

type OnboardingService interface {
	// Session lifecycle
	Create(ctx context.Context) (SessionResponse, error)
	Get(ctx context.Context, id string) (SessionResponse, error)
	Abandon(ctx context.Context, id string) error

	// Wizard
	UpdateFields(ctx context.Context, id string, req UpdateFieldsRequest) (SessionResponse, error)
	Continue(ctx context.Context, id string, req TransitionRequest) (SessionResponse, error)
	Back(ctx context.Context, id string, req TransitionRequest) (SessionResponse, error)
	Jump(ctx context.Context, id string, req TransitionRequest) (SessionResponse, error)
	Submit(ctx context.Context, id string) (SubmitResponse, error)
	Reconcile(ctx context.Context, id string) (SubmitResponse, error)

	// Payment method sub-form
	SelectPaymentMethod(ctx context.Context, id string, req SelectPaymentMethodRequest) (SessionResponse, error)
	UpdatePaymentModal(ctx context.Context, id string, req UpdateFieldsRequest) (SessionResponse, error)
	SavePaymentModal(ctx context.Context, id string) (SessionResponse, error)
	CancelPaymentModal(ctx context.Context, id string) (SessionResponse, error)

	// Ledgers
	GetLedger(ctx context.Context, id string, category string) (compensation.LedgerResponse, error)
	BeginAdd(ctx context.Context, id string, category string, req BeginAddRequest) (compensation.LedgerResponse, error)
	BeginEdit(ctx context.Context, id string, category string, entryID compensation.EntryID) (compensation.LedgerResponse, error)
	UpdatePending(ctx context.Context, id string, category string, req compensation.EntryInput) (compensation.LedgerResponse, error)
	CommitPending(ctx context.Context, id string, category string) (compensation.LedgerResponse, error)
	DiscardPending(ctx context.Context, id string, category string) (compensation.LedgerResponse, error)
	RemoveEntry(ctx context.Context, id string, category string, entryID compensation.EntryID) (compensation.LedgerResponse, error)
}
