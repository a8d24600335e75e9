package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/onboarding"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/validator"
	"github.com/google/uuid"
)

type OnboardingServiceImpl struct {
	drafts       onboarding.DraftRepository
	employees    onboarding.EmployeeGateway
	assignments  compensation.AssignmentGateway
	compensation compensation.CompensationService
	logger       *slog.Logger
	now          func() time.Time

	// mu serializes draft reads and writes. Remote calls run without it and
	// inFlight keeps other writers off the session meanwhile.
	mu       sync.Mutex
	inFlight map[string]bool
}

func NewOnboardingService(
	drafts onboarding.DraftRepository,
	employees onboarding.EmployeeGateway,
	assignments compensation.AssignmentGateway,
	compensationService compensation.CompensationService,
	logger *slog.Logger,
) onboarding.OnboardingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnboardingServiceImpl{
		drafts:       drafts,
		employees:    employees,
		assignments:  assignments,
		compensation: compensationService,
		logger:       logger,
		now:          time.Now,
		inFlight:     make(map[string]bool),
	}
}

// ========== HELPERS ==========

// load fetches a session owned by the caller's company. Must hold s.mu.
func (s *OnboardingServiceImpl) load(ctx context.Context, id string) (*onboarding.Session, error) {
	companyID, err := jwt.CompanyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.CompanyID != companyID {
		return nil, onboarding.ErrSessionNotFound
	}
	return session, nil
}

// mutate loads a session, applies fn and saves the result. Sessions that
// fail validation are saved too so their field errors survive.
func (s *OnboardingServiceImpl) mutate(ctx context.Context, id string, fn func(*onboarding.Session) error) (*onboarding.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.inFlight[id] {
		return nil, onboarding.ErrSubmissionInFlight
	}

	fnErr := fn(session)
	var verrs validator.ValidationErrors
	if fnErr != nil && !errors.As(fnErr, &verrs) {
		return nil, fnErr
	}

	session.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, fnErr
}

func (s *OnboardingServiceImpl) mutateView(ctx context.Context, id string, fn func(*onboarding.Session) error) (onboarding.SessionResponse, error) {
	session, err := s.mutate(ctx, id, fn)
	if session == nil {
		return onboarding.SessionResponse{}, err
	}
	return onboarding.NewSessionResponse(session), err
}

func (s *OnboardingServiceImpl) mutateLedger(ctx context.Context, id string, category compensation.Category, fn func(*compensation.Ledger) error) (compensation.LedgerResponse, error) {
	session, err := s.mutate(ctx, id, func(session *onboarding.Session) error {
		return session.EditLedger(category, fn)
	})
	if err != nil {
		return compensation.LedgerResponse{}, err
	}
	l, _ := session.Ledger(category)
	return compensation.NewLedgerResponse(l), nil
}

func (s *OnboardingServiceImpl) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ========== SESSION LIFECYCLE ==========

func (s *OnboardingServiceImpl) Create(ctx context.Context) (onboarding.SessionResponse, error) {
	companyID, err := jwt.CompanyIDFromContext(ctx)
	if err != nil {
		return onboarding.SessionResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return onboarding.SessionResponse{}, fmt.Errorf("generate session id: %w", err)
	}

	session := onboarding.NewSession(id.String(), companyID, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.drafts.Save(ctx, session); err != nil {
		return onboarding.SessionResponse{}, fmt.Errorf("save session: %w", err)
	}
	return onboarding.NewSessionResponse(session), nil
}

func (s *OnboardingServiceImpl) Get(ctx context.Context, id string) (onboarding.SessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		return onboarding.SessionResponse{}, err
	}
	return onboarding.NewSessionResponse(session), nil
}

func (s *OnboardingServiceImpl) Abandon(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if s.inFlight[id] {
		return onboarding.ErrSubmissionInFlight
	}
	return s.drafts.Delete(ctx, id)
}

// ========== WIZARD ==========

func (s *OnboardingServiceImpl) UpdateFields(ctx context.Context, id string, req onboarding.UpdateFieldsRequest) (onboarding.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return onboarding.SessionResponse{}, err
	}
	return s.mutateView(ctx, id, func(session *onboarding.Session) error {
		return session.UpdateFields(onboarding.FormValues(req.Values))
	})
}

func (s *OnboardingServiceImpl) Continue(ctx context.Context, id string, req onboarding.TransitionRequest) (onboarding.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return onboarding.SessionResponse{}, err
	}
	return s.mutateView(ctx, id, func(session *onboarding.Session) error {
		return session.Continue(onboarding.Tab(*req.Tab))
	})
}

func (s *OnboardingServiceImpl) Back(ctx context.Context, id string, req onboarding.TransitionRequest) (onboarding.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return onboarding.SessionResponse{}, err
	}
	return s.mutateView(ctx, id, func(session *onboarding.Session) error {
		return session.Back(onboarding.Tab(*req.Tab))
	})
}

func (s *OnboardingServiceImpl) Jump(ctx context.Context, id string, req onboarding.TransitionRequest) (onboarding.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return onboarding.SessionResponse{}, err
	}
	return s.mutateView(ctx, id, func(session *onboarding.Session) error {
		return session.JumpTo(onboarding.Tab(*req.Tab))
	})
}

// ========== SUBMISSION ==========

// Submit creates the employee and then assigns every ledger entry in order.
// Assignment failures do not undo the employee; they stay on the session
// as outstanding until Reconcile clears them.
func (s *OnboardingServiceImpl) Submit(ctx context.Context, id string) (onboarding.SubmitResponse, error) {
	var submission onboarding.Submission
	claimed := false
	session, err := s.mutate(ctx, id, func(session *onboarding.Session) error {
		var err error
		if submission, err = session.PrepareSubmit(); err != nil {
			return err
		}
		s.inFlight[id] = true
		claimed = true
		return nil
	})
	if claimed {
		defer s.release(id)
	}
	if err != nil {
		return onboarding.SubmitResponse{}, err
	}

	log := s.logger.With(slog.String("session_id", id), slog.String("company_id", session.CompanyID))

	created, err := s.employees.SubmitEmployee(ctx, submission.Employee)
	if err != nil {
		log.Error("submit employee failed", slog.String("error", err.Error()))
		return onboarding.SubmitResponse{}, err
	}
	log = log.With(slog.String("employee_id", created.ID))

	var failures []onboarding.AssignmentFailure
	assigned := 0
	for _, group := range []struct {
		category compensation.Category
		entries  []compensation.AssignmentEntry
	}{
		{compensation.CategoryEarnings, submission.Earnings},
		{compensation.CategoryDeductions, submission.Deductions},
	} {
		for i, entry := range group.entries {
			if failure, ok := s.assign(ctx, created.ID, group.category, i, entry); !ok {
				failures = append(failures, failure)
				continue
			}
			assigned++
		}
	}
	if len(failures) > 0 {
		log.Warn("component assignments failed", slog.Int("failed", len(failures)), slog.Int("assigned", assigned))
	} else {
		log.Info("employee onboarded", slog.Int("assigned", assigned))
	}

	if err := s.finish(ctx, session, func(session *onboarding.Session) {
		session.MarkSubmitted(created.ID, failures, s.now())
	}); err != nil {
		return onboarding.SubmitResponse{}, err
	}

	return onboarding.SubmitResponse{
		SessionID:  id,
		EmployeeID: created.ID,
		Assigned:   assigned,
		Failed:     nonNil(failures),
		Completed:  len(failures) == 0,
	}, nil
}

// Reconcile retries the outstanding assignments of a submitted session.
func (s *OnboardingServiceImpl) Reconcile(ctx context.Context, id string) (onboarding.SubmitResponse, error) {
	s.mu.Lock()
	session, err := s.load(ctx, id)
	switch {
	case err != nil:
	case session.Status != onboarding.StatusSubmitted:
		err = onboarding.ErrNotSubmitted
	case len(session.Outstanding) == 0:
		err = onboarding.ErrNothingToReconcile
	case s.inFlight[id]:
		err = onboarding.ErrSubmissionInFlight
	default:
		s.inFlight[id] = true
	}
	s.mu.Unlock()
	if err != nil {
		return onboarding.SubmitResponse{}, err
	}
	defer s.release(id)

	var remaining []onboarding.AssignmentFailure
	assigned := 0
	for _, failure := range session.Outstanding {
		l, err := session.Ledger(failure.Category)
		if err != nil {
			remaining = append(remaining, failure)
			continue
		}
		entry, ok := l.Get(failure.EntryID)
		if !ok {
			failure.Message = compensation.ErrEntryNotFound.Error()
			remaining = append(remaining, failure)
			continue
		}
		if retry, ok := s.assign(ctx, session.EmployeeID, failure.Category, failure.Index, entry); !ok {
			remaining = append(remaining, retry)
			continue
		}
		assigned++
	}
	onboarding.SortFailures(remaining)

	if len(remaining) > 0 {
		s.logger.Warn("reconcile left assignments outstanding",
			slog.String("session_id", id),
			slog.String("employee_id", session.EmployeeID),
			slog.Int("remaining", len(remaining)),
		)
	}

	if err := s.finish(ctx, session, func(session *onboarding.Session) {
		session.Reconciled(remaining, s.now())
	}); err != nil {
		return onboarding.SubmitResponse{}, err
	}

	return onboarding.SubmitResponse{
		SessionID:  id,
		EmployeeID: session.EmployeeID,
		Assigned:   assigned,
		Failed:     nonNil(remaining),
		Completed:  len(remaining) == 0,
	}, nil
}

func (s *OnboardingServiceImpl) assign(ctx context.Context, employeeID string, category compensation.Category, index int, entry compensation.AssignmentEntry) (onboarding.AssignmentFailure, bool) {
	_, err := s.assignments.AssignComponent(ctx, employeeID, category, compensation.NewAssignComponentRequest(entry))
	if err == nil {
		return onboarding.AssignmentFailure{}, true
	}
	return onboarding.AssignmentFailure{
		Category:        category,
		Index:           index,
		EntryID:         entry.ID,
		ComponentTypeID: entry.ComponentTypeID,
		Message:         err.Error(),
	}, false
}

// finish applies the outcome of a remote run and destroys the draft once
// nothing is left to retry.
func (s *OnboardingServiceImpl) finish(ctx context.Context, session *onboarding.Session, apply func(*onboarding.Session)) error {
	// The remote work is done; persist its outcome even if the caller left.
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	apply(session)
	if session.Done() {
		if err := s.drafts.Delete(ctx, session.ID); err != nil && !errors.Is(err, onboarding.ErrSessionNotFound) {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	}
	if err := s.drafts.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *OnboardingServiceImpl) release(id string) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

func nonNil(failures []onboarding.AssignmentFailure) []onboarding.AssignmentFailure {
	if failures == nil {
		return []onboarding.AssignmentFailure{}
	}
	return failures
}

// ========== PAYMENT METHOD ==========

func (s *OnboardingServiceImpl) SelectPaymentMethod(ctx context.Context, id string, req onboarding.SelectPaymentMethodRequest) (onboarding.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return onboarding.SessionResponse{}, err
	}
	return s.mutateView(ctx, id, func(session *onboarding.Session) error {
		return session.SelectPaymentMethod(onboarding.PaymentMethod(req.Method))
	})
}

func (s *OnboardingServiceImpl) UpdatePaymentModal(ctx context.Context, id string, req onboarding.UpdateFieldsRequest) (onboarding.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return onboarding.SessionResponse{}, err
	}
	return s.mutateView(ctx, id, func(session *onboarding.Session) error {
		return session.UpdatePaymentModal(onboarding.FormValues(req.Values))
	})
}

func (s *OnboardingServiceImpl) SavePaymentModal(ctx context.Context, id string) (onboarding.SessionResponse, error) {
	return s.mutateView(ctx, id, (*onboarding.Session).SavePaymentModal)
}

func (s *OnboardingServiceImpl) CancelPaymentModal(ctx context.Context, id string) (onboarding.SessionResponse, error) {
	return s.mutateView(ctx, id, (*onboarding.Session).CancelPaymentModal)
}

// ========== LEDGERS ==========

func (s *OnboardingServiceImpl) GetLedger(ctx context.Context, id string, category string) (compensation.LedgerResponse, error) {
	c, err := compensation.ParseCategory(category)
	if err != nil {
		return compensation.LedgerResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		return compensation.LedgerResponse{}, err
	}
	l, _ := session.Ledger(c)
	return compensation.NewLedgerResponse(l), nil
}

// BeginAdd opens the add modal pre-filled with the type's default rate and
// today's date.
func (s *OnboardingServiceImpl) BeginAdd(ctx context.Context, id string, category string, req onboarding.BeginAddRequest) (compensation.LedgerResponse, error) {
	if err := req.Validate(); err != nil {
		return compensation.LedgerResponse{}, err
	}
	c, err := compensation.ParseCategory(category)
	if err != nil {
		return compensation.LedgerResponse{}, err
	}

	t, err := s.compensation.FindComponentType(ctx, c, req.ComponentTypeID)
	if err != nil {
		return compensation.LedgerResponse{}, err
	}

	return s.mutateLedger(ctx, id, c, func(l *compensation.Ledger) error {
		_, err := l.BeginAdd(t, s.today())
		return err
	})
}

func (s *OnboardingServiceImpl) BeginEdit(ctx context.Context, id string, category string, entryID compensation.EntryID) (compensation.LedgerResponse, error) {
	c, err := compensation.ParseCategory(category)
	if err != nil {
		return compensation.LedgerResponse{}, err
	}
	return s.mutateLedger(ctx, id, c, func(l *compensation.Ledger) error {
		_, err := l.BeginEdit(entryID)
		return err
	})
}

// UpdatePending applies modal input and recomputes the preview amount.
func (s *OnboardingServiceImpl) UpdatePending(ctx context.Context, id string, category string, req compensation.EntryInput) (compensation.LedgerResponse, error) {
	c, err := compensation.ParseCategory(category)
	if err != nil {
		return compensation.LedgerResponse{}, err
	}
	return s.mutateLedger(ctx, id, c, func(l *compensation.Ledger) error {
		op, ok := l.Pending()
		if !ok {
			return compensation.ErrNoPendingOperation
		}
		params, effective, end, err := req.Resolve(compensation.LenientParser{}, op.Parameters, op.EffectiveDate, op.EndDate)
		if err != nil {
			return err
		}
		_, err = l.UpdatePending(params, effective, end)
		return err
	})
}

func (s *OnboardingServiceImpl) CommitPending(ctx context.Context, id string, category string) (compensation.LedgerResponse, error) {
	c, err := compensation.ParseCategory(category)
	if err != nil {
		return compensation.LedgerResponse{}, err
	}
	return s.mutateLedger(ctx, id, c, func(l *compensation.Ledger) error {
		_, err := l.CommitPending()
		return err
	})
}

func (s *OnboardingServiceImpl) DiscardPending(ctx context.Context, id string, category string) (compensation.LedgerResponse, error) {
	c, err := compensation.ParseCategory(category)
	if err != nil {
		return compensation.LedgerResponse{}, err
	}
	return s.mutateLedger(ctx, id, c, func(l *compensation.Ledger) error {
		l.DiscardPending()
		return nil
	})
}

func (s *OnboardingServiceImpl) RemoveEntry(ctx context.Context, id string, category string, entryID compensation.EntryID) (compensation.LedgerResponse, error) {
	c, err := compensation.ParseCategory(category)
	if err != nil {
		return compensation.LedgerResponse{}, err
	}
	return s.mutateLedger(ctx, id, c, func(l *compensation.Ledger) error {
		return l.Remove(entryID)
	})
}
