package onboarding

import "errors"

var (
	ErrSessionNotFound    = errors.New("onboarding session not found")
	ErrSessionClosed      = errors.New("onboarding session is already submitted")
	ErrNotSubmitted       = errors.New("onboarding session has not been submitted")
	ErrInvalidTab         = errors.New("invalid tab")
	ErrTabMismatch        = errors.New("tab is not the active tab")
	ErrTabNotVisited      = errors.New("tab has not been visited yet")
	ErrInvalidTransition  = errors.New("transition not allowed from this tab")
	ErrPaymentModalClosed = errors.New("payment form is not open")
	ErrSubmissionInFlight = errors.New("a submission for this session is already in progress")
	ErrNothingToReconcile = errors.New("no outstanding assignments to retry")
)
