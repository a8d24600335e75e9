package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/onboarding"
	"github.com/cmlabs-hris/payroll-onboarding/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OnboardingHandler interface {
	// Sessions
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Abandon(w http.ResponseWriter, r *http.Request)

	// Wizard
	UpdateFields(w http.ResponseWriter, r *http.Request)
	Continue(w http.ResponseWriter, r *http.Request)
	Back(w http.ResponseWriter, r *http.Request)
	Jump(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)

	// Payment method
	SelectPaymentMethod(w http.ResponseWriter, r *http.Request)
	UpdatePaymentModal(w http.ResponseWriter, r *http.Request)
	SavePaymentModal(w http.ResponseWriter, r *http.Request)
	CancelPaymentModal(w http.ResponseWriter, r *http.Request)

	// Ledgers
	GetLedger(w http.ResponseWriter, r *http.Request)
	BeginAdd(w http.ResponseWriter, r *http.Request)
	BeginEdit(w http.ResponseWriter, r *http.Request)
	UpdatePending(w http.ResponseWriter, r *http.Request)
	CommitPending(w http.ResponseWriter, r *http.Request)
	DiscardPending(w http.ResponseWriter, r *http.Request)
	RemoveEntry(w http.ResponseWriter, r *http.Request)
}

type onboardingHandlerImpl struct {
	onboardingService onboarding.OnboardingService
}

func NewOnboardingHandler(onboardingService onboarding.OnboardingService) OnboardingHandler {
	return &onboardingHandlerImpl{onboardingService: onboardingService}
}

// decodeJSON reads the body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func entryIDParam(w http.ResponseWriter, r *http.Request) (compensation.EntryID, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "entryId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid entry id", map[string]string{"entry_id": "must be a positive integer"})
		return 0, false
	}
	return compensation.EntryID(id), true
}

func writeSession(w http.ResponseWriter, session onboarding.SessionResponse, err error) {
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, session)
}

func writeLedger(w http.ResponseWriter, ledger compensation.LedgerResponse, err error) {
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, ledger)
}

// ========== SESSIONS ==========

// Create implements OnboardingHandler.
func (h *onboardingHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.onboardingService.Create(r.Context())
	if err != nil {
		slog.Error("Failed to create onboarding session", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Onboarding session created", session)
}

// Get implements OnboardingHandler.
func (h *onboardingHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.onboardingService.Get(r.Context(), chi.URLParam(r, "id"))
	writeSession(w, session, err)
}

// Abandon implements OnboardingHandler.
func (h *onboardingHandlerImpl) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.onboardingService.Abandon(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Onboarding session abandoned", nil)
}

// ========== WIZARD ==========

// UpdateFields implements OnboardingHandler.
func (h *onboardingHandlerImpl) UpdateFields(w http.ResponseWriter, r *http.Request) {
	var req onboarding.UpdateFieldsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := h.onboardingService.UpdateFields(r.Context(), chi.URLParam(r, "id"), req)
	writeSession(w, session, err)
}

// Continue implements OnboardingHandler.
func (h *onboardingHandlerImpl) Continue(w http.ResponseWriter, r *http.Request) {
	var req onboarding.TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := h.onboardingService.Continue(r.Context(), chi.URLParam(r, "id"), req)
	writeSession(w, session, err)
}

// Back implements OnboardingHandler.
func (h *onboardingHandlerImpl) Back(w http.ResponseWriter, r *http.Request) {
	var req onboarding.TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := h.onboardingService.Back(r.Context(), chi.URLParam(r, "id"), req)
	writeSession(w, session, err)
}

// Jump implements OnboardingHandler.
func (h *onboardingHandlerImpl) Jump(w http.ResponseWriter, r *http.Request) {
	var req onboarding.TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := h.onboardingService.Jump(r.Context(), chi.URLParam(r, "id"), req)
	writeSession(w, session, err)
}

// Submit implements OnboardingHandler.
func (h *onboardingHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.onboardingService.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !result.Completed {
		response.SuccessWithMessage(w, "Employee created; some components could not be assigned", result)
		return
	}
	response.Created(w, "Employee onboarded successfully", result)
}

// Reconcile implements OnboardingHandler.
func (h *onboardingHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.onboardingService.Reconcile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ========== PAYMENT METHOD ==========

// SelectPaymentMethod implements OnboardingHandler.
func (h *onboardingHandlerImpl) SelectPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req onboarding.SelectPaymentMethodRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := h.onboardingService.SelectPaymentMethod(r.Context(), chi.URLParam(r, "id"), req)
	writeSession(w, session, err)
}

// UpdatePaymentModal implements OnboardingHandler.
func (h *onboardingHandlerImpl) UpdatePaymentModal(w http.ResponseWriter, r *http.Request) {
	var req onboarding.UpdateFieldsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := h.onboardingService.UpdatePaymentModal(r.Context(), chi.URLParam(r, "id"), req)
	writeSession(w, session, err)
}

// SavePaymentModal implements OnboardingHandler.
func (h *onboardingHandlerImpl) SavePaymentModal(w http.ResponseWriter, r *http.Request) {
	session, err := h.onboardingService.SavePaymentModal(r.Context(), chi.URLParam(r, "id"))
	writeSession(w, session, err)
}

// CancelPaymentModal implements OnboardingHandler.
func (h *onboardingHandlerImpl) CancelPaymentModal(w http.ResponseWriter, r *http.Request) {
	session, err := h.onboardingService.CancelPaymentModal(r.Context(), chi.URLParam(r, "id"))
	writeSession(w, session, err)
}

// ========== LEDGERS ==========

// GetLedger implements OnboardingHandler.
func (h *onboardingHandlerImpl) GetLedger(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.onboardingService.GetLedger(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "category"))
	writeLedger(w, ledger, err)
}

// BeginAdd implements OnboardingHandler.
func (h *onboardingHandlerImpl) BeginAdd(w http.ResponseWriter, r *http.Request) {
	var req onboarding.BeginAddRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ledger, err := h.onboardingService.BeginAdd(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "category"), req)
	writeLedger(w, ledger, err)
}

// BeginEdit implements OnboardingHandler.
func (h *onboardingHandlerImpl) BeginEdit(w http.ResponseWriter, r *http.Request) {
	entryID, ok := entryIDParam(w, r)
	if !ok {
		return
	}
	ledger, err := h.onboardingService.BeginEdit(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "category"), entryID)
	writeLedger(w, ledger, err)
}

// UpdatePending implements OnboardingHandler.
func (h *onboardingHandlerImpl) UpdatePending(w http.ResponseWriter, r *http.Request) {
	var req compensation.EntryInput
	if !decodeJSON(w, r, &req) {
		return
	}
	ledger, err := h.onboardingService.UpdatePending(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "category"), req)
	writeLedger(w, ledger, err)
}

// CommitPending implements OnboardingHandler.
func (h *onboardingHandlerImpl) CommitPending(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.onboardingService.CommitPending(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "category"))
	writeLedger(w, ledger, err)
}

// DiscardPending implements OnboardingHandler.
func (h *onboardingHandlerImpl) DiscardPending(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.onboardingService.DiscardPending(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "category"))
	writeLedger(w, ledger, err)
}

// RemoveEntry implements OnboardingHandler.
func (h *onboardingHandlerImpl) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := entryIDParam(w, r)
	if !ok {
		return
	}
	ledger, err := h.onboardingService.RemoveEntry(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "category"), entryID)
	writeLedger(w, ledger, err)
}
