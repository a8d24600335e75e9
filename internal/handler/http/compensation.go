package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-onboarding/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CompensationHandler interface {
	ListComponentTypes(w http.ResponseWriter, r *http.Request)
	Compute(w http.ResponseWriter, r *http.Request)
	AssignToEmployee(w http.ResponseWriter, r *http.Request)
}

type compensationHandlerImpl struct {
	compensationService compensation.CompensationService
}

func NewCompensationHandler(compensationService compensation.CompensationService) CompensationHandler {
	return &compensationHandlerImpl{compensationService: compensationService}
}

// ListComponentTypes implements CompensationHandler.
func (h *compensationHandlerImpl) ListComponentTypes(w http.ResponseWriter, r *http.Request) {
	category, err := compensation.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	types, err := h.compensationService.ListComponentTypes(r.Context(), category)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]compensation.ComponentTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, compensation.NewComponentTypeResponse(t))
	}
	response.Success(w, resp)
}

// Compute implements CompensationHandler.
func (h *compensationHandlerImpl) Compute(w http.ResponseWriter, r *http.Request) {
	var req compensation.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	preview, err := h.compensationService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, preview)
}

// AssignToEmployee implements CompensationHandler.
func (h *compensationHandlerImpl) AssignToEmployee(w http.ResponseWriter, r *http.Request) {
	var req compensation.DirectAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeId")
	req.Category = chi.URLParam(r, "category")

	assigned, err := h.compensationService.AssignToEmployee(r.Context(), req)
	if err != nil {
		slog.Error("Failed to assign component", "employee_id", req.EmployeeID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Component assigned successfully", assigned)
}
