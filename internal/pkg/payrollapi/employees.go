package payrollapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/onboarding"
)

// SubmitEmployee creates the employee from a flattened onboarding record.
func (c *Client) SubmitEmployee(ctx context.Context, emp onboarding.FlatEmployee) (onboarding.CreatedEmployee, error) {
	var created onboarding.CreatedEmployee
	if err := c.do(ctx, http.MethodPost, c.endpoint("employees"), emp, &created); err != nil {
		return onboarding.CreatedEmployee{}, err
	}
	if created.ID == "" {
		return onboarding.CreatedEmployee{}, fmt.Errorf("%w: employee created without id", ErrUpstream)
	}
	return created, nil
}

type assignedComponentDTO struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employeeId"`
	ComponentTypeID string  `json:"componentTypeId"`
	EffectiveDate   string  `json:"effectiveDate"`
	EndDate         *string `json:"endDate,omitempty"`
	Amount          string  `json:"amount"`
}

// AssignComponent attaches one earnings or deduction component to an employee.
func (c *Client) AssignComponent(ctx context.Context, employeeID string, category compensation.Category, req compensation.AssignComponentRequest) (compensation.AssignedComponent, error) {
	if !category.IsValid() {
		return compensation.AssignedComponent{}, fmt.Errorf("%w: %q", compensation.ErrInvalidCategory, category)
	}

	var dto assignedComponentDTO
	if err := c.do(ctx, http.MethodPost, c.endpoint("employees", employeeID, string(category)), req, &dto); err != nil {
		return compensation.AssignedComponent{}, err
	}

	assigned := compensation.AssignedComponent{
		ID:              dto.ID,
		EmployeeID:      dto.EmployeeID,
		ComponentTypeID: dto.ComponentTypeID,
		Category:        category,
		Amount:          dto.Amount,
	}
	if assigned.EmployeeID == "" {
		assigned.EmployeeID = employeeID
	}
	if assigned.ComponentTypeID == "" {
		assigned.ComponentTypeID = req.ComponentTypeID
	}

	effective := dto.EffectiveDate
	if effective == "" {
		effective = req.EffectiveDate
	}
	if t, err := parseDate(effective); err == nil {
		assigned.EffectiveDate = t
	}
	if dto.EndDate != nil {
		if t, err := parseDate(*dto.EndDate); err == nil {
			assigned.EndDate = &t
		}
	}
	return assigned, nil
}

// parseDate accepts a plain date or a full timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(compensation.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
