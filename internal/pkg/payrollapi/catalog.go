package payrollapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/shopspring/decimal"
)

// componentTypeDTO is a component type as served by the payroll API.
type componentTypeDTO struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	CalculationMethod string           `json:"calculationMethod"`
	Mode              string           `json:"mode,omitempty"`
	DefaultRate       *decimal.Decimal `json:"defaultRate,omitempty"`
}

var catalogPaths = map[compensation.Category]string{
	compensation.CategoryEarnings:   "earning-types",
	compensation.CategoryDeductions: "deduction-types",
}

// FetchComponentTypes lists the earnings or deduction types of a company.
func (c *Client) FetchComponentTypes(ctx context.Context, companyID string, category compensation.Category) ([]compensation.ComponentType, error) {
	path, ok := catalogPaths[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", compensation.ErrInvalidCategory, category)
	}

	var items []componentTypeDTO
	if err := c.do(ctx, http.MethodGet, c.endpoint("companies", companyID, path), nil, &items); err != nil {
		return nil, err
	}

	types := make([]compensation.ComponentType, 0, len(items))
	for _, item := range items {
		t := compensation.ComponentType{
			ID:                item.ID,
			Label:             item.Name,
			Category:          category,
			CalculationMethod: compensation.CalculationMethod(item.CalculationMethod),
			DefaultRate:       item.DefaultRate,
		}
		if t.CalculationMethod == compensation.MethodFixedAmount {
			t.Mode = compensation.Mode(item.Mode)
		}
		types = append(types, t)
	}
	return types, nil
}
