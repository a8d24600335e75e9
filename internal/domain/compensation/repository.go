package compensation

import "context"

// CatalogRepository reads component types configured for a company.
// Implementations are read-only and idempotent.
type CatalogRepository interface {
	FetchComponentTypes(ctx context.Context, companyID string, category Category) ([]ComponentType, error)
}

// AssignmentGateway persists one ledger entry against an existing employee.
type AssignmentGateway interface {
	AssignComponent(ctx context.Context, employeeID string, category Category, req AssignComponentRequest) (AssignedComponent, error)
}
