package compensation

import "context"

// CompensationService exposes the catalog and the amount calculator (companyID from JWT)
type CompensationService interface {
	// ListComponentTypes returns the cached catalog of the caller's company
	ListComponentTypes(ctx context.Context, category Category) ([]ComponentType, error)

	// FindComponentType looks a type up in the caller's catalog
	FindComponentType(ctx context.Context, category Category, id string) (ComponentType, error)

	// Preview computes the display amount without storing anything
	Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error)

	// AssignToEmployee computes and persists a component for an existing employee
	AssignToEmployee(ctx context.Context, req DirectAssignRequest) (AssignedComponentResponse, error)
}
