package compensation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/jwt"
	"golang.org/x/sync/singleflight"
)

const DefaultCatalogTTL = 10 * time.Minute

type catalogEntry struct {
	types     []compensation.ComponentType
	fetchedAt time.Time
}

type CompensationServiceImpl struct {
	catalog     compensation.CatalogRepository
	assignments compensation.AssignmentGateway
	logger      *slog.Logger

	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]catalogEntry
}

// NewCompensationService caches each company's catalog per category for ttl.
// Concurrent misses for the same company and category share one fetch.
func NewCompensationService(
	catalog compensation.CatalogRepository,
	assignments compensation.AssignmentGateway,
	ttl time.Duration,
	logger *slog.Logger,
) compensation.CompensationService {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CompensationServiceImpl{
		catalog:     catalog,
		assignments: assignments,
		logger:      logger,
		ttl:         ttl,
		now:         time.Now,
		cache:       make(map[string]catalogEntry),
	}
}

func cacheKey(companyID string, category compensation.Category) string {
	return companyID + "/" + string(category)
}

// ========== CATALOG ==========

func (s *CompensationServiceImpl) ListComponentTypes(ctx context.Context, category compensation.Category) ([]compensation.ComponentType, error) {
	if !category.IsValid() {
		return nil, compensation.ErrInvalidCategory
	}
	companyID, err := jwt.CompanyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	types, err := s.componentTypes(ctx, companyID, category)
	if err != nil {
		return nil, err
	}
	out := make([]compensation.ComponentType, len(types))
	copy(out, types)
	return out, nil
}

func (s *CompensationServiceImpl) FindComponentType(ctx context.Context, category compensation.Category, id string) (compensation.ComponentType, error) {
	types, err := s.ListComponentTypes(ctx, category)
	if err != nil {
		return compensation.ComponentType{}, err
	}
	for _, t := range types {
		if t.ID == id {
			return t, nil
		}
	}
	return compensation.ComponentType{}, fmt.Errorf("%w: %s", compensation.ErrComponentTypeNotFound, id)
}

func (s *CompensationServiceImpl) componentTypes(ctx context.Context, companyID string, category compensation.Category) ([]compensation.ComponentType, error) {
	key := cacheKey(companyID, category)

	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && s.now().Sub(entry.fetchedAt) < s.ttl {
		return entry.types, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// A fetch may have landed between the read above and this call.
		s.mu.RLock()
		entry, ok := s.cache[key]
		s.mu.RUnlock()
		if ok && s.now().Sub(entry.fetchedAt) < s.ttl {
			return entry.types, nil
		}

		types, err := s.catalog.FetchComponentTypes(ctx, companyID, category)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = catalogEntry{types: types, fetchedAt: s.now()}
		s.mu.Unlock()
		return types, nil
	})
	if err != nil {
		s.logger.Warn("fetch component types failed",
			slog.String("company_id", companyID),
			slog.String("category", string(category)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("fetch %s types: %w", category, err)
	}
	return v.([]compensation.ComponentType), nil
}

// ========== CALCULATOR ==========

func (s *CompensationServiceImpl) Preview(ctx context.Context, req compensation.PreviewRequest) (compensation.PreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return compensation.PreviewResponse{}, err
	}

	t, err := s.FindComponentType(ctx, compensation.Category(req.Category), req.ComponentTypeID)
	if err != nil {
		return compensation.PreviewResponse{}, err
	}

	params, _ := compensation.ParseParameters(compensation.LenientParser{}, req.Params)

	resp := compensation.PreviewResponse{
		ComponentTypeID:   t.ID,
		CalculationMethod: string(t.CalculationMethod),
		ComputedAmount:    compensation.Compute(t, params),
	}
	if t.CalculationMethod == compensation.MethodFixedAmount && t.Mode != "" {
		mode := string(t.Mode)
		resp.Mode = &mode
	}
	return resp, nil
}

// ========== DIRECT ASSIGNMENT ==========

// AssignToEmployee adds one component to an existing employee. Parameters
// start from the type's default rate and the effective date is today unless
// the request overrides them.
func (s *CompensationServiceImpl) AssignToEmployee(ctx context.Context, req compensation.DirectAssignRequest) (compensation.AssignedComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return compensation.AssignedComponentResponse{}, err
	}
	category := compensation.Category(req.Category)

	t, err := s.FindComponentType(ctx, category, req.ComponentTypeID)
	if err != nil {
		return compensation.AssignedComponentResponse{}, err
	}

	params, effective, end, err := req.Resolve(compensation.LenientParser{}, compensation.DefaultParameters(t), today(s.now()), nil)
	if err != nil {
		return compensation.AssignedComponentResponse{}, err
	}

	entry := compensation.NewLedger(category).Add(t, params, effective, end)

	assigned, err := s.assignments.AssignComponent(ctx, req.EmployeeID, category, compensation.NewAssignComponentRequest(entry))
	if err != nil {
		s.logger.Error("assign component failed",
			slog.String("employee_id", req.EmployeeID),
			slog.String("component_type_id", t.ID),
			slog.String("error", err.Error()),
		)
		return compensation.AssignedComponentResponse{}, err
	}
	if assigned.Amount == "" {
		assigned.Amount = entry.ComputedAmount
	}
	return compensation.NewAssignedComponentResponse(assigned), nil
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
