package onboarding

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
)

// DraftRepository stores onboarding sessions between requests.
type DraftRepository interface {
	Get(ctx context.Context, id string) (*Session, error)
	// Save inserts or replaces the session.
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// PurgeStale deletes drafts last updated before cutoff and reports how many.
	PurgeStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// CreatedEmployee is the payroll API's answer to SubmitEmployee.
type CreatedEmployee struct {
	ID      string `json:"id"`
	StaffNo string `json:"staffNo,omitempty"`
}

// EmployeeGateway creates employees in the payroll system.
type EmployeeGateway interface {
	SubmitEmployee(ctx context.Context, emp FlatEmployee) (CreatedEmployee, error)
}

// EncodeSession serializes a session for storage.
func EncodeSession(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSession restores a stored session.
func DecodeSession(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Record == nil {
		s.Record = Record{}
	}
	if s.Live == nil {
		s.Live = FormValues{}
	}
	if s.Errors == nil {
		s.Errors = map[string]string{}
	}
	if s.Earnings == nil {
		s.Earnings = compensation.NewLedger(compensation.CategoryEarnings)
	}
	if s.Deductions == nil {
		s.Deductions = compensation.NewLedger(compensation.CategoryDeductions)
	}
	return &s, nil
}
