package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/onboarding"
)

type storedDraft struct {
	data      []byte
	updatedAt time.Time
}

// DraftRepository keeps sessions in process memory. Sessions are stored
// encoded so callers never share state with the store.
type DraftRepository struct {
	mu     sync.RWMutex
	drafts map[string]storedDraft
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{drafts: make(map[string]storedDraft)}
}

func (r *DraftRepository) Get(ctx context.Context, id string) (*onboarding.Session, error) {
	r.mu.RLock()
	draft, ok := r.drafts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, onboarding.ErrSessionNotFound
	}
	return onboarding.DecodeSession(draft.data)
}

func (r *DraftRepository) Save(ctx context.Context, s *onboarding.Session) error {
	data, err := onboarding.EncodeSession(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.drafts[s.ID] = storedDraft{data: data, updatedAt: s.UpdatedAt}
	r.mu.Unlock()
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drafts[id]; !ok {
		return onboarding.ErrSessionNotFound
	}
	delete(r.drafts, id)
	return nil
}

func (r *DraftRepository) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var purged int64
	for id, draft := range r.drafts {
		if draft.updatedAt.Before(cutoff) {
			delete(r.drafts, id)
			purged++
		}
	}
	return purged, nil
}

// Len is the number of stored drafts.
func (r *DraftRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drafts)
}
