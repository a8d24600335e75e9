package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/onboarding"
)

// DraftJobs removes onboarding drafts nobody has touched within the
// retention window. Submitted sessions with outstanding failures age out
// the same way.
type DraftJobs struct {
	drafts    onboarding.DraftRepository
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewDraftJobs(drafts onboarding.DraftRepository, retention time.Duration, logger *slog.Logger) *DraftJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &DraftJobs{drafts: drafts, retention: retention, logger: logger, now: time.Now}
}

func (j *DraftJobs) PurgeStaleDrafts(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)

	purged, err := j.drafts.PurgeStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge drafts before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if purged > 0 {
		j.logger.Info("purged stale onboarding drafts",
			slog.Int64("count", purged),
			slog.Time("cutoff", cutoff),
		)
	}
	return nil
}
