package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/onboarding"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/crypto"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const draftSchema = `
	CREATE TABLE IF NOT EXISTS onboarding_drafts (
		id          TEXT PRIMARY KEY,
		company_id  TEXT NOT NULL,
		status      TEXT NOT NULL,
		payload     BYTEA NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_onboarding_drafts_company ON onboarding_drafts (company_id);
	CREATE INDEX IF NOT EXISTS idx_onboarding_drafts_updated_at ON onboarding_drafts (updated_at);
`

type draftRepositoryImpl struct {
	db     *database.DB
	sealer *crypto.Sealer
}

// NewDraftRepository creates a new instance of onboarding.DraftRepository.
// Payloads are sealed with the session id as additional data.
func NewDraftRepository(db *database.DB, sealer *crypto.Sealer) onboarding.DraftRepository {
	return &draftRepositoryImpl{db: db, sealer: sealer}
}

// Migrate creates the drafts table when missing.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, draftSchema); err != nil {
		return fmt.Errorf("migrate onboarding_drafts: %w", err)
	}
	return nil
}

func (r *draftRepositoryImpl) Get(ctx context.Context, id string) (*onboarding.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT payload FROM onboarding_drafts WHERE id = $1`

	var payload []byte
	if err := q.QueryRow(ctx, query, id).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, onboarding.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get draft %s: %w", id, err)
	}

	plain, err := r.sealer.Open(payload, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("open draft %s: %w", id, err)
	}
	return onboarding.DecodeSession(plain)
}

func (r *draftRepositoryImpl) Save(ctx context.Context, s *onboarding.Session) error {
	q := GetQuerier(ctx, r.db)

	plain, err := onboarding.EncodeSession(s)
	if err != nil {
		return err
	}
	payload, err := r.sealer.Seal(plain, []byte(s.ID))
	if err != nil {
		return fmt.Errorf("seal draft %s: %w", s.ID, err)
	}

	query := `
		INSERT INTO onboarding_drafts (id, company_id, status, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
	_, err = q.Exec(ctx, query, s.ID, s.CompanyID, string(s.Status), payload, s.CreatedAt.UTC(), s.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save draft %s: %w", s.ID, err)
	}
	return nil
}

func (r *draftRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM onboarding_drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return onboarding.ErrSessionNotFound
	}
	return nil
}

func (r *draftRepositoryImpl) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM onboarding_drafts WHERE updated_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	return tag.RowsAffected(), nil
}
