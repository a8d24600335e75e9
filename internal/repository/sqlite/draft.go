package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/onboarding"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/crypto"
)

// DraftRepository stores onboarding drafts in a SQLite file. Payloads are
// sealed with the session id as additional data.
type DraftRepository struct {
	db     *sql.DB
	sealer *crypto.Sealer
}

// NewDraftRepository migrates db and returns a repository over it.
func NewDraftRepository(ctx context.Context, db *sql.DB, sealer *crypto.Sealer) (*DraftRepository, error) {
	r := &DraftRepository{db: db, sealer: sealer}
	if err := r.migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *DraftRepository) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS onboarding_drafts (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		status TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_onboarding_drafts_company ON onboarding_drafts(company_id);
	CREATE INDEX IF NOT EXISTS idx_onboarding_drafts_updated_at ON onboarding_drafts(updated_at);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate onboarding_drafts: %w", err)
	}
	return nil
}

func (r *DraftRepository) Get(ctx context.Context, id string) (*onboarding.Session, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM onboarding_drafts WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, onboarding.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft %s: %w", id, err)
	}

	plain, err := r.sealer.Open(payload, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("open draft %s: %w", id, err)
	}
	return onboarding.DecodeSession(plain)
}

func (r *DraftRepository) Save(ctx context.Context, s *onboarding.Session) error {
	plain, err := onboarding.EncodeSession(s)
	if err != nil {
		return err
	}
	payload, err := r.sealer.Seal(plain, []byte(s.ID))
	if err != nil {
		return fmt.Errorf("seal draft %s: %w", s.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO onboarding_drafts (id, company_id, status, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, s.ID, s.CompanyID, string(s.Status), payload, s.CreatedAt.UnixMilli(), s.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save draft %s: %w", s.ID, err)
	}
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM onboarding_drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return onboarding.ErrSessionNotFound
	}
	return nil
}

// PurgeStale deletes drafts last updated before cutoff. Timestamps are
// stored as unix milliseconds.
func (r *DraftRepository) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM onboarding_drafts WHERE updated_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (r *DraftRepository) Close() error {
	return r.db.Close()
}
