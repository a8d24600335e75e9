package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/onboarding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftRepository_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewDraftRepository()
	s := onboarding.NewSession("s1", "c1", time.Now())
	require.NoError(t, s.UpdateFields(onboarding.FormValues{onboarding.FieldFirstName: "Amina"}))

	require.NoError(t, repo.Save(ctx, s))
	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Amina", got.Live[onboarding.FieldFirstName])

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, onboarding.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "s1"), onboarding.ErrSessionNotFound)
}

func TestDraftRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewDraftRepository()
	s := onboarding.NewSession("s1", "c1", time.Now())
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	got.Live[onboarding.FieldFirstName] = "changed"
	s.Live[onboarding.FieldLastName] = "changed"

	again, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, again.Live)
	assert.Equal(t, 1, repo.Len())
}

func TestDraftRepository_PurgeStale(t *testing.T) {
	ctx := context.Background()
	repo := NewDraftRepository()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, onboarding.NewSession("old", "c1", now.Add(-8*24*time.Hour))))
	require.NoError(t, repo.Save(ctx, onboarding.NewSession("fresh", "c1", now.Add(-time.Hour))))

	purged, err := repo.PurgeStale(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.Get(ctx, "old")
	assert.ErrorIs(t, err, onboarding.ErrSessionNotFound)
	_, err = repo.Get(ctx, "fresh")
	assert.NoError(t, err)
}
