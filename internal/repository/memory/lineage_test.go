package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/s123600g/tokenforge/internal/model"
)

func testRecord(id string) model.LineageRecord {
	now := time.Now().UTC()
	return model.LineageRecord{
		TokenID:   id,
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
	}
}

func TestLineageRepository_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewLineageRepository()

	require.NoError(t, repo.Insert(ctx, testRecord("jti-1")))

	rec, err := repo.Get(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, rec.RefreshLocked)

	err = repo.Insert(ctx, testRecord("jti-1"))
	require.ErrorIs(t, err, model.ErrDuplicateTokenID)
}

func TestLineageRepository_Get_NotFound(t *testing.T) {
	repo := NewLineageRepository()

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestLineageRepository_Lock(t *testing.T) {
	ctx := context.Background()
	repo := NewLineageRepository()

	require.NoError(t, repo.Insert(ctx, testRecord("jti-1")))
	require.NoError(t, repo.Lock(ctx, "jti-1"))

	rec, err := repo.Get(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, rec.RefreshLocked)

	require.ErrorIs(t, repo.Lock(ctx, "jti-1"), model.ErrLineageLocked)
	require.ErrorIs(t, repo.Lock(ctx, "missing"), model.ErrNotFound)
}

func TestLineageRepository_Rotate(t *testing.T) {
	ctx := context.Background()
	repo := NewLineageRepository()

	require.NoError(t, repo.Insert(ctx, testRecord("jti-old")))
	require.NoError(t, repo.Rotate(ctx, testRecord("jti-new"), "jti-old"))

	old, err := repo.Get(ctx, "jti-old")
	require.NoError(t, err)
	require.True(t, old.RefreshLocked)

	succ, err := repo.Get(ctx, "jti-new")
	require.NoError(t, err)
	require.False(t, succ.RefreshLocked)

	err = repo.Rotate(ctx, testRecord("jti-other"), "jti-old")
	require.ErrorIs(t, err, model.ErrLineageLocked)
}

func TestLineageRepository_Rotate_DuplicateSuccessorRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewLineageRepository()

	require.NoError(t, repo.Insert(ctx, testRecord("jti-old")))
	require.NoError(t, repo.Insert(ctx, testRecord("jti-taken")))

	err := repo.Rotate(ctx, testRecord("jti-taken"), "jti-old")
	require.ErrorIs(t, err, model.ErrDuplicateTokenID)

	old, err := repo.Get(ctx, "jti-old")
	require.NoError(t, err)
	require.False(t, old.RefreshLocked, "failed rotation must not leave the predecessor locked")
}

func TestLineageRepository_Lock_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewLineageRepository()

	require.NoError(t, repo.Insert(ctx, testRecord("jti-race")))

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			results <- repo.Lock(ctx, "jti-race")
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	for err := range results {
		if err == nil {
			success++
			continue
		}
		require.ErrorIs(t, err, model.ErrLineageLocked)
	}
	require.Equal(t, 1, success)
}
