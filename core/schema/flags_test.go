package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagStore_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := NewFlagStore(db)

	assert.NoError(t, store.EnsureTable(ctx))
	// EnsureTable tolerates re-execution.
	assert.NoError(t, store.EnsureTable(ctx))

	done, err := store.IsCompleted(ctx, "leadership_accounts_seeded")
	assert.NoError(t, err)
	assert.False(t, done)

	assert.NoError(t, store.MarkCompleted(ctx, "leadership_accounts_seeded"))

	done, err = store.IsCompleted(ctx, "leadership_accounts_seeded")
	assert.NoError(t, err)
	assert.True(t, done)
}

func TestFlagStore_MarkCompletedIsUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := NewFlagStore(db)
	assert.NoError(t, store.EnsureTable(ctx))

	// Two processes racing past IsCompleted both mark the flag; the second
	// write must land on the same row instead of erroring or duplicating.
	assert.NoError(t, store.MarkCompleted(ctx, "leadership_accounts_seeded"))
	assert.NoError(t, store.MarkCompleted(ctx, "leadership_accounts_seeded"))

	var count int64
	assert.NoError(t, db.Raw("SELECT COUNT(*) FROM migration_flags WHERE name = ?", "leadership_accounts_seeded").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFlagStore_ClaimLandsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := NewFlagStore(db)
	assert.NoError(t, store.EnsureTable(ctx))

	claimed, err := store.Claim(ctx, "leadership_accounts_seeded")
	assert.NoError(t, err)
	assert.True(t, claimed)

	// The second claimant loses without erroring.
	claimed, err = store.Claim(ctx, "leadership_accounts_seeded")
	assert.NoError(t, err)
	assert.False(t, claimed)

	// A claim alone does not mark the action completed.
	done, err := store.IsCompleted(ctx, "leadership_accounts_seeded")
	assert.NoError(t, err)
	assert.False(t, done)
}

func TestFlagStore_ClaimAfterCompletionLoses(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := NewFlagStore(db)
	assert.NoError(t, store.EnsureTable(ctx))

	assert.NoError(t, store.MarkCompleted(ctx, "leadership_accounts_seeded"))

	claimed, err := store.Claim(ctx, "leadership_accounts_seeded")
	assert.NoError(t, err)
	assert.False(t, claimed)

	// The completed state survives the losing claim.
	done, err := store.IsCompleted(ctx, "leadership_accounts_seeded")
	assert.NoError(t, err)
	assert.True(t, done)
}

func TestFlagStore_FlagsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := NewFlagStore(db)
	assert.NoError(t, store.EnsureTable(ctx))

	assert.NoError(t, store.MarkCompleted(ctx, "leadership_accounts_seeded"))

	done, err := store.IsCompleted(ctx, "resource_catalog_seeded")
	assert.NoError(t, err)
	assert.False(t, done)
}
