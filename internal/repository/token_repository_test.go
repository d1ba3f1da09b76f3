package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cinecrib/cinecrib/internal/utils"
)

func TestTokenStoreValidateRevoke(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewTokenRepo(db)
	userID := seedUser(t, db, "tokens@example.com")

	rt, err := utils.NewRefreshToken(7)
	require.NoError(t, err)
	hash := utils.HashRefreshRaw(rt.Raw)
	require.NoError(t, repo.StoreRefresh(ctx, userID, hash, rt.Exp))

	got, err := repo.ValidateRefresh(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, userID, got)

	require.NoError(t, repo.RevokeByHash(ctx, hash))
	_, err = repo.ValidateRefresh(ctx, hash)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTokenValidateExpired(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewTokenRepo(db)
	userID := seedUser(t, db, "tokens@example.com")

	hash := utils.HashRefreshRaw("stale-token")
	require.NoError(t, repo.StoreRefresh(ctx, userID, hash, time.Now().UTC().Add(-time.Hour)))

	_, err := repo.ValidateRefresh(ctx, hash)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTokenRevokeAllForUser(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewTokenRepo(db)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	aliceHash := utils.HashRefreshRaw("alice-token")
	bobHash := utils.HashRefreshRaw("bob-token")
	exp := time.Now().UTC().Add(24 * time.Hour)
	require.NoError(t, repo.StoreRefresh(ctx, alice, aliceHash, exp))
	require.NoError(t, repo.StoreRefresh(ctx, bob, bobHash, exp))

	require.NoError(t, repo.RevokeAllForUser(ctx, alice))

	_, err := repo.ValidateRefresh(ctx, aliceHash)
	require.ErrorIs(t, err, sql.ErrNoRows)

	// Other users' tokens stay valid.
	got, err := repo.ValidateRefresh(ctx, bobHash)
	require.NoError(t, err)
	require.Equal(t, bob, got)
}
