package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWatchlistAddListRemove(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewWatchlistRepo(db)

	userID := seedUser(t, db, "viewer@example.com")
	seedContent(t, db, "m-heist", "The Big Heist", "movie")
	seedContent(t, db, "s-saga", "Galaxy Saga", "series")

	itemUID, title, err := repo.Add(ctx, userID, "m-heist")
	require.NoError(t, err)
	require.NotEmpty(t, itemUID)
	require.Equal(t, "The Big Heist", title)

	_, _, err = repo.Add(ctx, userID, "s-saga")
	require.NoError(t, err)

	items, err := repo.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NoError(t, repo.Remove(ctx, userID, itemUID))
	items, err = repo.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "s-saga", items[0].ContentUID)
}

func TestWatchlistAddUnknownContent(t *testing.T) {
	db := openTestDB(t)
	repo := NewWatchlistRepo(db)
	userID := seedUser(t, db, "viewer@example.com")

	_, _, err := repo.Add(context.Background(), userID, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWatchlistAddTwiceIsDuplicate(t *testing.T) {
	db := openTestDB(t)
	repo := NewWatchlistRepo(db)
	userID := seedUser(t, db, "viewer@example.com")
	seedContent(t, db, "m-heist", "The Big Heist", "movie")

	_, _, err := repo.Add(context.Background(), userID, "m-heist")
	require.NoError(t, err)
	_, _, err = repo.Add(context.Background(), userID, "m-heist")
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestWatchlistRemoveIsScopedToOwner(t *testing.T) {
	db := openTestDB(t)
	repo := NewWatchlistRepo(db)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	seedContent(t, db, "m-heist", "The Big Heist", "movie")

	itemUID, _, err := repo.Add(context.Background(), owner, "m-heist")
	require.NoError(t, err)

	require.ErrorIs(t, repo.Remove(context.Background(), other, itemUID), ErrNotFound)
	require.NoError(t, repo.Remove(context.Background(), owner, itemUID))
	require.ErrorIs(t, repo.Remove(context.Background(), owner, itemUID), ErrNotFound)
}
