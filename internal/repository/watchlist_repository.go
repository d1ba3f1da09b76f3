package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// WatchlistRepo manages the rows a user has saved for later.
type WatchlistRepo struct{ DB *sql.DB }

func NewWatchlistRepo(db *sql.DB) *WatchlistRepo { return &WatchlistRepo{DB: db} }

// WatchlistEntry is a saved item joined with its content summary, ready
// for the list endpoint.
type WatchlistEntry struct {
	UID            string    `json:"uid"`
	ContentUID     string    `json:"content_uid"`
	Title          string    `json:"title"`
	ContentType    string    `json:"content_type"`
	ReleaseYear    *int      `json:"release_year"`
	CriticRating   float64   `json:"critic_rating"`
	AudienceRating int       `json:"audience_rating"`
	AddedAt        time.Time `json:"added_at"`
}

// List returns a user's watchlist, newest first.
func (r *WatchlistRepo) List(ctx context.Context, userID uint64) ([]WatchlistEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT w.uid, c.uid, c.title, c.content_type, c.release_year,
			c.critic_rating, c.audience_rating, w.added_at
		FROM watchlist_items w
		JOIN content c ON c.id = w.content_id
		WHERE w.user_id=?
		ORDER BY w.added_at DESC, w.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []WatchlistEntry{}
	for rows.Next() {
		var (
			e    WatchlistEntry
			year sql.NullInt64
		)
		if err := rows.Scan(&e.UID, &e.ContentUID, &e.Title, &e.ContentType, &year,
			&e.CriticRating, &e.AudienceRating, &e.AddedAt); err != nil {
			return nil, err
		}
		if year.Valid {
			y := int(year.Int64)
			e.ReleaseYear = &y
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Add saves a content item to the user's watchlist. Unknown content
// uids yield ErrNotFound; saving the same item twice yields
// ErrDuplicate. The new entry's uid and the content title are returned
// for the response and the published event.
func (r *WatchlistRepo) Add(ctx context.Context, userID uint64, contentUID string) (itemUID, title string, err error) {
	var (
		contentID uint64
	)
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, title FROM content WHERE uid=? LIMIT 1", contentUID).Scan(&contentID, &title)
	if err == sql.ErrNoRows {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", err
	}

	itemUID = uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO watchlist_items (uid, user_id, content_id) VALUES (?,?,?)",
		itemUID, userID, contentID)
	if err != nil {
		if isDuplicateKey(err) {
			return "", "", ErrDuplicate
		}
		return "", "", err
	}
	return itemUID, title, nil
}

// Remove deletes one watchlist entry owned by the user. ErrNotFound
// when the uid does not exist or belongs to someone else.
func (r *WatchlistRepo) Remove(ctx context.Context, userID uint64, itemUID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM watchlist_items WHERE uid=? AND user_id=?", itemUID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
