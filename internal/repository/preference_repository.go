package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/cinecrib/cinecrib/internal/model"
)

// PreferenceRepo stores per-user recommendation preferences across
// user_preferences and its two side tables. Replace rewrites all three
// inside one transaction so a failed update never leaves the genre or
// service sets out of sync with the main row.
type PreferenceRepo struct{ DB *sql.DB }

func NewPreferenceRepo(db *sql.DB) *PreferenceRepo { return &PreferenceRepo{DB: db} }

// Get loads a user's saved preferences. ErrNotFound when the user has
// never saved any.
func (r *PreferenceRepo) Get(ctx context.Context, userID uint64) (model.Preference, error) {
	var (
		p       model.Preference
		moodUID sql.NullString
		ratings string
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT p.user_id, m.uid, p.min_release_year, p.max_release_year, p.preferred_duration,
			p.min_rating, p.preferred_content_type, p.parental_ratings, p.updated_at
		FROM user_preferences p
		LEFT JOIN moods m ON m.id = p.mood_id
		WHERE p.user_id=? LIMIT 1`, userID).
		Scan(&p.UserID, &moodUID, &p.MinReleaseYear, &p.MaxReleaseYear, &p.PreferredDuration,
			&p.MinRating, &p.PreferredType, &ratings, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Preference{}, ErrNotFound
	}
	if err != nil {
		return model.Preference{}, err
	}
	if moodUID.Valid {
		p.MoodUID = moodUID.String
	}
	p.ParentalRatings = []string{}
	if ratings != "" {
		if err := json.Unmarshal([]byte(ratings), &p.ParentalRatings); err != nil {
			return model.Preference{}, err
		}
	}

	load := func(table, refTable, refCol string, excluded bool) ([]string, error) {
		rows, err := r.DB.QueryContext(ctx,
			`SELECT t.uid FROM `+table+` x JOIN `+refTable+` t ON t.id = x.`+refCol+`
			WHERE x.user_id=? AND x.excluded=? ORDER BY t.uid`, userID, excluded)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		uids := []string{}
		for rows.Next() {
			var uid string
			if err := rows.Scan(&uid); err != nil {
				return nil, err
			}
			uids = append(uids, uid)
		}
		return uids, rows.Err()
	}

	if p.GenreUIDs, err = load("preference_genres", "genres", "genre_id", false); err != nil {
		return model.Preference{}, err
	}
	if p.ExcludedGenreUIDs, err = load("preference_genres", "genres", "genre_id", true); err != nil {
		return model.Preference{}, err
	}
	if p.ServiceUIDs, err = load("preference_services", "streaming_services", "service_id", false); err != nil {
		return model.Preference{}, err
	}
	if p.ExcludedSvcUIDs, err = load("preference_services", "streaming_services", "service_id", true); err != nil {
		return model.Preference{}, err
	}
	return p, nil
}

// Replace rewrites a user's preferences atomically. Unknown mood, genre
// or service uids abort the transaction with ErrNotFound.
func (r *PreferenceRepo) Replace(ctx context.Context, userID uint64, p model.Preference) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var moodID any // nil when no mood selected
	if p.MoodUID != "" {
		var id uint64
		err := tx.QueryRowContext(ctx, "SELECT id FROM moods WHERE uid=? LIMIT 1", p.MoodUID).Scan(&id)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		moodID = id
	}

	ratings, err := json.Marshal(p.ParentalRatings)
	if err != nil {
		return err
	}

	// Delete-then-insert keeps the upsert portable across drivers.
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_preferences WHERE user_id=?", userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_preferences
			(user_id, mood_id, min_release_year, max_release_year, preferred_duration,
			 min_rating, preferred_content_type, parental_ratings)
		VALUES (?,?,?,?,?,?,?,?)`,
		userID, moodID, p.MinReleaseYear, p.MaxReleaseYear, p.PreferredDuration,
		p.MinRating, p.PreferredType, string(ratings)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM preference_genres WHERE user_id=?", userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM preference_services WHERE user_id=?", userID); err != nil {
		return err
	}

	insertSet := func(table, refTable, col string, uids []string, excluded bool) error {
		for _, uid := range uids {
			var id uint64
			err := tx.QueryRowContext(ctx, "SELECT id FROM "+refTable+" WHERE uid=? LIMIT 1", uid).Scan(&id)
			if err == sql.ErrNoRows {
				return ErrNotFound
			}
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO "+table+" (user_id, "+col+", excluded) VALUES (?,?,?)",
				userID, id, excluded); err != nil {
				return err
			}
		}
		return nil
	}

	if err := insertSet("preference_genres", "genres", "genre_id", p.GenreUIDs, false); err != nil {
		return err
	}
	if err := insertSet("preference_genres", "genres", "genre_id", p.ExcludedGenreUIDs, true); err != nil {
		return err
	}
	if err := insertSet("preference_services", "streaming_services", "service_id", p.ServiceUIDs, false); err != nil {
		return err
	}
	if err := insertSet("preference_services", "streaming_services", "service_id", p.ExcludedSvcUIDs, true); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
