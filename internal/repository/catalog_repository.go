package repository

import (
	"context"
	"database/sql"

	"github.com/cinecrib/cinecrib/internal/model"
)

// CatalogRepo reads the reference tables (genres, streaming services,
// moods) and single content items. All of it is read-only.
type CatalogRepo struct{ DB *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{DB: db} }

// ListGenres returns all genres ordered by name.
func (r *CatalogRepo) ListGenres(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, uid, name FROM genres ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.UID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListServices returns active streaming services ordered by name.
func (r *CatalogRepo) ListServices(ctx context.Context) ([]model.StreamingService, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, uid, name, logo_url, is_active FROM streaming_services WHERE is_active=1 ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.StreamingService{}
	for rows.Next() {
		var s model.StreamingService
		if err := rows.Scan(&s.ID, &s.UID, &s.Name, &s.LogoURL, &s.IsActive); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListMoods returns all moods ordered by name.
func (r *CatalogRepo) ListMoods(ctx context.Context) ([]model.Mood, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, uid, name FROM moods ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Mood{}
	for rows.Next() {
		var m model.Mood
		if err := rows.Scan(&m.ID, &m.UID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GenreUIDsForMood resolves the curated genre set of a mood. An unknown
// mood uid yields ErrNotFound.
func (r *CatalogRepo) GenreUIDsForMood(ctx context.Context, moodUID string) ([]string, error) {
	var moodID uint64
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM moods WHERE uid=? LIMIT 1", moodUID).Scan(&moodID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT g.uid FROM mood_genres mg JOIN genres g ON g.id = mg.genre_id WHERE mg.mood_id=? ORDER BY g.uid`,
		moodID)
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

// AvailabilityRow is one streaming option for a content item.
type AvailabilityRow struct {
	ServiceUID string
	Name       string
	LogoURL    string
	WatchLink  string
}

// GetContentByUID loads one content item with its genres and streaming
// availability. Returns ErrNotFound when no such uid exists.
func (r *CatalogRepo) GetContentByUID(ctx context.Context, uid string) (model.Content, []model.Genre, []AvailabilityRow, error) {
	var (
		c       model.Content
		year    sql.NullInt64
		runtime sql.NullInt64
		seasons sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, uid, external_id, title, release_year, content_type, runtime_minutes,
			season_count, critic_rating, audience_rating, parental_rating,
			synopsis, tagline, director, cast_list
		FROM content WHERE uid=? LIMIT 1`, uid).
		Scan(&c.ID, &c.UID, &c.ExternalID, &c.Title, &year, &c.ContentType, &runtime,
			&seasons, &c.CriticRating, &c.AudienceRating, &c.ParentalRating,
			&c.Synopsis, &c.Tagline, &c.Director, &c.CastList)
	if err == sql.ErrNoRows {
		return model.Content{}, nil, nil, ErrNotFound
	}
	if err != nil {
		return model.Content{}, nil, nil, err
	}
	if year.Valid {
		y := int(year.Int64)
		c.ReleaseYear = &y
	}
	if runtime.Valid {
		m := int(runtime.Int64)
		c.RuntimeMinutes = &m
	}
	if seasons.Valid {
		n := int(seasons.Int64)
		c.SeasonCount = &n
	}

	grows, err := r.DB.QueryContext(ctx,
		`SELECT g.id, g.uid, g.name FROM content_genres cg JOIN genres g ON g.id = cg.genre_id
		WHERE cg.content_id=? ORDER BY g.name`, c.ID)
	if err != nil {
		return model.Content{}, nil, nil, err
	}
	defer grows.Close()
	genres := []model.Genre{}
	for grows.Next() {
		var g model.Genre
		if err := grows.Scan(&g.ID, &g.UID, &g.Name); err != nil {
			return model.Content{}, nil, nil, err
		}
		genres = append(genres, g)
	}
	if err := grows.Err(); err != nil {
		return model.Content{}, nil, nil, err
	}

	srows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT s.uid, s.name, s.logo_url, ca.watch_link
		FROM content_availability ca JOIN streaming_services s ON s.id = ca.service_id
		WHERE ca.content_id=? ORDER BY s.name`, c.ID)
	if err != nil {
		return model.Content{}, nil, nil, err
	}
	defer srows.Close()
	services := []AvailabilityRow{}
	for srows.Next() {
		var a AvailabilityRow
		if err := srows.Scan(&a.ServiceUID, &a.Name, &a.LogoURL, &a.WatchLink); err != nil {
			return model.Content{}, nil, nil, err
		}
		services = append(services, a)
	}
	if err := srows.Err(); err != nil {
		return model.Content{}, nil, nil, err
	}

	return c, genres, services, nil
}
