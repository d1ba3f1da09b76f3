package model

import "time"

// Preference mirrors a row in `user_preferences` plus its two side
// tables (`preference_genres`, `preference_services`). One row per
// user; the genre/service slices carry uids resolved from the join
// tables.
type Preference struct {
	UserID            uint64    // user_preferences.user_id
	MoodUID           string    // resolved from user_preferences.mood_id (empty when unset)
	MinReleaseYear    int       // user_preferences.min_release_year
	MaxReleaseYear    int       // user_preferences.max_release_year
	PreferredDuration string    // user_preferences.preferred_duration ("any"|"short"|"medium"|"long")
	MinRating         float64   // user_preferences.min_rating
	PreferredType     string    // user_preferences.preferred_content_type ("any"|"movie"|"series")
	ParentalRatings   []string  // user_preferences.parental_ratings (JSON-encoded in the column)
	GenreUIDs         []string  // preference_genres where excluded=0
	ExcludedGenreUIDs []string  // preference_genres where excluded=1
	ServiceUIDs       []string  // preference_services where excluded=0
	ExcludedSvcUIDs   []string  // preference_services where excluded=1
	UpdatedAt         time.Time // user_preferences.updated_at
}

// WatchlistItem mirrors a row in `watchlist_items`. (user_id, content_id)
// is unique, so a title can be saved at most once per user.
type WatchlistItem struct {
	ID        uint64    // watchlist_items.id
	UID       string    // watchlist_items.uid (public identifier)
	UserID    uint64    // watchlist_items.user_id
	ContentID uint64    // watchlist_items.content_id
	AddedAt   time.Time // watchlist_items.added_at
}
