package recommend

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"
)

// Content kind and duration bucket values accepted by a Filter.
const (
	KindAny    = "any"
	KindMovie  = "movie"
	KindSeries = "series"

	DurationAny    = "any"
	DurationShort  = "short"
	DurationMedium = "medium"
	DurationLong   = "long"
)

const (
	defaultMinYear  = 1900
	defaultPageSize = 20
	maxPageSize     = 100
	maxUIDLen       = 64
)

// RawFilter is the request body of POST /v1/recommendations as sent by
// the client, before any validation.
type RawFilter struct {
	MoodUID             string   `json:"mood_uid"`
	ServiceUIDs         []string `json:"streaming_service_uids"`
	GenreUIDs           []string `json:"genre_uids"`
	MinReleaseYear      int      `json:"min_release_year"`
	MaxReleaseYear      int      `json:"max_release_year"`
	DurationCategory    string   `json:"preferred_duration_category"`
	MinRating           float64  `json:"min_rating"`
	ContentType         string   `json:"preferred_content_type"`
	ParentalRatingsJSON string   `json:"parental_rating_filter_json"`
	ExcludedGenreUIDs   []string `json:"excluded_genre_uids"`
	ExcludedServiceUIDs []string `json:"excluded_service_uids"`
	Page                int      `json:"page"`
	PageSize            int      `json:"page_size"`
}

// Filter is the normalized, validated form of a recommendation request.
// Build one with Normalize; a zero Filter is not usable.
type Filter struct {
	Kind            string   // KindAny|KindMovie|KindSeries
	MinYear         int      // inclusive
	MaxYear         int      // inclusive
	MinRating       float64  // floor applied as OR across both rating scales
	Duration        string   // DurationAny|Short|Medium|Long
	ParentalRatings []string // allowed labels; empty = no restriction
	GenreUIDs       []string // at least one required when non-empty
	ExcludedGenres  []string // none allowed
	ServiceUIDs     []string // availability inclusion
	ExcludedSvcs    []string // availability exclusion
	Page            int      // 1-based
	PageSize        int      // 1..100
	MoodUID         string   // carried for the caller; never filters at the storage layer
}

// Normalize validates a RawFilter and fills in defaults: kind=any, the
// year range [1900, current year], duration=any, rating floor 0,
// page=1, page_size=20. Zero-valued fields mean "not supplied" and take
// the default; anything explicitly out of range is a *ValidationError.
func Normalize(raw RawFilter) (Filter, error) {
	f := Filter{MoodUID: strings.TrimSpace(raw.MoodUID)}

	kind := strings.ToLower(strings.TrimSpace(raw.ContentType))
	switch kind {
	case "", KindAny:
		f.Kind = KindAny
	case KindMovie, KindSeries:
		f.Kind = kind
	default:
		return Filter{}, &ValidationError{Field: "preferred_content_type", Reason: "must be any, movie or series"}
	}

	f.MinYear = raw.MinReleaseYear
	if f.MinYear == 0 {
		f.MinYear = defaultMinYear
	}
	f.MaxYear = raw.MaxReleaseYear
	if f.MaxYear == 0 {
		f.MaxYear = time.Now().UTC().Year()
	}
	if f.MinYear > f.MaxYear {
		return Filter{}, &ValidationError{Field: "min_release_year", Reason: "greater than max_release_year"}
	}

	if raw.MinRating > 0 {
		f.MinRating = raw.MinRating
	}

	dur := strings.ToLower(strings.TrimSpace(raw.DurationCategory))
	switch dur {
	case "", DurationAny:
		f.Duration = DurationAny
	case DurationShort, DurationMedium, DurationLong:
		f.Duration = dur
	default:
		return Filter{}, &ValidationError{Field: "preferred_duration_category", Reason: "must be any, short, medium or long"}
	}

	ratings, err := parseParentalRatings(raw.ParentalRatingsJSON)
	if err != nil {
		return Filter{}, err
	}
	f.ParentalRatings = ratings

	if f.GenreUIDs, err = normalizeUIDSet("genre_uids", raw.GenreUIDs); err != nil {
		return Filter{}, err
	}
	if f.ExcludedGenres, err = normalizeUIDSet("excluded_genre_uids", raw.ExcludedGenreUIDs); err != nil {
		return Filter{}, err
	}
	if f.ServiceUIDs, err = normalizeUIDSet("streaming_service_uids", raw.ServiceUIDs); err != nil {
		return Filter{}, err
	}
	if f.ExcludedSvcs, err = normalizeUIDSet("excluded_service_uids", raw.ExcludedServiceUIDs); err != nil {
		return Filter{}, err
	}

	f.Page = raw.Page
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Page < 1 {
		return Filter{}, &ValidationError{Field: "page", Reason: "must be >= 1"}
	}
	f.PageSize = raw.PageSize
	if f.PageSize == 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize < 1 || f.PageSize > maxPageSize {
		return Filter{}, &ValidationError{Field: "page_size", Reason: "must be between 1 and 100"}
	}

	return f, nil
}

// parseParentalRatings decodes the JSON-encoded array of rating labels
// the frontend sends as a string field. Empty input means no
// restriction.
func parseParentalRatings(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var labels []string
	if err := json.Unmarshal([]byte(s), &labels); err != nil {
		return nil, &ValidationError{Field: "parental_rating_filter_json", Reason: "not a JSON array of strings"}
	}
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			return nil, &ValidationError{Field: "parental_rating_filter_json", Reason: "contains an empty label"}
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}

// normalizeUIDSet trims and deduplicates a uid list, rejecting empty or
// malformed identifiers.
func normalizeUIDSet(field string, uids []string) ([]string, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(uids))
	seen := make(map[string]struct{}, len(uids))
	for _, uid := range uids {
		uid = strings.TrimSpace(uid)
		if uid == "" {
			return nil, &ValidationError{Field: field, Reason: "contains an empty uid"}
		}
		if len(uid) > maxUIDLen {
			return nil, &ValidationError{Field: field, Reason: "uid exceeds 64 characters"}
		}
		for _, r := range uid {
			if unicode.IsSpace(r) || unicode.IsControl(r) {
				return nil, &ValidationError{Field: field, Reason: "uid contains whitespace or control characters"}
			}
		}
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		out = append(out, uid)
	}
	return out, nil
}
