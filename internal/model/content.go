package model

// ContentType enumerates the two kinds of catalog items.
const (
	ContentTypeMovie  = "movie"
	ContentTypeSeries = "series"
)

// Content mirrors a row in the `content` table. RuntimeMinutes applies
// to movies, SeasonCount to series; the two are mutually exclusive and
// both may be absent, hence the pointers.
type Content struct {
	ID             uint64   // content.id
	UID            string   // content.uid (public identifier)
	ExternalID     string   // content.external_id (upstream catalog id)
	Title          string   // content.title
	ReleaseYear    *int     // content.release_year (nullable)
	ContentType    string   // content.content_type ("movie"|"series")
	RuntimeMinutes *int     // content.runtime_minutes (movies only)
	SeasonCount    *int     // content.season_count (series only)
	CriticRating   float64  // content.critic_rating (0-10, one decimal)
	AudienceRating int      // content.audience_rating (0-100)
	ParentalRating string   // content.parental_rating (e.g. "PG-13")
	Synopsis       string   // content.synopsis
	Tagline        string   // content.tagline
	Director       string   // content.director
	CastList       string   // content.cast_list (comma separated)
}

// Genre mirrors a row in the `genres` reference table.
type Genre struct {
	ID   uint64 // genres.id
	UID  string // genres.uid
	Name string // genres.name
}

// StreamingService mirrors a row in the `streaming_services` table.
type StreamingService struct {
	ID       uint64 // streaming_services.id
	UID      string // streaming_services.uid
	Name     string // streaming_services.name
	LogoURL  string // streaming_services.logo_url
	IsActive bool   // streaming_services.is_active
}

// Availability mirrors a row in `content_availability`: where a content
// item can be watched, per service and region. Uniqueness is enforced
// on (content_id, service_id, region_code).
type Availability struct {
	ContentID  uint64 // content_availability.content_id
	ServiceID  uint64 // content_availability.service_id
	RegionCode string // content_availability.region_code
	WatchLink  string // content_availability.watch_link
}

// Mood mirrors a row in the `moods` table. A mood maps to a curated set
// of genres via `mood_genres`; the API uses it to pre-select genres
// before querying for recommendations.
type Mood struct {
	ID   uint64 // moods.id
	UID  string // moods.uid
	Name string // moods.name
}
