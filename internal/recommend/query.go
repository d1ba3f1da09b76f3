package recommend

import "strings"

// buildWhere translates a Filter into a WHERE condition over the
// content table (aliased c) and its bind arguments. Both the count
// query and the page query are built from this one condition, which is
// what keeps total_results and the returned page consistent. Every
// caller-supplied value is bound as a parameter; identifiers are never
// interpolated into the SQL text.
//
// Genre and service membership is expressed with EXISTS / NOT EXISTS
// subqueries against the join tables: items with no rows in a joined
// table still match when only exclusions (or nothing) are applied, and
// drop out as soon as an inclusion set is non-empty.
func buildWhere(f Filter) (string, []any) {
	where := []string{}
	args := []any{}

	if f.Kind != KindAny {
		where = append(where, "c.content_type = ?")
		args = append(args, f.Kind)
	}

	// Defaults cover the full range, so the year predicate always applies.
	where = append(where, "c.release_year BETWEEN ? AND ?")
	args = append(args, f.MinYear, f.MaxYear)

	if f.MinRating > 0 {
		// One floor, two scales: a match on either rating is enough.
		where = append(where, "(c.critic_rating >= ? OR c.audience_rating >= ?)")
		args = append(args, f.MinRating, f.MinRating)
	}

	switch f.Duration {
	case DurationShort:
		where = append(where, "((c.content_type = 'movie' AND c.runtime_minutes < 60) OR (c.content_type = 'series' AND c.season_count = 1))")
	case DurationMedium:
		where = append(where, "((c.content_type = 'movie' AND c.runtime_minutes BETWEEN 60 AND 120) OR (c.content_type = 'series' AND c.season_count BETWEEN 2 AND 4))")
	case DurationLong:
		where = append(where, "((c.content_type = 'movie' AND c.runtime_minutes > 120) OR (c.content_type = 'series' AND c.season_count > 4))")
	}

	if len(f.ParentalRatings) > 0 {
		where = append(where, "c.parental_rating IN ("+placeholders(len(f.ParentalRatings))+")")
		for _, l := range f.ParentalRatings {
			args = append(args, l)
		}
	}

	if len(f.GenreUIDs) > 0 {
		where = append(where, "EXISTS (SELECT 1 FROM content_genres cg JOIN genres g ON g.id = cg.genre_id WHERE cg.content_id = c.id AND g.uid IN ("+placeholders(len(f.GenreUIDs))+"))")
		for _, uid := range f.GenreUIDs {
			args = append(args, uid)
		}
	}
	if len(f.ExcludedGenres) > 0 {
		where = append(where, "NOT EXISTS (SELECT 1 FROM content_genres cg JOIN genres g ON g.id = cg.genre_id WHERE cg.content_id = c.id AND g.uid IN ("+placeholders(len(f.ExcludedGenres))+"))")
		for _, uid := range f.ExcludedGenres {
			args = append(args, uid)
		}
	}

	if len(f.ServiceUIDs) > 0 {
		where = append(where, "EXISTS (SELECT 1 FROM content_availability ca JOIN streaming_services s ON s.id = ca.service_id WHERE ca.content_id = c.id AND s.uid IN ("+placeholders(len(f.ServiceUIDs))+"))")
		for _, uid := range f.ServiceUIDs {
			args = append(args, uid)
		}
	}
	if len(f.ExcludedSvcs) > 0 {
		where = append(where, "NOT EXISTS (SELECT 1 FROM content_availability ca JOIN streaming_services s ON s.id = ca.service_id WHERE ca.content_id = c.id AND s.uid IN ("+placeholders(len(f.ExcludedSvcs))+"))")
		for _, uid := range f.ExcludedSvcs {
			args = append(args, uid)
		}
	}

	return strings.Join(where, " AND "), args
}

const countSQL = "SELECT COUNT(*) FROM content c WHERE "

const pageSQL = `SELECT
		c.id,
		c.uid,
		c.external_id,
		c.title,
		c.release_year,
		c.content_type,
		c.runtime_minutes,
		c.season_count,
		c.critic_rating,
		c.audience_rating,
		c.parental_rating,
		c.synopsis,
		c.tagline,
		c.director,
		c.cast_list
	FROM content c
	WHERE `

// Ratings descending; content id ascending breaks rating ties so paging
// is deterministic.
const pageOrderSQL = `
	ORDER BY c.audience_rating DESC, c.critic_rating DESC, c.id ASC
	LIMIT ? OFFSET ?`

// placeholders returns n comma separated "?" for an IN list, one bound
// placeholder per element.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
