package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinecrib/cinecrib/internal/model"
	"github.com/cinecrib/cinecrib/internal/recommend"
	"github.com/cinecrib/cinecrib/internal/repository"
)

// PreferenceHandler serves a user's saved recommendation defaults.
type PreferenceHandler struct {
	Prefs *repository.PreferenceRepo
}

func NewPreferenceHandler(p *repository.PreferenceRepo) *PreferenceHandler {
	if p == nil {
		panic("nil repository passed to NewPreferenceHandler")
	}
	return &PreferenceHandler{Prefs: p}
}

type preferenceBody struct {
	MoodUID             string   `json:"mood_uid"`
	GenreUIDs           []string `json:"genre_uids"`
	ExcludedGenreUIDs   []string `json:"excluded_genre_uids"`
	ServiceUIDs         []string `json:"streaming_service_uids"`
	ExcludedServiceUIDs []string `json:"excluded_service_uids"`
	MinReleaseYear      int      `json:"min_release_year"`
	MaxReleaseYear      int      `json:"max_release_year"`
	PreferredDuration   string   `json:"preferred_duration_category"`
	MinRating           float64  `json:"min_rating"`
	PreferredType       string   `json:"preferred_content_type"`
	ParentalRatings     []string `json:"parental_ratings"`
}

// Get handles GET /v1/preferences. Users who never saved preferences
// get the filter defaults.
func (h *PreferenceHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	p, err := h.Prefs.Get(ctx, userID)
	if err == repository.ErrNotFound {
		defaults, _ := recommend.Normalize(recommend.RawFilter{})
		p = model.Preference{
			UserID:            userID,
			MinReleaseYear:    defaults.MinYear,
			MaxReleaseYear:    defaults.MaxYear,
			PreferredDuration: defaults.Duration,
			PreferredType:     defaults.Kind,
			ParentalRatings:   []string{},
			GenreUIDs:         []string{},
			ExcludedGenreUIDs: []string{},
			ServiceUIDs:       []string{},
			ExcludedSvcUIDs:   []string{},
		}
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, preferenceBody{
		MoodUID:             p.MoodUID,
		GenreUIDs:           p.GenreUIDs,
		ExcludedGenreUIDs:   p.ExcludedGenreUIDs,
		ServiceUIDs:         p.ServiceUIDs,
		ExcludedServiceUIDs: p.ExcludedSvcUIDs,
		MinReleaseYear:      p.MinReleaseYear,
		MaxReleaseYear:      p.MaxReleaseYear,
		PreferredDuration:   p.PreferredDuration,
		MinRating:           p.MinRating,
		PreferredType:       p.PreferredType,
		ParentalRatings:     p.ParentalRatings,
	})
}

// Put handles PUT /v1/preferences: full replace of the user's saved
// preferences in one transaction. The body is validated through the
// same normalization as a recommendation request so saved values can
// always be fed back into the filter later.
func (h *PreferenceHandler) Put(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body preferenceBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ratings, err := json.Marshal(body.ParentalRatings)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid parental ratings"})
	}
	normalized, err := recommend.Normalize(recommend.RawFilter{
		MoodUID:             body.MoodUID,
		GenreUIDs:           body.GenreUIDs,
		ExcludedGenreUIDs:   body.ExcludedGenreUIDs,
		ServiceUIDs:         body.ServiceUIDs,
		ExcludedServiceUIDs: body.ExcludedServiceUIDs,
		MinReleaseYear:      body.MinReleaseYear,
		MaxReleaseYear:      body.MaxReleaseYear,
		DurationCategory:    body.PreferredDuration,
		MinRating:           body.MinRating,
		ContentType:         body.PreferredType,
		ParentalRatingsJSON: string(ratings),
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	pref := model.Preference{
		UserID:            userID,
		MoodUID:           normalized.MoodUID,
		MinReleaseYear:    normalized.MinYear,
		MaxReleaseYear:    normalized.MaxYear,
		PreferredDuration: normalized.Duration,
		MinRating:         normalized.MinRating,
		PreferredType:     normalized.Kind,
		ParentalRatings:   normalized.ParentalRatings,
		GenreUIDs:         normalized.GenreUIDs,
		ExcludedGenreUIDs: normalized.ExcludedGenres,
		ServiceUIDs:       normalized.ServiceUIDs,
		ExcludedSvcUIDs:   normalized.ExcludedSvcs,
	}
	if err := h.Prefs.Replace(ctx, userID, pref); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown mood, genre or service uid"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save preferences failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
