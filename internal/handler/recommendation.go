package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinecrib/cinecrib/internal/recommend"
	"github.com/cinecrib/cinecrib/internal/repository"
)

// RecommendationHandler turns a raw filter request into a validated
// filter, runs it through the searcher and wraps the result in the
// response envelope.
type RecommendationHandler struct {
	Searcher *recommend.Searcher
	Catalog  *repository.CatalogRepo
}

func NewRecommendationHandler(s *recommend.Searcher, catalog *repository.CatalogRepo) *RecommendationHandler {
	if s == nil || catalog == nil {
		panic("nil dependency passed to NewRecommendationHandler")
	}
	return &RecommendationHandler{Searcher: s, Catalog: catalog}
}

type recommendationResp struct {
	Success         bool                    `json:"success"`
	Recommendations []recommend.ContentItem `json:"recommendations"`
	TotalResults    int64                   `json:"total_results"`
	Page            int                     `json:"page"`
	PageSize        int                     `json:"page_size"`
}

// Recommend handles POST /v1/recommendations. The mood never filters at
// the storage layer; when the caller picked a mood but no genres, the
// mood's curated genre set is substituted before the filter is built.
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	var raw recommend.RawFilter
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()

	if raw.MoodUID != "" && len(raw.GenreUIDs) == 0 {
		uids, err := h.Catalog.GenreUIDsForMood(ctx, raw.MoodUID)
		if err != nil {
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown mood"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		raw.GenreUIDs = uids
	}

	filter, err := recommend.Normalize(raw)
	if err != nil {
		var verr *recommend.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid filter"})
	}

	result, err := h.Searcher.Search(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "recommendation query failed"})
	}

	return c.JSON(http.StatusOK, recommendationResp{
		Success:         true,
		Recommendations: result.Items,
		TotalResults:    result.Total,
		Page:            result.Page,
		PageSize:        result.PageSize,
	})
}
