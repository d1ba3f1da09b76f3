package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinecrib/cinecrib/internal/repository"
)

// CatalogHandler serves the public reference data: genres, streaming
// services, moods and single content items.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo
}

func NewCatalogHandler(catalog *repository.CatalogRepo) *CatalogHandler {
	if catalog == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: catalog}
}

type genreResp struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

type serviceResp struct {
	UID     string `json:"uid"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

type moodResp struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// GetGenres handles GET /v1/genres.
func (h *CatalogHandler) GetGenres(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	genres, err := h.Catalog.ListGenres(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]genreResp, 0, len(genres))
	for _, g := range genres {
		out = append(out, genreResp{UID: g.UID, Name: g.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"genres": out})
}

// GetStreamingServices handles GET /v1/streaming-services.
func (h *CatalogHandler) GetStreamingServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	services, err := h.Catalog.ListServices(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]serviceResp, 0, len(services))
	for _, s := range services {
		out = append(out, serviceResp{UID: s.UID, Name: s.Name, LogoURL: s.LogoURL})
	}
	return c.JSON(http.StatusOK, echo.Map{"streaming_services": out})
}

// GetMoods handles GET /v1/moods.
func (h *CatalogHandler) GetMoods(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	moods, err := h.Catalog.ListMoods(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]moodResp, 0, len(moods))
	for _, m := range moods {
		out = append(out, moodResp{UID: m.UID, Name: m.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"moods": out})
}

type contentDetailResp struct {
	UID            string        `json:"uid"`
	ExternalID     string        `json:"external_id"`
	Title          string        `json:"title"`
	ReleaseYear    *int          `json:"release_year"`
	ContentType    string        `json:"content_type"`
	RuntimeMinutes *int          `json:"runtime_minutes,omitempty"`
	SeasonCount    *int          `json:"season_count,omitempty"`
	CriticRating   float64       `json:"critic_rating"`
	AudienceRating int           `json:"audience_rating"`
	ParentalRating string        `json:"parental_rating"`
	Synopsis       string        `json:"synopsis"`
	Tagline        string        `json:"tagline"`
	Director       string        `json:"director"`
	CastList       string        `json:"cast_list"`
	Genres         []genreResp   `json:"genres"`
	Services       []availResp   `json:"available_on_services"`
}

type availResp struct {
	ServiceUID string `json:"service_uid"`
	Name       string `json:"name"`
	LogoURL    string `json:"logo_url"`
	WatchLink  string `json:"watch_link"`
}

// GetContent handles GET /v1/content/:uid.
func (h *CatalogHandler) GetContent(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid content uid"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	content, genres, services, err := h.Catalog.GetContentByUID(ctx, uid)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "content not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	resp := contentDetailResp{
		UID:            content.UID,
		ExternalID:     content.ExternalID,
		Title:          content.Title,
		ReleaseYear:    content.ReleaseYear,
		ContentType:    content.ContentType,
		RuntimeMinutes: content.RuntimeMinutes,
		SeasonCount:    content.SeasonCount,
		CriticRating:   content.CriticRating,
		AudienceRating: content.AudienceRating,
		ParentalRating: content.ParentalRating,
		Synopsis:       content.Synopsis,
		Tagline:        content.Tagline,
		Director:       content.Director,
		CastList:       content.CastList,
		Genres:         make([]genreResp, 0, len(genres)),
		Services:       make([]availResp, 0, len(services)),
	}
	for _, g := range genres {
		resp.Genres = append(resp.Genres, genreResp{UID: g.UID, Name: g.Name})
	}
	for _, s := range services {
		resp.Services = append(resp.Services, availResp{
			ServiceUID: s.ServiceUID, Name: s.Name, LogoURL: s.LogoURL, WatchLink: s.WatchLink,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
