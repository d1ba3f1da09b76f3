package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/cinecrib/cinecrib/internal/repository"
)

func TestCatalogEndpoints(t *testing.T) {
	db := openHandlerDB(t)
	h := NewCatalogHandler(repository.NewCatalogRepo(db))
	e := echo.New()

	mustExec(t, db, "INSERT INTO genres (uid, name) VALUES ('action', 'Action')")
	mustExec(t, db, "INSERT INTO streaming_services (uid, name, logo_url) VALUES ('hulu', 'Hulu', '/logos/hulu.svg')")
	mustExec(t, db, "INSERT INTO moods (uid, name) VALUES ('cozy', 'Cozy Night In')")

	rec := doJSON(e, http.MethodGet, "/v1/genres", "", h.GetGenres)
	require.Equal(t, http.StatusOK, rec.Code)
	var genres struct {
		Genres []genreResp `json:"genres"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &genres))
	require.Equal(t, []genreResp{{UID: "action", Name: "Action"}}, genres.Genres)

	rec = doJSON(e, http.MethodGet, "/v1/streaming-services", "", h.GetStreamingServices)
	require.Equal(t, http.StatusOK, rec.Code)
	var services struct {
		Services []serviceResp `json:"streaming_services"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &services))
	require.Equal(t, []serviceResp{{UID: "hulu", Name: "Hulu", LogoURL: "/logos/hulu.svg"}}, services.Services)

	rec = doJSON(e, http.MethodGet, "/v1/moods", "", h.GetMoods)
	require.Equal(t, http.StatusOK, rec.Code)
	var moods struct {
		Moods []moodResp `json:"moods"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &moods))
	require.Equal(t, []moodResp{{UID: "cozy", Name: "Cozy Night In"}}, moods.Moods)
}

func TestGetContentDetail(t *testing.T) {
	db := openHandlerDB(t)
	h := NewCatalogHandler(repository.NewCatalogRepo(db))
	e := echo.New()

	contentID := mustExec(t, db,
		`INSERT INTO content (uid, title, release_year, content_type, runtime_minutes, critic_rating, audience_rating, director)
		VALUES ('c-heat', 'Heat', 1995, 'movie', 170, 8.7, 94, 'Michael Mann')`)
	genreID := mustExec(t, db, "INSERT INTO genres (uid, name) VALUES ('crime', 'Crime')")
	svcID := mustExec(t, db, "INSERT INTO streaming_services (uid, name) VALUES ('max', 'Max')")
	mustExec(t, db, "INSERT INTO content_genres (content_id, genre_id) VALUES (?,?)", contentID, genreID)
	mustExec(t, db,
		"INSERT INTO content_availability (content_id, service_id, region_code, watch_link) VALUES (?,?,'US','https://max.example/heat')",
		contentID, svcID)

	rec := doJSON(e, http.MethodGet, "/v1/content/c-heat", "", func(c echo.Context) error {
		c.SetParamNames("uid")
		c.SetParamValues("c-heat")
		return h.GetContent(c)
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var detail contentDetailResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.Equal(t, "Heat", detail.Title)
	require.Equal(t, "Michael Mann", detail.Director)
	require.NotNil(t, detail.RuntimeMinutes)
	require.Equal(t, 170, *detail.RuntimeMinutes)
	require.Equal(t, []genreResp{{UID: "crime", Name: "Crime"}}, detail.Genres)
	require.Len(t, detail.Services, 1)
	require.Equal(t, "https://max.example/heat", detail.Services[0].WatchLink)

	rec = doJSON(e, http.MethodGet, "/v1/content/c-missing", "", func(c echo.Context) error {
		c.SetParamNames("uid")
		c.SetParamValues("c-missing")
		return h.GetContent(c)
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
