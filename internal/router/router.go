// Package router wires the CineCrib HTTP routes to their handlers and
// middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinecrib/cinecrib/internal/config"
	"github.com/cinecrib/cinecrib/internal/handler"
	"github.com/cinecrib/cinecrib/internal/middleware"
)

// Handlers collects every handler the router needs.
type Handlers struct {
	Auth           *handler.AuthHandler
	Catalog        *handler.CatalogHandler
	Recommendation *handler.RecommendationHandler
	Preference     *handler.PreferenceHandler
	Watchlist      *handler.WatchlistHandler
}

// Register mounts all routes. Catalog GETs sit behind the Redis
// response cache; everything sits behind the rate limiter. Redis being
// nil disables both transparently.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	e.GET("/healthz", handler.Health)

	// Session endpoints: no auth required.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Public catalog, cached: reference data only changes on re-sync.
	cached := e.Group("/v1", middleware.NewResponseCache(config.LoadCacheConfig(), rdb))
	cached.GET("/genres", h.Catalog.GetGenres)
	cached.GET("/streaming-services", h.Catalog.GetStreamingServices)
	cached.GET("/moods", h.Catalog.GetMoods)
	cached.GET("/content/:uid", h.Catalog.GetContent)

	// Recommendations are public so guests can browse before signing up.
	e.POST("/v1/recommendations", h.Recommendation.Recommend)

	// Member-only endpoints.
	member := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MEMBER"),
	)
	member.GET("/me", h.Auth.Me)
	member.GET("/preferences", h.Preference.Get)
	member.PUT("/preferences", h.Preference.Put)
	member.GET("/watchlist", h.Watchlist.List)
	member.POST("/watchlist", h.Watchlist.Add)
	member.DELETE("/watchlist/:uid", h.Watchlist.Remove)
}
