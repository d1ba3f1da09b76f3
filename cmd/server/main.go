package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinecrib/cinecrib/internal/config"
	"github.com/cinecrib/cinecrib/internal/database"
	"github.com/cinecrib/cinecrib/internal/handler"
	"github.com/cinecrib/cinecrib/internal/queue"
	"github.com/cinecrib/cinecrib/internal/recommend"
	"github.com/cinecrib/cinecrib/internal/repository"
	"github.com/cinecrib/cinecrib/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	catalog := repository.NewCatalogRepo(db)
	prefs := repository.NewPreferenceRepo(db)
	watchlist := repository.NewWatchlistRepo(db)

	h := router.Handlers{
		Auth:           handler.NewAuthHandler(cfg, users, tokens),
		Catalog:        handler.NewCatalogHandler(catalog),
		Recommendation: handler.NewRecommendationHandler(recommend.NewSearcher(db), catalog),
		Preference:     handler.NewPreferenceHandler(prefs),
		Watchlist:      handler.NewWatchlistHandler(watchlist),
	}

	e := echo.New()
	router.Register(e, h, cfg.JWTSecret, rdb)

	// Background consumer writes watchlist events to logs/watchlist.log.
	go func() {
		if err := queue.StartWatchlistConsumer(); err != nil {
			log.Printf("watchlist consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
