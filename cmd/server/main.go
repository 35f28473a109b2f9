package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing-api/internal/auth"
	"github.com/iliyamo/cinema-ticketing-api/internal/config"
	"github.com/iliyamo/cinema-ticketing-api/internal/database"
	"github.com/iliyamo/cinema-ticketing-api/internal/handler"
	"github.com/iliyamo/cinema-ticketing-api/internal/queue"
	"github.com/iliyamo/cinema-ticketing-api/internal/repository"
	"github.com/iliyamo/cinema-ticketing-api/internal/router"
	queue_publisher "github.com/iliyamo/cinema-ticketing-api/internal/service"

	appmw "github.com/iliyamo/cinema-ticketing-api/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	// Trust configuration is built exactly once and handed to everything
	// that issues or validates tokens.
	trust := auth.TrustConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Seed(seedCtx, db); err != nil {
		log.Printf("seed: %v (continuing)", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)

	authHandler := handler.NewAuthHandler(cfg, trust, users)
	movieHandler := handler.NewMovieHandler(movies)
	movieHandler.Publish = queue_publisher.PublishMovieCreated

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, appmw.RateLimit(config.LoadRateLimitConfig(), rdb))
	router.RegisterMovies(e, movieHandler, trust, appmw.ResponseCache(config.LoadCacheConfig(), rdb))

	go func() {
		if err := queue.StartCatalogConsumer(); err != nil {
			log.Printf("catalog consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
