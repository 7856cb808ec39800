package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinearc/cinearc-api/internal/catalog"
	"github.com/cinearc/cinearc-api/internal/config"
	"github.com/cinearc/cinearc-api/internal/database"
	"github.com/cinearc/cinearc-api/internal/handler"
	"github.com/cinearc/cinearc-api/internal/middleware"
	"github.com/cinearc/cinearc-api/internal/payment"
	"github.com/cinearc/cinearc-api/internal/queue"
	"github.com/cinearc/cinearc-api/internal/repository"
	"github.com/cinearc/cinearc-api/internal/router"
	"github.com/cinearc/cinearc-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis backs the response cache and the rate limiter.  A nil client
	// disables both middlewares rather than failing startup.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	rooms := repository.NewRoomRepo(db)
	sessions := repository.NewSessionRepo(db)
	baskets := repository.NewBasketRepo(db)

	syncer := catalog.NewSyncer(
		catalog.NewClient(catalog.ClientConfig{
			BaseURL:  cfg.CatalogBaseURL,
			APIKey:   cfg.CatalogAPIKey,
			Language: cfg.CatalogLanguage,
			Region:   cfg.CatalogRegion,
		}),
		movies,
		catalog.SyncConfig{
			MaxMovies:         cfg.CatalogMaxMovies,
			DefaultRuntimeMin: cfg.DefaultRuntimeMin,
			ImageBaseURL:      cfg.CatalogImageBase,
		},
	)

	checkout := service.NewCheckoutService(
		baskets,
		payment.NewStripeCheckout(cfg.StripeSecretKey, ""),
		service.CheckoutConfig{
			TicketPriceCents: cfg.TicketPriceCents,
			FrontendBaseURL:  cfg.FrontendBaseURL,
		},
	)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	movieH := handler.NewMovieHandler(movies)
	roomH := handler.NewRoomHandler(rooms)
	sessionH := handler.NewSessionHandler(sessions, movies, rooms)
	basketH := handler.NewBasketHandler(baskets, sessions)
	paymentH := handler.NewPaymentHandler(checkout)
	catalogH := handler.NewCatalogHandler(syncer)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, movieH, roomH, sessionH,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterCustomer(e, basketH, paymentH, cfg.JWTSecret)
	router.RegisterAdmin(e, roomH, sessionH, catalogH, cfg.JWTSecret)

	// Background workers: the weekly catalog sync and the payment event
	// consumer.  Both log their own failures and never take the API down.
	if cfg.SyncEnabled {
		go catalog.StartWeekly(context.Background(), syncer, cfg.SyncWeekday, cfg.SyncHour, cfg.SyncMinute)
	}
	go func() {
		if err := queue.StartPaymentConsumer(); err != nil {
			log.Printf("payment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
