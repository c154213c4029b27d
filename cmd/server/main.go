package main // Entry point package

import (
	"context"
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/tablekeeper/floorplan/internal/config"   // Internal config loader
	"github.com/tablekeeper/floorplan/internal/database" // MySQL connection pool
	"github.com/tablekeeper/floorplan/internal/engine"   // transition engine
	"github.com/tablekeeper/floorplan/internal/handler"
	"github.com/tablekeeper/floorplan/internal/middleware"
	"github.com/tablekeeper/floorplan/internal/projection"
	"github.com/tablekeeper/floorplan/internal/queue"
	"github.com/tablekeeper/floorplan/internal/repository"
	"github.com/tablekeeper/floorplan/internal/router" // Internal router setup
	queue_publisher "github.com/tablekeeper/floorplan/internal/service"
)

func main() {
	// Load .env if present; in production the variables come from the
	// environment directly, so a missing file is not an error.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // Redis for rate limiting and read caching

	st := repository.NewStore(db)
	eng := engine.New(st, func(ctx context.Context, ev queue.TableTransitionEvent) {
		// Publish failures must never fail the transition itself; the
		// publisher already logs them.
		_ = queue_publisher.PublishTableTransition(ctx, ev)
	})
	reader := projection.New(st)

	// Every committed write bumps the venue's cache epoch so cached floor
	// reads go stale immediately.
	invalidate := func(ctx context.Context, venueID uint64) {
		middleware.BumpVenueEpoch(ctx, rdb, venueID)
	}

	h := router.Handlers{
		Floor:       handler.NewFloorHandler(reader),
		Table:       handler.NewTableHandler(eng, invalidate),
		Transition:  handler.NewTransitionHandler(eng, invalidate),
		Reservation: handler.NewReservationHandler(eng, invalidate),
	}

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAPI(e, h, cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterInternal(e, h, cfg.ServiceKeyHash)

	// Background consumer for the transition event queue.  Runs its own
	// reconnect loop; if it ever returns the server keeps serving HTTP.
	go func() {
		if err := queue.StartTransitionConsumer(); err != nil {
			log.Printf("transition consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
