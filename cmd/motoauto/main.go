package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"motoauto-service/internal/adapters/db"
	"motoauto-service/internal/adapters/httpapi"
	"motoauto-service/internal/adapters/memory"
	"motoauto-service/internal/adapters/redis"
	"motoauto-service/internal/adapters/storage"
	"motoauto-service/internal/adapters/ws"
	"motoauto-service/internal/app"
	"motoauto-service/internal/config"
	"motoauto-service/internal/domain/auction"
	"motoauto-service/internal/ports/outbound"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	initLogging(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().Msg("Starting MotoAuto Service...")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	dbConn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	if err := dbConn.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare database schema")
	}

	log.Info().Msg("Database connection established")

	// Create repositories
	repos := db.NewRepositoryFactory(dbConn, log.Logger).GetAllRepositories()

	log.Info().Msg("Database repositories initialized")

	// Create Redis client
	redisClient := redis.NewClient(cfg.Redis)
	defer redisClient.Close()
	if err := redis.PingRedis(ctx, redisClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Msg("Redis connection established")

	// Create object storage
	blobs, err := storage.NewS3BlobStore(storage.S3BlobStoreParams{
		Config: cfg.Storage,
		Logger: log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}
	log.Info().Str("bucket", cfg.Storage.Bucket).Msg("Object storage initialized")

	// Create business services
	listingService := app.NewListingService(app.ListingServiceParams{
		Store:         repos.Listings,
		Mutator:       repos.Mutator,
		Blobs:         blobs,
		Cache:         newQueryCache(cfg, redisClient),
		CacheTTL:      cfg.Cache.TTL,
		MaxStaleness:  cfg.Cache.MaxStaleness,
		UploadWorkers: cfg.Storage.UploadWorkers,
		Logger:        log.Logger,
	})
	auctionService := app.NewAuctionService(app.AuctionServiceParams{
		Listings: listingService,
		Store:    repos.Listings,
		Policy:   auction.NewBidPolicy(cfg.Bidding.Increment),
		Logger:   log.Logger,
	})
	authService := app.NewAuthService(app.AuthServiceParams{
		Users:      repos.Users,
		Sessions:   redis.NewSessionStore(redisClient),
		SessionTTL: cfg.Auth.SessionTTL,
		Logger:     log.Logger,
	})

	log.Info().Msg("Business services initialized")

	wsHandler := ws.NewHandler(ws.WsHandlerParams{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			CheckOrigin:     allowedOrigin(cfg.CORS.AllowedOrigins),
		},
		ListingService:    listingService,
		AuctionService:    auctionService,
		Identify:          httpapi.Identifier(authService, cfg.Auth.SessionCookie),
		SearchDebounce:    cfg.Search.Debounce,
		CountdownInterval: cfg.Countdown.Interval,
		EndingThreshold:   cfg.Countdown.EndingThreshold,
		Logger:            log.Logger,
	})

	log.Info().Msg("WebSocket handler initialized")

	server := httpapi.NewServer(httpapi.ServerParams{
		Config: cfg,
		API: httpapi.NewAPI(httpapi.APIParams{
			ListingService: listingService,
			AuctionService: auctionService,
			AuthService:    authService,
			WebSocket:      wsHandler,
			SessionCookie:  cfg.Auth.SessionCookie,
			CookieSecure:   cfg.Auth.CookieSecure,
			LoginPath:      cfg.Auth.LoginPath,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Logger:         log.Logger,
		}),
		WebSocket: wsHandler,
		Logger:    log.Logger,
	})

	// Start HTTP server
	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Failed to start HTTP server")
			cancel()
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	// Graceful shutdown
	log.Info().Msg("Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	}

	log.Info().Msg("Graceful shutdown completed")
}

// newQueryCache picks the search cache backend named by configuration
func newQueryCache(cfg *config.Config, client *goredis.Client) outbound.QueryCache {
	if cfg.Cache.Backend == "memory" {
		log.Info().Msg("Using in-process query cache")
		return memory.NewQueryCache()
	}
	return redis.NewQueryCache(redis.QueryCacheParams{
		RedisClient: client,
		Logger:      log.Logger,
	})
}

// allowedOrigin accepts upgrades from the configured front-end origins and
// from clients that send no Origin header
func allowedOrigin(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin] || allowed["*"]
	}
}

func initLogging(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set log format
	if cfg.Logging.Format == "json" {
		// JSON format (default)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Console format for development
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global logger
	zerolog.DefaultContextLogger = &log.Logger
}
