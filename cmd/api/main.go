package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartrentsystem/backend/internal/adapters/auth"
	"github.com/smartrentsystem/backend/internal/adapters/cache"
	"github.com/smartrentsystem/backend/internal/adapters/events"
	"github.com/smartrentsystem/backend/internal/adapters/lock"
	"github.com/smartrentsystem/backend/internal/adapters/search"
	"github.com/smartrentsystem/backend/internal/adapters/store"
	"github.com/smartrentsystem/backend/internal/api/handlers"
	"github.com/smartrentsystem/backend/internal/api/middleware"
	"github.com/smartrentsystem/backend/internal/api/routes"
	"github.com/smartrentsystem/backend/internal/application/services"
	"github.com/smartrentsystem/backend/internal/domain/providers"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/clients/redis"
	"github.com/smartrentsystem/backend/internal/infrastructure/clients/typesense"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
	queryadapters "github.com/smartrentsystem/backend/internal/query/adapters"
	queryservices "github.com/smartrentsystem/backend/internal/query/services"
	"github.com/smartrentsystem/backend/pkg/config"
	"github.com/smartrentsystem/backend/pkg/secrets"
)

func main() {
	if _, err := secrets.Apply(context.Background(), secrets.SourceFromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load secrets: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	repos, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open store")
	}
	defer repos.Close()

	// Redis backs caching, wishlist events and the cross-instance wishlist lock
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
		locker        providers.Locker = lock.NewLocalLocker()
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, running without cache and events")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
			locker = lock.NewRedisLocker(redisClient, 10*time.Second)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
		}
	}

	listingRepo := repos.Listings
	userRepo := repos.Users
	if cacheProvider != nil {
		listingRepo = cache.NewCachedListingAdapter(listingRepo, cacheProvider, cfg.Cache.ListingTTLSeconds)
		userRepo = cache.NewCachedUserAdapter(userRepo, cacheProvider, cfg.Cache.UserTTLSeconds)
	}

	var searchRepo repositories.ListingSearchRepository
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, catalog reads go to the store")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Typesense schema")
		} else {
			searchRepo = search.NewTypesenseAdapter(tsClient)
			log.Info().Str("url", cfg.Typesense.URL).Msg("Typesense client initialized")
		}
	}

	var candidateCache queryservices.CandidateCache
	if cacheProvider != nil {
		candidateCache = queryadapters.NewQueryCacheAdapter(cacheProvider, "catalog")
	}

	// Services
	catalogService := queryservices.NewCatalogQueryService(searchRepo, listingRepo, candidateCache,
		time.Duration(cfg.Cache.ListingTTLSeconds)*time.Second)
	catalogService.SetMetrics(metrics)
	listingService := services.NewListingService(listingRepo, searchRepo)
	wishlistService := services.NewWishlistService(userRepo, listingRepo, locker, eventBus)
	wishlistService.SetMetrics(metrics)
	userService := services.NewUserService(userRepo)
	bookingService := services.NewBookingService(repos.Bookings, listingRepo)
	reviewService := services.NewReviewService(repos.Reviews, listingRepo, searchRepo, locker)
	messageService := services.NewMessageService(repos.Messages, userRepo)

	var verifier providers.TokenVerifier = auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, authenticated routes will reject every request")
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics,
			middleware.DefaultCacheRoutes(cfg.Cache.ListingTTLSeconds))
	}

	router := routes.NewRouter(routes.Dependencies{
		Health:         handlers.NewHealthHandler(cfg.Env, cfg.Server.AllowedOrigins),
		Properties:     handlers.NewPropertyHandler(catalogService, listingService),
		Wishlist:       handlers.NewWishlistHandler(wishlistService, eventBus),
		Users:          handlers.NewUserHandler(userService),
		Bookings:       handlers.NewBookingHandler(bookingService),
		Reviews:        handlers.NewReviewHandler(reviewService),
		Messages:       handlers.NewMessageHandler(messageService),
		Verifier:       verifier,
		Listings:       listingRepo,
		Cache:          cacheMiddleware,
		Metrics:        metrics,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("store", cfg.Store.Driver).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}
