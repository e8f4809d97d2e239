package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/socialboost/boost-api/internal/config"
	"github.com/socialboost/boost-api/internal/domain/admin"
	"github.com/socialboost/boost-api/internal/domain/auth"
	"github.com/socialboost/boost-api/internal/domain/catalog"
	"github.com/socialboost/boost-api/internal/domain/order"
	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/domain/realtime"
	"github.com/socialboost/boost-api/internal/domain/session"
	"github.com/socialboost/boost-api/internal/domain/user"
	"github.com/socialboost/boost-api/internal/domain/wallet"
	"github.com/socialboost/boost-api/internal/middleware"
	"github.com/socialboost/boost-api/internal/pkg/database"
	"github.com/socialboost/boost-api/internal/pkg/events"
	"github.com/socialboost/boost-api/internal/pkg/idempotency"
	"github.com/socialboost/boost-api/internal/pkg/imaging"
	"github.com/socialboost/boost-api/internal/pkg/jwt"
	"github.com/socialboost/boost-api/internal/pkg/logger"
	"github.com/socialboost/boost-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()

	logCloser, err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	defer logCloser.Close()

	if cfg.IsProduction() && cfg.JWTSecret == config.DefaultJWTSecret {
		log.Fatal().Msg("JWT_SECRET must be set in production")
	}
	if cfg.IsDevelopment() {
		log.Warn().Msg("Running in development mode")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting boost API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	// Redis is optional: caches fall through to Postgres, the hub stays
	// process-local and idempotency keys live in Bolt. The hub gets its own
	// client so its subscription has no read deadline.
	redis := openRedis(cfg.RedisURL, database.CacheRedis)
	defer database.CloseRedis(redis)
	hubRedis := openRedis(cfg.RedisURL, database.PubSubRedis)
	defer database.CloseRedis(hubRedis)

	store, err := storage.New(context.Background(), storage.Config{
		Driver:      cfg.StorageDriver,
		LocalPath:   cfg.StorageLocalPath,
		BaseURL:     cfg.StorageBaseURL,
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3Bucket:    cfg.S3Bucket,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
		S3PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Failed to create avatar storage")
	}

	var idemStore idempotency.Store
	if redis != nil {
		idemStore = idempotency.NewRedisStore(redis)
	} else {
		bolt, err := idempotency.NewBoltStore(cfg.IdempotencyBoltPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.IdempotencyBoltPath).Msg("Failed to open idempotency store")
		}
		defer bolt.Close()
		idemStore = bolt
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	bus := events.NewBus()

	// ---------- WebSocket hub ----------
	hub := realtime.NewHub(hubRedis)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	profileRepo := profile.NewRepository(db)

	// ---------- Services ----------
	profileService := profile.NewService(profileRepo, userRepo, store, imaging.NewProcessor(imaging.DefaultConfig()), bus)
	walletService := wallet.NewService(wallet.NewRepository(db), hub, bus)
	catalogManager := catalog.NewService(catalog.NewRepository(db), catalog.NewCache(redis, cfg.CatalogCacheTTL))
	orderService := order.NewService(order.NewRepository(db), hub, bus)
	authService := auth.NewService(userRepo, profileRepo, auth.NewRefreshTokenRepository(db), jwtService, bus)
	adminService := admin.NewService(admin.NewRepository(db), profileService, orderService, walletService, catalogManager)

	profiles := session.NewProfiles(profileRepo, redis, cfg.ProfileCacheTTL)
	authService.Subscribe(profiles.OnEvent)
	authService.Subscribe(hub.OnSessionEvent)

	// ---------- Handlers ----------
	catalogHandler := catalog.NewHandler(catalogManager)
	h := handlers{
		auth:    auth.NewHandler(authService),
		profile: profile.NewHandler(profileService),
		catalog: catalogHandler,
		order:   order.NewHandler(orderService),
		wallet:  wallet.NewHandler(walletService),
		session: session.NewHandler(),
		admin:   admin.NewHandler(adminService, catalogHandler.AdminRoutes()),
		ws:      realtime.NewHandler(hub, cfg.AllowedOrigins).WebSocket,
	}

	gate := session.Middleware(profiles)
	authMiddleware := chain(middleware.Auth(jwtService), gate)

	uploadsDir := ""
	if cfg.StorageDriver != "s3" {
		uploadsDir = cfg.StorageLocalPath
	}

	r := newRouter(routerConfig{
		handlers:       h,
		auth:           authMiddleware,
		optionalAuth:   middleware.OptionalAuth(jwtService),
		gate:           gate,
		idempotency:    middleware.Idempotency(idemStore, cfg.IdempotencyTTL),
		allowedOrigins: cfg.AllowedOrigins,
		uploadsDir:     uploadsDir,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited properly")
}

func openRedis(url string, opts database.RedisOptions) *goredis.Client {
	if url == "" {
		return nil
	}
	client, err := database.NewRedis(url, opts)
	if err != nil {
		log.Warn().Err(err).Str("client", opts.Name).Msg("Redis unavailable, continuing without it")
		return nil
	}
	return client
}

// chain applies mws in order, the first one outermost.
func chain(mws ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
