package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/closette/storefront/internal/cart"
	"github.com/closette/storefront/internal/catalog"
	"github.com/closette/storefront/internal/checkout"
	sfhttp "github.com/closette/storefront/internal/http"
	"github.com/closette/storefront/internal/notify"
	"github.com/closette/storefront/internal/storage"
	"github.com/closette/storefront/internal/wishlist"
)

type Config struct {
	HTTPAddr        string
	StorageBackend  string
	StorageFile     string
	RedisAddr       string
	RedisPassword   string
	MongoURI        string
	MongoDBName     string
	SyncChannel     string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsPath  string
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		StorageBackend:  getEnv("STORAGE_BACKEND", "file"),
		StorageFile:     getEnv("STORAGE_FILE", "storefront.json"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storefront"),
		SyncChannel:     getEnv("SYNC_CHANNEL", ""),
		PostgresHost:    getEnv("DB_HOST", ""),
		PostgresPort:    getEnvInt("DB_PORT", 5432),
		PostgresUser:    getEnv("DB_USER", "postgres"),
		PostgresPass:    getEnv("DB_PASSWORD", "postgres"),
		PostgresDB:      getEnv("DB_NAME", "storefront"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("storefront exited", zap.Error(err))
	}
	log.Info("storefront stopped")
}

func run(ctx context.Context, cfg *Config, log *zap.Logger) error {
	var redisClient *redis.Client
	needsRedis := cfg.StorageBackend == "redis" || cfg.SyncChannel != ""
	if needsRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	store, cleanup, err := buildStorage(ctx, cfg, redisClient, log)
	if err != nil {
		return err
	}
	defer cleanup()

	bus := notify.NewBus()

	cartStore := cart.NewStore(store, bus, log)
	if err := cartStore.Load(ctx); err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	wishlistStore := wishlist.NewStore(store, bus, log)
	if err := wishlistStore.Load(ctx); err != nil {
		return fmt.Errorf("load wishlist: %w", err)
	}

	// Remote events mean another instance changed the persisted state;
	// re-read it so local reads stay current.
	bus.Subscribe(notify.TopicCartChanged, func(ev notify.Event) {
		if !ev.Remote() {
			return
		}
		if err := cartStore.Reload(context.Background()); err != nil {
			log.Warn("cart reload failed", zap.Error(err))
		}
	})
	bus.Subscribe(notify.TopicWishlistChanged, func(ev notify.Event) {
		if !ev.Remote() {
			return
		}
		if err := wishlistStore.Reload(context.Background()); err != nil {
			log.Warn("wishlist reload failed", zap.Error(err))
		}
	})

	catalogRepo := catalog.NewMemoryRepository(catalog.SeedProducts()...)

	checkoutService, closeOrders, err := buildCheckout(cfg, cartStore, log)
	if err != nil {
		return err
	}
	defer closeOrders()

	router := sfhttp.NewRouter(log,
		sfhttp.NewCartHandler(cartStore, catalogRepo),
		sfhttp.NewWishlistHandler(wishlistStore, catalogRepo),
		sfhttp.NewCatalogHandler(catalogRepo),
		sfhttp.NewCheckoutHandler(checkoutService),
	)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.SyncChannel != "" {
		relay := notify.NewRedisRelay(bus, redisClient, cfg.SyncChannel, log)
		g.Go(func() error {
			log.Info("sync relay starting", zap.String("channel", cfg.SyncChannel))
			return relay.Run(ctx)
		})
	}

	g.Go(func() error {
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func buildStorage(ctx context.Context, cfg *Config, redisClient *redis.Client, log *zap.Logger) (storage.Store, func(), error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case "memory":
		return storage.NewMemory(), noop, nil
	case "file":
		log.Info("using file storage", zap.String("path", cfg.StorageFile))
		return storage.NewFile(cfg.StorageFile), noop, nil
	case "redis":
		return storage.NewRedis(redisClient), noop, nil
	case "mongo":
		db, err := storage.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, noop, fmt.Errorf("connect mongo: %w", err)
		}
		log.Info("connected to mongo", zap.String("uri", cfg.MongoURI))
		cleanup := func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				log.Warn("mongo disconnect failed", zap.Error(err))
			}
		}
		return storage.NewMongo(db.Collection("kv")), cleanup, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// buildCheckout returns a nil service when no order database is
// configured; the HTTP layer then reports checkout as unavailable.
func buildCheckout(cfg *Config, cartStore *cart.Store, log *zap.Logger) (*checkout.Service, func(), error) {
	noop := func() {}
	if cfg.PostgresHost == "" {
		log.Info("checkout disabled, DB_HOST not set")
		return nil, noop, nil
	}

	creds := &checkout.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPass,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	repo, err := checkout.NewPostgresRepository(creds)
	if err != nil {
		return nil, noop, fmt.Errorf("connect postgres: %w", err)
	}
	if err := repo.RunMigrations(creds); err != nil {
		repo.Close()
		return nil, noop, fmt.Errorf("run migrations: %w", err)
	}
	log.Info("connected to postgres", zap.String("host", cfg.PostgresHost))

	cleanup := func() {
		if err := repo.Close(); err != nil {
			log.Warn("postgres close failed", zap.Error(err))
		}
	}
	return checkout.NewService(cartStore, repo, log), cleanup, nil
}
