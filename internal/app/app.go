// Package app wires configuration, storage, services and the HTTP adapter
// into one runnable storefront.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"laoud/internal/catalog"
	"laoud/internal/config"
	"laoud/internal/handlers"
	"laoud/internal/middleware"
	"laoud/internal/models"
	"laoud/internal/repositories"
	"laoud/internal/services"
	"laoud/pkg/rabbitmq"
)

const redisKeyPrefix = "laoud"

// App is the assembled storefront.
type App struct {
	Fiber    *fiber.App
	Products *repositories.CatalogProductRepository
	Checkout *services.CheckoutService

	cfg     *config.Config
	logger  zerolog.Logger
	mq      *rabbitmq.Client
	closers []func() error
}

// New builds the storefront described by cfg.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: log}

	store, err := a.openStateStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	products, err := LoadCatalog(cfg.CatalogFile, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Products = repositories.NewCatalogProductRepository(products)

	var opts []services.CheckoutOption
	opts = append(opts, services.WithDelays(services.Delays{
		Card:   cfg.CardDelay,
		PayPal: cfg.PayPalDelay,
		Bank:   cfg.BankDelay,
	}))
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.Warn().Err(err).Msg("order events disabled")
		} else {
			a.mq = mq
			a.closers = append(a.closers, mq.Close)
			opts = append(opts, services.WithPublisher(mq))
		}
	}

	productService := services.NewProductService(a.Products)
	analyticsService := services.NewAnalyticsService(repositories.NewStateAnalyticsRepository(store), log)
	chatService := services.NewChatHistoryService(repositories.NewStateChatHistoryRepository(store), log)
	cartService := services.NewCartService(a.Products, repositories.NewStateCartRepository(store), analyticsService, log)
	checkoutService, err := services.NewCheckoutService(cartService, repositories.NewStateOrderRepository(store, log), analyticsService, log, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Checkout = checkoutService

	a.Fiber = fiber.New(fiber.Config{
		AppName:               "laoud",
		DisableStartupMessage: true,
	})
	a.Fiber.Use(logger.New())

	a.Fiber.Get("/health", a.handleHealth)

	apiV1 := a.Fiber.Group("/api/v1", middleware.BrowserSession())
	handlers.NewProductHandler(productService, log).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService, log).RegisterRoutes(apiV1)
	handlers.NewCheckoutHandler(checkoutService, log).RegisterRoutes(apiV1)
	handlers.NewAnalyticsHandler(analyticsService, log).RegisterRoutes(apiV1)
	handlers.NewChatHandler(chatService, log).RegisterRoutes(apiV1)

	log.Info().
		Int("products", len(products)).
		Str("state", cfg.StateBackend).
		Bool("order_events", a.mq != nil).
		Msg("storefront ready")
	return a, nil
}

// OrderEvents returns the RabbitMQ client, or nil when order events are disabled.
func (a *App) OrderEvents() *rabbitmq.Client {
	return a.mq
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	rabbit := "disabled"
	if a.mq != nil {
		rabbit = "connected"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"state":    a.cfg.StateBackend,
		"rabbitMQ": rabbit,
	})
}

func (a *App) openStateStore() (repositories.StateStore, error) {
	switch a.cfg.StateBackend {
	case "memory":
		return repositories.NewMemoryStateStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr})
		a.closers = append(a.closers, client.Close)
		store := repositories.NewRedisStateStore(client, redisKeyPrefix, a.cfg.RedisTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", a.cfg.RedisAddr, err)
		}
		return store, nil
	default:
		db, err := openDatabase(a.cfg.DatabaseDriver, a.cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		a.closers = append(a.closers, sqlDB.Close)
		store := repositories.NewGORMStateStore(db)
		if err := store.Migrate(); err != nil {
			return nil, err
		}
		return store, nil
	}
}

func openDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	return db, nil
}

// LoadCatalog parses the catalog text in path, or the bundled catalog when
// path is empty or unreadable. Skipped lines are logged at debug level.
func LoadCatalog(path string, log zerolog.Logger) ([]models.Product, error) {
	text := catalog.DefaultCatalogText()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("catalog file unreadable, using bundled catalog")
		} else {
			text = string(data)
		}
	}

	res := catalog.NewParser().ParseReport(text)
	for _, skip := range res.Skipped {
		log.Debug().Str("line", skip.Line).Str("reason", skip.Reason).Msg("catalog line skipped")
	}
	if len(res.Products) == 0 {
		return nil, errors.New("catalog has no products")
	}
	return res.Products, nil
}

// Close releases the database, redis and RabbitMQ connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
