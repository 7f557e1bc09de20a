package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"booka-backend/internal/config"
	infraCache "booka-backend/internal/infrastructure/cache"
	"booka-backend/internal/infrastructure/database"
	"booka-backend/internal/infrastructure/recommender"
	"booka-backend/pkg/cache"
	"booka-backend/pkg/jwt"

	"booka-backend/internal/domains/user"
	userHandler "booka-backend/internal/domains/user/handler"
	userRepo "booka-backend/internal/domains/user/repository"
	userService "booka-backend/internal/domains/user/service"

	bookHandler "booka-backend/internal/domains/book/handler"
	bookRepo "booka-backend/internal/domains/book/repository"
	bookService "booka-backend/internal/domains/book/service"

	reviewHandler "booka-backend/internal/domains/review/handler"
	reviewRepo "booka-backend/internal/domains/review/repository"
	reviewService "booka-backend/internal/domains/review/service"

	feedHandler "booka-backend/internal/domains/feed/handler"
	feedService "booka-backend/internal/domains/feed/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisCache
	Cache       cache.Cache // nil when Redis is unreachable
	JWTManager  *jwt.Manager
	Recommender recommender.Client

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo   user.Repository
	BookRepo   bookRepo.RepositoryInterface
	ReviewRepo reviewRepo.ReviewRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService   user.Service
	BookService   bookService.ServiceInterface
	ReviewService reviewService.ServiceInterface
	FeedService   feedService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler   *userHandler.UserHandler
	BookHandler   *bookHandler.BookHandler
	ReviewHandler *reviewHandler.ReviewHandler
	FeedHandler   *feedHandler.FeedHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds config, infrastructure, repositories, services and handlers in that order
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Msg("[CONTAINER] Initializing...")

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("[CONTAINER] Ready")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	// ========================================
	// DATABASE
	// ========================================
	dbConfig := cfg.DBConfig()
	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if cfg.App.AutoMigrate {
		if err := database.Migrate(ctx, dbConfig.DSN()); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ========================================
	// CACHE
	// ========================================
	c.Redis = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix+":")
	if err := c.Redis.Connect(ctx); err != nil {
		// the cache only speeds up the onboarding list
		log.Warn().Err(err).Msg("[REDIS] Connection failed, caching disabled")
	} else {
		c.Cache = c.Redis
	}

	// ========================================
	// TOKENS & RECOMMENDER
	// ========================================
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	c.Recommender = recommender.NewClient(recommender.Config{
		BaseURL:      cfg.Recommender.BaseURL,
		Timeout:      cfg.Recommender.Timeout,
		MaxFailures:  cfg.Recommender.MaxFailures,
		OpenInterval: cfg.Recommender.OpenInterval,
	})

	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)
	c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool)
	c.ReviewRepo = reviewRepo.NewPostgresRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.ReviewRepo)
	c.BookService = bookService.NewBookService(
		c.BookRepo,
		c.ReviewRepo,
		c.Recommender,
		c.Cache,
		c.Config.Cache.OnboardingTTL,
	)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.UserService)
	c.FeedService = feedService.NewFeedService(feedService.Deps{
		Pool:        c.DB.Pool,
		Accounts:    c.UserService,
		Profiles:    c.UserRepo,
		Books:       c.BookRepo,
		Reviews:     c.ReviewRepo,
		Recommender: c.Recommender,
		Banners:     feedService.NoBanners{},
	})
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	c.FeedHandler = feedHandler.NewFeedHandler(c.FeedService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases connections; safe on a partially built container
func (c *Container) Cleanup() {
	log.Info().Msg("[CONTAINER] Cleaning up resources...")

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("[REDIS] Close failed")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
