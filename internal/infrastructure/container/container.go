package container

import (
	"context"
	"fmt"

	"github.com/gdugdh24/compatible-backend/internal/config"
	"github.com/gdugdh24/compatible-backend/internal/delivery/http"
	"github.com/gdugdh24/compatible-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/compatible-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/compatible-backend/internal/infrastructure/database"
	"github.com/gdugdh24/compatible-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/compatible-backend/internal/infrastructure/server"
	"github.com/gdugdh24/compatible-backend/internal/realtime"
	"github.com/gdugdh24/compatible-backend/internal/repository"
	"github.com/gdugdh24/compatible-backend/internal/repository/memory"
	"github.com/gdugdh24/compatible-backend/internal/repository/postgres"
	"github.com/gdugdh24/compatible-backend/internal/usecase/auth"
	"github.com/gdugdh24/compatible-backend/internal/usecase/conversation"
	"github.com/gdugdh24/compatible-backend/internal/usecase/match"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Gemini *gemini.GeminiClient
	Store  *memory.Store
	Hub    *realtime.Hub
	Relay  *realtime.RedisRelay
	Tokens *auth.TokenService
	Router *gin.Engine
	Server *server.Server
}

type repositories struct {
	profiles repository.ProfileRepository
	photos   repository.PhotoRepository
	matches  repository.MatchRepository
	messages repository.MessageRepository
}

// NewContainer creates a new dependency injection container. On error every
// resource opened so far is released.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *Container, err error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	// Initialize storage
	var repos repositories
	switch cfg.Storage.Type {
	case config.StorageTypeMemory:
		c.Store = memory.NewStore()
		repos = repositories{
			profiles: c.Store.Profiles(),
			photos:   c.Store.Photos(),
			matches:  c.Store.Matches(),
			messages: c.Store.Messages(),
		}
		logger.Warn("using in-memory storage, data is lost on restart")
	default:
		c.DB, err = database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repos = repositories{
			profiles: postgres.NewProfileRepository(c.DB),
			photos:   postgres.NewPhotoRepository(c.DB),
			matches:  postgres.NewMatchRepository(c.DB),
			messages: postgres.NewMessageRepository(c.DB),
		}
	}

	// Initialize Gemini Client
	var scorer match.CompatibilityScorer
	if cfg.Gemini.APIKey != "" {
		geminiClient, gerr := gemini.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if gerr != nil {
			// Don't fail, just continue without compatibility scores
			logger.Warn("failed to initialize gemini client", zap.Error(gerr))
		} else {
			c.Gemini = geminiClient
			scorer = gemini.NewCompatibilityScorer(geminiClient, repos.profiles)
		}
	}

	// Initialize realtime hub
	c.Hub = realtime.NewHub(realtime.NewRegistry(), logger.Named("realtime"))

	// Initialize Redis relay
	if cfg.Redis.Enabled() {
		c.Redis, err = database.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Relay = realtime.NewRedisRelay(c.Redis, cfg.Realtime.RelayChannel, c.Hub, logger.Named("relay"))
		if err = c.Relay.Start(ctx); err != nil {
			c.Relay = nil
			return nil, err
		}
		c.Hub.UseRelay(c.Relay)
	}

	// Initialize use cases
	c.Tokens = auth.NewTokenService(cfg.JWT.AccessSecret, cfg.JWT.AccessTTL())

	matchUseCase := match.NewMatchUseCase(
		repos.matches,
		repos.profiles,
		repos.photos,
		scorer,
		logger.Named("match"),
	)

	conversationUseCase := conversation.NewConversationUseCase(
		repos.messages,
		repos.matches,
		c.Hub,
		logger.Named("conversation"),
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler()
	matchHandler := handler.NewMatchHandler(matchUseCase, logger)
	messageHandler := handler.NewMessageHandler(conversationUseCase, logger)
	realtimeHandler := handler.NewRealtimeHandler(
		c.Hub,
		conversationUseCase,
		realtime.NewUpgrader(cfg.Realtime.AllowedOrigins),
		cfg.Realtime.SendBuffer,
		logger.Named("ws"),
	)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(c.Tokens)

	// Initialize router
	router := http.NewRouter(
		authHandler,
		matchHandler,
		messageHandler,
		realtimeHandler,
		authMiddleware,
		logger.Named("http"),
	)

	// Setup routes
	c.Router = router.Setup()

	// Initialize server
	c.Server = server.NewServer(&cfg.Server, c.Router, logger)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Hub != nil {
		c.Hub.Close()
	}

	if c.Relay != nil {
		if err := c.Relay.Close(); err != nil {
			c.Logger.Warn("error closing relay", zap.Error(err))
		}
	}

	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("error closing redis", zap.Error(err))
		}
	}

	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			c.Logger.Warn("error closing gemini client", zap.Error(err))
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
