// Package server contains the HTTP handlers for the flashdeck API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "flashdeck/docs" // swagger docs
	"flashdeck/internal/auth"
	"flashdeck/internal/cache"
	"flashdeck/internal/config"
	"flashdeck/internal/database"
	"flashdeck/internal/featureflags"
	"flashdeck/internal/middleware"
	"flashdeck/internal/models"
	"flashdeck/internal/repository"
	"flashdeck/internal/service"
	"flashdeck/internal/trivia"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager

	verifier auth.Verifier
	tokens   *auth.LocalTokens
	github   *auth.GitHubProvider
	trivia   *trivia.Client

	identityService *service.IdentityService
	deckService     *service.DeckService
	cardService     *service.CardService
	tagService      *service.TagService
}

// NewServer connects to the database and Redis and builds the server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil redisClient runs the server without caching or GitHub login.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if redisClient != cache.GetClient() {
		cache.SetClient(redisClient)
	}

	userRepo := repository.NewUserRepository(db)
	deckRepo := repository.NewDeckRepository(db)
	cardRepo := repository.NewCardRepository(db)
	tagRepo := repository.NewTagRepository(db)

	tokens := auth.NewLocalTokens(cfg)
	verifiers := auth.Chain{tokens}
	if cfg.Auth0Enabled() {
		auth0, err := auth.NewAuth0Verifier(cfg.Auth0Domain, cfg.Auth0Audience)
		if err != nil {
			return nil, err
		}
		verifiers = append(verifiers, auth0)
	}

	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("flashdeck-api"),
		featureFlags:    featureflags.NewManager(cfg.FeatureFlags),
		verifier:        verifiers,
		tokens:          tokens,
		trivia:          trivia.NewClient(cfg.TriviaBaseURL),
		identityService: service.NewIdentityService(userRepo),
		deckService:     service.NewDeckService(deckRepo, cardRepo, tagRepo, userRepo),
		cardService:     service.NewCardService(deckRepo, cardRepo),
		tagService:      service.NewTagService(deckRepo, tagRepo),
	}
	if cfg.GitHubEnabled() {
		server.github = auth.NewGitHubProvider(cfg)
	}

	return server, nil
}

// App returns the configured Fiber application, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:      "flashdeck API",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return models.RespondWithError(c, fe.Code, models.NewNotFoundError("Route", c.Path()))
		case fiber.StatusMethodNotAllowed:
			return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
		}
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(compress.New())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Get("/features", s.OptionalAuth(), s.GetFeatureFlags)

	authGroup := api.Group("/auth")
	authGroup.Get("/github/login", s.GitHubLogin)
	authGroup.Get("/github/callback", s.GitHubCallback)

	users := api.Group("/users", s.AuthRequired())
	users.Post("/me", s.SyncMe)
	users.Get("/me", s.GetMe)

	// Specific deck routes before the generic /:id routes.
	decks := api.Group("/decks")
	decks.Post("/", s.AuthRequired(), s.CreateDeck)
	decks.Get("/mine", s.AuthRequired(), s.GetMyDecks)
	decks.Get("/public", s.GetPublicDecks)
	decks.Get("/code/:code", s.OptionalAuth(), s.GetDeckByShareCode)
	decks.Put("/:id/cards", s.AuthRequired(), s.ReplaceDeckCards)
	decks.Get("/:id", s.OptionalAuth(), s.GetDeck)
	decks.Put("/:id", s.AuthRequired(), s.UpdateDeck)
	decks.Delete("/:id", s.AuthRequired(), s.DeleteDeck)

	cards := api.Group("/cards")
	cards.Get("/deck/:deckId", s.OptionalAuth(), s.GetDeckCards)
	cards.Post("/deck/:deckId", s.AuthRequired(), s.CreateCard)
	cards.Put("/:id", s.AuthRequired(), s.UpdateCard)
	cards.Delete("/:id", s.AuthRequired(), s.DeleteCard)

	tags := api.Group("/tags")
	tags.Get("/", s.GetTags)
	tags.Post("/", s.AuthRequired(), s.CreateTag)
	tags.Get("/deck/:deckId", s.OptionalAuth(), s.GetDeckTags)
	tags.Post("/deck/:deckId", s.AuthRequired(), s.AttachDeckTag)
	tags.Delete("/deck/:deckId/:tagId", s.AuthRequired(), s.DetachDeckTag)

	triviaGroup := api.Group("/trivia", s.TriviaEnabled())
	triviaGroup.Get("/topics", s.GetTriviaTopics)
	triviaGroup.Get("/questions", s.GetTriviaQuestions)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck pings the database and, when configured, Redis.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
