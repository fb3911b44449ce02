package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"critichub/database"
	"critichub/internal/api/handler"
	"critichub/internal/api/middleware"
	"critichub/internal/api/repository"
	"critichub/internal/api/service"
	"critichub/internal/config"
	"critichub/internal/mailer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.SeedSuperuser(db, cfg.AdminEmail, logger); err != nil {
		logger.Error("superuser seed failed", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	codeStore := repository.NewConfirmationCodeStore(redisClient, cfg.ConfirmationCodeTTL)

	// Mail delivery is best-effort; without a relay configured codes go to
	// the log so development still works end to end.
	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	} else {
		mail = mailer.NewLogMailer(logger)
	}

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, codeStore, mail, logger, cfg)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/healthz", handler.NewHealthHandler(db, redisClient).Check)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(cfg.AuthRateRPS, cfg.AuthRateBurst))
	handler.NewAuthHandler(authService).RegisterRoutes(auth)

	// catalog, reviews, comments: reads are public, write decisions go
	// through the permission evaluator
	catalog := api.Group("")
	catalog.Use(middleware.OptionalAuth(authService, userRepo))
	handler.NewCategoryHandler(categoryService).RegisterRoutes(catalog)
	handler.NewGenreHandler(genreService).RegisterRoutes(catalog)
	handler.NewTitleHandler(titleService).RegisterRoutes(catalog)
	handler.NewReviewHandler(reviewService).RegisterRoutes(catalog)
	handler.NewCommentHandler(commentService).RegisterRoutes(catalog)

	users := api.Group("")
	users.Use(middleware.RequireAuth(authService, userRepo))
	handler.NewUserHandler(userService).RegisterRoutes(users)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("api server listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
