package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"Vidora/internal/api/handlers/video"
	"Vidora/internal/api/middleware"
	"Vidora/internal/api/routes"
	"Vidora/internal/auth"
	"Vidora/internal/config"
	"Vidora/internal/core/blobs"
	"Vidora/internal/core/channels"
	"Vidora/internal/core/comments"
	"Vidora/internal/core/images"
	"Vidora/internal/core/library"
	"Vidora/internal/core/media"
	"Vidora/internal/core/search"
	"Vidora/internal/core/users"
	"Vidora/internal/core/videos"
	postgresRepo "Vidora/internal/db/postgres"
	"Vidora/internal/mail"
	"Vidora/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	logger.Info("connected to database")

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Error("failed to set goose dialect", "error", err)
		os.Exit(1)
	}

	if err := goose.Up(db, cfg.Database.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	logger.Info("migrations completed successfully")

	// Object storage is optional; without credentials uploads fail with StorageUnavailable
	var objectClient blobs.ObjectClient
	if cfg.Storage.Endpoint != "" && cfg.Storage.KeyID != "" && cfg.Storage.AppKey != "" {
		client, clientErr := blobs.NewMinioClient(blobs.ClientConfig{
			Endpoint: cfg.Storage.Endpoint,
			Region:   cfg.Storage.Region,
			KeyID:    cfg.Storage.KeyID,
			AppKey:   cfg.Storage.AppKey,
			UseSSL:   cfg.Storage.UseSSL,
		})
		if clientErr != nil {
			logger.Error("failed to create object storage client", "error", clientErr)
			os.Exit(1)
		}
		objectClient = client
	} else {
		logger.Warn("object storage credentials not configured, media uploads are disabled")
	}

	store := blobs.NewGateway(objectClient, blobs.Config{
		Bucket:        cfg.Storage.Bucket,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		SignedURLTTL:  cfg.Storage.SignedURLTTL,
		CacheSize:     cfg.Storage.CacheSize,
	}, logger)

	imageProcessor := images.NewProcessor(cfg.Upload.MaxImageBytes)
	prober := media.NewFFProbe(cfg.Upload.FFProbePath)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize repositories and services
	userRepo := postgresRepo.NewUserRepository(db)
	channelRepo := postgresRepo.NewChannelRepository(db)
	videoRepo := postgresRepo.NewVideoRepository(db)
	commentRepo := postgresRepo.NewCommentRepository(db)
	libraryRepo := postgresRepo.NewLibraryRepository(db)
	searchRepo := postgresRepo.NewSearchRepository(db)

	var mailer users.Mailer
	if cfg.Mail.Host != "" {
		mailer = mail.NewSMTPMailer(mail.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			FromName: cfg.Mail.FromName,
			Timeout:  cfg.Mail.Timeout,
			UseTLS:   cfg.Mail.UseTLS,
		})
	} else {
		logger.Warn("SMTP not configured, password reset codes are written to the log")
		mailer = mail.NewLogMailer(logger)
	}

	userService := users.NewService(userRepo, tokens, store, imageProcessor, mailer, logger)
	channelService := channels.NewService(channelRepo, store, imageProcessor, logger)
	videoService := videos.NewService(videoRepo, channelRepo, store, imageProcessor, prober, logger,
		videos.WithViewWindow(cfg.Engagement.ViewWindow))
	commentService := comments.NewService(commentRepo, videoRepo, logger)
	libraryService := library.NewService(libraryRepo, videoRepo, cfg.Library.WatchHistoryLimit, logger)
	searchService := search.NewService(searchRepo, channelRepo, logger)

	authMiddleware := middleware.NewAuthMiddleware(tokens, logger, middleware.WithAccountChecker(userRepo))

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: !containsWildcard(cfg.Server.CORSOrigins),
		MaxAge:           300,
	}))
	r.Use(metrics.Middleware)

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RateLimit.Requests > 0 {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		go rateLimiter.Cleanup(shutdownCtx.Done())
		r.Use(rateLimiter.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	routes.RegisterAccountRoutes(r, userService, authMiddleware, cfg.Upload.MaxImageBytes)
	routes.RegisterChannelRoutes(r, channelService, authMiddleware, cfg.Upload.MaxImageBytes)
	routes.RegisterVideoRoutes(r, routes.VideoServices{
		Videos:   videoService,
		Comments: commentService,
		Library:  libraryService,
	}, authMiddleware, video.Limits{
		MaxVideoBytes: cfg.Upload.MaxVideoBytes,
		MaxImageBytes: cfg.Upload.MaxImageBytes,
		Timeout:       cfg.Upload.Timeout,
	})
	routes.RegisterSearchRoutes(r, searchService, authMiddleware)
	routes.RegisterFileRoutes(r, store, authMiddleware)

	// Video uploads extend their own deadlines past ReadTimeout and WriteTimeout
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
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
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
