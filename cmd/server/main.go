package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/santabot/santa-server-go/internal/bot"
	"github.com/santabot/santa-server-go/internal/config"
	"github.com/santabot/santa-server-go/internal/database"
	"github.com/santabot/santa-server-go/internal/handler"
	"github.com/santabot/santa-server-go/internal/jobs"
	"github.com/santabot/santa-server-go/internal/middleware"
	"github.com/santabot/santa-server-go/internal/queue"
	"github.com/santabot/santa-server-go/internal/redis"
	"github.com/santabot/santa-server-go/internal/repository"
	"github.com/santabot/santa-server-go/internal/service"
	"github.com/santabot/santa-server-go/internal/telegram"
	"github.com/santabot/santa-server-go/internal/worker"
)

var version = "dev"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if err := db.Migrate(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	sessionRepo := repository.NewSessionRepository(db.DB)
	participantRepo := repository.NewParticipantRepository(db.DB)

	sessionService := service.NewSessionService(db, sessionRepo, participantRepo, cfg.MinParticipants)

	notifier, err := telegram.NewNotifier(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to telegram")
	}

	intake := queue.New()
	router := bot.NewRouter(sessionService, notifier, cfg.BotUsername, intake.Len)

	dispatcher := worker.NewDispatcher(intake, router, config.QueuePollInterval)
	dispatcher.Start()
	defer dispatcher.Stop()

	retentionJob := jobs.NewRetentionJob(sessionRepo, cfg.Retention(), config.RetentionJobInterval)
	retentionJob.Start()
	defer retentionJob.Stop()

	secretTokenMiddleware := middleware.NewSecretTokenMiddleware(cfg.WebhookSecret)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	webhookHandler := handler.NewWebhookHandler(intake, redisClient, cfg.DedupeTTL())

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"version": version})
	})

	r.Route("/telegram", func(r chi.Router) {
		r.Use(secretTokenMiddleware.Handler)
		r.Post("/webhook", webhookHandler.Webhook)
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
