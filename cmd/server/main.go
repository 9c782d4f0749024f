// Apex Collect - simulated loan collection call server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/apex-collect/internal/agent"
	"github.com/ashureev/apex-collect/internal/api"
	"github.com/ashureev/apex-collect/internal/config"
	"github.com/ashureev/apex-collect/internal/directory"
	"github.com/ashureev/apex-collect/internal/expiry"
	"github.com/ashureev/apex-collect/internal/identity"
	"github.com/ashureev/apex-collect/internal/llm"
	"github.com/ashureev/apex-collect/internal/middleware"
	"github.com/ashureev/apex-collect/internal/store"
	"github.com/ashureev/apex-collect/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())
	if cfg.SessionSecretGenerated {
		slog.Warn("SECRET_KEY not set, using a per-process key; sessions will not survive a restart")
	}

	// Initialize dependencies.
	repo, backend, err := store.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialize database", "backend", backend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "backend", backend)

	deps := agent.Deps{Sessions: repo, Logger: logger}

	// The server stays up without a dataset or a model; the endpoints then
	// answer with conversational error replies.
	dir, err := directory.Load(cfg.DatasetPath)
	if err != nil {
		slog.Error("Failed to load customer dataset, lookups will be unavailable", "path", cfg.DatasetPath, "error", err)
	} else {
		deps.Directory = dir
		slog.Info("Customer dataset loaded", "path", cfg.DatasetPath, "customers", dir.Len())
	}

	if cfg.AIConfigured() {
		gen, err := llm.NewGemini(context.Background(), cfg.Gemini, logger)
		if err != nil {
			slog.Error("Failed to initialize language model, AI replies will be disabled", "error", err)
		} else {
			deps.Generator = gen
			slog.Info("Language model initialized", "model", gen.Model())
		}
	} else {
		slog.Warn("GEMINI_API_KEY not set, AI replies will be disabled")
	}

	conversationLogger, err := agent.NewConversationLogger(agent.ConversationLogConfig{
		Enabled:   cfg.ConversationLog.Enabled,
		Dir:       cfg.ConversationLog.Dir,
		QueueSize: cfg.ConversationLog.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize conversation logger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := conversationLogger.Close(); closeErr != nil {
			slog.Error("Failed to close conversation logger", "error", closeErr)
		}
	}()
	deps.Log = conversationLogger

	svc, err := agent.NewService(deps)
	if err != nil {
		slog.Error("Failed to initialize agent service", "error", err)
		os.Exit(1)
	}

	// Initialize handlers.
	signer := identity.NewSigner(cfg.SessionSecret, cfg.IsDevelopment())
	agentHandler := agent.NewHandler(svc)
	healthHandler := api.NewHealthHandler(repo, svc)
	indexHandler := api.NewIndexHandler(signer, svc, web.StaticHandler())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins()))

	// Public routes.
	healthHandler.RegisterRoutes(r)
	r.Get("/", indexHandler.ServeHTTP)

	// Conversation routes carry the session cookie.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(signer))
		agentHandler.RegisterRoutes(r)
	})

	// Static assets.
	r.Handle("/*", web.StaticHandler())

	// Model calls carry no deadline of their own, so WriteTimeout stays off.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	// Start TTL worker.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	expiry.StartTTLWorker(ctx, repo, cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
