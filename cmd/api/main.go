// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/swapcycle/exchange-platform/internal/config"
	"github.com/swapcycle/exchange-platform/internal/events"
	"github.com/swapcycle/exchange-platform/internal/handler"
	"github.com/swapcycle/exchange-platform/internal/llm"
	"github.com/swapcycle/exchange-platform/internal/middleware"
	"github.com/swapcycle/exchange-platform/internal/service"
	"github.com/swapcycle/exchange-platform/internal/store"
	"github.com/swapcycle/exchange-platform/pkg/logger"
	"github.com/swapcycle/exchange-platform/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "exchange-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Open the document store
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// Connect to NATS for the change feed
	feed, err := events.Connect(events.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log)
	if err != nil {
		log.Error("failed to connect to NATS", zap.Error(err))
		os.Exit(1)
	}
	defer feed.Close()

	// Initialize LLM client for the description proxy
	var llmClient llm.Client
	if cfg.AnthropicAPIKey != "" {
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		if err != nil {
			log.Warn("failed to create Anthropic client, description generation disabled", zap.Error(err))
		}
	} else if cfg.OpenAIAPIKey != "" {
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			log.Warn("failed to create OpenAI client, description generation disabled", zap.Error(err))
		}
	}

	// Initialize services
	userSvc := service.NewUserService(db, log)
	catalogSvc := service.NewCatalogService(db, log)
	conversationSvc := service.NewConversationService(db, feed, log)
	exchangeSvc := service.NewExchangeService(db, conversationSvc, log)
	statsSvc := service.NewStatsService(db, log)
	describeSvc := service.NewDescribeService(llmClient, cfg.DescribeModel, cfg.DescribeTimeout, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db, feed)
	userHandler := handler.NewUserHandler(userSvc, log)
	itemHandler := handler.NewItemHandler(catalogSvc, userSvc, log)
	themeHandler := handler.NewThemeHandler()
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)
	exchangeHandler := handler.NewExchangeHandler(exchangeSvc, log)
	statsHandler := handler.NewStatsHandler(statsSvc)
	describeHandler := handler.NewDescribeHandler(describeSvc, log)
	streamHandler := handler.NewStreamHandler(conversationSvc, feed, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Route("/themes", func(r chi.Router) {
			r.Get("/", themeHandler.List)
			r.Get("/current", themeHandler.Current)
			r.Get("/upcoming", themeHandler.Upcoming)
			r.Get("/{id}", themeHandler.Get)
		})
		r.Get("/stats", statsHandler.Global)
		r.Get("/stats/themes/{id}", statsHandler.ByTheme)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

			// Users
			r.Post("/users/ensure", userHandler.Ensure)
			r.Get("/users/{id}", userHandler.Get)

			// Items
			r.Route("/items", func(r chi.Router) {
				r.Post("/", itemHandler.Create)
				r.Get("/", itemHandler.List)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", itemHandler.Get)
					r.Put("/", itemHandler.Update)
					r.Delete("/", itemHandler.Delete)
					r.Post("/vote", itemHandler.Vote)
				})
			})

			// Conversations
			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", conversationHandler.Open)
				r.Get("/", conversationHandler.List)
				r.Get("/unread-count", conversationHandler.UnreadCount)
				r.Get("/stream", streamHandler.Conversations)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/messages", conversationHandler.Messages)
					r.Post("/messages", conversationHandler.Send)
					r.Post("/read", conversationHandler.MarkRead)
					r.Get("/stream", streamHandler.Messages)
				})
			})

			// Exchanges
			r.Route("/exchanges", func(r chi.Router) {
				r.Post("/", exchangeHandler.Propose)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", exchangeHandler.Get)
					r.Post("/accept", exchangeHandler.Accept)
					r.Post("/refuse", exchangeHandler.Refuse)
				})
			})

			// Description generation
			r.Post("/describe", describeHandler.Generate)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
