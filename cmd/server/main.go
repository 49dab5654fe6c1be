package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iyffa/internal/config"
	"iyffa/internal/domain/article"
	"iyffa/internal/domain/auth"
	"iyffa/internal/domain/billing"
	"iyffa/internal/domain/event"
	"iyffa/internal/domain/mailer"
	"iyffa/internal/domain/member"
	"iyffa/internal/domain/project"
	"iyffa/internal/infra/queue"
	"iyffa/internal/infra/ratelimit"
	"iyffa/internal/infra/store"
	"iyffa/internal/router"

	"github.com/hibiken/asynq"
)

// queueEnqueuer adapts the asynq client to the mailer.Enqueuer interface.
type queueEnqueuer struct {
	client   *asynq.Client
	maxRetry int
}

func (q *queueEnqueuer) EnqueueSendMail(logID string) error {
	return queue.EnqueueSendMail(q.client, logID, q.maxRetry)
}

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "port", cfg.Server.Port, "mode", cfg.Server.Mode)

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Supabase stores
	supaClient, err := store.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		slog.Error("failed to initialize supabase client", "error", err)
		os.Exit(1)
	}
	slog.Info("supabase client initialized")

	mailStore := store.NewMailLogStore(supaClient)
	memberStore := store.NewMemberStore(supaClient)
	articleStore := store.NewArticleStore(supaClient)
	projectStore := store.NewProjectStore(supaClient)
	eventStore := store.NewEventStore(supaClient)
	billingStore := store.NewBillingStore(supaClient)

	// Asynq Client (for enqueuing mail tasks)
	asynqClient := queue.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer asynqClient.Close()
	slog.Info("asynq client initialized", "redis", cfg.Redis.Address)

	// Recipient Rate Limiter
	recipientLimiter := ratelimit.NewRedisRecipientLimiter(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.RecipientRateLimit.MaxPerHour,
	)
	defer recipientLimiter.Close()

	// Enqueuer adapter
	enqueuer := &queueEnqueuer{
		client:   asynqClient,
		maxRetry: cfg.Queue.MaxRetry,
	}

	// Services
	mailerService := mailer.NewService(mailStore, enqueuer, recipientLimiter)

	tokens := auth.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTTLMin)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLMin)*time.Minute,
	)
	authService := auth.NewService(memberStore, tokens, mailerService, cfg.App.BaseURL)

	memberService := member.NewService(memberStore, mailerService, cfg.App.BaseURL,
		articleStore, eventStore, projectStore)
	articleService := article.NewService(articleStore)
	projectService := project.NewService(projectStore, projectStore)
	eventService := event.NewService(eventStore, eventStore, mailerService, memberStore, cfg.App.BaseURL)
	billingService := billing.NewService(
		billing.Config{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
		},
		billingStore, billingStore, mailerService, memberService, eventService, cfg.App.BaseURL,
	)

	// Router
	r := router.New(cfg, tokens, router.Handlers{
		Auth:    auth.NewHandler(authService),
		Member:  member.NewHandler(memberService),
		Article: article.NewHandler(articleService),
		Project: project.NewHandler(projectService),
		Event:   event.NewHandler(eventService),
		Billing: billing.NewHandler(billingService),
		Mailer:  mailer.NewHandler(mailerService),
	})

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
