package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/clubops/boardroom-backend/internal/adapter/postgres"
	approvalrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/approval"
	auditrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/audit"
	ledgerrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/ledger"
	memberrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/member"
	planrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/plan"
	termrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/term"
	"github.com/clubops/boardroom-backend/internal/auth"
	"github.com/clubops/boardroom-backend/internal/config"
	"github.com/clubops/boardroom-backend/internal/policy"
	approvalsvc "github.com/clubops/boardroom-backend/internal/service/approval"
	"github.com/clubops/boardroom-backend/internal/service/transition"
	"github.com/clubops/boardroom-backend/internal/service/widget"
	"github.com/clubops/boardroom-backend/internal/transport/middleware"
	"github.com/clubops/boardroom-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires repositories, services, and the HTTP transport, and
// serves until ctx is cancelled. Shutdown is graceful within the configured
// timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	// Repositories.
	plans := planrepo.New(pool)
	approvals := approvalrepo.New(pool)
	ledger := ledgerrepo.New(pool)
	terms := termrepo.New(pool)
	members := memberrepo.New(pool)
	audit := auditrepo.New(pool)
	tx := postgres.NewTxManager(pool)

	// Policy and services.
	caps := policy.NewTable(cfg.Policy)

	transitionSvc := transition.NewService(logger, plans, ledger, terms, members, audit, tx)
	approvalSvc := approvalsvc.NewService(logger, plans, approvals, ledger, audit, tx)
	widgetSvc := widget.NewService(logger, widget.NewCalculator(cfg.Widget.LeadDays), terms, ledger, caps)

	// Transport.
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	metrics := NewMetrics()

	base := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		metrics.Instrument(),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtManager),
	}
	if cfg.Server.RateLimitPerMinute > 0 {
		rl := middleware.NewRateLimiter(time.Minute)
		defer rl.Stop()
		base = append(base, rl.Limit(cfg.Server.RateLimitPerMinute))
	}

	router := rest.NewRouter(rest.RouterDeps{
		Plans: rest.NewPlanHandler(
			&instrumentedTransition{Service: transitionSvc, m: metrics},
			&instrumentedApproval{Service: approvalSvc, m: metrics},
			logger,
		),
		Widget:  rest.NewWidgetHandler(widgetSvc, logger),
		Health:  rest.NewHealthHandler(pool, BuildVersion()),
		Metrics: metrics.Handler(),
		Caps:    caps,
		Base:    middleware.Chain(base...),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
