package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Billy-Davies-2/spirit11-ui/internal/auth"
	"github.com/Billy-Davies-2/spirit11-ui/internal/backend"
	"github.com/Billy-Davies-2/spirit11-ui/internal/clickhouse"
	"github.com/Billy-Davies-2/spirit11-ui/internal/config"
	"github.com/Billy-Davies-2/spirit11-ui/internal/dal"
	grpcserver "github.com/Billy-Davies-2/spirit11-ui/internal/grpc"
	"github.com/Billy-Davies-2/spirit11-ui/internal/handlers"
	"github.com/Billy-Davies-2/spirit11-ui/internal/leaderboard"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/mocks"
	"github.com/Billy-Davies-2/spirit11-ui/internal/notify"
	"github.com/Billy-Davies-2/spirit11-ui/internal/pubsub"
	"github.com/Billy-Davies-2/spirit11-ui/internal/session"
)

const (
	sweepInterval   = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// standingsStore records leaderboard snapshots and serves team history
type standingsStore interface {
	leaderboard.History
	handlers.TeamHistory
	Close() error
}

func run(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting Spirit11 dashboard service", "environment", cfg.Environment, "backend", cfg.Backend.URL)

	var checks []handlers.HealthCheck

	// Chat transcripts
	transcripts, err := dal.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize chat store: %w", err)
	}
	defer transcripts.Close()

	// Event bus: embedded NATS in development, JetStream cluster in production
	var upstream interface {
		pubsub.Upstream
		Connected() bool
	}
	if cfg.IsDevelopment() {
		logger.Info("Starting embedded NATS server for local development")
		embedded, err := pubsub.NewEmbeddedNATSPubSub(pubsub.EmbeddedNATSOptions{
			Port:       0,
			Subject:    cfg.NATS.Subject,
			StreamName: cfg.NATS.Stream,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize embedded NATS: %w", err)
		}
		defer embedded.Close()
		upstream = embedded
		logger.Info("Embedded NATS server ready", "url", embedded.GetServerURL())
	} else {
		nc, err := pubsub.NewNATSPubSub(pubsub.NATSOptions{
			URL:     cfg.NATS.URL,
			Subject: cfg.NATS.Subject,
			Stream:  cfg.NATS.Stream,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize NATS: %w", err)
		}
		defer nc.Close()
		upstream = nc
		logger.Info("Connected to NATS", "url", cfg.NATS.URL)
	}
	ps := pubsub.NewWithUpstream(upstream)
	checks = append(checks, handlers.ConnectionCheck("nats", true, upstream))

	// Sessions
	var sessions session.Store
	if cfg.Redis.URL != "" {
		rs, err := session.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis session store: %w", err)
		}
		defer rs.Close()
		sessions = rs
		checks = append(checks, handlers.HealthCheck{Name: "redis", Critical: true, Check: rs.Ping})
		logger.Info("Using Redis session store")
	} else {
		sessions = session.NewMemoryStore()
		logger.Info("Using in-memory session store")
	}

	// Standings history
	var history standingsStore
	if cfg.IsDevelopment() {
		history = mocks.NewMockStandingsHistory()
	} else {
		ch, err := clickhouse.NewClient(ctx, cfg.ClickHouse.Addr, cfg.ClickHouse.Database, cfg.ClickHouse.Username, cfg.ClickHouse.Password)
		if err != nil {
			return fmt.Errorf("failed to initialize ClickHouse: %w", err)
		}
		history = ch
		checks = append(checks, handlers.HealthCheck{Name: "clickhouse", Check: ch.Ping})
		logger.Info("Connected to ClickHouse", "address", cfg.ClickHouse.Addr, "database", cfg.ClickHouse.Database)
	}
	defer history.Close()

	client := backend.New(cfg.Backend.URL, cfg.Backend.Timeout)
	manager := auth.NewManager(client, sessions, cfg.Session.TTL, cfg.Session.SecureCookie)
	viewer := leaderboard.NewViewer(history)
	workspaces := handlers.NewWorkspaces(transcripts, cfg.Roster.DefaultBudget)

	// Backend push channel
	watcher := notify.NewWatcher(notify.Options{URL: cfg.BackendWSURL()}, ps)
	checks = append(checks, handlers.ConnectionCheck("backend_push", false, watcher))

	api := handlers.NewAPI(handlers.Options{
		Auth:        manager,
		PubSub:      ps,
		Workspaces:  workspaces,
		Viewer:      viewer,
		History:     history,
		Checks:      checks,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.HTTP.Port,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpcserver.NewGRPCServer(grpcserver.NewServer(manager, viewer, ps))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watcher.Run(gctx)
	})

	g.Go(func() error {
		workspaces.Follow(gctx, ps)
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := workspaces.Sweep(cfg.Session.TTL); n > 0 {
					logger.Info("Dropped idle workspaces", "count", n)
				}
			}
		}
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", "0.0.0.0:"+cfg.GRPC.Port)
		if err != nil {
			return fmt.Errorf("failed to listen for gRPC: %w", err)
		}
		logger.Info("gRPC server starting", "address", lis.Addr().String())
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		logger.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
