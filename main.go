package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Billy-Davies-2/spirit11-ui/internal/clickhouse"
	"github.com/Billy-Davies-2/spirit11-ui/internal/config"
	"github.com/Billy-Davies-2/spirit11-ui/internal/dal"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/mocks"
)

func main() {
	app := &cli.App{
		Name:  "spirit11-ui",
		Usage: "participant and admin dashboards for the Spirit11 fantasy cricket contest",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to an optional YAML configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP and gRPC servers",
				Action: serveAction,
			},
			{
				Name:  "mock-backend",
				Usage: "run an in-memory Spirit11 backend for local development",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: "127.0.0.1:8080", Usage: "listen address"},
				},
				Action: mockBackendAction,
			},
			{
				Name:   "migrate",
				Usage:  "create the chat transcript and standings history schemas",
				Action: migrateAction,
			},
		},
		Action: serveAction,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("Exiting", "error", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel)
	return cfg, nil
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return run(c.Context, cfg)
}

func mockBackendAction(c *cli.Context) error {
	logger.Init("debug")
	addr := c.String("addr")
	logger.Info("Mock backend listening", "address", addr,
		"admin", mocks.AdminUsername, "participant", mocks.UserUsername)
	srv := &http.Server{Addr: addr, Handler: mocks.NewBackend(), ReadHeaderTimeout: 10 * time.Second}
	return srv.ListenAndServe()
}

// migrateAction opens each store once; their constructors create missing tables.
func migrateAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	store, err := dal.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("chat store: %w", err)
	}
	if err := store.Close(); err != nil {
		return err
	}
	logger.Info("Chat transcript schema ready", "driver", cfg.Database.Driver)

	if cfg.IsDevelopment() {
		logger.Info("Skipping ClickHouse schema in development")
		return nil
	}
	ctx, cancel := context.WithTimeout(c.Context, cfg.Backend.Timeout)
	defer cancel()
	ch, err := clickhouse.NewClient(ctx, cfg.ClickHouse.Addr, cfg.ClickHouse.Database, cfg.ClickHouse.Username, cfg.ClickHouse.Password)
	if err != nil {
		return fmt.Errorf("clickhouse: %w", err)
	}
	logger.Info("Standings history schema ready", "address", cfg.ClickHouse.Addr)
	return ch.Close()
}
