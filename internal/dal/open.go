package dal

import (
	"fmt"

	"github.com/Billy-Davies-2/spirit11-ui/internal/config"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
)

// Open selects a ChatDAL implementation from configuration
func Open(cfg config.DatabaseConfig) (ChatDAL, error) {
	switch cfg.Driver {
	case "postgres":
		logger.Info("Using PostgreSQL chat store")
		return NewPostgresDAL(cfg.DSN)
	case "sqlite":
		logger.Info("Using SQLite chat store", "file", cfg.SQLiteFile)
		return NewSQLiteDAL(cfg.SQLiteFile)
	case "memory", "":
		logger.Info("Using in-memory chat store")
		return NewMemoryDAL(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
