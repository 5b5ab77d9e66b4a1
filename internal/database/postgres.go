package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/accuro-ph/accuro-api/internal/config"
)

// ConnectPostgres establishes a connection to the PostgreSQL database using the provided DSN.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}

// ConnectSQLite opens the SQLite database at the provided path or DSN.
func ConnectSQLite(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite dsn must not be empty")
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return db, nil
}

// ConnectSQL opens the SQL database selected by the storage driver.
func ConnectSQL(cfg config.Config) (*gorm.DB, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		return ConnectPostgres(cfg.DatabaseURL)
	case config.StorageDriverSQLite:
		return ConnectSQLite(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("storage driver %q is not backed by sql", cfg.StorageDriver)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
}
