package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
	"go.uber.org/zap"
)

// Migrator накатывает схему dynamic_rules из каталога миграций.
type Migrator struct {
	dsn string
	dir string
	log *zap.Logger
}

func NewMigrator(dsn, dir string, log *zap.Logger) *Migrator {
	return &Migrator{dsn: dsn, dir: dir, log: log}
}

// Up применяет недостающие миграции и пишет в лог итоговую версию схемы.
func (m *Migrator) Up() error {
	if _, err := os.Stat(m.dir); err != nil {
		return fmt.Errorf("rules migrations directory %q: %w", m.dir, err)
	}

	conn, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return fmt.Errorf("opening rules database for migrations: %w", err)
	}
	defer conn.Close()

	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("creating migrate driver: %w", err)
	}

	mg, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(m.dir), "postgres", driver)
	if err != nil {
		return fmt.Errorf("loading rules migrations: %w", err)
	}

	upErr := mg.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("applying rules migrations: %w", upErr)
	}

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("reading rules schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("rules schema version %d is dirty", version)
	}

	m.log.Info("rules schema is up to date",
		zap.Uint("version", version),
		zap.Bool("changed", upErr == nil),
	)
	return nil
}
