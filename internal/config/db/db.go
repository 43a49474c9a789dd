// Package db подключает хранилище динамических правил к Postgres
// и накатывает схему таблицы dynamic_rules.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

const (
	applicationName = "dynrules-signer"
	connectTimeout  = 5 * time.Second
	pingTimeout     = 2 * time.Second
	maxConns        = 4
)

var errNotConnected = errors.New("rules database is not connected")

// Database - пул соединений к базе с правилами.
type Database struct {
	Pool *pgxpool.Pool
}

// Open подключается по dsn и проверяет соединение. Если база недоступна,
// сервер продолжает работу на хранилище в памяти.
func Open(ctx context.Context, dsn string, log *zap.Logger) (*Database, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing rules database DSN: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = 1
	cfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to rules database: %w", err)
	}

	db := &Database{Pool: pool}
	if err := db.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("rules database ping: %w", err)
	}

	log.Info("rules database connected",
		zap.String("host", cfg.ConnConfig.Host),
		zap.String("database", cfg.ConnConfig.Database),
	)
	return db, nil
}

func (db *Database) Ping(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return errNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return db.Pool.Ping(ctx)
}

func (db *Database) Close() {
	if db != nil && db.Pool != nil {
		db.Pool.Close()
	}
}
