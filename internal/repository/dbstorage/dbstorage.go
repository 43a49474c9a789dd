package dbstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/handler/ping"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/retry"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/service"
	"go.uber.org/zap"
)

var _ service.RulesStorage = (*dbstorage)(nil)
var _ ping.HealthChecker = (*dbstorage)(nil)

const defaultRulesName = "default"

type dbstorage struct {
	db       *pgxpool.Pool
	log      *zap.Logger
	retryCfg retry.RetryConfig
}

func NewDBStorage(db *pgxpool.Pool, delays []time.Duration, log *zap.Logger) *dbstorage {
	return &dbstorage{
		db:  db,
		log: log,
		retryCfg: retry.RetryConfig{
			MaxRetries:    len(delays),
			Delays:        delays,
			IsRetryableFn: IsRetryable,
		},
	}
}

func (db *dbstorage) SaveRules(ctx context.Context, env *model.RulesEnvelope) error {
	if env == nil {
		return fmt.Errorf("nil rules envelope")
	}

	payload, err := json.Marshal(env.Rules)
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}

	query := `
		INSERT INTO dynamic_rules (name, payload, revision, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET payload = EXCLUDED.payload,
		    revision = EXCLUDED.revision,
		    updated_at = EXCLUDED.updated_at;
	`

	err = retry.Do(ctx, db.retryCfg, func() error {
		_, err := db.db.Exec(ctx, query, defaultRulesName, payload, env.Rules.Revision, env.UpdatedAt)
		return err
	})
	if err != nil {
		db.log.Error("failed to save rules", zap.Error(err), zap.String("revision", env.Rules.Revision))
		return fmt.Errorf("save rules: %w", err)
	}

	return nil
}

func (db *dbstorage) LoadRules(ctx context.Context) (*model.RulesEnvelope, bool, error) {
	query := `SELECT payload, updated_at FROM dynamic_rules WHERE name = $1;`

	var (
		payload   []byte
		updatedAt time.Time
	)

	err := retry.Do(ctx, db.retryCfg, func() error {
		return db.db.QueryRow(ctx, query, defaultRulesName).Scan(&payload, &updatedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load rules: %w", err)
	}

	var rules model.RuleSet
	if err := json.Unmarshal(payload, &rules); err != nil {
		return nil, false, fmt.Errorf("decode stored rules: %w", err)
	}

	return &model.RulesEnvelope{Rules: rules, UpdatedAt: updatedAt}, true, nil
}

func (db *dbstorage) Ping(ctx context.Context) error {
	if db == nil || db.db == nil {
		return fmt.Errorf("database not connected")
	}
	return db.db.Ping(ctx)
}

func (db *dbstorage) Close() error {
	db.db.Close()
	return nil
}

// IsRetryable сообщает, имеет ли смысл повторить запрос к базе.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.SerializationFailure ||
			pgErr.Code == pgerrcode.DeadlockDetected
	}
	return pgconn.Timeout(err)
}
