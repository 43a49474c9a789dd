package service

import (
	"context"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

//go:generate mockgen -destination=../mocks/storage_mock.go -package=mocks . RulesStorage,CheckedRulesStorage

// RulesStorage хранит последний полученный набор динамических правил.
type RulesStorage interface {
	SaveRules(ctx context.Context, env *model.RulesEnvelope) error
	// LoadRules возвращает false, если правила еще не сохранялись.
	LoadRules(ctx context.Context) (*model.RulesEnvelope, bool, error)
	Close() error
}

// CheckedRulesStorage - хранилище, умеющее проверять соединение (Postgres).
type CheckedRulesStorage interface {
	RulesStorage
	Ping(ctx context.Context) error
}
