package rules

import (
	"context"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

//go:generate mockgen -destination=../mocks/source_mock.go -package=mocks . Source

// Source - откуда берутся свежие динамические правила.
type Source interface {
	Fetch(ctx context.Context) (*model.RulesEnvelope, error)
}
