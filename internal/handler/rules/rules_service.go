package rules

import (
	"context"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

type RulesService interface {
	Status(ctx context.Context) model.RulesStatus
	Refresh(ctx context.Context) (*model.RulesEnvelope, error)
}
