package sign

import (
	"context"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

// SignService вычисляет подпись запроса по текущим динамическим правилам.
type SignService interface {
	Sign(ctx context.Context, req model.SignRequest) (*model.SignatureResult, error)
}
