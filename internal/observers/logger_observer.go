package observers

import (
	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

type LoggerObserver struct {
	logger *zap.Logger
}

func NewLoggerObserver(logger *zap.Logger) *LoggerObserver {
	return &LoggerObserver{
		logger: logger,
	}
}

func (l *LoggerObserver) OnSignatureIssued(event model.SignatureIssuedEvent) {
	l.logger.Info("Signature issued",
		zap.String("id", event.ID),
		zap.String("path", event.Path),
		zap.String("user_id", event.UserID),
		zap.Int64("sign_time", event.SignTime),
		zap.String("revision", event.Revision),
	)
}
