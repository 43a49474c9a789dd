package observers

import (
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

// FileObserver пишет события в файл в формате JSON Lines.
type FileObserver struct {
	file     *os.File
	filePath string
	log      *zap.Logger
	mu       sync.Mutex
}

func NewFileObserver(filePath string, log *zap.Logger) (*FileObserver, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return &FileObserver{
		file:     file,
		filePath: filePath,
		log:      log,
	}, nil
}

// Close закрывает файл при завершении работы
func (f *FileObserver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}

	if err := f.file.Sync(); err != nil {
		f.log.Warn("Sync failed on close", zap.Error(err))
	}

	if err := f.file.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}

	f.file = nil
	f.log.Info("File observer closed", zap.String("path", f.filePath))
	return nil
}

func (f *FileObserver) OnSignatureIssued(event model.SignatureIssuedEvent) {
	line, err := json.Marshal(event)
	if err != nil {
		f.log.Error("Error marshaling audit event", zap.Error(err))
		return
	}
	line = append(line, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		f.log.Warn("Audit event dropped, file observer is closed", zap.String("id", event.ID))
		return
	}

	if _, err := f.file.Write(line); err != nil {
		f.log.Error("Error writing audit event", zap.Error(err))
	}
}
