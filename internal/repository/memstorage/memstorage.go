package memstorage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/service"
	"go.uber.org/zap"
)

var _ service.RulesStorage = (*memStorage)(nil)

type memStorage struct {
	mu       sync.RWMutex
	rules    *model.RulesEnvelope
	filePath string
	log      *zap.Logger
}

// NewMemStorage создает хранилище в памяти. Если filePath не пустой,
// правила восстанавливаются из файла и сохраняются в него при каждом обновлении.
func NewMemStorage(filePath string, log *zap.Logger) service.RulesStorage {
	storage := &memStorage{
		filePath: filePath,
		log:      log,
	}

	if filePath != "" {
		if err := storage.LoadFromFile(filePath); err != nil {
			log.Warn("failed to restore rules from file", zap.String("path", filePath), zap.Error(err))
		}
	}

	return storage
}

func (m *memStorage) SaveRules(ctx context.Context, env *model.RulesEnvelope) error {
	if env == nil {
		return fmt.Errorf("nil rules envelope")
	}

	cp := *env
	cp.Rules.ChecksumIndexes = append([]int(nil), env.Rules.ChecksumIndexes...)

	m.mu.Lock()
	m.rules = &cp
	m.mu.Unlock()

	if m.filePath != "" {
		if err := m.SaveToFile(m.filePath); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStorage) LoadRules(ctx context.Context) (*model.RulesEnvelope, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.rules == nil {
		return nil, false, nil
	}

	cp := *m.rules
	cp.Rules.ChecksumIndexes = append([]int(nil), m.rules.Rules.ChecksumIndexes...)
	return &cp, true, nil
}

func (m *memStorage) SaveToFile(path string) error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m.rules, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create rules dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write rules file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace rules file: %w", err)
	}

	m.log.Debug("rules saved to file", zap.String("path", path))
	return nil
}

func (m *memStorage) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		m.log.Info("rules file does not exist yet", zap.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}

	env, err := model.DecodeRulesEnvelope(data)
	if err != nil {
		return fmt.Errorf("decode rules file: %w", err)
	}

	m.mu.Lock()
	m.rules = env
	m.mu.Unlock()

	m.log.Info("rules restored from file",
		zap.String("path", path),
		zap.String("revision", env.Rules.Revision),
	)
	return nil
}

func (m *memStorage) Close() error {
	return nil
}
