package rules

import (
	"context"
	"fmt"
	"os"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

// FileSource читает правила из JSON-файла в том же формате, что отдает провайдер.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(_ context.Context) (*model.RulesEnvelope, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	env, err := model.DecodeRulesEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", s.path, err)
	}
	if err := env.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", s.path, err)
	}

	if env.UpdatedAt.IsZero() {
		if info, err := os.Stat(s.path); err == nil {
			env.UpdatedAt = info.ModTime().UTC()
		}
	}

	return env, nil
}
