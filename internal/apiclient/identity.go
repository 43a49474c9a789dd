package apiclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/retry"
)

// ErrIdentityUnavailable - идентификатор пользователя пока не появился.
var ErrIdentityUnavailable = errors.New("user identity is not available")

// IdentityProvider отдает идентификатор пользователя для подписи.
// Пустая строка означает анонимный запрос (в подпись уходит 0).
type IdentityProvider interface {
	UserID(ctx context.Context) (string, error)
}

// StaticIdentity - заранее известный идентификатор.
type StaticIdentity string

func (s StaticIdentity) UserID(context.Context) (string, error) {
	return string(s), nil
}

// FileIdentity читает идентификатор из файла, который записывает сессия входа.
type FileIdentity struct {
	path string
}

func NewFileIdentity(path string) *FileIdentity {
	return &FileIdentity{path: path}
}

func (f *FileIdentity) UserID(context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrIdentityUnavailable
	}
	if err != nil {
		return "", fmt.Errorf("reading user id file: %w", err)
	}

	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", ErrIdentityUnavailable
	}
	return id, nil
}

// RetryingIdentity опрашивает вложенный провайдер, пока тот не вернет идентификатор,
// и запоминает первый успешный результат.
type RetryingIdentity struct {
	next     IdentityProvider
	retryCfg retry.RetryConfig
	log      *zap.Logger

	mu     sync.Mutex
	cached string
}

func NewRetryingIdentity(next IdentityProvider, cfg retry.RetryConfig, log *zap.Logger) *RetryingIdentity {
	cfg.IsRetryableFn = func(err error) bool {
		return errors.Is(err, ErrIdentityUnavailable)
	}

	return &RetryingIdentity{
		next:     next,
		retryCfg: cfg,
		log:      log,
	}
}

func (r *RetryingIdentity) UserID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != "" {
		return r.cached, nil
	}

	var id string
	err := retry.Do(ctx, r.retryCfg, func() error {
		got, err := r.next.UserID(ctx)
		if err != nil {
			r.log.Debug("user id lookup failed", zap.Error(err))
			return err
		}
		if got == "" {
			return ErrIdentityUnavailable
		}
		id = got
		return nil
	})
	if err != nil {
		return "", err
	}

	r.cached = id
	return id, nil
}
