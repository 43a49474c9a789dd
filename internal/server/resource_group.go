package server

import (
	"errors"
	"io"

	"go.uber.org/zap"
)

// ResourceGroup закрывает зарегистрированные ресурсы в обратном порядке.
type ResourceGroup struct {
	closers []namedCloser
	log     *zap.Logger
}

type namedCloser struct {
	name string
	io.Closer
}

// CloserFunc позволяет зарегистрировать функцию как io.Closer.
type CloserFunc func() error

func (f CloserFunc) Close() error { return f() }

func NewResourceGroup(log *zap.Logger) *ResourceGroup {
	return &ResourceGroup{
		log: log,
	}
}

func (rg *ResourceGroup) Register(name string, c io.Closer) {
	rg.closers = append(rg.closers, namedCloser{name: name, Closer: c})
}

// CloseAll закрывает все ресурсы, даже если часть из них вернула ошибку.
func (rg *ResourceGroup) CloseAll() error {
	var errs []error
	for i := len(rg.closers) - 1; i >= 0; i-- {
		c := rg.closers[i]
		if err := c.Close(); err != nil {
			rg.log.Error("Resource close failed", zap.String("resource", c.name), zap.Error(err))
			errs = append(errs, err)
		}
	}
	rg.closers = nil

	return errors.Join(errs...)
}
