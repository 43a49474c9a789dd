package signer

import "errors"

var (
	// ErrInvalidInput - URL не разбирается или набор правил неполный.
	ErrInvalidInput = errors.New("invalid signing input")
	// ErrHashFailure - примитив хеширования отказал.
	ErrHashFailure = errors.New("digest failure")
)
