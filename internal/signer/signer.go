// Package signer вычисляет подпись запросов по набору динамических правил:
// SHA-1 от канонического сообщения плюс контрольная сумма по выбранным символам хеша.
package signer

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	"github.com/kazakovdmitriy/go-dynrules-signer/pkg/objpool"
)

const hashHexLen = sha1.Size * 2

// Signer не хранит изменяемого состояния и безопасен для конкурентного использования.
type Signer struct {
	now     func() time.Time
	newHash func() hash.Hash
	hashes  *objpool.Pool[hash.Hash]
}

type Option func(*Signer)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}

// WithHash подменяет конструктор хеш-функции.
func WithHash(newHash func() hash.Hash) Option {
	return func(s *Signer) {
		s.newHash = newHash
	}
}

func NewSigner(opts ...Option) *Signer {
	s := &Signer{
		now:     time.Now,
		newHash: sha1.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hashes = objpool.New(s.newHash)
	return s
}

// Sign подписывает fullURL для пользователя userID.
// timestamp == 0 означает "не задан": берется текущее время в миллисекундах.
// Отрицательное значение подписывается как есть.
// Пустой userID заменяется на "0".
func (s *Signer) Sign(fullURL, userID string, timestamp int64, rules *model.RuleSet) (*model.SignatureResult, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	target, err := requestTarget(fullURL)
	if err != nil {
		return nil, err
	}

	if timestamp == 0 {
		timestamp = s.now().UnixMilli()
	}
	if userID == "" {
		userID = "0"
	}

	msg := strings.Join([]string{
		rules.StaticParam,
		strconv.FormatInt(timestamp, 10),
		target,
		userID,
	}, "\n")

	shaHash, err := s.digest(msg)
	if err != nil {
		return nil, err
	}

	checksum, err := Checksum(shaHash, rules.ChecksumIndexes, rules.ChecksumConstant)
	if err != nil {
		return nil, err
	}

	sign := strings.Join([]string{rules.Start, shaHash, checksum, rules.End}, ":")

	return &model.SignatureResult{Sign: sign, Time: timestamp}, nil
}

func (s *Signer) digest(msg string) (string, error) {
	var sum string
	err := s.hashes.Do(func(h hash.Hash) error {
		if _, err := h.Write([]byte(msg)); err != nil {
			return fmt.Errorf("%w: %v", ErrHashFailure, err)
		}
		sum = hex.EncodeToString(h.Sum(nil))
		return nil
	})
	if err != nil {
		return "", err
	}

	if len(sum) != hashHexLen {
		return "", fmt.Errorf("%w: unexpected digest length %d", ErrHashFailure, len(sum))
	}
	return sum, nil
}

// Checksum суммирует коды символов hexHash по индексам, прибавляет constant
// и возвращает модуль суммы в шестнадцатеричном виде.
func Checksum(hexHash string, indexes []int, constant int64) (string, error) {
	sum := big.NewInt(constant)
	for _, idx := range indexes {
		if idx < 0 || idx >= len(hexHash) {
			return "", fmt.Errorf("%w: checksum index %d out of range [0, %d)", ErrInvalidInput, idx, len(hexHash))
		}
		sum.Add(sum, big.NewInt(int64(hexHash[idx])))
	}

	// сумма может выйти за пределы int64 при крайних значениях constant
	return sum.Abs(sum).Text(16), nil
}
