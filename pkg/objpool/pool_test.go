package objpool

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_ResetsOnPut(t *testing.T) {
	pool := New(func() *bytes.Buffer { return new(bytes.Buffer) })

	buf := pool.Get()
	buf.WriteString("dirty")
	pool.Put(buf)

	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, 0, pool.Get().Len())
}

func TestPool_Hash(t *testing.T) {
	pool := New(sha256.New)

	h := pool.Get()
	h.Write([]byte("first"))
	pool.Put(h)

	var reused hash.Hash = pool.Get()
	reused.Write([]byte("abc"))

	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		hex.EncodeToString(reused.Sum(nil)),
	)
}

func TestPool_Do(t *testing.T) {
	pool := New(sha256.New)

	var sum string
	err := pool.Do(func(h hash.Hash) error {
		h.Write([]byte("abc"))
		sum = hex.EncodeToString(h.Sum(nil))
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)

	failure := errors.New("write failed")
	err = pool.Do(func(h hash.Hash) error {
		h.Write([]byte("dirty"))
		return failure
	})
	assert.ErrorIs(t, err, failure)

	clean := pool.Get()
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", hex.EncodeToString(clean.Sum(nil)))
}
