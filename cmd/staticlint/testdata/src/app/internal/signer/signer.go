package signer

import (
	"crypto/sha1"
	"encoding/hex"
)

func Digest(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
