package sha1use

import (
	"crypto/sha1" // want `crypto/sha1 should only be imported by the signer package`
	"fmt"
)

func digest(s string) string {
	return fmt.Sprintf("%x", sha1.Sum([]byte(s)))
}
