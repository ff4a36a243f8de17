package retrievalcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// 0/O and 1/I are excluded so codes survive being read over a phone.
// 32^6 is still north of a billion combinations.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const DefaultLength = 6

// New returns a random alphanumeric code of n characters.
func New(n int) (string, error) {
	if n <= 0 {
		n = DefaultLength
	}
	buf := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("retrievalcode: %w", err)
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}
