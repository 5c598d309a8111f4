package promotion_code

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	CodeLength   = 6
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"
)

// Generator produces candidate promotion codes. Codes are not checked for
// uniqueness; Stripe rejects duplicates.
type Generator interface {
	Generate() (string, error)
}

type RandomGenerator struct {
	reader io.Reader
}

func NewRandomGenerator() Generator {
	return &RandomGenerator{reader: rand.Reader}
}

// Generate draws every position independently and uniformly from CodeAlphabet.
func (g *RandomGenerator) Generate() (string, error) {

	alphabetSize := big.NewInt(int64(len(CodeAlphabet)))
	code := make([]byte, CodeLength)

	for i := range code {
		n, err := rand.Int(g.reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate promotion code: %w", err)
		}
		code[i] = CodeAlphabet[n.Int64()]
	}

	return string(code), nil
}
