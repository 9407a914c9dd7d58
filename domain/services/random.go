package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"gemwheel/domain/interfaces"
)

type cryptoRandom struct{}

// NewCryptoRandom returns a RandomSource backed by crypto/rand
func NewCryptoRandom() interfaces.RandomSource {
	return cryptoRandom{}
}

func (cryptoRandom) Int63n(n int64) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid random bound %d", n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0, fmt.Errorf("failed to read random number: %w", err)
	}
	return v.Int64(), nil
}
