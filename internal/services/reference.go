package services

import (
	"crypto/rand"
	"math/big"
)

const (
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength   = 6
)

// ReferenceGenerator returns the random part of an order reference.
type ReferenceGenerator func() (string, error)

// RandomReference draws referenceLength characters from [A-Z0-9] using crypto/rand.
func RandomReference() (string, error) {
	max := big.NewInt(int64(len(referenceAlphabet)))
	buf := make([]byte, referenceLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = referenceAlphabet[n.Int64()]
	}
	return string(buf), nil
}
