package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// GeneratePIN returns a random 4-digit code, zero-padded. The pin is a
// low-stakes identity check between rider and driver, not a secret, but it is
// still drawn from crypto/rand.
func GeneratePIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// VerifyPIN compares a presented pin against the stored one in constant time.
func VerifyPIN(stored, presented string) bool {
	if len(stored) != len(presented) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
