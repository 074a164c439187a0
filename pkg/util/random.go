package util

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

// GenerateConfirmationCode returns a random 6-digit code in [100000, 999999].
func GenerateConfirmationCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	return 100000 + int(n.Int64()), nil
}

// GenerateSecureToken returns n random bytes hex-encoded and uppercased.
// Confirmation and reset tokens use n=32 (256 bits of entropy).
func GenerateSecureToken(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(bytes)), nil
}
