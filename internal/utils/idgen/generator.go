// Package idgen produces URL-safe public identifiers like "thread_Ab3xK9...".
package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSecureID returns "<prefix>_<length random chars>" using crypto/rand.
func GenerateSecureID(prefix string, length int) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("idgen: prefix is required")
	}
	if length <= 0 {
		return "", fmt.Errorf("idgen: length must be positive, got %d", length)
	}

	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("idgen: read random: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}

	return prefix + "_" + string(buf), nil
}

// ThreadID returns a new public thread identifier.
func ThreadID() (string, error) {
	return GenerateSecureID("thread", 16)
}

// MessageID returns a new public message identifier.
func MessageID() (string, error) {
	return GenerateSecureID("msg", 16)
}
