// Package id generates the random identifiers used for permit numbers, one-time
// codes, badge numbers and audit event ids.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	upperAlnum = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits     = "0123456789"
	upperHex   = "0123456789ABCDEF"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

// Generate creates a random short ID with the specified length using Base62 encoding.
func Generate(length int) (string, error) {
	return fromAlphabet(alphabet, length)
}

// GenerateDigits returns length crypto-random decimal digits, leading zeros included.
func GenerateDigits(length int) (string, error) {
	return fromAlphabet(digits, length)
}

// GenerateHex returns length crypto-random upper-case hex characters.
func GenerateHex(length int) (string, error) {
	return fromAlphabet(upperHex, length)
}

// GenerateUpper returns length crypto-random characters from 0-9A-Z.
func GenerateUpper(length int) (string, error) {
	return fromAlphabet(upperAlnum, length)
}

func fromAlphabet(set string, length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	setLen := big.NewInt(int64(len(set)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, setLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = set[num.Int64()]
	}

	return string(result), nil
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewEventID returns a lexicographically sortable identifier for the given instant.
func NewEventID(at time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), entropy).String()
}
