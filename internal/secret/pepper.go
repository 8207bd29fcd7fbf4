// Where: deliriumctl/internal/secret/pepper.go
// What: Secret pepper generation and validation.
// Why: The server derives paste keys from this value, so generation must be
//      strong when possible and honest about the source when it is not.
package secret

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"
	"regexp"
	"time"

	"github.com/delirium-paste/deliriumctl/internal/constants"
)

// Source identifies which randomness source produced a pepper.
type Source int

const (
	// SourceCryptoRand marks a pepper drawn from the OS entropy pool.
	SourceCryptoRand Source = iota
	// SourceFallback marks a pepper from the time-seeded fallback generator.
	// Callers must surface this as a warning; it never aborts a deployment.
	SourceFallback
)

// String names the source for warnings and logs.
func (s Source) String() string {
	if s == SourceFallback {
		return "time-seeded fallback"
	}
	return "crypto/rand"
}

// Pepper couples a generated value with its randomness source.
type Pepper struct {
	Value  string
	Source Source
}

var validPepper = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// readRandom is a seam so tests can force the fallback path.
var readRandom = rand.Read

// Generate produces a pepper of the required hex length. It prefers the OS
// entropy pool and degrades to a time-seeded generator when that fails.
func Generate() Pepper {
	raw := make([]byte, constants.PepperLength/2)
	if _, err := readRandom(raw); err != nil {
		return Pepper{Value: fallbackHex(constants.PepperLength), Source: SourceFallback}
	}
	return Pepper{Value: hex.EncodeToString(raw), Source: SourceCryptoRand}
}

// Valid reports whether value is a well-formed pepper.
func Valid(value string) bool {
	return validPepper.MatchString(value)
}

// Mask renders a pepper for display without revealing it.
func Mask(value string) string {
	if len(value) < 8 {
		return "…"
	}
	return value[:4] + "…"
}

func fallbackHex(length int) string {
	const digits = "0123456789abcdef"
	src := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	out := make([]byte, length)
	for i := range out {
		out[i] = digits[src.Intn(len(digits))]
	}
	return string(out)
}
