package effect

import (
	"crypto/rand"
	"math/big"
)

// Source produces uniform random draws for chance rolls. Implementations
// must return values in [0, 1).
type Source interface {
	Float64() float64
}

// drawBits is the resolution of a crypto-backed draw: 53 bits matches the
// mantissa of a float64, so every representable value in [0,1) is reachable.
const drawBits = 1 << 53

// cryptoSource implements Source using crypto/rand.
//
// Invariant: all values produced are uniformly distributed in [0, 1).
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: every value returned by Float64 is in [0, 1).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Float64 returns a cryptographically secure uniform draw in [0, 1).
//
// Panics with "effect: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Float64() float64 {
	val, err := rand.Int(rand.Reader, big.NewInt(drawBits))
	if err != nil {
		panic("effect: crypto/rand failure: " + err.Error())
	}
	return float64(val.Int64()) / float64(drawBits)
}
