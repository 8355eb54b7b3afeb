// Package hash2curve maps byte strings to curve points by try-and-increment.
//
// The map is deterministic and public: anybody can re-derive the points from
// the message alone, and nobody knows their discrete logarithms.
package hash2curve

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/pvc/internal/params"
	"github.com/taurusgroup/pvc/pkg/math/curve"
)

type Error string

const (
	// ErrNonTermination is returned when no point was found within the attempt bound.
	ErrNonTermination Error = "search exceeded the attempt bound"
	// ErrUnsupportedField is returned for fields where p ≢ 3 (mod 4).
	ErrUnsupportedField Error = "field prime is not 3 mod 4"
)

func (e Error) Error() string {
	return fmt.Sprintf("hash2curve: %s", string(e))
}

type config struct {
	newHash     func() hash.Hash
	maxAttempts int
}

// Option configures MapToCurve.
type Option func(*config)

// WithHash replaces SHA-256 by another fixed output hash function.
// Changing it changes every derived point.
func WithHash(newHash func() hash.Hash) Option {
	return func(c *config) {
		c.newHash = newHash
	}
}

// WithMaxAttempts sets the number of candidates tried before giving up.
// It never changes the point found, only whether one is found.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		c.maxAttempts = n
	}
}

// Result is a successful mapping, with the number of candidates it took.
type Result struct {
	Point    curve.Point
	Attempts int
}

// MapToCurve hashes msg to an x coordinate, then increments x until
// x³ + b is a square mod p, and returns the point (x, √(x³ + b)).
//
// The square root is computed as (x³ + b)^((p+1)/4), so p ≡ 3 (mod 4) is required.
// No parity normalization is applied to y.
func MapToCurve(group curve.Curve, msg []byte, opts ...Option) (*Result, error) {
	c := config{newHash: sha256.New, maxAttempts: params.MaxMapToCurveAttempts}
	for _, opt := range opts {
		opt(&c)
	}

	exp, err := sqrtExponent(group.Field())
	if err != nil {
		return nil, err
	}

	h := c.newHash()
	_, _ = h.Write(msg)
	x := curve.FieldElementFromBytes(group.Field(), h.Sum(nil))
	one := curve.FieldElementFromUint64(group.Field(), 1)

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		rhs := x.Square().Mul(x).Add(group.B())
		y := rhs.Exp(exp)
		if y.Square().Equal(rhs) {
			p, err := group.LiftXY(x, y)
			if err != nil {
				return nil, fmt.Errorf("hash2curve: %w", err)
			}
			return &Result{Point: p, Attempts: attempt}, nil
		}
		x = x.Add(one)
	}
	return nil, fmt.Errorf("%w (%d attempts for %q)", ErrNonTermination, c.maxAttempts, msg)
}

// sqrtExponent returns (p+1)/4.
func sqrtExponent(p *saferith.Modulus) (*saferith.Nat, error) {
	pBig := p.Big()
	if pBig.Bit(0) != 1 || pBig.Bit(1) != 1 {
		return nil, ErrUnsupportedField
	}
	e := new(big.Int).Add(pBig, big.NewInt(1))
	e.Rsh(e, 2)
	return new(saferith.Nat).SetBig(e, e.BitLen()), nil
}
