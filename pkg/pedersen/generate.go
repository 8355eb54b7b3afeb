package pedersen

import (
	"fmt"

	"github.com/taurusgroup/pvc/pkg/hash"
	"github.com/taurusgroup/pvc/pkg/hash2curve"
	"github.com/taurusgroup/pvc/pkg/math/curve"
	"golang.org/x/sync/errgroup"
)

// HLabel is the hash-to-curve input of the blinding generator.
func HLabel(seed string) []byte {
	return []byte("H|" + seed)
}

// GLabel is the hash-to-curve input of the i-th value generator.
func GLabel(i int, seed string) []byte {
	return []byte(fmt.Sprintf("G|%d|%s", i, seed))
}

// Generate derives H from "H|seed" and Gᵢ from "G|i|seed", for i = 0, …, k-1.
//
// The same group, seed, k and options always produce the same points.
// Generators are derived concurrently, since each one is independent.
func Generate(group curve.Curve, seed string, k int, opts ...hash2curve.Option) (*Parameters, error) {
	if k < 1 {
		return nil, ErrNoGenerators
	}
	labels := make([][]byte, k+1)
	labels[0] = HLabel(seed)
	for i := 0; i < k; i++ {
		labels[i+1] = GLabel(i, seed)
	}

	points := make([]curve.Point, len(labels))
	var eg errgroup.Group
	for i, label := range labels {
		i, label := i, label
		eg.Go(func() error {
			res, err := hash2curve.MapToCurve(group, label, opts...)
			if err != nil {
				return fmt.Errorf("pedersen: generator %q: %w", label, err)
			}
			points[i] = res.Point
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return New(group, seed, points[0], points[1:])
}

// CheckDerivation re-derives the generators from the seed and compares them
// with p. Verifiers use it to accept a key only if it is the public one.
func (p *Parameters) CheckDerivation(opts ...hash2curve.Option) error {
	expected, err := Generate(p.group, p.seed, len(p.g), opts...)
	if err != nil {
		return err
	}
	if !expected.h.Equal(p.h) {
		return fmt.Errorf("%w: H", ErrSeedMismatch)
	}
	for i := range p.g {
		if !expected.g[i].Equal(p.g[i]) {
			return fmt.Errorf("%w: G%d", ErrSeedMismatch, i)
		}
	}
	return nil
}

// Fingerprint returns a short digest identifying the commitment key.
// Two parties holding the same fingerprint use the same group, seed and generators.
func (p *Parameters) Fingerprint() ([]byte, error) {
	h := hash.New()
	if err := h.WriteAny(p); err != nil {
		return nil, fmt.Errorf("pedersen: fingerprint: %w", err)
	}
	return h.Sum()[:32], nil
}
