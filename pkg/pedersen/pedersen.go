package pedersen

import (
	"fmt"
	"io"
	"math/big"

	"github.com/taurusgroup/pvc/pkg/math/curve"
)

type Error string

const (
	ErrInputShape    Error = "vector length does not match the number of generators"
	ErrNilFields     Error = "contains nil field"
	ErrNoGenerators  Error = "at least one value generator is required"
	ErrDegenerate    Error = "generators must be distinct and different from the identity"
	ErrGroupMismatch Error = "points belong to different groups"
	ErrSeedMismatch  Error = "generators were not derived from the seed"
)

func (e Error) Error() string {
	return fmt.Sprintf("pedersen: %s", string(e))
}

// Parameters is a commitment key: a blinding generator H and value generators G₀, …, Gₖ₋₁.
//
// Parameters are immutable once constructed, and can be shared between goroutines.
type Parameters struct {
	group curve.Curve
	seed  string
	h     curve.Point
	g     []curve.Point
}

// New returns a set of Pedersen parameters from explicit generators.
//
// The seed is informative, and may be empty when the generators were not derived
// with Generate. New checks that all points are distinct, non-identity points
// of the same group.
func New(group curve.Curve, seed string, h curve.Point, g []curve.Point) (*Parameters, error) {
	if group == nil || h == nil {
		return nil, ErrNilFields
	}
	if len(g) == 0 {
		return nil, ErrNoGenerators
	}
	all := make([]curve.Point, 0, len(g)+1)
	all = append(all, h)
	for _, gi := range g {
		if gi == nil {
			return nil, ErrNilFields
		}
		all = append(all, gi)
	}
	for i, p := range all {
		if p.Curve().Name() != group.Name() {
			return nil, ErrGroupMismatch
		}
		if p.IsIdentity() {
			return nil, ErrDegenerate
		}
		for _, q := range all[:i] {
			if p.Equal(q) {
				return nil, ErrDegenerate
			}
		}
	}
	return &Parameters{
		group: group,
		seed:  seed,
		h:     h,
		g:     append([]curve.Point(nil), g...),
	}, nil
}

// Group returns the curve the generators live on.
func (p *Parameters) Group() curve.Curve { return p.group }

// Seed returns the seed the parameters were derived from.
func (p *Parameters) Seed() string { return p.seed }

// K is the number of value generators, i.e. the length of committed vectors.
func (p *Parameters) K() int { return len(p.g) }

// H is the blinding generator.
func (p *Parameters) H() curve.Point { return p.h }

// G returns a copy of the value generators.
func (p *Parameters) G() []curve.Point { return append([]curve.Point(nil), p.g...) }

// Commit computes ∑ᵢ wᵢ⋅Gᵢ + r⋅H, where negative wᵢ and r are mapped to q - |x| mod q.
func (p *Parameters) Commit(w []*big.Int, r *big.Int) (curve.Point, error) {
	if len(w) != len(p.g) {
		return nil, fmt.Errorf("%w (got %d, expected %d)", ErrInputShape, len(w), len(p.g))
	}
	if r == nil {
		return nil, fmt.Errorf("%w: blinding", ErrNilFields)
	}
	ws := make([]curve.Scalar, len(w))
	for i, wi := range w {
		if wi == nil {
			return nil, fmt.Errorf("%w: w[%d]", ErrNilFields, i)
		}
		ws[i] = curve.ScalarFromInt(p.group, wi)
	}
	return p.CommitScalars(ws, curve.ScalarFromInt(p.group, r))
}

// CommitInt64 is Commit for machine integers.
func (p *Parameters) CommitInt64(w []int64, r *big.Int) (curve.Point, error) {
	ws := make([]*big.Int, len(w))
	for i, wi := range w {
		ws[i] = big.NewInt(wi)
	}
	return p.Commit(ws, r)
}

// CommitScalars computes ∑ᵢ wᵢ⋅Gᵢ + r⋅H for values already reduced mod q.
func (p *Parameters) CommitScalars(w []curve.Scalar, r curve.Scalar) (curve.Point, error) {
	if len(w) != len(p.g) {
		return nil, fmt.Errorf("%w (got %d, expected %d)", ErrInputShape, len(w), len(p.g))
	}
	if r == nil {
		return nil, fmt.Errorf("%w: blinding", ErrNilFields)
	}
	acc := p.group.NewPoint()
	for i, wi := range w {
		if wi == nil {
			return nil, fmt.Errorf("%w: w[%d]", ErrNilFields, i)
		}
		acc = acc.Add(wi.Act(p.g[i]))
	}
	return acc.Add(r.Act(p.h)), nil
}

// Verify returns true if c = ∑ᵢ wᵢ⋅Gᵢ + r⋅H.
func (p *Parameters) Verify(c curve.Point, w []*big.Int, r *big.Int) bool {
	if c == nil {
		return false
	}
	expected, err := p.Commit(w, r)
	if err != nil {
		return false
	}
	return expected.Equal(c)
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (p *Parameters) WriteTo(w io.Writer) (int64, error) {
	if p == nil {
		return 0, io.ErrUnexpectedEOF
	}
	nAll := int64(0)
	for _, s := range []string{p.group.Name(), p.seed} {
		n, err := fmt.Fprintf(w, "%d:%s", len(s), s)
		nAll += int64(n)
		if err != nil {
			return nAll, err
		}
	}
	for _, point := range append([]curve.Point{p.h}, p.g...) {
		data, err := point.MarshalBinary()
		if err != nil {
			return nAll, err
		}
		n, err := w.Write(data)
		nAll += int64(n)
		if err != nil {
			return nAll, err
		}
	}
	return nAll, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Parameters) Domain() string {
	return "Pedersen Vector Parameters"
}
