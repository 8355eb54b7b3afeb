package pedersen

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/pvc/pkg/math/curve"
)

// Constant is a generator in the form expected by the verification contract:
// coordinates as 0x-prefixed, 64 digit, big-endian hex strings.
type Constant struct {
	Name string
	X, Y string
}

// Constants lists H, G0, …, G{k-1}, in that order.
func (p *Parameters) Constants() ([]Constant, error) {
	out := make([]Constant, 0, len(p.g)+1)
	add := func(name string, point curve.Point) error {
		x, y, err := point.XY()
		if err != nil {
			return fmt.Errorf("pedersen: constant %s: %w", name, err)
		}
		out = append(out, Constant{Name: name, X: x.Hex(), Y: y.Hex()})
		return nil
	}
	if err := add("H", p.h); err != nil {
		return nil, err
	}
	for i, g := range p.g {
		if err := add(fmt.Sprintf("G%d", i), g); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// String implements fmt.Stringer, as "(0x…, 0x…)".
func (c Constant) String() string {
	return fmt.Sprintf("(%s, %s)", c.X, c.Y)
}

// FromConstants rebuilds parameters from exported coordinates.
func FromConstants(group curve.Curve, seed string, constants []Constant) (*Parameters, error) {
	if len(constants) < 2 {
		return nil, ErrNoGenerators
	}
	points := make([]curve.Point, len(constants))
	for i, c := range constants {
		x, err := curve.FieldElementFromHex(group.Field(), c.X)
		if err != nil {
			return nil, fmt.Errorf("pedersen: constant %s: %w", c.Name, err)
		}
		y, err := curve.FieldElementFromHex(group.Field(), c.Y)
		if err != nil {
			return nil, fmt.Errorf("pedersen: constant %s: %w", c.Name, err)
		}
		if points[i], err = group.LiftXY(x, y); err != nil {
			return nil, fmt.Errorf("pedersen: constant %s: %w", c.Name, err)
		}
	}
	return New(group, seed, points[0], points[1:])
}

// EmptyParameters creates an empty Parameters value, ready for unmarshalling.
func EmptyParameters() *Parameters {
	return &Parameters{}
}

type parametersMarshal struct {
	Group string
	Seed  string
	H     []byte
	G     [][]byte
}

// MarshalBinary implements encoding.BinaryMarshaler with cbor.
func (p *Parameters) MarshalBinary() ([]byte, error) {
	h, err := p.h.MarshalBinary()
	if err != nil {
		return nil, err
	}
	g := make([][]byte, len(p.g))
	for i, gi := range p.g {
		if g[i], err = gi.MarshalBinary(); err != nil {
			return nil, err
		}
	}
	return cbor.Marshal(&parametersMarshal{
		Group: p.group.Name(),
		Seed:  p.seed,
		H:     h,
		G:     g,
	})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, and validates the generators.
func (p *Parameters) UnmarshalBinary(data []byte) error {
	var pm parametersMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return fmt.Errorf("pedersen: %w", err)
	}
	group, err := curve.ByName(pm.Group)
	if err != nil {
		return fmt.Errorf("pedersen: %w", err)
	}
	h := group.NewPoint()
	if err = h.UnmarshalBinary(pm.H); err != nil {
		return fmt.Errorf("pedersen: H: %w", err)
	}
	g := make([]curve.Point, len(pm.G))
	for i, data := range pm.G {
		g[i] = group.NewPoint()
		if err = g[i].UnmarshalBinary(data); err != nil {
			return fmt.Errorf("pedersen: G%d: %w", i, err)
		}
	}
	decoded, err := New(group, pm.Seed, h, g)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}
