package curve

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/pvc/internal/params"
)

// marshalAffine encodes p as x ∥ y, each coordinate in 32 big-endian bytes.
// The identity is encoded as 64 zero bytes, following the EVM convention.
func marshalAffine(p Point) ([]byte, error) {
	if p == nil {
		return nil, errors.New("curve.Point.MarshalBinary: point is nil")
	}
	data := make([]byte, params.BytesPoint)
	if p.IsIdentity() {
		return data, nil
	}
	x, y, err := p.XY()
	if err != nil {
		return nil, err
	}
	copy(data[:params.BytesFieldElement], x.Bytes())
	copy(data[params.BytesFieldElement:], y.Bytes())
	return data, nil
}

func unmarshalAffine(group Curve, data []byte) (Point, error) {
	if len(data) != params.BytesPoint {
		return nil, fmt.Errorf("curve.Point.Unmarshal: invalid length %d", len(data))
	}
	if bytes.Equal(data, make([]byte, params.BytesPoint)) {
		return group.NewPoint(), nil
	}
	p := group.Field()
	xNat := new(saferith.Nat).SetBytes(data[:params.BytesFieldElement])
	yNat := new(saferith.Nat).SetBytes(data[params.BytesFieldElement:])
	if _, _, lt := xNat.CmpMod(p); lt != 1 {
		return nil, errors.New("curve.Point.Unmarshal: invalid point: x >= field prime")
	}
	if _, _, lt := yNat.CmpMod(p); lt != 1 {
		return nil, errors.New("curve.Point.Unmarshal: invalid point: y >= field prime")
	}
	return group.LiftXY(NewFieldElement(p, xNat), NewFieldElement(p, yNat))
}

func pointString(p Point) string {
	if p.IsIdentity() {
		return "Point{Identity}"
	}
	x, y, _ := p.XY()
	return fmt.Sprintf("Point{X: %v, Y: %v}", x, y)
}

// MarshallableScalar wraps a Scalar together with the name of its curve,
// so that it can be decoded without knowing the group in advance.
type MarshallableScalar struct {
	Scalar Scalar
}

// NewMarshallableScalar wraps a scalar for encoding with cbor.
func NewMarshallableScalar(scalar Scalar) *MarshallableScalar {
	return &MarshallableScalar{Scalar: scalar}
}

type scalarMarshal struct {
	Group string
	Data  []byte
}

func (m *MarshallableScalar) MarshalBinary() ([]byte, error) {
	data, err := m.Scalar.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&scalarMarshal{Group: m.Scalar.Curve().Name(), Data: data})
}

func (m *MarshallableScalar) UnmarshalBinary(data []byte) error {
	var sm scalarMarshal
	if err := cbor.Unmarshal(data, &sm); err != nil {
		return err
	}
	group, err := ByName(sm.Group)
	if err != nil {
		return err
	}
	scalar := group.NewScalar()
	if err = scalar.UnmarshalBinary(sm.Data); err != nil {
		return err
	}
	m.Scalar = scalar
	return nil
}

// MarshallablePoint wraps a Point together with the name of its curve.
type MarshallablePoint struct {
	Point Point
}

// NewMarshallablePoint wraps a point for encoding with cbor.
func NewMarshallablePoint(point Point) *MarshallablePoint {
	return &MarshallablePoint{Point: point}
}

type pointMarshal struct {
	Group string
	Data  []byte
}

func (m *MarshallablePoint) MarshalBinary() ([]byte, error) {
	data, err := m.Point.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&pointMarshal{Group: m.Point.Curve().Name(), Data: data})
}

func (m *MarshallablePoint) UnmarshalBinary(data []byte) error {
	var pm pointMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return err
	}
	group, err := ByName(pm.Group)
	if err != nil {
		return err
	}
	point := group.NewPoint()
	if err = point.UnmarshalBinary(pm.Data); err != nil {
		return err
	}
	m.Point = point
	return nil
}
