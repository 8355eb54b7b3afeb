package curve

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/taurusgroup/pvc/internal/params"
)

var (
	secp256k1Order *saferith.Modulus
	secp256k1Field *saferith.Modulus
	secp256k1B     *FieldElement
)

func init() {
	orderBytes, err := hex.DecodeString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	if err != nil {
		panic(err)
	}
	fieldBytes, err := hex.DecodeString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
	if err != nil {
		panic(err)
	}
	secp256k1Order = saferith.ModulusFromBytes(orderBytes)
	secp256k1Field = saferith.ModulusFromBytes(fieldBytes)
	secp256k1B = FieldElementFromUint64(secp256k1Field, 7)
}

// Secp256k1 is the curve y² = x³ + 7 used by Bitcoin.
type Secp256k1 struct{}

func (Secp256k1) NewPoint() Point {
	return new(Secp256k1Point)
}

func (Secp256k1) NewBasePoint() Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	out := new(Secp256k1Point)
	secp256k1.ScalarBaseMultNonConst(&one, &out.value)
	out.value.ToAffine()
	return out
}

func (Secp256k1) NewScalar() Scalar {
	return new(Secp256k1Scalar)
}

func (Secp256k1) Name() string {
	return "secp256k1"
}

func (Secp256k1) ScalarBytes() int {
	return params.BytesScalar
}

func (Secp256k1) FieldBytes() int {
	return params.BytesFieldElement
}

func (Secp256k1) Order() *saferith.Modulus {
	return secp256k1Order
}

func (Secp256k1) Field() *saferith.Modulus {
	return secp256k1Field
}

func (Secp256k1) B() *FieldElement {
	return secp256k1B
}

func (c Secp256k1) LiftXY(x, y *FieldElement) (Point, error) {
	if !onCurve(c, x, y) {
		return nil, fmt.Errorf("secp256k1: (%v, %v): %w", x, y, ErrNotOnCurve)
	}
	out := new(Secp256k1Point)
	out.value.X.SetByteSlice(x.Bytes())
	out.value.Y.SetByteSlice(y.Bytes())
	out.value.Z.SetInt(1)
	return out, nil
}

// Secp256k1Scalar is an element of ℤ/nℤ for the secp256k1 group order n.
type Secp256k1Scalar struct {
	value secp256k1.ModNScalar
}

func secp256k1CastScalar(generic Scalar) *Secp256k1Scalar {
	out, ok := generic.(*Secp256k1Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Scalar: %v", generic))
	}
	return out
}

func (*Secp256k1Scalar) Curve() Curve {
	return Secp256k1{}
}

func (s *Secp256k1Scalar) MarshalBinary() ([]byte, error) {
	data := s.value.Bytes()
	return data[:], nil
}

func (s *Secp256k1Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != params.BytesScalar {
		return fmt.Errorf("invalid length for secp256k1 scalar: %d", len(data))
	}
	var exactData [32]byte
	copy(exactData[:], data)
	if s.value.SetBytes(&exactData) != 0 {
		return errors.New("invalid bytes for secp256k1 scalar")
	}
	return nil
}

func (s *Secp256k1Scalar) Add(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Add(&other.value)
	return s
}

func (s *Secp256k1Scalar) Sub(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	var negOther secp256k1.ModNScalar
	negOther.NegateVal(&other.value)
	s.value.Add(&negOther)
	return s
}

func (s *Secp256k1Scalar) Negate() Scalar {
	s.value.Negate()
	return s
}

func (s *Secp256k1Scalar) Mul(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Mul(&other.value)
	return s
}

func (s *Secp256k1Scalar) Equal(that Scalar) bool {
	other := secp256k1CastScalar(that)

	return s.value.Equals(&other.value)
}

func (s *Secp256k1Scalar) IsZero() bool {
	return s.value.IsZero()
}

func (s *Secp256k1Scalar) Set(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Set(&other.value)
	return s
}

func (s *Secp256k1Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, secp256k1Order)
	s.value.SetByteSlice(reduced.FillBytes(make([]byte, params.BytesScalar)))
	return s
}

func (s *Secp256k1Scalar) Act(that Point) Point {
	other := secp256k1CastPoint(that)
	out := new(Secp256k1Point)
	if other.IsIdentity() || s.IsZero() {
		return out
	}
	secp256k1.ScalarMultNonConst(&s.value, &other.value, &out.value)
	out.value.ToAffine()
	return out
}

func (s *Secp256k1Scalar) ActOnBase() Point {
	out := new(Secp256k1Point)
	if s.IsZero() {
		return out
	}
	secp256k1.ScalarBaseMultNonConst(&s.value, &out.value)
	out.value.ToAffine()
	return out
}

func (s *Secp256k1Scalar) String() string {
	return s.value.String()
}

// Secp256k1Point is kept in affine form (Z = 1) except for the identity,
// whose coordinates are all zero.
type Secp256k1Point struct {
	value secp256k1.JacobianPoint
}

func secp256k1CastPoint(generic Point) *Secp256k1Point {
	out, ok := generic.(*Secp256k1Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Point: %v", generic))
	}
	return out
}

func (*Secp256k1Point) Curve() Curve {
	return Secp256k1{}
}

func (p *Secp256k1Point) MarshalBinary() ([]byte, error) {
	return marshalAffine(p)
}

func (p *Secp256k1Point) UnmarshalBinary(data []byte) error {
	q, err := unmarshalAffine(Secp256k1{}, data)
	if err != nil {
		return err
	}
	p.value.Set(&secp256k1CastPoint(q).value)
	return nil
}

func (p *Secp256k1Point) Add(that Point) Point {
	other := secp256k1CastPoint(that)
	if p.IsIdentity() {
		return other
	}
	if other.IsIdentity() {
		return p
	}
	out := new(Secp256k1Point)
	secp256k1.AddNonConst(&p.value, &other.value, &out.value)
	if out.value.Z.IsZero() {
		return new(Secp256k1Point)
	}
	out.value.ToAffine()
	return out
}

func (p *Secp256k1Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *Secp256k1Point) Negate() Point {
	out := new(Secp256k1Point)
	if p.IsIdentity() {
		return out
	}
	out.value.Set(&p.value)
	out.value.Y.Negate(1)
	out.value.Y.Normalize()
	return out
}

func (p *Secp256k1Point) Equal(that Point) bool {
	other := secp256k1CastPoint(that)

	if p.IsIdentity() || other.IsIdentity() {
		return p.IsIdentity() == other.IsIdentity()
	}
	return p.value.X.Equals(&other.value.X) && p.value.Y.Equals(&other.value.Y)
}

func (p *Secp256k1Point) IsIdentity() bool {
	return (p.value.X.IsZero() && p.value.Y.IsZero()) || p.value.Z.IsZero()
}

func (p *Secp256k1Point) XY() (*FieldElement, *FieldElement, error) {
	if p.IsIdentity() {
		return nil, nil, ErrIdentity
	}
	x, y := p.value.X.Bytes(), p.value.Y.Bytes()
	return FieldElementFromBytes(secp256k1Field, x[:]), FieldElementFromBytes(secp256k1Field, y[:]), nil
}

func (p *Secp256k1Point) String() string {
	return pointString(p)
}
