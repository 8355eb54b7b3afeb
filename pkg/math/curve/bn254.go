package curve

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/pvc/internal/params"
)

var (
	bn254Order = saferith.ModulusFromBytes(fr.Modulus().Bytes())
	bn254Field = saferith.ModulusFromBytes(fp.Modulus().Bytes())
	bn254B     = FieldElementFromUint64(bn254Field, 3)
)

// BN254 is the alt_bn128 curve y² = x³ + 3, the curve of the EVM precompiles.
type BN254 struct{}

func (BN254) NewPoint() Point {
	return new(BN254Point)
}

func (BN254) NewBasePoint() Point {
	_, _, g1, _ := bn254.Generators()
	return &BN254Point{value: g1}
}

func (BN254) NewScalar() Scalar {
	return new(BN254Scalar)
}

func (BN254) Name() string {
	return "bn254"
}

func (BN254) ScalarBytes() int {
	return params.BytesScalar
}

func (BN254) FieldBytes() int {
	return params.BytesFieldElement
}

func (BN254) Order() *saferith.Modulus {
	return bn254Order
}

func (BN254) Field() *saferith.Modulus {
	return bn254Field
}

func (BN254) B() *FieldElement {
	return bn254B
}

func (c BN254) LiftXY(x, y *FieldElement) (Point, error) {
	if !onCurve(c, x, y) {
		return nil, fmt.Errorf("bn254: (%v, %v): %w", x, y, ErrNotOnCurve)
	}
	out := new(BN254Point)
	out.value.X.SetBytes(x.Bytes())
	out.value.Y.SetBytes(y.Bytes())
	return out, nil
}

// BN254Scalar is an element of the scalar field fr of BN254.
type BN254Scalar struct {
	value fr.Element
}

func bn254CastScalar(generic Scalar) *BN254Scalar {
	out, ok := generic.(*BN254Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to BN254Scalar: %v", generic))
	}
	return out
}

func (*BN254Scalar) Curve() Curve {
	return BN254{}
}

func (s *BN254Scalar) MarshalBinary() ([]byte, error) {
	data := s.value.Bytes()
	return data[:], nil
}

func (s *BN254Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != params.BytesScalar {
		return fmt.Errorf("invalid length for bn254 scalar: %d", len(data))
	}
	n := new(big.Int).SetBytes(data)
	if n.Cmp(fr.Modulus()) >= 0 {
		return errors.New("invalid bytes for bn254 scalar: value >= q")
	}
	s.value.SetBigInt(n)
	return nil
}

func (s *BN254Scalar) Add(that Scalar) Scalar {
	other := bn254CastScalar(that)

	s.value.Add(&s.value, &other.value)
	return s
}

func (s *BN254Scalar) Sub(that Scalar) Scalar {
	other := bn254CastScalar(that)

	s.value.Sub(&s.value, &other.value)
	return s
}

func (s *BN254Scalar) Negate() Scalar {
	s.value.Neg(&s.value)
	return s
}

func (s *BN254Scalar) Mul(that Scalar) Scalar {
	other := bn254CastScalar(that)

	s.value.Mul(&s.value, &other.value)
	return s
}

func (s *BN254Scalar) Equal(that Scalar) bool {
	other := bn254CastScalar(that)

	return s.value.Equal(&other.value)
}

func (s *BN254Scalar) IsZero() bool {
	return s.value.IsZero()
}

func (s *BN254Scalar) Set(that Scalar) Scalar {
	other := bn254CastScalar(that)

	s.value.Set(&other.value)
	return s
}

func (s *BN254Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, bn254Order)
	s.value.SetBigInt(reduced.Big())
	return s
}

func (s *BN254Scalar) Act(that Point) Point {
	other := bn254CastPoint(that)
	out := new(BN254Point)
	if other.IsIdentity() || s.IsZero() {
		return out
	}
	var k big.Int
	s.value.BigInt(&k)
	out.value.ScalarMultiplication(&other.value, &k)
	return out
}

func (s *BN254Scalar) ActOnBase() Point {
	return s.Act(BN254{}.NewBasePoint())
}

func (s *BN254Scalar) String() string {
	return s.value.String()
}

// BN254Point is an affine point of the G1 group of BN254.
// The identity is encoded as (0, 0), as on the EVM.
type BN254Point struct {
	value bn254.G1Affine
}

func bn254CastPoint(generic Point) *BN254Point {
	out, ok := generic.(*BN254Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to BN254Point: %v", generic))
	}
	return out
}

func (*BN254Point) Curve() Curve {
	return BN254{}
}

func (p *BN254Point) MarshalBinary() ([]byte, error) {
	return marshalAffine(p)
}

func (p *BN254Point) UnmarshalBinary(data []byte) error {
	q, err := unmarshalAffine(BN254{}, data)
	if err != nil {
		return err
	}
	p.value = bn254CastPoint(q).value
	return nil
}

func (p *BN254Point) Add(that Point) Point {
	other := bn254CastPoint(that)
	if p.IsIdentity() {
		return other
	}
	if other.IsIdentity() {
		return p
	}
	out := new(BN254Point)
	out.value.Add(&p.value, &other.value)
	return out
}

func (p *BN254Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *BN254Point) Negate() Point {
	out := new(BN254Point)
	out.value.Neg(&p.value)
	return out
}

func (p *BN254Point) Equal(that Point) bool {
	other := bn254CastPoint(that)

	return p.value.X.Equal(&other.value.X) && p.value.Y.Equal(&other.value.Y)
}

func (p *BN254Point) IsIdentity() bool {
	return p.value.IsInfinity()
}

func (p *BN254Point) XY() (*FieldElement, *FieldElement, error) {
	if p.IsIdentity() {
		return nil, nil, ErrIdentity
	}
	x, y := p.value.X.Bytes(), p.value.Y.Bytes()
	return FieldElementFromBytes(bn254Field, x[:]), FieldElementFromBytes(bn254Field, y[:]), nil
}

func (p *BN254Point) String() string {
	return pointString(p)
}
