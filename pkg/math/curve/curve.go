package curve

import (
	"encoding"
	"errors"
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
)

var (
	// ErrIdentity is returned when affine coordinates of the identity are requested.
	ErrIdentity = errors.New("curve: point is the identity")
	// ErrNotOnCurve is returned when coordinates do not satisfy the curve equation.
	ErrNotOnCurve = errors.New("curve: point is not on the curve")
)

// Curve represents a short Weierstrass curve y² = x³ + b over 𝔽ₚ, with a
// prime order group of points.
//
// Both moduli are exposed separately: Order reduces scalars, Field reduces
// coordinates. They must never be interchanged.
type Curve interface {
	// NewPoint returns the identity.
	NewPoint() Point
	NewBasePoint() Point
	NewScalar() Scalar
	Name() string
	ScalarBytes() int
	FieldBytes() int
	// Order is the prime order q of the group.
	Order() *saferith.Modulus
	// Field is the prime p of the base field.
	Field() *saferith.Modulus
	// B is the constant term of the curve equation.
	B() *FieldElement
	// LiftXY builds a point from affine coordinates, failing if (x, y) is not on the curve.
	LiftXY(x, y *FieldElement) (Point, error)
}

// Scalar is an element of ℤ/qℤ, where q is the order of the group.
//
// Arithmetic methods modify the receiver and return it, as is usual for
// math/big style APIs.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Negate() Scalar
	Mul(Scalar) Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	// SetNat sets the scalar to x mod q.
	SetNat(*saferith.Nat) Scalar
	// Act returns s⋅P.
	Act(Point) Point
	// ActOnBase returns s⋅G for the canonical base point G.
	ActOnBase() Point
}

// Point is an element of the group of points on a curve.
//
// Points are values: no method modifies its receiver or its argument.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	// Add returns p + q. If one operand is the identity, the other operand is returned.
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	// Equal compares affine coordinates exactly.
	Equal(Point) bool
	IsIdentity() bool
	// XY returns the affine coordinates, or ErrIdentity.
	XY() (x, y *FieldElement, err error)
}

// Curves lists the supported groups, indexed by Name.
var Curves = map[string]Curve{
	BN254{}.Name():     BN254{},
	Secp256k1{}.Name(): Secp256k1{},
}

// ByName returns the curve registered under name.
func ByName(name string) (Curve, error) {
	group, ok := Curves[name]
	if !ok {
		return nil, fmt.Errorf("curve: unknown curve %q", name)
	}
	return group, nil
}

// MakeNat returns the canonical representative of s in [0, q).
func MakeNat(s Scalar) *saferith.Nat {
	bytes, err := s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return new(saferith.Nat).SetBytes(bytes)
}

// MakeBig is MakeNat, as a *big.Int.
func MakeBig(s Scalar) *big.Int {
	bytes, err := s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return new(big.Int).SetBytes(bytes)
}

// ScalarFromInt maps a signed integer into ℤ/qℤ.
//
// Non-negative values are reduced directly. For negative values, the
// magnitude is reduced and subtracted from q, so that
// ScalarFromInt(x) + ScalarFromInt(-x) = 0.
func ScalarFromInt(group Curve, x *big.Int) Scalar {
	abs := new(big.Int).Abs(x)
	s := group.NewScalar().SetNat(new(saferith.Nat).SetBig(abs, abs.BitLen()))
	if x.Sign() < 0 {
		s.Negate()
	}
	return s
}

// ScalarFromInt64 is ScalarFromInt for machine integers.
func ScalarFromInt64(group Curve, x int64) Scalar {
	return ScalarFromInt(group, big.NewInt(x))
}

// ScalarFromUint64 reduces x modulo q.
func ScalarFromUint64(group Curve, x uint64) Scalar {
	return group.NewScalar().SetNat(new(saferith.Nat).SetUint64(x))
}

// onCurve checks y² = x³ + b (mod p).
func onCurve(group Curve, x, y *FieldElement) bool {
	lhs := y.Square()
	rhs := x.Square().Mul(x).Add(group.B())
	return lhs.Equal(rhs)
}
