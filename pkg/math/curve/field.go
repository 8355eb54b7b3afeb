package curve

import (
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/pvc/internal/params"
)

// FieldElement is an element of the base field 𝔽ₚ of a curve.
//
// It is a different type from Scalar: coordinates live modulo p,
// exponents modulo q. Values are immutable.
type FieldElement struct {
	v *saferith.Nat
	p *saferith.Modulus
}

// NewFieldElement returns n mod p.
func NewFieldElement(p *saferith.Modulus, n *saferith.Nat) *FieldElement {
	return &FieldElement{v: new(saferith.Nat).Mod(n, p), p: p}
}

// FieldElementFromBytes interprets data as a big-endian integer, and reduces it mod p.
func FieldElementFromBytes(p *saferith.Modulus, data []byte) *FieldElement {
	return NewFieldElement(p, new(saferith.Nat).SetBytes(data))
}

// FieldElementFromUint64 returns x mod p.
func FieldElementFromUint64(p *saferith.Modulus, x uint64) *FieldElement {
	return NewFieldElement(p, new(saferith.Nat).SetUint64(x))
}

// FieldElementFromHex parses a 0x prefixed hex string, as produced by Hex.
func FieldElementFromHex(p *saferith.Modulus, s string) (*FieldElement, error) {
	if len(s) < 2 || s[:2] != "0x" {
		return nil, fmt.Errorf("curve.FieldElement: missing 0x prefix in %q", s)
	}
	n, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return nil, fmt.Errorf("curve.FieldElement: invalid hex %q", s)
	}
	if n.Cmp(p.Big()) >= 0 {
		return nil, fmt.Errorf("curve.FieldElement: %s is not reduced", s)
	}
	return NewFieldElement(p, new(saferith.Nat).SetBig(n, p.BitLen())), nil
}

func (f *FieldElement) check(g *FieldElement) {
	if f.p != g.p && f.p.Nat().Eq(g.p.Nat()) != 1 {
		panic("curve.FieldElement: mismatched moduli")
	}
}

// Modulus returns p.
func (f *FieldElement) Modulus() *saferith.Modulus { return f.p }

// Add returns f + g mod p.
func (f *FieldElement) Add(g *FieldElement) *FieldElement {
	f.check(g)
	return &FieldElement{v: new(saferith.Nat).ModAdd(f.v, g.v, f.p), p: f.p}
}

// Mul returns f⋅g mod p.
func (f *FieldElement) Mul(g *FieldElement) *FieldElement {
	f.check(g)
	return &FieldElement{v: new(saferith.Nat).ModMul(f.v, g.v, f.p), p: f.p}
}

// Square returns f² mod p.
func (f *FieldElement) Square() *FieldElement {
	return f.Mul(f)
}

// Exp returns fᵉ mod p.
func (f *FieldElement) Exp(e *saferith.Nat) *FieldElement {
	return &FieldElement{v: new(saferith.Nat).Exp(f.v, e, f.p), p: f.p}
}

// Equal compares values; both elements must belong to the same field.
func (f *FieldElement) Equal(g *FieldElement) bool {
	f.check(g)
	return f.v.Eq(g.v) == 1
}

// IsZero returns true if f = 0.
func (f *FieldElement) IsZero() bool {
	return f.v.EqZero() == 1
}

// Nat returns a copy of the canonical representative in [0, p).
func (f *FieldElement) Nat() *saferith.Nat {
	return new(saferith.Nat).SetNat(f.v)
}

// Big returns the canonical representative in [0, p).
func (f *FieldElement) Big() *big.Int {
	return f.v.Big()
}

// Bytes returns the fixed width big-endian encoding.
func (f *FieldElement) Bytes() []byte {
	return f.v.FillBytes(make([]byte, params.BytesFieldElement))
}

// Hex returns "0x" followed by exactly 64 lowercase hex digits.
func (f *FieldElement) Hex() string {
	return fmt.Sprintf("0x%0*x", params.HexDigitsFieldElement, f.Big())
}

// String implements fmt.Stringer.
func (f *FieldElement) String() string {
	if f == nil {
		return "nil"
	}
	return f.Hex()
}
