package sample

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/taurusgroup/pvc/pkg/math/curve"
)

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	x := ModN(rand.Reader, n)
	_, _, lt := x.CmpMod(n)
	if lt != 1 {
		t.Errorf("ModN generated a number >= %v: %v", x, n)
	}
}

func TestScalar(t *testing.T) {
	for _, group := range []curve.Curve{curve.BN254{}, curve.Secp256k1{}} {
		a := Scalar(rand.Reader, group)
		b := Scalar(rand.Reader, group)
		assert.False(t, a.Equal(b), group.Name())
		assert.Equal(t, -1, Blinding(rand.Reader, group).Cmp(group.Order().Big()))
	}
}

func TestVector(t *testing.T) {
	const bound = 5
	v := Vector(rand.Reader, 200, bound)
	assert.Len(t, v, 200)
	for _, x := range v {
		assert.LessOrEqual(t, x, int64(bound))
		assert.GreaterOrEqual(t, x, int64(-bound))
	}
	assert.Equal(t, int64(0), Int64(rand.Reader, 0))
}

func TestUint64(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Less(t, Uint64(rand.Reader, 10), uint64(10))
	}
	assert.Equal(t, uint64(0), Uint64(rand.Reader, 0))
}

// This exists to save the results of functions we want to benchmark, to avoid
// having them optimized away.
var resultScalar curve.Scalar

func BenchmarkScalar(b *testing.B) {
	for i := 0; i < b.N; i++ {
		resultScalar = Scalar(rand.Reader, curve.BN254{})
	}
}
