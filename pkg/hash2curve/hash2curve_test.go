package hash2curve

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/pvc/pkg/math/curve"
	"golang.org/x/crypto/sha3"
)

var groups = []curve.Curve{curve.BN254{}, curve.Secp256k1{}}

func TestMapToCurve_Deterministic(t *testing.T) {
	for _, group := range groups {
		msg := []byte("H|PVC-3-v1")
		r1, err := MapToCurve(group, msg)
		require.NoError(t, err)
		r2, err := MapToCurve(group, msg)
		require.NoError(t, err)
		assert.True(t, r1.Point.Equal(r2.Point), group.Name())
		assert.Equal(t, r1.Attempts, r2.Attempts)

		b1, _ := r1.Point.MarshalBinary()
		b2, _ := r2.Point.MarshalBinary()
		assert.Equal(t, b1, b2)
	}
}

func TestMapToCurve_OnCurve(t *testing.T) {
	for _, group := range groups {
		for i := 0; i < 16; i++ {
			r, err := MapToCurve(group, []byte(fmt.Sprintf("msg-%d", i)))
			require.NoError(t, err)
			assert.False(t, r.Point.IsIdentity())
			x, y, err := r.Point.XY()
			require.NoError(t, err)
			// Re-lifting validates the curve equation.
			_, err = group.LiftXY(x, y)
			assert.NoError(t, err)
		}
	}
}

func TestMapToCurve_StartsAtHash(t *testing.T) {
	group := curve.BN254{}
	msg := []byte("G|0|PVC-3-v1")
	r, err := MapToCurve(group, msg)
	require.NoError(t, err)

	digest := sha256.Sum256(msg)
	x0 := curve.FieldElementFromBytes(group.Field(), digest[:])
	x, _, err := r.Point.XY()
	require.NoError(t, err)
	offset := curve.FieldElementFromUint64(group.Field(), uint64(r.Attempts-1))
	assert.True(t, x0.Add(offset).Equal(x))
}

func TestMapToCurve_DistinctMessages(t *testing.T) {
	group := curve.BN254{}
	seen := make([]curve.Point, 0, 8)
	for i := 0; i < 8; i++ {
		r, err := MapToCurve(group, []byte(fmt.Sprintf("G|%d|seed", i)))
		require.NoError(t, err)
		for _, p := range seen {
			assert.False(t, p.Equal(r.Point))
		}
		seen = append(seen, r.Point)
	}
}

func TestMapToCurve_MaxAttempts(t *testing.T) {
	group := curve.BN254{}
	// Find a message whose first candidate is not on the curve.
	var (
		msg []byte
		res *Result
	)
	for i := 0; ; i++ {
		msg = []byte(fmt.Sprintf("retry-%d", i))
		r, err := MapToCurve(group, msg)
		require.NoError(t, err)
		if r.Attempts > 1 {
			res = r
			break
		}
	}

	_, err := MapToCurve(group, msg, WithMaxAttempts(res.Attempts-1))
	assert.ErrorIs(t, err, ErrNonTermination)

	r, err := MapToCurve(group, msg, WithMaxAttempts(res.Attempts))
	require.NoError(t, err)
	assert.True(t, r.Point.Equal(res.Point))
}

func TestMapToCurve_WithHash(t *testing.T) {
	group := curve.BN254{}
	msg := []byte("H|PVC-3-v1")
	r1, err := MapToCurve(group, msg)
	require.NoError(t, err)
	r2, err := MapToCurve(group, msg, WithHash(sha3.NewLegacyKeccak256))
	require.NoError(t, err)
	assert.False(t, r1.Point.Equal(r2.Point))
}

// oneModFour is BN254 with a field modulus p ≡ 1 (mod 4).
type oneModFour struct {
	curve.BN254
}

func (oneModFour) Field() *saferith.Modulus {
	return saferith.ModulusFromUint64(13)
}

func TestMapToCurve_UnsupportedField(t *testing.T) {
	_, err := MapToCurve(oneModFour{}, []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedField)
}
