package sample

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/pvc/internal/params"
	"github.com/taurusgroup/pvc/pkg/math/curve"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			break
		}
	}
	return out
}

// Scalar returns a new uniformly random *curve.Scalar.
func Scalar(rand io.Reader, group curve.Curve) curve.Scalar {
	var buf [params.BytesScalar + params.SecBytes]byte
	mustReadBits(rand, buf[:])
	// The extra SecParam bits make the reduction statistically close to uniform.
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes(buf[:]))
}

// Blinding returns a random blinding factor in [0, q) as a *big.Int,
// the form in which submissions carry it.
func Blinding(rand io.Reader, group curve.Curve) *big.Int {
	return ModN(rand, group.Order()).Big()
}

// Int64 returns an integer in [-bound, bound].
func Int64(rand io.Reader, bound int64) int64 {
	if bound <= 0 {
		return 0
	}
	var buf [8]byte
	mustReadBits(rand, buf[:])
	span := uint64(2*bound + 1)
	return int64(binary.BigEndian.Uint64(buf[:])%span) - bound
}

// Vector returns k integers in [-bound, bound].
func Vector(rand io.Reader, k int, bound int64) []int64 {
	out := make([]int64, k)
	for i := range out {
		out[i] = Int64(rand, bound)
	}
	return out
}

// Uint64 returns an integer in [0, bound).
func Uint64(rand io.Reader, bound uint64) uint64 {
	if bound == 0 {
		return 0
	}
	var buf [8]byte
	mustReadBits(rand, buf[:])
	return binary.BigEndian.Uint64(buf[:]) % bound
}
