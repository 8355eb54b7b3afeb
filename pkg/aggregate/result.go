package aggregate

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/pvc/pkg/hash"
	"github.com/taurusgroup/pvc/pkg/math/curve"
)

// Result is a verified aggregate. It is never modified after Aggregate returns it.
type Result struct {
	// Config is the weighting used to compute the numerators.
	Config Config
	// Wsum[j] = ∑ᵢ numᵢ⋅wᵢ[j] (mod q).
	Wsum []curve.Scalar
	// Rsum = ∑ᵢ numᵢ⋅rᵢ (mod q).
	Rsum curve.Scalar
	// Numerators in submission order.
	Numerators []*big.Int
	// SumNumerators = ∑ᵢ numᵢ, not reduced. Used to normalize the weighted average.
	SumNumerators *big.Int
	// Commitment = Commit(Wsum, Rsum) = ∑ᵢ numᵢ⋅Cᵢ.
	Commitment curve.Point
	// Payload is the opaque locator of the aggregated payload.
	Payload string
}

// Payout is the input of the on-chain verification and payout call.
type Payout struct {
	Wsum    []*big.Int
	Rsum    *big.Int
	Payload string
}

// Payout returns (Wsum, Rsum, Payload), with the sums as integers in [0, q).
func (r *Result) Payout() Payout {
	wsum := make([]*big.Int, len(r.Wsum))
	for i, w := range r.Wsum {
		wsum[i] = curve.MakeBig(w)
	}
	return Payout{
		Wsum:    wsum,
		Rsum:    curve.MakeBig(r.Rsum),
		Payload: r.Payload,
	}
}

// Average returns Wsum[j] / SumNumerators as a rational, interpreting Wsum[j] as
// a signed value in (-q/2, q/2]. It returns nil when every numerator is zero.
func (r *Result) Average() []*big.Rat {
	if r.SumNumerators.Sign() == 0 {
		return nil
	}
	q := r.Rsum.Curve().Order().Big()
	half := new(big.Int).Rsh(q, 1)
	out := make([]*big.Rat, len(r.Wsum))
	for j, w := range r.Wsum {
		n := curve.MakeBig(w)
		if n.Cmp(half) > 0 {
			n.Sub(n, q)
		}
		out[j] = new(big.Rat).SetFrac(n, r.SumNumerators)
	}
	return out
}

// Digest binds every field of the result, for logging and audit trails.
func (r *Result) Digest() ([]byte, error) {
	h := hash.New()
	if err := h.WriteAny(r.Config.WeightBase, r.Config.EpsBps); err != nil {
		return nil, err
	}
	for _, w := range r.Wsum {
		if err := h.WriteAny(w); err != nil {
			return nil, err
		}
	}
	if err := h.WriteAny(r.Rsum); err != nil {
		return nil, err
	}
	for _, n := range r.Numerators {
		if err := h.WriteAny(n); err != nil {
			return nil, err
		}
	}
	if err := h.WriteAny(r.SumNumerators, r.Commitment, r.Payload); err != nil {
		return nil, err
	}
	return h.Sum()[:32], nil
}

type resultMarshal struct {
	Group         string
	EpsBps        uint64
	WeightBase    []byte
	Wsum          [][]byte
	Rsum          []byte
	Numerators    [][]byte
	SumNumerators []byte
	Commitment    []byte
	Payload       string
}

// MarshalBinary implements encoding.BinaryMarshaler with cbor.
func (r *Result) MarshalBinary() ([]byte, error) {
	var err error
	wsum := make([][]byte, len(r.Wsum))
	for i, w := range r.Wsum {
		if wsum[i], err = w.MarshalBinary(); err != nil {
			return nil, err
		}
	}
	rsum, err := r.Rsum.MarshalBinary()
	if err != nil {
		return nil, err
	}
	commitment, err := r.Commitment.MarshalBinary()
	if err != nil {
		return nil, err
	}
	numerators := make([][]byte, len(r.Numerators))
	for i, n := range r.Numerators {
		numerators[i] = n.Bytes()
	}
	return cbor.Marshal(&resultMarshal{
		Group:         r.Rsum.Curve().Name(),
		EpsBps:        r.Config.EpsBps,
		WeightBase:    r.Config.WeightBase.Bytes(),
		Wsum:          wsum,
		Rsum:          rsum,
		Numerators:    numerators,
		SumNumerators: r.SumNumerators.Bytes(),
		Commitment:    commitment,
		Payload:       r.Payload,
	})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// The decoded result is not trusted; pass it to Verify.
func (r *Result) UnmarshalBinary(data []byte) error {
	var rm resultMarshal
	if err := cbor.Unmarshal(data, &rm); err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	group, err := curve.ByName(rm.Group)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	wsum := make([]curve.Scalar, len(rm.Wsum))
	for i, data := range rm.Wsum {
		wsum[i] = group.NewScalar()
		if err = wsum[i].UnmarshalBinary(data); err != nil {
			return fmt.Errorf("aggregate: Wsum[%d]: %w", i, err)
		}
	}
	rsum := group.NewScalar()
	if err = rsum.UnmarshalBinary(rm.Rsum); err != nil {
		return fmt.Errorf("aggregate: Rsum: %w", err)
	}
	commitment := group.NewPoint()
	if err = commitment.UnmarshalBinary(rm.Commitment); err != nil {
		return fmt.Errorf("aggregate: commitment: %w", err)
	}
	numerators := make([]*big.Int, len(rm.Numerators))
	for i, n := range rm.Numerators {
		numerators[i] = new(big.Int).SetBytes(n)
	}
	*r = Result{
		Config: Config{
			EpsBps:     rm.EpsBps,
			WeightBase: new(big.Int).SetBytes(rm.WeightBase),
		},
		Wsum:          wsum,
		Rsum:          rsum,
		Numerators:    numerators,
		SumNumerators: new(big.Int).SetBytes(rm.SumNumerators),
		Commitment:    commitment,
		Payload:       rm.Payload,
	}
	return nil
}
