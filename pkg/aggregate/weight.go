package aggregate

import (
	"fmt"
	"math/big"

	"github.com/taurusgroup/pvc/internal/params"
)

// Config holds the weighting constants of an aggregation run.
//
// Both values are public: a verifier needs them to recompute the numerators.
type Config struct {
	// EpsBps is added to every error metric, in basis points.
	EpsBps uint64
	// WeightBase is the numerator of every weight.
	WeightBase *big.Int
}

// DefaultConfig returns EpsBps = 1 and WeightBase = 10¹².
func DefaultConfig() Config {
	return Config{
		EpsBps:     params.DefaultEpsBps,
		WeightBase: new(big.Int).SetUint64(params.DefaultWeightBase),
	}
}

// Validate checks that the weight base is a positive integer.
func (c Config) Validate() error {
	if c.WeightBase == nil || c.WeightBase.Sign() <= 0 {
		return fmt.Errorf("%w: weight base must be positive", ErrInvalidConfig)
	}
	return nil
}

// Numerator returns the weight numerator of a submission under c.
func (c Config) Numerator(errorBps uint64) *big.Int {
	return WeightNumerator(errorBps, c.EpsBps, c.WeightBase)
}

// WeightNumerator returns ⌊weightBase / (errorBps + epsBps)⌋.
//
// A zero denominator is replaced by 1. The sum is computed without overflow.
func WeightNumerator(errorBps, epsBps uint64, weightBase *big.Int) *big.Int {
	denom := new(big.Int).SetUint64(errorBps)
	denom.Add(denom, new(big.Int).SetUint64(epsBps))
	if denom.Sign() == 0 {
		denom.SetInt64(1)
	}
	return new(big.Int).Quo(weightBase, denom)
}
