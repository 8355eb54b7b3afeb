package aggregate

import (
	"fmt"

	"github.com/taurusgroup/pvc/pkg/math/curve"
)

type Error string

const (
	// ErrAggregationMismatch is matched by every *MismatchError.
	ErrAggregationMismatch Error = "homomorphic consistency check failed"
	ErrEmptyBatch          Error = "no submissions"
	ErrInvalidConfig       Error = "invalid configuration"
	ErrNumeratorMismatch   Error = "weight numerators do not match the error metrics"
	ErrBatchShape          Error = "number of submissions does not match the result"
)

func (e Error) Error() string {
	return fmt.Sprintf("aggregate: %s", string(e))
}

// MismatchError reports that ∑ numᵢ⋅Cᵢ differs from Commit(Wsum, Rsum).
//
// It indicates an arithmetic bug or corrupted input, and the aggregate must not be used.
type MismatchError struct {
	// Combined is ∑ numᵢ⋅Cᵢ.
	Combined curve.Point
	// Recommitted is Commit(Wsum, Rsum).
	Recommitted curve.Point
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: combined commitments %v, aggregate commitment %v",
		ErrAggregationMismatch.Error(), e.Combined, e.Recommitted)
}

// Is makes errors.Is(err, ErrAggregationMismatch) hold.
func (e *MismatchError) Is(target error) bool {
	return target == ErrAggregationMismatch
}
