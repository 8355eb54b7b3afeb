// Package aggregate folds a batch of Pedersen-committed vectors into a single
// weighted sum, and checks that the sum matches the weighted sum of the
// individual commitments.
//
// Each submission i carries an error metric eᵢ, and gets the integer weight
// numᵢ = ⌊WeightBase / (eᵢ + ε)⌋. The aggregate is
//
//	Wsum[j] = ∑ᵢ numᵢ⋅wᵢ[j] (mod q),   Rsum = ∑ᵢ numᵢ⋅rᵢ (mod q),
//
// and by the homomorphism of the commitment ∑ᵢ numᵢ⋅Cᵢ = Commit(Wsum, Rsum).
// Aggregate refuses to return a result for which this identity does not hold.
package aggregate

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/pvc/pkg/math/curve"
	"github.com/taurusgroup/pvc/pkg/pedersen"
	"github.com/taurusgroup/pvc/pkg/pool"
)

// Submission is one participant's contribution.
type Submission struct {
	// W is the committed vector, of length Parameters.K().
	W []*big.Int
	// R is the blinding factor.
	R *big.Int
	// ErrorBps is the error metric in basis points.
	ErrorBps uint64
	// Commitment is the commitment published by the submitter.
	// When nil, it is recomputed from W and R.
	Commitment curve.Point
}

// NewSubmission builds a submission from machine integers.
func NewSubmission(w []int64, r *big.Int, errorBps uint64) Submission {
	ws := make([]*big.Int, len(w))
	for i, wi := range w {
		ws[i] = big.NewInt(wi)
	}
	return Submission{W: ws, R: r, ErrorBps: errorBps}
}

// Public returns the parts of s that are published: its commitment and error metric.
func (s Submission) Public(p *pedersen.Parameters) (Public, error) {
	c := s.Commitment
	if c == nil {
		var err error
		if c, err = p.Commit(s.W, s.R); err != nil {
			return Public{}, err
		}
	}
	return Public{Commitment: c, ErrorBps: s.ErrorBps}, nil
}

// Public is what anyone can see of a submission.
type Public struct {
	Commitment curve.Point
	ErrorBps   uint64
}

type options struct {
	pool    *pool.Pool
	log     zerolog.Logger
	payload string
}

// Option configures Aggregate.
type Option func(*options)

// WithPool recomputes the commitments of the batch on pl.
func WithPool(pl *pool.Pool) Option {
	return func(o *options) {
		o.pool = pl
	}
}

// WithLogger reports progress to log. By default nothing is logged.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithPayload attaches an opaque reference to the aggregated payload, such as a URI,
// which is handed to the payout step untouched.
func WithPayload(locator string) Option {
	return func(o *options) {
		o.payload = locator
	}
}

// Aggregate computes the weighted sums of a batch, and verifies them against the commitments.
//
// The batch is processed as a whole: on any error, including a failed
// consistency check, no result is returned.
func Aggregate(p *pedersen.Parameters, subs []Submission, cfg Config, opts ...Option) (*Result, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, ErrEmptyBatch
	}

	group := p.Group()
	k := p.K()
	for i, s := range subs {
		if len(s.W) != k {
			return nil, fmt.Errorf("aggregate: submission %d: %w (got %d, expected %d)", i, pedersen.ErrInputShape, len(s.W), k)
		}
		if s.R == nil {
			return nil, fmt.Errorf("aggregate: submission %d: %w: blinding", i, pedersen.ErrNilFields)
		}
		for j, w := range s.W {
			if w == nil {
				return nil, fmt.Errorf("aggregate: submission %d: %w: w[%d]", i, pedersen.ErrNilFields, j)
			}
		}
		if s.Commitment != nil && s.Commitment.Curve().Name() != group.Name() {
			return nil, fmt.Errorf("aggregate: submission %d: %w", i, pedersen.ErrGroupMismatch)
		}
	}

	numerators := make([]*big.Int, len(subs))
	weights := make([]curve.Scalar, len(subs))
	sumNumerators := new(big.Int)
	wsum := make([]curve.Scalar, k)
	for j := range wsum {
		wsum[j] = group.NewScalar()
	}
	rsum := group.NewScalar()

	for i, s := range subs {
		numerators[i] = cfg.Numerator(s.ErrorBps)
		sumNumerators.Add(sumNumerators, numerators[i])
		weights[i] = curve.ScalarFromInt(group, numerators[i])

		for j, w := range s.W {
			wsum[j].Add(curve.ScalarFromInt(group, w).Mul(weights[i]))
		}
		rsum.Add(curve.ScalarFromInt(group, s.R).Mul(weights[i]))
	}

	results := o.pool.Parallelize(len(subs), func(i int) interface{} {
		if subs[i].Commitment != nil {
			return subs[i].Commitment
		}
		c, err := p.Commit(subs[i].W, subs[i].R)
		if err != nil {
			return err
		}
		return c
	})
	commitments := make([]curve.Point, len(subs))
	for i, r := range results {
		switch c := r.(type) {
		case curve.Point:
			commitments[i] = c
		case error:
			return nil, fmt.Errorf("aggregate: submission %d: %w", i, c)
		}
	}

	combined, err := checkConsistency(p, commitments, weights, wsum, rsum)
	if err != nil {
		o.log.Error().Err(err).Int("submissions", len(subs)).Msg("aggregation rejected")
		return nil, err
	}
	o.log.Debug().
		Int("submissions", len(subs)).
		Str("sum_numerators", sumNumerators.String()).
		Msg("aggregation verified")

	return &Result{
		Config:        cfg,
		Wsum:          wsum,
		Rsum:          rsum,
		Numerators:    numerators,
		SumNumerators: sumNumerators,
		Commitment:    combined,
		Payload:       o.payload,
	}, nil
}

// Verify checks a result from public data only: the commitments and error
// metrics of the batch, in submission order.
//
// It recomputes the numerators from result.Config, and checks
// ∑ numᵢ⋅Cᵢ = Commit(Wsum, Rsum).
func Verify(p *pedersen.Parameters, public []Public, result *Result) error {
	if result == nil {
		return pedersen.ErrNilFields
	}
	if err := result.Config.Validate(); err != nil {
		return err
	}
	if len(public) == 0 {
		return ErrEmptyBatch
	}
	if len(public) != len(result.Numerators) {
		return fmt.Errorf("%w (got %d, expected %d)", ErrBatchShape, len(public), len(result.Numerators))
	}
	if len(result.Wsum) != p.K() {
		return fmt.Errorf("aggregate: %w (got %d, expected %d)", pedersen.ErrInputShape, len(result.Wsum), p.K())
	}

	group := p.Group()
	weights := make([]curve.Scalar, len(public))
	commitments := make([]curve.Point, len(public))
	sum := new(big.Int)
	for i, pub := range public {
		num := result.Config.Numerator(pub.ErrorBps)
		if result.Numerators[i] == nil || num.Cmp(result.Numerators[i]) != 0 {
			return fmt.Errorf("%w: submission %d", ErrNumeratorMismatch, i)
		}
		if pub.Commitment == nil {
			return fmt.Errorf("aggregate: submission %d: %w: commitment", i, pedersen.ErrNilFields)
		}
		sum.Add(sum, num)
		weights[i] = curve.ScalarFromInt(group, num)
		commitments[i] = pub.Commitment
	}
	if result.SumNumerators == nil || sum.Cmp(result.SumNumerators) != 0 {
		return fmt.Errorf("%w: sum", ErrNumeratorMismatch)
	}

	_, err := checkConsistency(p, commitments, weights, result.Wsum, result.Rsum)
	return err
}

// checkConsistency returns ∑ weightsᵢ⋅commitmentsᵢ if it equals Commit(wsum, rsum).
func checkConsistency(p *pedersen.Parameters, commitments []curve.Point, weights []curve.Scalar, wsum []curve.Scalar, rsum curve.Scalar) (curve.Point, error) {
	combined := p.Group().NewPoint()
	for i, c := range commitments {
		combined = combined.Add(weights[i].Act(c))
	}
	recommitted, err := p.CommitScalars(wsum, rsum)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	if !combined.Equal(recommitted) {
		return nil, &MismatchError{Combined: combined, Recommitted: recommitted}
	}
	return combined, nil
}
