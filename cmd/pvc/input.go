package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/taurusgroup/pvc/pkg/aggregate"
	"github.com/taurusgroup/pvc/pkg/math/curve"
)

// submissionJSON is a submission record. Integers may be given as JSON
// numbers or as decimal strings, so that blindings above 2⁵³ survive.
type submissionJSON struct {
	W          []json.Number `json:"w"`
	R          json.Number   `json:"r"`
	ErrorBps   uint64        `json:"error_bps"`
	Commitment *pointJSON    `json:"commitment,omitempty"`
}

type pointJSON struct {
	X string `json:"x"`
	Y string `json:"y"`
}

func parseInt(s string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return x, nil
}

func (p *pointJSON) point(group curve.Curve) (curve.Point, error) {
	x, err := curve.FieldElementFromHex(group.Field(), p.X)
	if err != nil {
		return nil, err
	}
	y, err := curve.FieldElementFromHex(group.Field(), p.Y)
	if err != nil {
		return nil, err
	}
	return group.LiftXY(x, y)
}

func newPointJSON(point curve.Point) (*pointJSON, error) {
	x, y, err := point.XY()
	if err != nil {
		return nil, err
	}
	return &pointJSON{X: x.Hex(), Y: y.Hex()}, nil
}

// readSubmissions decodes a JSON array of submission records.
func readSubmissions(r io.Reader, group curve.Curve) ([]aggregate.Submission, error) {
	var records []submissionJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	subs := make([]aggregate.Submission, len(records))
	for i, rec := range records {
		s := aggregate.Submission{W: make([]*big.Int, len(rec.W)), ErrorBps: rec.ErrorBps}
		var err error
		for j, w := range rec.W {
			if s.W[j], err = parseInt(w.String()); err != nil {
				return nil, fmt.Errorf("input: submission %d: w[%d]: %w", i, j, err)
			}
		}
		if s.R, err = parseInt(rec.R.String()); err != nil {
			return nil, fmt.Errorf("input: submission %d: r: %w", i, err)
		}
		if rec.Commitment != nil {
			if s.Commitment, err = rec.Commitment.point(group); err != nil {
				return nil, fmt.Errorf("input: submission %d: commitment: %w", i, err)
			}
		}
		subs[i] = s
	}
	return subs, nil
}

// formatPoint renders a point as "(0x…, 0x…)", or "identity".
func formatPoint(point curve.Point) string {
	p, err := newPointJSON(point)
	if err != nil {
		return "identity"
	}
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}
