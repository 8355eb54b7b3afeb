package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/taurusgroup/pvc/pkg/aggregate"
	"github.com/taurusgroup/pvc/pkg/pedersen"
)

func newAggregateCommand(a *app) *cobra.Command {
	var (
		input      string
		paramsFile string
		out        string
	)
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate a batch of submissions and check it against their commitments",
		Long: `Reads a JSON array of submissions from --input, or stdin when it is "-":

  [{"w": [12, -7, 3], "r": "123456789", "error_bps": 1500,
    "commitment": {"x": "0x…", "y": "0x…"}}]

The commitment is optional. When it is missing, it is recomputed from w and r.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.loadParameters(paramsFile)
			if err != nil {
				return err
			}
			var r io.Reader = cmd.InOrStdin()
			if input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			subs, err := readSubmissions(r, p.Group())
			if err != nil {
				return err
			}
			result, err := a.aggregate(p, subs)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			if out == "" {
				return nil
			}
			data, err := result.MarshalBinary()
			if err != nil {
				return err
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	cmd.Flags().StringVar(&input, "input", "-", "JSON file of submissions")
	cmd.Flags().StringVar(&paramsFile, "params", "", "cbor encoded parameters, derived from the seed when empty")
	cmd.Flags().StringVar(&out, "out", "", "also write the result, cbor encoded, to this file")
	return cmd
}

func (a *app) aggregate(p *pedersen.Parameters, subs []aggregate.Submission) (*aggregate.Result, error) {
	opts := []aggregate.Option{
		aggregate.WithLogger(a.log),
		aggregate.WithPayload(a.cfg.Payload),
	}
	if pl := a.cfg.Pool(); pl != nil {
		defer pl.TearDown()
		opts = append(opts, aggregate.WithPool(pl))
	}
	result, err := aggregate.Aggregate(p, subs, a.cfg.Aggregation(), opts...)
	if err != nil {
		return nil, err
	}
	digest, err := result.Digest()
	if err != nil {
		return nil, err
	}
	a.log.Info().
		Int("submissions", len(subs)).
		Hex("digest", digest).
		Msg("aggregate verified")
	return result, nil
}

func printResult(w io.Writer, result *aggregate.Result) {
	payout := result.Payout()
	fmt.Fprintf(w, "Wsum: %v\n", payout.Wsum)
	fmt.Fprintf(w, "Rsum: %v\n", payout.Rsum)
	fmt.Fprintf(w, "nums: %v sumNum: %v\n", result.Numerators, result.SumNumerators)
	fmt.Fprintf(w, "C: %s\n", formatPoint(result.Commitment))
	if avg := result.Average(); avg != nil {
		fmt.Fprintf(w, "average: %v\n", avg)
	}
	if payout.Payload != "" {
		fmt.Fprintf(w, "payload: %s\n", payout.Payload)
	}
}
