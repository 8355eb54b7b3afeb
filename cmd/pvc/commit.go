package main

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"github.com/taurusgroup/pvc/pkg/math/sample"
)

func newCommitCommand(a *app) *cobra.Command {
	var (
		w          []int64
		r          string
		paramsFile string
	)
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit to a vector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.loadParameters(paramsFile)
			if err != nil {
				return err
			}
			var blinding *big.Int
			if r == "" {
				blinding = sample.Blinding(rand.Reader, p.Group())
			} else if blinding, err = parseInt(r); err != nil {
				return fmt.Errorf("--r: %w", err)
			}
			c, err := p.CommitInt64(w, blinding)
			if err != nil {
				return err
			}
			a.log.Debug().Int("k", p.K()).Msg("committed")
			fmt.Fprintf(cmd.OutOrStdout(), "C: %s\nr: %s\n", formatPoint(c), blinding)
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&w, "w", nil, "vector to commit to, comma separated")
	cmd.Flags().StringVar(&r, "r", "", "blinding factor, sampled when empty")
	cmd.Flags().StringVar(&paramsFile, "params", "", "cbor encoded parameters, derived from the seed when empty")
	_ = cmd.MarkFlagRequired("w")
	return cmd
}
