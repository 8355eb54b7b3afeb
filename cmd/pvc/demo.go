package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"github.com/taurusgroup/pvc/pkg/aggregate"
)

// demoSubmissions is the reference batch: three submissions on a key with k = 3.
func demoSubmissions() []aggregate.Submission {
	return []aggregate.Submission{
		aggregate.NewSubmission([]int64{12, -7, 3}, big.NewInt(123456789), 1500),
		aggregate.NewSubmission([]int64{-4, 5, 9}, big.NewInt(222222222), 800),
		aggregate.NewSubmission([]int64{1, 2, -3}, big.NewInt(999999999), 5000),
	}
}

func newDemoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Derive the key, commit to the reference batch and aggregate it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.cfg.Parameters()
			if err != nil {
				return err
			}
			if p.K() != 3 {
				return fmt.Errorf("demo: the reference batch needs k = 3, got %d", p.K())
			}
			if err = printParameters(cmd, p); err != nil {
				return err
			}
			subs := demoSubmissions()
			w := cmd.OutOrStdout()
			for i := range subs {
				if subs[i].Commitment, err = p.Commit(subs[i].W, subs[i].R); err != nil {
					return err
				}
				fmt.Fprintf(w, "C%d: %s\n", i, formatPoint(subs[i].Commitment))
			}
			result, err := a.aggregate(p, subs)
			if err != nil {
				return err
			}
			printResult(w, result)
			return nil
		},
	}
}
