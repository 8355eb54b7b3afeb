package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taurusgroup/pvc/pkg/pedersen"
)

func newParamsCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the generators of the commitment key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.cfg.Parameters()
			if err != nil {
				return err
			}
			if err = printParameters(cmd, p); err != nil {
				return err
			}
			if out == "" {
				return nil
			}
			data, err := p.MarshalBinary()
			if err != nil {
				return err
			}
			if err = os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			a.log.Info().Str("file", out).Msg("parameters written")
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "also write the parameters, cbor encoded, to this file")
	return cmd
}

func printParameters(cmd *cobra.Command, p *pedersen.Parameters) error {
	constants, err := p.Constants()
	if err != nil {
		return err
	}
	fingerprint, err := p.Fingerprint()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "curve: %s\nseed: %s\n", p.Group().Name(), p.Seed())
	for _, c := range constants {
		fmt.Fprintf(w, "%s: %s\n", c.Name, c)
	}
	fmt.Fprintf(w, "fingerprint: %s\n", hex.EncodeToString(fingerprint))
	return nil
}

// loadParameters reads cbor encoded parameters from path, or derives them from the configuration.
func (a *app) loadParameters(path string) (*pedersen.Parameters, error) {
	if path == "" {
		return a.cfg.Parameters()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := pedersen.EmptyParameters()
	if err = p.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err = p.CheckDerivation(a.cfg.HashOptions()...); err != nil {
		a.log.Warn().Err(err).Str("file", path).Msg("parameters were not derived from their seed")
	}
	return p, nil
}
