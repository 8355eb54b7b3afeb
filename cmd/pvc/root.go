package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/pvc/internal/config"
)

// app is the state shared by the subcommands, resolved before any of them runs.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log zerolog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: config.New(), log: zerolog.Nop()}
	root := &cobra.Command{
		Use:           "pvc",
		Short:         "Pedersen vector commitments with weighted aggregation",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = cfg.Logger(cmd.ErrOrStderr())
			return nil
		},
	}
	if err := config.RegisterFlags(root.PersistentFlags(), a.v); err != nil {
		panic(err)
	}
	root.AddCommand(
		newParamsCommand(a),
		newCommitCommand(a),
		newAggregateCommand(a),
		newDemoCommand(a),
	)
	return root
}
