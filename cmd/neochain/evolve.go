package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/neochain/pkg/artifact"
)

func newEvolveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "evolve <edge-list-t> <edge-list-t1>",
		Short: "Match the top communities at t to the communities of the merged graph",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			_, p, err := opts.pipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			report, err := p.Evolve(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := artifact.WriteMatches(opts.stdout, report.Matches); err != nil {
				return err
			}
			for _, key := range report.PublishedKeys {
				fmt.Fprintf(opts.stderr, "published %s\n", key)
			}
			return nil
		},
	}
}
