package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/neochain/pkg/logging"
)

func newMergeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <edge-list-t> <edge-list-t1>",
		Short: "Write the merged graph of the top communities at t and the snapshot at t+1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, p, err := opts.pipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			d, err := p.Detect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path, merged, err := p.Merge(args[0], args[1], d.Top)
			if err != nil {
				return err
			}
			logger.Info("merge complete", logging.Path(path), logging.Count(merged.Len()))

			fmt.Fprintln(opts.stdout, path)
			return p.WriteMetrics()
		},
	}
}
