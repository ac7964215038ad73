package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/neochain/pkg/validation"
)

func newSanityCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sanity <edge-list>",
		Short: "Check an edge list file before detection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cfg.Logger(opts.stderr)

			report := validation.Check(args[0], validation.CheckOptions{
				Delimiter: cfg.Input.Delimiter,
				Weighted:  cfg.Weighted(),
			}, logger)

			statusLine(opts.stdout, "input file", report.File)
			statusLine(opts.stdout, "headers", report.Header)
			statusLine(opts.stdout, "delimiter", report.Delimiter)
			statusLine(opts.stdout, "columns", report.Columns)
			return report.Err()
		},
	}
}
