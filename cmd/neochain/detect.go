package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/neochain/pkg/artifact"
	"github.com/dd0wney/neochain/pkg/pipeline"
)

func newDetectCommand(opts *options) *cobra.Command {
	var (
		write   bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "detect <edge-list>...",
		Short: "Detect communities and print the largest ones",
		Long: `Detect communities in one or more edge lists and print the largest ones.
With several files each block is preceded by a "# <path>" line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Output.WriteGroups = cfg.Output.WriteGroups || write
			if cmd.Flags().Changed("workers") {
				cfg.Detection.Workers = workers
			}

			_, p, err := opts.pipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			if len(args) == 1 {
				d, err := p.Detect(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := opts.printDetection(d); err != nil {
					return err
				}
				return p.WriteMetrics()
			}

			detections, detectErr := p.DetectAll(cmd.Context(), args)
			for i, d := range detections {
				if d == nil {
					continue
				}
				fmt.Fprintf(opts.stdout, "# %s\n", args[i])
				if err := opts.printDetection(d); err != nil {
					return err
				}
			}
			if detectErr != nil {
				return detectErr
			}
			return p.WriteMetrics()
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "Write .grp and .part community files")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent detections when several files are given; 0 means one per CPU")
	return cmd
}

func (o *options) printDetection(d *pipeline.Detection) error {
	if err := artifact.WriteGroups(o.stdout, d.Top); err != nil {
		return err
	}
	if d.Files != nil {
		fmt.Fprintf(o.stderr, "communities written to %s\n", d.Files.Groups)
	}
	return nil
}
