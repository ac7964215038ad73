package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dd0wney/neochain/pkg/config"
	"github.com/dd0wney/neochain/pkg/logging"
	"github.com/dd0wney/neochain/pkg/metrics"
	"github.com/dd0wney/neochain/pkg/pipeline"
	"github.com/dd0wney/neochain/pkg/validation"
)

const version = "1.0.0"

// options holds the flags shared by every subcommand.
type options struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string

	algorithm      string
	weighted       string
	delimiter      string
	infomapBinary  string
	infomapOptions string
	seed           int64
	top            int
	measure        string
	outputDir      string
	metricsFile    string
	redisAddr      string
	s3Bucket       string

	stdout io.Writer
	stderr io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "neochain",
		Short: "Track community evolution across blockchain transaction graph snapshots",
		Long: `neochain detects communities in edge list snapshots of a transaction graph
and matches the largest communities of one snapshot to those of the next.`,
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before the configuration")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")
	pf.StringVarP(&opts.algorithm, "algorithm", "a", "", "Community detection algorithm (infomap, louvain)")
	pf.StringVarP(&opts.weighted, "weighted", "w", "", "Input has a weight column (yes/no)")
	pf.StringVarP(&opts.delimiter, "delimiter", "d", "", "Column delimiter; empty means whitespace")
	pf.StringVar(&opts.infomapBinary, "infomap-binary", "", "Path to the Infomap executable")
	pf.StringVar(&opts.infomapOptions, "options", "", "Extra Infomap options")
	pf.Int64Var(&opts.seed, "seed", 0, "Louvain random seed; 0 picks one")
	pf.IntVarP(&opts.top, "top", "n", 0, "Number of largest communities to keep")
	pf.StringVarP(&opts.measure, "measure", "m", "", "Overlap measure (jaccard, cosine, euclidean, manhattan, minkowski)")
	pf.StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for written artifacts")
	pf.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	pf.StringVar(&opts.redisAddr, "redis-addr", "", "Cache detected partitions in Redis at host:port")
	pf.StringVar(&opts.s3Bucket, "s3-bucket", "", "Publish evolve artifacts to this S3 bucket")

	root.AddCommand(
		newSanityCommand(opts),
		newDetectCommand(opts),
		newMergeCommand(opts),
		newEvolveCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

// loadConfig reads the env and config files and applies the flags the user set.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnvFile(o.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if flags.Changed("algorithm") {
		cfg.Detection.Algorithm = o.algorithm
	}
	if flags.Changed("weighted") {
		cfg.Input.Weighted = o.weighted
	}
	if flags.Changed("delimiter") {
		cfg.Input.Delimiter = o.delimiter
	}
	if flags.Changed("infomap-binary") {
		cfg.Detection.InfomapBinary = o.infomapBinary
	}
	if flags.Changed("options") {
		cfg.Detection.InfomapOptions = o.infomapOptions
	}
	if flags.Changed("seed") {
		cfg.Detection.Seed = o.seed
	}
	if flags.Changed("top") {
		cfg.Selection.TopN = o.top
	}
	if flags.Changed("measure") {
		cfg.Overlap.Measure = o.measure
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = o.outputDir
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = o.metricsFile
	}
	if flags.Changed("redis-addr") {
		cfg.Cache.RedisAddr = o.redisAddr
	}
	if flags.Changed("s3-bucket") {
		cfg.Publish.Bucket = o.s3Bucket
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pipeline builds the logger and pipeline for a loaded config. The caller
// closes the pipeline.
func (o *options) pipeline(ctx context.Context, cfg *config.Config) (logging.Logger, *pipeline.Pipeline, error) {
	logger := cfg.Logger(o.stderr)
	p, err := pipeline.Open(ctx, cfg, logger, metrics.NewRegistry())
	if err != nil {
		return nil, nil, err
	}
	return logger, p, nil
}

func newVersionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(opts.stdout, "neochain v%s\n", version)
		},
	}
}

func statusLine(w io.Writer, name string, status validation.CheckStatus) {
	fmt.Fprintf(w, "%-12s %s\n", name, status)
}
