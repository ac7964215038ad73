// Package pipeline runs the community evolution workflow between two
// snapshots of a transaction graph.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/neochain/pkg/artifact"
	"github.com/dd0wney/neochain/pkg/cache"
	"github.com/dd0wney/neochain/pkg/community"
	"github.com/dd0wney/neochain/pkg/config"
	"github.com/dd0wney/neochain/pkg/edgelist"
	"github.com/dd0wney/neochain/pkg/logging"
	"github.com/dd0wney/neochain/pkg/metrics"
	"github.com/dd0wney/neochain/pkg/overlap"
	"github.com/dd0wney/neochain/pkg/parallel"
	"github.com/dd0wney/neochain/pkg/validation"
)

// File name prefixes of written artifacts.
const (
	MergedPrefix      = "merged"
	CommunitiesPrefix = "communities"
	MatchesFile       = "matches.csv"
)

// Publisher uploads the artifacts of a run.
type Publisher interface {
	Publish(ctx context.Context, runID string, files ...string) ([]string, error)
}

// Pipeline wires detection, selection and overlap from one configuration.
type Pipeline struct {
	cfg       *config.Config
	service   *community.Service
	matcher   *overlap.Matcher
	publisher Publisher
	cache     *cache.RedisCache
	logger    logging.Logger
	metrics   *metrics.Registry
}

// New creates a pipeline. The config must already be validated. A nil
// registry disables metrics.
func New(cfg *config.Config, logger logging.Logger, reg *metrics.Registry) *Pipeline {
	logger = logging.OrNop(logger)

	louvain := community.NewLouvain(cfg.Detection.Seed, logger)
	louvain.Resolution = cfg.Detection.LouvainResolution
	infomap := community.NewInfomap(cfg.Detection.InfomapBinary, cfg.Detection.InfomapOptions, logger)

	return &Pipeline{
		cfg:     cfg,
		service: community.NewService(logger, reg, louvain, infomap),
		matcher: overlap.NewMatcher(cfg.Measure(), logger, reg),
		logger:  logger.With(logging.Component("pipeline")),
		metrics: reg,
	}
}

// Open creates a pipeline and connects the partition cache and artifact
// publisher the config enables. Close releases them.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger, reg *metrics.Registry) (*Pipeline, error) {
	p := New(cfg, logger, reg)

	if cfg.Cache.Enabled() {
		c, err := cache.Dial(ctx, cache.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.Cache.TTL,
		}, logger)
		if err != nil {
			return nil, err
		}
		p.cache = c
		p.service.WithCache(c)
		p.logger.Info("partition cache enabled", logging.String("addr", cfg.Cache.RedisAddr))
	}

	if cfg.Publish.Enabled() {
		client, err := artifact.NewS3Client(ctx, artifact.S3Options{
			Bucket:    cfg.Publish.Bucket,
			Prefix:    cfg.Publish.Prefix,
			Region:    cfg.Publish.Region,
			Endpoint:  cfg.Publish.Endpoint,
			AccessKey: cfg.Publish.AccessKey,
			SecretKey: cfg.Publish.SecretKey,
			PathStyle: cfg.Publish.PathStyle,
		})
		if err != nil {
			p.Close()
			return nil, err
		}
		p.WithPublisher(artifact.NewPublisher(client, cfg.Publish.Bucket, cfg.Publish.Prefix, logger))
	}
	return p, nil
}

// WithPublisher makes Evolve upload its artifacts through pub.
func (p *Pipeline) WithPublisher(pub Publisher) *Pipeline {
	p.publisher = pub
	return p
}

// Close releases the cache connection, if any.
func (p *Pipeline) Close() error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Close()
}

// Service returns the detection service.
func (p *Pipeline) Service() *community.Service {
	return p.service
}

func (p *Pipeline) request(path string) community.Request {
	return community.Request{
		Path:      path,
		Algorithm: p.cfg.Detection.Algorithm,
		Delimiter: p.cfg.Input.Delimiter,
		Weighted:  p.cfg.Weighted(),
	}
}

// edgeOptions returns the reader options for path, sniffing its delimiter
// when none is configured.
func (p *Pipeline) edgeOptions(path string) (edgelist.Options, error) {
	opts := edgelist.Options{Delimiter: p.cfg.Input.Delimiter, Weighted: p.cfg.Weighted()}
	if opts.Delimiter != "" {
		return opts, nil
	}
	info, err := validation.Sniff(path)
	if err != nil {
		return edgelist.Options{}, fmt.Errorf("sniff %s: %w", path, err)
	}
	opts.Delimiter = info.Delimiter
	return opts, nil
}

// Detection is a detection run and its largest communities.
type Detection struct {
	Result *community.Result
	Top    []community.Group
	// Files are set when community files were written
	Files *artifact.CommunityFiles
}

// Detect finds the communities of path and selects the configured top n.
func (p *Pipeline) Detect(ctx context.Context, path string) (*Detection, error) {
	return p.detect(ctx, p.request(path))
}

// DetectAll runs Detect for every path on a pool of workers. Results follow
// the order of paths; a failed path leaves a nil entry and its error is
// joined into the returned error.
func (p *Pipeline) DetectAll(ctx context.Context, paths []string) ([]*Detection, error) {
	out := make([]*Detection, len(paths))
	err := parallel.ForEach(ctx, p.cfg.Detection.Workers, len(paths), func(ctx context.Context, i int) error {
		d, err := p.Detect(ctx, paths[i])
		if err != nil {
			return fmt.Errorf("%s: %w", paths[i], err)
		}
		out[i] = d
		return nil
	}, p.logger)
	return out, err
}

func (p *Pipeline) detect(ctx context.Context, req community.Request) (*Detection, error) {
	res, err := p.service.Find(ctx, req)
	if err != nil {
		return nil, err
	}
	top, err := community.TopN(res.Partition, p.cfg.Selection.TopN)
	if err != nil {
		return nil, err
	}
	p.logger.Info("top communities selected",
		logging.Path(req.Path),
		logging.Count(len(top)),
		logging.Int("communities", res.Communities()))

	d := &Detection{Result: res, Top: top}
	if p.cfg.Output.WriteGroups {
		files, err := p.writeCommunities(req.Path, res)
		if err != nil {
			return nil, err
		}
		d.Files = &files
	}
	return d, nil
}

func (p *Pipeline) writeCommunities(input string, res *community.Result) (artifact.CommunityFiles, error) {
	out, err := p.outputPath(input, CommunitiesPrefix)
	if err != nil {
		return artifact.CommunityFiles{}, err
	}
	files, err := artifact.WriteCommunityFile(res.Partition, res.Algorithm, out)
	if err != nil {
		return artifact.CommunityFiles{}, err
	}
	p.logger.Info("community file written", logging.Path(files.Groups), logging.String("snapshot", files.Snapshot))
	return files, nil
}

func (p *Pipeline) outputPath(input, prefix string) (string, error) {
	if p.cfg.Output.Dir != "" {
		return artifact.OutputPathIn(p.cfg.Output.Dir, input, prefix)
	}
	return artifact.OutputPath(input, prefix)
}

// Merge builds G(t, t+1) from the top communities of t and writes it as a
// whitespace separated edge list. It returns the written path and edge list.
func (p *Pipeline) Merge(pathT, pathT1 string, top []community.Group) (string, edgelist.EdgeList, error) {
	optsT, err := p.edgeOptions(pathT)
	if err != nil {
		return "", edgelist.EdgeList{}, err
	}
	optsT1, err := p.edgeOptions(pathT1)
	if err != nil {
		return "", edgelist.EdgeList{}, err
	}

	merged, err := edgelist.MergedGraph(pathT, pathT1, optsT, optsT1, community.Members(top), p.logger)
	if err != nil {
		return "", edgelist.EdgeList{}, err
	}

	out, err := p.outputPath(pathT1, MergedPrefix)
	if err != nil {
		return "", edgelist.EdgeList{}, err
	}
	if err := edgelist.WriteFile(out, merged, edgelist.DefaultDelimiter); err != nil {
		return "", edgelist.EdgeList{}, err
	}
	p.logger.Info("merged graph written", logging.Path(out), logging.Count(merged.Len()))

	if p.metrics != nil {
		p.metrics.RecordEdgesLoaded("merged", merged.Len())
	}
	return out, merged, nil
}

// EvolutionReport is the outcome of one Evolve run.
type EvolutionReport struct {
	RunID       string
	Algorithm   string
	Measure     overlap.Measure
	TopT        []community.Group
	TopMerged   []community.Group
	Matches     []overlap.Match
	MergedEdges int
	MergedPath  string
	MatchesPath string // empty unless an output dir is configured
	Elapsed     time.Duration
	// PublishedKeys are the object keys of uploaded artifacts
	PublishedKeys []string
}

// Matched returns the number of communities at t with a counterpart.
func (r *EvolutionReport) Matched() int {
	n := 0
	for _, m := range r.Matches {
		if m.Matched {
			n++
		}
	}
	return n
}

// Evolve tracks the top communities of pathT into the merged graph of pathT
// and pathT1. The run duration is recorded whether or not it succeeds.
func (p *Pipeline) Evolve(ctx context.Context, pathT, pathT1 string) (*EvolutionReport, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := p.logger.With(logging.RunID(runID))
	if p.metrics != nil {
		p.metrics.StartRun(start)
	}
	ended := false
	defer func() {
		if p.metrics == nil || ended {
			return
		}
		p.metrics.EndRun(time.Since(start))
		if err := p.WriteMetrics(); err != nil {
			logger.Warn("metrics not written", logging.Error(err))
		}
	}()

	logger.Info("evolution started", logging.String("t", pathT), logging.String("t1", pathT1))

	atT, err := p.Detect(ctx, pathT)
	if err != nil {
		return nil, fmt.Errorf("detect communities at t: %w", err)
	}
	if p.metrics != nil {
		p.metrics.RecordEdgesLoaded("t", atT.Result.Edges)
	}

	mergedPath, merged, err := p.Merge(pathT, pathT1, atT.Top)
	if err != nil {
		return nil, fmt.Errorf("merge snapshots: %w", err)
	}

	// The merged file is always whitespace separated
	req := p.request(mergedPath)
	req.Delimiter = ""
	atMerged, err := p.detect(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("detect communities in merged graph: %w", err)
	}

	matches, err := p.matcher.Match(atT.Top, atMerged.Top)
	if err != nil {
		return nil, err
	}

	report := &EvolutionReport{
		RunID:       runID,
		Algorithm:   atT.Result.Algorithm,
		Measure:     p.matcher.Measure,
		TopT:        atT.Top,
		TopMerged:   atMerged.Top,
		Matches:     matches,
		MergedEdges: merged.Len(),
		MergedPath:  mergedPath,
	}

	if p.cfg.Output.Dir != "" {
		report.MatchesPath = filepath.Join(p.cfg.Output.Dir, MatchesFile)
		if err := artifact.WriteMatchesFile(report.MatchesPath, matches); err != nil {
			return nil, err
		}
	}

	report.Elapsed = time.Since(start)
	if p.metrics != nil {
		p.metrics.EndRun(report.Elapsed)
	}
	ended = true
	if err := p.WriteMetrics(); err != nil {
		return nil, err
	}

	if p.publisher != nil {
		keys, err := p.publisher.Publish(ctx, runID, p.artifacts(report, atT, atMerged)...)
		if err != nil {
			return nil, fmt.Errorf("publish artifacts: %w", err)
		}
		report.PublishedKeys = keys
	}

	logger.Info("evolution finished",
		logging.Algorithm(report.Algorithm),
		logging.Measure(string(report.Measure)),
		logging.Int("matched", report.Matched()),
		logging.Int("communities_t", len(report.TopT)),
		logging.Latency(report.Elapsed))
	return report, nil
}

func (p *Pipeline) artifacts(report *EvolutionReport, detections ...*Detection) []string {
	files := []string{report.MergedPath, report.MatchesPath}
	for _, d := range detections {
		if d.Files != nil {
			files = append(files, d.Files.Groups, d.Files.Snapshot)
		}
	}
	return append(files, p.cfg.Output.MetricsFile)
}

// WriteMetrics dumps the registry to the configured metrics file, if any.
func (p *Pipeline) WriteMetrics() error {
	if p.metrics == nil || p.cfg.Output.MetricsFile == "" {
		return nil
	}
	if err := p.metrics.WriteTextfile(p.cfg.Output.MetricsFile); err != nil {
		return err
	}
	p.logger.Debug("metrics written", logging.Path(p.cfg.Output.MetricsFile))
	return nil
}
