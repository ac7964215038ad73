package community

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dd0wney/neochain/pkg/edgelist"
	"github.com/dd0wney/neochain/pkg/logging"
	"github.com/dd0wney/neochain/pkg/metrics"
	"github.com/dd0wney/neochain/pkg/validation"
)

// Request names an input file and how to detect communities in it.
type Request struct {
	Path      string
	Algorithm string // empty means DefaultAlgorithm
	Delimiter string // empty means the sniffed delimiter
	Weighted  bool
	Options   string // algorithm options, overrides the detector's own
}

// Service validates inputs and dispatches them to a registered Detector.
type Service struct {
	detectors map[string]Detector
	cache     Cache
	logger    logging.Logger
	metrics   *metrics.Registry
}

// NewService creates a service over the given detectors. A nil registry
// disables metrics.
func NewService(logger logging.Logger, reg *metrics.Registry, detectors ...Detector) *Service {
	s := &Service{
		detectors: make(map[string]Detector, len(detectors)),
		logger:    logging.OrNop(logger).With(logging.Component("community")),
		metrics:   reg,
	}
	for _, d := range detectors {
		s.detectors[d.Name()] = d
	}
	return s
}

// WithCache makes Find reuse partitions stored in c.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// Algorithms returns the registered algorithm names in order.
func (s *Service) Algorithms() []string {
	names := make([]string, 0, len(s.detectors))
	for name := range s.detectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detector resolves an algorithm name case-insensitively.
func (s *Service) Detector(algorithm string) (Detector, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	if name == "" {
		name = DefaultAlgorithm
	}
	d, ok := s.detectors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownAlgorithm, algorithm, strings.Join(s.Algorithms(), ", "))
	}
	return d, nil
}

// Find checks the input file and detects its communities. A failed check
// returns a *validation.SanityError; a failed detection a *DetectionError.
func (s *Service) Find(ctx context.Context, req Request) (*Result, error) {
	report := validation.Check(req.Path, validation.CheckOptions{Delimiter: req.Delimiter, Weighted: req.Weighted}, s.logger)
	report.Log(s.logger)
	if err := report.Err(); err != nil {
		s.recordSanity(false, err)
		return nil, err
	}
	s.recordSanity(true, nil)

	d, err := s.Detector(req.Algorithm)
	if err != nil {
		return nil, err
	}

	opts := edgelist.Options{Delimiter: req.Delimiter, Weighted: req.Weighted}
	if opts.Delimiter == "" && report.Info != nil {
		opts.Delimiter = report.Info.Delimiter
	}

	logger := s.logger.With(logging.Algorithm(d.Name()), logging.Path(req.Path))
	logger.Info("finding communities",
		logging.Bool("weighted", req.Weighted),
		logging.String("delimiter", opts.Delimiter))

	in := Input{Path: req.Path, Options: opts, Args: req.Options}
	key, res := s.cached(ctx, d, in, logger)
	if res != nil {
		return res, nil
	}

	res, err = d.Detect(ctx, in)
	if err != nil {
		err = &DetectionError{Algorithm: d.Name(), Path: req.Path, Cause: err}
		logger.Error("community detection failed", logging.Error(err))
		if s.metrics != nil {
			s.metrics.RecordDetection(d.Name(), err, 0, 0)
		}
		return nil, err
	}

	logger.Info("communities found",
		logging.Count(res.Communities()),
		logging.Int("nodes", res.Nodes),
		logging.Int("edges", res.Edges),
		logging.Latency(res.Elapsed))
	if s.metrics != nil {
		s.metrics.RecordDetection(d.Name(), nil, res.Elapsed, res.Communities())
		s.metrics.RecordSelfLoops(d.Name(), res.SelfLoops)
		if d.Name() == AlgorithmLouvain {
			s.metrics.RecordModularity(d.Name(), res.Modularity)
		}
	}

	if key != "" {
		if err := s.cache.Put(ctx, key, res.Partition); err != nil {
			logger.Warn("caching partition failed", logging.Error(err))
		}
	}
	return res, nil
}

// cached returns the cache key for in and, on a hit, the stored result.
// Cache failures are logged and treated as misses.
func (s *Service) cached(ctx context.Context, d Detector, in Input, logger logging.Logger) (string, *Result) {
	if s.cache == nil {
		return "", nil
	}
	key, err := CacheKey(d, in)
	if err != nil {
		logger.Warn("cache key failed", logging.Error(err))
		return "", nil
	}

	p, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache lookup failed", logging.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(ok)
	}
	if !ok {
		return key, nil
	}

	res := &Result{Algorithm: d.Name(), Partition: p, Nodes: len(p), Cached: true}
	logger.Info("communities loaded from cache", logging.Count(res.Communities()), logging.Int("nodes", res.Nodes))
	return key, res
}

func (s *Service) recordSanity(passed bool, err error) {
	if s.metrics == nil {
		return
	}
	var failed []string
	var se *validation.SanityError
	if errors.As(err, &se) {
		failed = se.Failed
	}
	s.metrics.RecordSanityCheck(passed, failed)
}
