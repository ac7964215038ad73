package community

import (
	"context"
	"time"

	"github.com/dd0wney/neochain/pkg/edgelist"
)

// Algorithm names accepted by the Service.
const (
	AlgorithmInfomap = "infomap"
	AlgorithmLouvain = "louvain"

	DefaultAlgorithm = AlgorithmInfomap
)

// Input is one detection job.
type Input struct {
	Path    string
	Options edgelist.Options
	// Args are extra algorithm options; only Infomap reads them
	Args string
}

// Result is a detected partition plus what the algorithm reported about it.
type Result struct {
	Algorithm string
	Partition Partition
	Nodes     int
	Edges     int
	SelfLoops int // edges left out of the detection graph

	// Modularity is set by Louvain; Codelength by Infomap
	Modularity float64
	Codelength float64

	Elapsed time.Duration
	// Cached is set when the partition came from a Cache
	Cached bool
}

// Communities returns the number of detected communities.
func (r *Result) Communities() int {
	return r.Partition.Communities()
}

// Detector partitions the graph stored in an edge list file.
type Detector interface {
	Name() string
	Detect(ctx context.Context, in Input) (*Result, error)
}
