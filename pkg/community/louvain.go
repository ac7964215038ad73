package community

import (
	"context"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/graph"
	gcommunity "gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/dd0wney/neochain/pkg/edgelist"
	"github.com/dd0wney/neochain/pkg/logging"
)

// Louvain detects communities by modularity optimisation using gonum.
type Louvain struct {
	// Resolution is the modularity resolution; zero means 1
	Resolution float64
	// Seed makes the node visiting order reproducible when non-zero
	Seed   int64
	Logger logging.Logger
}

// NewLouvain creates a Louvain detector with resolution 1.
func NewLouvain(seed int64, logger logging.Logger) *Louvain {
	return &Louvain{Resolution: 1, Seed: seed, Logger: logger}
}

// Name implements Detector.
func (l *Louvain) Name() string {
	return AlgorithmLouvain
}

// Detect implements Detector.
func (l *Louvain) Detect(ctx context.Context, in Input) (*Result, error) {
	logger := logging.OrNop(l.Logger).With(logging.Component("community"), logging.Algorithm(AlgorithmLouvain))

	el, err := edgelist.ReadFile(in.Path, in.Options)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, selfLoops := BuildGraph(el)
	if g.Nodes().Len() == 0 {
		return nil, ErrEmptyGraph
	}
	if selfLoops > 0 {
		logger.Warn("self-loops skipped", logging.Count(selfLoops))
	}

	timer := logging.StartTimer(logger, "louvain", logging.Path(in.Path))
	communities, q := l.modularize(g)
	elapsed := timer.End(logging.Count(len(communities)), logging.Float64("modularity", q))

	return &Result{
		Algorithm:  AlgorithmLouvain,
		Partition:  partitionOf(communities),
		Nodes:      g.Nodes().Len(),
		Edges:      el.Len(),
		SelfLoops:  selfLoops,
		Modularity: q,
		Elapsed:    elapsed,
	}, nil
}

func (l *Louvain) resolution() float64 {
	if l.Resolution <= 0 {
		return 1
	}
	return l.Resolution
}

func (l *Louvain) modularize(g *simple.WeightedUndirectedGraph) ([][]graph.Node, float64) {
	if g.WeightedEdges().Len() == 0 {
		return singletons(g), 0
	}

	var src rand.Source
	if l.Seed != 0 {
		src = rand.NewPCG(uint64(l.Seed), uint64(l.Seed))
	}
	reduced := gcommunity.Modularize(g, l.resolution(), src)
	communities := reduced.Communities()
	return communities, gcommunity.Q(g, communities, l.resolution())
}

// BuildGraph loads el into an undirected weighted graph. Unweighted edges get
// weight 1 and repeated edges accumulate their weights. Self-loops are left
// out and counted, their node is still added.
func BuildGraph(el edgelist.EdgeList) (*simple.WeightedUndirectedGraph, int) {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	selfLoops := 0

	for _, e := range el.Edges {
		w := 1.0
		if el.Weighted {
			w = e.Weight
		}
		if e.Source == e.Target {
			selfLoops++
			if g.Node(e.Source) == nil {
				g.AddNode(simple.Node(e.Source))
			}
			continue
		}
		if prev := g.WeightedEdge(e.Source, e.Target); prev != nil {
			w += prev.Weight()
		}
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(e.Source), T: simple.Node(e.Target), W: w})
	}
	return g, selfLoops
}

func singletons(g graph.Graph) [][]graph.Node {
	var out [][]graph.Node
	nodes := g.Nodes()
	for nodes.Next() {
		out = append(out, []graph.Node{nodes.Node()})
	}
	return out
}

// partitionOf numbers communities 0..k-1 ordered by their smallest member.
func partitionOf(communities [][]graph.Node) Partition {
	ordered := make([][]int64, 0, len(communities))
	for _, c := range communities {
		if len(c) == 0 {
			continue
		}
		ids := make([]int64, len(c))
		for i, n := range c {
			ids[i] = n.ID()
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		ordered = append(ordered, ids)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i][0] < ordered[j][0] })

	p := make(Partition)
	for cid, ids := range ordered {
		for _, id := range ids {
			p[id] = int64(cid)
		}
	}
	return p
}
