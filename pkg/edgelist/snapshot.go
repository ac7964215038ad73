package edgelist

import (
	"github.com/dd0wney/neochain/pkg/logging"
)

// SubGraph reads the snapshot at path and keeps the edges touching any member
// of the given communities.
func SubGraph(path string, opts Options, communities [][]int64, logger logging.Logger) (EdgeList, error) {
	logger = logging.OrNop(logger).With(logging.Component("edgelist"), logging.Snapshot("t"))

	el, err := ReadFile(path, opts)
	if err != nil {
		return EdgeList{}, err
	}
	logger.Info("snapshot loaded", logging.Path(path), logging.Count(el.Len()))

	sub := Filter(el, NodeSet(communities...))
	logger.Info("sub graph created", logging.Count(sub.Len()))
	return sub, nil
}

// MergedGraph builds G(t, t+1): the sub graph of the t snapshot around the
// given communities followed by every edge of the t+1 snapshot. Each snapshot
// is read with its own options.
func MergedGraph(pathT, pathT1 string, optsT, optsT1 Options, communities [][]int64, logger logging.Logger) (EdgeList, error) {
	logger = logging.OrNop(logger)

	sub, err := SubGraph(pathT, optsT, communities, logger)
	if err != nil {
		return EdgeList{}, err
	}

	next, err := ReadFile(pathT1, optsT1)
	if err != nil {
		return EdgeList{}, err
	}
	logger.Info("snapshot loaded",
		logging.Component("edgelist"), logging.Snapshot("t1"),
		logging.Path(pathT1), logging.Count(next.Len()))

	merged := Concat(sub, next)
	logger.Info("merged graph created",
		logging.Component("edgelist"), logging.Snapshot("merged"),
		logging.Count(merged.Len()))
	return merged, nil
}
