package artifact

import "errors"

var (
	// ErrOutputDir is returned when the directory of an input file does not exist
	ErrOutputDir = errors.New("output directory does not exist")

	// ErrCorruptSnapshot is returned when a partition snapshot can not be decoded
	ErrCorruptSnapshot = errors.New("corrupt partition snapshot")

	// ErrSnapshotVersion is returned for snapshots written by a newer format
	ErrSnapshotVersion = errors.New("unsupported partition snapshot version")
)
