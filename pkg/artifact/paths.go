// Package artifact writes and reads the files a detection run leaves behind:
// grouped community files, partition snapshots and match tables.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extensions of the files written next to an output path.
const (
	GroupsExt   = ".grp"
	SnapshotExt = ".part"
)

// OutputPath returns <dir>/<prefix>_<name> for an input file at <dir>/<name>.
func OutputPath(input, prefix string) (string, error) {
	return OutputPathIn(filepath.Dir(input), input, prefix)
}

// OutputPathIn returns <dir>/<prefix>_<name> for an input file named <name>.
func OutputPathIn(dir, input, prefix string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrOutputDir, dir)
	}
	return filepath.Join(dir, prefix+"_"+filepath.Base(input)), nil
}

// withExt replaces the extension of path.
func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
