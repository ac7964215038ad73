package artifact

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/snappy"

	"github.com/dd0wney/neochain/pkg/community"
)

// snapshotVersion is bumped when the snapshot layout changes
const snapshotVersion = 1

// CommunityFiles are the paths written by WriteCommunityFile.
type CommunityFiles struct {
	Groups   string
	Snapshot string
}

// snapshot is the JSON body of a .part file.
type snapshot struct {
	Version   int              `json:"version"`
	Algorithm string           `json:"algorithm,omitempty"`
	Partition map[string]int64 `json:"partition"`
}

// WriteCommunityFile writes the .grp and .part files for output, replacing
// its extension.
func WriteCommunityFile(p community.Partition, algorithm, output string) (CommunityFiles, error) {
	files := CommunityFiles{
		Groups:   withExt(output, GroupsExt),
		Snapshot: withExt(output, SnapshotExt),
	}

	if err := WritePartition(p, algorithm, files.Snapshot); err != nil {
		return CommunityFiles{}, err
	}

	f, err := os.Create(files.Groups)
	if err != nil {
		return CommunityFiles{}, fmt.Errorf("create community file: %w", err)
	}
	if err := WriteGroups(f, community.GroupPartition(p)); err != nil {
		f.Close()
		return CommunityFiles{}, err
	}
	if err := f.Close(); err != nil {
		return CommunityFiles{}, fmt.Errorf("close community file: %w", err)
	}
	return files, nil
}

// WriteGroups writes one `cluster,"[n1, n2, ...]"` row per group.
func WriteGroups(w io.Writer, groups []community.Group) (retErr error) {
	csvWriter := csv.NewWriter(w)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("flush community file: %w", err)
		}
	}()

	for _, g := range groups {
		if err := csvWriter.Write([]string{strconv.FormatInt(g.ID, 10), formatMembers(g.Members)}); err != nil {
			return fmt.Errorf("write community %d: %w", g.ID, err)
		}
	}
	return nil
}

func formatMembers(members []int64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, m := range members {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatInt(m, 10))
	}
	b.WriteByte(']')
	return b.String()
}

// EncodePartition serialises p as snappy-compressed JSON.
func EncodePartition(p community.Partition, algorithm string) ([]byte, error) {
	snap := snapshot{
		Version:   snapshotVersion,
		Algorithm: algorithm,
		Partition: make(map[string]int64, len(p)),
	}
	for node, c := range p {
		snap.Partition[strconv.FormatInt(node, 10)] = c
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode partition: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

// DecodePartition reverses EncodePartition. It returns the partition and
// the algorithm that produced it.
func DecodePartition(compressed []byte) (community.Partition, string, error) {
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if snap.Version > snapshotVersion {
		return nil, "", fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}

	p := make(community.Partition, len(snap.Partition))
	for key, c := range snap.Partition {
		node, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, "", fmt.Errorf("%w: node %q", ErrCorruptSnapshot, key)
		}
		p[node] = c
	}
	return p, snap.Algorithm, nil
}

// WritePartition stores p at path.
func WritePartition(p community.Partition, algorithm, path string) error {
	data, err := EncodePartition(p, algorithm)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write partition snapshot: %w", err)
	}
	return nil
}

// ReadPartition loads a snapshot written by WritePartition.
func ReadPartition(path string) (community.Partition, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read partition snapshot: %w", err)
	}
	return DecodePartition(data)
}
