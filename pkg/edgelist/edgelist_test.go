package edgelist

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestDecode_Unweighted(t *testing.T) {
	input := "# source target\n1 2\n\n2   3\n3\t1 # trailing comment\n"

	el, err := Decode(strings.NewReader(input), Options{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := []Edge{{1, 2, 1}, {2, 3, 1}, {3, 1, 1}}
	if len(el.Edges) != len(want) {
		t.Fatalf("Expected %d edges, got %d", len(want), len(el.Edges))
	}
	for i, e := range want {
		if el.Edges[i] != e {
			t.Errorf("Edge %d = %+v, want %+v", i, el.Edges[i], e)
		}
	}
	if el.Weighted {
		t.Error("Expected unweighted edge list")
	}
}

func TestDecode_WeightedWithDelimiter(t *testing.T) {
	input := "10, 20, 0.5\n20,30,2\n"

	el, err := Decode(strings.NewReader(input), Options{Delimiter: ",", Weighted: true})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(el.Edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d", len(el.Edges))
	}
	if el.Edges[0].Weight != 0.5 || el.Edges[1].Weight != 2 {
		t.Errorf("Unexpected weights: %+v", el.Edges)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  error
		line  int
	}{
		{"missing weight", "1 2\n", Options{Weighted: true}, ErrColumnCount, 1},
		{"extra column", "1 2\n1 2 3\n", Options{}, ErrColumnCount, 2},
		{"bad source", "a 2\n", Options{}, ErrNodeID, 1},
		{"bad target", "1 2.5\n", Options{}, ErrNodeID, 1},
		{"bad weight", "1 2 x\n", Options{Weighted: true}, ErrWeight, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Expected *ParseError, got %T", err)
			}
			if pe.Line != tt.line {
				t.Errorf("Line = %d, want %d", pe.Line, tt.line)
			}
		})
	}
}

func TestReadFile_AttachesPath(t *testing.T) {
	path := writeTemp(t, "bad.txt", "1 x\n")

	_, err := ReadFile(path, Options{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if pe.Path != path {
		t.Errorf("Path = %q, want %q", pe.Path, path)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("Error message should mention path: %v", err)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestFilter_KeepsEdgesTouchingSeeds(t *testing.T) {
	el := EdgeList{Edges: []Edge{{1, 3, 1}, {4, 5, 1}, {2, 6, 1}}}

	sub := Filter(el, NodeSet([]int64{1, 2}))

	if sub.Len() != 2 {
		t.Fatalf("Expected 2 edges, got %d", sub.Len())
	}
	if sub.Edges[0] != el.Edges[0] || sub.Edges[1] != el.Edges[2] {
		t.Errorf("Filter kept the wrong rows: %+v", sub.Edges)
	}
}

func TestFilter_EmptySeeds(t *testing.T) {
	el := EdgeList{Edges: []Edge{{1, 3, 1}}}
	if got := Filter(el, NodeSet()); got.Len() != 0 {
		t.Errorf("Expected no edges, got %d", got.Len())
	}
}

func TestConcat_PreservesDuplicates(t *testing.T) {
	a := EdgeList{Edges: []Edge{{1, 2, 1}, {2, 3, 1}}, Weighted: true}
	b := EdgeList{Edges: []Edge{{1, 2, 1}, {3, 4, 1}, {4, 5, 1}}, Weighted: true}

	merged := Concat(a, b)

	if merged.Len() != 5 {
		t.Fatalf("Expected 5 rows, got %d", merged.Len())
	}
	if merged.Edges[0] != merged.Edges[2] {
		t.Error("Duplicate edge across snapshots should be kept")
	}
	if !merged.Weighted {
		t.Error("Concat of two weighted lists should stay weighted")
	}
	if Concat(a, EdgeList{}).Weighted {
		t.Error("Concat with an unweighted list should be unweighted")
	}
}

func TestNodes_SortedDistinct(t *testing.T) {
	el := EdgeList{Edges: []Edge{{5, 1, 1}, {1, 5, 1}, {3, 3, 1}}}

	nodes := el.Nodes()
	want := []int64{1, 3, 5}
	if len(nodes) != len(want) {
		t.Fatalf("Nodes() = %v, want %v", nodes, want)
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Errorf("Nodes() = %v, want %v", nodes, want)
		}
	}
}

func TestEncode_RoundTripsThroughDecode(t *testing.T) {
	el := EdgeList{Edges: []Edge{{1, 2, 0.25}, {2, 3, 4}}, Weighted: true}

	var buf bytes.Buffer
	if err := Encode(&buf, el, "\t"); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if buf.String() != "1\t2\t0.25\n2\t3\t4\n" {
		t.Errorf("Unexpected encoding: %q", buf.String())
	}

	back, err := Decode(&buf, Options{Delimiter: "\t", Weighted: true})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if back.Len() != 2 || back.Edges[0] != el.Edges[0] {
		t.Errorf("Round trip mismatch: %+v", back.Edges)
	}
}

func TestEncode_UnweightedOmitsWeight(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, EdgeList{Edges: []Edge{{7, 8, 1}}}, ""); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if buf.String() != "7 8\n" {
		t.Errorf("Unexpected encoding: %q", buf.String())
	}
}

func TestMergedGraph(t *testing.T) {
	pathT := writeTemp(t, "t.txt", "1 3\n4 5\n2 6\n")
	pathT1 := writeTemp(t, "t1.txt", "1 3\n7 8\n9 10\n")

	merged, err := MergedGraph(pathT, pathT1, Options{}, Options{}, [][]int64{{1}, {2}}, nil)
	if err != nil {
		t.Fatalf("MergedGraph failed: %v", err)
	}

	// Two rows from the t sub graph plus all three rows of t+1
	if merged.Len() != 5 {
		t.Fatalf("Expected 5 rows, got %d", merged.Len())
	}
	if merged.Edges[0] != (Edge{1, 3, 1}) || merged.Edges[2] != (Edge{1, 3, 1}) {
		t.Errorf("Unexpected merged rows: %+v", merged.Edges)
	}
}

func TestMergedGraph_DelimiterPerSnapshot(t *testing.T) {
	pathT := writeTemp(t, "t.csv", "1,3\n4,5\n")
	pathT1 := writeTemp(t, "t1.txt", "7 8\n")

	merged, err := MergedGraph(pathT, pathT1, Options{Delimiter: ","}, Options{}, [][]int64{{1}}, nil)
	if err != nil {
		t.Fatalf("MergedGraph failed: %v", err)
	}
	want := []Edge{{1, 3, 1}, {7, 8, 1}}
	if len(merged.Edges) != len(want) {
		t.Fatalf("Expected %d rows, got %+v", len(want), merged.Edges)
	}
	for i := range want {
		if merged.Edges[i] != want[i] {
			t.Errorf("Row %d = %+v, want %+v", i, merged.Edges[i], want[i])
		}
	}
}

func TestSubGraph_MissingFile(t *testing.T) {
	_, err := SubGraph(filepath.Join(t.TempDir(), "missing.txt"), Options{}, nil, nil)
	if err == nil {
		t.Fatal("Expected error for missing snapshot")
	}
}
