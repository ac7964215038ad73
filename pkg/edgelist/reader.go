package edgelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const maxLineSize = 1024 * 1024

// Options controls how an edge list is interpreted.
type Options struct {
	// Delimiter separates columns. Empty or " " means any run of whitespace.
	Delimiter string
	// Weighted expects a third, numeric weight column.
	Weighted bool
}

// Columns returns the number of columns a row must have.
func (o Options) Columns() int {
	if o.Weighted {
		return 3
	}
	return 2
}

// ReadFile loads an edge list from path.
func ReadFile(path string, opts Options) (EdgeList, error) {
	f, err := os.Open(path)
	if err != nil {
		return EdgeList{}, fmt.Errorf("open edge list: %w", err)
	}
	defer f.Close()

	el, err := Decode(f, opts)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return EdgeList{}, err
	}
	return el, nil
}

// Decode reads an edge list. Everything after '#' on a line is a comment and
// blank lines are skipped.
func Decode(r io.Reader, opts Options) (EdgeList, error) {
	el := EdgeList{Weighted: opts.Weighted, Edges: make([]Edge, 0)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := raw
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		edge, err := parseLine(line, opts)
		if err != nil {
			return EdgeList{}, &ParseError{Line: lineNo, Text: raw, Cause: err}
		}
		el.Edges = append(el.Edges, edge)
	}
	if err := scanner.Err(); err != nil {
		return EdgeList{}, fmt.Errorf("scan edge list: %w", err)
	}

	return el, nil
}

// SplitFields splits a line on delim, or on whitespace when delim is empty or " ".
func SplitFields(line, delim string) []string {
	if delim == "" || delim == " " {
		return strings.Fields(line)
	}
	parts := strings.Split(line, delim)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseLine(line string, opts Options) (Edge, error) {
	parts := SplitFields(line, opts.Delimiter)
	if len(parts) != opts.Columns() {
		return Edge{}, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(parts), opts.Columns())
	}

	src, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %q", ErrNodeID, parts[0])
	}
	dst, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %q", ErrNodeID, parts[1])
	}

	weight := 1.0
	if opts.Weighted {
		weight, err = strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return Edge{}, fmt.Errorf("%w: %q", ErrWeight, parts[2])
		}
	}

	return Edge{Source: src, Target: dst, Weight: weight}, nil
}
