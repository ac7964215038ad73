package edgelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// DefaultDelimiter separates columns when no delimiter is given.
const DefaultDelimiter = " "

// Encode writes one row per edge. An empty delimiter writes a single space.
// The weight column is written only for weighted lists.
func Encode(w io.Writer, el EdgeList, delim string) error {
	if delim == "" {
		delim = DefaultDelimiter
	}

	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	for _, e := range el.Edges {
		buf = buf[:0]
		buf = strconv.AppendInt(buf, e.Source, 10)
		buf = append(buf, delim...)
		buf = strconv.AppendInt(buf, e.Target, 10)
		if el.Weighted {
			buf = append(buf, delim...)
			buf = strconv.AppendFloat(buf, e.Weight, 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write edge: %w", err)
		}
	}
	return bw.Flush()
}

// WriteFile writes el to path, replacing any existing file.
func WriteFile(path string, el EdgeList, delim string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create edge list: %w", err)
	}
	if err := Encode(f, el, delim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
