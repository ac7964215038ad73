package validation

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// sniffLines is how many non-blank lines are inspected.
const sniffLines = 5

// Whitespace is the delimiter reported for whitespace separated files.
const Whitespace = " "

var delimiterCandidates = []string{",", "\t", ";", "|"}

// FileInfo is what sniffing the head of an edge list file revealed.
type FileInfo struct {
	Delimiter string   // detected delimiter, Whitespace for runs of blanks
	Header    []string // first line split on Delimiter, nil when no header
	Columns   int      // column count of the first data line
	SkipRows  int      // 1 when the first line is a header
}

// HasHeader reports whether a header line was found.
func (fi *FileInfo) HasHeader() bool {
	return fi.Header != nil
}

// HeaderCommented reports whether the header line starts with '#'.
func (fi *FileInfo) HeaderCommented() bool {
	return len(fi.Header) > 0 && strings.HasPrefix(fi.Header[0], "#")
}

// Sniff inspects the first lines of path to detect its delimiter, header and
// column count.
func Sniff(path string) (*FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := make([]string, 0, sniffLines)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(lines) < sniffLines {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sniff %s: %w", path, err)
	}

	return sniffLinesInfo(lines)
}

func sniffLinesInfo(lines []string) (*FileInfo, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	// A leading '#' line, or a first line with non-numeric fields, is a header
	headerLine := ""
	data := lines
	if strings.HasPrefix(lines[0], "#") {
		headerLine, data = lines[0], lines[1:]
	}

	delim := detectDelimiter(dataOrAll(data, lines))
	if delim == "" {
		return nil, ErrNoDelimiter
	}

	if headerLine == "" && !allNumeric(splitOn(lines[0], delim)) {
		headerLine, data = lines[0], lines[1:]
	}

	info := &FileInfo{Delimiter: delim}
	if headerLine != "" {
		info.Header = splitOn(headerLine, delim)
		info.SkipRows = 1
	}

	if len(data) > 0 {
		info.Columns = len(splitOn(data[0], delim))
	} else {
		info.Columns = len(info.Header)
	}

	return info, nil
}

func dataOrAll(data, all []string) []string {
	if len(data) > 0 {
		return data
	}
	return all
}

// detectDelimiter picks the first candidate that splits every line into the
// same number (>1) of fields, falling back to whitespace.
func detectDelimiter(lines []string) string {
	for _, cand := range delimiterCandidates {
		n := -1
		consistent := true
		for _, line := range lines {
			k := len(strings.Split(line, cand))
			if k < 2 || (n != -1 && k != n) {
				consistent = false
				break
			}
			n = k
		}
		if consistent {
			return cand
		}
	}

	for _, line := range lines {
		if len(strings.Fields(line)) < 2 {
			return ""
		}
	}
	return Whitespace
}

func splitOn(line, delim string) []string {
	if delim == Whitespace {
		return strings.Fields(line)
	}
	parts := strings.Split(line, delim)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func allNumeric(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return false
		}
	}
	return true
}
