package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dd0wney/neochain/pkg/logging"
)

// CheckStatus is the outcome of one sanity check.
type CheckStatus int

const (
	CheckOK CheckStatus = iota
	// CheckWarn passes, but the input may not be read as intended
	CheckWarn
	CheckFailed
	// CheckSkipped means an earlier check made this one impossible
	CheckSkipped
)

// String returns the summary label of a status
func (s CheckStatus) String() string {
	switch s {
	case CheckOK:
		return "OK"
	case CheckWarn:
		return "[!] OK"
	case CheckFailed:
		return "NOT OK"
	case CheckSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// Passed reports whether the status lets the input through.
func (s CheckStatus) Passed() bool {
	return s == CheckOK || s == CheckWarn
}

// CheckOptions is what the caller declares about an input file.
type CheckOptions struct {
	// Delimiter the caller intends to read with; empty means whitespace
	Delimiter string
	Weighted  bool
}

// Report is the composite result of the input sanity checks.
type Report struct {
	Path      string
	Info      *FileInfo // nil when the file could not be sniffed
	File      CheckStatus
	Header    CheckStatus
	Delimiter CheckStatus
	Columns   CheckStatus
	Cause     error
}

// Passed reports whether every check let the input through.
func (r *Report) Passed() bool {
	return r.File.Passed() && r.Header.Passed() && r.Delimiter.Passed() && r.Columns.Passed()
}

// Err returns nil for a passing report, or a *SanityError naming the failed checks.
func (r *Report) Err() error {
	if r.Passed() {
		return nil
	}
	failed := make([]string, 0, 4)
	for _, c := range r.checks() {
		if !c.status.Passed() {
			failed = append(failed, c.name)
		}
	}
	return &SanityError{Path: r.Path, Failed: failed, Cause: r.Cause}
}

type namedCheck struct {
	name   string
	status CheckStatus
}

func (r *Report) checks() []namedCheck {
	return []namedCheck{
		{"input file", r.File},
		{"headers", r.Header},
		{"delimiter", r.Delimiter},
		{"columns", r.Columns},
	}
}

// Log writes the per-check summary.
func (r *Report) Log(logger logging.Logger) {
	logger = logging.OrNop(logger)
	for _, c := range r.checks() {
		fields := []logging.Field{logging.Path(r.Path), logging.String("check", c.name), logging.String("status", c.status.String())}
		switch {
		case c.status == CheckWarn:
			logger.Warn("sanity check", fields...)
		case !c.status.Passed():
			logger.Error("sanity check", fields...)
		default:
			logger.Info("sanity check", fields...)
		}
	}
}

// Check runs every input check on path and returns the composite report.
func Check(path string, opts CheckOptions, logger logging.Logger) *Report {
	logger = logging.OrNop(logger).With(logging.Component("sanity"), logging.Path(path))

	r := &Report{
		Path:      path,
		Header:    CheckSkipped,
		Delimiter: CheckSkipped,
		Columns:   CheckSkipped,
	}

	if err := CheckFilePermissions(path); err != nil {
		logger.Error("input file check failed", logging.Error(err))
		r.File, r.Cause = CheckFailed, err
		return r
	}
	r.File = CheckOK

	info, err := Sniff(path)
	if err != nil {
		logger.Error("can not detect delimiter or headers", logging.Error(err))
		r.Delimiter, r.Columns, r.Cause = CheckFailed, CheckFailed, err
		return r
	}
	r.Info = info

	r.Header = CheckHeader(info)
	if info.HasHeader() && r.Header == CheckFailed {
		logger.Warn("header detected; comment it with '#' or delete it", logging.Any("header", info.Header))
	}

	r.Delimiter = CheckDelimiter(info.Delimiter, opts.Delimiter)
	if r.Delimiter == CheckWarn {
		logger.Warn("delimiter mismatch; nodes may not be detected",
			logging.String("provided", opts.Delimiter), logging.String("detected", info.Delimiter))
	}

	r.Columns = CheckColumns(info.Columns, opts.Weighted)
	if r.Columns == CheckFailed {
		r.Cause = fmt.Errorf("detected %d columns, weighted=%t expects %d", info.Columns, opts.Weighted, expectedColumns(opts.Weighted))
	}

	logger.Debug("input sniffed",
		logging.String("delimiter", info.Delimiter),
		logging.Int("columns", info.Columns),
		logging.Bool("header", info.HasHeader()))
	return r
}

// CheckFilePermissions verifies that path exists, is a regular file and can be opened for reading.
func CheckFilePermissions(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}
	if st.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileUnreadable, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}
	return f.Close()
}

// CheckHeader accepts files without a header or with a '#' commented one.
func CheckHeader(info *FileInfo) CheckStatus {
	if !info.HasHeader() || info.HeaderCommented() {
		return CheckOK
	}
	return CheckFailed
}

// CheckDelimiter compares the detected delimiter with the one provided.
// A mismatch is only a warning.
func CheckDelimiter(detected, provided string) CheckStatus {
	if provided == "" {
		provided = Whitespace
	}
	if detected == provided {
		return CheckOK
	}
	return CheckWarn
}

// CheckColumns expects three columns for weighted input and two otherwise.
func CheckColumns(n int, weighted bool) CheckStatus {
	if n == expectedColumns(weighted) {
		return CheckOK
	}
	return CheckFailed
}

func expectedColumns(weighted bool) int {
	if weighted {
		return 3
	}
	return 2
}
