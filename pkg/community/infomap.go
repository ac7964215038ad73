package community

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/dd0wney/neochain/pkg/edgelist"
	"github.com/dd0wney/neochain/pkg/logging"
)

const (
	// DefaultInfomapBinary is looked up on PATH
	DefaultInfomapBinary = "Infomap"

	// infomapRequired is appended to every option string
	infomapRequired = "--two-level -z"

	infomapOutName = "neochain"
)

// Infomap detects communities by running the external Infomap binary.
type Infomap struct {
	Binary string
	// Options are passed before the enforced two-level flags
	Options string
	Logger  logging.Logger
}

// NewInfomap creates an Infomap detector.
func NewInfomap(binary, options string, logger logging.Logger) *Infomap {
	return &Infomap{Binary: binary, Options: options, Logger: logger}
}

// Name implements Detector.
func (im *Infomap) Name() string {
	return AlgorithmInfomap
}

func (im *Infomap) binary() string {
	if im.Binary == "" {
		return DefaultInfomapBinary
	}
	return im.Binary
}

// InfomapArgs builds the Infomap command line for a network file and output
// directory. The two-level flags always follow the caller's options.
func InfomapArgs(options, network, outDir string) ([]string, error) {
	args, err := shlex.Split(options + " " + infomapRequired)
	if err != nil {
		return nil, fmt.Errorf("parse infomap options %q: %w", options, err)
	}
	args = append(args, "--clu", "--out-name", infomapOutName, network, outDir)
	return args, nil
}

// Detect implements Detector. Input.Args, when set, replaces the detector's Options.
func (im *Infomap) Detect(ctx context.Context, in Input) (*Result, error) {
	logger := logging.OrNop(im.Logger).With(logging.Component("community"), logging.Algorithm(AlgorithmInfomap))

	el, err := edgelist.ReadFile(in.Path, in.Options)
	if err != nil {
		return nil, err
	}
	nodes := len(el.Nodes())
	if nodes == 0 {
		return nil, ErrEmptyGraph
	}

	dir, err := os.MkdirTemp("", "neochain-infomap-*")
	if err != nil {
		return nil, fmt.Errorf("create infomap work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	// Infomap reads whitespace separated link lists only
	network := filepath.Join(dir, "network.txt")
	if err := edgelist.WriteFile(network, el, edgelist.DefaultDelimiter); err != nil {
		return nil, err
	}

	options := im.Options
	if in.Args != "" {
		options = in.Args
	}
	args, err := InfomapArgs(options, network, dir)
	if err != nil {
		return nil, err
	}

	timer := logging.StartTimer(logger, "infomap", logging.Path(in.Path), logging.Any("args", args))
	cmd := exec.CommandContext(ctx, im.binary(), args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("run %s: %w: %s", im.binary(), err, lastLine(out))
	}
	logger.Debug("infomap output", logging.String("output", string(out)))

	clu, err := ReadClu(filepath.Join(dir, infomapOutName+".clu"))
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	elapsed := timer.End(logging.Count(clu.Partition.Communities()), logging.Float64("codelength", clu.Codelength))

	return &Result{
		Algorithm:  AlgorithmInfomap,
		Partition:  clu.Partition,
		Nodes:      nodes,
		Edges:      el.Len(),
		Codelength: clu.Codelength,
		Elapsed:    elapsed,
	}, nil
}

func lastLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Clu is a parsed Infomap .clu file.
type Clu struct {
	Partition  Partition
	Codelength float64
}

// ReadClu parses the .clu file at path.
func ReadClu(path string) (*Clu, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open infomap output: %w", err)
	}
	defer f.Close()
	return ParseClu(f)
}

// ParseClu parses "node module [flow]" rows. Comment lines start with '#';
// the "# codelength <bits>" comment is picked up when present.
func ParseClu(r io.Reader) (*Clu, error) {
	clu := &Clu{Partition: make(Partition)}
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			fields := strings.Fields(strings.TrimPrefix(line, "#"))
			if len(fields) >= 2 && fields[0] == "codelength" {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					clu.Codelength = v
				}
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedOutput, lineNum, line)
		}
		node, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: node %q", ErrMalformedOutput, lineNum, fields[0])
		}
		module, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: module %q", ErrMalformedOutput, lineNum, fields[1])
		}
		clu.Partition[node] = module
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read infomap output: %w", err)
	}
	if len(clu.Partition) == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrMalformedOutput)
	}
	return clu, nil
}
