package community

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Cache stores detected partitions by input fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (Partition, bool, error)
	Put(ctx context.Context, key string, p Partition) error
}

// Fingerprinter is implemented by detectors whose output depends on
// settings beyond their name.
type Fingerprinter interface {
	Fingerprint() string
}

// Fingerprint implements Fingerprinter.
func (l *Louvain) Fingerprint() string {
	return fmt.Sprintf("louvain:resolution=%g:seed=%d", l.resolution(), l.Seed)
}

// Fingerprint implements Fingerprinter.
func (im *Infomap) Fingerprint() string {
	return fmt.Sprintf("infomap:binary=%s:options=%s", im.binary(), im.Options)
}

// CacheKey hashes the content of in.Path together with everything that
// changes the detected partition.
func CacheKey(d Detector, in Input) (string, error) {
	f, err := os.Open(in.Path)
	if err != nil {
		return "", fmt.Errorf("open input for cache key: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash input: %w", err)
	}

	settings := d.Name()
	if fp, ok := d.(Fingerprinter); ok {
		settings = fp.Fingerprint()
	}
	for _, part := range []string{settings, in.Args, in.Options.Delimiter, strconv.FormatBool(in.Options.Weighted)} {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
