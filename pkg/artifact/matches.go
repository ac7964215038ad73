package artifact

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dd0wney/neochain/pkg/overlap"
)

// unmatched is written in place of a counterpart id
const unmatched = "none"

// WriteMatches writes a community_t,community_t1,score table.
func WriteMatches(w io.Writer, matches []overlap.Match) (retErr error) {
	csvWriter := csv.NewWriter(w)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("flush matches: %w", err)
		}
	}()

	if err := csvWriter.Write([]string{"community_t", "community_t1", "score"}); err != nil {
		return fmt.Errorf("write matches header: %w", err)
	}
	for _, m := range matches {
		record := []string{strconv.FormatInt(m.CommunityT, 10), unmatched, unmatched}
		if m.Matched {
			record[1] = strconv.FormatInt(m.CommunityT1, 10)
			record[2] = strconv.FormatFloat(m.Score, 'f', -1, 64)
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("write match %d: %w", m.CommunityT, err)
		}
	}
	return nil
}

// WriteMatchesFile writes the match table to path.
func WriteMatchesFile(path string, matches []overlap.Match) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create matches file: %w", err)
	}
	if err := WriteMatches(f, matches); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
