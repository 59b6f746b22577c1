package precheck

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/personalnumber"
	dErrors "github.com/Sundsvallskommun/api-service-postportalservice/pkg/domain-errors"
)

// CSV handling for uploaded recipient lists. The format is UTF-8 text with a
// "Personnummer" header row and one identifier per line; additional columns
// are separated by ';' and only the first is consulted.

const csvHeader = "Personnummer"

// CsvReport is the outcome of a strict validation pass. DuplicateEntries
// maps hyphen-stripped identifiers to their occurrence count (>= 2 only).
type CsvReport struct {
	BadEntries       []string
	DuplicateEntries map[string]int
}

// ValidateCsv runs the strict pass used to report problems without sending
// anything. The first non-blank line must be exactly the header; every
// subsequent non-blank line must be a well-formed identifier. Duplicates are
// counted rather than treated as errors.
func ValidateCsv(r io.Reader) (CsvReport, error) {
	report := CsvReport{DuplicateEntries: map[string]int{}}

	scanner := bufio.NewScanner(r)
	headerSeen := false
	counts := map[string]int{}
	for scanner.Scan() {
		line := strings.TrimSpace(firstColumn(scanner.Text()))
		if line == "" {
			continue
		}
		if !headerSeen {
			if line != csvHeader {
				return report, dErrors.Newf(dErrors.CodeBadRequest, "invalid header: %q", line)
			}
			headerSeen = true
			continue
		}
		if !personalnumber.Valid(line) {
			report.BadEntries = append(report.BadEntries, line)
			continue
		}
		counts[personalnumber.Normalize(line)]++
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("read csv: %w", err)
	}
	if !headerSeen {
		return report, dErrors.New(dErrors.CodeBadRequest, "missing header")
	}

	for id, n := range counts {
		if n >= 2 {
			report.DuplicateEntries[id] = n
		}
	}
	if len(report.BadEntries) > 0 {
		return report, dErrors.Newf(dErrors.CodeBadRequest, "invalid entries: %s", strings.Join(report.BadEntries, ", "))
	}
	return report, nil
}

// ParseCsv runs the lenient pass used to seed dispatch: header optional,
// blank lines and any line starting with the header text discarded, result
// deduplicated on the hyphen-stripped form. Input order is preserved.
func ParseCsv(r io.Reader) ([]string, error) {
	var ids []string
	seen := map[string]struct{}{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(firstColumn(scanner.Text()))
		if line == "" || strings.HasPrefix(line, csvHeader) {
			continue
		}
		normalized := personalnumber.Normalize(line)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		ids = append(ids, normalized)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return ids, nil
}

func firstColumn(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}
