package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/simons-plugins/logs-over-reflector/internal/model"
)

// headerRE matches the first line of a log record in a historical day file:
// "YYYY-MM-DD HH:MM:SS.fff<tabs>Source<tabs>Message". The fractional-second
// run is one or more digits. Field separators are runs of one or more tabs;
// any other whitespace belongs to the adjacent field.
var headerRE = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d+)\t+(\S.*?)\t+(.*)$`)

// Result holds the entries produced by one parse pass plus diagnostics.
//
// UnparsedLeading counts lines seen before the first header line. Callers
// should treat Entries==0 with UnparsedLeading>0 as a likely format
// mismatch (warn) and UnparsedLeading>0 otherwise as informational; the
// parser itself never fails on unrecognized input.
type Result struct {
	Entries         []model.Entry
	UnparsedLeading int
}

// ParseLines scans raw lines (already split, line endings stripped) in order
// and assembles them into entries. A header line closes the currently open
// entry and opens a new one; any other line while an entry is open is a
// continuation and is appended to the open entry's message verbatim, after a
// newline. Lines before the first header are counted and discarded.
//
// Input order is preserved, so a chronologically appended file yields
// entries oldest first.
func ParseLines(lines []string) Result {
	var res Result
	var open *model.Entry

	for _, line := range lines {
		m := headerRE.FindStringSubmatch(line)
		switch {
		case m != nil:
			if open != nil {
				res.Entries = append(res.Entries, *open)
			}
			open = &model.Entry{
				Timestamp: m[1],
				Source:    m[2],
				Message:   m[3],
			}
		case open != nil:
			open.Message += "\n" + line
		default:
			res.UnparsedLeading++
		}
	}

	if open != nil {
		res.Entries = append(res.Entries, *open)
	}
	return res
}

// ParseText splits decoded file content on line boundaries and parses it.
// Both LF and CRLF endings are accepted; a trailing newline does not produce
// a phantom empty line.
func ParseText(text string) Result {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return Result{}
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return ParseLines(lines)
}

// FromRecord converts a live feed record into an Entry. Live records arrive
// whole, so no grammar matching or continuation handling applies; severity
// is carried over, which historical parsing never does.
func FromRecord(rec model.Record) model.Entry {
	sev := rec.Severity
	return model.Entry{
		Timestamp: rec.Time.Format(time.RFC3339),
		Source:    rec.Source,
		Message:   rec.Message,
		Severity:  &sev,
	}
}
