// Package filestore provides read access to the per-day historical log
// files, one "YYYY-MM-DD Events.txt" file per calendar date.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/simons-plugins/logs-over-reflector/internal/textenc"
)

// DefaultMaxFileSize is the size guard for one day file. Files above it are
// rejected instead of being parsed in memory.
const DefaultMaxFileSize = 50 << 20 // 50 MiB

const fileSuffix = " Events.txt"

var dateNameRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// TooLargeError reports a day file exceeding the size guard.
type TooLargeError struct {
	Size int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("log file too large (%d MB)", e.SizeMB())
}

// SizeMB returns the offending file size rounded down to whole megabytes.
func (e *TooLargeError) SizeMB() int64 {
	return e.Size >> 20
}

// Store reads historical day files from a logs directory.
type Store struct {
	dir string
	log *zap.Logger

	// MaxFileSize is the per-file size guard, DefaultMaxFileSize unless
	// overridden.
	MaxFileSize int64
}

// New creates a Store over the given logs directory.
func New(dir string, logger *zap.Logger) *Store {
	return &Store{
		dir:         dir,
		log:         logger,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// pathFor maps a calendar date to its day file path.
func (s *Store) pathFor(date string) string {
	return filepath.Join(s.dir, date+fileSuffix)
}

// ReadDay returns the decoded text of one day file. A missing file surfaces
// as an fs.ErrNotExist-matching error, an oversize file as *TooLargeError;
// permission and other I/O errors pass through for the caller to classify.
// usedFallback reports that the Latin-1 decode path was taken.
func (s *Store) ReadDay(date string) (text string, usedFallback bool, err error) {
	path := s.pathFor(date)

	fi, err := os.Stat(path)
	if err != nil {
		return "", false, err
	}
	if fi.Size() > s.MaxFileSize {
		s.log.Warn("day file exceeds size guard",
			zap.String("date", date),
			zap.Int64("size", fi.Size()),
			zap.Int64("limit", s.MaxFileSize))
		return "", false, &TooLargeError{Size: fi.Size()}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}

	text, usedFallback, err = textenc.Decode(raw)
	if err != nil {
		return "", usedFallback, fmt.Errorf("decoding day file: %w", err)
	}
	if usedFallback {
		s.log.Warn("day file is not valid UTF-8, decoded as Latin-1", zap.String("date", date))
	}
	return text, usedFallback, nil
}

// Dates enumerates the calendar dates that have a day file, sorted
// descending (most recent first). A missing logs directory surfaces as an
// fs.ErrNotExist-matching error.
func (s *Store) Dates() ([]string, error) {
	if _, err := os.Stat(s.dir); err != nil {
		return nil, err
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(s.dir, "*"+fileSuffix))
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(matches))
	for _, m := range matches {
		name := filepath.Base(m)
		date := strings.TrimSuffix(name, fileSuffix)
		if dateNameRE.MatchString(date) {
			dates = append(dates, date)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}
