package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simons-plugins/logs-over-reflector/internal/filestore"
	"github.com/simons-plugins/logs-over-reflector/internal/model"
	"github.com/simons-plugins/logs-over-reflector/internal/parser"
	"github.com/simons-plugins/logs-over-reflector/internal/query"
)

// sourcesWindow is how many recent records the sources endpoint scans.
const sourcesWindow = 2000

var dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// pageWindow reads the lines and offset parameters, substituting the
// configured default for missing or unparseable values and clamping both.
func (s *Server) pageWindow(c *gin.Context) (lines, offset int) {
	lines = s.cfg.DefaultLines
	if v, err := strconv.Atoi(c.Query("lines")); err == nil {
		lines = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil {
		offset = v
	}
	return query.ClampLines(lines), query.ClampOffset(offset)
}

// queryFilters reads the source and search parameters. The search filter is
// lower-cased here so downstream matching stays case-insensitive.
func queryFilters(c *gin.Context) (source, search string) {
	source = strings.TrimSpace(c.Query("source"))
	search = strings.ToLower(strings.TrimSpace(c.Query("search")))
	return source, search
}

// handleLog serves a page of the live recent-entries feed.
func (s *Server) handleLog(c *gin.Context) {
	lines, offset := s.pageWindow(c)
	source, search := queryFilters(c)

	fetch := query.FetchCount(offset, lines, source != "" || search != "")
	recs := s.live.Recent(fetch)

	filtered := make([]model.Entry, 0, len(recs))
	for _, r := range recs {
		e := parser.FromRecord(r)
		if query.Matches(e, source, search) {
			filtered = append(filtered, e)
		}
	}

	page, hasMore := query.Paginate(filtered, offset, lines)
	c.JSON(http.StatusOK, model.QueryResult{
		Success:       true,
		Count:         len(page),
		TotalFiltered: len(filtered),
		HasMore:       hasMore,
		Entries:       page,
	})
}

// handleHistory serves a page of one historical day file.
func (s *Server) handleHistory(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if !dateRE.MatchString(date) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing or invalid 'date' parameter (YYYY-MM-DD)",
		})
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid calendar date: " + date,
		})
		return
	}

	lines, offset := s.pageWindow(c)
	source, search := queryFilters(c)

	text, _, err := s.store.ReadDay(date)
	if err != nil {
		s.historyReadError(c, date, err)
		return
	}

	res := parser.ParseText(text)
	switch {
	case res.UnparsedLeading > 0 && len(res.Entries) == 0:
		s.log.Warn("day file had lines but none matched the expected format",
			zap.String("date", date),
			zap.Int("lines", res.UnparsedLeading))
	case res.UnparsedLeading > 0:
		s.log.Debug("day file had leading lines before the first parseable entry",
			zap.String("date", date),
			zap.Int("lines", res.UnparsedLeading))
	}

	filtered := query.Filter(res.Entries, source, search)
	page, hasMore := query.Paginate(filtered, offset, lines)
	c.JSON(http.StatusOK, model.QueryResult{
		Success:       true,
		Count:         len(page),
		TotalFiltered: len(filtered),
		HasMore:       hasMore,
		Entries:       page,
	})
}

// historyReadError maps a day-file read failure to a response. Client
// messages stay generic; the detail goes to the operational log only.
func (s *Server) historyReadError(c *gin.Context, date string, err error) {
	var tooLarge *filestore.TooLargeError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file for a valid date is an empty result, not an error.
		c.JSON(http.StatusOK, model.QueryResult{Success: true, Entries: []model.Entry{}})

	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Log file too large (%d MB). Use source or search filters.", tooLarge.SizeMB()),
		})

	case errors.Is(err, fs.ErrPermission):
		s.log.Error("permission denied reading day file", zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Cannot read log file: permission denied",
		})

	default:
		s.log.Error("failed to read day file", zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "File system error reading log file",
		})
	}
}

// handleSources lists the distinct source labels seen in a bounded recent
// window of the live log, sorted ascending.
func (s *Server) handleSources(c *gin.Context) {
	recs := s.live.Recent(sourcesWindow)

	seen := make(map[string]bool)
	for _, r := range recs {
		if r.Source != "" {
			seen[r.Source] = true
		}
	}

	sources := make([]string, 0, len(seen))
	for src := range seen {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

// handleDates lists the calendar dates that have a historical day file,
// sorted descending.
func (s *Server) handleDates(c *gin.Context) {
	dates, err := s.store.Dates()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("logs directory not found")
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"dates":   []string{},
				"warning": "Logs directory not found",
			})
			return
		}
		s.log.Error("failed to enumerate day files", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "dates": dates})
}
