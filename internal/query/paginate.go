package query

import "github.com/simons-plugins/logs-over-reflector/internal/model"

// Paginate windows a filtered, chronologically ascending sequence as
// reverse-chronological pages: offset counts most-recent entries to skip,
// and the page fills backward from there with up to limit entries. Entries
// within the page stay ascending, so the most recent requested entry is
// last. hasMore reports whether older matching entries remain beyond the
// page start.
func Paginate(filtered []model.Entry, offset, limit int) (page []model.Entry, hasMore bool) {
	total := len(filtered)
	if offset >= total {
		return []model.Entry{}, false
	}

	end := total - offset
	start := end - limit
	if start < 0 {
		start = 0
	}

	page = filtered[start:end]
	hasMore = total-offset-len(page) > 0
	return page, hasMore
}
