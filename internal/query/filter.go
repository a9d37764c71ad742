package query

import (
	"strings"

	"github.com/simons-plugins/logs-over-reflector/internal/model"
)

// Matches reports whether an entry passes the query filters. The source
// filter is an exact, case-sensitive match; the search filter is a
// case-insensitive substring match against the message only and must
// already be lower-cased by the caller. Empty filters pass everything, and
// both active filters must hold.
func Matches(e model.Entry, sourceFilter, searchFilter string) bool {
	if sourceFilter != "" && e.Source != sourceFilter {
		return false
	}
	if searchFilter != "" && !strings.Contains(strings.ToLower(e.Message), searchFilter) {
		return false
	}
	return true
}

// Filter applies Matches over an ascending entry sequence, preserving order.
// The returned slice is never nil.
func Filter(entries []model.Entry, sourceFilter, searchFilter string) []model.Entry {
	filtered := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, sourceFilter, searchFilter) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
