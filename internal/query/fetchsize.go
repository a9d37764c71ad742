package query

// MaxLiveFetch caps how many raw records one live query may pull from the
// recent-entries buffer.
const MaxLiveFetch = 10000

// FetchCount decides how many raw records to request from a bounded source
// before filtering. Fetching offset+limit+1 sees one record past the page,
// which is what makes hasMore detectable. With filters active the count is
// tripled, since many raw records may be filtered out before pagination.
//
// This is a heuristic, not a guarantee: when filters drop more than two
// thirds of the fetched records a page can under-fill and hasMore can read
// false even though older matching history exists beyond the fetch window.
func FetchCount(offset, limit int, filtered bool) int {
	n := offset + limit + 1
	if filtered {
		n *= 3
	}
	if n > MaxLiveFetch {
		n = MaxLiveFetch
	}
	return n
}
