package model

import "time"

// Entry is a single structured log record as served by the query API.
//
// Timestamp is either an RFC 3339 instant (live records) or the verbatim
// text captured from a historical file header line; the two forms are
// deliberately not reconciled. Severity is present only on the live path;
// historical day files carry no severity column, so it stays nil there.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`  // emitting component, "" when unknown
	Message   string `json:"message"` // may contain embedded newlines
	Severity  *int   `json:"typeVal"`
}

// Record is one live log record as delivered by a feed, before conversion
// into an Entry.
type Record struct {
	Time     time.Time `json:"ts"`
	Source   string    `json:"source"`
	Severity int       `json:"severity"`
	Message  string    `json:"message"`
}

// RawLine is one line of feed text together with the file it came from.
type RawLine struct {
	Text   string
	Source string
}

// QueryResult is the payload returned by the log and history endpoints.
type QueryResult struct {
	Success       bool    `json:"success"`
	Count         int     `json:"count"`
	TotalFiltered int     `json:"totalFiltered"`
	HasMore       bool    `json:"hasMore"`
	Entries       []Entry `json:"entries"`
}
