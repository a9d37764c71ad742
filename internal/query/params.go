package query

// MaxLines bounds how many entries one page may return.
const MaxLines = 5000

// ClampLines bounds a requested page size to [1, MaxLines].
func ClampLines(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxLines {
		return MaxLines
	}
	return n
}

// ClampOffset bounds a requested offset to be non-negative.
func ClampOffset(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
