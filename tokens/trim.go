package tokens

import "strings"

// Strategy selects which part of the text Trim removes.
type Strategy int

const (
	// TrimEnd keeps the beginning.
	TrimEnd Strategy = iota

	// TrimMiddle keeps the beginning and the end.
	TrimMiddle

	// TrimStart keeps the end. Suits chat history, where the newest text matters.
	TrimStart
)

// Markers inserted where text was removed.
const (
	EllipsisMarker = "..."
	MiddleMarker   = "\n...[truncated]...\n"
)

// Trim shortens text to at most maxTokens as measured by c.
// It reports whether anything was removed.
func Trim(c Counter, text string, maxTokens int, s Strategy) (string, bool) {
	if c.FitsInLimit(text, maxTokens) {
		return text, false
	}

	marker := EllipsisMarker
	if s == TrimMiddle {
		marker = MiddleMarker
	}
	budget := maxTokens - c.Count(marker)
	if budget <= 0 {
		return "", true
	}

	runes := []rune(text)
	switch s {
	case TrimStart:
		from := firstFittingSuffix(c, runes, budget)
		if from >= len(runes) {
			return "", true
		}
		return marker + string(runes[from:]), true

	case TrimMiddle:
		head := longestFittingPrefix(c, runes, budget/2)
		from := firstFittingSuffix(c, runes, budget-budget/2)
		if from < head {
			from = head
		}
		var b strings.Builder
		b.WriteString(string(runes[:head]))
		b.WriteString(marker)
		b.WriteString(string(runes[from:]))
		return b.String(), true

	default:
		n := longestFittingPrefix(c, runes, budget)
		if n == 0 {
			return "", true
		}
		return string(runes[:n]) + marker, true
	}
}

// longestFittingPrefix returns the largest n with runes[:n] within limit.
func longestFittingPrefix(c Counter, runes []rune, limit int) int {
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c.FitsInLimit(string(runes[:mid]), limit) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// firstFittingSuffix returns the smallest i with runes[i:] within limit.
func firstFittingSuffix(c Counter, runes []rune, limit int) int {
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi) / 2
		if c.FitsInLimit(string(runes[mid:]), limit) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
