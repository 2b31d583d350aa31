package patch

import "strings"

const (
	srAcceptanceFactor      = 0.35
	srReferenceWindowRadius = 200
	srNoAnchorCap           = 500
)

// locateMatch is a successful locator result: the 0-based start index into
// the source line slice and the Levenshtein distance of the accepted
// candidate (0 for an exact match).
type locateMatch struct {
	index    int
	distance int
}

// locateSearchReplace finds the best source region matching searchLines
// within the given window, honoring an explicit [windowStart, windowEnd)
// range when hasExplicitWindow is true, or inferring a reference-line
// anchored window otherwise. searchText is the untrimmed raw search block,
// used both to find the reference line and to size the acceptance
// threshold. It returns (match, true) on acceptance, (zero, false) when no
// candidate clears the threshold or the semantic-rejection pass vetoes it.
func locateSearchReplace(source []string, searchText string, searchLines []string, hasExplicitWindow bool, windowStart, windowEnd int) (locateMatch, bool) {
	// Blank-line special case: a single blank-line search scans linearly
	// for the first empty source line in the window.
	if len(searchLines) == 1 && searchLines[0] == "" {
		start, end := resolveWindow(source, hasExplicitWindow, windowStart, windowEnd, searchText)
		for i := start; i < end; i++ {
			if i < len(source) && source[i] == "" {
				return locateMatch{index: i, distance: 0}, true
			}
		}
		return locateMatch{}, false
	}

	start, end := resolveWindow(source, hasExplicitWindow, windowStart, windowEnd, searchText)

	searchTrimmedJoined := trimJoin(searchLines)
	bestIdx := -1
	bestDist := -1

	for i := start; i+len(searchLines) <= end && i+len(searchLines) <= len(source); i++ {
		if i < 0 {
			continue
		}
		candidate := trimJoin(source[i : i+len(searchLines)])
		dist := levenshtein(candidate, searchTrimmedJoined)
		if bestIdx == -1 || dist < bestDist {
			bestIdx, bestDist = i, dist
		}
		if bestDist == 0 {
			break
		}
	}

	if bestIdx == -1 {
		return locateMatch{}, false
	}

	threshold := int(float64(len([]rune(searchText))) * srAcceptanceFactor)
	if bestDist > threshold {
		return locateMatch{}, false
	}

	if bestDist > 0 {
		sliceText := strings.Join(source[bestIdx:bestIdx+len(searchLines)], "\n")
		if semanticReject(searchText, sliceText) {
			return locateMatch{}, false
		}
	}

	return locateMatch{index: bestIdx, distance: bestDist}, true
}

// resolveWindow computes the [start, end) search window per spec §4.3: an
// explicit caller-specified range, or a reference-line anchored window of
// radius 200, or — when no anchor line can be found — the first 500 source
// lines.
func resolveWindow(source []string, hasExplicitWindow bool, windowStart, windowEnd int, searchText string) (int, int) {
	if hasExplicitWindow {
		return windowStart, windowEnd
	}

	ref := firstNonBlankLine(searchText)
	if ref != "" {
		for r, line := range source {
			if line == ref {
				start := r - srReferenceWindowRadius
				if start < 0 {
					start = 0
				}
				end := r + len(strings.Split(searchText, "\n")) + srReferenceWindowRadius
				if end > len(source) {
					end = len(source)
				}
				return start, end
			}
		}
	}

	limit := srNoAnchorCap
	if limit > len(source) {
		limit = len(source)
	}
	return 0, limit
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func trimJoin(lines []string) string {
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = strings.TrimSpace(l)
	}
	return strings.Join(trimmed, "\n")
}
