package patch

import (
	"sort"
	"strings"
)

const (
	udAcceptanceFactor = 0.20
	udDriftHorizon     = 10
	udSplitContextPad  = 2
)

// applyUnifiedDiffHunks sequences hunks against source per spec §4.6: each
// hunk is located by exact match, then global fuzzy match, then hunk
// splitting, and applied against the running line view produced by the
// previously applied hunks.
func applyUnifiedDiffHunks(source string, hunks []Hunk) Result {
	sourceLines := strings.Split(source, "\n")

	if hunksOverlap(hunks) {
		return fail(ErrOverlappingHunks, "unified-diff hunks target overlapping original ranges")
	}

	ordered := make([]Hunk, len(hunks))
	copy(ordered, hunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OriginalStartLine < ordered[j].OriginalStartLine
	})

	working := sourceLines
	offset := 0
	for _, h := range ordered {
		newWorking, delta, failed := applyOneHunk(working, h, offset)
		if failed {
			return fail(ErrContextMismatch, "hunk could not be located by exact, fuzzy, or split strategies")
		}
		working = newWorking
		offset += delta
	}

	return ok(strings.Join(working, "\n"))
}

func hunksOverlap(hunks []Hunk) bool {
	for i := 0; i < len(hunks); i++ {
		ai, ac := hunks[i].OriginalStartLine, hunks[i].OriginalLineCount
		if ac == 0 {
			continue
		}
		for j := i + 1; j < len(hunks); j++ {
			bi, bc := hunks[j].OriginalStartLine, hunks[j].OriginalLineCount
			if bc == 0 {
				continue
			}
			if ai < bi+bc && bi < ai+ac {
				return true
			}
		}
	}
	return false
}

func netDelta(lines []string) int {
	plus, minus := 0, 0
	for _, l := range lines {
		if len(l) == 0 {
			continue
		}
		switch l[0] {
		case '+':
			plus++
		case '-':
			minus++
		}
	}
	return plus - minus
}

func hasContextLine(lines []string) bool {
	for _, l := range lines {
		if len(l) > 0 && l[0] == ' ' {
			return true
		}
	}
	return false
}

// applyOneHunk applies a single hunk (or, on fallback, its split
// sub-hunks) against working, returning the new line view and this hunk's
// net line delta, or failed=true if no strategy located it.
func applyOneHunk(working []string, h Hunk, offset int) (newWorking []string, delta int, failed bool) {
	pat := h.pattern()

	// Step 1: pure insertion is a trusted positional insert.
	if len(pat) == 0 {
		insertAt := h.OriginalStartLine + offset
		if insertAt < 0 {
			insertAt = 0
		}
		if insertAt > len(working) {
			insertAt = len(working)
		}
		added := markedLines(h.Lines, '+')
		out := make([]string, 0, len(working)+len(added))
		out = append(out, working[:insertAt]...)
		out = append(out, added...)
		out = append(out, working[insertAt:]...)
		return out, len(added), false
	}

	start0 := h.OriginalStartLine - 1 + offset

	// Step 2: exact fast path.
	if start0 >= 0 && start0+len(pat) <= len(working) && sliceEqual(working[start0:start0+len(pat)], pat) {
		return applyHunkBody(working, h, start0), netDelta(h.Lines), false
	}

	// Step 3: zero-context guard.
	if !hasContextLine(h.Lines) && h.OriginalLineCount > 0 {
		return nil, 0, true
	}

	// Step 4: global fuzzy.
	if idx, found := fuzzyLocatePattern(working, pat); found {
		return applyHunkBody(working, h, idx), netDelta(h.Lines), false
	}

	// Step 5: hunk splitting fallback.
	return applySplitHunk(working, h, offset)
}

// fuzzyLocatePattern scans every window in working the size of pat,
// comparing by Levenshtein distance, and accepts the best match within the
// unified-diff acceptance threshold.
func fuzzyLocatePattern(working []string, pat []string) (int, bool) {
	if len(pat) == 0 || len(pat) > len(working) {
		return 0, false
	}
	patternText := strings.Join(pat, "\n")
	bestIdx, bestDist := -1, -1
	for i := 0; i+len(pat) <= len(working); i++ {
		candidate := strings.Join(working[i:i+len(pat)], "\n")
		d := levenshtein(candidate, patternText)
		if bestIdx == -1 || d < bestDist {
			bestIdx, bestDist = i, d
		}
		if bestDist == 0 {
			break
		}
	}
	if bestIdx == -1 {
		return 0, false
	}
	threshold := int(float64(len([]rune(patternText))) * udAcceptanceFactor)
	if bestDist > threshold {
		return 0, false
	}
	return bestIdx, true
}

// applySplitHunk implements spec §4.6 step 5: partition the hunk into
// sub-hunks around each maximal run of added/removed lines, padded with up
// to 2 context lines per side, and apply each in turn using steps 2-4.
func applySplitHunk(working []string, h Hunk, offset int) ([]string, int, bool) {
	subs := splitHunk(h)
	if len(subs) == 0 {
		return nil, 0, true
	}

	current := working
	total := 0
	for _, sh := range subs {
		subPat := sh.pattern()
		start0 := sh.OriginalStartLine - 1 + offset + total

		applied := false
		if len(subPat) == 0 {
			insertAt := sh.OriginalStartLine + offset + total
			if insertAt < 0 {
				insertAt = 0
			}
			if insertAt > len(current) {
				insertAt = len(current)
			}
			added := markedLines(sh.Lines, '+')
			out := make([]string, 0, len(current)+len(added))
			out = append(out, current[:insertAt]...)
			out = append(out, added...)
			out = append(out, current[insertAt:]...)
			current = out
			applied = true
		} else if start0 >= 0 && start0+len(subPat) <= len(current) && sliceEqual(current[start0:start0+len(subPat)], subPat) {
			current = applyHunkBody(current, sh, start0)
			applied = true
		} else if hasContextLine(sh.Lines) || sh.OriginalLineCount == 0 {
			if idx, found := fuzzyLocatePattern(current, subPat); found {
				current = applyHunkBody(current, sh, idx)
				applied = true
			}
		}

		if !applied {
			return nil, 0, true
		}
		total += netDelta(sh.Lines)
	}

	return current, total, false
}

// splitHunk partitions h's lines into sub-hunks, one per maximal run of
// non-context lines padded with up to 2 context lines on each side.
func splitHunk(h Hunk) []Hunk {
	lines := h.Lines
	n := len(lines)
	var subs []Hunk

	origLineAt := func(upTo int) int {
		count := 0
		for _, l := range lines[:upTo] {
			if len(l) > 0 && (l[0] == ' ' || l[0] == '-') {
				count++
			}
		}
		return count
	}

	i := 0
	for i < n {
		for i < n && len(lines[i]) > 0 && lines[i][0] == ' ' {
			i++
		}
		if i >= n {
			break
		}
		changeStart := i
		for i < n && !(len(lines[i]) > 0 && lines[i][0] == ' ') {
			i++
		}
		changeEnd := i

		padStart := changeStart
		for pad := 0; pad < udSplitContextPad && padStart > 0 && len(lines[padStart-1]) > 0 && lines[padStart-1][0] == ' '; pad++ {
			padStart--
		}
		padEnd := changeEnd
		for pad := 0; pad < udSplitContextPad && padEnd < n && len(lines[padEnd]) > 0 && lines[padEnd][0] == ' '; pad++ {
			padEnd++
		}

		subLines := append([]string{}, lines[padStart:padEnd]...)
		origStart := h.OriginalStartLine + origLineAt(padStart)
		origCount := 0
		for _, l := range subLines {
			if len(l) > 0 && (l[0] == ' ' || l[0] == '-') {
				origCount++
			}
		}

		subs = append(subs, Hunk{
			OriginalStartLine: origStart,
			OriginalLineCount: origCount,
			Lines:             subLines,
		})
	}

	return subs
}

// applyHunkBody walks hunk's lines starting at source index s, preserving
// drift between matched context/deletion lines by copying any unmatched
// source lines found within a 10-line lookahead horizon verbatim, per
// spec §4.6's "Application at a chosen start index" algorithm.
func applyHunkBody(source []string, h Hunk, s int) []string {
	out := make([]string, 0, len(source)+len(h.Lines))
	out = append(out, source[:s]...)

	sIdx := s
	for _, line := range h.Lines {
		if len(line) == 0 {
			continue
		}
		marker, content := line[0], line[1:]

		switch marker {
		case '+':
			out = append(out, content)
		case ' ', '-':
			limit := sIdx + udDriftHorizon
			if limit > len(source) {
				limit = len(source)
			}
			foundIdx := -1
			for j := sIdx; j < limit; j++ {
				if source[j] == content {
					foundIdx = j
					break
				}
			}
			if foundIdx >= 0 {
				out = append(out, source[sIdx:foundIdx]...)
				if marker == ' ' {
					out = append(out, source[foundIdx])
				}
				sIdx = foundIdx + 1
			} else {
				if marker == ' ' && sIdx < len(source) {
					out = append(out, source[sIdx])
				}
				sIdx++
			}
		}
	}

	out = append(out, source[sIdx:]...)
	return out
}

func markedLines(lines []string, marker byte) []string {
	var out []string
	for _, l := range lines {
		if len(l) > 0 && l[0] == marker {
			out = append(out, l[1:])
		}
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
