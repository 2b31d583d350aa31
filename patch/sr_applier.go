package patch

import (
	"regexp"
	"strings"
)

var blankOnlySearchRe = regexp.MustCompile(`^\n+$`)

// splitSearchLines implements spec §4.4's blank-line-only search rule: a
// search consisting solely of newline characters represents a search for
// that many consecutive blank source lines.
func splitSearchLines(search string) []string {
	if blankOnlySearchRe.MatchString(search) {
		n := strings.Count(search, "\n")
		lines := make([]string, n)
		return lines
	}
	return strings.Split(search, "\n")
}

// reindentLines reindents text's lines against a new leading indent: the
// common indent of text is stripped (if present) and replaced by indent on
// every non-blank line; blank lines are left empty rather than padded. An
// empty text yields no lines at all (used for deletion).
func reindentLines(text, indent string) []string {
	if text == "" {
		return nil
	}
	base := commonIndent(text)
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = ""
			continue
		}
		if base != "" && strings.HasPrefix(line, base) {
			line = line[len(base):]
		}
		out[i] = indent + line
	}
	return out
}

// inferInsertionIndent implements spec §4.4's insertion-indent inference.
func inferInsertionIndent(lines []string, insertAt int) string {
	if insertAt >= len(lines) {
		if len(lines) == 0 {
			return ""
		}
		return leadingIndent(lines[len(lines)-1])
	}

	cur := leadingIndent(lines[insertAt])
	if insertAt == 0 {
		return cur
	}

	prev := leadingIndent(lines[insertAt-1])
	trimmedPrev := strings.TrimSpace(lines[insertAt-1])
	trimmedCur := strings.TrimSpace(lines[insertAt])

	if len(prev) > len(cur) && trimmedCur != "" {
		return prev
	}
	if strings.HasSuffix(trimmedPrev, "{") || strings.HasSuffix(trimmedPrev, "[") || strings.HasSuffix(trimmedPrev, "(") {
		return prev + "    "
	}
	return cur
}

// applySearchReplaceBlocks sequences blocks against working, feeding the
// output of block k into block k+1, per spec §4.7 orchestration.
func applySearchReplaceBlocks(working string, blocks []SearchReplaceBlock, opts Options) Result {
	for _, block := range blocks {
		res := applyOneSRBlock(working, block, opts)
		if !res.OK {
			return res
		}
		working = res.Content
	}
	return ok(working)
}

func applyOneSRBlock(working string, block SearchReplaceBlock, opts Options) Result {
	if block.Search == "" {
		return applyInsertion(working, block, opts)
	}
	return applyReplacement(working, block, opts)
}

func applyInsertion(working string, block SearchReplaceBlock, opts Options) Result {
	if opts.StartLine == 0 {
		return fail(ErrInsertionRequiresLineNumber, "search-replace insertion requires start_line")
	}
	if working == "" {
		return ok(block.Replace)
	}

	lines := strings.Split(working, "\n")
	insertAt := opts.StartLine - 1
	if insertAt < 0 {
		insertAt = 0
	}

	indent := inferInsertionIndent(lines, insertAt)
	replacement := reindentLines(block.Replace, indent)

	out := make([]string, 0, len(lines)+len(replacement))
	if insertAt > len(lines) {
		insertAt = len(lines)
	}
	out = append(out, lines[:insertAt]...)
	out = append(out, replacement...)
	out = append(out, lines[insertAt:]...)

	return ok(strings.Join(out, "\n"))
}

func applyReplacement(working string, block SearchReplaceBlock, opts Options) Result {
	sourceLines := strings.Split(working, "\n")
	searchLines := splitSearchLines(block.Search)

	hasExplicitWindow := opts.StartLine != 0 || opts.EndLine != 0
	var windowStart, windowEnd int
	if hasExplicitWindow {
		if opts.StartLine < 0 || opts.StartLine > len(sourceLines)+1 {
			return fail(ErrInvalidLineRange, "start_line out of range")
		}
		if opts.EndLine != 0 && opts.EndLine < opts.StartLine {
			return fail(ErrInvalidLineRange, "end_line precedes start_line")
		}
		start := opts.StartLine - 1
		if start < 0 {
			start = 0
		}
		end := len(sourceLines)
		if opts.EndLine != 0 {
			end = opts.EndLine
		}
		if end > len(sourceLines) {
			end = len(sourceLines)
		}
		windowStart, windowEnd = start, end
	}

	match, found := locateSearchReplace(sourceLines, block.Search, searchLines, hasExplicitWindow, windowStart, windowEnd)
	if !found {
		if hasExplicitWindow {
			return fail(ErrSearchBlockNotFoundInRange, "search block not found in specified range")
		}
		return fail(ErrSearchBlockNotFound, "search block not found")
	}

	mStart := match.index
	mEnd := mStart + len(searchLines)

	sourceIndent := commonIndent(strings.Join(sourceLines[mStart:mEnd], "\n"))
	replacement := reindentLines(block.Replace, sourceIndent)

	out := make([]string, 0, len(sourceLines)-(mEnd-mStart)+len(replacement))
	out = append(out, sourceLines[:mStart]...)
	out = append(out, replacement...)
	out = append(out, sourceLines[mEnd:]...)

	return ok(strings.Join(out, "\n"))
}
