package patch

import (
	"regexp"
	"strconv"
	"strings"
)

// Hunk is one @@ header plus its subsequent ' '/'+'/'-' lines. Each entry
// in Lines retains its leading marker character. OriginalStartLine is
// 1-based; 0 denotes insertion at file head.
type Hunk struct {
	OriginalStartLine int
	OriginalLineCount int
	NewStartLine      int
	NewLineCount      int
	Lines             []string
}

var udHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// parseUnifiedDiff scans diff line by line, opening a new Hunk at each @@
// header and appending context/addition/deletion lines to the currently
// open hunk. It returns (nil, false) if no hunk could be produced.
func parseUnifiedDiff(diff string) ([]Hunk, bool) {
	var hunks []Hunk
	var current *Hunk

	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}

		if m := udHeaderRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				hunks = append(hunks, *current)
			}
			origStart, _ := strconv.Atoi(m[1])
			origCount := 1
			if m[2] != "" {
				origCount, _ = strconv.Atoi(m[2])
			}
			newStart, _ := strconv.Atoi(m[3])
			newCount := 1
			if m[4] != "" {
				newCount, _ = strconv.Atoi(m[4])
			}
			current = &Hunk{
				OriginalStartLine: origStart,
				OriginalLineCount: origCount,
				NewStartLine:      newStart,
				NewLineCount:      newCount,
			}
			continue
		}

		if current == nil {
			continue
		}

		if len(line) > 0 && (line[0] == ' ' || line[0] == '+' || line[0] == '-') {
			current.Lines = append(current.Lines, line)
		}
		// Lines matching neither marker are ignored; they do not close
		// the hunk, tolerating stray blank lines between diff chunks.
	}

	if current != nil {
		hunks = append(hunks, *current)
	}

	if len(hunks) == 0 {
		return nil, false
	}
	return hunks, true
}

// pattern returns the subsequence of a hunk's lines with ' ' or '-'
// prefix, marker stripped — the text expected to exist in the source.
func (h Hunk) pattern() []string {
	var out []string
	for _, l := range h.Lines {
		if len(l) == 0 {
			continue
		}
		if l[0] == ' ' || l[0] == '-' {
			out = append(out, l[1:])
		}
	}
	return out
}
