package patch

import (
	"regexp"
	"strings"
)

// SearchReplaceBlock is one <<<<<<< SEARCH / ======= / >>>>>>> REPLACE
// triple. Either side may be empty: an empty Search means insertion, an
// empty Replace means deletion. A Search consisting solely of newline
// characters represents a search for that many consecutive blank lines.
type SearchReplaceBlock struct {
	Search  string
	Replace string
}

var (
	srOpenRe        = regexp.MustCompile(`(?m)^[ \t]*<<<<<<< SEARCH[ \t]*$`)
	srSepRe         = regexp.MustCompile(`(?m)^[ \t]*=======+[ \t]*$`)
	srCloseRe       = regexp.MustCompile(`(?m)^[ \t]*>>>>>>> REPLACE[ \t]*$`)
	lineNumPrefixRe = regexp.MustCompile(`^[ \t]*\d+[ \t]*\|`)
)

// parseSearchReplace parses raw patch text into an ordered list of blocks.
// It returns (nil, false) if no block could be produced.
func parseSearchReplace(text string) ([]SearchReplaceBlock, bool) {
	if !startsWithOpenFence(text) {
		if idx := indexByte(text, '\n'); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = ""
		}
	}

	var blocks []SearchReplaceBlock
	cursor := 0
	for cursor < len(text) {
		openLoc := srOpenRe.FindStringIndex(text[cursor:])
		if openLoc == nil {
			break
		}
		openEnd := cursor + openLoc[1]

		sepLoc := srSepRe.FindStringIndex(text[openEnd:])
		if sepLoc == nil {
			break
		}
		sepStart := openEnd + sepLoc[0]
		sepEnd := openEnd + sepLoc[1]

		closeLoc := srCloseRe.FindStringIndex(text[sepEnd:])
		if closeLoc == nil {
			break
		}
		closeStart := sepEnd + closeLoc[0]
		closeEnd := sepEnd + closeLoc[1]

		rawSearch := text[openEnd:sepStart]
		rawReplace := text[sepEnd:closeStart]

		blocks = append(blocks, SearchReplaceBlock{
			Search:  cleanBlockSide(rawSearch),
			Replace: cleanBlockSide(rawReplace),
		})

		cursor = closeEnd
	}

	if len(blocks) == 0 {
		return nil, false
	}

	if allLinesNumbered(blocks) {
		for i := range blocks {
			blocks[i].Search = stripLineNumberPrefixes(blocks[i].Search)
			blocks[i].Replace = stripLineNumberPrefixes(blocks[i].Replace)
		}
	}

	return blocks, true
}

func startsWithOpenFence(text string) bool {
	loc := srOpenRe.FindStringIndex(text)
	return loc != nil && loc[0] == 0
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// cleanBlockSide applies spec §4.2's block cleaning rules to one raw fence
// body (the text between an open/separator or separator/close pair).
func cleanBlockSide(raw string) string {
	// Rule 1: strip a single leading \r?\n.
	if len(raw) > 0 {
		if raw[0] == '\n' {
			raw = raw[1:]
		} else if len(raw) > 1 && raw[0] == '\r' && raw[1] == '\n' {
			raw = raw[2:]
		}
	}

	// Rule 2: a lone blank-line representation is preserved as-is.
	if raw == "\n" || raw == "\r\n" {
		return raw
	}

	// Rule 3: strip a single trailing \r?\n.
	if len(raw) >= 2 && raw[len(raw)-2] == '\r' && raw[len(raw)-1] == '\n' {
		raw = raw[:len(raw)-2]
	} else if len(raw) >= 1 && raw[len(raw)-1] == '\n' {
		raw = raw[:len(raw)-1]
	}

	return raw
}

// allLinesNumbered reports whether every non-blank line across every block
// in blocks matches the N| line-number-prefix pattern, triggering rule 4.
func allLinesNumbered(blocks []SearchReplaceBlock) bool {
	sawAny := false
	for _, b := range blocks {
		for _, side := range []string{b.Search, b.Replace} {
			for _, line := range strings.Split(side, "\n") {
				if strings.TrimSpace(line) == "" {
					continue
				}
				sawAny = true
				if !lineNumPrefixRe.MatchString(line) {
					return false
				}
			}
		}
	}
	return sawAny
}

func stripLineNumberPrefixes(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		loc := lineNumPrefixRe.FindStringIndex(line)
		if loc != nil {
			lines[i] = line[loc[1]:]
		}
	}
	return strings.Join(lines, "\n")
}
