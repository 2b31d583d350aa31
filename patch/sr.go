package patch

// Options restricts the search-replace locator to an explicit 1-based
// inclusive line range. A zero value means "unset"; Options has no effect
// on ApplyUnifiedDiff.
type Options struct {
	StartLine int
	EndLine   int
}

// ApplySearchReplace parses patchText as one or more search-replace blocks
// and applies them in order against original, feeding the output of each
// block into the next.
func ApplySearchReplace(original, patchText string, opts Options) Result {
	blocks, parsed := parseSearchReplace(patchText)
	if !parsed {
		return fail(ErrInvalidDiffFormat, "no search-replace blocks found in patch text")
	}
	return applySearchReplaceBlocks(original, blocks, opts)
}
