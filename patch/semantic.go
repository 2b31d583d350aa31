package patch

import "regexp"

var (
	lineCommentRe    = regexp.MustCompile(`//[^\n]*`)
	blockCommentRe   = regexp.MustCompile(`(?s)/\*.*?\*/`)
	numericLiteralRe = regexp.MustCompile(`\d+(\.\d+)?`)
	identifierRe     = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	quotedLiteralRe  = regexp.MustCompile(`["'](.*?)["']`)
)

// stripComments removes line and block comments from code, used to build
// searchCode/sliceCode before semantic-rejection checks so that a comment
// that only the source or only the patch carries never triggers a false
// rejection.
func stripComments(code string) string {
	code = blockCommentRe.ReplaceAllString(code, "")
	code = lineCommentRe.ReplaceAllString(code, "")
	return code
}

// numericLiterals extracts all numeric literals from code, in order.
func numericLiterals(code string) []string {
	return numericLiteralRe.FindAllString(code, -1)
}

// identifierSet extracts identifiers longer than one character from code.
func identifierSet(code string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, id := range identifierRe.FindAllString(code, -1) {
		if len(id) > 1 {
			set[id] = struct{}{}
		}
	}
	return set
}

func setDifference(a, b map[string]struct{}) map[string]struct{} {
	diff := make(map[string]struct{})
	for k := range a {
		if _, ok := b[k]; !ok {
			diff[k] = struct{}{}
		}
	}
	return diff
}

// quotedLiterals extracts the contents of every quoted literal in code, in
// order, along with the code with those literals masked to "".
func quotedLiterals(code string) (contents []string, masked string) {
	contents = []string{}
	for _, m := range quotedLiteralRe.FindAllStringSubmatch(code, -1) {
		contents = append(contents, m[1])
	}
	masked = quotedLiteralRe.ReplaceAllString(code, `""`)
	return contents, masked
}

// semanticReject implements spec §4.3's semantic-rejection pass, applied
// only when the fuzzy match distance is non-zero. It returns true when the
// candidate match looks syntactically plausible but is semantically wrong:
// a changed numeric literal, a paired identifier rename, or a large content
// change hidden inside a string literal.
func semanticReject(search, slice string) bool {
	searchCode := stripComments(search)
	sliceCode := stripComments(slice)

	// 1. Numeric check.
	searchNums := numericLiterals(searchCode)
	sliceNums := numericLiterals(sliceCode)
	if len(searchNums) > 0 && !stringSlicesEqual(searchNums, sliceNums) {
		return true
	}

	// 2. Identifier substitution check.
	searchIDs := identifierSet(searchCode)
	sliceIDs := identifierSet(sliceCode)
	s := setDifference(searchIDs, sliceIDs)
	t := setDifference(sliceIDs, searchIDs)
	if len(s) > 0 && len(t) > 0 && len(s) == len(t) {
		return true
	}

	// 3. String-literal check.
	searchLits, searchMasked := quotedLiterals(searchCode)
	sliceLits, sliceMasked := quotedLiterals(sliceCode)
	if len(searchLits) == len(sliceLits) && len(searchLits) > 0 {
		if levenshtein(searchMasked, sliceMasked) <= 2 {
			searchJoined := joinStrings(searchLits)
			sliceJoined := joinStrings(sliceLits)
			litDist := levenshtein(searchJoined, sliceJoined)
			threshold := float64(len([]rune(searchJoined))) * 0.5
			if float64(litDist) > threshold {
				return true
			}
		}
	}

	return false
}

func stringSlicesEqual(a, b []string) bool {
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

func joinStrings(ss []string) string {
	out := ""
	for _, s := range ss {
		out += s
	}
	return out
}
