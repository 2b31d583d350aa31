package tools

import (
	"github.com/pmezard/go-difflib/difflib"
)

// GenerateUnifiedDiff renders a unified diff between oldContent and newContent,
// labeling both sides with filename.
func GenerateUnifiedDiff(oldContent, newContent, filename string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: filename,
		ToFile:   filename,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
