package patch

import (
	"strings"
	"testing"
)

func TestApplyUnifiedDiff_ExactMatch(t *testing.T) {
	original := "line1\nline2\nline3\n"
	diff := "@@ -1,3 +1,3 @@\n" +
		" line1\n" +
		"-line2\n" +
		"+line2 modified\n" +
		" line3\n"

	res := ApplyUnifiedDiff(original, diff)
	if !res.OK {
		t.Fatalf("expected success, got %s: %s", res.Code, res.Message)
	}
	want := "line1\nline2 modified\nline3\n"
	if res.Content != want {
		t.Errorf("got %q, want %q", res.Content, want)
	}
}

func TestApplyUnifiedDiff_PureInsertion(t *testing.T) {
	original := "a\nb\n"
	diff := "@@ -1,0 +2,1 @@\n" +
		"+inserted\n"

	res := ApplyUnifiedDiff(original, diff)
	if !res.OK {
		t.Fatalf("expected success, got %s: %s", res.Code, res.Message)
	}
	want := "a\ninserted\nb\n"
	if res.Content != want {
		t.Errorf("got %q, want %q", res.Content, want)
	}
}

func TestApplyUnifiedDiff_FuzzyDriftPreservesInlineComment(t *testing.T) {
	// Only the "c" context line has picked up an inline comment since the
	// patch was authored; every other line matches exactly, so the whole
	// hunk stays within the 20% global-fuzzy distance threshold, and the
	// per-line application falls back to emitting the real (commented)
	// source line verbatim for that one context line.
	original := "func main() {\n    a := 1\n    b := 2\n    c := 3 // note about c\n    d := 4\n    e := 5\n    total := a + b\n}\n"
	diff := "@@ -1,8 +1,8 @@\n" +
		" func main() {\n" +
		"     a := 1\n" +
		"     b := 2\n" +
		"     c := 3\n" +
		"     d := 4\n" +
		"     e := 5\n" +
		"-    total := a + b\n" +
		"+    total := a + b + c\n" +
		" }\n"

	res := ApplyUnifiedDiff(original, diff)
	if !res.OK {
		t.Fatalf("expected success, got %s: %s", res.Code, res.Message)
	}
	if !strings.Contains(res.Content, "c := 3 // note about c") {
		t.Errorf("expected drifted inline comment preserved, got %q", res.Content)
	}
	if !strings.Contains(res.Content, "total := a + b + c") {
		t.Errorf("expected replacement applied, got %q", res.Content)
	}
}

func TestApplyUnifiedDiff_OverlappingHunksRejected(t *testing.T) {
	diff := "@@ -1,3 +1,3 @@\n" +
		" a\n" +
		"-b\n" +
		"+B\n" +
		" c\n" +
		"@@ -2,2 +2,2 @@\n" +
		" b\n" +
		"-c\n" +
		"+C\n"

	res := ApplyUnifiedDiff("a\nb\nc\n", diff)
	if res.OK {
		t.Fatalf("expected overlap failure, got success: %q", res.Content)
	}
	if res.Code != ErrOverlappingHunks {
		t.Errorf("code = %s, want %s", res.Code, ErrOverlappingHunks)
	}
}

func TestApplyUnifiedDiff_ZeroContextGuardRejectsAmbiguousSingleLineChange(t *testing.T) {
	// The stated position has drifted (an unrelated edit changed line 2),
	// so the exact fast path misses; with no context lines to anchor a
	// fuzzy search, the hunk must fail rather than guess a site.
	original := "x := 1\nx := 9\nx := 1\n"
	diff := "@@ -2,1 +2,1 @@\n" +
		"-x := 1\n" +
		"+x := 2\n"

	res := ApplyUnifiedDiff(original, diff)
	if res.OK {
		t.Fatalf("expected context-mismatch failure, got success: %q", res.Content)
	}
	if res.Code != ErrContextMismatch {
		t.Errorf("code = %s, want %s", res.Code, ErrContextMismatch)
	}
}

func TestApplyUnifiedDiff_HunkSplitAcrossInsertedFunction(t *testing.T) {
	// Authored against a version of the file where line1-line8 were
	// contiguous. Since then, a user inserted an unrelated function
	// between line4 and line5 — exactly where the 2-line context padding
	// around each change block runs out, so the hunk splits cleanly into
	// a pre-insert sub-hunk (exact match) and a post-insert sub-hunk
	// (relocated by fuzzy match).
	original := "line1\nline2\nline3\nline4\n" +
		"func inserted() {\n    return\n}\n\n" +
		"line5\nline6\nline7\nline8\n"
	diff := "@@ -1,8 +1,8 @@\n" +
		" line1\n" +
		"-line2\n" +
		"+line2 changed\n" +
		" line3\n" +
		" line4\n" +
		" line5\n" +
		" line6\n" +
		"-line7\n" +
		"+line7 changed\n" +
		" line8\n"

	res := ApplyUnifiedDiff(original, diff)
	if !res.OK {
		t.Fatalf("expected hunk-splitting to succeed, got %s: %s", res.Code, res.Message)
	}
	if !strings.Contains(res.Content, "line2 changed") {
		t.Errorf("expected first change block applied, got %q", res.Content)
	}
	if !strings.Contains(res.Content, "line7 changed") {
		t.Errorf("expected second change block applied, got %q", res.Content)
	}
	if !strings.Contains(res.Content, "func inserted() {") {
		t.Errorf("expected user-inserted function preserved, got %q", res.Content)
	}
}

func TestApplyUnifiedDiff_InvalidFormat(t *testing.T) {
	res := ApplyUnifiedDiff("a\nb\n", "not a diff at all")
	if res.OK {
		t.Fatalf("expected failure")
	}
	if res.Code != ErrInvalidDiffFormat {
		t.Errorf("code = %s, want %s", res.Code, ErrInvalidDiffFormat)
	}
}
