package patch

import "testing"

func TestSemanticReject_NumericLiteralChange(t *testing.T) {
	if !semanticReject("count := 3", "count := 7") {
		t.Error("expected numeric literal divergence to be rejected")
	}
}

func TestSemanticReject_IdentifierRename(t *testing.T) {
	search := "func process(userList []string) { return userList }"
	slice := "func process(itemList []string) { return itemList }"
	if !semanticReject(search, slice) {
		t.Error("expected a paired identifier rename to be rejected")
	}
}

func TestSemanticReject_LargeStringLiteralChange(t *testing.T) {
	search := `msg := "original short text"`
	slice := `msg := "a completely different and much longer replacement"`
	if !semanticReject(search, slice) {
		t.Error("expected a large change hidden inside a string literal to be rejected")
	}
}

func TestSemanticReject_AllowsCommentOnlyDifference(t *testing.T) {
	search := "x := compute()"
	slice := "x := compute() // now with a trailing comment"
	if semanticReject(search, slice) {
		t.Error("a comment-only difference should not be semantically rejected")
	}
}

func TestSemanticReject_AllowsMinorStringTweak(t *testing.T) {
	// Punctuation-only literal edit: the identifier token inside the
	// literal is unchanged, so only the string-literal check is in play,
	// and one inserted character is well under its 50% threshold.
	search := `label := "enabled"`
	slice := `label := "enabled!"`
	if semanticReject(search, slice) {
		t.Error("a minor punctuation-only string tweak should not be rejected")
	}
}
