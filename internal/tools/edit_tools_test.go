package tools

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kvit-s/patchkit/patch"
)

func TestSearchReplaceEditTool_CommitsAndTranslatesEditResult(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.go")
	if err := os.WriteFile(target, []byte("a\nb\nc\n"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tool := NewSearchReplaceEditTool(newTestApplier(t, dir), false)
	result, out, err := tool.Call("main.go", "<<<<<<< SEARCH\nb\n=======\nB\n>>>>>>> REPLACE\n", patch.Options{})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out == nil {
		t.Fatalf("expected non-nil committed Outcome")
	}

	edit, ok := result.(EditResult)
	if !ok {
		t.Fatalf("expected EditResult, got %T", result)
	}
	if !edit.Success || edit.Path != "main.go" || edit.Diff == "" {
		t.Errorf("unexpected EditResult: %+v", edit)
	}

	data, err := json.Marshal(edit)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var asMap map[string]any
	if err := json.Unmarshal(data, &asMap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if asMap["success"] != true || asMap["path"] != "main.go" {
		t.Errorf("unexpected JSON shape: %s", data)
	}
	if _, present := asMap["created"]; present {
		t.Errorf("created=false should be omitted via omitempty: %s", data)
	}

	written, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(written) != "a\nB\nc\n" {
		t.Errorf("file not committed: %q", written)
	}
}

func TestSearchReplaceEditTool_FailureTranslatesToUnsuccessfulEditResult(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "x.go")
	if err := os.WriteFile(target, []byte("a\n"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tool := NewSearchReplaceEditTool(newTestApplier(t, dir), false)
	result, out, err := tool.Call("x.go", "<<<<<<< SEARCH\nnope\n=======\nb\n>>>>>>> REPLACE\n", patch.Options{})
	if err != nil {
		t.Fatalf("Call should translate apply failures, not return a Go error: %v", err)
	}
	if out != nil {
		t.Errorf("expected nil Outcome on failure, got %+v", out)
	}
	edit, ok := result.(EditResult)
	if !ok {
		t.Fatalf("expected EditResult, got %T", result)
	}
	if edit.Success {
		t.Errorf("expected Success=false, got %+v", edit)
	}
	if edit.Message == "" {
		t.Errorf("expected a failure message")
	}
}

func TestPatchEditTool_PreviewModeDoesNotWriteUntilCallerCommits(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "lib.go")
	original := "a\nb\nc\n"
	if err := os.WriteFile(target, []byte(original), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	applier := newTestApplier(t, dir)
	tool := NewPatchEditTool(applier, true)
	result, out, err := tool.Call("lib.go", "@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	preview, ok := result.(EditPreviewResult)
	if !ok {
		t.Fatalf("expected EditPreviewResult, got %T", result)
	}
	if preview.Status != "pending_confirmation" || preview.Path != "lib.go" || preview.AfterEdit == "" {
		t.Errorf("unexpected EditPreviewResult: %+v", preview)
	}

	unchanged, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(unchanged) != original {
		t.Fatalf("preview mode wrote to disk: %q", unchanged)
	}

	if out == nil {
		t.Fatalf("expected a pending Outcome to commit later")
	}
	if err := applier.Commit(out); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	written, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(written) != preview.AfterEdit {
		t.Errorf("committed content %q does not match previewed after_edit %q", written, preview.AfterEdit)
	}
}
