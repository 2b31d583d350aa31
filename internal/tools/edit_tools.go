package tools

import "github.com/kvit-s/patchkit/patch"

// EditResult is the response shape for a completed (or rejected) edit,
// adapted from the teacher's tool-call response of the same name.
type EditResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	Diff    string `json:"diff,omitempty"`
	Created bool   `json:"created,omitempty"`
	Message string `json:"message,omitempty"`
}

// EditPreviewResult is returned instead of EditResult when the wrapper is
// run in preview mode: the patch has been computed but not written.
type EditPreviewResult struct {
	Status    string `json:"status"` // "pending_confirmation"
	NextStep  string `json:"next_step"`
	Diff      string `json:"diff"`
	AfterEdit string `json:"after_edit,omitempty"`
	Path      string `json:"path"`
	IsNewFile bool   `json:"is_new_file,omitempty"`
	Message   string `json:"message,omitempty"`
}

// SearchReplaceEditTool is a thin wrapper around Applier fixed to the
// search/replace format, adapted from the teacher's SearchReplaceEditTool:
// it keeps the teacher's path-validation-then-respond shape but delegates
// all matching to patch.ApplySearchReplace instead of the teacher's
// whitespace-normalization cascade.
type SearchReplaceEditTool struct {
	applier     *Applier
	previewMode bool
}

// NewSearchReplaceEditTool builds a SearchReplaceEditTool over applier.
// In preview mode, Call computes but never commits; the caller must commit
// or discard the returned Outcome itself.
func NewSearchReplaceEditTool(applier *Applier, previewMode bool) *SearchReplaceEditTool {
	return &SearchReplaceEditTool{applier: applier, previewMode: previewMode}
}

func (t *SearchReplaceEditTool) Name() string { return "search_replace_edit" }

// Call applies patchText, a search/replace block set, to path.
func (t *SearchReplaceEditTool) Call(path, patchText string, opts patch.Options) (any, *Outcome, error) {
	return callEditTool(t.applier, path, patchText, FormatSearchReplace, opts, t.previewMode)
}

// PatchEditTool is a thin wrapper around Applier fixed to the unified-diff
// format, adapted from the teacher's PatchEditTool: it keeps the teacher's
// path-validation-then-respond shape but delegates hunk matching to
// patch.ApplyUnifiedDiff instead of the teacher's V4A chunk parser.
type PatchEditTool struct {
	applier     *Applier
	previewMode bool
}

// NewPatchEditTool builds a PatchEditTool over applier.
func NewPatchEditTool(applier *Applier, previewMode bool) *PatchEditTool {
	return &PatchEditTool{applier: applier, previewMode: previewMode}
}

func (t *PatchEditTool) Name() string { return "patch_edit" }

// Call applies patchText, a unified diff, to path.
func (t *PatchEditTool) Call(path, patchText string) (any, *Outcome, error) {
	return callEditTool(t.applier, path, patchText, FormatUnifiedDiff, patch.Options{}, t.previewMode)
}

// callEditTool computes a patch application and translates it into the
// teacher's EditResult/EditPreviewResult JSON shapes, committing
// immediately unless previewMode holds the write for a later, caller-driven
// Commit/Discard of the returned Outcome.
func callEditTool(applier *Applier, path, patchText, format string, opts patch.Options, previewMode bool) (any, *Outcome, error) {
	out, err := applier.Compute(path, patchText, format, opts)
	if err != nil {
		applyErr, ok := err.(*ApplyError)
		if !ok {
			return nil, nil, err
		}
		return EditResult{Success: false, Path: path, Message: applyErr.Message}, nil, nil
	}

	if previewMode {
		return EditPreviewResult{
			Status:    "pending_confirmation",
			NextStep:  "commit the returned outcome to write this change, or discard it to abandon it",
			Diff:      out.Diff,
			AfterEdit: out.NewContent,
			Path:      out.Path,
			IsNewFile: out.Created,
		}, out, nil
	}

	if err := applier.Commit(out); err != nil {
		return EditResult{Success: false, Path: path, Message: err.Error()}, nil, nil
	}
	return EditResult{Success: true, Path: out.Path, Diff: out.Diff, Created: out.Created}, out, nil
}
