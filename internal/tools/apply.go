// Package tools wires the patch package to the filesystem: reading the
// target file, applying a patch in the requested format, and writing the
// result back atomically.
package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/kvit-s/patchkit/internal/config"
	"github.com/kvit-s/patchkit/internal/logging"
	"github.com/kvit-s/patchkit/patch"
)

// Format names accepted by Applier.Compute's format parameter.
const (
	FormatAuto          = "auto"
	FormatSearchReplace = "sr"
	FormatUnifiedDiff   = "ud"
)

// Outcome describes the result of a computed patch application. It is not
// written to disk until passed to Applier.Commit.
type Outcome struct {
	Path       string
	Diff       string
	NewContent string
	Created    bool

	fullPath  string
	attemptID string
	start     time.Time
}

// Applier applies patch text to files under a workspace, handling path
// safety, format detection, diff generation, atomic writes, and logging.
type Applier struct {
	Config *config.Config
	Logger *logging.Logger
}

// NewApplier builds an Applier. logger may be nil, in which case attempts
// are not logged.
func NewApplier(cfg *config.Config, logger *logging.Logger) *Applier {
	if logger == nil {
		logger, _ = logging.New("", false)
	}
	return &Applier{Config: cfg, Logger: logger}
}

// Compute reads path and applies patchText in the given format, returning
// the resulting Outcome without writing anything to disk. format may be
// FormatAuto to sniff the patch style from its content. Call Commit to
// write the Outcome's content, or Discard to log its abandonment.
func (a *Applier) Compute(path, patchText, format string, opts patch.Options) (*Outcome, error) {
	attemptID := logging.NewAttemptID()
	start := time.Now()

	if format == "" || format == FormatAuto {
		format = detectFormat(patchText)
	}
	a.Logger.AttemptStarted(attemptID, format, path)

	fullPath, err := a.resolvePath(path, config.AccessRead)
	if err != nil {
		a.Logger.AttemptFailed(attemptID, path, "path_error", err.Error(), time.Since(start))
		return nil, err
	}

	oldContent, isNewFile, err := readFileForEdit(fullPath)
	if err != nil {
		a.Logger.AttemptFailed(attemptID, path, "read_error", err.Error(), time.Since(start))
		return nil, err
	}

	var res patch.Result
	switch format {
	case FormatSearchReplace:
		res = patch.ApplySearchReplace(oldContent, patchText, opts)
	case FormatUnifiedDiff:
		res = patch.ApplyUnifiedDiff(oldContent, patchText)
	default:
		code := string(patch.ErrInvalidDiffFormat)
		err := newApplyError(path, code, fmt.Sprintf("could not determine patch format for %q", format))
		a.Logger.AttemptFailed(attemptID, path, code, err.Message, time.Since(start))
		return nil, err
	}

	if !res.OK {
		applyErr := newApplyError(path, string(res.Code), res.Message)
		a.Logger.AttemptFailed(attemptID, path, string(res.Code), res.Message, time.Since(start))
		return nil, applyErr
	}

	diff, diffErr := GenerateUnifiedDiff(oldContent, res.Content, path)
	if diffErr != nil {
		diff = ""
	}

	return &Outcome{
		Path:       path,
		Diff:       diff,
		NewContent: res.Content,
		Created:    isNewFile,
		fullPath:   fullPath,
		attemptID:  attemptID,
		start:      start,
	}, nil
}

// Commit writes out's content to disk atomically and logs the attempt as
// succeeded. It takes an exclusive lock on the target file for the
// duration of the write so a concurrent patchapply run against the same
// file can't interleave with this one.
func (a *Applier) Commit(out *Outcome) error {
	if _, err := a.checkPermission(out.Path, config.AccessWrite); err != nil {
		a.Logger.AttemptFailed(out.attemptID, out.Path, "path_error", err.Error(), time.Since(out.start))
		return err
	}

	if out.Created {
		if err := os.MkdirAll(filepath.Dir(out.fullPath), 0755); err != nil {
			a.Logger.AttemptFailed(out.attemptID, out.Path, "write_error", err.Error(), time.Since(out.start))
			return fmt.Errorf("create parent directory: %w", err)
		}
	}

	lock, err := acquireFileLock(out.fullPath)
	if err != nil {
		a.Logger.AttemptFailed(out.attemptID, out.Path, "lock_error", err.Error(), time.Since(out.start))
		return err
	}
	defer lock.release()

	if err := writeFileAtomic(out.fullPath, out.NewContent); err != nil {
		a.Logger.AttemptFailed(out.attemptID, out.Path, "write_error", err.Error(), time.Since(out.start))
		return err
	}
	a.Logger.AttemptSucceeded(out.attemptID, out.Path, time.Since(out.start))
	return nil
}

// Discard logs that a computed Outcome was rejected and never written.
func (a *Applier) Discard(out *Outcome) {
	a.Logger.AttemptFailed(out.attemptID, out.Path, "rejected", "discarded during review", time.Since(out.start))
}

// ApplyFile computes and immediately commits a patch, for callers that have
// no review step of their own.
func (a *Applier) ApplyFile(path, patchText, format string, opts patch.Options) (*Outcome, error) {
	out, err := a.Compute(path, patchText, format, opts)
	if err != nil {
		return nil, err
	}
	if err := a.Commit(out); err != nil {
		return nil, err
	}
	return out, nil
}

// udHunkHeader matches a unified-diff hunk header line, e.g. "@@ -1,3 +1,4 @@".
var udHunkHeader = regexp.MustCompile(`^@@ .* @@`)

// detectFormat sniffs whether patchText is a unified diff or a search/replace
// block set by comparing the first line index of each format's marker: a
// hunk header before any SEARCH fence means unified diff; a SEARCH fence
// with no preceding hunk header means search/replace; neither found is
// reported as undetected (empty string) so the caller can fail with
// INVALID_DIFF_FORMAT rather than silently guessing.
func detectFormat(patchText string) string {
	udLine, srLine := -1, -1
	for i, line := range strings.Split(patchText, "\n") {
		if udLine == -1 && udHunkHeader.MatchString(line) {
			udLine = i
		}
		if srLine == -1 && strings.HasPrefix(line, "<<<<<<< SEARCH") {
			srLine = i
		}
	}

	switch {
	case udLine != -1 && (srLine == -1 || udLine < srLine):
		return FormatUnifiedDiff
	case srLine != -1:
		return FormatSearchReplace
	default:
		return ""
	}
}

// resolvePath checks accessType permission for path and returns its
// absolute form under the configured workspace root.
func (a *Applier) resolvePath(path string, accessType config.AccessType) (string, error) {
	if _, err := a.checkPermission(path, accessType); err != nil {
		return "", err
	}
	root := ""
	if a.Config != nil {
		root = a.Config.Workspace.Root
	}
	fullPath, _, err := config.NormalizeAndValidatePath(root, path)
	return fullPath, err
}

func (a *Applier) checkPermission(path string, accessType config.AccessType) (config.PermissionResult, error) {
	if a.Config == nil {
		return config.PermissionGranted, nil
	}
	result, err := a.Config.CheckPathPermission(path, accessType)
	if err != nil {
		return result, err
	}
	if result == config.PermissionDenied {
		return result, fmt.Errorf("%s access denied for %s", accessType, path)
	}
	return result, nil
}

func readFileForEdit(fullPath string) (content string, isNewFile bool, err error) {
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", true, nil
		}
		return "", false, fmt.Errorf("read file: %w", err)
	}
	return string(data), false, nil
}

func writeFileAtomic(fullPath, content string) error {
	tempFile, err := os.CreateTemp(filepath.Dir(fullPath), ".patchapply-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if info, statErr := os.Stat(fullPath); statErr == nil {
		_ = os.Chmod(tempPath, info.Mode())
	} else {
		_ = os.Chmod(tempPath, 0644)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		return fmt.Errorf("atomic rename failed: %w", err)
	}
	return nil
}
