package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `workspace:
  root: "` + tmpDir + `"
  path_safety_mode: "block"

tools:
  edit:
    enabled: true
    mode: "unified"
    preview_mode: true

logging:
  path: "/tmp/patchapply.log"
  development: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantRoot, err := filepath.Abs(tmpDir)
	if err != nil {
		t.Fatalf("filepath.Abs: %v", err)
	}
	if cfg.Workspace.Root != wantRoot {
		t.Errorf("Workspace.Root = %q, want %q", cfg.Workspace.Root, wantRoot)
	}
	if cfg.Workspace.PathSafetyMode != "block" {
		t.Errorf("Workspace.PathSafetyMode = %q, want %q", cfg.Workspace.PathSafetyMode, "block")
	}

	if !cfg.Tools.Edit.Enabled {
		t.Error("Tools.Edit.Enabled = false, want true")
	}
	if cfg.Tools.Edit.GetEditMode() != "unified" {
		t.Errorf("Tools.Edit.GetEditMode() = %q, want %q", cfg.Tools.Edit.GetEditMode(), "unified")
	}
	if !cfg.Tools.Edit.PreviewMode {
		t.Error("Tools.Edit.PreviewMode = false, want true")
	}

	if cfg.Logging.Path != "/tmp/patchapply.log" {
		t.Errorf("Logging.Path = %q, want %q", cfg.Logging.Path, "/tmp/patchapply.log")
	}
	if !cfg.Logging.Development {
		t.Error("Logging.Development = false, want true")
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "minimal.yaml")

	if err := os.WriteFile(configPath, []byte("workspace:\n  root: \".\"\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Workspace.PathSafetyMode != "warn" {
		t.Errorf("Workspace.PathSafetyMode = %q, want default %q", cfg.Workspace.PathSafetyMode, "warn")
	}
	if cfg.Tools.Edit.GetEditMode() != "auto" {
		t.Errorf("Tools.Edit.GetEditMode() = %q, want default %q", cfg.Tools.Edit.GetEditMode(), "auto")
	}
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() with invalid path should return error")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidContent := `workspace:
  root: "/tmp"
  invalid yaml content [[[
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("failed to create invalid config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() with invalid YAML should return error")
	}
}

func TestNormalizeAndValidatePath_HomeDirExpansion(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot get home directory")
	}

	normalizedPath, outside, err := NormalizeAndValidatePath("/workspace", "~/notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPath := filepath.Join(homeDir, "notes.txt")
	if normalizedPath != wantPath {
		t.Errorf("NormalizeAndValidatePath(~/notes.txt) = %q, want %q", normalizedPath, wantPath)
	}
	if !outside {
		t.Error("expected home directory to be outside an unrelated workspace root")
	}
}

func TestCheckPathPermission(t *testing.T) {
	tmpDir := t.TempDir()

	inside := filepath.Join(tmpDir, "file.go")
	outside := filepath.Join(t.TempDir(), "other.go")

	blockCfg := &Config{}
	blockCfg.Workspace.Root = tmpDir
	blockCfg.Workspace.PathSafetyMode = "block"

	if result, err := blockCfg.CheckPathPermission(inside, AccessRead); err != nil || result != PermissionGranted {
		t.Errorf("CheckPathPermission(inside) with block mode = (%v, %v), want (PermissionGranted, nil)", result, err)
	}
	if result, err := blockCfg.CheckPathPermission(outside, AccessWrite); err == nil || result != PermissionDenied {
		t.Errorf("CheckPathPermission(outside) with block mode = (%v, %v), want (PermissionDenied, error)", result, err)
	}

	allowCfg := &Config{}
	allowCfg.Workspace.Root = tmpDir
	allowCfg.Workspace.PathSafetyMode = "allow"

	if result, err := allowCfg.CheckPathPermission(outside, AccessWrite); err != nil || result != PermissionGranted {
		t.Errorf("CheckPathPermission(outside) with allow mode = (%v, %v), want (PermissionGranted, nil)", result, err)
	}
}
