package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings that shape how patches are located and applied.
type Config struct {
	Workspace struct {
		Root           string `yaml:"root"`
		PathSafetyMode string `yaml:"path_safety_mode"` // "block", "warn", "allow"
	} `yaml:"workspace"`

	Tools ToolsConfig `yaml:"tools"`

	Logging LoggingConfig `yaml:"logging"`
}

// ToolsConfig configures the edit-application tooling.
type ToolsConfig struct {
	Edit EditToolConfig `yaml:"edit"`
}

// EditToolConfig configures patch application behavior.
type EditToolConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Mode        string `yaml:"mode"` // "sr", "ud", or "auto"
	PreviewMode bool   `yaml:"preview_mode"`
}

// LoggingConfig configures the structured apply-attempt log.
type LoggingConfig struct {
	Path        string `yaml:"path"`
	Development bool   `yaml:"development"`
}

// GetEditMode returns the configured patch format, defaulting to "auto".
func (e *EditToolConfig) GetEditMode() string {
	if e.Mode == "" {
		return "auto"
	}
	return e.Mode
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Workspace.Root != "" {
		absRoot, err := filepath.Abs(cfg.Workspace.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
		}
		cfg.Workspace.Root = absRoot
	}

	if cfg.Workspace.PathSafetyMode == "" {
		cfg.Workspace.PathSafetyMode = "warn"
	}

	if cfg.Tools.Edit.Mode == "" {
		cfg.Tools.Edit.Mode = "auto"
	}

	return &cfg, nil
}

// NormalizeAndValidatePath resolves path to an absolute form — relative to
// workspaceRoot, not the process's working directory, with a leading "~/"
// expanded to the user's home directory — and reports whether it falls
// outside workspaceRoot. This is the sole path-resolution implementation
// shared by permission checks (CheckPathPermission) and file access
// (tools.Applier).
func NormalizeAndValidatePath(workspaceRoot, path string) (string, bool, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	var absPath string
	if filepath.IsAbs(path) {
		absPath = path
	} else {
		absPath = filepath.Join(workspaceRoot, path)
	}

	absWorkspace, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve workspace: %w", err)
	}

	absPath = filepath.Clean(absPath)
	absWorkspace = filepath.Clean(absWorkspace)

	if !strings.HasPrefix(absPath, absWorkspace+string(filepath.Separator)) && absPath != absWorkspace {
		return absPath, true, nil
	}

	return absPath, false, nil
}
