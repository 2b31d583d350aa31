package config

import (
	"fmt"
	"os"
)

// AccessType defines the type of file access being requested.
type AccessType int

const (
	AccessRead AccessType = iota
	AccessWrite
)

func (a AccessType) String() string {
	if a == AccessWrite {
		return "write"
	}
	return "read"
}

// PermissionResult indicates the result of a permission check.
type PermissionResult int

const (
	PermissionGranted PermissionResult = iota
	PermissionDenied
)

// CheckPathPermission validates whether path may be accessed given the
// workspace configuration. Paths inside the workspace root are always
// granted. Outside the root, path_safety_mode decides: "block" denies,
// "warn" grants but prints a notice to stderr, "allow" grants silently.
// Unlike an interactive agent, patchapply never prompts — "ask" modes
// degrade to "warn".
func (c *Config) CheckPathPermission(path string, accessType AccessType) (PermissionResult, error) {
	if c.Workspace.Root == "" {
		return PermissionGranted, nil
	}

	absPath, outside, err := NormalizeAndValidatePath(c.Workspace.Root, path)
	if err != nil {
		return PermissionDenied, err
	}
	if !outside {
		return PermissionGranted, nil
	}

	switch c.Workspace.PathSafetyMode {
	case "block":
		return PermissionDenied, fmt.Errorf("%s access to path outside workspace blocked (path_safety_mode=block): %s", accessType, absPath)
	case "warn", "ask":
		fmt.Fprintf(os.Stderr, "warning: %s access to %s is outside workspace root %s\n", accessType, absPath, c.Workspace.Root)
		return PermissionGranted, nil
	default: // "allow"
		return PermissionGranted, nil
	}
}
