package tools

import "fmt"

// ApplyError wraps a failed patch application with the path it targeted.
type ApplyError struct {
	Path    string
	Code    string
	Message string
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Path, e.Message, e.Code)
}

func newApplyError(path, code, message string) *ApplyError {
	return &ApplyError{Path: path, Code: code, Message: message}
}
