package errors

import (
	"fmt"
	"strings"
)

// CompileError represents a compilation error and where it occurred.
type CompileError struct {
	Code        ErrorCode
	Message     string
	Filename    string
	Line        int // 1-based
	Column      int // 1-based
	Suggestions []Suggestion
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error: ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
	}
	return b.String()
}

// FriendlyErrorMessage returns the error message followed by the error code
// and any suggestions, for display on a terminal.
func (e *CompileError) FriendlyErrorMessage() string {
	var b strings.Builder
	b.WriteString(e.Error())
	if e.Code != "" {
		fmt.Fprintf(&b, "\ncode: %s (%s)", e.Code, e.Code.Description())
	}
	if hint := FormatSuggestions(e.Suggestions); hint != "" {
		b.WriteString("\nhint: ")
		b.WriteString(hint)
	}
	return b.String()
}
