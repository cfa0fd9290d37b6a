package structure

import "fmt"

// ParseError reports malformed adjacency-list text.  Line is 1-based and zero
// when the problem is not tied to a single line (empty input, asymmetric bonds
// discovered after all lines were read).
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("adjacency list line %d (%q): %s", e.Line, e.Text, e.Reason)
	}
	return "adjacency list: " + e.Reason
}

func lineError(line int, text, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Text: text, Reason: fmt.Sprintf(format, args...)}
}

func listError(format string, args ...interface{}) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}
