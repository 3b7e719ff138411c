// Package ferrors defines the three disjoint error kinds the grammar engine
// raises: no-match (internal, never user visible), syntax error (surfaced
// once per failed parse), and internal error (a violated engine invariant).
package ferrors

import (
	"fmt"

	"github.com/google/uuid"
)

// NoMatch indicates that a rule alternative did not apply to the current
// input. It carries no source location and must never escape a top-level
// Parse call; the matcher kernel converts an unhandled NoMatch at the
// outermost rule into a SyntaxError.
type NoMatch struct {
	// Rule is the rule tag that failed to match, for diagnostic hinting only.
	Rule string
}

func (e *NoMatch) Error() string {
	return fmt.Sprintf("no match for %s", e.Rule)
}

// NewNoMatch returns a NoMatch for the named rule.
func NewNoMatch(rule string) error {
	return &NoMatch{Rule: rule}
}

// IsNoMatch reports whether err is a *NoMatch. Wrapped errors are not
// unwrapped.
func IsNoMatch(err error) bool {
	_, ok := err.(*NoMatch)
	return ok
}

// SyntaxError is raised exactly once per failed parse. It carries everything
// needed to point a human at the offending line: the file name (if known),
// the 1-based physical line number, a column span, the offending source
// fragment truncated to one physical line, and an optional hint naming the
// innermost rule being attempted at the deepest reader position reached.
type SyntaxError struct {
	File      string
	Line      int
	ColStart  int
	ColEnd    int
	Fragment  string
	RuleHint  string
}

func (e *SyntaxError) Error() string {
	loc := fmt.Sprintf("at line %d", e.Line)
	if e.File != "" {
		loc = fmt.Sprintf("%s: at line %d", e.File, e.Line)
	}
	msg := fmt.Sprintf("%s\n>>>  %s\n", loc, e.Fragment)
	if e.RuleHint != "" {
		msg += fmt.Sprintf("(while attempting %s)\n", e.RuleHint)
	}
	return msg
}

// Location returns the file, 1-based line number, and column span of the
// error.
func (e *SyntaxError) Location() (file string, line, colStart, colEnd int) {
	return e.File, e.Line, e.ColStart, e.ColEnd
}

// NewSyntaxError builds a SyntaxError for the given offending fragment.
func NewSyntaxError(file string, line, colStart, colEnd int, fragment, ruleHint string) error {
	return &SyntaxError{
		File:     file,
		Line:     line,
		ColStart: colStart,
		ColEnd:   colEnd,
		Fragment: fragment,
		RuleHint: ruleHint,
	}
}

// InternalError indicates a bug in the grammar engine itself: a rule's match
// returned the wrong item arity, a serializer encountered an unexpected
// Absent item, or a node declared an unknown structural shape. It carries a
// correlation ID so a bug report can be traced back to a specific failure
// without a full stack capture.
type InternalError struct {
	id   string
	Rule string
	msg  string
	wrap error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error [%s] in rule %s: %s", e.id, e.Rule, e.msg)
}

func (e *InternalError) Unwrap() error {
	return e.wrap
}

// ID returns the correlation ID assigned to this internal error.
func (e *InternalError) ID() string {
	return e.id
}

// NewInternalError reports a violated engine invariant for the named rule.
func NewInternalError(rule, msg string) error {
	return &InternalError{id: uuid.NewString(), Rule: rule, msg: msg}
}

// NewInternalErrorf is like NewInternalError but accepts a format string.
func NewInternalErrorf(rule, format string, a ...interface{}) error {
	return NewInternalError(rule, fmt.Sprintf(format, a...))
}

// WrapInternalError wraps an existing error as an InternalError for the named
// rule.
func WrapInternalError(rule string, err error) error {
	return &InternalError{id: uuid.NewString(), Rule: rule, msg: err.Error(), wrap: err}
}
