package aspen

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure families. Everything except
// ErrMismatchedRoot is recoverable: the affected node degrades to a
// placeholder, default variant, or zero size and resolution continues.
var (
	// ErrDepthExceeded is reported when resolution passes the configured
	// depth cap. Documents are acyclic by construction, so this only fires
	// on pathological nesting; the offending subtree becomes a placeholder.
	ErrDepthExceeded = errors.New("aspen: resolution depth exceeded")

	// ErrMissingNode is reported when a referenced node id has no view.
	ErrMissingNode = errors.New("aspen: referenced node missing")

	// ErrUnresolvedVariant is reported when a selected variant property does
	// not exist on the instance's component set; the default variant is used.
	ErrUnresolvedVariant = errors.New("aspen: unresolved variant selection")

	// ErrDuplicateIdentity is reported when two nodes in one resolved tree
	// share an identity; the second is kept but excluded from matching.
	ErrDuplicateIdentity = errors.New("aspen: duplicate node identity")

	// ErrOracleFailure is reported when the layout oracle rejects a subtree;
	// that subtree collapses to zero size.
	ErrOracleFailure = errors.New("aspen: layout oracle failure")

	// ErrMismatchedRoot means the from and to trees belong to different
	// documents. It aborts building that transition; callers fall back to an
	// unanimated cut to the new steady state.
	ErrMismatchedRoot = errors.New("aspen: transition trees belong to different documents")
)

// Severity classifies a diagnostic.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Diagnostic is one recoverable problem recorded during resolution, layout,
// or transition building. Diagnostics are collected, never thrown, so a host
// can batch-report them without interrupting rendering.
type Diagnostic struct {
	Severity Severity
	Node     Identity
	Err      error
	Message  string
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s (%v)", d.Node, d.Message, d.Err)
}

// Unwrap exposes the sentinel for errors.Is.
func (d Diagnostic) Unwrap() error { return d.Err }

// diagSink accumulates diagnostics for one engine root.
type diagSink struct {
	diags []Diagnostic
}

func (s *diagSink) add(sev Severity, node Identity, err error, format string, args ...any) {
	s.diags = append(s.diags, Diagnostic{
		Severity: sev,
		Node:     node,
		Err:      err,
		Message:  fmt.Sprintf(format, args...),
	})
}

// drain returns the accumulated diagnostics and resets the sink.
func (s *diagSink) drain() []Diagnostic {
	out := s.diags
	s.diags = nil
	return out
}
