// Package diag defines the diagnostic sink interface the core reports
// through, and an in-memory accumulator implementing it.
package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mna/redcc/lang/source"
)

// Severity classifies a diagnostic.
type Severity int

// List of supported severities.
const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Sink is the value-level diagnostic reporter the core consumes. It is the
// only way the lexer, preprocessor and parser communicate problems to a
// caller; none of them return ad-hoc errors for recoverable conditions.
type Sink interface {
	// Report records one diagnostic. expansion is non-nil only when the
	// primary span is inside a macro expansion, and names the invocation
	// site that produced it.
	Report(sev Severity, primary source.Span, expansion *source.Span, message string)
}

// Diagnostic is one recorded entry in a List.
type Diagnostic struct {
	Severity  Severity
	Primary   source.Span
	Expansion *source.Span
	Message   string
}

// List accumulates diagnostics in memory and implements Sink. It plays the
// same role as go/scanner.ErrorList: a single
// growable slice that call sites Add to, then Sort and inspect via Err.
type List struct {
	Files *source.Store
	Items []Diagnostic
}

// NewList returns a List that renders file names via files.
func NewList(files *source.Store) *List {
	return &List{Files: files}
}

// Report implements Sink.
func (l *List) Report(sev Severity, primary source.Span, expansion *source.Span, message string) {
	l.Items = append(l.Items, Diagnostic{
		Severity:  sev,
		Primary:   primary,
		Expansion: expansion,
		Message:   message,
	})
}

// Errorf is a convenience wrapper for Report(Error, ...) with formatting.
func (l *List) Errorf(primary source.Span, format string, args ...any) {
	l.Report(Error, primary, nil, fmt.Sprintf(format, args...))
}

// Sort orders diagnostics by file then by primary-span start offset, the
// order a reader expects when scanning a file top to bottom.
func (l *List) Sort() {
	sort.SliceStable(l.Items, func(i, j int) bool {
		a, b := l.Items[i].Primary.Start, l.Items[j].Primary.Start
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Offset < b.Offset
	})
}

// HasErrors reports whether any recorded diagnostic has Error severity.
func (l *List) HasErrors() bool {
	for _, d := range l.Items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Err returns a non-nil error summarizing the list's diagnostics iff it
// contains at least one Error-severity entry, or nil otherwise (Warning and
// Note entries alone do not fail a build).
func (l *List) Err() error {
	if !l.HasErrors() {
		return nil
	}
	return (*errList)(l)
}

// errList adapts *List to the error interface without exposing Error() on
// List itself (which would make every List implicitly an error, including
// empty ones).
type errList struct {
	Files *source.Store
	Items []Diagnostic
}

func (l *errList) Error() string {
	var sb strings.Builder
	for i, d := range l.Items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		name := ""
		if l.Files != nil {
			if f := l.Files.File(d.Primary.Start.File); f != nil {
				name = f.Name
			}
		}
		fmt.Fprintf(&sb, "%s: %s: %s", d.Primary.Start.Render(name), d.Severity, d.Message)
	}
	return sb.String()
}

// Unwrap lets errors.Is/As walk each diagnostic as an individual error.
func (l *errList) Unwrap() []error {
	errs := make([]error, len(l.Items))
	for i, d := range l.Items {
		errs[i] = diagError{d, l.Files}
	}
	return errs
}

type diagError struct {
	d     Diagnostic
	files *source.Store
}

func (e diagError) Error() string {
	name := ""
	if e.files != nil {
		if f := e.files.File(e.d.Primary.Start.File); f != nil {
			name = f.Name
		}
	}
	return fmt.Sprintf("%s: %s: %s", e.d.Primary.Start.Render(name), e.d.Severity, e.d.Message)
}

// PrintTo writes every diagnostic in l to w, one per line, in the format
// "file:line:col: severity: message".
func PrintTo(w io.Writer, l *List) {
	for _, d := range l.Items {
		name := ""
		if l.Files != nil {
			if f := l.Files.File(d.Primary.Start.File); f != nil {
				name = f.Name
			}
		}
		fmt.Fprintf(w, "%s: %s: %s\n", d.Primary.Start.Render(name), d.Severity, d.Message)
	}
}
