// Package diagnostics collects the findings of a reconciliation pass.
//
// Diagnostics carry a stable numeric code from a closed taxonomy
// (errors 1-9, warnings 1-4) so reports stay comparable across
// releases of the tool. The log is append-only: entries are never
// mutated or removed once added, and a report artifact is produced
// only when at least one entry exists.
package diagnostics

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityInfo marks informational entries such as suggested
	// corrective fragments. They carry no taxonomy code.
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Code is a stable numeric identifier within its severity. Error and
// warning codes are independent ranges: Error 2 and Warning 2 are
// unrelated conditions.
type Code int

// Error codes. The numbering is fixed; it matches the report format
// consumed by release engineering.
const (
	ErrModifiedNoVersionBump Code = 1 // file changed but version did not
	ErrDateRegression        Code = 2 // timestamp moved back more than 24h
	ErrMissingFeatureList    Code = 3 // library entry declares no features
	ErrFeatureAdded          Code = 4 // component joined a feature since release
	ErrFeatureRemoved        Code = 5 // component left a feature since release
	ErrVersionLowered        Code = 6 // version ordered below the released one
	ErrInvalidVersion        Code = 7 // version string cannot be encoded
	ErrIgnoredSegmentOnly    Code = 8 // only the ignored 4th segment changed
	ErrVersionInfoRemoved    Code = 9 // released version present, current absent
)

// Warning codes.
const (
	// WarnDeprecated is retained so the numbering of the codes after
	// it stays stable. It is never emitted.
	WarnDeprecated     Code = 1
	WarnUntrackedFiles Code = 2
	WarnZeroVersion    Code = 3
	WarnVCSQueryFailed Code = 4
)

// Diagnostic is a single finding. Path is the affected file path or
// registry key that the final rendering sorts by; global findings
// (untracked files, vcs failures) leave it empty and sort first.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Path     string
	Message  string
}

// Log is an append-only, ordered collection of diagnostics. It is
// safe for concurrent appends; the relative order of entries added by
// one goroutine is preserved through SortByPath.
type Log struct {
	mu    sync.Mutex
	items []Diagnostic
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Add appends one diagnostic.
func (l *Log) Add(d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, d)
}

// AddAll appends a group of diagnostics in one critical section so
// the group stays contiguous in emission order.
func (l *Log) AddAll(ds ...Diagnostic) {
	if len(ds) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, ds...)
}

// Errorf appends an error diagnostic with a formatted message.
func (l *Log) Errorf(code Code, path, format string, args ...interface{}) {
	l.Add(Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warningf appends a warning diagnostic with a formatted message.
func (l *Log) Warningf(code Code, path, format string, args ...interface{}) {
	l.Add(Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Infof appends an informational diagnostic with a formatted message.
func (l *Log) Infof(path, format string, args ...interface{}) {
	l.Add(Diagnostic{
		Severity: SeverityInfo,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Len returns the number of collected diagnostics.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Empty reports whether no diagnostic has been collected. An empty
// log produces no report artifact at all.
func (l *Log) Empty() bool {
	return l.Len() == 0
}

// HasErrors reports whether at least one error-severity diagnostic
// was collected.
func (l *Log) HasErrors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].Severity == SeverityError {
			return true
		}
	}
	return false
}

// Items returns a copy of the collected diagnostics in their current
// order.
func (l *Log) Items() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Diagnostic, len(l.items))
	copy(out, l.items)
	return out
}

// SortByPath orders entries by path for deterministic rendering after
// a concurrent pass. The sort is stable, so entries for the same path
// keep their emission order and path-less global entries stay first.
func (l *Log) SortByPath() {
	l.mu.Lock()
	defer l.mu.Unlock()
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].Path < l.items[j].Path
	})
}

// Render writes the report: the optional build-identification header,
// then one block per diagnostic in log order, each tagged with its
// severity and code. Informational entries render their message bare.
// An empty log writes nothing.
func (l *Log) Render(w io.Writer, header string) error {
	items := l.Items()
	if len(items) == 0 {
		return nil
	}

	if header != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
			return err
		}
	}

	for i, d := range items {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		var err error
		switch d.Severity {
		case SeverityError:
			_, err = fmt.Fprintf(w, "Error %d: %s\n", d.Code, d.Message)
		case SeverityWarning:
			_, err = fmt.Fprintf(w, "Warning %d: %s\n", d.Code, d.Message)
		default:
			_, err = fmt.Fprintf(w, "%s\n", d.Message)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
