package dock

import (
	"sync"
	"time"
)

// DiagnosticKind is the severity of a diagnostic line.
type DiagnosticKind string

const (
	DiagnosticInfo    DiagnosticKind = "info"
	DiagnosticWarning DiagnosticKind = "warning"
	DiagnosticError   DiagnosticKind = "error"
)

// Diagnostic is one operator-facing line of controller output.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
	At      time.Time      `json:"at"`
}

// DiagnosticLog keeps the most recent diagnostics in a fixed-size ring.
//
// Thread Safety: all methods are safe for concurrent use.
type DiagnosticLog struct {
	mu    sync.Mutex
	lines []Diagnostic
	next  int
	full  bool
}

// NewDiagnosticLog creates a ring holding up to size entries.
// A size below 1 keeps nothing.
func NewDiagnosticLog(size int) *DiagnosticLog {
	if size < 0 {
		size = 0
	}
	return &DiagnosticLog{lines: make([]Diagnostic, size)}
}

// Add appends a diagnostic, overwriting the oldest when full.
func (l *DiagnosticLog) Add(d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.lines) == 0 {
		return
	}
	l.lines[l.next] = d
	l.next = (l.next + 1) % len(l.lines)
	if l.next == 0 {
		l.full = true
	}
}

// Recent returns the retained diagnostics, oldest first.
func (l *DiagnosticLog) Recent() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.full {
		out := make([]Diagnostic, l.next)
		copy(out, l.lines[:l.next])
		return out
	}
	out := make([]Diagnostic, 0, len(l.lines))
	out = append(out, l.lines[l.next:]...)
	out = append(out, l.lines[:l.next]...)
	return out
}
