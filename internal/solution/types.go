// Package solution implements the CompilationHost (C1) and ProjectFilter
// (C2): it locates a solution's projects, filters them against configured
// exclude patterns, invokes the host build toolchain, and exposes each
// surviving project's source files ready for the semantic walker.
package solution

import "grafo/internal/semantic"

// Project is one entry discovered in a solution file.
type Project struct {
	Name string
	Path string // absolute path to the .csproj
	Dir  string // directory containing the .csproj
}

// Compilation is C1's output for a single project: its source files plus
// the diagnostics the host build toolchain reported against it. It does not
// carry a real bound semantic model — see the design notes on why no
// Roslyn-equivalent binder is available — but it is the unit every
// downstream component (C3, C4) consumes in its place.
type Compilation struct {
	Project     Project
	Files       []semantic.ParsedFile
	Diagnostics []Diagnostic
}

// Diagnostic is one message the host build toolchain emitted against a
// project, parsed from its MSBuild-format console output.
type Diagnostic struct {
	Severity DiagnosticSeverity
	File     string
	Message  string
}

// DiagnosticSeverity classifies a Diagnostic.
type DiagnosticSeverity string

const (
	SeverityWarning DiagnosticSeverity = "warning"
	SeverityError   DiagnosticSeverity = "error"
)

// ErrorCount returns the number of error-severity diagnostics.
func (c *Compilation) ErrorCount() int {
	n := 0
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// ErrorMessages returns up to limit error-severity diagnostic messages.
func (c *Compilation) ErrorMessages(limit int) []string {
	var out []string
	for _, d := range c.Diagnostics {
		if d.Severity != SeverityError {
			continue
		}
		out = append(out, d.Message)
		if len(out) == limit {
			break
		}
	}
	return out
}

// ProgressSink receives host-progress notifications as C1 walks the
// solution; nil is a valid sink (no-op).
type ProgressSink func(event string, project string)

func (s ProgressSink) notify(event, project string) {
	if s != nil {
		s(event, project)
	}
}
