// Package grafoerrors defines the typed error taxonomy used across the
// extraction pipeline, mapping each failure mode to a stable code, an exit
// status, and (where applicable) a remediation hint.
package grafoerrors

import "fmt"

// ErrorCode identifies a class of pipeline failure.
type ErrorCode string

const (
	// ConfigurationError covers invalid regex, malformed CLI arguments, or
	// missing required input.
	ConfigurationError ErrorCode = "CONFIGURATION_ERROR"
	// CompilationErrorCode covers severity-error diagnostics under strict mode.
	CompilationErrorCode ErrorCode = "COMPILATION_ERROR"
	// BindingFailure covers the host's inability to produce a compilation at
	// all (missing SDK, unreadable project).
	BindingFailure ErrorCode = "BINDING_FAILURE"
	// ResolutionMiss covers a relation endpoint that could not be resolved.
	// Locally recoverable: the edge is dropped and counted, never fatal.
	ResolutionMiss ErrorCode = "RESOLUTION_MISS"
	// SerializationError covers a malformed node encountered during NDJSON
	// emission. The line is omitted and the run continues.
	SerializationError ErrorCode = "SERIALIZATION_ERROR"
	// IngestError covers a bulk document-store write failure.
	IngestError ErrorCode = "INGEST_ERROR"
	// CancellationError covers a user interrupt.
	CancellationError ErrorCode = "CANCELLATION_ERROR"
)

// ExitCode returns the process exit status the CLI should return for this
// error code.
func (c ErrorCode) ExitCode() int {
	switch c {
	case ConfigurationError:
		return 1
	case CompilationErrorCode, BindingFailure:
		return 2
	case IngestError:
		return 3
	case CancellationError:
		return 130
	default:
		return 1
	}
}

// FixActionType classifies a suggested remediation.
type FixActionType string

const (
	RunCommand  FixActionType = "run-command"
	OpenDocs    FixActionType = "open-docs"
	InstallTool FixActionType = "install-tool"
)

// FixAction is a suggested follow-up the caller can take to resolve an error.
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// GrafoError is the pipeline's structured error value. It composes with the
// standard errors.Is/errors.As machinery via Unwrap.
type GrafoError struct {
	Code           ErrorCode      `json:"code"`
	Message        string         `json:"message"`
	Details        map[string]any `json:"details,omitempty"`
	SuggestedFixes []FixAction    `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a GrafoError with the default suggested fixes for its code.
func New(code ErrorCode, message string, cause error) *GrafoError {
	return &GrafoError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: defaultFixes[code],
	}
}

// Error implements the error interface.
func (e *GrafoError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *GrafoError) Unwrap() error {
	return e.cause
}

// WithDetails attaches structured context to the error and returns it for
// chaining.
func (e *GrafoError) WithDetails(details map[string]any) *GrafoError {
	e.Details = details
	return e
}

// ExitCode returns the process exit status for this error.
func (e *GrafoError) ExitCode() int {
	return e.Code.ExitCode()
}

var defaultFixes = map[ErrorCode][]FixAction{
	ConfigurationError: {
		{Type: OpenDocs, Description: "check --exclude-projects and --include-only regex syntax"},
	},
	CompilationErrorCode: {
		{Type: RunCommand, Description: "rerun with ALLOW_COMPILATION_ERRORS=true (or compilation.allowCompilationErrors in the config file) to extract best-effort symbols anyway"},
	},
	BindingFailure: {
		{Type: InstallTool, Description: "verify the .NET SDK matching the solution's target framework is installed and on PATH"},
	},
	IngestError: {
		{Type: RunCommand, Description: "rerun the extraction; ingestion is idempotent and will complete the partial write"},
	},
}

// NewConfigurationError reports a configuration-level failure; callers exit 1.
func NewConfigurationError(message string, cause error) *GrafoError {
	return New(ConfigurationError, message, cause)
}

// NewCompilationError reports severity-error diagnostics gating a project in
// strict mode, carrying the project name and count of diagnostics observed.
func NewCompilationError(project string, errorCount int, diagnostics []string) *GrafoError {
	return New(CompilationErrorCode, fmt.Sprintf("%s: %d compilation error(s)", project, errorCount), nil).
		WithDetails(map[string]any{
			"project":     project,
			"errorCount":  errorCount,
			"diagnostics": diagnostics,
		})
}

// NewBindingFailure reports that the host could not produce a compilation at
// all for a project; always fatal.
func NewBindingFailure(project string, cause error) *GrafoError {
	return New(BindingFailure, fmt.Sprintf("%s: unable to create compilation", project), cause).
		WithDetails(map[string]any{"project": project})
}

// NewIngestError reports a persistent bulk-write failure after in-batch
// retries were exhausted.
func NewIngestError(solution string, cause error) *GrafoError {
	return New(IngestError, fmt.Sprintf("ingest failed for solution %q", solution), cause)
}

// NewCancellationError reports a user interrupt.
func NewCancellationError() *GrafoError {
	return New(CancellationError, "run interrupted", nil)
}
