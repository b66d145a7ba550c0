package validation

import "fmt"

// Severity classifies a validation finding.
type Severity string

const (
	// SeverityError fails the artifact.
	SeverityError Severity = "error"
	// SeverityWarning does not fail the artifact unless the caller
	// applies strict mode.
	SeverityWarning Severity = "warning"
	// SeverityInfo is purely informational.
	SeverityInfo Severity = "info"
)

// Issue is one validation finding.
type Issue struct {
	// Message describes the finding.
	Message string

	// Severity classifies it.
	Severity Severity

	// Path is the artifact the finding refers to, when known.
	Path string

	// Validator names the stage that produced the finding. Filled in
	// by the runner; empty when a validator is invoked directly.
	Validator string
}

// String renders the issue for human-readable CLI output.
func (i Issue) String() string {
	location := ""
	if i.Path != "" {
		location = fmt.Sprintf(" (%s)", i.Path)
	}
	return fmt.Sprintf("[%s] %s%s", i.Severity, i.Message, location)
}

// Result is the outcome of one validator run on one artifact.
type Result struct {
	// Valid is true iff no issue has severity error.
	Valid bool

	// Issues holds every finding of the run.
	Issues []Issue
}

// Errors returns the error-severity findings.
func (r Result) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity findings.
func (r Result) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r Result) filter(s Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}

// resultBuilder accumulates issues during a single validate call and
// derives the final Result. It is local to one invocation, never
// shared.
type resultBuilder struct {
	issues []Issue
	path   string
}

func newResultBuilder(path string) *resultBuilder {
	return &resultBuilder{path: path}
}

func (b *resultBuilder) addError(format string, args ...any) {
	b.add(SeverityError, format, args...)
}

func (b *resultBuilder) addWarning(format string, args ...any) {
	b.add(SeverityWarning, format, args...)
}

func (b *resultBuilder) add(severity Severity, format string, args ...any) {
	b.issues = append(b.issues, Issue{
		Message:  fmt.Sprintf(format, args...),
		Severity: severity,
		Path:     b.path,
	})
}

func (b *resultBuilder) result() Result {
	valid := true
	for _, issue := range b.issues {
		if issue.Severity == SeverityError {
			valid = false
			break
		}
	}
	return Result{Valid: valid, Issues: b.issues}
}
