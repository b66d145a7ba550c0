package validation

import (
	"log/slog"
	"os"
	"strings"
)

// suspiciousPatterns is the denylist of substrings associated with
// script or code injection. This is deliberate substring scanning, not
// parsing: false positives inside legitimate text fields are accepted
// as the cost of simplicity.
var suspiciousPatterns = []string{
	"javascript:", "<script", "eval(", "function(", "onclick=",
	"<iframe", "document.", "window.", "alert(", "confirm(",
	"prompt(", "setTimeout", "setInterval", "__import__",
	"exec(", "compile(", "globals(", "locals(", "vars(",
	"getattr(", "setattr(", "delattr(", "hasattr(",
}

// SecurityValidator scans raw document text for denylisted substrings,
// case-insensitively. Every matched pattern is reported, not just the
// first.
type SecurityValidator struct {
	patterns []string
	logger   *slog.Logger
}

// NewSecurityValidator creates a security validator with the standard
// denylist.
func NewSecurityValidator() *SecurityValidator {
	return &SecurityValidator{
		patterns: suspiciousPatterns,
		logger:   slog.Default().With("component", "validation.security"),
	}
}

// Name implements Validator.
func (v *SecurityValidator) Name() string { return "security" }

// Validate scans the file at path. Any denylist match is a hard error
// naming every matched pattern.
func (v *SecurityValidator) Validate(path string) Result {
	b := newResultBuilder(path)

	data, err := os.ReadFile(path)
	if err != nil {
		b.addError("cannot read file for security scan: %v", err)
		return b.result()
	}

	content := strings.ToLower(string(data))
	var found []string
	for _, pattern := range v.patterns {
		if strings.Contains(content, strings.ToLower(pattern)) {
			found = append(found, pattern)
		}
	}

	if len(found) > 0 {
		v.logger.Warn("suspicious patterns detected",
			"path", path,
			"patterns", found,
		)
		b.addError("contains suspicious patterns: %s", strings.Join(found, ", "))
	}

	return b.result()
}
