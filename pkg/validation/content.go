package validation

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/tirans/midivault/pkg/device"
)

// DefaultMaxFileSizeMB is the maximum preset document size.
const DefaultMaxFileSizeMB = 3.0

// ContentValidator checks a document's content in sequential stages,
// short-circuiting on the first failing stage: file size, JSON syntax,
// required top-level keys, then full lenient schema construction.
type ContentValidator struct {
	maxFileSizeMB float64
	logger        *slog.Logger
}

// NewContentValidator creates a content validator. maxFileSizeMB falls
// back to DefaultMaxFileSizeMB when not positive.
func NewContentValidator(maxFileSizeMB float64) *ContentValidator {
	if maxFileSizeMB <= 0 {
		maxFileSizeMB = DefaultMaxFileSizeMB
	}
	return &ContentValidator{
		maxFileSizeMB: maxFileSizeMB,
		logger:        slog.Default().With("component", "validation.content"),
	}
}

// Name implements Validator.
func (v *ContentValidator) Name() string { return "content" }

// Validate runs the staged content checks on the file at path.
func (v *ContentValidator) Validate(path string) Result {
	b := newResultBuilder(path)

	// Stage 1: file exists and fits the size limit.
	info, err := os.Stat(path)
	if err != nil {
		b.addError("cannot access file: %v", err)
		return b.result()
	}
	sizeMB := float64(info.Size()) / (1024 * 1024)
	if sizeMB > v.maxFileSizeMB {
		b.addError("file size (%.2fMB) exceeds %.1fMB limit", sizeMB, v.maxFileSizeMB)
		return b.result()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		b.addError("cannot read file: %v", err)
		return b.result()
	}

	// Stage 2: syntactically valid JSON.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		b.addError("invalid JSON syntax: %v", err)
		return b.result()
	}

	// Stage 3: required top-level keys.
	missing := false
	for _, key := range []string{"device_info", "preset_collections"} {
		if _, ok := raw[key]; !ok {
			b.addError("missing required top-level key %q", key)
			missing = true
		}
	}
	if missing {
		return b.result()
	}

	// Stage 4: lenient schema construction; every field violation
	// becomes one finding instead of aborting at the first.
	_, violations, err := device.Parse(data)
	if err != nil {
		b.addError("schema validation failed: %v", err)
		return b.result()
	}
	for _, violation := range violations {
		b.addError("%s", violation.String())
	}

	if len(violations) > 0 {
		v.logger.Debug("schema validation failed",
			"path", path,
			"violations", len(violations),
		)
	}

	return b.result()
}
