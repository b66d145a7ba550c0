package validation

import (
	"log/slog"
)

// Validator is the capability shared by every validation stage: check
// one artifact, report findings.
type Validator interface {
	// Name identifies the validator in diagnostics.
	Name() string

	// Validate inspects the artifact at path and returns the findings
	// of this single invocation.
	Validate(path string) Result
}

// Options configures the standard validator set.
type Options struct {
	// MaxDepth is the maximum folder depth below the artifact root.
	MaxDepth int

	// MaxFileSizeMB is the maximum document size in megabytes.
	MaxFileSizeMB float64
}

// FileResult is the aggregated outcome of all validators on one file.
type FileResult struct {
	// Path is the file that was validated.
	Path string

	// Valid is true iff every validator returned a valid result.
	Valid bool

	// Issues is the concatenation of every validator's findings, in
	// validator order.
	Issues []Issue
}

// Errors returns the error-severity findings for the file.
func (r FileResult) Errors() []Issue {
	return Result{Issues: r.Issues}.Errors()
}

// Warnings returns the warning-severity findings for the file.
func (r FileResult) Warnings() []Issue {
	return Result{Issues: r.Issues}.Warnings()
}

// BatchResult aggregates a validation run over a batch of files.
type BatchResult struct {
	// Files holds one result per input path, in input order.
	Files []FileResult

	// TotalErrors counts error-severity findings across the batch.
	TotalErrors int

	// TotalWarnings counts warning-severity findings across the batch.
	TotalWarnings int
}

// AllValid reports whether every file in the batch passed.
func (b BatchResult) AllValid() bool {
	for _, f := range b.Files {
		if !f.Valid {
			return false
		}
	}
	return true
}

// Runner executes the full validator set over batches of files.
type Runner struct {
	validators []Validator
	logger     *slog.Logger
}

// NewRunner creates a runner with the standard validator set in its
// fixed execution order: structure, content, security, business rules.
func NewRunner(opts Options) *Runner {
	return &Runner{
		validators: []Validator{
			NewStructureValidator(opts.MaxDepth),
			NewContentValidator(opts.MaxFileSizeMB),
			NewSecurityValidator(),
			NewBusinessRulesValidator(),
		},
		logger: slog.Default().With("component", "validation.runner"),
	}
}

// NewRunnerWith creates a runner over an explicit validator list,
// executed in the given order. Used by tests and callers that need a
// subset.
func NewRunnerWith(validators ...Validator) *Runner {
	return &Runner{
		validators: validators,
		logger:     slog.Default().With("component", "validation.runner"),
	}
}

// ValidateFile runs every validator against one file and merges their
// findings. Every validator runs even after failures so the report is
// complete.
func (r *Runner) ValidateFile(path string) FileResult {
	result := FileResult{Path: path, Valid: true}

	for _, v := range r.validators {
		vr := v.Validate(path)
		if !vr.Valid {
			result.Valid = false
		}
		for _, issue := range vr.Issues {
			issue.Validator = v.Name()
			result.Issues = append(result.Issues, issue)
		}

		r.logger.Debug("validator finished",
			"validator", v.Name(),
			"path", path,
			"valid", vr.Valid,
			"findings", len(vr.Issues),
		)
	}

	return result
}

// Validate runs the validator set over every path and aggregates batch
// totals.
func (r *Runner) Validate(paths []string) BatchResult {
	var batch BatchResult
	for _, path := range paths {
		fr := r.ValidateFile(path)
		batch.Files = append(batch.Files, fr)
		batch.TotalErrors += len(fr.Errors())
		batch.TotalWarnings += len(fr.Warnings())
	}

	r.logger.Info("validation batch completed",
		"files", len(paths),
		"errors", batch.TotalErrors,
		"warnings", batch.TotalWarnings,
		"all_valid", batch.AllValid(),
	)

	return batch
}
