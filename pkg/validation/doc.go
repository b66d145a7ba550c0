// Package validation implements the multi-stage validation pipeline
// for preset documents: structural placement, content and schema
// conformance, embedded-content safety, and cross-record business
// rules.
//
// Each validator is stateless and returns an explicit Result value
// holding the findings of one invocation, so validators are reentrant
// and safe to share. A Runner executes the full validator set over a
// batch of files in a fixed order and aggregates the outcome.
package validation
