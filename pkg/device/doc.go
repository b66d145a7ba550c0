// Package device defines the typed domain model for MIDI device preset
// documents and a lenient two-phase parser for them.
//
// Parsing is split so that callers can distinguish a malformed document
// from a structurally valid one with field-level problems: Parse fails
// hard only on JSON syntax errors; every field constraint violation is
// collected into a list instead of aborting on the first one.
package device
