// Package cli provides shared helpers for the command-line interface:
// error types, output formatting, and signal handling.
package cli
