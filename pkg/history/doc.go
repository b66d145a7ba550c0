// Package history persists an audit trail of checksum and validation
// runs in a local SQLite database. Every generate, verify, and
// validate invocation is recorded with its outcome so drift can be
// traced back to the run that first observed it.
package history
