// Package manifest builds and verifies the repository manifest: a
// single JSON snapshot of every file checksum, folder checksum, the
// repository checksum, and collection statistics for the preset tree.
//
// Generation is best-effort by design. A file that fails analysis is
// recorded with a failed validation status and an error string, and
// processing continues; the manifest is always produced and reflects
// the state of every file it could see. Verification classifies drift
// three ways, changed, missing, and extra files, because each calls
// for a different remediation.
package manifest
