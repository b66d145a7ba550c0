// Midivault maintains the integrity of a MIDI device preset
// repository.
//
// It computes chunked SHA-256 checksums for every preset file, folds
// them into folder and repository digests, writes a manifest snapshot,
// and runs a multi-stage validation pipeline over the device JSON
// documents.
//
// Usage:
//
//	# Generate the manifest for a preset tree
//	midivault checksum ./devices
//
//	# Verify the tree against its manifest
//	midivault checksum ./devices --verify
//
//	# Validate device files
//	midivault validate devices/korg/ms-20.json
//
//	# Watch a tree and re-verify on changes
//	midivault watch ./devices
//
//	# Show version information
//	midivault version
package main

func main() {
	Execute()
}
