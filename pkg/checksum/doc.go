// Package checksum computes deterministic SHA-256 digests over the
// preset repository: individual files, folders, and the repository as
// a whole.
//
// Folder and repository digests are not Merkle trees. Each level is a
// sequential fold over sorted (name, digest) pairs: files are sorted
// by relative path before their path and content digest are folded
// into a single running hash. Two folders with identical file sets and
// contents therefore always produce the same digest regardless of the
// order the filesystem enumerates entries. The cost is O(n)
// recomputation on any change, which is acceptable because manifests
// are regenerated wholesale rather than incrementally.
package checksum
