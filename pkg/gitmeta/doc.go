// Package gitmeta exposes version-control metadata for the preset
// repository: revision count, head commit hash, and summary info.
//
// The provider is deliberately forgiving: manifests are generated in
// checkouts, exports, and plain directories alike, so every accessor
// degrades to a zero value (0, "") instead of failing when the
// directory is not a git repository or the lookup fails.
package gitmeta
