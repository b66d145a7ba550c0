package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultMaxDepth is the maximum folder depth below the artifact root.
const DefaultMaxDepth = 4

// DefaultRootName is the reserved name of the artifact root folder.
const DefaultRootName = "devices"

var segmentRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// StructureValidator checks that an artifact sits in the right place in
// the tree: rooted at the artifact root, within the depth limit, with
// clean path segments. It works on the path string alone and never
// opens the file.
type StructureValidator struct {
	maxDepth int
	rootName string
	logger   *slog.Logger
}

// NewStructureValidator creates a structure validator. maxDepth falls
// back to DefaultMaxDepth when not positive.
func NewStructureValidator(maxDepth int) *StructureValidator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &StructureValidator{
		maxDepth: maxDepth,
		rootName: DefaultRootName,
		logger:   slog.Default().With("component", "validation.structure"),
	}
}

// Name implements Validator.
func (v *StructureValidator) Name() string { return "structure" }

// Validate dispatches on the target kind: file paths and directory
// paths have separate placement rules. A path that does not exist is
// an error.
func (v *StructureValidator) Validate(path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		b := newResultBuilder(path)
		b.addError("path does not exist: %s", path)
		return b.result()
	}
	if info.IsDir() {
		return v.ValidateDirPath(path)
	}
	return v.ValidateFilePath(path)
}

// ValidateFilePath checks a file path: rooted at the artifact root,
// within the depth limit, every intermediate segment alphanumeric with
// underscore/hyphen, and a .json extension.
func (v *StructureValidator) ValidateFilePath(path string) Result {
	b := newResultBuilder(path)
	parts := splitPath(path)

	if len(parts) < 2 || parts[0] != v.rootName {
		b.addError("file must be under the %s/ folder", v.rootName)
		return b.result()
	}

	// Depth excludes the root folder and the file name itself.
	depth := len(parts) - 2
	if depth > v.maxDepth {
		b.addError("file exceeds maximum folder depth of %d levels", v.maxDepth)
		return b.result()
	}

	for _, segment := range parts[1 : len(parts)-1] {
		if !segmentRe.MatchString(segment) {
			b.addError("invalid folder name %q (must be alphanumeric with underscore/hyphen)", segment)
			return b.result()
		}
	}

	if !strings.EqualFold(filepath.Ext(parts[len(parts)-1]), ".json") {
		b.addError("only .json files are allowed")
		return b.result()
	}

	v.logger.Debug("file path accepted", "path", path, "depth", depth)
	return b.result()
}

// ValidateDirPath checks a directory path: rooted at the artifact
// root, within the depth limit, with a clean folder name.
func (v *StructureValidator) ValidateDirPath(path string) Result {
	b := newResultBuilder(path)
	parts := splitPath(path)

	if len(parts) == 0 || parts[0] != v.rootName {
		b.addError("folder must be under the %s/ folder", v.rootName)
		return b.result()
	}

	depth := len(parts) - 1
	if depth > v.maxDepth {
		b.addError("folder exceeds maximum depth of %d levels", v.maxDepth)
		return b.result()
	}

	name := parts[len(parts)-1]
	if !segmentRe.MatchString(name) {
		b.addError("invalid folder name %q (must be alphanumeric with underscore/hyphen)", name)
		return b.result()
	}

	v.logger.Debug("folder path accepted", "path", path, "depth", depth)
	return b.result()
}

func splitPath(path string) []string {
	clean := filepath.ToSlash(filepath.Clean(path))
	clean = strings.TrimPrefix(clean, "./")
	var parts []string
	for _, p := range strings.Split(clean, "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}
