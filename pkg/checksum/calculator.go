package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ManifestFileName is the name of the persisted manifest file. It is
// always excluded from digest computation so that writing the manifest
// does not invalidate it.
const ManifestFileName = "_manifest.json"

// DefaultExcludePatterns is the default set of file name patterns
// excluded from folder and repository digests.
var DefaultExcludePatterns = []string{ManifestFileName}

// Calculator derives file, folder, and repository digests from the
// artifact tree.
type Calculator struct {
	chunkSize int
	logger    *slog.Logger
}

// NewCalculator creates a calculator using the default chunk size.
func NewCalculator() *Calculator {
	return &Calculator{
		chunkSize: DefaultChunkSize,
		logger:    slog.Default().With("component", "checksum.calculator"),
	}
}

// FileHash streams the file at path through SHA-256 and returns the
// hex digest. Read failures are wrapped with the offending path.
func (c *Calculator) FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	digest, err := HashReader(f, c.chunkSize)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	c.logger.Debug("file hash calculated",
		"path", path,
		"digest", digest[:16],
	)

	return digest, nil
}

// FolderHash computes the digest of every matching JSON file under
// folderPath. Files are sorted by relative path, then each file's
// relative path and content digest are folded into one running hash in
// that order. excludePatterns defaults to DefaultExcludePatterns when
// empty; a pattern excludes any file whose base name contains it.
//
// Any unreadable file aborts the computation: a folder digest is a
// single deterministic value and cannot be partially correct.
func (c *Calculator) FolderHash(folderPath string, excludePatterns []string) (string, error) {
	if len(excludePatterns) == 0 {
		excludePatterns = DefaultExcludePatterns
	}

	files, err := ListJSONFiles(folderPath, excludePatterns)
	if err != nil {
		return "", fmt.Errorf("failed to enumerate %s: %w", folderPath, err)
	}

	h := sha256.New()
	for _, rel := range files {
		fileDigest, err := c.FileHash(filepath.Join(folderPath, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		h.Write([]byte(rel))
		h.Write([]byte(fileDigest))
	}

	digest := hex.EncodeToString(h.Sum(nil))

	c.logger.Debug("folder hash calculated",
		"folder", folderPath,
		"files", len(files),
		"digest", digest[:16],
	)

	return digest, nil
}

// RepositoryHash computes the digest of the whole artifact tree rooted
// at rootPath. Immediate subdirectories containing at least one
// matching JSON file are treated as device folders; they are sorted by
// name, each folder's digest is computed via FolderHash, and
// "name:digest" is folded into one running hash in sorted order.
//
// Any folder-level failure propagates; no partial repository digest is
// ever produced.
func (c *Calculator) RepositoryHash(rootPath string) (string, error) {
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", rootPath, err)
	}

	var folders []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		hasJSON, err := containsJSONFile(filepath.Join(rootPath, entry.Name()))
		if err != nil {
			return "", err
		}
		if hasJSON {
			folders = append(folders, entry.Name())
		}
	}
	sort.Strings(folders)

	h := sha256.New()
	for _, name := range folders {
		folderDigest, err := c.FolderHash(filepath.Join(rootPath, name), nil)
		if err != nil {
			return "", err
		}
		h.Write([]byte(name + ":" + folderDigest))
	}

	digest := hex.EncodeToString(h.Sum(nil))

	c.logger.Info("repository hash calculated",
		"root", rootPath,
		"folders", len(folders),
		"digest", digest[:16],
	)

	return digest, nil
}

// VerifyFileHash recomputes the digest of the file at path and compares
// it against expected. It never returns an error: any internal failure
// is logged and reported as a mismatch.
func (c *Calculator) VerifyFileHash(path, expected string) bool {
	actual, err := c.FileHash(path)
	if err != nil {
		c.logger.Error("file hash verification error",
			"path", path,
			"error", err,
		)
		return false
	}

	matches := actual == expected
	if !matches {
		c.logger.Warn("file hash mismatch",
			"path", path,
			"expected", expected[:min(16, len(expected))],
			"actual", actual[:16],
		)
	}
	return matches
}

// ListJSONFiles enumerates every *.json file under root, excluding any
// file whose base name contains one of the exclude patterns, and
// returns their slash-separated relative paths in lexicographic order.
//
// This is the single file-discovery rule shared by digest computation
// and manifest generation; both subsystems must visit the same files
// in the same order.
func ListJSONFiles(root string, excludePatterns []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.EqualFold(filepath.Ext(name), ".json") {
			return nil
		}
		for _, pattern := range excludePatterns {
			if strings.Contains(name, pattern) {
				return nil
			}
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func containsJSONFile(dir string) (bool, error) {
	files, err := ListJSONFiles(dir, DefaultExcludePatterns)
	if err != nil {
		return false, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return len(files) > 0, nil
}
