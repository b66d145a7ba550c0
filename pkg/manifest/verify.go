package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/tirans/midivault/pkg/checksum"
)

// VerificationReport classifies every difference between a saved
// manifest and the current state of the artifact tree.
type VerificationReport struct {
	FilesVerified int `json:"files_verified"`
	FilesFailed   int `json:"files_failed"`
	MissingFiles  int `json:"missing_files"`
	ExtraFiles    int `json:"extra_files"`

	// Relative paths behind the counts above, sorted.
	Changed []string `json:"changed,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Extra   []string `json:"extra,omitempty"`

	// LoadError is set when the manifest itself could not be read.
	LoadError string `json:"load_error,omitempty"`
}

// OK reports whether the tree matches the manifest exactly.
func (r *VerificationReport) OK() bool {
	return r.LoadError == "" && r.FilesFailed == 0 && r.MissingFiles == 0 && r.ExtraFiles == 0
}

// Load reads a previously saved manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Verify compares the manifest stored at manifestPath against the
// current tree. It never returns an error: an unreadable or corrupt
// manifest yields a failed report with LoadError set.
func (g *Generator) Verify(manifestPath string) *VerificationReport {
	report := &VerificationReport{}

	m, err := Load(manifestPath)
	if err != nil {
		g.logger.Error("cannot load manifest", "path", manifestPath, "error", err)
		report.LoadError = err.Error()
		return report
	}

	current, err := checksum.ListJSONFiles(g.root, checksum.DefaultExcludePatterns)
	if err != nil {
		g.logger.Error("cannot enumerate artifact tree", "error", err)
		report.LoadError = err.Error()
		return report
	}

	seen := make(map[string]bool, len(current))
	for _, rel := range current {
		seen[rel] = true
	}

	for rel, record := range m.FileChecksums {
		if !seen[rel] {
			report.Missing = append(report.Missing, rel)
			continue
		}
		path := filepath.Join(g.root, filepath.FromSlash(rel))
		if g.calc.VerifyFileHash(path, record.SHA256) {
			report.FilesVerified++
		} else {
			report.Changed = append(report.Changed, rel)
		}
	}

	for _, rel := range current {
		if _, ok := m.FileChecksums[rel]; !ok {
			report.Extra = append(report.Extra, rel)
		}
	}

	sort.Strings(report.Changed)
	sort.Strings(report.Missing)
	sort.Strings(report.Extra)
	report.FilesFailed = len(report.Changed)
	report.MissingFiles = len(report.Missing)
	report.ExtraFiles = len(report.Extra)

	g.logger.Info("verification completed",
		"verified", report.FilesVerified,
		"failed", report.FilesFailed,
		"missing", report.MissingFiles,
		"extra", report.ExtraFiles,
	)

	return report
}
