package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tirans/midivault/pkg/checksum"
	"github.com/tirans/midivault/pkg/device"
	"github.com/tirans/midivault/pkg/gitmeta"
	"github.com/tirans/midivault/pkg/validation"
)

// GeneratorID identifies the tool that produced a manifest.
const GeneratorID = "tirans/midivault@2.1.0"

// Generator builds and verifies manifests for one artifact root.
type Generator struct {
	root     string
	calc     *checksum.Calculator
	git      *gitmeta.Provider
	content  *validation.ContentValidator
	business *validation.BusinessRulesValidator
	logger   *slog.Logger
}

// NewGenerator creates a generator for the artifact tree rooted at
// root (the devices folder).
func NewGenerator(root string) *Generator {
	return &Generator{
		root:     root,
		calc:     checksum.NewCalculator(),
		git:      gitmeta.NewProvider(root),
		content:  validation.NewContentValidator(validation.DefaultMaxFileSizeMB),
		business: validation.NewBusinessRulesValidator(),
		logger:   slog.Default().With("component", "manifest.generator"),
	}
}

// Generate builds a complete manifest. Per-file failures are recorded
// in the manifest and never abort the run; only a failure that makes
// the whole tree unenumerable, or an unreadable file during the final
// digest folds, returns an error.
func (g *Generator) Generate() (*Manifest, error) {
	start := time.Now()
	g.logger.Info("starting manifest generation", "root", g.root)

	repoInfo := g.git.RepositoryInfo()
	g.logger.Info("repository state",
		"revision", repoInfo.RevisionCount,
		"head", repoInfo.HeadHash,
		"branch", repoInfo.Branch,
		"dirty", repoInfo.Dirty,
	)

	m := &Manifest{
		Metadata: Metadata{
			ManifestVersion:    ManifestVersion,
			GeneratedDate:      time.Now().UTC().Format("2006-01-02T15:04:05Z"),
			RepositoryRevision: repoInfo.RevisionCount,
			Generator:          GeneratorID,
		},
		FileChecksums:   make(map[string]FileChecksum),
		FolderChecksums: make(map[string]string),
		Statistics: Statistics{
			DevicesByManufacturer:     make(map[string]int),
			SchemaVersionDistribution: make(map[string]int),
		},
	}

	files, err := checksum.ListJSONFiles(g.root, checksum.DefaultExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate artifact tree: %w", err)
	}
	g.logger.Info("files discovered", "count", len(files))

	totalDevices := 0
	totalPresets := 0
	for _, rel := range files {
		record, manufacturer := g.analyzeFile(rel)
		m.FileChecksums[rel] = record

		if record.ValidationStatus == StatusPassed {
			totalDevices++
			totalPresets += record.PresetCount
			m.Statistics.ValidationSummary.Passed++
		} else {
			m.Statistics.ValidationSummary.Failed++
		}
		m.Statistics.SchemaVersionDistribution[record.SchemaVersion]++
		if manufacturer != "" {
			m.Statistics.DevicesByManufacturer[manufacturer]++
		}
	}

	g.collectFolderChecksums(m)

	repoDigest, err := g.calc.RepositoryHash(g.root)
	if err != nil {
		return nil, fmt.Errorf("failed to compute repository checksum: %w", err)
	}
	m.RepositoryChecksum = repoDigest

	m.Metadata.TotalDevices = totalDevices
	m.Metadata.TotalPresets = totalPresets

	g.logger.Info("manifest generation completed",
		"devices", totalDevices,
		"presets", totalPresets,
		"failed", m.Statistics.ValidationSummary.Failed,
		"duration", time.Since(start),
	)

	return m, nil
}

// analyzeFile builds the checksum record for one file and returns the
// manufacturer name for the statistics histogram. The manufacturer
// lookup is isolated on purpose: its failure only omits the file from
// the histogram and never affects the recorded validation status.
func (g *Generator) analyzeFile(rel string) (FileChecksum, string) {
	path := filepath.Join(g.root, filepath.FromSlash(rel))

	record := FileChecksum{
		SchemaVersion: "unknown",
		FileRevision:  0,
		PresetCount:   0,
	}

	// The digest is computed independently of schema analysis; a
	// schema failure must not lose the checksum.
	if digest, err := g.calc.FileHash(path); err == nil {
		record.SHA256 = digest
	} else {
		record.SHA256 = "error_calculating_hash"
		g.logger.Error("file hash failed", "path", rel, "error", err)
	}
	if info, err := os.Stat(path); err == nil {
		record.SizeBytes = info.Size()
	}

	var manufacturer string
	dev, _, parseErr := device.ParseFile(path)
	if parseErr == nil {
		record.SchemaVersion = dev.SchemaVersion()
		record.FileRevision = dev.FileRevision()
		record.PresetCount = dev.PresetCount()
		if dev.Metadata != nil && !dev.Metadata.ModifiedDate.IsZero() {
			record.LastModified = dev.Metadata.ModifiedDate.UTC().Format(time.RFC3339)
		}
		manufacturer = dev.DeviceInfo.Manufacturer
	}

	// The recorded outcome is the content and business validators'
	// combined verdict for this file.
	contentResult := g.content.Validate(path)
	businessResult := g.business.Validate(path)
	if contentResult.Valid && businessResult.Valid {
		record.ValidationStatus = StatusPassed
	} else {
		record.ValidationStatus = StatusFailed
		record.Error = firstError(contentResult, businessResult)
		g.logger.Warn("file failed validation", "path", rel, "error", record.Error)
	}

	return record, manufacturer
}

func firstError(results ...validation.Result) string {
	for _, r := range results {
		if errs := r.Errors(); len(errs) > 0 {
			return errs[0].Message
		}
	}
	return "validation failed"
}

// collectFolderChecksums records the digest of every directory, at any
// depth, that holds at least one matching JSON file. The artifact root
// itself is keyed under the reserved name "devices". Per-folder
// failures are logged and skipped; generation continues.
func (g *Generator) collectFolderChecksums(m *Manifest) {
	err := filepath.WalkDir(g.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}

		files, listErr := checksum.ListJSONFiles(path, checksum.DefaultExcludePatterns)
		if listErr != nil || len(files) == 0 {
			return nil
		}

		key := RootFolderKey
		if path != g.root {
			rel, relErr := filepath.Rel(g.root, path)
			if relErr != nil {
				return nil
			}
			key = filepath.ToSlash(rel)
		}

		digest, hashErr := g.calc.FolderHash(path, nil)
		if hashErr != nil {
			g.logger.Error("folder checksum failed", "folder", key, "error", hashErr)
			return nil
		}
		m.FolderChecksums[key] = digest
		return nil
	})
	if err != nil {
		g.logger.Error("folder checksum walk failed", "error", err)
	}
}

// Save writes the manifest as a single JSON document at path. The
// document is fully rendered in memory and moved into place with a
// rename so readers never observe a partial manifest.
func (g *Generator) Save(m *Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move manifest into place: %w", err)
	}

	g.logger.Info("manifest saved", "path", path)
	return nil
}
