package manifest

// ManifestVersion is the schema version of the manifest document
// itself.
const ManifestVersion = "1.0.0"

// FileName is the name of the manifest document, written as a sibling
// of the artifact tree's folders inside the artifact root.
const FileName = "_manifest.json"

// RootFolderKey is the reserved key under which the artifact root's
// own folder checksum is recorded.
const RootFolderKey = "devices"

// Validation status values recorded per file.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Manifest is the persisted snapshot of the artifact tree.
type Manifest struct {
	Metadata           Metadata                `json:"_repository_metadata"`
	FileChecksums      map[string]FileChecksum `json:"file_checksums"`
	FolderChecksums    map[string]string       `json:"folder_checksums"`
	RepositoryChecksum string                  `json:"repository_checksum"`
	Statistics         Statistics              `json:"statistics"`
}

// Metadata is the manifest's own header block.
type Metadata struct {
	ManifestVersion    string `json:"manifest_version"`
	GeneratedDate      string `json:"generated_date"`
	RepositoryRevision int    `json:"repository_revision"`
	TotalDevices       int    `json:"total_devices"`
	TotalPresets       int    `json:"total_presets"`
	Generator          string `json:"generator"`
}

// FileChecksum is the per-file record. It is written once per
// generation and superseded wholesale by the next one.
type FileChecksum struct {
	SHA256           string `json:"sha256"`
	SizeBytes        int64  `json:"size_bytes"`
	LastModified     string `json:"last_modified"`
	SchemaVersion    string `json:"schema_version"`
	FileRevision     int    `json:"file_revision"`
	PresetCount      int    `json:"preset_count"`
	ValidationStatus string `json:"validation_status"`
	Error            string `json:"error,omitempty"`
}

// Statistics aggregates collection-wide counts.
type Statistics struct {
	DevicesByManufacturer       map[string]int    `json:"devices_by_manufacturer"`
	SchemaVersionDistribution   map[string]int    `json:"schema_version_distribution"`
	TotalCommunityContributions int               `json:"total_community_contributions"`
	ValidationSummary           ValidationSummary `json:"validation_summary"`
}

// ValidationSummary is the per-status histogram of file analyses.
type ValidationSummary struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
}
