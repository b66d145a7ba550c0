package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// validDeviceDoc is a minimal document that passes full validation.
const validDeviceDoc = `{
  "_metadata": {
    "schema_version": "1.0.0",
    "file_revision": 2,
    "created_by": "tiran",
    "modified_by": "tiran",
    "created_date": "2025-01-10T12:00:00Z",
    "modified_date": "2025-01-10T12:00:00Z"
  },
  "device_info": {
    "name": "MS-20",
    "version": "1.0",
    "manufacturer": "Korg",
    "manufacturer_id": 66,
    "device_id": 1
  },
  "preset_collections": {
    "factory": {
      "metadata": {
        "name": "Factory",
        "version": "1.0",
        "revision": 1,
        "author": "Korg",
        "description": "Factory bank",
        "preset_count": 2,
        "sync_status": "synced",
        "created_date": "2025-01-10T12:00:00Z",
        "modified_date": "2025-01-10T12:00:00Z"
      },
      "presets": [
        {
          "preset_id": "p1",
          "pgm": 0,
          "category": "lead",
          "preset_name": "Screaming Lead",
          "sendmidi_command": "sendmidi dev MS-20 pc 0",
          "characters": ["aggressive"]
        },
        {
          "preset_id": "p2",
          "pgm": 1,
          "category": "bass",
          "preset_name": "Deep Bass",
          "sendmidi_command": "sendmidi dev MS-20 pc 1",
          "characters": ["warm"]
        }
      ]
    }
  }
}`

func writeArtifact(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
	return path
}

func TestGenerate_SingleDevice(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "korg/ms-20.json", validDeviceDoc)

	m, err := NewGenerator(root).Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if m.Metadata.ManifestVersion != ManifestVersion {
		t.Errorf("manifest_version = %q, want %q", m.Metadata.ManifestVersion, ManifestVersion)
	}
	if m.Metadata.Generator != GeneratorID {
		t.Errorf("generator = %q, want %q", m.Metadata.Generator, GeneratorID)
	}
	if m.Metadata.TotalDevices != 1 {
		t.Errorf("total_devices = %d, want 1", m.Metadata.TotalDevices)
	}
	if m.Metadata.TotalPresets != 2 {
		t.Errorf("total_presets = %d, want 2", m.Metadata.TotalPresets)
	}

	record, ok := m.FileChecksums["korg/ms-20.json"]
	if !ok {
		t.Fatalf("file_checksums missing korg/ms-20.json, have %v", keys(m.FileChecksums))
	}
	wantDigest := sha256Hex([]byte(validDeviceDoc))
	if record.SHA256 != wantDigest {
		t.Errorf("sha256 = %q, want %q", record.SHA256, wantDigest)
	}
	if record.SizeBytes != int64(len(validDeviceDoc)) {
		t.Errorf("size_bytes = %d, want %d", record.SizeBytes, len(validDeviceDoc))
	}
	if record.SchemaVersion != "1.0.0" {
		t.Errorf("schema_version = %q, want 1.0.0", record.SchemaVersion)
	}
	if record.FileRevision != 2 {
		t.Errorf("file_revision = %d, want 2", record.FileRevision)
	}
	if record.PresetCount != 2 {
		t.Errorf("preset_count = %d, want 2", record.PresetCount)
	}
	if record.ValidationStatus != StatusPassed {
		t.Errorf("validation_status = %q, want %q (error: %q)", record.ValidationStatus, StatusPassed, record.Error)
	}

	if m.Statistics.ValidationSummary.Passed != 1 || m.Statistics.ValidationSummary.Failed != 0 {
		t.Errorf("validation_summary = %+v, want 1 passed, 0 failed", m.Statistics.ValidationSummary)
	}
	if got := m.Statistics.DevicesByManufacturer["Korg"]; got != 1 {
		t.Errorf("devices_by_manufacturer[Korg] = %d, want 1", got)
	}
	if got := m.Statistics.SchemaVersionDistribution["1.0.0"]; got != 1 {
		t.Errorf("schema_version_distribution[1.0.0] = %d, want 1", got)
	}

	if _, ok := m.FolderChecksums[RootFolderKey]; !ok {
		t.Errorf("folder_checksums missing root key %q", RootFolderKey)
	}
	if _, ok := m.FolderChecksums["korg"]; !ok {
		t.Error("folder_checksums missing korg")
	}

	// The repository digest is a fold of "name:folderDigest" over the
	// immediate device folders. Recompute it independently.
	h := sha256.New()
	h.Write([]byte("korg:" + m.FolderChecksums["korg"]))
	if want := hex.EncodeToString(h.Sum(nil)); m.RepositoryChecksum != want {
		t.Errorf("repository_checksum = %q, want %q", m.RepositoryChecksum, want)
	}
}

func TestGenerate_RecordsFailedFile(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "korg/ms-20.json", validDeviceDoc)
	writeArtifact(t, root, "roland/broken.json", `{"device_info": {}}`)

	m, err := NewGenerator(root).Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	record := m.FileChecksums["roland/broken.json"]
	if record.ValidationStatus != StatusFailed {
		t.Errorf("validation_status = %q, want %q", record.ValidationStatus, StatusFailed)
	}
	if record.Error == "" {
		t.Error("error string empty for failed file")
	}
	if record.SHA256 == "" || record.SHA256 == "error_calculating_hash" {
		t.Errorf("sha256 = %q, want a real digest despite validation failure", record.SHA256)
	}
	if record.SchemaVersion != "unknown" {
		t.Errorf("schema_version = %q, want unknown", record.SchemaVersion)
	}

	if m.Metadata.TotalDevices != 1 {
		t.Errorf("total_devices = %d, want 1 (failed files do not count)", m.Metadata.TotalDevices)
	}
	if m.Statistics.ValidationSummary.Failed != 1 {
		t.Errorf("failed = %d, want 1", m.Statistics.ValidationSummary.Failed)
	}
}

func TestGenerate_UnparseableFileKeepsDigest(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "korg/bad.json", `{not json`)

	m, err := NewGenerator(root).Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	record := m.FileChecksums["korg/bad.json"]
	if record.ValidationStatus != StatusFailed {
		t.Errorf("validation_status = %q, want %q", record.ValidationStatus, StatusFailed)
	}
	if want := sha256Hex([]byte(`{not json`)); record.SHA256 != want {
		t.Errorf("sha256 = %q, want %q", record.SHA256, want)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "korg/ms-20.json", validDeviceDoc)

	g := NewGenerator(root)
	m, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	path := filepath.Join(root, FileName)
	if err := g.Save(m, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// The document must expose the original key names on the wire.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("saved manifest is not valid JSON: %v", err)
	}
	for _, key := range []string{"_repository_metadata", "file_checksums", "folder_checksums", "repository_checksum", "statistics"} {
		if _, ok := wire[key]; !ok {
			t.Errorf("saved manifest missing top-level key %q", key)
		}
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.RepositoryChecksum != m.RepositoryChecksum {
		t.Errorf("loaded repository_checksum = %q, want %q", loaded.RepositoryChecksum, m.RepositoryChecksum)
	}
	if len(loaded.FileChecksums) != len(m.FileChecksums) {
		t.Errorf("loaded %d file checksums, want %d", len(loaded.FileChecksums), len(m.FileChecksums))
	}
}

func TestGenerate_ManifestFileIsExcluded(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "korg/ms-20.json", validDeviceDoc)

	g := NewGenerator(root)
	m, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if err := g.Save(m, filepath.Join(root, FileName)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	m2, err := g.Generate()
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if _, ok := m2.FileChecksums[FileName]; ok {
		t.Error("manifest file recorded in its own file_checksums")
	}
	if m2.RepositoryChecksum != m.RepositoryChecksum {
		t.Errorf("repository_checksum changed after writing manifest: %q != %q",
			m2.RepositoryChecksum, m.RepositoryChecksum)
	}
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func keys(m map[string]FileChecksum) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
