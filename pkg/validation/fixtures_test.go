package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// validDeviceDoc is a minimal document that passes every validator.
const validDeviceDoc = `{
  "_metadata": {
    "schema_version": "1.0.0",
    "file_revision": 1,
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
        "preset_count": 1,
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
        }
      ]
    }
  }
}`

// writeArtifact writes content under root at the given slash-relative
// path and returns the absolute path.
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

func hasIssueContaining(issues []Issue, substr string) bool {
	for _, i := range issues {
		if strings.Contains(i.Message, substr) {
			return true
		}
	}
	return false
}
