package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDeviceDoc = `{
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

// testConfigFile writes a config with history and metrics disabled so
// command tests stay hermetic.
func testConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "history:\n  enabled: false\ntelemetry:\n  metrics:\n    enabled: false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	checksumFlags.verify = false
	checksumFlags.manifestPath = ""
	checksumFlags.format = "text"
	validateFlags.strict = false
	validateFlags.format = "text"

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestChecksumCommand_GenerateAndVerify(t *testing.T) {
	root := t.TempDir()
	devicePath := filepath.Join(root, "korg", "ms-20.json")
	if err := os.MkdirAll(filepath.Dir(devicePath), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(devicePath, []byte(testDeviceDoc), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg := testConfigFile(t)

	out, err := execute(t, "--config", cfg, "checksum", root)
	if err != nil {
		t.Fatalf("checksum error = %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Devices:  1") {
		t.Errorf("generate output missing device count: %s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "_manifest.json")); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}

	out, err = execute(t, "--config", cfg, "checksum", root, "--verify")
	if err != nil {
		t.Fatalf("verify error = %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Repository matches the manifest.") {
		t.Errorf("verify output = %s", out)
	}
}

func TestChecksumCommand_VerifyDetectsDrift(t *testing.T) {
	root := t.TempDir()
	devicePath := filepath.Join(root, "korg", "ms-20.json")
	if err := os.MkdirAll(filepath.Dir(devicePath), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(devicePath, []byte(testDeviceDoc), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg := testConfigFile(t)

	if _, err := execute(t, "--config", cfg, "checksum", root); err != nil {
		t.Fatalf("generate error = %v", err)
	}

	if err := os.WriteFile(devicePath, []byte(testDeviceDoc+"\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	out, err := execute(t, "--config", cfg, "checksum", root, "--verify")
	if err == nil {
		t.Fatalf("verify error = nil after mutation\noutput: %s", out)
	}
	if !strings.Contains(out, "changed: korg/ms-20.json") {
		t.Errorf("verify output missing changed file: %s", out)
	}
}

func TestValidateCommand(t *testing.T) {
	cfg := testConfigFile(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "devices", "korg", "ms-20.json")
	if err := os.MkdirAll(filepath.Dir(good), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(good, []byte(testDeviceDoc), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Chdir(dir)

	out, err := execute(t, "--config", cfg, "validate", filepath.Join("devices", "korg", "ms-20.json"))
	if err != nil {
		t.Fatalf("validate error = %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "PASS") {
		t.Errorf("validate output = %s", out)
	}

	bad := filepath.Join(dir, "devices", "korg", "broken.json")
	if err := os.WriteFile(bad, []byte(`{not json`), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	out, err = execute(t, "--config", cfg, "validate", filepath.Join("devices", "korg", "broken.json"))
	if err == nil {
		t.Fatalf("validate error = nil for broken file\noutput: %s", out)
	}
	if !strings.Contains(out, "FAIL") {
		t.Errorf("validate output = %s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "Midivault") || !strings.Contains(out, Version) {
		t.Errorf("version output = %s", out)
	}
}
