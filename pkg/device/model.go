package device

import (
	"fmt"
	"strings"
	"time"
)

// SyncStatus describes how a collection relates to its upstream copy.
type SyncStatus string

const (
	SyncStatusSynced   SyncStatus = "synced"
	SyncStatusModified SyncStatus = "modified"
	SyncStatusConflict SyncStatus = "conflict"
	SyncStatusPending  SyncStatus = "pending"
)

// ValidationStatus describes the review state of a preset.
type ValidationStatus string

const (
	ValidationStatusVerified     ValidationStatus = "verified"
	ValidationStatusUserVerified ValidationStatus = "user_verified"
	ValidationStatusPending      ValidationStatus = "pending"
	ValidationStatusFailed       ValidationStatus = "failed"
)

// Timestamp is a time.Time that unmarshals from the date formats found
// in preset documents: RFC 3339 with or without fractional seconds, and
// a bare local form without zone designator.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

// Device is the root record of a preset document.
type Device struct {
	Metadata          *FileMetadata               `json:"_metadata"`
	DeviceInfo        DeviceInfo                  `json:"device_info"`
	Capabilities      map[string]any              `json:"capabilities,omitempty"`
	PresetCollections map[string]PresetCollection `json:"preset_collections"`
}

// PresetCount returns the total number of presets across all
// collections in the document.
func (d *Device) PresetCount() int {
	total := 0
	for _, c := range d.PresetCollections {
		total += len(c.Presets)
	}
	return total
}

// SchemaVersion returns the declared schema version, or "unknown" when
// the metadata block is absent.
func (d *Device) SchemaVersion() string {
	if d.Metadata == nil || d.Metadata.SchemaVersion == "" {
		return "unknown"
	}
	return d.Metadata.SchemaVersion
}

// FileRevision returns the declared file revision, defaulting to 1 when
// the metadata block is absent.
func (d *Device) FileRevision() int {
	if d.Metadata == nil {
		return 1
	}
	return d.Metadata.FileRevision
}

// FileMetadata is the _metadata block of a preset document.
type FileMetadata struct {
	SchemaVersion string         `json:"schema_version"`
	FileRevision  int            `json:"file_revision"`
	CreatedBy     string         `json:"created_by"`
	ModifiedBy    string         `json:"modified_by"`
	CreatedDate   Timestamp      `json:"created_date"`
	ModifiedDate  Timestamp      `json:"modified_date"`
	MigrationPath []string       `json:"migration_path,omitempty"`
	Compatibility map[string]any `json:"compatibility,omitempty"`
}

// DeviceInfo identifies the physical device a document describes.
type DeviceInfo struct {
	Name           string            `json:"name"`
	Version        string            `json:"version"`
	Manufacturer   string            `json:"manufacturer"`
	ManufacturerID int               `json:"manufacturer_id"`
	DeviceID       int               `json:"device_id"`
	Ports          []string          `json:"ports,omitempty"`
	MIDIChannels   map[string]int    `json:"midi_channels,omitempty"`
	MIDIPorts      map[string]string `json:"midi_ports,omitempty"`
}

// PresetCollection groups presets with their collection metadata and
// per-preset metadata records keyed by preset id.
type PresetCollection struct {
	Metadata       CollectionMetadata        `json:"metadata"`
	Presets        []Preset                  `json:"presets"`
	PresetMetadata map[string]PresetMetadata `json:"preset_metadata,omitempty"`
}

// CollectionMetadata describes one preset collection.
type CollectionMetadata struct {
	Name              string     `json:"name"`
	Version           string     `json:"version"`
	Revision          int        `json:"revision"`
	Author            string     `json:"author"`
	Description       string     `json:"description"`
	Readonly          bool       `json:"readonly,omitempty"`
	PresetCount       int        `json:"preset_count"`
	ParentCollections []string   `json:"parent_collections,omitempty"`
	SyncStatus        SyncStatus `json:"sync_status,omitempty"`
	CreatedDate       Timestamp  `json:"created_date"`
	ModifiedDate      Timestamp  `json:"modified_date"`
}

// Preset is one recallable device program.
type Preset struct {
	PresetID         string         `json:"preset_id"`
	CC0              *int           `json:"cc_0,omitempty"`
	Pgm              int            `json:"pgm"`
	Category         string         `json:"category"`
	PresetName       string         `json:"preset_name"`
	SendmidiCommand  string         `json:"sendmidi_command"`
	Characters       []string       `json:"characters,omitempty"`
	PerformanceNotes string         `json:"performance_notes,omitempty"`
	UserRatings      map[string]any `json:"user_ratings,omitempty"`
	UsageStats       map[string]any `json:"usage_stats,omitempty"`
}

// PresetMetadata is the per-preset provenance record.
type PresetMetadata struct {
	Version          string           `json:"version"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	Source           string           `json:"source"`
	DerivedFrom      string           `json:"derived_from,omitempty"`
	MIDILearnSource  string           `json:"midi_learn_source,omitempty"`
	CreatedDate      Timestamp        `json:"created_date"`
	ModifiedDate     Timestamp        `json:"modified_date"`
}
