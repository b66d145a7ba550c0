package device

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxPresetsPerCollection bounds the size of a single collection.
const MaxPresetsPerCollection = 1000

var (
	schemaVersionRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	shortVersionRe  = regexp.MustCompile(`^\d+\.\d+$`)
	identifierRe    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

const (
	deviceNameInvalidChars = `<>/\:*?"|`
	presetNameInvalidChars = `<>{}\/;"'`
	authorInvalidChars     = `<>"';&`
)

// Validate checks every field constraint of the document and returns
// the full list of violations. It never stops at the first problem and
// never panics on partially populated records.
func (d *Device) Validate() []Violation {
	var out []Violation

	if d.Metadata != nil {
		out = append(out, d.Metadata.validate()...)
	}
	out = append(out, d.DeviceInfo.validate()...)

	if len(d.PresetCollections) == 0 {
		out = append(out, Violation{
			Field:   "preset_collections",
			Message: "at least one preset collection is required",
		})
	}
	for name, collection := range d.PresetCollections {
		prefix := "preset_collections." + name
		if !identifierRe.MatchString(name) {
			out = append(out, Violation{
				Field:   prefix,
				Message: "collection name must be alphanumeric with underscore/hyphen",
			})
		}
		out = append(out, collection.validate(prefix)...)
	}

	return out
}

func (m *FileMetadata) validate() []Violation {
	var out []Violation
	if !schemaVersionRe.MatchString(m.SchemaVersion) {
		out = append(out, Violation{
			Field:   "_metadata.schema_version",
			Message: fmt.Sprintf("%q does not match MAJOR.MINOR.PATCH", m.SchemaVersion),
		})
	}
	if m.FileRevision < 1 {
		out = append(out, Violation{
			Field:   "_metadata.file_revision",
			Message: "must be at least 1",
		})
	}
	out = append(out, checkLength("_metadata.created_by", m.CreatedBy, 1, 100)...)
	out = append(out, checkLength("_metadata.modified_by", m.ModifiedBy, 1, 100)...)
	return out
}

func (i *DeviceInfo) validate() []Violation {
	var out []Violation
	out = append(out, checkLength("device_info.name", i.Name, 1, 100)...)
	out = append(out, checkChars("device_info.name", i.Name, deviceNameInvalidChars)...)
	out = append(out, checkLength("device_info.version", i.Version, 1, 20)...)
	out = append(out, checkLength("device_info.manufacturer", i.Manufacturer, 1, 100)...)
	out = append(out, checkRange("device_info.manufacturer_id", i.ManufacturerID, 0, 127)...)
	out = append(out, checkRange("device_info.device_id", i.DeviceID, 0, 127)...)
	return out
}

func (c *PresetCollection) validate(prefix string) []Violation {
	var out []Violation

	out = append(out, checkLength(prefix+".metadata.name", c.Metadata.Name, 1, 100)...)
	if !shortVersionRe.MatchString(c.Metadata.Version) {
		out = append(out, Violation{
			Field:   prefix + ".metadata.version",
			Message: fmt.Sprintf("%q does not match MAJOR.MINOR", c.Metadata.Version),
		})
	}
	if c.Metadata.Revision < 1 {
		out = append(out, Violation{
			Field:   prefix + ".metadata.revision",
			Message: "must be at least 1",
		})
	}
	out = append(out, checkLength(prefix+".metadata.author", c.Metadata.Author, 1, 100)...)
	out = append(out, checkChars(prefix+".metadata.author", c.Metadata.Author, authorInvalidChars)...)
	out = append(out, checkLength(prefix+".metadata.description", c.Metadata.Description, 0, 500)...)

	if len(c.Presets) == 0 {
		out = append(out, Violation{
			Field:   prefix + ".presets",
			Message: "collection must contain at least one preset",
		})
	}
	if len(c.Presets) > MaxPresetsPerCollection {
		out = append(out, Violation{
			Field:   prefix + ".presets",
			Message: fmt.Sprintf("collection holds %d presets, limit is %d", len(c.Presets), MaxPresetsPerCollection),
		})
	}
	if c.Metadata.PresetCount != len(c.Presets) {
		out = append(out, Violation{
			Field:   prefix + ".metadata.preset_count",
			Message: fmt.Sprintf("declared %d presets, found %d", c.Metadata.PresetCount, len(c.Presets)),
		})
	}

	for idx, preset := range c.Presets {
		out = append(out, preset.validate(fmt.Sprintf("%s.presets[%d]", prefix, idx))...)
	}

	// preset_metadata keys must mirror the preset id set exactly.
	if c.PresetMetadata != nil {
		ids := make(map[string]bool, len(c.Presets))
		for _, p := range c.Presets {
			ids[p.PresetID] = true
		}
		for id := range c.PresetMetadata {
			if !ids[id] {
				out = append(out, Violation{
					Field:   prefix + ".preset_metadata",
					Message: fmt.Sprintf("metadata for non-existent preset %q", id),
				})
			}
		}
		for _, p := range c.Presets {
			if _, ok := c.PresetMetadata[p.PresetID]; !ok {
				out = append(out, Violation{
					Field:   prefix + ".preset_metadata",
					Message: fmt.Sprintf("missing metadata for preset %q", p.PresetID),
				})
			}
		}
	}

	return out
}

func (p *Preset) validate(prefix string) []Violation {
	var out []Violation

	out = append(out, checkLength(prefix+".preset_id", p.PresetID, 1, 100)...)
	if p.PresetID != "" && !identifierRe.MatchString(p.PresetID) {
		out = append(out, Violation{
			Field:   prefix + ".preset_id",
			Message: "must be alphanumeric with underscores/hyphens only",
		})
	}
	out = append(out, checkLength(prefix+".category", p.Category, 1, 50)...)
	out = append(out, checkLength(prefix+".preset_name", p.PresetName, 1, 100)...)
	out = append(out, checkChars(prefix+".preset_name", p.PresetName, presetNameInvalidChars)...)
	if p.SendmidiCommand == "" {
		out = append(out, Violation{
			Field:   prefix + ".sendmidi_command",
			Message: "must not be empty",
		})
	} else if !strings.HasPrefix(p.SendmidiCommand, "sendmidi") {
		out = append(out, Violation{
			Field:   prefix + ".sendmidi_command",
			Message: `command must start with "sendmidi"`,
		})
	}
	out = append(out, checkLength(prefix+".performance_notes", p.PerformanceNotes, 0, 500)...)

	// MIDI ranges for pgm/cc_0 are deliberately not checked here; the
	// business-rules validator reports them as warnings so an
	// out-of-range value never fails schema validation.

	return out
}

func checkLength(field, value string, minLen, maxLen int) []Violation {
	if len(value) < minLen {
		return []Violation{{Field: field, Message: fmt.Sprintf("must be at least %d characters", minLen)}}
	}
	if len(value) > maxLen {
		return []Violation{{Field: field, Message: fmt.Sprintf("must be at most %d characters", maxLen)}}
	}
	return nil
}

func checkChars(field, value, invalid string) []Violation {
	if strings.ContainsAny(value, invalid) {
		return []Violation{{Field: field, Message: fmt.Sprintf("contains invalid characters (%s)", invalid)}}
	}
	return nil
}

func checkRange(field string, value, lo, hi int) []Violation {
	if value < lo || value > hi {
		return []Violation{{Field: field, Message: fmt.Sprintf("must be between %d and %d", lo, hi)}}
	}
	return nil
}
