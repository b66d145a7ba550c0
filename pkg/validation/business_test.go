package validation

import (
	"fmt"
	"strings"
	"testing"
)

// twoCollectionDoc builds a document with two collections whose presets
// and metadata are given inline.
func twoCollectionDoc(collectionA, collectionB string) string {
	return fmt.Sprintf(`{
	  "device_info": {
	    "name": "DX7",
	    "version": "1.0",
	    "manufacturer": "Yamaha",
	    "manufacturer_id": 67,
	    "device_id": 1
	  },
	  "preset_collections": {%s, %s}
	}`, collectionA, collectionB)
}

func collectionJSON(name string, extraMeta string, presets ...string) string {
	meta := fmt.Sprintf(`"name": %q, "version": "1.0", "revision": 1, "author": "Yamaha",
	  "description": "", "preset_count": %d, "sync_status": "synced",
	  "created_date": "2025-01-10T12:00:00Z", "modified_date": "2025-01-10T12:00:00Z"`,
		name, len(presets))
	if extraMeta != "" {
		meta += ", " + extraMeta
	}
	return fmt.Sprintf(`%q: {"metadata": {%s}, "presets": [%s]}`,
		name, meta, strings.Join(presets, ", "))
}

func presetJSON(id string, pgm int) string {
	return fmt.Sprintf(`{
	  "preset_id": %q,
	  "pgm": %d,
	  "category": "keys",
	  "preset_name": "Preset %s",
	  "sendmidi_command": "sendmidi dev DX7 pc %d",
	  "characters": ["bright"]
	}`, id, pgm, id, pgm)
}

func TestBusinessRules_DuplicatePresetIDs(t *testing.T) {
	// The same id in two collections is a hard error, and the failure
	// must not suppress the other checks: pgm 300 still warns.
	doc := twoCollectionDoc(
		collectionJSON("bank_a", "", presetJSON("p1", 0)),
		collectionJSON("bank_b", "", presetJSON("p1", 300)),
	)
	root := t.TempDir()
	path := writeArtifact(t, root, "devices/yamaha/dx7.json", doc)

	v := NewBusinessRulesValidator()
	result := v.Validate(path)

	if result.Valid {
		t.Fatal("Validate() valid with duplicate preset IDs")
	}
	if !hasIssueContaining(result.Errors(), "p1") {
		t.Errorf("duplicate error does not name p1: %v", result.Errors())
	}
	if !hasIssueContaining(result.Warnings(), "out of MIDI range") {
		t.Errorf("MIDI range check was suppressed: %v", result.Warnings())
	}
}

func TestBusinessRules_MIDIRangeIsWarningOnly(t *testing.T) {
	doc := twoCollectionDoc(
		collectionJSON("bank_a", "", presetJSON("p1", 200)),
		collectionJSON("bank_b", "", presetJSON("p2", 5)),
	)
	root := t.TempDir()
	path := writeArtifact(t, root, "devices/yamaha/dx7.json", doc)

	v := NewBusinessRulesValidator()
	result := v.Validate(path)

	if !result.Valid {
		t.Errorf("Validate() invalid, out-of-range pgm must only warn: %v", result.Errors())
	}
	warnings := result.Warnings()
	count := 0
	for _, w := range warnings {
		if strings.Contains(w.Message, "out of MIDI range") {
			count++
			if !strings.Contains(w.Message, "p1") {
				t.Errorf("warning does not reference offending preset: %s", w.Message)
			}
		}
	}
	if count != 1 {
		t.Errorf("want exactly one MIDI range warning, got %d (%v)", count, warnings)
	}
}

func TestBusinessRules_CC0Range(t *testing.T) {
	preset := strings.Replace(presetJSON("p1", 0), `"pgm": 0`, `"cc_0": 180, "pgm": 0`, 1)
	doc := twoCollectionDoc(
		collectionJSON("bank_a", "", preset),
		collectionJSON("bank_b", "", presetJSON("p2", 1)),
	)
	root := t.TempDir()
	path := writeArtifact(t, root, "devices/yamaha/dx7.json", doc)

	result := NewBusinessRulesValidator().Validate(path)
	if !result.Valid {
		t.Errorf("cc_0 out of range must not fail validation: %v", result.Errors())
	}
	if !hasIssueContaining(result.Warnings(), "CC_0 value 180") {
		t.Errorf("warnings = %v, want CC_0 warning", result.Warnings())
	}
}

func TestBusinessRules_ParentCollectionReference(t *testing.T) {
	doc := twoCollectionDoc(
		collectionJSON("bank_a", `"parent_collections": ["missing_bank"]`, presetJSON("p1", 0)),
		collectionJSON("bank_b", "", presetJSON("p2", 1)),
	)
	root := t.TempDir()
	path := writeArtifact(t, root, "devices/yamaha/dx7.json", doc)

	result := NewBusinessRulesValidator().Validate(path)
	if result.Valid {
		t.Fatal("Validate() valid with broken parent reference")
	}
	if !hasIssueContaining(result.Errors(), `non-existent parent "missing_bank"`) {
		t.Errorf("errors = %v, want parent reference error", result.Errors())
	}
}

func TestBusinessRules_ReadonlySyncStatus(t *testing.T) {
	doc := twoCollectionDoc(
		collectionJSON("bank_a", `"readonly": true`, presetJSON("p1", 0)),
		collectionJSON("bank_b", "", presetJSON("p2", 1)),
	)
	// Readonly with sync status other than synced is a warning.
	doc = strings.Replace(doc, `"sync_status": "synced"`, `"sync_status": "modified"`, 1)

	root := t.TempDir()
	path := writeArtifact(t, root, "devices/yamaha/dx7.json", doc)

	result := NewBusinessRulesValidator().Validate(path)
	if !result.Valid {
		t.Errorf("readonly sync mismatch must only warn: %v", result.Errors())
	}
	if !hasIssueContaining(result.Warnings(), `readonly collection "bank_a"`) {
		t.Errorf("warnings = %v, want readonly sync warning", result.Warnings())
	}
}

func TestBusinessRules_DataIntegrityWarnings(t *testing.T) {
	preset := `{
	  "preset_id": "p1",
	  "pgm": 0,
	  "category": "keys",
	  "preset_name": "   ",
	  "sendmidi_command": " ",
	  "user_ratings": {"alice": 12}
	}`
	doc := twoCollectionDoc(
		collectionJSON("bank_a", "", preset),
		collectionJSON("bank_b", "", presetJSON("p2", 1)),
	)
	root := t.TempDir()
	path := writeArtifact(t, root, "devices/yamaha/dx7.json", doc)

	result := NewBusinessRulesValidator().Validate(path)
	if !result.Valid {
		t.Errorf("data integrity issues must never fail the file: %v", result.Errors())
	}

	for _, want := range []string{
		"empty names",
		"empty sendmidi commands",
		"no descriptive characters",
		"outside the 0-10 range",
	} {
		if !hasIssueContaining(result.Warnings(), want) {
			t.Errorf("warnings = %v, want one containing %q", result.Warnings(), want)
		}
	}
}

func TestBusinessRules_UnparseableFile(t *testing.T) {
	root := t.TempDir()
	path := writeArtifact(t, root, "devices/yamaha/bad.json", `not json`)

	result := NewBusinessRulesValidator().Validate(path)
	if result.Valid {
		t.Error("Validate() valid for unparseable file")
	}
}
