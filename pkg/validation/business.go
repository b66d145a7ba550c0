package validation

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/tirans/midivault/pkg/device"
)

// midiValueMax is the upper bound of a 7-bit MIDI data byte.
const midiValueMax = 127

// BusinessRulesValidator checks cross-record invariants on the fully
// parsed domain record: preset id uniqueness, MIDI value ranges,
// collection consistency, and data integrity. All four checks run
// regardless of earlier outcomes; their results are combined but no
// check is ever skipped.
type BusinessRulesValidator struct {
	logger *slog.Logger
}

// NewBusinessRulesValidator creates a business-rules validator.
func NewBusinessRulesValidator() *BusinessRulesValidator {
	return &BusinessRulesValidator{
		logger: slog.Default().With("component", "validation.business"),
	}
}

// Name implements Validator.
func (v *BusinessRulesValidator) Name() string { return "business_rules" }

// Validate parses the document at path and runs every business rule.
func (v *BusinessRulesValidator) Validate(path string) Result {
	b := newResultBuilder(path)

	dev, _, err := device.ParseFile(path)
	if err != nil {
		b.addError("cannot parse document for business rules: %v", err)
		return b.result()
	}

	v.checkPresetIDUniqueness(b, dev)
	v.checkMIDIRanges(b, dev)
	v.checkCollectionConsistency(b, dev)
	v.checkDataIntegrity(b, dev)

	return b.result()
}

// checkPresetIDUniqueness reports a hard error naming every preset id
// that occurs more than once across all collections.
func (v *BusinessRulesValidator) checkPresetIDUniqueness(b *resultBuilder, dev *device.Device) {
	counts := make(map[string]int)
	for _, collection := range dev.PresetCollections {
		for _, preset := range collection.Presets {
			counts[preset.PresetID]++
		}
	}

	var duplicates []string
	for id, n := range counts {
		if n > 1 {
			duplicates = append(duplicates, id)
		}
	}
	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		b.addError("duplicate preset IDs found: %s", strings.Join(duplicates, ", "))
	}
}

// checkMIDIRanges reports one warning per preset whose cc_0 or pgm
// value falls outside [0,127]. Out-of-range MIDI values never fail the
// file by themselves.
func (v *BusinessRulesValidator) checkMIDIRanges(b *resultBuilder, dev *device.Device) {
	forEachPreset(dev, func(collection string, preset device.Preset) {
		if preset.CC0 != nil && (*preset.CC0 < 0 || *preset.CC0 > midiValueMax) {
			b.addWarning("CC_0 value %d out of MIDI range for preset %s", *preset.CC0, preset.PresetID)
		}
		if preset.Pgm < 0 || preset.Pgm > midiValueMax {
			b.addWarning("program value %d out of MIDI range for preset %s", preset.Pgm, preset.PresetID)
		}
	})
}

// checkCollectionConsistency verifies that parent-collection references
// name existing sibling collections (hard error) and that readonly
// collections are in sync (warning).
func (v *BusinessRulesValidator) checkCollectionConsistency(b *resultBuilder, dev *device.Device) {
	names := sortedCollectionNames(dev)
	for _, name := range names {
		collection := dev.PresetCollections[name]
		for _, parent := range collection.Metadata.ParentCollections {
			if _, ok := dev.PresetCollections[parent]; !ok {
				b.addError("collection %q references non-existent parent %q", name, parent)
			}
		}
		if collection.Metadata.Readonly && collection.Metadata.SyncStatus != device.SyncStatusSynced {
			b.addWarning("readonly collection %q has sync status %q", name, collection.Metadata.SyncStatus)
		}
	}
}

// checkDataIntegrity tallies soft data-quality issues. These are
// surfaced as warnings for operator review and never fail the file.
func (v *BusinessRulesValidator) checkDataIntegrity(b *resultBuilder, dev *device.Device) {
	stats := struct {
		emptyNames    int
		emptyCommands int
		noCharacters  int
		longNames     int
		futureDates   int
		badRatings    int
	}{}

	now := time.Now()
	names := sortedCollectionNames(dev)
	for _, name := range names {
		collection := dev.PresetCollections[name]
		for _, preset := range collection.Presets {
			if strings.TrimSpace(preset.PresetName) == "" {
				stats.emptyNames++
			}
			if strings.TrimSpace(preset.SendmidiCommand) == "" {
				stats.emptyCommands++
			}
			if len(preset.Characters) == 0 {
				stats.noCharacters++
			}
			if len(preset.PresetName) > 50 {
				stats.longNames++
			}
			if meta, ok := collection.PresetMetadata[preset.PresetID]; ok {
				if meta.CreatedDate.After(now) {
					stats.futureDates++
				}
			}
			for _, value := range preset.UserRatings {
				if rating, ok := numericValue(value); ok && (rating < 0 || rating > 10) {
					stats.badRatings++
				}
			}
		}
	}

	warn := func(count int, format string) {
		if count > 0 {
			b.addWarning(format, count)
		}
	}
	warn(stats.emptyNames, "%d presets have empty names")
	warn(stats.emptyCommands, "%d presets have empty sendmidi commands")
	warn(stats.noCharacters, "%d presets have no descriptive characters")
	warn(stats.longNames, "%d presets have names longer than 50 characters")
	warn(stats.futureDates, "%d presets have creation dates in the future")
	warn(stats.badRatings, "%d user ratings fall outside the 0-10 range")
}

func forEachPreset(dev *device.Device, fn func(collection string, preset device.Preset)) {
	for _, name := range sortedCollectionNames(dev) {
		for _, preset := range dev.PresetCollections[name].Presets {
			fn(name, preset)
		}
	}
}

// sortedCollectionNames keeps finding order deterministic across runs;
// Go map iteration order is randomized.
func sortedCollectionNames(dev *device.Device) []string {
	names := make([]string, 0, len(dev.PresetCollections))
	for name := range dev.PresetCollections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
