// Package config defines the tool configuration, loaded from a YAML
// file with defaults applied and environment variable overrides
// (MIDIVAULT_SECTION_FIELD) on top. The loading sequence is load,
// apply defaults, apply overrides, validate.
package config
