package testutil

import (
	"embed"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/anchore/anchore-ctl/internal/status"
)

//go:embed fixtures/*.yaml fixtures/*.json
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadConfigFixture parses a YAML config fixture into a plain map.
func LoadConfigFixture(name string) (map[string]any, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// LoadManifestFixture parses an analyzer manifest fixture.
func LoadManifestFixture(name string) (status.Manifest, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	var m status.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// OverrideConfig returns the raw config fixture with scalar, nested and
// passthrough overrides.
func OverrideConfig() ([]byte, error) {
	return LoadFixture("override_config.yaml")
}

// InvalidConfig returns the raw config fixture that does not parse.
func InvalidConfig() ([]byte, error) {
	return LoadFixture("invalid_config.yaml")
}

// SuccessfulManifest returns a manifest whose modules all succeeded.
func SuccessfulManifest() (status.Manifest, error) {
	return LoadManifestFixture("analyzer_manifest_ok.json")
}

// FailedManifest returns a manifest with one failed module.
func FailedManifest() (status.Manifest, error) {
	return LoadManifestFixture("analyzer_manifest_failed.json")
}
