// Package testutil provides test fixtures and utilities.
//
// This package contains embedded fixtures and a throwaway environment for
// tests that need a real data directory.
//
// # Fixtures
//
// Fixtures are embedded using go:embed:
//
//	fixtures/override_config.yaml
//	fixtures/invalid_config.yaml
//	fixtures/analyzer_manifest_ok.json
//	fixtures/analyzer_manifest_failed.json
//
// Raw config fixtures are written with TestEnv.WriteConfig; manifests are
// parsed into status.Manifest values:
//
//	data, err := testutil.OverrideConfig()
//	m, err := testutil.FailedManifest()
//
// # Test Environments
//
//	func TestBackup(t *testing.T) {
//	    env := testutil.NewTestEnv(t)
//	    a := env.App()
//	    env.AddImage(a.Config, "img1", manifest)
//	    ...
//	}
package testutil
