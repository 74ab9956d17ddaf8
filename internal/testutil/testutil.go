// Package testutil provides test utilities for integration tests
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/anchore/anchore-ctl/internal/app"
	"github.com/anchore/anchore-ctl/internal/config"
	"github.com/anchore/anchore-ctl/internal/scripts"
	"github.com/anchore/anchore-ctl/internal/status"
)

// TestEnv holds the test environment
type TestEnv struct {
	T *testing.T

	// TmpDir is the throwaway root everything else lives under
	TmpDir string

	// DataDir is the anchore data directory
	DataDir string

	// BundledScripts is the read-only scripts tree shipped with the package
	BundledScripts string

	// SystemConfigDir stands in for /etc/anchore
	SystemConfigDir string
}

// NewTestEnv creates a throwaway data root with a bundled scripts tree
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	env := &TestEnv{
		T:               t,
		TmpDir:          tmpDir,
		DataDir:         filepath.Join(tmpDir, "anchore"),
		BundledScripts:  filepath.Join(tmpDir, "pkg", "anchore-modules"),
		SystemConfigDir: filepath.Join(tmpDir, "etc", "anchore"),
	}

	if err := os.MkdirAll(filepath.Join(env.BundledScripts, scripts.ShellUtils), 0755); err != nil {
		t.Fatalf("Failed to create bundled scripts: %v", err)
	}
	env.AddBundledScript("anchore_utils.sh", "#!/bin/sh\necho utils\n")

	return env
}

// Defaults returns the defaults table pointed at the environment
func (e *TestEnv) Defaults() map[string]any {
	defaults := config.Defaults(e.DataDir)
	defaults[config.KeyPkgDir] = filepath.Dir(e.BundledScripts)
	defaults[config.KeyScriptsDir] = e.BundledScripts
	return defaults
}

// LoaderOptions returns config loader options confined to the environment.
// No example configuration is seeded.
func (e *TestEnv) LoaderOptions() []config.Option {
	return []config.Option{
		config.WithDataDir(e.DataDir),
		config.WithSystemConfigDir(e.SystemConfigDir),
		config.WithExampleConfig(fstest.MapFS{}),
		config.WithDefaults(e.Defaults()),
	}
}

// NewApp loads the configuration of the environment into an App
func (e *TestEnv) NewApp(opts ...app.Option) (*app.App, error) {
	all := append([]app.Option{app.WithLoaderOptions(e.LoaderOptions()...)}, opts...)
	return app.New(all...)
}

// App is NewApp that fails the test on error
func (e *TestEnv) App(opts ...app.Option) *app.App {
	e.T.Helper()

	a, err := e.NewApp(opts...)
	if err != nil {
		e.T.Fatalf("Failed to build app: %v", err)
	}
	return a
}

// WriteConfig writes the user config file at the default location
func (e *TestEnv) WriteConfig(data []byte) string {
	e.T.Helper()

	dir := filepath.Join(e.DataDir, config.ConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.T.Fatalf("Failed to create config dir: %v", err)
	}
	path := filepath.Join(dir, config.ConfigFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		e.T.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// AddBundledScript adds a shell-utils script to the bundled tree
func (e *TestEnv) AddBundledScript(name, content string) string {
	e.T.Helper()

	path := filepath.Join(e.BundledScripts, scripts.ShellUtils, name)
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		e.T.Fatalf("Failed to write bundled script: %v", err)
	}
	return path
}

// AddImage writes an analyzer manifest for imageID under the image store
func (e *TestEnv) AddImage(cfg *config.Config, imageID string, manifest status.Manifest) {
	e.T.Helper()

	dir := filepath.Join(cfg.ImageDataStore, imageID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.T.Fatalf("Failed to create image dir: %v", err)
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		e.T.Fatalf("Failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "analyzer_manifest.json"), data, 0644); err != nil {
		e.T.Fatalf("Failed to write manifest: %v", err)
	}
}

// SyncFeeds writes feed metadata so feeds report as synced
func (e *TestEnv) SyncFeeds(cfg *config.Config) {
	e.T.Helper()

	if err := os.MkdirAll(cfg.FeedsDir, 0755); err != nil {
		e.T.Fatalf("Failed to create feeds dir: %v", err)
	}
	meta := []byte(`{"vulnerabilities": {"groups": {}}}`)
	if err := os.WriteFile(filepath.Join(cfg.FeedsDir, "feedmeta.json"), meta, 0644); err != nil {
		e.T.Fatalf("Failed to write feed metadata: %v", err)
	}
}
