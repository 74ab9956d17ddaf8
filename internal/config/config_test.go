package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/anchore/anchore-ctl/internal/errors"
	"github.com/anchore/anchore-ctl/internal/scripts"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadAndMerge_MissingFileKeepsDefaults(t *testing.T) {
	defaults := Defaults("/home/u/.anchore")

	merged, err := LoadAndMerge(filepath.Join(t.TempDir(), "missing.yaml"), defaults)
	if err != nil {
		t.Fatalf("LoadAndMerge failed: %v", err)
	}
	if !reflect.DeepEqual(merged, defaults) {
		t.Errorf("merged = %v, want defaults %v", merged, defaults)
	}
}

func TestLoadAndMerge_DefaultsRetained(t *testing.T) {
	defaults := Defaults("/home/u/.anchore")
	path := writeConfig(t, t.TempDir(), "feeds_url: https://feeds.example.com\n")

	merged, err := LoadAndMerge(path, defaults)
	if err != nil {
		t.Fatalf("LoadAndMerge failed: %v", err)
	}

	for key, want := range defaults {
		if key == KeyFeedsURL {
			continue
		}
		if got := merged[key]; !reflect.DeepEqual(got, want) {
			t.Errorf("%s = %v, want default %v", key, got, want)
		}
	}
}

func TestLoadAndMerge_ScalarOverrides(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		key  string
		want any
	}{
		{"string", "feeds_url: https://feeds.example.com\n", KeyFeedsURL, "https://feeds.example.com"},
		{"int", "anchore_auth_max_retries: 9\n", KeyAuthMaxRetries, 9},
		{"path", "image_data_store: /mnt/images\n", KeyImageDataStore, "/mnt/images"},
		{"mapping replaced by scalar", "images: none\n", KeyImages, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.yaml)
			merged, err := LoadAndMerge(path, Defaults("/home/u/.anchore"))
			if err != nil {
				t.Fatalf("LoadAndMerge failed: %v", err)
			}
			if got := merged[tt.key]; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("%s = %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}
}

func TestLoadAndMerge_NestedSiblingsInherited(t *testing.T) {
	defaults := map[string]any{
		"vulnerabilities": map[string]any{
			"url":    "https://default.example.com/vulns.tar.gz",
			"mirror": "https://mirror.example.com",
			"options": map[string]any{
				"retries": 3,
				"timeout": 10,
			},
		},
	}
	path := writeConfig(t, t.TempDir(), `
vulnerabilities:
  url: https://custom.example.com/vulns.tar.gz
  options:
    retries: 7
`)

	merged, err := LoadAndMerge(path, defaults)
	if err != nil {
		t.Fatalf("LoadAndMerge failed: %v", err)
	}

	want := map[string]any{
		"vulnerabilities": map[string]any{
			"url":    "https://custom.example.com/vulns.tar.gz",
			"mirror": "https://mirror.example.com",
			"options": map[string]any{
				"retries": 7,
				"timeout": 10,
			},
		},
	}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("merged = %#v, want %#v", merged, want)
	}
}

func TestLoadAndMerge_ListsReplaced(t *testing.T) {
	defaults := map[string]any{
		"registries": []any{"docker.io", "quay.io"},
	}
	path := writeConfig(t, t.TempDir(), "registries:\n  - ghcr.io\n")

	merged, err := LoadAndMerge(path, defaults)
	if err != nil {
		t.Fatalf("LoadAndMerge failed: %v", err)
	}
	want := []any{"ghcr.io"}
	if got := merged["registries"]; !reflect.DeepEqual(got, want) {
		t.Errorf("registries = %#v, want %#v", got, want)
	}
}

func TestLoadAndMerge_DoesNotMutateDefaults(t *testing.T) {
	defaults := Defaults("/home/u/.anchore")
	path := writeConfig(t, t.TempDir(), "analysis:\n  url: https://other.example.com\n")

	if _, err := LoadAndMerge(path, defaults); err != nil {
		t.Fatalf("LoadAndMerge failed: %v", err)
	}

	analysis := defaults[KeyAnalysis].(map[string]any)
	if analysis["url"] != DefaultAnalysis {
		t.Errorf("defaults were mutated: analysis.url = %v", analysis["url"])
	}
}

func TestLoadAndMerge_EmptyFile(t *testing.T) {
	defaults := Defaults("/home/u/.anchore")
	path := writeConfig(t, t.TempDir(), "# only comments\n")

	merged, err := LoadAndMerge(path, defaults)
	if err != nil {
		t.Fatalf("LoadAndMerge failed: %v", err)
	}
	if !reflect.DeepEqual(merged, defaults) {
		t.Error("an empty document should yield the defaults")
	}
}

func TestLoadAndMerge_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid syntax", "feeds_dir: [unterminated\n"},
		{"not a mapping", "- just\n- a list\n"},
		{"nested mapping value", "key: value: another\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.yaml)
			merged, err := LoadAndMerge(path, Defaults("/home/u/.anchore"))
			if err == nil {
				t.Fatal("expected parse error")
			}
			if merged != nil {
				t.Error("no configuration should be returned on parse failure")
			}
			if !errors.Is(err, errors.ErrConfigParse) {
				t.Errorf("error kind = %v, want %v", errors.KindOf(err), errors.KindConfigParse)
			}
		})
	}
}

func TestLoadAndMerge_NonStringKeys(t *testing.T) {
	defaults := map[string]any{
		"ports": map[string]any{"80": "http"},
	}
	path := writeConfig(t, t.TempDir(), "ports:\n  443: https\n")

	merged, err := LoadAndMerge(path, defaults)
	if err != nil {
		t.Fatalf("LoadAndMerge failed: %v", err)
	}
	want := map[string]any{"80": "http", "443": "https"}
	if got := merged["ports"]; !reflect.DeepEqual(got, want) {
		t.Errorf("ports = %#v, want %#v", got, want)
	}
}

func TestResolvePaths_Scenario(t *testing.T) {
	values := map[string]any{
		KeyDataDir:        "/home/u/.anchore",
		KeyImageDataStore: "data",
		KeyFeedsDir:       "feeds",
		KeyUserScriptsDir: "user-scripts",
	}

	if err := ResolvePaths(values); err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}

	want := map[string]string{
		KeyImageDataStore: "/home/u/.anchore/data",
		KeyFeedsDir:       "/home/u/.anchore/feeds",
		KeyUserScriptsDir: "/home/u/.anchore/user-scripts",
	}
	for key, w := range want {
		if values[key] != w {
			t.Errorf("%s = %v, want %s", key, values[key], w)
		}
	}
}

func TestResolvePaths_AbsoluteUnchanged(t *testing.T) {
	values := map[string]any{
		KeyDataDir:        "/home/u/.anchore",
		KeyImageDataStore: "/mnt/images",
		KeyFeedsDir:       "feeds",
		KeyUserScriptsDir: "user-scripts",
	}

	if err := ResolvePaths(values); err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if values[KeyImageDataStore] != "/mnt/images" {
		t.Errorf("image_data_store = %v, want /mnt/images", values[KeyImageDataStore])
	}
}

func TestResolvePaths_Idempotent(t *testing.T) {
	values := map[string]any{
		KeyDataDir:        "/home/u/.anchore",
		KeyImageDataStore: "data",
		KeyFeedsDir:       "nested/feeds",
		KeyUserScriptsDir: "/opt/scripts",
	}

	if err := ResolvePaths(values); err != nil {
		t.Fatalf("first ResolvePaths failed: %v", err)
	}
	first := copyMap(values)

	if err := ResolvePaths(values); err != nil {
		t.Fatalf("second ResolvePaths failed: %v", err)
	}
	if !reflect.DeepEqual(values, first) {
		t.Errorf("second resolution changed values: %v != %v", values, first)
	}
	for _, key := range PathKeys {
		if !filepath.IsAbs(values[key].(string)) {
			t.Errorf("%s = %v, want an absolute path", key, values[key])
		}
	}
}

func TestResolvePaths_RelativeDataDir(t *testing.T) {
	values := map[string]any{
		KeyDataDir:        "relative-root",
		KeyImageDataStore: "data",
		KeyFeedsDir:       "feeds",
		KeyUserScriptsDir: "user-scripts",
	}

	if err := ResolvePaths(values); err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	base := values[KeyDataDir].(string)
	if !filepath.IsAbs(base) {
		t.Fatalf("anchore_data_dir = %q, want absolute", base)
	}
	if values[KeyImageDataStore] != filepath.Join(base, "data") {
		t.Errorf("image_data_store = %v", values[KeyImageDataStore])
	}
}

func TestResolvePaths_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"missing data dir", map[string]any{KeyImageDataStore: "data", KeyFeedsDir: "f", KeyUserScriptsDir: "u"}},
		{"non-string path", map[string]any{KeyDataDir: "/d", KeyImageDataStore: 5, KeyFeedsDir: "f", KeyUserScriptsDir: "u"}},
		{"null path", map[string]any{KeyDataDir: "/d", KeyImageDataStore: "data", KeyFeedsDir: nil, KeyUserScriptsDir: "u"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ResolvePaths(tt.values)
			if !errors.Is(err, errors.ErrConfigParse) {
				t.Errorf("ResolvePaths() error = %v, want config-parse-error", err)
			}
		})
	}
}

func TestFromValues(t *testing.T) {
	values := Defaults("/home/u/.anchore")
	values["custom_plugin"] = map[string]any{"enabled": true}
	if err := ResolvePaths(values); err != nil {
		t.Fatal(err)
	}

	cfg, err := FromValues(values)
	if err != nil {
		t.Fatalf("FromValues failed: %v", err)
	}

	if cfg.DataDir != "/home/u/.anchore" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.ImageDataStore != "/home/u/.anchore/data" {
		t.Errorf("ImageDataStore = %q", cfg.ImageDataStore)
	}
	if cfg.DockerConnTimeout != 60 {
		t.Errorf("DockerConnTimeout = %d, want 60", cfg.DockerConnTimeout)
	}
	if cfg.AuthMaxRetries != DefaultAuthMaxRetries {
		t.Errorf("AuthMaxRetries = %d", cfg.AuthMaxRetries)
	}
	if cfg.Vulnerabilities.URL != DefaultVulnerabilities {
		t.Errorf("Vulnerabilities.URL = %q", cfg.Vulnerabilities.URL)
	}
	if cfg.Images.DockerConn != DefaultDockerConn {
		t.Errorf("Images.DockerConn = %q", cfg.Images.DockerConn)
	}
	if cfg.ExtraScriptsDir != "" {
		t.Errorf("ExtraScriptsDir = %q, want empty", cfg.ExtraScriptsDir)
	}

	extra := cfg.Extra()
	if len(extra) != 1 {
		t.Fatalf("Extra() = %v, want only custom_plugin", extra)
	}
	if !reflect.DeepEqual(extra["custom_plugin"], map[string]any{"enabled": true}) {
		t.Errorf("custom_plugin = %#v", extra["custom_plugin"])
	}

	v, ok := cfg.Get("custom_plugin")
	if !ok || v == nil {
		t.Error("Get should return passthrough keys")
	}
	if _, ok := cfg.Get("nope"); ok {
		t.Error("Get should report missing keys")
	}
}

func TestFromValues_CopiesInput(t *testing.T) {
	values := Defaults("/home/u/.anchore")
	cfg, err := FromValues(values)
	if err != nil {
		t.Fatal(err)
	}

	values[KeyTmpDir] = "/changed"
	if v, _ := cfg.Get(KeyTmpDir); v != "/tmp" {
		t.Errorf("Config shares the input map: tmpdir = %v", v)
	}

	dump := cfg.Values()
	dump[KeyTmpDir] = "/mutated"
	if v, _ := cfg.Get(KeyTmpDir); v != "/tmp" {
		t.Errorf("Values() leaks internal state: tmpdir = %v", v)
	}
}

func TestFromValues_InvalidCoreType(t *testing.T) {
	values := Defaults("/home/u/.anchore")
	values[KeyScriptsDir] = []any{"/a", "/b"}

	cfg, err := FromValues(values)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if cfg != nil {
		t.Error("no configuration should be returned on decode failure")
	}
	if !errors.Is(err, errors.ErrConfigParse) {
		t.Errorf("error kind = %v, want %v", errors.KindOf(err), errors.KindConfigParse)
	}
}

func TestFromValues_UnreadKeysPassThrough(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"duration timeout", KeyDockerConnTimeout, "60s"},
		{"word timeout", KeyDockerConnTimeout, "sixty"},
		{"list of extra scripts", KeyExtraScriptsDir, []any{"a", "b"}},
		{"retries as mapping", KeyAuthMaxRetries, map[string]any{"count": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := Defaults("/home/u/.anchore")
			values[tt.key] = tt.value

			cfg, err := FromValues(values)
			if err != nil {
				t.Fatalf("FromValues failed: %v", err)
			}
			got, ok := cfg.Get(tt.key)
			if !ok || !reflect.DeepEqual(got, tt.value) {
				t.Errorf("Get(%s) = %#v, want %#v", tt.key, got, tt.value)
			}
			if cfg.DataDir != "/home/u/.anchore" {
				t.Errorf("DataDir = %q, other keys should still decode", cfg.DataDir)
			}
		})
	}
}

func TestLoad_UntypedValuesDoNotBlock(t *testing.T) {
	dataDir, _, defaults := loaderEnv(t)
	writeConfig(t, filepath.Join(dataDir, ConfigDirName), "docker_conn_timeout: 60s\nextra_scripts_dir: [a, b]\n")

	cfg, err := newTestLoader(t, dataDir, fstest.MapFS{}, WithDefaults(defaults)).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := cfg.Get(KeyDockerConnTimeout); v != "60s" {
		t.Errorf("docker_conn_timeout = %v, want raw 60s", v)
	}
	if cfg.DockerConnTimeout != 0 {
		t.Errorf("DockerConnTimeout = %d, want zero for an undecodable value", cfg.DockerConnTimeout)
	}
}

func TestConfig_Keys(t *testing.T) {
	cfg, err := FromValues(map[string]any{"b": 1, "a": 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestDefaultDataDir_EnvOverride(t *testing.T) {
	t.Setenv(EnvDataDir, "/srv/anchore")

	if got := DefaultDataDir(); got != "/srv/anchore" {
		t.Errorf("DefaultDataDir() = %q, want /srv/anchore", got)
	}

	l := NewLoader(WithSystemConfigDir(t.TempDir()))
	if got := l.defaults[KeyDataDir]; got != "/srv/anchore" {
		t.Errorf("defaults anchore_data_dir = %v, want /srv/anchore", got)
	}
}

func TestDefaultDataDir_Home(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := DefaultDataDir(); got != filepath.Join(home, ".anchore") {
		t.Errorf("DefaultDataDir() = %q, want %q", got, filepath.Join(home, ".anchore"))
	}
}

func TestExampleConfig_Parses(t *testing.T) {
	data, err := fs.ReadFile(ExampleConfig(), ConfigFileName)
	if err != nil {
		t.Fatalf("bundled example config missing: %v", err)
	}

	path := writeConfig(t, t.TempDir(), string(data))
	merged, err := LoadAndMerge(path, Defaults("/home/u/.anchore"))
	if err != nil {
		t.Fatalf("bundled example config does not parse: %v", err)
	}
	if merged[KeyImageDataStore] != "data" {
		t.Errorf("image_data_store = %v, want data", merged[KeyImageDataStore])
	}
}

func newTestLoader(t *testing.T, dataDir string, example fs.FS, opts ...Option) *Loader {
	t.Helper()
	base := []Option{
		WithDataDir(dataDir),
		WithSystemConfigDir(filepath.Join(t.TempDir(), "etc-anchore")),
		WithExampleConfig(example),
	}
	return NewLoader(append(base, opts...)...)
}

func TestLocate_DefaultLocation(t *testing.T) {
	dataDir := t.TempDir()
	want := writeConfig(t, filepath.Join(dataDir, ConfigDirName), "feeds_dir: feeds\n")

	l := newTestLoader(t, dataDir, fstest.MapFS{})
	dir, file, err := l.Locate()
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if file != want {
		t.Errorf("file = %q, want %q", file, want)
	}
	if dir != filepath.Join(dataDir, ConfigDirName) {
		t.Errorf("dir = %q", dir)
	}
}

func TestLocate_SystemLocation(t *testing.T) {
	dataDir := t.TempDir()
	sysDir := filepath.Join(t.TempDir(), "etc-anchore")
	want := writeConfig(t, sysDir, "feeds_dir: feeds\n")

	l := newTestLoader(t, dataDir, fstest.MapFS{}, WithSystemConfigDir(sysDir))
	dir, file, err := l.Locate()
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if file != want || dir != sysDir {
		t.Errorf("Locate() = (%q, %q), want (%q, %q)", dir, file, sysDir, want)
	}
	if _, err := os.Stat(filepath.Join(dataDir, ConfigDirName)); !os.IsNotExist(err) {
		t.Error("default config dir should not be created when the system config exists")
	}
}

func TestLocate_DefaultWinsOverSystem(t *testing.T) {
	dataDir := t.TempDir()
	sysDir := filepath.Join(t.TempDir(), "etc-anchore")
	writeConfig(t, sysDir, "feeds_dir: system\n")
	want := writeConfig(t, filepath.Join(dataDir, ConfigDirName), "feeds_dir: user\n")

	l := newTestLoader(t, dataDir, fstest.MapFS{}, WithSystemConfigDir(sysDir))
	_, file, err := l.Locate()
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if file != want {
		t.Errorf("file = %q, want %q", file, want)
	}
}

func TestLocate_SeedsFromExample(t *testing.T) {
	dataDir := t.TempDir()
	confDir := filepath.Join(dataDir, ConfigDirName)

	// A file the user already has must survive seeding.
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(confDir, "policy.yaml")
	if err := os.WriteFile(keep, []byte("mine\n"), 0644); err != nil {
		t.Fatal(err)
	}

	example := fstest.MapFS{
		"config.yaml":    &fstest.MapFile{Data: []byte("feeds_dir: feeds\n")},
		"policy.yaml":    &fstest.MapFile{Data: []byte("upstream\n")},
		"subdir/ignored": &fstest.MapFile{Data: []byte("x")},
	}

	l := newTestLoader(t, dataDir, example)
	dir, file, err := l.Locate()
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if dir != confDir || file != filepath.Join(confDir, ConfigFileName) {
		t.Errorf("Locate() = (%q, %q)", dir, file)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("config was not seeded: %v", err)
	}
	if string(data) != "feeds_dir: feeds\n" {
		t.Errorf("seeded config = %q", data)
	}
	data, _ = os.ReadFile(keep)
	if string(data) != "mine\n" {
		t.Errorf("existing file was overwritten: %q", data)
	}
	if _, err := os.Stat(filepath.Join(confDir, "subdir")); !os.IsNotExist(err) {
		t.Error("directories in the example config should not be copied")
	}

	// Second call finds the seeded file and is a no-op.
	if _, _, err := l.Locate(); err != nil {
		t.Fatalf("second Locate failed: %v", err)
	}
}

func TestLocate_NoExample(t *testing.T) {
	l := newTestLoader(t, t.TempDir(), nil)

	_, _, err := l.Locate()
	if !errors.Is(err, errors.ErrConfigNotFound) {
		t.Errorf("Locate() error = %v, want config-not-found", err)
	}
}

func TestLocate_DirCreateError(t *testing.T) {
	// A regular file where the data dir should be makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	l := newTestLoader(t, blocker, fstest.MapFS{})
	_, _, err := l.Locate()
	if !errors.Is(err, errors.ErrDirCreate) {
		t.Errorf("Locate() error = %v, want directory-create-error", err)
	}
}

// loaderEnv builds a data dir with a bundled scripts tree outside of it.
func loaderEnv(t *testing.T) (dataDir, bundled string, defaults map[string]any) {
	t.Helper()
	tmp := t.TempDir()
	dataDir = filepath.Join(tmp, "anchore")
	bundled = filepath.Join(tmp, "pkg", "anchore-modules")

	shellUtils := filepath.Join(bundled, scripts.ShellUtils)
	if err := os.MkdirAll(shellUtils, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(shellUtils, "helpers.sh"), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	defaults = Defaults(dataDir)
	defaults[KeyScriptsDir] = bundled
	return dataDir, bundled, defaults
}

func TestLoad(t *testing.T) {
	dataDir, bundled, defaults := loaderEnv(t)
	example := fstest.MapFS{
		"config.yaml": &fstest.MapFile{Data: []byte("feeds_url: https://feeds.example.com\nextra_key: kept\n")},
	}

	cfg, err := newTestLoader(t, dataDir, example, WithDefaults(defaults)).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ConfigFile != filepath.Join(dataDir, ConfigDirName, ConfigFileName) {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
	if cfg.FeedsURL != "https://feeds.example.com" {
		t.Errorf("FeedsURL = %q", cfg.FeedsURL)
	}
	if cfg.ScriptsDir != bundled {
		t.Errorf("ScriptsDir = %q, want %q", cfg.ScriptsDir, bundled)
	}
	if cfg.ImageDataStore != filepath.Join(dataDir, "data") {
		t.Errorf("ImageDataStore = %q", cfg.ImageDataStore)
	}
	if cfg.FeedsDir != filepath.Join(dataDir, "feeds") {
		t.Errorf("FeedsDir = %q", cfg.FeedsDir)
	}
	if v, _ := cfg.Get("extra_key"); v != "kept" {
		t.Errorf("extra_key = %v, want passthrough", v)
	}

	if info, err := os.Stat(cfg.ImageDataStore); err != nil || !info.IsDir() {
		t.Errorf("image data store not created: %v", err)
	}
	for _, dir := range scripts.Skeleton {
		if _, err := os.Stat(filepath.Join(cfg.UserScriptsDir, dir)); err != nil {
			t.Errorf("skeleton dir %s missing: %v", dir, err)
		}
	}
	synced, err := os.ReadFile(filepath.Join(cfg.UserScriptsDir, scripts.ShellUtils, "helpers.sh"))
	if err != nil {
		t.Fatalf("shell-utils not synced: %v", err)
	}
	if string(synced) != "#!/bin/sh\n" {
		t.Errorf("helpers.sh = %q", synced)
	}
}

func TestLoad_RepeatedIsStable(t *testing.T) {
	dataDir, _, defaults := loaderEnv(t)
	example := fstest.MapFS{"config.yaml": &fstest.MapFile{Data: []byte("tmpdir: /var/tmp\n")}}

	first, err := newTestLoader(t, dataDir, example, WithDefaults(defaults)).Load()
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	second, err := newTestLoader(t, dataDir, example, WithDefaults(defaults)).Load()
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if !reflect.DeepEqual(first.Values(), second.Values()) {
		t.Errorf("repeated construction differs:\n%v\n%v", first.Values(), second.Values())
	}
}

func TestLoad_ParseErrorYieldsNoConfig(t *testing.T) {
	dataDir, _, defaults := loaderEnv(t)
	writeConfig(t, filepath.Join(dataDir, ConfigDirName), "feeds_dir: [broken\n")

	cfg, err := newTestLoader(t, dataDir, fstest.MapFS{}, WithDefaults(defaults)).Load()
	if err == nil {
		t.Fatal("expected Load to fail")
	}
	if cfg != nil {
		t.Error("a failed Load must not return a configuration")
	}
	if !errors.Is(err, errors.ErrConfigParse) {
		t.Errorf("error kind = %v, want %v", errors.KindOf(err), errors.KindConfigParse)
	}
}

func TestLoad_AbsoluteImageStore(t *testing.T) {
	dataDir, _, defaults := loaderEnv(t)
	store := filepath.Join(t.TempDir(), "images")
	writeConfig(t, filepath.Join(dataDir, ConfigDirName), "image_data_store: "+store+"\n")

	cfg, err := newTestLoader(t, dataDir, fstest.MapFS{}, WithDefaults(defaults)).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ImageDataStore != store {
		t.Errorf("ImageDataStore = %q, want %q", cfg.ImageDataStore, store)
	}
	if _, err := os.Stat(store); err != nil {
		t.Errorf("absolute image store not created: %v", err)
	}
}

func TestLoad_ExistingUserScriptsKeepsLayout(t *testing.T) {
	dataDir, _, defaults := loaderEnv(t)
	userScripts := filepath.Join(dataDir, "user-scripts")
	if err := os.MkdirAll(userScripts, 0755); err != nil {
		t.Fatal(err)
	}

	cfg, err := newTestLoader(t, dataDir, fstest.MapFS{}, WithDefaults(defaults)).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.UserScriptsDir, scripts.Gates)); !os.IsNotExist(err) {
		t.Error("skeleton should not be added to an existing user scripts root")
	}
	if _, err := os.Stat(filepath.Join(cfg.UserScriptsDir, scripts.ShellUtils, "helpers.sh")); err != nil {
		t.Errorf("shell-utils should still be synced: %v", err)
	}
}
