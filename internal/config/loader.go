package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/anchore/anchore-ctl/internal/errors"
	"github.com/anchore/anchore-ctl/internal/fileutil"
	"github.com/anchore/anchore-ctl/internal/logging"
	"github.com/anchore/anchore-ctl/internal/scripts"
)

//go:embed example
var exampleFS embed.FS

// ExampleConfig returns the example configuration bundled in the binary.
func ExampleConfig() fs.FS {
	sub, err := fs.Sub(exampleFS, "example")
	if err != nil {
		panic(err)
	}
	return sub
}

// Loader builds a Config from on-disk state.
type Loader struct {
	dataDir         string
	systemConfigDir string
	example         fs.FS
	defaults        map[string]any
}

// Option is a function that configures the Loader
type Option func(*Loader)

// WithDataDir sets the data directory root used to find the config file.
func WithDataDir(dir string) Option {
	return func(l *Loader) {
		l.dataDir = dir
	}
}

// WithSystemConfigDir sets the system-wide config directory.
func WithSystemConfigDir(dir string) Option {
	return func(l *Loader) {
		l.systemConfigDir = dir
	}
}

// WithExampleConfig sets the directory copied in when no config exists.
func WithExampleConfig(fsys fs.FS) Option {
	return func(l *Loader) {
		l.example = fsys
	}
}

// WithDefaults replaces the defaults table.
func WithDefaults(defaults map[string]any) Option {
	return func(l *Loader) {
		l.defaults = defaults
	}
}

// NewLoader creates a Loader. Without options it honors ANCHOREDATADIR and
// uses the bundled example configuration.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		dataDir:         DefaultDataDir(),
		systemConfigDir: DefaultSystemConfigDir,
		example:         ExampleConfig(),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.defaults == nil {
		l.defaults = Defaults(l.dataDir)
	}

	return l
}

// Locate returns the config directory and file to load, seeding the default
// location from the example configuration when nothing exists yet.
func (l *Loader) Locate() (string, string, error) {
	confDir := filepath.Join(l.dataDir, ConfigDirName)
	confFile := filepath.Join(confDir, ConfigFileName)
	if fileExists(confFile) {
		return confDir, confFile, nil
	}

	sysFile := filepath.Join(l.systemConfigDir, ConfigFileName)
	if fileExists(sysFile) {
		return l.systemConfigDir, sysFile, nil
	}

	if err := os.MkdirAll(confDir, 0755); err != nil {
		return "", "", errors.DirCreate(confDir, err)
	}

	if l.example == nil {
		return "", "", errors.ConfigNotFound(confFile, fmt.Errorf("no example configuration available"))
	}
	entries, err := fs.ReadDir(l.example, ".")
	if err != nil {
		return "", "", errors.ConfigNotFound(confFile, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		dst := filepath.Join(confDir, entry.Name())
		copied, err := fileutil.CopyFSFileNoClobber(l.example, entry.Name(), dst, 0644)
		if err != nil {
			return "", "", errors.Wrap(errors.KindDirCreate, fmt.Sprintf("failed to seed %s", dst), err)
		}
		if copied {
			logging.Debug("seeded config file", "path", dst)
		}
	}

	return confDir, confFile, nil
}

// Load builds the configuration: locate, merge, resolve paths, create the
// data store, bootstrap the user scripts tree and sync shell-utils.
func (l *Loader) Load() (*Config, error) {
	confDir, confFile, err := l.Locate()
	if err != nil {
		return nil, err
	}
	logging.Debug("using config file", "path", confFile)

	values, err := LoadAndMerge(confFile, l.defaults)
	if err != nil {
		return nil, err
	}

	if err := ResolvePaths(values); err != nil {
		return nil, err
	}

	cfg, err := FromValues(values)
	if err != nil {
		return nil, err
	}
	cfg.ConfigDir = confDir
	cfg.ConfigFile = confFile

	if err := os.MkdirAll(cfg.ImageDataStore, 0755); err != nil {
		return nil, errors.DirCreate(cfg.ImageDataStore, err)
	}

	created, err := scripts.Bootstrap(cfg.UserScriptsDir)
	if err != nil {
		return nil, err
	}
	if created {
		logging.Debug("created user scripts tree", "path", cfg.UserScriptsDir)
	}

	if _, err := scripts.Sync(cfg.ScriptsDir, cfg.UserScriptsDir, scripts.ShellUtils); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
