package config

import (
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"

	"github.com/anchore/anchore-ctl/internal/errors"
	"github.com/anchore/anchore-ctl/internal/logging"
)

// Config is the merged and resolved configuration.
// The typed fields mirror the known keys; Values keeps the full map.
type Config struct {
	DataDir           string `mapstructure:"anchore_data_dir"`
	FeedsDir          string `mapstructure:"feeds_dir"`
	FeedsURL          string `mapstructure:"feeds_url"`
	ImageDataStore    string `mapstructure:"image_data_store"`
	TmpDir            string `mapstructure:"tmpdir"`
	PkgDir            string `mapstructure:"pkg_dir"`
	ScriptsDir        string `mapstructure:"scripts_dir"`
	UserScriptsDir    string `mapstructure:"user_scripts_dir"`
	ExtraScriptsDir   string `mapstructure:"extra_scripts_dir"`
	DockerConn        string `mapstructure:"docker_conn"`
	DockerConnTimeout int    `mapstructure:"docker_conn_timeout"`
	ClientURL         string `mapstructure:"anchore_client_url"`
	TokenURL          string `mapstructure:"anchore_token_url"`
	AuthConnTimeout   int    `mapstructure:"anchore_auth_conn_timeout"`
	AuthMaxRetries    int    `mapstructure:"anchore_auth_max_retries"`

	Vulnerabilities ServiceData  `mapstructure:"vulnerabilities"`
	Analysis        ServiceData  `mapstructure:"analysis"`
	Images          ImagesConfig `mapstructure:"images"`

	// ConfigDir and ConfigFile record where the configuration was found.
	ConfigDir  string `mapstructure:"-"`
	ConfigFile string `mapstructure:"-"`

	values map[string]any
}

// ServiceData points at a downloadable data bundle.
type ServiceData struct {
	URL string `mapstructure:"url"`
}

// ImagesConfig holds image source settings.
type ImagesConfig struct {
	DockerConn string `mapstructure:"docker_conn"`
}

// knownKeys are the top-level keys with typed fields.
var knownKeys = map[string]bool{
	KeyDataDir:           true,
	KeyFeedsDir:          true,
	KeyFeedsURL:          true,
	KeyImageDataStore:    true,
	KeyTmpDir:            true,
	KeyPkgDir:            true,
	KeyScriptsDir:        true,
	KeyUserScriptsDir:    true,
	KeyExtraScriptsDir:   true,
	KeyDockerConn:        true,
	KeyDockerConnTimeout: true,
	KeyClientURL:         true,
	KeyTokenURL:          true,
	KeyAuthConnTimeout:   true,
	KeyAuthMaxRetries:    true,
	KeyVulnerabilities:   true,
	KeyAnalysis:          true,
	KeyImages:            true,
}

// coreKeys are the keys this program reads. A value of the wrong type for
// one of them fails construction; any other typed key that does not decode
// keeps its zero field and stays available through Get and Values.
var coreKeys = map[string]bool{
	KeyDataDir:        true,
	KeyFeedsDir:       true,
	KeyImageDataStore: true,
	KeyScriptsDir:     true,
	KeyUserScriptsDir: true,
}

// FromValues decodes a merged, resolved map into a Config.
// The map is copied; later changes to values do not affect the Config.
func FromValues(values map[string]any) (*Config, error) {
	cfg := &Config{values: copyMap(values)}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}

	core := make(map[string]any)
	for k, v := range cfg.values {
		if coreKeys[k] {
			core[k] = v
		}
	}
	if err := decoder.Decode(core); err != nil {
		return nil, errors.Wrap(errors.KindConfigParse, "invalid configuration value", err)
	}

	for _, k := range cfg.Keys() {
		if coreKeys[k] || !knownKeys[k] {
			continue
		}
		if err := decoder.Decode(map[string]any{k: cfg.values[k]}); err != nil {
			logging.Debug("leaving configuration value untyped", "key", k, "error", err)
		}
	}
	return cfg, nil
}

// Get returns the merged value for a top-level key.
func (c *Config) Get(key string) (any, bool) {
	v, ok := c.values[key]
	if !ok {
		return nil, false
	}
	return copyValue(v), true
}

// Values returns a deep copy of the full merged configuration.
func (c *Config) Values() map[string]any {
	return copyMap(c.values)
}

// Extra returns the top-level keys that have no typed field, unchanged.
func (c *Config) Extra() map[string]any {
	extra := make(map[string]any)
	for k, v := range c.values {
		if !knownKeys[k] {
			extra[k] = copyValue(v)
		}
	}
	return extra
}

// Keys returns all top-level keys in sorted order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
