package config

import (
	"os"
	"path/filepath"
)

// Environment override for the data directory root.
const EnvDataDir = "ANCHOREDATADIR"

const (
	DefaultSystemConfigDir = "/etc/anchore"
	DefaultPkgDir          = "/usr/share/anchore"
	ConfigDirName          = "conf"
	ConfigFileName         = "config.yaml"
	dataDirName            = ".anchore"
)

// Known configuration keys.
const (
	KeyDataDir           = "anchore_data_dir"
	KeyFeedsDir          = "feeds_dir"
	KeyFeedsURL          = "feeds_url"
	KeyImageDataStore    = "image_data_store"
	KeyTmpDir            = "tmpdir"
	KeyPkgDir            = "pkg_dir"
	KeyScriptsDir        = "scripts_dir"
	KeyUserScriptsDir    = "user_scripts_dir"
	KeyExtraScriptsDir   = "extra_scripts_dir"
	KeyDockerConn        = "docker_conn"
	KeyDockerConnTimeout = "docker_conn_timeout"
	KeyClientURL         = "anchore_client_url"
	KeyTokenURL          = "anchore_token_url"
	KeyAuthConnTimeout   = "anchore_auth_conn_timeout"
	KeyAuthMaxRetries    = "anchore_auth_max_retries"
	KeyVulnerabilities   = "vulnerabilities"
	KeyAnalysis          = "analysis"
	KeyImages            = "images"
)

const (
	DefaultFeedsURL        = "https://ancho.re/v1/service/feeds"
	DefaultClientURL       = "https://ancho.re/v1/account/users"
	DefaultTokenURL        = "https://ancho.re/oauth/token"
	DefaultDockerConn      = "unix://var/run/docker.sock"
	DefaultVulnerabilities = "https://service-data.anchore.com/vulnerabilities.tar.gz"
	DefaultAnalysis        = "https://service-data.anchore.com/analysis_db.tar.gz"
	DefaultAuthConnTimeout = 5
	DefaultAuthMaxRetries  = 5
)

// DefaultDataDir returns the data directory root, honoring ANCHOREDATADIR.
func DefaultDataDir() string {
	if env := os.Getenv(EnvDataDir); env != "" {
		return env
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, dataDirName)
	}
	return dataDirName
}

// Defaults returns a fresh defaults table rooted at dataDir.
func Defaults(dataDir string) map[string]any {
	return map[string]any{
		KeyDataDir:           dataDir,
		KeyFeedsDir:          "feeds",
		KeyFeedsURL:          DefaultFeedsURL,
		KeyImageDataStore:    "data",
		KeyTmpDir:            "/tmp",
		KeyPkgDir:            DefaultPkgDir,
		KeyScriptsDir:        filepath.Join(DefaultPkgDir, "anchore-modules"),
		KeyUserScriptsDir:    "user-scripts",
		KeyExtraScriptsDir:   nil,
		KeyDockerConn:        DefaultDockerConn,
		KeyDockerConnTimeout: "60",
		KeyClientURL:         DefaultClientURL,
		KeyTokenURL:          DefaultTokenURL,
		KeyAuthConnTimeout:   DefaultAuthConnTimeout,
		KeyAuthMaxRetries:    DefaultAuthMaxRetries,
		KeyVulnerabilities: map[string]any{
			"url": DefaultVulnerabilities,
		},
		KeyAnalysis: map[string]any{
			"url": DefaultAnalysis,
		},
		KeyImages: map[string]any{
			"docker_conn": DefaultDockerConn,
		},
	}
}
