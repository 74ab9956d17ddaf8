package config

import (
	"fmt"
	"path/filepath"

	"github.com/anchore/anchore-ctl/internal/errors"
	"github.com/anchore/anchore-ctl/internal/logging"
)

// PathKeys are the configured paths resolved against anchore_data_dir.
var PathKeys = []string{KeyImageDataStore, KeyFeedsDir, KeyUserScriptsDir}

// ResolvePaths rewrites the PathKeys entries of values to absolute paths.
// anchore_data_dir itself is made absolute first. Values that are already
// absolute are left as they are, which makes a second call a no-op.
func ResolvePaths(values map[string]any) error {
	base, err := stringValue(values, KeyDataDir)
	if err != nil {
		return err
	}
	if !filepath.IsAbs(base) {
		abs, err := filepath.Abs(base)
		if err != nil {
			return errors.Wrap(errors.KindConfigParse, fmt.Sprintf("cannot resolve %s", KeyDataDir), err)
		}
		base = abs
		values[KeyDataDir] = base
	}

	for _, key := range PathKeys {
		p, err := stringValue(values, key)
		if err != nil {
			return err
		}
		if filepath.IsAbs(p) {
			continue
		}
		resolved := filepath.Join(base, p)
		values[key] = resolved
		logging.Debug("resolved path", "key", key, "path", resolved)
	}
	return nil
}

func stringValue(values map[string]any, key string) (string, error) {
	raw, ok := values[key]
	if !ok || raw == nil {
		return "", errors.New(errors.KindConfigParse, fmt.Sprintf("%s is not set", key))
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.New(errors.KindConfigParse, fmt.Sprintf("%s must be a string path (got %T)", key, raw))
	}
	return s, nil
}
