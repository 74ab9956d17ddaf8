package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/anchore/anchore-ctl/internal/errors"
)

// LoadAndMerge reads the YAML file at path, if present, and deep-merges it
// over a copy of defaults. defaults is never modified.
func LoadAndMerge(path string, defaults map[string]any) (map[string]any, error) {
	merged := copyMap(defaults)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return merged, nil
		}
		return nil, errors.ConfigNotFound(path, err)
	}

	var loaded map[string]any
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, errors.ConfigParse(path, err)
	}

	Merge(merged, normalizeMap(loaded))
	return merged, nil
}

// Merge deep-merges src into dst. Where both sides hold a mapping the merge
// recurses; otherwise the src value replaces the dst value.
func Merge(dst, src map[string]any) {
	for key, srcVal := range src {
		if dstMap, ok := dst[key].(map[string]any); ok {
			if srcMap, ok := srcVal.(map[string]any); ok {
				Merge(dstMap, srcMap)
				continue
			}
		}
		dst[key] = copyValue(srcVal)
	}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

// normalizeMap converts the map[any]any yaml.v3 produces for mappings with
// non-string keys into map[string]any so merging sees one mapping type.
func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeMap(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalizeValue(item)
		}
		return t
	default:
		return v
	}
}
