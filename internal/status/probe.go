package status

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/anchore/anchore-ctl/internal/config"
)

const (
	manifestFile = "analyzer_manifest.json"
	feedMetaFile = "feedmeta.json"
)

// FSProbe reads status from the data directory layout.
type FSProbe struct {
	ImageStore string
	FeedsDir   string
}

// NewFSProbe returns a probe over the resolved paths of cfg.
func NewFSProbe(cfg *config.Config) *FSProbe {
	return &FSProbe{ImageStore: cfg.ImageDataStore, FeedsDir: cfg.FeedsDir}
}

// Check reports whether the image store is a readable directory.
func (p *FSProbe) Check() bool {
	f, err := os.Open(p.ImageStore)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	return err == nil && info.IsDir()
}

// ImageIDs lists the image directories of the store. A missing store has none.
func (p *FSProbe) ImageIDs() ([]string, error) {
	entries, err := os.ReadDir(p.ImageStore)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Synced reports whether non-empty feed metadata exists.
func (p *FSProbe) Synced() bool {
	info, err := os.Stat(filepath.Join(p.FeedsDir, feedMetaFile))
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// Load reads an image's analyzer manifest. A missing manifest is empty.
func (p *FSProbe) Load(imageID string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(p.ImageStore, imageID, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, nil
		}
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
