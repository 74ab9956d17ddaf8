package scripts

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/anchore/anchore-ctl/internal/errors"
	"github.com/anchore/anchore-ctl/internal/fileutil"
	"github.com/anchore/anchore-ctl/internal/logging"
)

// Script categories.
const (
	Analyzers    = "analyzers"
	Gates        = "gates"
	Queries      = "queries"
	MultiQueries = "multi-queries"
	ShellUtils   = "shell-utils"
)

// Skeleton lists the subdirectories created under a new user scripts root.
var Skeleton = []string{Analyzers, Gates, Queries, MultiQueries, ShellUtils}

// SyncResult reports what a Sync did.
type SyncResult struct {
	Copied    []string
	Unchanged []string
}

// Bootstrap creates userRoot and the skeleton directories if userRoot does
// not exist. It reports whether anything was created.
func Bootstrap(userRoot string) (bool, error) {
	if _, err := os.Stat(userRoot); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, errors.DirCreate(userRoot, err)
	}

	if err := os.MkdirAll(userRoot, 0755); err != nil {
		return false, errors.DirCreate(userRoot, err)
	}
	for _, dir := range Skeleton {
		path := filepath.Join(userRoot, dir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return true, errors.DirCreate(path, err)
		}
	}
	return true, nil
}

// Sync copies every regular file of bundledRoot/category into
// userRoot/category when it is missing there or its content differs.
func Sync(bundledRoot, userRoot, category string) (*SyncResult, error) {
	srcDir := filepath.Join(bundledRoot, category)
	dstDir := filepath.Join(userRoot, category)
	log := logging.With("category", category)

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("bundled scripts not found, skipping sync", "dir", srcDir)
			return &SyncResult{}, nil
		}
		return nil, errors.ScriptSync(srcDir, err)
	}

	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return nil, errors.DirCreate(dstDir, err)
	}

	result := &SyncResult{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		src := filepath.Join(srcDir, name)
		dst := filepath.Join(dstDir, name)

		same, err := fileutil.SameContent(src, dst)
		if err != nil {
			return result, errors.ScriptSync(name, err)
		}
		if same {
			result.Unchanged = append(result.Unchanged, name)
			continue
		}

		if err := fileutil.CopyFile(src, dst); err != nil {
			return result, errors.ScriptSync(name, err)
		}
		log.Debug("synced script", "name", name)
		result.Copied = append(result.Copied, name)
	}

	sort.Strings(result.Copied)
	sort.Strings(result.Unchanged)
	return result, nil
}
