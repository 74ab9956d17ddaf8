package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anchore/anchore-ctl/internal/config"
	"github.com/anchore/anchore-ctl/internal/errors"
	"github.com/anchore/anchore-ctl/internal/logging"
)

const (
	filePrefix      = "anchore-backup-"
	fileSuffix      = ".tar.gz"
	timestampLayout = "2006-01-02-15-04-05"
)

// Manager produces backups of the trees named by a resolved configuration.
type Manager struct {
	DataDir    string
	ImageStore string
	ConfigDir  string

	// Now returns the time embedded in archive names. Defaults to time.Now.
	Now func() time.Time
}

// NewManager returns a Manager for the resolved paths of cfg.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		DataDir:    cfg.DataDir,
		ImageStore: cfg.ImageDataStore,
		ConfigDir:  cfg.ConfigDir,
	}
}

// FileName returns the archive file name for t. It contains no colons.
func FileName(t time.Time) string {
	return filePrefix + t.Format(timestampLayout) + fileSuffix
}

// Roots returns the absolute trees a backup contains: the data directory,
// then the image store and config directory unless another root already
// covers them.
func (m *Manager) Roots() ([]string, error) {
	if m.DataDir == "" {
		return nil, errors.ArchiveWrite("no data directory configured", nil)
	}

	var roots []string
	for _, p := range []string{m.DataDir, m.ImageStore, m.ConfigDir} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.ArchiveWrite(fmt.Sprintf("cannot resolve %s", p), err)
		}

		covered := false
		for _, r := range roots {
			if isWithin(r, abs) {
				covered = true
				break
			}
		}
		if covered {
			continue
		}

		kept := roots[:0]
		for _, r := range roots {
			if !isWithin(abs, r) {
				kept = append(kept, r)
			}
		}
		roots = append(kept, abs)
	}
	return roots, nil
}

// Backup writes a new archive into destDir and returns its path. An archive
// of the same name is never overwritten. A failed backup leaves no file.
func (m *Manager) Backup(destDir string) (string, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	roots, err := m.Roots()
	if err != nil {
		return "", err
	}

	archivePath := filepath.Join(destDir, FileName(now()))
	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return "", errors.ArchiveWrite(fmt.Sprintf("cannot resolve %s", archivePath), err)
	}

	f, err := os.OpenFile(archivePath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return "", errors.ArchiveWrite(fmt.Sprintf("failed to create archive %s", archivePath), err)
	}

	logging.Debug("writing backup", "path", archivePath, "roots", roots)
	if err := writeArchive(f, roots, absArchive); err != nil {
		f.Close()
		os.Remove(archivePath)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(archivePath)
		return "", errors.ArchiveWrite(fmt.Sprintf("failed to close archive %s", archivePath), err)
	}

	return archivePath, nil
}

func writeArchive(w io.Writer, roots []string, skip string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	for _, root := range roots {
		if err := addTree(tw, root, skip); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return errors.ArchiveWrite("failed to finish tar stream", err)
	}
	if err := gz.Close(); err != nil {
		return errors.ArchiveWrite("failed to finish gzip stream", err)
	}
	return nil
}

// addTree streams root and everything below it into tw.
func addTree(tw *tar.Writer, root, skip string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.ArchiveWrite(fmt.Sprintf("failed to read %s", path), err)
		}
		if path == skip {
			return nil
		}

		name := entryName(path)
		if name == "" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return errors.ArchiveWrite(fmt.Sprintf("failed to stat %s", path), err)
		}
		if info.Mode()&fs.ModeSocket != 0 {
			logging.Debug("skipping socket", "path", path)
			return nil
		}

		var link string
		if info.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return errors.ArchiveWrite(fmt.Sprintf("failed to read link %s", path), err)
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return errors.ArchiveWrite(fmt.Sprintf("failed to build header for %s", path), err)
		}
		header.Name = name
		if info.IsDir() {
			header.Name += "/"
		}

		if err := tw.WriteHeader(header); err != nil {
			return errors.ArchiveWrite(fmt.Sprintf("failed to write header for %s", path), err)
		}

		if info.Mode().IsRegular() {
			if err := copyInto(tw, path); err != nil {
				return errors.ArchiveWrite(fmt.Sprintf("failed to archive %s", path), err)
			}
		}
		return nil
	})
}

func copyInto(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// entryName maps an absolute path to its archive entry name.
func entryName(path string) string {
	name := filepath.ToSlash(path)
	if vol := filepath.VolumeName(path); vol != "" {
		name = strings.TrimPrefix(name, filepath.ToSlash(vol))
	}
	return strings.TrimLeft(name, "/")
}

// isWithin reports whether child is parent or lies below it.
func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
