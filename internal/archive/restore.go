package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/anchore/anchore-ctl/internal/errors"
	"github.com/anchore/anchore-ctl/internal/logging"
)

// RestoreFile extracts the archive at archivePath under destRoot.
// destRoot is checked before archivePath.
func RestoreFile(destRoot, archivePath string) (string, error) {
	if err := checkDestination(destRoot); err != nil {
		return "", err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.SourceMissing(archivePath)
		}
		return "", errors.ArchiveRead(fmt.Sprintf("failed to open %s", archivePath), err)
	}
	defer f.Close()

	logging.Debug("restoring backup", "source", archivePath, "root", destRoot)
	return extract(destRoot, f)
}

// Restore extracts the archive read from r under destRoot. Nothing is read
// from r when destRoot does not exist.
func Restore(destRoot string, r io.Reader) (string, error) {
	if err := checkDestination(destRoot); err != nil {
		return "", err
	}
	logging.Debug("restoring backup from stream", "root", destRoot)
	return extract(destRoot, r)
}

func checkDestination(destRoot string) error {
	info, err := os.Stat(destRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.DestinationMissing(destRoot)
		}
		return errors.Wrap(errors.KindDestinationMissing, fmt.Sprintf("cannot access destination %s", destRoot), err)
	}
	if !info.IsDir() {
		return errors.New(errors.KindDestinationMissing, fmt.Sprintf("destination is not a directory: %s", destRoot))
	}
	return nil
}

type dirMeta struct {
	path    string
	mode    os.FileMode
	modTime time.Time
}

func extract(destRoot string, r io.Reader) (string, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return "", errors.ArchiveRead("failed to open gzip stream", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	var dirs []dirMeta

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.ArchiveRead("failed to read archive entry", err)
		}

		target, err := entryTarget(destRoot, header.Name)
		if err != nil {
			return "", err
		}
		if target == "" {
			continue
		}

		mode := header.FileInfo().Mode()
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", errors.ArchiveRead(fmt.Sprintf("failed to create %s", target), err)
			}
			dirs = append(dirs, dirMeta{path: target, mode: mode.Perm(), modTime: header.ModTime})

		case tar.TypeReg:
			if err := writeEntry(target, tr, mode.Perm(), header.ModTime); err != nil {
				return "", errors.ArchiveRead(fmt.Sprintf("failed to extract %s", header.Name), err)
			}

		case tar.TypeSymlink:
			if err := replaceWith(target, func() error {
				return os.Symlink(header.Linkname, target)
			}); err != nil {
				return "", errors.ArchiveRead(fmt.Sprintf("failed to link %s", header.Name), err)
			}

		case tar.TypeLink:
			source, err := entryTarget(destRoot, header.Linkname)
			if err != nil {
				return "", err
			}
			if err := replaceWith(target, func() error {
				return os.Link(source, target)
			}); err != nil {
				return "", errors.ArchiveRead(fmt.Sprintf("failed to link %s", header.Name), err)
			}

		default:
			logging.Debug("skipping unsupported archive entry", "name", header.Name, "type", string(header.Typeflag))
		}
	}

	// Directory metadata goes last so extraction into them is not blocked
	// and their times are not bumped by later writes.
	for i := len(dirs) - 1; i >= 0; i-- {
		d := dirs[i]
		if err := os.Chmod(d.path, d.mode); err != nil {
			return "", errors.ArchiveRead(fmt.Sprintf("failed to set mode on %s", d.path), err)
		}
		if err := os.Chtimes(d.path, d.modTime, d.modTime); err != nil {
			return "", errors.ArchiveRead(fmt.Sprintf("failed to set times on %s", d.path), err)
		}
	}

	return destRoot, nil
}

// entryTarget maps an entry name to a path under destRoot. Symlinks in the
// parent chain are resolved within destRoot; the final element is not
// followed. An empty result means the entry names the root itself.
func entryTarget(destRoot, name string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(name))
	if clean == "/" {
		return "", nil
	}

	parent, err := securejoin.SecureJoin(destRoot, filepath.FromSlash(path.Dir(clean)))
	if err != nil {
		return "", errors.ArchiveRead(fmt.Sprintf("invalid path in archive: %s", name), err)
	}
	return filepath.Join(parent, path.Base(clean)), nil
}

func writeEntry(target string, r io.Reader, mode os.FileMode, modTime time.Time) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if info, err := os.Lstat(target); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(target); err != nil {
			return err
		}
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(target, mode); err != nil {
		return err
	}
	return os.Chtimes(target, modTime, modTime)
}

// replaceWith removes whatever non-directory sits at target and runs create.
func replaceWith(target string, create func() error) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if info, err := os.Lstat(target); err == nil && !info.IsDir() {
		if err := os.Remove(target); err != nil {
			return err
		}
	}
	return create()
}
