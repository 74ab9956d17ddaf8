// Package fileutil holds small streaming file helpers shared by the config
// bootstrap and the script sync.
package fileutil

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
)

const compareChunk = 32 * 1024

// CopyFile streams src to dst, keeping the permission bits of src.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return CopyFileMode(src, dst, info.Mode().Perm())
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
// An existing dst is truncated.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	return writeFrom(in, dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
}

// CopyFSFileNoClobber copies name from fsys to dst unless dst already exists.
// It reports whether a copy happened.
func CopyFSFileNoClobber(fsys fs.FS, name, dst string, mode os.FileMode) (bool, error) {
	in, err := fsys.Open(name)
	if err != nil {
		return false, err
	}
	defer in.Close()

	err = writeFrom(in, dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func writeFrom(r io.Reader, dst string, flag int, mode os.FileMode) error {
	out, err := os.OpenFile(dst, flag, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return err
	}
	return out.Close()
}

// SameContent reports whether a and b hold identical bytes. A missing b is
// not an error; it reports false.
func SameContent(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := os.Stat(b)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !infoB.Mode().IsRegular() || infoA.Size() != infoB.Size() {
		return false, nil
	}

	fa, err := os.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()
	fb, err := os.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	bufA := make([]byte, compareChunk)
	bufB := make([]byte, compareChunk)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		doneA := errA == io.EOF || errors.Is(errA, io.ErrUnexpectedEOF)
		doneB := errB == io.EOF || errors.Is(errB, io.ErrUnexpectedEOF)
		if errA != nil && !doneA {
			return false, errA
		}
		if errB != nil && !doneB {
			return false, errB
		}
		if doneA || doneB {
			return doneA && doneB, nil
		}
	}
}
