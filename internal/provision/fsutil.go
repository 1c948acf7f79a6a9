package provision

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// dirExists reports whether path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// clearDir removes path if present and recreates it empty, so a staging
// directory never carries leftovers from an earlier aborted run.
func clearDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to clear %s: %w", path, err)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

// archiveRoot returns the single top-level directory inside a staging
// directory. The portable archives this tool consumes wrap their content
// in exactly one directory; anything else means the archive is not what we
// expect and installing an arbitrary entry would be wrong, so it is
// reported as ErrArchiveRoot instead of silently picking one.
func archiveRoot(staging string) (string, error) {
	entries, err := os.ReadDir(staging)
	if err != nil {
		return "", err
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return "", fmt.Errorf("%w: found %d entries in %s", ErrArchiveRoot, len(entries), staging)
	}
	return filepath.Join(staging, entries[0].Name()), nil
}

// copyTree copies the contents of src into dst recursively, creating
// directories as needed and overwriting existing files. The overwrite is
// destructive on purpose: installing over a stale tree must leave the
// current source's contents in place.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

// copyFile copies a single file from src to dst, preserving the source's
// permission bits and creating any missing parent directories.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	defer func() {
		cerr := out.Close()
		if err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}

	if stat, err2 := os.Stat(src); err2 == nil {
		err = os.Chmod(dst, stat.Mode())
	}
	return err
}
