package provision

import (
	"archive/tar"    // For reading .tar archives
	"archive/zip"    // For reading .zip archives
	"compress/bzip2" // For reading .bz2 compressed data
	"compress/gzip"  // For reading .gz compressed data
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip" // For reading .7z archives
	"github.com/xi2/xz"          // For reading .xz compressed data

	"vsat-setup/internal/logger"
)

// extractArchive unpacks the archive at src into the dest directory,
// routing to the right reader based on the file extension. The portable
// application ships as .7z and the assembly plugin as .zip, but tarballs
// are supported too so mirrors with repacked archives keep working.
func extractArchive(src, dest string) error {
	switch {
	case strings.HasSuffix(src, ".zip"):
		logger.Debug("[DEBUG] compression type is zip\n")
		return extractZip(src, dest)
	case strings.HasSuffix(src, ".7z"):
		logger.Debug("[DEBUG] compression type is .7z\n")
		return extract7z(src, dest)
	case strings.HasSuffix(src, ".tar"), strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"),
		strings.HasSuffix(src, ".tar.bz2"), strings.HasSuffix(src, ".tar.xz"):
		logger.Debug("[DEBUG] compression type is .tar.*\n")
		return extractTarArchive(src, dest)
	default:
		return fmt.Errorf("unsupported archive format: %s", src)
	}
}

// extractTarArchive handles tar and compressed tar variants.
func extractTarArchive(src, dest string) error {
	logger.Debug("[DEBUG] uncompressing %s to %s\n", src, dest)
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	switch {
	case strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(src, ".tar.bz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(src, ".tar.xz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break // End of archive
		}
		if err != nil {
			return err
		}

		target := filepath.Join(dest, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			outFile, err := os.Create(target)
			if err != nil {
				return err
			}
			if _, err := io.Copy(outFile, tr); err != nil {
				outFile.Close()
				return err
			}
			outFile.Close()
		}
	}
	return nil
}

// extractZip extracts a .zip archive.
func extractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		path := filepath.Join(dest, f.Name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		outFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			outFile.Close()
			return err
		}
		_, err = io.Copy(outFile, rc)
		rc.Close()
		outFile.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// extract7z handles .7z extraction using the sevenzip library, so no
// external 7z binary has to be present on the machine.
func extract7z(src, dest string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		path := filepath.Join(dest, f.Name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, f.Mode()); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		outFile, err := os.Create(path)
		if err != nil {
			rc.Close()
			return err
		}
		_, err = io.Copy(outFile, rc)
		rc.Close()
		outFile.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
