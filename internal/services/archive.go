package services

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Tabular data and image extensions recognized inside an import archive.
var (
	CsvExtensions   = []string{"csv"}
	ImageExtensions = []string{"jpg", "jpeg", "png", "bmp"}
)

// FetchArchive downloads the zip at url, extracts it into a fresh working
// directory and returns that directory. The downloaded archive itself is
// removed whether or not extraction succeeds; the working directory is
// the caller's to clean up.
func FetchArchive(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download archive: unexpected status %s", resp.Status)
	}

	token := uuid.NewString()
	archivePath := filepath.Join(os.TempDir(), token+"_csvfile.zip")
	archive, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create temp archive: %w", err)
	}
	defer os.Remove(archivePath)

	_, err = io.Copy(archive, resp.Body)
	if closeErr := archive.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to store archive: %w", err)
	}

	workDir := filepath.Join(os.TempDir(), "unzip", token)
	if err := extractZip(archivePath, workDir); err != nil {
		os.RemoveAll(workDir)
		return "", fmt.Errorf("failed to extract archive: %w", err)
	}

	return workDir, nil
}

func extractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	for _, entry := range reader.File {
		target := filepath.Join(destDir, filepath.FromSlash(entry.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal entry path %q", entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractEntry(entry, target); err != nil {
			return err
		}
	}

	return nil
}

func extractEntry(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	return err
}

// FindFiles walks root and returns every file whose extension is in exts
// (compared without the dot, case-insensitively), in lexical walk order.
func FindFiles(root string, exts []string) ([]string, error) {
	wanted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if _, ok := wanted[ext]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return files, nil
}
