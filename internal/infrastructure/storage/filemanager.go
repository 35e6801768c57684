package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// FileManager uploads a local file to remote storage and returns its
// public URL. Implementations may fail per file; callers decide whether
// that aborts anything.
type FileManager interface {
	Upload(localPath, name, mimeType, destPath string) (string, error)
}

// DiskFileManager stores uploads on the local filesystem and serves them
// from a base URL. It stands in for the object-storage backend in
// development and tests.
type DiskFileManager struct {
	BaseDir string
	BaseURL string
}

func NewDiskFileManager(baseDir, baseURL string) *DiskFileManager {
	return &DiskFileManager{BaseDir: baseDir, BaseURL: baseURL}
}

func (d *DiskFileManager) Upload(localPath, name, mimeType, destPath string) (string, error) {
	targetDir := filepath.Join(d.BaseDir, filepath.FromSlash(destPath))
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer src.Close()

	target := filepath.Join(targetDir, name)
	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy %s: %w", localPath, err)
	}

	return d.BaseURL + "/" + path.Join(destPath, name), nil
}
