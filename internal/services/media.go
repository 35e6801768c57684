package services

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bran921007/Import-CSV-on-zip-file/internal/infrastructure/storage"
	"github.com/bran921007/Import-CSV-on-zip-file/internal/models"
)

// MediaAssociator matches extracted images to the workspaces an import
// touched and uploads each match. A workspace keeps at most one image;
// an existing one is never replaced.
type MediaAssociator struct {
	files      storage.FileManager
	uploadPath string
	logger     *logrus.Entry
}

func NewMediaAssociator(files storage.FileManager, uploadPath string, logger *logrus.Entry) *MediaAssociator {
	return &MediaAssociator{files: files, uploadPath: uploadPath, logger: logger}
}

// Run associates images with the workspaces in processed. Failures here
// are per-image: they produce notifications, never an abort, except for
// query errors inside tx which poison the whole transaction anyway.
func (m *MediaAssociator) Run(tx *gorm.DB, images []string, processed map[string][]uint) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}

	var ids []uint
	for _, centreIDs := range processed {
		ids = append(ids, centreIDs...)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var workspaces []models.WorkSpace
	if err := tx.Where("id IN ?", ids).Find(&workspaces).Error; err != nil {
		return nil, fmt.Errorf("failed to load processed workspaces: %w", err)
	}

	var notifications []string
	for _, image := range images {
		ext := filepath.Ext(image)
		filename := strings.TrimSuffix(filepath.Base(image), ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		mimeType := detectMime(image)
		fileSlug := Slugify(filename)

		for i := range workspaces {
			workspace := &workspaces[i]
			officeSlug := Slugify(workspace.OfficeNumber)
			if officeSlug == "" || !strings.Contains(fileSlug, officeSlug) {
				continue
			}

			ok, err := m.hasMedia(tx, workspace.ID)
			if err != nil {
				return notifications, err
			}
			if ok {
				continue
			}

			url, err := m.files.Upload(image, filename+ext, mimeType, m.uploadPath)
			if err != nil {
				m.logger.WithError(err).Warnf("upload of %s failed", filename)
				notifications = append(notifications, mediaFailure(filename, workspace.ID))
				continue
			}

			media := models.WorkSpaceMedia{
				WorkspaceID: workspace.ID,
				Name:        filename,
				Type:        mimeType,
				URL:         url,
			}
			if err := tx.Create(&media).Error; err != nil {
				m.logger.WithError(err).Warnf("media record for %s not saved", filename)
				notifications = append(notifications, mediaFailure(filename, workspace.ID))
			}
		}
	}

	return notifications, nil
}

func (m *MediaAssociator) hasMedia(tx *gorm.DB, workspaceID uint) (bool, error) {
	var media models.WorkSpaceMedia
	err := tx.Where("workspace_id = ?", workspaceID).First(&media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up media of workspace %d: %w", workspaceID, err)
	}
	return true, nil
}

func mediaFailure(filename string, workspaceID uint) string {
	return "Media " + filename + " for office " + strconv.FormatUint(uint64(workspaceID), 10) + " was not saved."
}

// detectMime sniffs the file content, falling back to image/jpeg when
// the content is unrecognizable.
func detectMime(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "image/jpeg"
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "image/jpeg"
	}

	mimeType := http.DetectContentType(buf[:n])
	if mimeType == "application/octet-stream" {
		return "image/jpeg"
	}
	return mimeType
}
