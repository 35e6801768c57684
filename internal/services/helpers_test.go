package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bran921007/Import-CSV-on-zip-file/internal/models"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "import.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Office{},
		&models.WorkSpace{},
		&models.WorkSpaceMedia{},
		&models.UploadCsvImport{},
	))

	return db
}

func seedCentre(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Office{ID: id, Name: gofakeit.Company()}).Error)
}

// buildZip assembles an in-memory archive from name -> content pairs.
func buildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func serveZip(t *testing.T, archive []byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(archive)
	}))
	t.Cleanup(srv.Close)

	return srv
}

type fakeFileManager struct {
	uploads []string
	fail    bool
}

func (f *fakeFileManager) Upload(localPath, name, mimeType, destPath string) (string, error) {
	if f.fail {
		return "", errors.New("upload rejected")
	}
	f.uploads = append(f.uploads, name)
	return "https://cdn.example.com/" + destPath + "/" + name, nil
}

type fakeNotifier struct {
	importID      uint
	notifications []string
	emits         int
}

func (f *fakeNotifier) Emit(importID uint, notifications []string) error {
	f.emits++
	f.importID = importID
	f.notifications = notifications
	return nil
}
