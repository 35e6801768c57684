package services

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchArchiveExtractsContents(t *testing.T) {
	archive := buildZip(t, map[string][]byte{
		"listings/offices.csv":  []byte("Des;Availability;Type;Off Num;From;To;Price;Currency;Size (sq ft);Ref\n"),
		"images/office-a1.png":  pngSignature,
		"images/notes/read.txt": []byte("ignore me"),
	})
	srv := serveZip(t, archive)

	workDir, err := FetchArchive(srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(workDir) })

	csvFiles, err := FindFiles(workDir, CsvExtensions)
	require.NoError(t, err)
	require.Len(t, csvFiles, 1)
	assert.Equal(t, "offices.csv", filepath.Base(csvFiles[0]))

	images, err := FindFiles(workDir, ImageExtensions)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "office-a1.png", filepath.Base(images[0]))
}

func TestFetchArchiveRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	_, err := FetchArchive(srv.URL)
	assert.Error(t, err)
}

func TestFetchArchiveRejectsCorruptArchive(t *testing.T) {
	srv := serveZip(t, []byte("this is not a zip"))

	_, err := FetchArchive(srv.URL)
	assert.Error(t, err)
}

func TestFindFilesDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	for _, name := range []string{"b.csv", "a.csv", filepath.Join("sub", "c.csv"), "skip.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644))
	}

	files, err := FindFiles(root, CsvExtensions)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"a.csv", "b.csv", "c.csv"}, names)
}
