package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bran921007/Import-CSV-on-zip-file/internal/models"
)

const csvHeader = "Des;Availability;Type;Off Num;From;To;Price;Currency;Size (sq ft);Ref"

func writeCsv(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	content := csvHeader + "\n" + strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testReconciler() *Reconciler {
	return NewReconciler(testTypeLabels, logrus.New().WithField("import_id", 1))
}

func workspaceByNumber(t *testing.T, db *gorm.DB, centre, number string) models.WorkSpace {
	t.Helper()
	var workspace models.WorkSpace
	require.NoError(t, db.Where("office_id = ? AND office_number = ?", centre, number).First(&workspace).Error)
	return workspace
}

func TestReconcilerCreatesWorkspace(t *testing.T) {
	db := newTestDB(t)
	seedCentre(t, db, "P1")
	file := writeCsv(t, "Nice office;05/03/2024;Private Office;A1;1;4;1,200;£120;500;P1")

	result, err := testReconciler().Run(db, []string{file})
	require.NoError(t, err)
	assert.Empty(t, result.Notifications)
	require.Len(t, result.Processed["P1"], 1)

	workspace := workspaceByNumber(t, db, "P1", "A1")
	assert.Equal(t, "1200", workspace.Price)
	assert.Equal(t, "GBP", workspace.Currency)
	assert.Equal(t, "Nice office", workspace.Description)
	require.NotNil(t, workspace.Availability)
	assert.Equal(t, "2024-03-05", *workspace.Availability)
	require.NotNil(t, workspace.Type)
	assert.Equal(t, 0, *workspace.Type)
	assert.True(t, workspace.Status)
	assert.True(t, workspace.DispOnWeb)
}

func TestReconcilerUpdatesExistingWorkspace(t *testing.T) {
	db := newTestDB(t)
	seedCentre(t, db, "P1")

	first := writeCsv(t, "Old;;Private Office;A1;1;4;900;£;400;P1")
	_, err := testReconciler().Run(db, []string{first})
	require.NoError(t, err)

	second := writeCsv(t, "New;;Hot Desk;A1;2;6;1,500;€;450;P1")
	result, err := testReconciler().Run(db, []string{second})
	require.NoError(t, err)
	require.Len(t, result.Processed["P1"], 1)

	var count int64
	require.NoError(t, db.Model(&models.WorkSpace{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	workspace := workspaceByNumber(t, db, "P1", "A1")
	assert.Equal(t, "New", workspace.Description)
	assert.Equal(t, "1500", workspace.Price)
	assert.Equal(t, "EUR", workspace.Currency)
	require.NotNil(t, workspace.Type)
	assert.Equal(t, 2, *workspace.Type)
}

func TestReconcilerSkipsUnknownCentre(t *testing.T) {
	db := newTestDB(t)
	seedCentre(t, db, "P1")
	file := writeCsv(t,
		"Nice office;;Private Office;A1;1;4;1,200;£120;500;P1",
		"Ghost office;;Private Office;B1;1;4;800;£;300;P2",
	)

	result, err := testReconciler().Run(db, []string{file})
	require.NoError(t, err)
	assert.Contains(t, result.Notifications, "There is no centre with ID #P2.")

	var count int64
	require.NoError(t, db.Model(&models.WorkSpace{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.NotContains(t, result.Processed, "P2")
}

func TestReconcilerDisablesMissingWorkspaces(t *testing.T) {
	db := newTestDB(t)
	seedCentre(t, db, "P1")
	seedCentre(t, db, "P9")
	require.NoError(t, db.Create(&models.WorkSpace{
		OfficeID: "P1", OfficeNumber: "A2", Status: true, DispOnWeb: true,
	}).Error)
	require.NoError(t, db.Create(&models.WorkSpace{
		OfficeID: "P1", OfficeNumber: "A3", Status: true, DispOnWeb: true, RemUnchangedCSV: true,
	}).Error)
	require.NoError(t, db.Create(&models.WorkSpace{
		OfficeID: "P9", OfficeNumber: "Z1", Status: true, DispOnWeb: true,
	}).Error)

	file := writeCsv(t, "Nice office;;Private Office;A1;1;4;1,200;£;500;P1")
	_, err := testReconciler().Run(db, []string{file})
	require.NoError(t, err)

	retired := workspaceByNumber(t, db, "P1", "A2")
	assert.False(t, retired.Status)
	assert.False(t, retired.DispOnWeb)

	exempt := workspaceByNumber(t, db, "P1", "A3")
	assert.True(t, exempt.Status)
	assert.True(t, exempt.DispOnWeb)

	// Centres absent from the import are never touched.
	untouched := workspaceByNumber(t, db, "P9", "Z1")
	assert.True(t, untouched.Status)
	assert.True(t, untouched.DispOnWeb)
}

func TestReconcilerEscalatesRowFailures(t *testing.T) {
	db := newTestDB(t)
	seedCentre(t, db, "P1")
	require.NoError(t, db.Create(&models.WorkSpace{
		OfficeID: "P1", OfficeNumber: "A2", Status: true, DispOnWeb: true,
	}).Error)
	require.NoError(t, db.Exec(`CREATE TRIGGER block_bad BEFORE INSERT ON work_spaces
		WHEN NEW.office_number = 'BAD' BEGIN SELECT RAISE(ABORT, 'blocked'); END`).Error)

	file := writeCsv(t,
		"Good;;Private Office;A1;1;4;1,200;£;500;P1",
		"Bad;;Private Office;BAD;1;4;900;£;400;P1",
	)

	result, err := testReconciler().Run(db, []string{file})
	require.ErrorIs(t, err, ErrRowsFailed)
	assert.Contains(t, result.Notifications, "Office BAD for center P1 was not saved.")

	// The disable pass never ran: the stale workspace is still active.
	stale := workspaceByNumber(t, db, "P1", "A2")
	assert.True(t, stale.Status)
}
