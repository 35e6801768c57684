package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bran921007/Import-CSV-on-zip-file/internal/models"
)

// ErrRowsFailed escalates per-row persistence failures to a run abort
// once every file has been processed.
var ErrRowsFailed = errors.New("some offices could not be processed")

// Reconciler upserts workspaces from CSV rows and disables the ones a
// centre no longer lists.
type Reconciler struct {
	typeLabels []string
	logger     *logrus.Entry
}

func NewReconciler(typeLabels []string, logger *logrus.Entry) *Reconciler {
	return &Reconciler{typeLabels: typeLabels, logger: logger}
}

// ReconcileResult carries what a run accumulated: the per-centre set of
// workspace IDs seen in the files, and the row-level notifications.
type ReconcileResult struct {
	Notifications []string
	Processed     map[string][]uint
}

// Run processes every CSV file in order inside tx. Row-level problems
// (unknown centre, failed save) become notifications; a non-zero count
// of failed saves aborts the run with ErrRowsFailed after the loop, so
// the disable pass only ever runs on a fully persisted batch.
func (r *Reconciler) Run(tx *gorm.DB, csvFiles []string) (*ReconcileResult, error) {
	result := &ReconcileResult{Processed: map[string][]uint{}}
	failed := 0

	for _, file := range csvFiles {
		records, err := readCsv(file)
		if err != nil {
			return result, err
		}

		for i, record := range records {
			// Ignore header
			if i == 0 {
				continue
			}

			row := NormalizeRow(record, r.typeLabels)

			var centre models.Office
			if err := tx.First(&centre, "id = ?", row.Reference).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					result.Notifications = append(result.Notifications,
						"There is no centre with ID #"+row.Reference+".")
					continue
				}
				return result, fmt.Errorf("failed to look up centre %s: %w", row.Reference, err)
			}

			workspace, err := r.findWorkspace(tx, row)
			if err != nil {
				return result, err
			}

			workspace.Type = row.Type
			workspace.Availability = row.Availability
			workspace.Description = row.Description
			workspace.DeskFrom = row.DeskFrom
			workspace.DeskTo = row.DeskTo
			workspace.Price = row.Price
			workspace.Currency = row.Currency
			workspace.Size = row.Size
			workspace.Status = true
			workspace.DispOnWeb = true

			if err := tx.Save(workspace).Error; err != nil {
				r.logger.WithError(err).Warnf("row %d of %s not saved", i, file)
				result.Notifications = append(result.Notifications,
					"Office "+row.OfficeNumber+" for center "+row.Reference+" was not saved.")
				failed++
			}

			result.Processed[row.Reference] = append(result.Processed[row.Reference], workspace.ID)
		}
	}

	if failed > 0 {
		return result, ErrRowsFailed
	}

	if err := r.disableMissing(tx, result.Processed); err != nil {
		return result, err
	}

	return result, nil
}

func (r *Reconciler) findWorkspace(tx *gorm.DB, row Row) (*models.WorkSpace, error) {
	var workspace models.WorkSpace
	err := tx.Where("office_id = ? AND office_number = ?", row.Reference, row.OfficeNumber).
		First(&workspace).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.WorkSpace{OfficeID: row.Reference, OfficeNumber: row.OfficeNumber}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up workspace %s/%s: %w", row.Reference, row.OfficeNumber, err)
	}
	return &workspace, nil
}

// disableMissing retires every workspace of an imported centre that was
// absent from the files, unless its exemption flag is set. Centres not
// present in the import are never touched.
func (r *Reconciler) disableMissing(tx *gorm.DB, processed map[string][]uint) error {
	for centreID, ids := range processed {
		seen := make(map[uint]struct{}, len(ids))
		for _, id := range ids {
			seen[id] = struct{}{}
		}

		var workspaces []models.WorkSpace
		if err := tx.Where("office_id = ?", centreID).Find(&workspaces).Error; err != nil {
			return fmt.Errorf("failed to list workspaces of centre %s: %w", centreID, err)
		}

		for i := range workspaces {
			workspace := &workspaces[i]
			if _, ok := seen[workspace.ID]; ok {
				continue
			}
			if workspace.RemUnchangedCSV {
				continue
			}

			workspace.Status = false
			workspace.DispOnWeb = false
			if err := tx.Save(workspace).Error; err != nil {
				return fmt.Errorf("failed to disable workspace %d: %w", workspace.ID, err)
			}
		}
	}

	return nil
}

func readCsv(file string) ([][]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	return records, nil
}
