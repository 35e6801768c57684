package services

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bran921007/Import-CSV-on-zip-file/internal/dependencies"
	"github.com/bran921007/Import-CSV-on-zip-file/internal/logging"
	"github.com/bran921007/Import-CSV-on-zip-file/internal/models"
)

// Notifier receives the final notification list of an import run.
type Notifier interface {
	Emit(importID uint, notifications []string) error
}

// PipelineConfig is the slice of configuration the pipeline needs,
// injected at construction time.
type PipelineConfig struct {
	WorkspaceTypes  []string
	MediaUploadPath string
}

// Pipeline runs one CSV bulk import end to end: fetch and extract the
// archive, reconcile workspaces, attach images, then commit — or roll
// everything back on a fatal condition. Exactly one notification event
// is emitted per run, success or not.
type Pipeline struct {
	deps     *dependencies.Dependencies
	cfg      PipelineConfig
	notifier Notifier
}

func NewPipeline(deps *dependencies.Dependencies, cfg PipelineConfig, notifier Notifier) *Pipeline {
	return &Pipeline{deps: deps, cfg: cfg, notifier: notifier}
}

// Run executes the import described by imp. The returned error reports
// the fatal condition, if any; row-level problems only surface through
// the emitted notifications.
func (p *Pipeline) Run(imp *models.UploadCsvImport) error {
	logger := logging.ImportLogger(p.deps.Logger, imp.ID)

	notifications, err := p.execute(imp, logger)
	if err != nil {
		logger.WithError(err).Error("import run failed")
		notifications = append(notifications, "Something went wrong: "+err.Error())
	}

	if emitErr := p.notifier.Emit(imp.ID, dedupe(notifications)); emitErr != nil {
		logger.WithError(emitErr).Error("failed to emit import notifications")
	}

	return err
}

func (p *Pipeline) execute(imp *models.UploadCsvImport, logger *logrus.Entry) ([]string, error) {
	workDir, err := FetchArchive(imp.PublicURL())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.WithError(err).Warn("failed to remove working directory")
		}
	}()

	csvFiles, err := FindFiles(workDir, CsvExtensions)
	if err != nil {
		return nil, err
	}
	images, err := FindFiles(workDir, ImageExtensions)
	if err != nil {
		return nil, err
	}

	tx := p.deps.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	reconciler := NewReconciler(p.cfg.WorkspaceTypes, logger)
	recResult, err := reconciler.Run(tx, csvFiles)
	notifications := recResult.Notifications
	if err != nil {
		tx.Rollback()
		return notifications, err
	}

	associator := NewMediaAssociator(p.deps.Files, p.cfg.MediaUploadPath, logger)
	mediaNotifications, err := associator.Run(tx, images, recResult.Processed)
	notifications = append(notifications, mediaNotifications...)
	if err != nil {
		tx.Rollback()
		return notifications, err
	}

	if err := tx.Commit().Error; err != nil {
		return notifications, fmt.Errorf("failed to commit import: %w", err)
	}

	return notifications, nil
}

func dedupe(notifications []string) []string {
	seen := make(map[string]struct{}, len(notifications))
	out := make([]string, 0, len(notifications))
	for _, n := range notifications {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
