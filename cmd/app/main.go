package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"github.com/bran921007/Import-CSV-on-zip-file/internal/config"
	"github.com/bran921007/Import-CSV-on-zip-file/internal/dependencies"
	"github.com/bran921007/Import-CSV-on-zip-file/internal/infrastructure/database"
	"github.com/bran921007/Import-CSV-on-zip-file/internal/infrastructure/rabbitmq"
	"github.com/bran921007/Import-CSV-on-zip-file/internal/infrastructure/storage"
	"github.com/bran921007/Import-CSV-on-zip-file/internal/logging"
	"github.com/bran921007/Import-CSV-on-zip-file/internal/models"
	"github.com/bran921007/Import-CSV-on-zip-file/internal/services"
)

// importRequest is the message dispatched onto the import queue.
type importRequest struct {
	ImportID uint `json:"import_id"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logrus.New()

	cfg, err := config.GetConfig()
	if err != nil {
		logging.LogFatal(logger, "Configuration loading error", err)
	}

	var db database.Database = &database.PostgresDatabase{}
	conn, err := db.Connect(cfg.DbDSN)
	if err != nil {
		logging.LogFatal(logger, "Database connection error", err)
	}
	if err := database.Migrate(conn); err != nil {
		logging.LogFatal(logger, "Database migration error", err)
	}

	rabbitChannel, rabbitConn, err := rabbitmq.SetupRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logging.LogFatal(logger, "RabbitMQ connection error", err)
	}

	notifier, err := rabbitmq.NewNotifier(rabbitChannel, cfg.NotificationQueue)
	if err != nil {
		logging.LogFatal(logger, "Notifier setup error", err)
	}

	msgs, err := rabbitmq.ConsumeImports(rabbitChannel, cfg.ImportQueue)
	if err != nil {
		logging.LogFatal(logger, "Import queue setup error", err)
	}

	deps := &dependencies.Dependencies{
		Logger:     logger,
		DB:         conn,
		Files:      storage.NewDiskFileManager(cfg.MediaStorageDir, cfg.MediaBaseURL),
		RabbitConn: rabbitConn,
		RabbitCh:   rabbitChannel,
	}

	pipeline := services.NewPipeline(deps, services.PipelineConfig{
		WorkspaceTypes:  cfg.WorkspaceTypes,
		MediaUploadPath: cfg.MediaUploadPath,
	}, notifier)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logging.LogInfo(logger, "Received shutdown signal, closing application...")
		cancel()
	}()

	logger.Println("Import worker is starting...")
	consume(ctx, logger, conn, pipeline, msgs)

	if err := rabbitmq.CloseRabbitMQ(rabbitChannel, rabbitConn); err != nil {
		logging.LogError(logger, "RabbitMQ shutdown error", err)
	}
	if err := db.Close(); err != nil {
		logging.LogError(logger, "Database shutdown error", err)
	}
	logging.LogInfo(logger, "Graceful shutdown completed successfully")
}

// consume runs one pipeline per queued request. Runs are sequential;
// the queue serializes concurrent imports.
func consume(ctx context.Context, logger *logrus.Logger, db *gorm.DB, pipeline *services.Pipeline, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var req importRequest
			if err := json.Unmarshal(msg.Body, &req); err != nil {
				logging.LogError(logger, "Malformed import request", err)
				_ = msg.Nack(false, false)
				continue
			}

			var imp models.UploadCsvImport
			if err := db.First(&imp, req.ImportID).Error; err != nil {
				logging.LogError(logger, "Unknown import request", err)
				_ = msg.Nack(false, false)
				continue
			}

			if err := pipeline.Run(&imp); err != nil {
				logging.LogError(logger, "Import run failed", err)
			}
			// The run already notified its outcome; requeueing would
			// replay a rolled-back batch forever.
			_ = msg.Ack(false)
		}
	}
}
