package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Config is the full configuration surface of the import worker. The
// pipeline never reads configuration ambiently; the values it needs are
// handed to it at construction time.
type Config struct {
	DbDSN             string
	RabbitMQURL       string
	ImportQueue       string
	NotificationQueue string

	// WorkspaceTypes is the ordered list of workspace type labels; a CSV
	// row's Type column is resolved to its index in this list.
	WorkspaceTypes []string

	// MediaUploadPath is the destination path handed to the file manager
	// for every uploaded workspace image.
	MediaUploadPath string
	MediaStorageDir string
	MediaBaseURL    string
}

var defaultWorkspaceTypes = []string{
	"Private Office",
	"Shared Office",
	"Dedicated Desk",
	"Hot Desk",
	"Virtual Office",
	"Meeting Room",
}

var once sync.Once
var config *Config
var loadErr error

func GetConfig() (*Config, error) {
	once.Do(func() {
		config, loadErr = loadConfig()
	})
	return config, loadErr
}

func loadConfig() (*Config, error) {
	_, filename, _, _ := runtime.Caller(0)
	projectDir := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	viper.SetConfigFile(filepath.Join(projectDir, ".env"))
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Running from environment variables alone is fine.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.SetDefault("IMPORT_QUEUE", "csv_import_queue")
	viper.SetDefault("NOTIFICATION_QUEUE", "import_notifications")
	viper.SetDefault("MEDIA_UPLOAD_PATH", "workspaces/media/zip")
	viper.SetDefault("MEDIA_STORAGE_DIR", "storage/media")
	viper.SetDefault("MEDIA_BASE_URL", "http://localhost/media")

	cfg := &Config{
		DbDSN:             viper.GetString("DB_DSN"),
		RabbitMQURL:       viper.GetString("RABBITMQ_URL"),
		ImportQueue:       viper.GetString("IMPORT_QUEUE"),
		NotificationQueue: viper.GetString("NOTIFICATION_QUEUE"),
		WorkspaceTypes:    splitList(viper.GetString("WORKSPACE_TYPES")),
		MediaUploadPath:   viper.GetString("MEDIA_UPLOAD_PATH"),
		MediaStorageDir:   viper.GetString("MEDIA_STORAGE_DIR"),
		MediaBaseURL:      viper.GetString("MEDIA_BASE_URL"),
	}

	if len(cfg.WorkspaceTypes) == 0 {
		cfg.WorkspaceTypes = defaultWorkspaceTypes
	}

	if cfg.DbDSN == "" || cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("required environment variables are missing")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
