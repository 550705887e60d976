// Package config loads the download, archive and storage settings from file,
// environment and defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/avance-dl/avance/internal/utils"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Download DownloadConfig `mapstructure:"download"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// DownloadConfig holds the engine settings.
type DownloadConfig struct {
	ChunkSize                  int    `mapstructure:"chunk_size"`
	MaxWorkers                 int    `mapstructure:"max_workers"`
	MaxSegments                int    `mapstructure:"max_segments"`
	TimeoutSeconds             int    `mapstructure:"timeout_seconds"`
	RetryAttempts              int    `mapstructure:"retry_attempts"`
	MinFileSizeForSegmentation int64  `mapstructure:"min_file_size_for_segmentation"`
	KeepPartial                bool   `mapstructure:"keep_partial"`
	UserAgent                  string `mapstructure:"user_agent"`
	DefaultDestination         string `mapstructure:"default_destination"`
}

// ArchiveConfig holds archive collaborator settings.
type ArchiveConfig struct {
	CompressionLevel int `mapstructure:"compression_level"`
}

// StorageConfig holds storage-quota reporting settings.
type StorageConfig struct {
	WarnThresholdPercent int `mapstructure:"warn_threshold_percent"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Download: DownloadConfig{
			ChunkSize:                  utils.DefaultChunkSize,
			MaxWorkers:                 utils.DefaultWorkers,
			MaxSegments:                utils.DefaultSegments,
			TimeoutSeconds:             int(utils.DefaultTimeout.Seconds()),
			RetryAttempts:              utils.DefaultRetryAttempts,
			MinFileSizeForSegmentation: utils.DefaultMinSegmentSize,
			KeepPartial:                false,
			UserAgent:                  utils.ToolUserAgent,
			DefaultDestination:         ".",
		},
		Archive: ArchiveConfig{
			CompressionLevel: 6,
		},
		Storage: StorageConfig{
			WarnThresholdPercent: 90,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("avance")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.avance")
	}

	v.SetEnvPrefix("AVANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults + env vars
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.clamp()
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("download.chunk_size", defaults.Download.ChunkSize)
	v.SetDefault("download.max_workers", defaults.Download.MaxWorkers)
	v.SetDefault("download.max_segments", defaults.Download.MaxSegments)
	v.SetDefault("download.timeout_seconds", defaults.Download.TimeoutSeconds)
	v.SetDefault("download.retry_attempts", defaults.Download.RetryAttempts)
	v.SetDefault("download.min_file_size_for_segmentation", defaults.Download.MinFileSizeForSegmentation)
	v.SetDefault("download.keep_partial", defaults.Download.KeepPartial)
	v.SetDefault("download.user_agent", defaults.Download.UserAgent)
	v.SetDefault("download.default_destination", defaults.Download.DefaultDestination)
	v.SetDefault("archive.compression_level", defaults.Archive.CompressionLevel)
	v.SetDefault("storage.warn_threshold_percent", defaults.Storage.WarnThresholdPercent)
}

// clamp keeps user-supplied values inside supported bounds.
func (c *Config) clamp() {
	if c.Download.MaxSegments < utils.MinSegments {
		c.Download.MaxSegments = utils.MinSegments
	}
	if c.Download.MaxSegments > utils.MaxSegments {
		c.Download.MaxSegments = utils.MaxSegments
	}
	if c.Download.MaxWorkers <= 0 {
		c.Download.MaxWorkers = utils.DefaultWorkers
	}
	if c.Download.ChunkSize <= 0 {
		c.Download.ChunkSize = utils.DefaultChunkSize
	}
	if c.Download.RetryAttempts < 0 {
		c.Download.RetryAttempts = utils.DefaultRetryAttempts
	}
	if c.Download.MinFileSizeForSegmentation <= 0 {
		c.Download.MinFileSizeForSegmentation = utils.DefaultMinSegmentSize
	}
}
