package app

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/ripbox-go/internal/domain"
	"github.com/yourusername/ripbox-go/internal/infrastructure"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.ripbox")
		v.AddConfigPath("/etc/ripbox")
	}

	v.SetEnvPrefix("RIPBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The engine token historically lives in YTDLP_PO_TOKEN
	_ = v.BindEnv("download.po_token", "RIPBOX_DOWNLOAD_PO_TOKEN", "YTDLP_PO_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.BaseDir = infrastructure.ExpandPath(config.Download.BaseDir)
	config.Download.LogsDir = infrastructure.ExpandPath(config.Download.LogsDir)
	config.Download.CookieFile = infrastructure.ExpandPath(config.Download.CookieFile)
	config.History.DatabasePath = infrastructure.ExpandPath(config.History.DatabasePath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = infrastructure.ExpandPath(config.Logging.OutputPath)
	}

	return config
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Download.BaseDir == "" {
		return fmt.Errorf("download base directory not configured")
	}

	if config.Download.YTDLPBinary == "" {
		return fmt.Errorf("engine binary not configured")
	}

	if config.Download.Retries < 0 || config.Download.FragmentRetries < 0 {
		return fmt.Errorf("retry counts cannot be negative")
	}

	if config.Download.ConcurrentFragments < 1 {
		return fmt.Errorf("concurrent fragments must be at least 1")
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}
