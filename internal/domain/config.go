package domain

// Config represents the application configuration
type Config struct {
	Download DownloadConfig `mapstructure:"download"`
	History  HistoryConfig  `mapstructure:"history"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DownloadConfig contains engine and output related configuration
type DownloadConfig struct {
	BaseDir     string `mapstructure:"base_dir"`     // all output is confined below this
	LogsDir     string `mapstructure:"logs_dir"`     // raw engine output logs
	YTDLPBinary string `mapstructure:"ytdlp_binary"` // extraction engine; ffmpeg is driven by it
	CookieFile  string `mapstructure:"cookie_file"`  // static cookie file, used when present

	Retries             int      `mapstructure:"retries"`
	FragmentRetries     int      `mapstructure:"fragment_retries"`
	ConcurrentFragments int      `mapstructure:"concurrent_fragments"`
	RestrictFilenames   bool     `mapstructure:"restrict_filenames"`
	TrimFileName        int      `mapstructure:"trim_file_name"`
	UserAgent           string   `mapstructure:"user_agent"`
	PlayerClients       []string `mapstructure:"player_clients"`
	POToken             string   `mapstructure:"po_token"` // optional, also read from YTDLP_PO_TOKEN
}

// HistoryConfig contains the download history store configuration
type HistoryConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// ServerConfig contains the optional history API configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Download: DownloadConfig{
			BaseDir:             "$HOME/Downloads",
			LogsDir:             "$HOME/.ripbox/logs",
			YTDLPBinary:         "yt-dlp",
			CookieFile:          "cookies.txt",
			Retries:             10,
			FragmentRetries:     10,
			ConcurrentFragments: 4,
			RestrictFilenames:   true,
			TrimFileName:        200,
			UserAgent:           "Mozilla/5.0",
			PlayerClients:       []string{"tv", "mweb", "tv_embedded"},
		},
		History: HistoryConfig{
			DatabasePath: "$HOME/.ripbox/history.db",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
