package config

// DefaultPort is the port the server binds and the client dials when no
// override is given.
const DefaultPort = 12345

// Config holds server configuration values.
type Config struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	HistoryPath string `mapstructure:"history_path" yaml:"history_path"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:        ":12345",
		LogLevel:    "info",
		HistoryPath: "chat_history.log",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.HistoryPath != "" {
		c.HistoryPath = other.HistoryPath
	}
}
