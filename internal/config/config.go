package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the agent.
type Config struct {
	Agent     AgentConfig     `yaml:"agent"`
	Server    ServerConfig    `yaml:"server"`
	Channels  ChannelsConfig  `yaml:"channels"`
	Weather   WeatherConfig   `yaml:"weather"`
	News      NewsConfig      `yaml:"news"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AgentConfig defines agent identity and conversation limits
type AgentConfig struct {
	Name            string `yaml:"name"`
	Version         string `yaml:"version"`
	MaxHistory      int    `yaml:"max_history"`
	DefaultLocation string `yaml:"default_location"`
}

// ServerConfig defines HTTP server settings
type ServerConfig struct {
	Host             string   `yaml:"host"`
	Port             int      `yaml:"port"`
	Debug            bool     `yaml:"debug"`
	CORSOrigins      []string `yaml:"cors_origins"`
	MaxMessageLength int      `yaml:"max_message_length"`
}

// ChannelsConfig defines channel configurations
type ChannelsConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Discord  DiscordConfig  `yaml:"discord"`
	WebChat  WebChatConfig  `yaml:"webchat"`
}

// TelegramConfig defines Telegram channel settings
type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

// DiscordConfig defines Discord channel settings
type DiscordConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

// WebChatConfig defines the websocket chat endpoint settings
type WebChatConfig struct {
	Enabled bool `yaml:"enabled"`
}

// WeatherConfig defines weather provider settings
type WeatherConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	FallbackURL string `yaml:"fallback_url"`
	Timeout     string `yaml:"timeout"`
}

// GetTimeout returns the per-source timeout as a time.Duration
func (w *WeatherConfig) GetTimeout() time.Duration {
	if w.Timeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(w.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// NewsConfig defines news provider settings
type NewsConfig struct {
	APIKey     string              `yaml:"api_key"`
	BaseURL    string              `yaml:"base_url"`
	SearchURL  string              `yaml:"search_url"`
	Timeout    string              `yaml:"timeout"`
	LocalFeeds map[string][]string `yaml:"local_feeds,omitempty"`
	Feeds      []string            `yaml:"feeds,omitempty"`
}

// GetTimeout returns the per-feed timeout as a time.Duration
func (n *NewsConfig) GetTimeout() time.Duration {
	if n.Timeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(n.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// SchedulerConfig defines maintenance scheduler settings
type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval"`
}

// LoggingConfig defines logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with the documented defaults, so the
// binary runs without a config file.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:            "AI Assistant",
			Version:         "2.0.0",
			MaxHistory:      1000,
			DefaultLocation: "Queens,NY,US",
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			CORSOrigins:      []string{"*"},
			MaxMessageLength: 5000,
		},
		Channels: ChannelsConfig{
			WebChat: WebChatConfig{Enabled: true},
		},
		Weather: WeatherConfig{
			BaseURL:     "https://api.openweathermap.org/data/2.5/weather",
			FallbackURL: "https://api.open-meteo.com/v1/forecast",
			Timeout:     "5s",
		},
		News: NewsConfig{
			BaseURL:   "https://newsapi.org/v2/top-headlines",
			SearchURL: "https://newsapi.org/v2/everything",
			Timeout:   "5s",
			LocalFeeds: map[string][]string{
				"new york": {
					"https://www.ny1.com/nyc/all-boroughs/rss.xml",
					"https://www.nydailynews.com/arc/outboundfeeds/rss/",
				},
				"ny": {
					"https://www.ny1.com/nyc/all-boroughs/rss.xml",
					"https://www.nydailynews.com/arc/outboundfeeds/rss/",
				},
			},
			Feeds: []string{
				"https://feeds.bbci.co.uk/news/rss.xml",
				"https://rss.cnn.com/rss/edition.rss",
				"https://feeds.npr.org/1001/rss.xml",
			},
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Interval: "1m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file with environment variable
// overrides. An empty path yields the defaults (still env-overridable).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (c *Config) applyEnvOverrides() {
	if name := os.Getenv("AGENT_NAME"); name != "" {
		c.Agent.Name = name
	}
	if version := os.Getenv("AGENT_VERSION"); version != "" {
		c.Agent.Version = version
	}
	if v := os.Getenv("MAX_CONVERSATION_HISTORY"); v != "" {
		fmt.Sscanf(v, "%d", &c.Agent.MaxHistory)
	}
	if host := os.Getenv("WEB_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("WEB_PORT"); port != "" {
		fmt.Sscanf(port, "%d", &c.Server.Port)
	}
	if v := os.Getenv("MAX_MESSAGE_LENGTH"); v != "" {
		fmt.Sscanf(v, "%d", &c.Server.MaxMessageLength)
	}
	if v := os.Getenv("DEBUG"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			c.Server.Debug = true
		}
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		c.Server.CORSOrigins = c.Server.CORSOrigins[:0]
		for _, p := range parts {
			c.Server.CORSOrigins = append(c.Server.CORSOrigins, strings.TrimSpace(p))
		}
	}
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		c.Weather.APIKey = key
	}
	if key := os.Getenv("NEWS_API_KEY"); key != "" {
		c.News.APIKey = key
	}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		c.Channels.Telegram.Token = token
	}
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		c.Channels.Discord.Token = token
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxMessageLength < 1 {
		return fmt.Errorf("invalid max message length: %d", c.Server.MaxMessageLength)
	}
	if c.Agent.MaxHistory < 1 {
		return fmt.Errorf("invalid max history: %d", c.Agent.MaxHistory)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Channels.Telegram.Enabled && c.Channels.Telegram.Token == "" {
		return fmt.Errorf("telegram channel enabled but no token configured")
	}
	if c.Channels.Discord.Enabled && c.Channels.Discord.Token == "" {
		return fmt.Errorf("discord channel enabled but no token configured")
	}
	return nil
}
