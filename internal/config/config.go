package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Feed   FeedConfig   `yaml:"feed"`
	Poll   PollConfig   `yaml:"poll"`
	LLM    LLMConfig    `yaml:"llm"`
	Speech SpeechConfig `yaml:"speech"`
	Mail   MailConfig   `yaml:"mail"`
	Paths  PathsConfig  `yaml:"paths"`
}

// FeedConfig identifies the monitored creator feed
type FeedConfig struct {
	UID      int64    `yaml:"uid"`
	PageSize int      `yaml:"page_size"`
	Keywords []string `yaml:"keywords"`
}

// PollConfig holds continuous-mode settings
type PollConfig struct {
	Interval string `yaml:"interval"`
}

// LLMConfig holds synthesis settings (API key comes from OPENAI_API_KEY)
type LLMConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// SpeechConfig holds recognition settings (credentials come from
// TX_APPID / TX_SECRET_ID / TX_SECRET_KEY)
type SpeechConfig struct {
	EngineType string `yaml:"engine_type"`
}

// MailConfig holds notification settings (password comes from SMTP_PASSWORD)
type MailConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// PathsConfig holds custom path overrides
type PathsConfig struct {
	DocsDir string `yaml:"docs_dir"`
	YtDlp   string `yaml:"yt_dlp"`
	FFmpeg  string `yaml:"ffmpeg"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			UID:      285286947,
			PageSize: 20,
		},
		Poll: PollConfig{
			Interval: "10m",
		},
		LLM: LLMConfig{
			Model:   "gpt-4o-mini",
			BaseURL: "https://api.openai.com/v1",
		},
		Speech: SpeechConfig{
			EngineType: "16k_zh",
		},
		Mail: MailConfig{
			Port: 587,
		},
	}
}

// AppDir returns the application directory (~/.vid2brief)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vid2brief"
	}
	return filepath.Join(home, ".vid2brief")
}

// DataDir returns the working directory for downloaded media
func DataDir() string {
	return filepath.Join(AppDir(), "data")
}

// DocsDir returns the default directory for generated reports
func DocsDir() string {
	return filepath.Join(AppDir(), "docs")
}

// BinDir returns the bin directory
func BinDir() string {
	return filepath.Join(AppDir(), "bin")
}

// LedgerPath returns the processing ledger database path
func LedgerPath() string {
	return filepath.Join(AppDir(), "ledger.db")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// EnsureDirs creates all required directories
func EnsureDirs() error {
	dirs := []string{AppDir(), DataDir(), DocsDir(), BinDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads config from file, returns default if not exists
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads config from default path
func LoadDefault() (*Config, error) {
	return Load(ConfigPath())
}

// Save writes config to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ReportsDir returns the configured docs dir, falling back to the default
func (c *Config) ReportsDir() string {
	if c.Paths.DocsDir != "" {
		return c.Paths.DocsDir
	}
	return DocsDir()
}

// GetPollInterval returns the polling interval as a duration
func (c *Config) GetPollInterval() (time.Duration, error) {
	return ParseDuration(c.Poll.Interval)
}

var durationPattern = regexp.MustCompile(`^(\d+)(m|h|d)$`)

// ParseDuration parses duration strings like "10m", "24h", "7d"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 10m, 24h, 7d)", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch unit {
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}

// Secrets are environment-only so they never end up in config.yaml.

// FeedCookie returns the feed auth cookie string
func FeedCookie() string {
	return os.Getenv("BILI_COOKIE")
}

// LLMAPIKey returns the synthesis API key
func LLMAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// SpeechCredentials returns the flash recognition credentials
func SpeechCredentials() (appID, secretID, secretKey string) {
	return os.Getenv("TX_APPID"), os.Getenv("TX_SECRET_ID"), os.Getenv("TX_SECRET_KEY")
}

// SMTPPassword returns the mail account password
func SMTPPassword() string {
	return os.Getenv("SMTP_PASSWORD")
}
