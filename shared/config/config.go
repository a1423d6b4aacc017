package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI         AIConfig         `yaml:"ai"`
	Drive      DriveConfig      `yaml:"drive"`
	Podcast    PodcastConfig    `yaml:"podcast"`
	Feed       FeedConfig       `yaml:"feed"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	ScriptModel  string `yaml:"script_model"`
	SpeechModel  string `yaml:"speech_model"`
	Voice        string `yaml:"voice"`
}

type DriveConfig struct {
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`
	RootFolderID string `yaml:"root_folder_id" env:"GDRIVE_FOLDER_ID"`
	YearFolder   string `yaml:"year_folder"`
}

type PodcastConfig struct {
	CatalogFile    string `yaml:"catalog_file"`
	PromptFile     string `yaml:"prompt_file"`
	OutputDir      string `yaml:"output_dir"`
	MinWords       int    `yaml:"min_words"`
	MaxWords       int    `yaml:"max_words"`
	MaxSpeechChars int    `yaml:"max_speech_chars"`
	Timezone       string `yaml:"timezone"`
	ReleaseWeekday string `yaml:"release_weekday"`
	FetchTimeout   int    `yaml:"fetch_timeout_seconds"`
}

type FeedConfig struct {
	Path     string `yaml:"path"`
	BaseURL  string `yaml:"base_url"`
	ShowLink string `yaml:"show_link"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Drive.ClientID == "" {
		cfg.Drive.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if cfg.Drive.ClientSecret == "" {
		cfg.Drive.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if cfg.Drive.RootFolderID == "" {
		cfg.Drive.RootFolderID = os.Getenv("GDRIVE_FOLDER_ID")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AI.ScriptModel == "" {
		c.AI.ScriptModel = "gemini-2.5-flash"
	}
	if c.AI.SpeechModel == "" {
		c.AI.SpeechModel = "gemini-2.5-flash-preview-tts"
	}
	if c.AI.Voice == "" {
		c.AI.Voice = "Kore"
	}
	if c.Drive.TokenFile == "" {
		c.Drive.TokenFile = "drive_token.json"
	}
	if c.Drive.YearFolder == "" {
		c.Drive.YearFolder = "2026 Old Testament"
	}
	if c.Podcast.CatalogFile == "" {
		c.Podcast.CatalogFile = "cfm_index/cfm_2026_index.json"
	}
	if c.Podcast.PromptFile == "" {
		c.Podcast.PromptFile = "prompts/master_prompt.txt"
	}
	if c.Podcast.OutputDir == "" {
		c.Podcast.OutputDir = "dist"
	}
	if c.Podcast.MinWords == 0 {
		c.Podcast.MinWords = 1300
	}
	if c.Podcast.MaxWords == 0 {
		c.Podcast.MaxWords = 1600
	}
	if c.Podcast.MaxSpeechChars == 0 {
		// Stay under the provider's 4096-char ceiling with a little margin.
		c.Podcast.MaxSpeechChars = 3900
	}
	if c.Podcast.Timezone == "" {
		c.Podcast.Timezone = "America/Denver"
	}
	if c.Podcast.ReleaseWeekday == "" {
		c.Podcast.ReleaseWeekday = "Monday"
	}
	if c.Podcast.FetchTimeout == 0 {
		c.Podcast.FetchTimeout = 30
	}
	if c.Feed.Path == "" {
		c.Feed.Path = "docs/podcast.xml"
	}
	if c.Schedule == "" {
		c.Schedule = "0 0 6 * * SAT" // Saturdays at 6 AM
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
}

func (c *Config) validate() error {
	if c.AI.GeminiAPIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.gemini_api_key)")
	}
	if c.Drive.ClientID == "" {
		return fmt.Errorf("Drive client ID is required (set GOOGLE_CLIENT_ID or drive.client_id)")
	}
	if c.Drive.ClientSecret == "" {
		return fmt.Errorf("Drive client secret is required (set GOOGLE_CLIENT_SECRET or drive.client_secret)")
	}
	if c.Drive.RootFolderID == "" {
		return fmt.Errorf("Drive root folder ID is required (set GDRIVE_FOLDER_ID or drive.root_folder_id)")
	}
	if c.Podcast.MinWords > c.Podcast.MaxWords {
		return fmt.Errorf("min_words (%d) must not exceed max_words (%d)", c.Podcast.MinWords, c.Podcast.MaxWords)
	}
	if c.Feed.BaseURL == "" {
		return fmt.Errorf("feed base URL is required (set feed.base_url)")
	}
	if _, err := time.LoadLocation(c.Podcast.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Podcast.Timezone, err)
	}
	if _, err := ParseWeekday(c.Podcast.ReleaseWeekday); err != nil {
		return err
	}
	return nil
}

// ParseWeekday converts a weekday name such as "Monday" into a time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", name)
}
