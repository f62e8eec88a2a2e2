package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "CONTENTWRITER_CONFIG"
	envFileEnv        = "CONTENTWRITER_ENV_FILE"
	databasePathEnv   = "DATABASE_PATH"
	siteURLEnv        = "SITE_URL"
	llmProviderEnv    = "LLM_PROVIDER"
	openAIAPIKeyEnv   = "OPENAI_API_KEY"
	openAIModelEnv    = "OPENAI_MODEL"
	geminiAPIKeyEnv   = "GEMINI_API_KEY"
	seoPluginEnv      = "SEO_PLUGIN"
	autoPublishEnv    = "AUTO_PUBLISH"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	logLevelEnv       = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Site          SiteConfig         `yaml:"site"`
	LLM           LLMConfig          `yaml:"llm"`
	SEO           SEOConfig          `yaml:"seo"`
	Automation    AutomationConfig   `yaml:"automation"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig points at the SQLite file holding every store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SiteConfig describes the site being written for and where its content is imported from.
type SiteConfig struct {
	Name    string         `yaml:"name"`
	URL     string         `yaml:"url"`
	Sources []SourceConfig `yaml:"sources"`
}

// SourceConfig describes a single import source with its scanner strategy.
type SourceConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	URLs    []string          `yaml:"urls"`
	Options map[string]string `yaml:"options"`
}

// LLMConfig picks the completion backend and carries credentials for each.
type LLMConfig struct {
	Provider string       `yaml:"provider"`
	OpenAI   OpenAIConfig `yaml:"openai"`
	Gemini   GeminiConfig `yaml:"gemini"`
}

// OpenAIConfig defines how to contact the OpenAI chat completions API.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// GeminiConfig defines how to contact the Gemini API.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// SEOConfig selects the metadata backend and the optimized-score threshold.
type SEOConfig struct {
	Plugin   string `yaml:"plugin"`
	MinScore int    `yaml:"minScore"`
}

// AutomationConfig defines recurring jobs and when they run.
type AutomationConfig struct {
	AutoPublish bool           `yaml:"autoPublish"`
	Frequency   string         `yaml:"frequency"`
	DailyCron   string         `yaml:"dailyCron"`
	WeeklyCron  string         `yaml:"weeklyCron"`
	MonthlyCron string         `yaml:"monthlyCron"`
	Timezone    string         `yaml:"timezone"`
	location    *time.Location `yaml:"-"`
}

// Location resolves the automation timezone string to a time.Location.
func (a AutomationConfig) Location() *time.Location {
	if a.location != nil {
		return a.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads .env and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	return LoadFile("")
}

// LoadFile is Load with an explicit YAML path; an empty path falls back to CONTENTWRITER_CONFIG.
func LoadFile(path string) Config {
	envFile := os.Getenv(envFileEnv)
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load %s: %v", envFile, err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func readFile(path string) (Config, error) {
	var fileCfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileCfg, err
	}
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fileCfg, err
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(siteURLEnv); v != "" {
		c.Site.URL = v
	}

	if v := os.Getenv(llmProviderEnv); v != "" {
		c.LLM.Provider = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.LLM.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.LLM.OpenAI.Model = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.LLM.Gemini.APIKey = v
	}

	if v := os.Getenv(seoPluginEnv); v != "" {
		c.SEO.Plugin = v
	}

	if v := os.Getenv(autoPublishEnv); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Automation.AutoPublish = b
		}
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Automation.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Automation.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Site.Name != "" {
		base.Site.Name = override.Site.Name
	}
	if override.Site.URL != "" {
		base.Site.URL = override.Site.URL
	}
	if len(override.Site.Sources) > 0 {
		base.Site.Sources = override.Site.Sources
	}

	if override.LLM.Provider != "" {
		base.LLM.Provider = override.LLM.Provider
	}
	if override.LLM.OpenAI.Endpoint != "" {
		base.LLM.OpenAI.Endpoint = override.LLM.OpenAI.Endpoint
	}
	if override.LLM.OpenAI.Model != "" {
		base.LLM.OpenAI.Model = override.LLM.OpenAI.Model
	}
	if override.LLM.OpenAI.APIKey != "" {
		base.LLM.OpenAI.APIKey = override.LLM.OpenAI.APIKey
	}
	if override.LLM.Gemini.Model != "" {
		base.LLM.Gemini.Model = override.LLM.Gemini.Model
	}
	if override.LLM.Gemini.APIKey != "" {
		base.LLM.Gemini.APIKey = override.LLM.Gemini.APIKey
	}

	if override.SEO.Plugin != "" {
		base.SEO.Plugin = override.SEO.Plugin
	}
	if override.SEO.MinScore > 0 {
		base.SEO.MinScore = override.SEO.MinScore
	}

	if override.Automation.AutoPublish {
		base.Automation.AutoPublish = true
	}
	if override.Automation.Frequency != "" {
		base.Automation.Frequency = override.Automation.Frequency
	}
	if override.Automation.DailyCron != "" {
		base.Automation.DailyCron = override.Automation.DailyCron
	}
	if override.Automation.WeeklyCron != "" {
		base.Automation.WeeklyCron = override.Automation.WeeklyCron
	}
	if override.Automation.MonthlyCron != "" {
		base.Automation.MonthlyCron = override.Automation.MonthlyCron
	}
	if override.Automation.Timezone != "" {
		base.Automation.Timezone = override.Automation.Timezone
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{Path: "contentwriter.db"},
		Site:     SiteConfig{Name: "My Site", URL: "http://localhost"},
		LLM: LLMConfig{
			Provider: "openai",
			OpenAI: OpenAIConfig{
				Endpoint: "https://api.openai.com/v1/chat/completions",
				Model:    "gpt-4o-mini",
			},
			Gemini: GeminiConfig{Model: "gemini-2.5-flash"},
		},
		SEO: SEOConfig{Plugin: "none", MinScore: 8},
		Automation: AutomationConfig{
			Frequency:   "daily",
			DailyCron:   "0 9 * * *",
			WeeklyCron:  "0 6 * * 1",
			MonthlyCron: "0 5 1 * *",
			Timezone:    defaultTimezone,
			location:    tz,
		},
	}
}
