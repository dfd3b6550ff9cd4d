package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"event_newsletter/internal/domain"
)

type Config struct {
	API      APIConfig    `yaml:"api"`
	Format   FormatConfig `yaml:"format"`
	Render   RenderConfig `yaml:"render"`
	Brevo    BrevoConfig  `yaml:"brevo"`
	LogLevel string       `yaml:"log_level"`
}

type APIConfig struct {
	URL         string        `yaml:"url"`
	Limit       int           `yaml:"limit"`
	HorizonDays int           `yaml:"horizon_days"`
	Timeout     time.Duration `yaml:"timeout"`
}

type FormatConfig struct {
	Timezone       string `yaml:"timezone"`
	DescriptionMax int    `yaml:"description_max"`
}

type RenderConfig struct {
	OutputDir    string `yaml:"output_dir"`
	TemplatePath string `yaml:"template_path"`
}

type BrevoConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	SenderName  string `yaml:"sender_name"`
	SenderEmail string `yaml:"sender_email"`
	ListID      int64  `yaml:"list_id"`
	TestEmail   string `yaml:"test_email"`
	Subject     string `yaml:"subject"`
	Tag         string `yaml:"tag"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// Validate checks that every secret required for the given send mode made it
// in through the environment. A miss is a startup error, not a run failure.
func (c *Config) Validate(mode domain.SendMode) error {
	if c.Brevo.APIKey == "" {
		return fmt.Errorf("%w: BREVO_API_KEY", domain.ErrConfig)
	}
	if c.Brevo.SenderEmail == "" {
		return fmt.Errorf("%w: BREVO_SENDER_EMAIL", domain.ErrConfig)
	}
	if c.Brevo.ListID == 0 {
		return fmt.Errorf("%w: BREVO_LIST_ID", domain.ErrConfig)
	}
	if mode == domain.SendModeTest && c.Brevo.TestEmail == "" {
		return fmt.Errorf("%w: NEWSLETTER_TEST_EMAIL", domain.ErrConfig)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.API.URL == "" {
		c.API.URL = "https://lekalepin.fr/api"
	}
	if c.API.Limit == 0 {
		c.API.Limit = 100
	}
	if c.API.HorizonDays == 0 {
		c.API.HorizonDays = 10
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.Format.Timezone == "" {
		c.Format.Timezone = "Europe/Paris"
	}
	if c.Format.DescriptionMax == 0 {
		c.Format.DescriptionMax = 300
	}
	if c.Render.OutputDir == "" {
		c.Render.OutputDir = "."
	}
	if c.Brevo.BaseURL == "" {
		c.Brevo.BaseURL = "https://api.brevo.com/v3"
	}
	if c.Brevo.SenderName == "" {
		c.Brevo.SenderName = "Le Kalepin"
	}
	if c.Brevo.Subject == "" {
		c.Brevo.Subject = "Kalepin : les prochains événements"
	}
	if c.Brevo.Tag == "" {
		c.Brevo.Tag = "Newsletter Kalepin"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
