// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// MaxQuestionCount bounds the number of questions per interview.
const MaxQuestionCount = 20

// Config represents the server configuration. Values come from a JSON file,
// the environment and CLI flags; all fields are optional and fall back to
// Defaults.
type Config struct {
	Port            int    `json:"port,omitempty"`              // HTTP listen port
	DatabaseURL     string `json:"database_url,omitempty"`      // PostgreSQL connection URL
	APIKey          string `json:"api_key,omitempty"`           // Gemini API key; empty selects template questions
	UploadDir       string `json:"upload_dir,omitempty"`        // Directory for uploaded resumes
	UploadURLPrefix string `json:"upload_url_prefix,omitempty"` // Public path prefix for stored files
	QuestionCount   int    `json:"question_count,omitempty"`    // Questions per interview
	UseMemory       bool   `json:"use_memory,omitempty"`        // Use the in-process store instead of PostgreSQL
	UseBrowser      bool   `json:"use_browser,omitempty"`       // Render script-heavy job postings with headless Chrome
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:            8080,
		UploadDir:       "uploads",
		UploadURLPrefix: "/uploads",
		QuestionCount:   5,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads PORT, DATABASE_URL, GEMINI_API_KEY, UPLOAD_DIR,
// QUESTION_COUNT and FETCH_USE_BROWSER. Unset or unparsable values are left
// at their zero value.
func FromEnv() Config {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		UploadDir:   os.Getenv("UPLOAD_DIR"),
	}
	if v, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = v
	}
	if v, err := strconv.Atoi(os.Getenv("QUESTION_COUNT")); err == nil {
		cfg.QuestionCount = v
	}
	if v, err := strconv.ParseBool(os.Getenv("FETCH_USE_BROWSER")); err == nil {
		cfg.UseBrowser = v
	}
	return cfg
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the command after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.QuestionCount < 0 || c.QuestionCount > MaxQuestionCount {
		return fmt.Errorf("config error: 'question_count' must be between 1 and %d", MaxQuestionCount)
	}
	if c.UploadDir != "" {
		if info, err := os.Stat(c.UploadDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: upload_dir is not a directory: %s", c.UploadDir)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Earlier layers win: flags merge over env, env over file, file over Defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.UploadDir == "" {
		result.UploadDir = defaults.UploadDir
	}
	if result.UploadURLPrefix == "" {
		result.UploadURLPrefix = defaults.UploadURLPrefix
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.QuestionCount == 0 {
		result.QuestionCount = defaults.QuestionCount
	}

	// Bools cannot distinguish unset from false, so either layer can enable.
	result.UseMemory = result.UseMemory || defaults.UseMemory
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser

	return result
}
