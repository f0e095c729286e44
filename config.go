package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigDir    = ".whatsnew-writer"
	defaultAgentTimeout = 2 * time.Minute
)

// ConfigOverrides allows overriding embedded defaults with file paths
type ConfigOverrides struct {
	SettingsPath     *string
	SystemPromptPath *string
	UserPromptPath   *string
}

// Embedded configuration files
//
//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/system-prompt.md
var defaultSystemPrompt string

//go:embed config/user-prompt.md
var defaultUserPrompt string

// FetchSettings configures the page fetcher and the release-notes index it reads
type FetchSettings struct {
	IndexURL       string  `yaml:"index_url"`
	UserAgent      string  `yaml:"user_agent"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
	Engine         string  `yaml:"engine"`
}

// Timeout returns the per-fetch timeout, defaulting to 20 seconds
func (f FetchSettings) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return defaultFetchTimeout
	}
	return time.Duration(f.TimeoutSeconds * float64(time.Second))
}

// AgentSettings configures one generation backend
type AgentSettings struct {
	Model          string  `yaml:"model"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	MaxToolRounds  int     `yaml:"max_tool_rounds"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"` // bound on a single model request
}

// Timeout returns the per-request timeout, defaulting to two minutes
func (a AgentSettings) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return defaultAgentTimeout
	}
	return time.Duration(a.TimeoutSeconds * float64(time.Second))
}

// Settings represents the YAML configuration structure
type Settings struct {
	Source  FetchSettings `yaml:"source"`
	Backend string        `yaml:"backend"`
	Agents  struct {
		Anthropic AgentSettings `yaml:"anthropic"`
		Gemini    AgentSettings `yaml:"gemini"`
	} `yaml:"agents"`
}

// Config holds configuration and overrides
type Config struct {
	Settings  *Settings
	Overrides *ConfigOverrides
}

// NewConfig creates a new Config with settings and overrides
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	var (
		settings *Settings
		err      error
	)
	if overrides != nil && overrides.SettingsPath != nil {
		// Explicit settings file must exist
		settings, err = loadSettingsRequired(*overrides.SettingsPath)
	} else {
		settings, err = loadSettings(getConfigPath("settings.yaml"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	applyEnvOverrides(settings)

	return &Config{
		Settings:  settings,
		Overrides: overrides,
	}, nil
}

// GetSystemPrompt returns the newsletter system prompt (from override file or embedded)
func (c *Config) GetSystemPrompt() string {
	if c.Overrides != nil && c.Overrides.SystemPromptPath != nil {
		return readOverride(*c.Overrides.SystemPromptPath, defaultSystemPrompt)
	}
	return strings.TrimSpace(defaultSystemPrompt)
}

// GetUserPrompt returns the initial user instruction (from override file or embedded)
func (c *Config) GetUserPrompt() string {
	if c.Overrides != nil && c.Overrides.UserPromptPath != nil {
		return readOverride(*c.Overrides.UserPromptPath, defaultUserPrompt)
	}
	return strings.TrimSpace(defaultUserPrompt)
}

func readOverride(path, fallback string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: cannot read %s, using embedded default: %v", path, err)
		return strings.TrimSpace(fallback)
	}
	return strings.TrimSpace(string(content))
}

// parseDefaultSettings decodes the embedded settings.yaml
func parseDefaultSettings() (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal([]byte(defaultSettings), &settings); err != nil {
		return nil, fmt.Errorf("parsing embedded settings: %w", err)
	}
	return &settings, nil
}

// loadSettings loads settings from a YAML file layered over the embedded defaults.
// A missing file is not an error.
func loadSettings(settingsPath string) (*Settings, error) {
	settings, err := parseDefaultSettings()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(settingsPath)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", settingsPath, err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	return settings, nil
}

// loadSettingsRequired loads settings from YAML file, failing if file doesn't exist
func loadSettingsRequired(settingsPath string) (*Settings, error) {
	if _, err := os.Stat(settingsPath); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", settingsPath, err)
	}
	return loadSettings(settingsPath)
}

// applyEnvOverrides lets ANTHROPIC_MODEL, ANTHROPIC_TEMPERATURE and GEMINI_MODEL win over the file
func applyEnvOverrides(settings *Settings) {
	if model := os.Getenv("ANTHROPIC_MODEL"); model != "" {
		settings.Agents.Anthropic.Model = model
	}
	if raw := os.Getenv("ANTHROPIC_TEMPERATURE"); raw != "" {
		temperature, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Printf("Warning: ignoring ANTHROPIC_TEMPERATURE=%q: %v", raw, err)
		} else {
			settings.Agents.Anthropic.Temperature = temperature
		}
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		settings.Agents.Gemini.Model = model
	}
}

// getConfigPath returns the path to a config file in .whatsnew-writer directory
func getConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// ensureConfigExists creates the config directory and writes the default settings if missing.
// It returns the settings path.
func ensureConfigExists() (string, error) {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	settingsPath := getConfigPath("settings.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, []byte(defaultSettings), 0644); err != nil {
			return "", fmt.Errorf("writing settings.yaml: %w", err)
		}
	}

	return settingsPath, nil
}
