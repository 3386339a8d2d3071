// Package config loads triage configuration from a YAML file with
// environment variable expansion, so tokens live in the environment
// rather than on disk.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	autoerrors "github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
)

// Config is the complete triage configuration.
type Config struct {
	Agent  AgentConfig  `yaml:"agent"`
	GitHub GitHubConfig `yaml:"github"`
	Store  StoreConfig  `yaml:"store,omitempty"`
	Server ServerConfig `yaml:"server,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
}

// AgentConfig configures the remote agent service client.
type AgentConfig struct {
	BaseURL          string `yaml:"base_url,omitempty"`
	Token            string `yaml:"token"`
	RequestTimeoutMs int    `yaml:"request_timeout_ms,omitempty"`
}

// RequestTimeout returns the configured request timeout as a duration.
func (a AgentConfig) RequestTimeout() time.Duration {
	return time.Duration(a.RequestTimeoutMs) * time.Millisecond
}

// GitHubConfig configures the ticket source.
type GitHubConfig struct {
	BaseURL          string `yaml:"base_url,omitempty"`
	Token            string `yaml:"token"`
	Owner            string `yaml:"owner"`
	Repo             string `yaml:"repo"`
	RequestTimeoutMs int    `yaml:"request_timeout_ms,omitempty"`
}

// RequestTimeout returns the configured request timeout as a duration.
func (g GitHubConfig) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutMs) * time.Millisecond
}

// StoreConfig configures the stage result store.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ServerConfig configures the dashboard server.
type ServerConfig struct {
	Addr              string `yaml:"addr,omitempty"`
	ShutdownTimeoutMs int    `yaml:"shutdown_timeout_ms,omitempty"`
}

// ShutdownTimeout returns the configured shutdown grace period.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutMs) * time.Millisecond
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns a configuration with sensible defaults. Tokens are read
// from the environment.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			Token:            os.Getenv("AGENT_API_TOKEN"),
			RequestTimeoutMs: 30000,
		},
		GitHub: GitHubConfig{
			Token:            os.Getenv("GITHUB_TOKEN"),
			RequestTimeoutMs: 15000,
		},
		Store: StoreConfig{
			Path: "triage.db",
		},
		Server: ServerConfig{
			Addr:              ":8080",
			ShutdownTimeoutMs: 10000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML configuration file, expands ${VAR} references against
// the environment, and merges the result over Default(). An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, autoerrors.Wrap(autoerrors.ErrCodeConfigNotFound,
			fmt.Sprintf("read config file %s", path), err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, autoerrors.Wrap(autoerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("parse config file %s", path), err)
	}

	return cfg, nil
}

// Validate checks that the fields needed to reach GitHub are present.
// Agent credentials are intentionally not required here: the workflow
// degrades to local heuristics when the agent is unreachable.
func (c *Config) Validate() error {
	if c.GitHub.Owner == "" {
		return configInvalid("github.owner is required")
	}
	if c.GitHub.Repo == "" {
		return configInvalid("github.repo is required")
	}
	if c.GitHub.Token == "" {
		return configInvalid("github.token is required (or set GITHUB_TOKEN)")
	}
	if c.Agent.RequestTimeoutMs < 0 {
		return configInvalid("agent.request_timeout_ms must be non-negative")
	}
	if c.GitHub.RequestTimeoutMs < 0 {
		return configInvalid("github.request_timeout_ms must be non-negative")
	}
	return nil
}

func configInvalid(detail string) *autoerrors.AutomationError {
	err := autoerrors.New(autoerrors.ErrCodeConfigInvalid, detail)
	err.Suggestions = []string{
		"Check the configuration file against the documented fields",
		"Environment variables referenced as ${VAR} must be exported",
	}
	return err
}
