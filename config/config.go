// Package config provides configuration structures for the intake core.
//
// Configuration follows the pattern used across the module: each component
// exposes a config struct with defaults and a Merge method, so loaded files
// layer over defaults. Config only exists during initialization — it is
// transformed into domain objects and does not persist into runtime
// components.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// WorkflowConfig defines configuration for a workflow engine instance.
//
// Observer and Store are names resolved through the observability and
// session-store registries at engine construction, enabling file-driven
// configuration with runtime resolution.
//
// Example JSON:
//
//	{
//	  "name": "procurement-intake",
//	  "observer": "slog",
//	  "store": "memory",
//	  "hook_timeout_seconds": 30
//	}
type WorkflowConfig struct {
	// Name identifies the engine for observability
	Name string `json:"name" yaml:"name"`

	// Observer specifies which observer implementation to use ("noop", "slog", etc.)
	Observer string `json:"observer" yaml:"observer"`

	// Store identifies which SessionStore to use (resolved via registry)
	Store string `json:"store" yaml:"store"`

	// HookTimeoutSeconds bounds each OnEnter/OnExit hook invocation.
	// A hook exceeding the deadline fails the transition with HookTimedOut.
	HookTimeoutSeconds int `json:"hook_timeout_seconds" yaml:"hook_timeout_seconds"`

	// ChannelBufferSize controls the snapshot channel capacity per subscriber
	ChannelBufferSize int `json:"channel_buffer_size" yaml:"channel_buffer_size"`
}

// DefaultWorkflowConfig returns sensible defaults for engine construction.
//
// Default values:
//   - Observer: "slog" for structured logging
//   - Store: "memory"
//   - HookTimeoutSeconds: 30
//   - ChannelBufferSize: 16
func DefaultWorkflowConfig(name string) WorkflowConfig {
	return WorkflowConfig{
		Name:               name,
		Observer:           "slog",
		Store:              "memory",
		HookTimeoutSeconds: 30,
		ChannelBufferSize:  16,
	}
}

// HookTimeout returns the hook deadline as a duration.
func (c *WorkflowConfig) HookTimeout() time.Duration {
	return time.Duration(c.HookTimeoutSeconds) * time.Second
}

func (c *WorkflowConfig) Merge(source *WorkflowConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.Store != "" {
		c.Store = source.Store
	}

	if source.HookTimeoutSeconds > 0 {
		c.HookTimeoutSeconds = source.HookTimeoutSeconds
	}

	if source.ChannelBufferSize > 0 {
		c.ChannelBufferSize = source.ChannelBufferSize
	}
}

// Config holds initialization parameters for the intake server and its
// workflow subsystem.
type Config struct {
	// Addr is the HTTP listen address for cmd/intaked
	Addr string `json:"addr" yaml:"addr"`

	Workflow WorkflowConfig `json:"workflow" yaml:"workflow"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Addr:     ":8080",
		Workflow: DefaultWorkflowConfig("procurement-intake"),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}

	c.Workflow.Merge(&source.Workflow)
}

// Load reads a config file, merges it over defaults, and returns the result.
// The format is chosen by extension: .yaml/.yml are parsed as YAML, anything
// else as JSON.
func Load(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch ext := filepath.Ext(filename); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
