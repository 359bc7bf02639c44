// Package config handles configuration loading and validation for redline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/redline/internal/core/edit"
)

// Config holds the application configuration.
type Config struct {
	// WindowSize bounds how many pending edits are visible at once.
	WindowSize int `yaml:"window_size"`

	// Documents lists doublestar glob patterns of documents redline may
	// touch. Empty means no restriction.
	Documents []string `yaml:"documents"`

	// Intents maps intent tags to their edit restrictions.
	Intents map[string]IntentConfig `yaml:"intents"`

	DataDir string `yaml:"-"` // set by caller, not from config file
}

// IntentConfig defines what a named intent permits.
type IntentConfig struct {
	// Description is shown in violation reports and the TUI.
	Description string `yaml:"description"`

	// AllowedTypes restricts edit types (insert, replace, delete).
	// Empty permits all types.
	AllowedTypes []string `yaml:"allowed_types"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		WindowSize: 5,
		Intents: map[string]IntentConfig{
			string(edit.IntentFormatting): {
				Description:  "formatting only",
				AllowedTypes: []string{string(edit.TypeInsert), string(edit.TypeReplace)},
			},
			string(edit.IntentRewrite): {
				Description: "content rewrite",
			},
			string(edit.IntentStructure): {
				Description: "structural reorganization",
			},
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	if cfg.WindowSize <= 0 {
		cfg.WindowSize = DefaultConfig().WindowSize
	}
	if cfg.Intents == nil {
		cfg.Intents = DefaultConfig().Intents
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ResolveIntent turns a wire intent spec into a typed Intent using the
// configured restrictions. An empty tag means no restrictions at all.
func (c *Config) ResolveIntent(spec edit.IntentSpec) (edit.Intent, error) {
	intent := edit.Intent{Tag: edit.IntentTag(spec.Tag)}

	if spec.Tag != "" {
		ic, ok := c.Intents[spec.Tag]
		if !ok {
			return edit.Intent{}, fmt.Errorf("unknown intent %q (known: %s)", spec.Tag, strings.Join(c.intentTags(), ", "))
		}
		for _, t := range ic.AllowedTypes {
			intent.AllowedTypes = append(intent.AllowedTypes, edit.Type(t))
		}
	}

	if spec.Scope != nil {
		if spec.Scope.Start < 1 || spec.Scope.End < spec.Scope.Start {
			return edit.Intent{}, fmt.Errorf("invalid intent scope %d-%d", spec.Scope.Start, spec.Scope.End)
		}
		scope := *spec.Scope
		intent.Scope = &scope
	}

	return intent, nil
}

// AllowsDocument reports whether a document path matches the configured
// include patterns.
func (c *Config) AllowsDocument(path string) bool {
	if len(c.Documents) == 0 {
		return true
	}

	slashed := filepath.ToSlash(path)
	for _, pattern := range c.Documents {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
		// Also try against the basename so patterns like *.md work on
		// absolute paths.
		if ok, err := doublestar.Match(pattern, filepath.Base(slashed)); err == nil && ok {
			return true
		}
	}
	return false
}

func (c *Config) intentTags() []string {
	tags := make([]string, 0, len(c.Intents))
	for tag := range c.Intents {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
