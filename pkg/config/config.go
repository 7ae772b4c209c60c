// Package config loads renderer and logging settings from JSON or YAML.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/choice"
	"github.com/goliatone/go-formkit/pkg/markup"
	"github.com/goliatone/go-formkit/pkg/render"
)

// Config holds settings shared by the CLI and page builders.
type Config struct {
	Namespace            string               `json:"namespace" yaml:"namespace"`
	StripComponentIDs    bool                 `json:"stripComponentIds" yaml:"stripComponentIds"`
	Tolerant             bool                 `json:"tolerant" yaml:"tolerant"`
	DefaultLabelPosition choice.LabelPosition `json:"defaultLabelPosition" yaml:"defaultLabelPosition"`
	Theme                ThemeConfig          `json:"theme" yaml:"theme"`
	Log                  LogConfig            `json:"log" yaml:"log"`
}

// ThemeConfig names the go-theme manifest used for default choice classes.
type ThemeConfig struct {
	Manifest string `json:"manifest" yaml:"manifest"`
	Name     string `json:"name" yaml:"name"`
	Variant  string `json:"variant" yaml:"variant"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Namespace:            markup.DefaultNamespace,
		DefaultLabelPosition: choice.After,
		Log:                  LogConfig{Level: "info"},
	}
}

// Load reads and parses a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes JSON or YAML over the defaults. source names the input in
// errors.
func Parse(data []byte, source string) (Config, error) {
	cfg := Default()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		cfg = Default()
		if yamlErr := yaml.Unmarshal(data, &cfg); yamlErr != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", source, yamlErr)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return cfg, nil
}

// Validate normalises and checks the configuration.
func (c *Config) Validate() error {
	c.Namespace = strings.TrimSpace(c.Namespace)
	if c.Namespace == "" {
		c.Namespace = markup.DefaultNamespace
	}
	if strings.ContainsAny(c.Namespace, ": \t\"'=") {
		return fmt.Errorf("invalid namespace %q", c.Namespace)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (zapcore.Level, error) {
	raw := strings.TrimSpace(c.Log.Level)
	if raw == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(raw)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}

// Logger builds a zap logger from the log section.
func (c Config) Logger() (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if c.Log.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	level, err := c.level()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}
	return logger, nil
}

// RenderOptions maps the configuration onto renderer options.
func (c Config) RenderOptions(logger *zap.Logger) []render.Option {
	return []render.Option{
		render.WithLogger(logger),
		render.WithStripComponentIDs(c.StripComponentIDs),
		render.WithTolerant(c.Tolerant),
	}
}

// MarkupOptions maps the configuration onto markup parser options.
func (c Config) MarkupOptions() []markup.Option {
	return []markup.Option{markup.WithNamespace(c.Namespace)}
}
