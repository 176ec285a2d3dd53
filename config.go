package utopia

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of an Editor.
type Config struct {
	InsertSize       SizeConfig       `yaml:"insertSize"`
	DragDeadZone     float64          `yaml:"dragDeadZone"`
	ResizeHandleSize float64          `yaml:"resizeHandleSize"`
	MaxStrategyDepth *int             `yaml:"maxStrategyDepth"`
	Strategies       []StrategyID     `yaml:"strategies"`
	Navigator        NavigatorOptions `yaml:"navigator"`
	Zoom             ZoomConfig       `yaml:"zoom"`
	LogLevel         string           `yaml:"logLevel"`
	Debug            bool             `yaml:"debug"`
}

// SizeConfig is a width/height pair in canvas pixels.
type SizeConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ZoomConfig bounds the viewport zoom.
type ZoomConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

const (
	defaultDragDeadZone     = 2.0 // canvas pixels
	defaultResizeHandleSize = 6.0
	defaultMinZoom          = 0.125
	defaultMaxZoom          = 64
)

// DefaultConfig returns the configuration used when none is loaded.
func DefaultConfig() Config {
	var c Config
	c.applyDefaults()
	return c
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML configuration document. Missing
// fields take their defaults.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.InsertSize.Width == 0 && c.InsertSize.Height == 0 {
		c.InsertSize = SizeConfig{Width: DefaultInsertSize.Width, Height: DefaultInsertSize.Height}
	}
	if c.DragDeadZone == 0 {
		c.DragDeadZone = defaultDragDeadZone
	}
	if c.ResizeHandleSize == 0 {
		c.ResizeHandleSize = defaultResizeHandleSize
	}
	if c.MaxStrategyDepth == nil {
		d := DefaultMaxStrategyDepth
		c.MaxStrategyDepth = &d
	}
	if c.Zoom.Min == 0 {
		c.Zoom.Min = defaultMinZoom
	}
	if c.Zoom.Max == 0 {
		c.Zoom.Max = defaultMaxZoom
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate performs basic sanity checks.
func (c Config) Validate() error {
	if c.InsertSize.Width < 0 || c.InsertSize.Height < 0 {
		return fmt.Errorf("insertSize cannot be negative")
	}
	if c.DragDeadZone < 0 {
		return fmt.Errorf("dragDeadZone cannot be negative")
	}
	if c.ResizeHandleSize < 0 {
		return fmt.Errorf("resizeHandleSize cannot be negative")
	}
	if c.MaxStrategyDepth != nil && *c.MaxStrategyDepth < 0 {
		return fmt.Errorf("maxStrategyDepth cannot be negative")
	}
	if c.Zoom.Min <= 0 || c.Zoom.Max < c.Zoom.Min {
		return fmt.Errorf("zoom range %v..%v is invalid", c.Zoom.Min, c.Zoom.Max)
	}
	if _, err := StrategiesByID(c.Strategies); err != nil {
		return fmt.Errorf("strategies: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// MaxDepth returns the re-entrant selection limit.
func (c Config) MaxDepth() int {
	if c.MaxStrategyDepth == nil {
		return DefaultMaxStrategyDepth
	}
	return *c.MaxStrategyDepth
}

// DefaultInsertFrameSize returns the configured insert size.
func (c Config) DefaultInsertFrameSize() Size {
	return Size{Width: c.InsertSize.Width, Height: c.InsertSize.Height}
}

// Registry returns the configured strategy registry. An empty list selects
// DefaultStrategies.
func (c Config) Registry() ([]Strategy, error) {
	if len(c.Strategies) == 0 {
		return DefaultStrategies(), nil
	}
	return StrategiesByID(c.Strategies)
}

// NewSelector builds a selector from the configured registry and depth limit.
func (c Config) NewSelector(logger *slog.Logger) (*Selector, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	return NewSelector(reg, WithMaxStrategyDepth(c.MaxDepth()), WithSelectorLogger(logger)), nil
}

// ParseLogLevel maps a level name (debug, info, warn, error) to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLogLevel(c.LogLevel)
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
