package config

import (
	"errors"
	"log/slog"
	"time"
)

// Config is the top-level configuration struct for cubetree.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Reboot  RebootConfig  `mapstructure:"reboot"`
	Logging LoggingConfig `mapstructure:"logging"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Mesh    MeshConfig    `mapstructure:"mesh"`
	Verify  VerifyConfig  `mapstructure:"verify"`
}

// RebootConfig holds the initialization clamp and part selection.
type RebootConfig struct {
	InitBound   int `mapstructure:"init_bound"`
	DefaultPart int `mapstructure:"default_part"`
}

// LoggingConfig selects the slog handler and level.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig holds scripting engine settings.
type EngineConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// MeshConfig holds tessellation settings.
type MeshConfig struct {
	Cells     int `mapstructure:"cells"`
	MaxLeaves int `mapstructure:"max_leaves"`
}

// VerifyConfig bounds the brute-force cross-check.
type VerifyConfig struct {
	MaxCells int64 `mapstructure:"max_cells"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidInitBound indicates a negative initialization bound.
	ErrInvalidInitBound = errors.New("reboot.init_bound must be non-negative")
	// ErrInvalidDefaultPart indicates a part other than 1 or 2.
	ErrInvalidDefaultPart = errors.New("reboot.default_part must be 1 or 2")
	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("logging.level must be one of debug, info, warn, error")
	// ErrInvalidLogFormat indicates an unknown log format.
	ErrInvalidLogFormat = errors.New("logging.format must be text or json")
	// ErrInvalidEngineTimeout indicates a non-positive evaluation timeout.
	ErrInvalidEngineTimeout = errors.New("engine.timeout must be positive")
	// ErrInvalidMeshCells indicates a non-positive marching cubes resolution.
	ErrInvalidMeshCells = errors.New("mesh.cells must be positive")
	// ErrInvalidMeshMaxLeaves indicates a negative leaf limit.
	ErrInvalidMeshMaxLeaves = errors.New("mesh.max_leaves must be non-negative")
	// ErrInvalidVerifyMaxCells indicates a non-positive grid limit.
	ErrInvalidVerifyMaxCells = errors.New("verify.max_cells must be positive")
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if err := c.validateReboot(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateLimits()
}

func (c *Config) validateReboot() error {
	if c.Reboot.InitBound < 0 {
		return ErrInvalidInitBound
	}

	if c.Reboot.DefaultPart != 1 && c.Reboot.DefaultPart != 2 {
		return ErrInvalidDefaultPart
	}

	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := logLevels[c.Logging.Level]; !ok {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

func (c *Config) validateLimits() error {
	if c.Engine.Timeout <= 0 {
		return ErrInvalidEngineTimeout
	}

	if c.Mesh.Cells <= 0 {
		return ErrInvalidMeshCells
	}

	if c.Mesh.MaxLeaves < 0 {
		return ErrInvalidMeshMaxLeaves
	}

	if c.Verify.MaxCells <= 0 {
		return ErrInvalidVerifyMaxCells
	}

	return nil
}

// LogLevel returns the slog level named by Logging.Level, or info when the
// name is unknown.
func (c *Config) LogLevel() slog.Level {
	if lvl, ok := logLevels[c.Logging.Level]; ok {
		return lvl
	}
	return slog.LevelInfo
}
