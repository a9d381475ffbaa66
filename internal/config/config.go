package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/yellowhama/matchsim/internal/match/engine"
	"github.com/yellowhama/matchsim/internal/store"
)

// EnvPrefix namespaces environment overrides, e.g. MATCHSIM_MATCH_SEED.
const EnvPrefix = "MATCHSIM"

// StorageNone disables result persistence.
const StorageNone = "none"

// Config is the full runtime configuration of the simulator.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging"`
	Match       MatchConfig       `mapstructure:"match"`
	Positioning PositioningConfig `mapstructure:"positioning"`
	Replay      ReplayConfig      `mapstructure:"replay"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Output is stderr, stdout or a file path.
	Output string `mapstructure:"output"`
}

type MatchConfig struct {
	Seed                  uint64  `mapstructure:"seed"`
	TicksPerHalf          int     `mapstructure:"ticksPerHalf"`
	TickMs                int     `mapstructure:"tickMs"`
	ReassignCooldownTicks uint64  `mapstructure:"reassignCooldownTicks"`
	EmergencyThreshold    float64 `mapstructure:"emergencyThreshold"`
}

// PositioningConfig mirrors positioning.Config in meters and ticks.
type PositioningConfig struct {
	HysteresisM       float64 `mapstructure:"hysteresisM"`
	MoveCooldownTicks uint64  `mapstructure:"moveCooldownTicks"`
	MaxSpeed          float64 `mapstructure:"maxSpeed"`
	SprintSpeed       float64 `mapstructure:"sprintSpeed"`
	OffsideBuffer     float64 `mapstructure:"offsideBuffer"`
}

type ReplayConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	EveryTicks int    `mapstructure:"everyTicks"`
	Directory  string `mapstructure:"directory"`
}

type StorageConfig struct {
	// Driver is sqlite, postgres or none.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	def := engine.DefaultConfig()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("match.seed", 0)
	v.SetDefault("match.ticksPerHalf", def.TicksPerHalf)
	v.SetDefault("match.tickMs", def.TickMs)
	v.SetDefault("match.reassignCooldownTicks", def.ReassignCooldownTicks)
	v.SetDefault("match.emergencyThreshold", def.EmergencyThreshold)

	v.SetDefault("positioning.hysteresisM", def.Positioning.HysteresisDistance)
	v.SetDefault("positioning.moveCooldownTicks", def.Positioning.MoveCooldown)
	v.SetDefault("positioning.maxSpeed", def.Positioning.MaxSpeed)
	v.SetDefault("positioning.sprintSpeed", def.Positioning.SprintSpeed)
	v.SetDefault("positioning.offsideBuffer", def.Positioning.OffsideBuffer)

	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.everyTicks", 4)
	v.SetDefault("replay.directory", "./replays")

	v.SetDefault("storage.driver", store.DriverSQLite)
	v.SetDefault("storage.dsn", "matchsim.db")

	v.SetDefault("telemetry.enabled", false)
}

// Load reads a YAML file at path, layered over defaults and MATCHSIM_*
// environment variables. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that are not covered by engine.Config.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case store.DriverSQLite, store.DriverPostgres, StorageNone:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Replay.Enabled && c.Replay.EveryTicks <= 0 {
		return fmt.Errorf("replay interval must be positive when replay is enabled, got %d", c.Replay.EveryTicks)
	}
	return c.Engine().Validate()
}

// Engine converts the match and positioning sections into an engine.Config.
func (c *Config) Engine() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Seed = c.Match.Seed
	cfg.TicksPerHalf = c.Match.TicksPerHalf
	cfg.TickMs = c.Match.TickMs
	cfg.ReassignCooldownTicks = c.Match.ReassignCooldownTicks
	cfg.EmergencyThreshold = c.Match.EmergencyThreshold

	cfg.Positioning.HysteresisDistance = c.Positioning.HysteresisM
	cfg.Positioning.MoveCooldown = c.Positioning.MoveCooldownTicks
	cfg.Positioning.MaxSpeed = c.Positioning.MaxSpeed
	cfg.Positioning.SprintSpeed = c.Positioning.SprintSpeed
	cfg.Positioning.OffsideBuffer = c.Positioning.OffsideBuffer

	if c.Replay.Enabled {
		cfg.ReplayEveryTicks = c.Replay.EveryTicks
	}
	return cfg
}

// StoreConfig returns the persistence settings, or false when storage is off.
func (c *Config) StoreConfig() (store.Config, bool) {
	if c.Storage.Driver == StorageNone {
		return store.Config{}, false
	}
	return store.Config{Driver: c.Storage.Driver, DSN: c.Storage.DSN}, true
}
