package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yellowhama/matchsim/internal/match/engine"
	"github.com/yellowhama/matchsim/internal/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matchsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, engine.DefaultTicksPerHalf, cfg.Match.TicksPerHalf)
	assert.Equal(t, store.DriverSQLite, cfg.Storage.Driver)
	assert.False(t, cfg.Replay.Enabled)
	assert.False(t, cfg.Telemetry.Enabled)

	assert.Equal(t, engine.DefaultConfig(), cfg.Engine())
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
match:
  seed: 99
  ticksPerHalf: 1200
  emergencyThreshold: 0.5
positioning:
  maxSpeed: 2.0
replay:
  enabled: true
  everyTicks: 8
  directory: /tmp/replays
storage:
  driver: none
telemetry:
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Telemetry.Enabled)

	ec := cfg.Engine()
	assert.Equal(t, uint64(99), ec.Seed)
	assert.Equal(t, 1200, ec.TicksPerHalf)
	assert.InDelta(t, 0.5, ec.EmergencyThreshold, 1e-9)
	assert.InDelta(t, 2.0, ec.Positioning.MaxSpeed, 1e-9)
	assert.Equal(t, 8, ec.ReplayEveryTicks)
	assert.Equal(t, "/tmp/replays", cfg.Replay.Directory)

	_, ok := cfg.StoreConfig()
	assert.False(t, ok)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "match:\n  seed: 1\n")
	t.Setenv("MATCHSIM_MATCH_SEED", "4242")
	t.Setenv("MATCHSIM_STORAGE_DRIVER", "postgres")
	t.Setenv("MATCHSIM_STORAGE_DSN", "host=db user=sim")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(4242), cfg.Match.Seed)
	sc, ok := cfg.StoreConfig()
	require.True(t, ok)
	assert.Equal(t, store.Config{Driver: store.DriverPostgres, DSN: "host=db user=sim"}, sc)
}

func TestLoad_ReplayDisabledLeavesInterval(t *testing.T) {
	path := writeConfig(t, "replay:\n  enabled: false\n  everyTicks: 3\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Engine().ReplayEveryTicks)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown driver":  "storage:\n  driver: mongo\n",
		"zero ticks":      "match:\n  ticksPerHalf: 0\n",
		"threshold":       "match:\n  emergencyThreshold: 1.5\n",
		"replay interval": "replay:\n  enabled: true\n  everyTicks: 0\n",
		"negative speed":  "positioning:\n  sprintSpeed: -1\n",
		"malformed yaml":  "match: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidMatchSettingsWrapSentinel(t *testing.T) {
	_, err := Load(writeConfig(t, "match:\n  tickMs: 0\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
}
