package engine

import (
	"errors"
	"fmt"

	"github.com/yellowhama/matchsim/internal/match/marking"
	"github.com/yellowhama/matchsim/internal/match/positioning"
	"github.com/yellowhama/matchsim/internal/match/transition"
)

const (
	// DefaultTicksPerHalf is 45 minutes of 250 ms ticks.
	DefaultTicksPerHalf = 10800
	// DefaultEmergencyThreshold is the free score at which a carrier is
	// pressed regardless of cooldowns.
	DefaultEmergencyThreshold = 0.7
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid match config")

// Config controls one match run.
type Config struct {
	Seed                  uint64
	TicksPerHalf          int
	TickMs                int
	ReassignCooldownTicks uint64
	EmergencyThreshold    float64
	// ReplayEveryTicks records a frame every N ticks; 0 disables replay.
	ReplayEveryTicks int
	Positioning      positioning.Config
}

// DefaultConfig returns the standard 90 minute setup.
func DefaultConfig() Config {
	return Config{
		TicksPerHalf:          DefaultTicksPerHalf,
		TickMs:                transition.DefaultTickMs,
		ReassignCooldownTicks: marking.DefaultReassignCooldownTicks,
		EmergencyThreshold:    DefaultEmergencyThreshold,
		Positioning:           positioning.DefaultConfig(),
	}
}

// Validate rejects settings the tick loop cannot run with.
func (c Config) Validate() error {
	if c.TicksPerHalf <= 0 {
		return fmt.Errorf("%w: ticks per half must be positive, got %d", ErrInvalidConfig, c.TicksPerHalf)
	}
	if c.TickMs <= 0 {
		return fmt.Errorf("%w: tick duration must be positive, got %d", ErrInvalidConfig, c.TickMs)
	}
	if c.EmergencyThreshold < 0 || c.EmergencyThreshold > 1 {
		return fmt.Errorf("%w: emergency threshold %v outside 0-1", ErrInvalidConfig, c.EmergencyThreshold)
	}
	if c.ReplayEveryTicks < 0 {
		return fmt.Errorf("%w: replay interval must not be negative", ErrInvalidConfig)
	}
	if c.Positioning.MaxSpeed <= 0 || c.Positioning.SprintSpeed <= 0 {
		return fmt.Errorf("%w: movement speeds must be positive", ErrInvalidConfig)
	}
	return nil
}
