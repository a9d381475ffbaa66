package roster

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and validates a team from a YAML file.
func LoadFile(path string) (*Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	team, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return team, nil
}

// Parse decodes and validates a team document. Missing tactical settings
// get their defaults.
func Parse(data []byte) (*Team, error) {
	var team Team
	if err := yaml.Unmarshal(data, &team); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	team.applyDefaults()
	if err := team.Validate(); err != nil {
		return nil, err
	}
	return &team, nil
}

// Marshal encodes a team as YAML.
func (t *Team) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode roster: %w", err)
	}
	return data, nil
}

func (t *Team) applyDefaults() {
	if t.Tactic == "" {
		t.Tactic = "balanced"
	}
	if t.Shape == "" {
		t.Shape = "balanced"
	}
	if t.Tempo == "" {
		t.Tempo = TempoNormal
	}
	for i := range t.Players {
		t.Players[i].Instructions = t.Players[i].Instructions.WithDefaults()
	}
}

// Validate checks the line-up shape and attribute ranges. Every failure
// wraps ErrInvalidRoster.
func (t *Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: team name is empty", ErrInvalidRoster)
	}
	if len(t.Players) != TeamSize {
		return fmt.Errorf("%w: %s has %d players, want %d", ErrInvalidRoster, t.Name, len(t.Players), TeamSize)
	}
	switch t.Tempo {
	case "", TempoVerySlow, TempoSlow, TempoNormal, TempoFast, TempoVeryFast:
	default:
		return fmt.Errorf("%w: unknown tempo %q", ErrInvalidRoster, t.Tempo)
	}
	for i := range t.Players {
		p := &t.Players[i]
		if !p.Position.Valid() {
			return fmt.Errorf("%w: player %d (%s) has unknown position %q", ErrInvalidRoster, i, p.Name, p.Position)
		}
		if (i == 0) != (p.Position == PositionGK) {
			return fmt.Errorf("%w: goalkeeper must be in slot 0 only, found %s in slot %d", ErrInvalidRoster, p.Position, i)
		}
		for _, f := range p.Attributes.fields() {
			if f.value < 0 || f.value > 100 {
				return fmt.Errorf("%w: player %d (%s) %s=%v outside 0-100", ErrInvalidRoster, i, p.Name, f.name, f.value)
			}
		}
	}
	return nil
}
