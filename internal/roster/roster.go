// Package roster describes the teams fed into a match: players, their
// attributes on a 0-100 scale, individual instructions and team tactics.
package roster

import "errors"

// TeamSize is the number of players in a starting line-up.
const TeamSize = 11

// ErrInvalidRoster is returned when a team fails validation.
var ErrInvalidRoster = errors.New("invalid roster")

// Position is a player's position code, e.g. "GK", "CB" or "ST".
type Position string

const (
	PositionGK  Position = "GK"
	PositionCB  Position = "CB"
	PositionLB  Position = "LB"
	PositionRB  Position = "RB"
	PositionLWB Position = "LWB"
	PositionRWB Position = "RWB"
	PositionCDM Position = "CDM"
	PositionCM  Position = "CM"
	PositionCAM Position = "CAM"
	PositionLM  Position = "LM"
	PositionRM  Position = "RM"
	PositionLW  Position = "LW"
	PositionRW  Position = "RW"
	PositionST  Position = "ST"
	PositionCF  Position = "CF"
)

var knownPositions = map[Position]bool{
	PositionGK: true, PositionCB: true, PositionLB: true, PositionRB: true,
	PositionLWB: true, PositionRWB: true, PositionCDM: true, PositionCM: true,
	PositionCAM: true, PositionLM: true, PositionRM: true, PositionLW: true,
	PositionRW: true, PositionST: true, PositionCF: true,
}

// Valid reports whether p is a known position code.
func (p Position) Valid() bool { return knownPositions[p] }

// IsWide is true for positions that play on a flank.
func (p Position) IsWide() bool {
	switch p {
	case PositionLW, PositionRW, PositionLM, PositionRM, PositionLB, PositionRB, PositionLWB, PositionRWB:
		return true
	}
	return false
}

// Attributes are skill values on a 0-100 scale.
type Attributes struct {
	Finishing    float64 `yaml:"finishing"`
	LongShots    float64 `yaml:"long_shots"`
	Composure    float64 `yaml:"composure"`
	Technique    float64 `yaml:"technique"`
	Passing      float64 `yaml:"passing"`
	Vision       float64 `yaml:"vision"`
	Dribbling    float64 `yaml:"dribbling"`
	Heading      float64 `yaml:"heading"`
	Marking      float64 `yaml:"marking"`
	Tackling     float64 `yaml:"tackling"`
	Positioning  float64 `yaml:"positioning"`
	Anticipation float64 `yaml:"anticipation"`
	Pace         float64 `yaml:"pace"`
	Stamina      float64 `yaml:"stamina"`
	Handling     float64 `yaml:"handling"`
	Reflexes     float64 `yaml:"reflexes"`
}

// fields lists every attribute with its name for validation.
func (a *Attributes) fields() []struct {
	name  string
	value float64
} {
	return []struct {
		name  string
		value float64
	}{
		{"finishing", a.Finishing}, {"long_shots", a.LongShots}, {"composure", a.Composure},
		{"technique", a.Technique}, {"passing", a.Passing}, {"vision", a.Vision},
		{"dribbling", a.Dribbling}, {"heading", a.Heading}, {"marking", a.Marking},
		{"tackling", a.Tackling}, {"positioning", a.Positioning}, {"anticipation", a.Anticipation},
		{"pace", a.Pace}, {"stamina", a.Stamina}, {"handling", a.Handling}, {"reflexes", a.Reflexes},
	}
}

// Normalize maps a 0-100 attribute to 0-1.
func Normalize(v float64) float64 {
	switch {
	case v <= 0:
		return 0
	case v >= 100:
		return 1
	}
	return v / 100
}

// Player is one member of a line-up.
type Player struct {
	Name         string       `yaml:"name"`
	Number       int          `yaml:"number"`
	Position     Position     `yaml:"position"`
	Attributes   Attributes   `yaml:"attributes"`
	Instructions Instructions `yaml:"instructions"`
}

// Team is a named line-up with its tactical settings. Players[0] is the
// goalkeeper; slots 1-4 form the defence, 5-8 midfield and 9-10 attack.
type Team struct {
	Name    string   `yaml:"name"`
	Tactic  string   `yaml:"tactic"`
	Shape   string   `yaml:"shape"`
	Tempo   Tempo    `yaml:"tempo"`
	Players []Player `yaml:"players"`
}
