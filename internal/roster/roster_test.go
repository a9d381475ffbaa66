package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	team := Default("Reds", 70)
	require.NoError(t, team.Validate())
	assert.Len(t, team.Players, TeamSize)
	assert.Equal(t, PositionGK, team.Players[0].Position)
	assert.Equal(t, MentalityBalanced, team.Players[5].Instructions.Mentality)
}

func TestDefaultClampsAttributes(t *testing.T) {
	team := Default("Blues", 98)
	require.NoError(t, team.Validate())
	assert.Equal(t, 100.0, team.Players[9].Attributes.Finishing)
}

func TestParseRoundTripsThroughYAML(t *testing.T) {
	data, err := Default("Greens", 60).Marshal()
	require.NoError(t, err)

	team, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "Greens", team.Name)
	assert.Equal(t, PositionST, team.Players[10].Position)
}

func TestParseAppliesDefaults(t *testing.T) {
	var b strings.Builder
	b.WriteString("name: Minimal\nplayers:\n")
	b.WriteString("  - {name: Keeper, position: GK}\n")
	for i := 1; i < TeamSize; i++ {
		b.WriteString("  - {name: Outfield, position: CM, instructions: {shooting: shoot_on_sight}}\n")
	}

	team, err := Parse([]byte(b.String()))
	require.NoError(t, err)
	assert.Equal(t, "balanced", team.Tactic)
	assert.Equal(t, TempoNormal, team.Tempo)
	assert.Equal(t, ShootingOnSight, team.Players[3].Instructions.Shooting)
	assert.Equal(t, PassingMixed, team.Players[3].Instructions.Passing)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Team)
		want   string
	}{
		{"short squad", func(t *Team) { t.Players = t.Players[:10] }, "has 10 players"},
		{"no name", func(t *Team) { t.Name = " " }, "name is empty"},
		{"keeper out of goal", func(t *Team) { t.Players[0].Position = PositionCB }, "goalkeeper"},
		{"second keeper", func(t *Team) { t.Players[4].Position = PositionGK }, "goalkeeper"},
		{"unknown position", func(t *Team) { t.Players[3].Position = "XX" }, "unknown position"},
		{"attribute range", func(t *Team) { t.Players[2].Attributes.Pace = 101 }, "pace=101"},
		{"tempo", func(t *Team) { t.Tempo = "warp" }, "unknown tempo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team := Default("Reds", 70)
			tt.mutate(team)
			err := team.Validate()
			require.ErrorIs(t, err, ErrInvalidRoster)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	data, err := Default("Whites", 65).Marshal()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "whites.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	team, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Whites", team.Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTempoFactor(t *testing.T) {
	assert.Equal(t, 0.2, TempoVerySlow.Factor())
	assert.Equal(t, 0.6, Tempo("").Factor())
	assert.Equal(t, 1.0, TempoVeryFast.Factor())
}
