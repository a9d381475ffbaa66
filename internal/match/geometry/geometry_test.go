package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoord10RoundTrip(t *testing.T) {
	c := FromMeters(V(52.54, 33.96))
	assert.Equal(t, Coord10{X: 525, Y: 340}, c)
	assert.Equal(t, Coord10Center, FromMeters(Center))
	assert.InDelta(t, 52.5, c.Meters().X, 1e-9)
}

func TestCoord10Distance(t *testing.T) {
	a := Coord10{X: 0, Y: 0}
	b := Coord10{X: 30, Y: 40}
	assert.Equal(t, int32(50), a.DistanceTo(b))
	assert.InDelta(t, 5.0, a.DistanceM(b), 1e-9)
}

func TestTeamViewAndGoalDistance(t *testing.T) {
	p := V(100, 34)
	assert.InDelta(t, 5.0, p.DistanceToGoal(true), 1e-9)
	assert.InDelta(t, 100.0, p.DistanceToGoal(false), 1e-9)
	assert.Equal(t, V(5, 34), p.TeamView(false))
	assert.True(t, p.InAttackingThird(true))
	assert.False(t, p.InAttackingThird(false))
}

func TestGoodShootingAngle(t *testing.T) {
	assert.True(t, V(90, 34).GoodShootingAngle())
	assert.True(t, V(90, 20).GoodShootingAngle())
	assert.False(t, V(90, 5).GoodShootingAngle())
	assert.False(t, V(90, 60).GoodShootingAngle())
}

func TestZoneOf(t *testing.T) {
	tests := []struct {
		pos  Vec2
		want Zone
	}{
		{V(10, 10), Zone{0, 0}},
		{V(30, 34), Zone{1, 1}},
		{V(60, 50), Zone{2, 2}},
		{V(100, 5), Zone{3, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ZoneOf(tt.pos))
	}
	assert.Equal(t, 1, Zone{1, 1}.Chebyshev(Zone{2, 2}))
	assert.Equal(t, 3, Zone{0, 0}.Chebyshev(Zone{3, 1}))
}

func TestChannels(t *testing.T) {
	assert.Equal(t, 0, V(50, 1).Channel())
	assert.Equal(t, 2, V(50, 34).Channel())
	assert.Equal(t, 4, V(50, 68).Channel())
	assert.InDelta(t, 6.8, ChannelCenterY(0), 1e-9)
	assert.InDelta(t, 61.2, ChannelCenterY(4), 1e-9)
}

func TestRestartSetPiece(t *testing.T) {
	assert.True(t, RestartCorner.IsSetPiece())
	assert.True(t, RestartPenalty.IsSetPiece())
	assert.False(t, RestartKickOff.IsSetPiece())
	assert.Equal(t, "CORNER", RestartCorner.String())
	assert.Equal(t, 11, Away.Offset())
	assert.Equal(t, Home, Away.Opponent())
}
