package engine

import (
	"github.com/yellowhama/matchsim/internal/match/geometry"
	"github.com/yellowhama/matchsim/internal/roster"
)

// baseSpots are kickoff positions for a team attacking right, in meters.
var baseSpots = map[roster.Position]geometry.Vec2{
	roster.PositionGK:  {X: 5, Y: 34},
	roster.PositionCB:  {X: 18, Y: 34},
	roster.PositionLB:  {X: 22, Y: 10},
	roster.PositionRB:  {X: 22, Y: 58},
	roster.PositionLWB: {X: 28, Y: 8},
	roster.PositionRWB: {X: 28, Y: 60},
	roster.PositionCDM: {X: 28, Y: 34},
	roster.PositionCM:  {X: 36, Y: 34},
	roster.PositionCAM: {X: 43, Y: 34},
	roster.PositionLM:  {X: 38, Y: 10},
	roster.PositionRM:  {X: 38, Y: 58},
	roster.PositionLW:  {X: 46, Y: 10},
	roster.PositionRW:  {X: 46, Y: 58},
	roster.PositionST:  {X: 49, Y: 34},
	roster.PositionCF:  {X: 47, Y: 34},
}

const duplicateSpreadM = 14.0

// kickoffShape lays a team out in its own half. Players sharing a position
// code are spread across the width around the base spot.
func kickoffShape(team *roster.Team, attacksRight bool) [roster.TeamSize]geometry.Vec2 {
	var out [roster.TeamSize]geometry.Vec2
	counts := make(map[roster.Position]int)
	for _, p := range team.Players {
		counts[p.Position]++
	}
	seen := make(map[roster.Position]int)
	for i, p := range team.Players {
		spot, ok := baseSpots[p.Position]
		if !ok {
			spot = geometry.V(30, geometry.CenterY)
		}
		n := counts[p.Position]
		if n > 1 {
			k := seen[p.Position]
			spot.Y += (float64(k) - float64(n-1)/2) * duplicateSpreadM
		}
		seen[p.Position]++
		out[i] = spot.ClampToField().TeamView(attacksRight)
	}
	return out
}

// kickoffTaker is the most advanced central player, ties to the higher slot.
func kickoffTaker(team *roster.Team) int {
	best, bestX := roster.TeamSize-1, -1.0
	for i, p := range team.Players {
		spot, ok := baseSpots[p.Position]
		if !ok || p.Position.IsWide() {
			continue
		}
		if spot.X >= bestX {
			best, bestX = i, spot.X
		}
	}
	return best
}
