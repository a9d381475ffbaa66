package marking

import (
	"cmp"
	"slices"

	"github.com/yellowhama/matchsim/internal/match/geometry"
)

// nearestAttacker returns the closest attacker accepted by keep, or -1.
// Ties go to the lower index. A nil keep accepts every attacker.
func nearestAttacker(from geometry.Vec2, attackers *[TeamSize]geometry.Vec2, keep func(int) bool) int {
	best := -1
	bestDist := 0.0
	for i, p := range attackers {
		if keep != nil && !keep(i) {
			continue
		}
		d := from.Dist(p)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// defendersByDistance orders outfield defenders by distance to pos.
func defendersByDistance(pos geometry.Vec2, defenders *[TeamSize]geometry.Vec2) []int {
	order := make([]int, 0, TeamSize-1)
	for i := 1; i < TeamSize; i++ {
		order = append(order, i)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(defenders[a].Dist(pos), defenders[b].Dist(pos))
	})
	return order
}

// isMarkBroken is true when the marker is more than 10 m from the attacker
// and the attacker lies on the far side of the marker from the ball.
func isMarkBroken(marker, marked, ball geometry.Vec2) bool {
	if marker.Dist(marked) <= markBrokenDistanceM {
		return false
	}
	toMarked := marked.Sub(marker)
	toBall := ball.Sub(marker)
	if toMarked.LengthSq() < 1e-6 || toBall.LengthSq() < 1e-6 {
		return false
	}
	return toMarked.Dot(toBall) < 0
}

// detectRotation reports whether any two attackers exchanged zones since the
// previous tick while both covering more than 5 m.
func detectRotation(cur, prev *[TeamSize]geometry.Zone, curPos, prevPos *[TeamSize]geometry.Vec2) bool {
	for i := 0; i < TeamSize; i++ {
		for j := i + 1; j < TeamSize; j++ {
			swapped := cur[i] == prev[j] && cur[j] == prev[i] && cur[i] != cur[j]
			if !swapped {
				continue
			}
			if curPos[i].Dist(prevPos[i]) > rotationMinMovementM && curPos[j].Dist(prevPos[j]) > rotationMinMovementM {
				return true
			}
		}
	}
	return false
}
