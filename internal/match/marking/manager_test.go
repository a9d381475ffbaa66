package marking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yellowhama/matchsim/internal/match/geometry"
	"github.com/yellowhama/matchsim/internal/match/transition"
	"go.uber.org/zap/zaptest"
)

const cy = geometry.CenterY

func baseInputs(tick uint64) *Inputs {
	return &Inputs{
		Tick:               tick,
		Ball:               geometry.Center,
		CarrierID:          -1,
		EmergencyThreshold: 0.62,
		DefendingSide:      geometry.Home,
	}
}

func kickoffLineup() ([TeamSize]geometry.Vec2, [TeamSize]geometry.Vec2) {
	var defenders, attackers [TeamSize]geometry.Vec2
	for i := range defenders {
		if i == 0 {
			defenders[i] = geometry.V(5, cy)
		} else {
			defenders[i] = geometry.V(50, cy)
		}
		attackers[i] = geometry.V(60+float64(i), cy)
	}
	return defenders, attackers
}

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager(nil)
	assert.Equal(t, BalancedBudget(), m.Budget())
	assert.Equal(t, geometry.Center, m.LastBallPos())
	for i := 0; i < TeamSize; i++ {
		assert.Equal(t, DefaultMarkState(), m.State(i))
	}
	assert.Equal(t, DefaultMarkState(), m.State(42))
}

func TestSetTactic(t *testing.T) {
	m := NewManager(nil)
	m.SetTactic("high_press")
	assert.Equal(t, RoleBudget{PressBudget: 2, CoverBudget: 1, PressBudgetTemp: 2}, m.Budget())
	m.SetTactic("low_block")
	assert.Equal(t, RoleBudget{PressBudget: 1, CoverBudget: 2, PressBudgetTemp: 1}, m.Budget())
	m.SetTactic("gegenpress")
	assert.Equal(t, BalancedBudget(), m.Budget())
}

func TestPressBonusCapped(t *testing.T) {
	b := HighPressBudget()
	b.ApplyPressBonus(2)
	assert.Equal(t, 2, b.EffectivePressBudget())

	b = BalancedBudget()
	b.ApplyPressBonus(1)
	assert.Equal(t, 2, b.EffectivePressBudget())
	b.ResetTemp()
	assert.Equal(t, 1, b.EffectivePressBudget())
}

func TestBudgetEnforcementDowngradesFurthest(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))
	ball := geometry.V(50, cy)
	defenders := [TeamSize]geometry.Vec2{
		geometry.V(5, cy),
		geometry.V(30, cy),
		geometry.V(35, cy),
		geometry.V(40, cy),
		geometry.V(45, 30),
		geometry.V(45, 38),
		geometry.V(25, 30),
		geometry.V(25, 38),
		geometry.V(15, 30),
		geometry.V(15, 38),
		geometry.V(10, cy),
	}
	m.states[1].IsEmergencyPresser = true
	m.states[2].IsEmergencyPresser = true
	m.states[3].IsEmergencyPresser = true
	m.states[1].IsCover = true
	m.states[4].IsCover = true

	m.enforceBudget(ball, &defenders)

	assert.Equal(t, []int{3}, m.PresserIDs())
	assert.Equal(t, MarkNormal, m.states[1].Mode)
	assert.False(t, m.states[1].IsCover)
	assert.True(t, m.states[4].IsCover)
}

func TestEmergencyTriggerAssignsPresserAndCover(t *testing.T) {
	m := NewManager(nil)
	in := baseInputs(10)
	in.Ball = geometry.V(50, cy)
	in.CarrierID = 15
	in.FreeScore = 0.70
	in.Defenders = [TeamSize]geometry.Vec2{
		geometry.V(5, cy),
		geometry.V(20, cy),
		geometry.V(25, 30),
		geometry.V(25, 38),
		geometry.V(30, 30),
		geometry.V(30, 38),
		geometry.V(35, 30),
		geometry.V(35, 38),
		geometry.V(40, 30),
		geometry.V(40, 38),
		geometry.V(45, cy),
	}
	for i := range in.Attackers {
		in.Attackers[i] = geometry.V(60, cy)
	}

	m.Update(in)

	order := defendersByDistance(in.Ball, &in.Defenders)
	presser := m.State(order[0])
	assert.True(t, presser.IsEmergencyPresser)
	assert.Equal(t, MarkTight, presser.Mode)
	assert.True(t, m.State(order[1]).IsCover)
	assert.Equal(t, 2, m.EffectivePressBudget())
	assert.Contains(t, m.LastTriggers(), TriggerEmergencyFreeCarrier)
}

func TestEmergencyIgnoresCooldown(t *testing.T) {
	m := NewManager(nil)
	defenders, attackers := kickoffLineup()

	in := baseInputs(20)
	in.Defenders, in.Attackers = defenders, attackers
	in.RestartOccurred = true
	in.Restart = geometry.RestartKickOff
	m.Update(in)

	in = baseInputs(21)
	in.Defenders, in.Attackers = defenders, attackers
	in.FreeScore = 0.9
	m.Update(in)

	assert.Len(t, m.PresserIDs(), 1)
	assert.Equal(t, []Trigger{TriggerEmergencyFreeCarrier}, m.LastTriggers())
}

func TestKickoffRestartResetsMarks(t *testing.T) {
	m := NewManager(nil)
	m.states[1].PrimaryMarkID = 5
	m.states[1].IsEmergencyPresser = true
	m.states[1].IsCover = true
	m.states[1].BrokenDurationTicks = 10

	in := baseInputs(20)
	for i := range in.Defenders {
		in.Defenders[i] = geometry.V(50, cy)
		in.Attackers[i] = geometry.V(60, cy)
	}
	in.RestartOccurred = true
	in.Restart = geometry.RestartKickOff
	m.Update(in)

	s := m.State(1)
	assert.False(t, s.IsEmergencyPresser)
	assert.False(t, s.IsCover)
	assert.Zero(t, s.BrokenDurationTicks)
	assert.GreaterOrEqual(t, s.PrimaryMarkID, 0)
	assert.Equal(t, uint64(20), s.LastReassignTick)
	assert.Equal(t, uint64(20), m.State(0).LastReassignTick)
}

func TestKickoffAssignmentsAreUnique(t *testing.T) {
	m := NewManager(nil)
	in := baseInputs(30)
	in.Defenders, in.Attackers = kickoffLineup()
	in.RestartOccurred = true
	in.Restart = geometry.RestartKickOff
	m.Update(in)

	seen := make(map[int]bool)
	for i := 1; i < TeamSize; i++ {
		mark := m.State(i).PrimaryMarkID
		require.GreaterOrEqual(t, mark, 0, "defender %d has no mark", i)
		require.False(t, seen[mark], "duplicate mark %d", mark)
		seen[mark] = true
	}
	assert.Len(t, seen, 10)
	assert.Equal(t, NoMark, m.State(0).PrimaryMarkID)
}

func TestSetPieceRestartBiasesTowardBallCluster(t *testing.T) {
	for _, restart := range []geometry.RestartType{geometry.RestartCorner, geometry.RestartFreeKick, geometry.RestartPenalty} {
		t.Run(restart.String(), func(t *testing.T) {
			m := NewManager(nil)
			in := baseInputs(40)
			in.Ball = geometry.V(5, 5)
			for i := 0; i < TeamSize; i++ {
				if i == 0 {
					in.Defenders[i] = geometry.V(5, cy)
				} else {
					in.Defenders[i] = geometry.V(10+float64(i), 8)
				}
				if i < 6 {
					in.Attackers[i] = geometry.V(12+float64(i), 6)
				} else {
					in.Attackers[i] = geometry.V(90, cy)
				}
			}
			in.RestartOccurred = true
			in.Restart = restart
			m.Update(in)

			seen := make(map[int]bool)
			nearCluster := 0
			for i := 1; i < TeamSize; i++ {
				mark := m.State(i).PrimaryMarkID
				require.GreaterOrEqual(t, mark, 0)
				require.False(t, seen[mark])
				seen[mark] = true
				if mark < 6 {
					nearCluster++
				}
			}
			assert.GreaterOrEqual(t, nearCluster, 6)
		})
	}
}

func brokenMarkScenario() *Inputs {
	in := baseInputs(0)
	in.Ball = geometry.V(40, cy)
	in.Defenders[1] = geometry.V(50, cy)
	in.Attackers[0] = geometry.V(65, cy)
	in.Attackers[1] = geometry.V(52, cy)
	return in
}

func TestMarkBrokenReassignsOnThirdTick(t *testing.T) {
	m := NewManager(nil)
	m.states[1].PrimaryMarkID = 0

	in := brokenMarkScenario()
	in.Tick = 10
	m.Update(in)
	assert.Equal(t, uint8(1), m.State(1).BrokenDurationTicks)

	in.Tick = 11
	m.Update(in)
	assert.Equal(t, uint8(2), m.State(1).BrokenDurationTicks)
	assert.Equal(t, 0, m.State(1).PrimaryMarkID)

	in.Tick = 12
	m.Update(in)
	s := m.State(1)
	assert.Equal(t, 1, s.PrimaryMarkID)
	assert.Zero(t, s.BrokenDurationTicks)
	assert.Equal(t, MarkTight, s.Mode)
	assert.Equal(t, []Trigger{TriggerMarkBroken}, m.LastTriggers())
}

func TestMarkBrokenCounterResetsWhenFixed(t *testing.T) {
	m := NewManager(nil)
	m.states[1].PrimaryMarkID = 0

	in := brokenMarkScenario()
	in.Tick = 10
	m.Update(in)
	in.Tick = 11
	m.Update(in)
	require.Equal(t, uint8(2), m.State(1).BrokenDurationTicks)

	in.Tick = 12
	in.Attackers[0] = geometry.V(55, cy)
	m.Update(in)
	assert.Zero(t, m.State(1).BrokenDurationTicks)
	assert.Equal(t, 0, m.State(1).PrimaryMarkID)
}

func TestIsMarkBroken(t *testing.T) {
	assert.True(t, isMarkBroken(geometry.V(50, cy), geometry.V(65, cy), geometry.V(40, cy)))
	assert.False(t, isMarkBroken(geometry.V(50, cy), geometry.V(65, cy), geometry.V(70, cy)))
	assert.False(t, isMarkBroken(geometry.V(50, cy), geometry.V(55, cy), geometry.V(40, cy)))
	assert.False(t, isMarkBroken(geometry.V(50, cy), geometry.V(65, cy), geometry.V(50, cy)))
}

func TestCooldownBlocksGatedTriggers(t *testing.T) {
	m := NewManager(nil)
	defenders, attackers := kickoffLineup()

	in := baseInputs(20)
	in.Defenders, in.Attackers = defenders, attackers
	in.RestartOccurred = true
	in.Restart = geometry.RestartKickOff
	m.Update(in)

	in = baseInputs(22)
	in.Defenders, in.Attackers = defenders, attackers
	in.PossessionChanged = true
	m.Update(in)
	assert.Empty(t, m.LastTriggers())
	assert.Equal(t, MarkNormal, m.State(1).Mode)

	in.Tick = 28
	m.Update(in)
	assert.Equal(t, []Trigger{TriggerPossessionChange}, m.LastTriggers())
	assert.Equal(t, MarkLoose, m.State(1).Mode)
}

func TestTransitionBonusOnlyForTeamThatLostBall(t *testing.T) {
	lost := NewManager(nil)
	won := NewManager(nil)
	lost.states[1].PrimaryMarkID = 0
	won.states[1].PrimaryMarkID = 0

	window := transition.State{Active: true, RemainingMs: 3000, TeamLostBall: geometry.Home}
	defenders, attackers := kickoffLineup()

	in := baseInputs(50)
	in.Defenders, in.Attackers = defenders, attackers
	in.Transition = window
	in.DefendingSide = geometry.Home
	lost.Update(in)

	in = baseInputs(50)
	in.Defenders, in.Attackers = defenders, attackers
	in.Transition = window
	in.DefendingSide = geometry.Away
	won.Update(in)

	assert.Equal(t, lost.Budget().PressBudget+1, lost.EffectivePressBudget())
	assert.Equal(t, won.Budget().PressBudget, won.EffectivePressBudget())
	assert.Equal(t, MarkLoose, lost.State(1).Mode)
	assert.Equal(t, MarkNormal, won.State(1).Mode)

	in = baseInputs(51)
	in.Defenders, in.Attackers = defenders, attackers
	lost.Update(in)
	assert.Equal(t, MarkNormal, lost.State(1).Mode)
	assert.Equal(t, lost.Budget().PressBudget, lost.EffectivePressBudget())
}

func TestBudgetInvariantHoldsAcrossTicks(t *testing.T) {
	m := NewManager(nil)
	m.SetTactic("low_block")
	defenders, attackers := kickoffLineup()
	for tick := uint64(1); tick <= 40; tick++ {
		in := baseInputs(tick)
		in.Defenders, in.Attackers = defenders, attackers
		in.Ball = geometry.V(30+float64(tick), cy)
		in.FreeScore = float64(tick%5) / 4
		in.PossessionChanged = tick%7 == 0
		m.Update(in)

		pressers, covers := 0, 0
		for _, s := range m.States() {
			if s.IsEmergencyPresser {
				pressers++
			}
			if s.IsCover {
				covers++
			}
		}
		require.LessOrEqual(t, pressers, m.EffectivePressBudget(), "tick %d", tick)
		require.LessOrEqual(t, covers, m.Budget().CoverBudget, "tick %d", tick)
	}
}

func TestBallSwitchReassignsNearBallDefenders(t *testing.T) {
	m := NewManager(nil)
	in := baseInputs(100)
	in.Ball = geometry.V(90, 10)
	in.Defenders[1] = geometry.V(85, 12)
	in.Defenders[2] = geometry.V(40, 50)
	in.Attackers[3] = geometry.V(88, 14)
	for i := range in.Attackers {
		if i != 3 {
			in.Attackers[i] = geometry.V(20, 60)
		}
	}
	m.Update(in)

	assert.Equal(t, []Trigger{TriggerBallSwitch}, m.LastTriggers())
	assert.Equal(t, 3, m.State(1).PrimaryMarkID)
	assert.Equal(t, NoMark, m.State(2).PrimaryMarkID)
	assert.Equal(t, MarkNormal, m.State(1).Mode)
}

func TestRotationDetection(t *testing.T) {
	var prevZones, curZones [TeamSize]geometry.Zone
	var prevPos, curPos [TeamSize]geometry.Vec2
	for i := range prevPos {
		prevPos[i] = geometry.V(50, cy)
		curPos[i] = prevPos[i]
	}
	prevPos[2] = geometry.V(60, 10)
	prevPos[5] = geometry.V(60, 60)
	curPos[2] = geometry.V(60, 60)
	curPos[5] = geometry.V(60, 10)
	for i := range prevPos {
		prevZones[i] = geometry.ZoneOf(prevPos[i])
		curZones[i] = geometry.ZoneOf(curPos[i])
	}
	assert.True(t, detectRotation(&curZones, &prevZones, &curPos, &prevPos))

	curPos[5] = geometry.V(60, 10)
	prevPos[5] = geometry.V(60, 12)
	prevZones[5] = geometry.ZoneOf(prevPos[5])
	prevZones[2] = curZones[5]
	assert.False(t, detectRotation(&curZones, &prevZones, &curPos, &prevPos))
}
