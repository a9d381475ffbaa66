// Package marking assigns each defender an attacker to mark and decides which
// defenders press or cover, reacting to a fixed set of game triggers.
package marking

import (
	"cmp"
	"math"
	"slices"

	"github.com/yellowhama/matchsim/internal/match/geometry"
	"github.com/yellowhama/matchsim/internal/match/transition"
	"go.uber.org/zap"
)

// TeamSize is the number of players per side.
const TeamSize = 11

const (
	// DefaultReassignCooldownTicks is two seconds at 250 ms per tick.
	DefaultReassignCooldownTicks = 8

	markBrokenDistanceM       = 10.0
	markBrokenTriggerTicks    = 3
	markBrokenMaxReassigns    = 4
	rotationMinMovementM      = 5.0
	ballSwitchDistanceM       = 25.0
	ballSwitchReassignRadiusM = 20.0
	setPieceRadiusM           = 25.0
)

// Inputs is the per-tick view a defending team's manager works from.
// Index 0 of both position arrays is the goalkeeper.
type Inputs struct {
	Tick               uint64
	Ball               geometry.Vec2
	CarrierID          int
	Defenders          [TeamSize]geometry.Vec2
	Attackers          [TeamSize]geometry.Vec2
	FreeScore          float64
	EmergencyThreshold float64
	PossessionChanged  bool
	DefendingSide      geometry.Side
	Transition         transition.State
	RestartOccurred    bool
	Restart            geometry.RestartType
}

// Manager owns the mark states of one defending team.
type Manager struct {
	states        [TeamSize]MarkState
	budget        RoleBudget
	cooldownTicks uint64
	lastBallPos   geometry.Vec2
	prevZones     [TeamSize]geometry.Zone
	prevPositions [TeamSize]geometry.Vec2
	lastTriggers  []Trigger
	logger        *zap.Logger
}

// NewManager creates a manager with a balanced budget.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		budget:        BalancedBudget(),
		cooldownTicks: DefaultReassignCooldownTicks,
		lastBallPos:   geometry.Center,
		logger:        logger,
	}
	for i := range m.states {
		m.states[i] = DefaultMarkState()
	}
	return m
}

// SetTactic selects the budget by tactic name.
func (m *Manager) SetTactic(tactic string) {
	m.budget = BudgetForTactic(tactic)
}

// SetCooldown overrides the reassignment cooldown.
func (m *Manager) SetCooldown(ticks uint64) {
	m.cooldownTicks = ticks
}

// Budget returns the current role budget.
func (m *Manager) Budget() RoleBudget {
	return m.budget
}

// EffectivePressBudget is the number of pressers allowed this tick.
func (m *Manager) EffectivePressBudget() int {
	return m.budget.EffectivePressBudget()
}

// State returns a copy of one defender's state. Out-of-range indices yield
// the default state.
func (m *Manager) State(i int) MarkState {
	if i < 0 || i >= TeamSize {
		return DefaultMarkState()
	}
	return m.states[i]
}

// States returns a copy of all mark states.
func (m *Manager) States() [TeamSize]MarkState {
	return m.states
}

// LastBallPos is the ball position seen on the previous update.
func (m *Manager) LastBallPos() geometry.Vec2 {
	return m.lastBallPos
}

// LastTriggers lists the triggers executed on the most recent update.
func (m *Manager) LastTriggers() []Trigger {
	return slices.Clone(m.lastTriggers)
}

// PresserIDs returns the indices of the current emergency pressers.
func (m *Manager) PresserIDs() []int {
	var ids []int
	for i, s := range m.states {
		if s.IsEmergencyPresser {
			ids = append(ids, i)
		}
	}
	return ids
}

// Update runs one tick: budgets, mark tightness, broken-mark tracking,
// trigger detection and execution, then budget enforcement.
func (m *Manager) Update(in *Inputs) {
	m.budget.ResetTemp()
	transitionDefense := in.Transition.LostBall(in.DefendingSide)
	emergency := in.FreeScore >= in.EmergencyThreshold

	bonus := 0
	if transitionDefense {
		bonus++
	}
	if emergency {
		bonus++
	}
	m.budget.ApplyPressBonus(bonus)

	for i := 1; i < TeamSize; i++ {
		s := &m.states[i]
		if transitionDefense {
			if s.Mode != MarkTight {
				s.Mode = MarkLoose
			}
		} else if s.Mode == MarkLoose {
			s.Mode = MarkNormal
		}
	}

	m.updateBrokenDurations(in)

	var zones [TeamSize]geometry.Zone
	for i, p := range in.Attackers {
		zones[i] = geometry.ZoneOf(p)
	}
	rotation := detectRotation(&zones, &m.prevZones, &in.Attackers, &m.prevPositions)

	triggers := m.detectTriggers(in, rotation, emergency)
	m.lastTriggers = m.lastTriggers[:0]
	for _, t := range triggers {
		if !m.canReassign(in.Tick, t) {
			continue
		}
		m.execute(t, in)
		m.lastTriggers = append(m.lastTriggers, t)
		m.logger.Debug("marking trigger executed",
			zap.String("trigger", t.String()),
			zap.String("side", in.DefendingSide.String()),
			zap.Uint64("tick", in.Tick),
		)
	}

	m.enforceBudget(in.Ball, &in.Defenders)

	m.lastBallPos = in.Ball
	m.prevZones = zones
	m.prevPositions = in.Attackers
}

// detectTriggers returns the applicable triggers in evaluation order.
func (m *Manager) detectTriggers(in *Inputs, rotation, emergency bool) []Trigger {
	triggers := make([]Trigger, 0, 6)
	if in.RestartOccurred {
		triggers = append(triggers, TriggerKickoffRestart)
	}
	if emergency {
		triggers = append(triggers, TriggerEmergencyFreeCarrier)
	}
	if in.PossessionChanged {
		triggers = append(triggers, TriggerPossessionChange)
	}
	for i := 1; i < TeamSize; i++ {
		if m.states[i].BrokenDurationTicks >= markBrokenTriggerTicks {
			triggers = append(triggers, TriggerMarkBroken)
			break
		}
	}
	if rotation {
		triggers = append(triggers, TriggerRotationDetected)
	}
	if in.Ball.Dist(m.lastBallPos) > ballSwitchDistanceM {
		triggers = append(triggers, TriggerBallSwitch)
	}
	return triggers
}

// canReassign applies the team-wide cooldown gate: any defender still inside
// its cooldown blocks every gated trigger.
func (m *Manager) canReassign(tick uint64, t Trigger) bool {
	if t.IgnoresCooldown() {
		return true
	}
	for _, s := range m.states {
		if tick < s.LastReassignTick+m.cooldownTicks {
			return false
		}
	}
	return true
}

func (m *Manager) execute(t Trigger, in *Inputs) {
	switch t {
	case TriggerKickoffRestart:
		m.kickoffRestart(in)
	case TriggerEmergencyFreeCarrier:
		m.emergencyPresser(in)
	case TriggerPossessionChange:
		m.possessionChange(in)
	case TriggerMarkBroken:
		m.markBroken(in)
	case TriggerRotationDetected:
		m.rotationDetected(in)
	case TriggerBallSwitch:
		m.ballSwitch(in)
	}
}

func (m *Manager) resetAllMarks(tick uint64) {
	for i := range m.states {
		m.states[i] = DefaultMarkState()
		m.states[i].LastReassignTick = tick
	}
}

func (m *Manager) assign(def, att int, mode MarkMode, tick uint64) {
	s := &m.states[def]
	s.PrimaryMarkID = att
	s.Mode = mode
	s.LastReassignTick = tick
}

func (m *Manager) kickoffRestart(in *Inputs) {
	m.resetAllMarks(in.Tick)
	var taken [TeamSize]bool

	if !in.Restart.IsSetPiece() {
		for def := 1; def < TeamSize; def++ {
			att := nearestAttacker(in.Defenders[def], &in.Attackers, func(a int) bool { return !taken[a] })
			if att >= 0 {
				taken[att] = true
				m.assign(def, att, MarkNormal, in.Tick)
			}
		}
		return
	}

	defenders := make([]int, 0, TeamSize-1)
	for i := 1; i < TeamSize; i++ {
		defenders = append(defenders, i)
	}
	slices.SortStableFunc(defenders, func(a, b int) int {
		return cmp.Compare(in.Defenders[a].Dist(in.Ball), in.Defenders[b].Dist(in.Ball))
	})

	for _, def := range defenders {
		att := nearestAttacker(in.Defenders[def], &in.Attackers, func(a int) bool {
			return !taken[a] && in.Attackers[a].Dist(in.Ball) <= setPieceRadiusM
		})
		if att < 0 {
			att = nearestAttacker(in.Defenders[def], &in.Attackers, func(a int) bool { return !taken[a] })
		}
		if att >= 0 {
			taken[att] = true
			m.assign(def, att, MarkNormal, in.Tick)
		}
	}
}

func (m *Manager) markBroken(in *Inputs) {
	broken := make([]int, 0, TeamSize-1)
	for i := 1; i < TeamSize; i++ {
		if m.states[i].BrokenDurationTicks >= markBrokenTriggerTicks {
			broken = append(broken, i)
		}
	}
	if len(broken) == 0 {
		return
	}
	slices.SortStableFunc(broken, func(a, b int) int {
		return int(m.states[b].BrokenDurationTicks) - int(m.states[a].BrokenDurationTicks)
	})
	if len(broken) > markBrokenMaxReassigns {
		broken = broken[:markBrokenMaxReassigns]
	}

	var counts [TeamSize]int
	for def, s := range m.states {
		if slices.Contains(broken, def) || !s.HasMark() {
			continue
		}
		counts[s.PrimaryMarkID]++
	}

	for _, def := range broken {
		att := nearestAttacker(in.Defenders[def], &in.Attackers, func(a int) bool { return counts[a] == 0 })
		if att < 0 {
			att = nearestAttacker(in.Defenders[def], &in.Attackers, nil)
		}
		if att < 0 {
			continue
		}
		m.assign(def, att, MarkTight, in.Tick)
		m.states[def].BrokenDurationTicks = 0
		counts[att]++
	}
}

func (m *Manager) rotationDetected(in *Inputs) {
	var zones [TeamSize]geometry.Zone
	for i, p := range in.Attackers {
		zones[i] = geometry.ZoneOf(p)
	}
	for def := 1; def < TeamSize; def++ {
		defZone := geometry.ZoneOf(in.Defenders[def])
		att := nearestAttacker(in.Defenders[def], &in.Attackers, func(a int) bool {
			return defZone.Chebyshev(zones[a]) <= 1
		})
		if att < 0 {
			att = nearestAttacker(in.Defenders[def], &in.Attackers, nil)
		}
		if att < 0 {
			continue
		}
		m.assign(def, att, MarkNormal, in.Tick)
		m.states[def].BrokenDurationTicks = 0
	}
}

func (m *Manager) emergencyPresser(in *Inputs) {
	for i := range m.states {
		m.states[i].IsEmergencyPresser = false
		m.states[i].IsCover = false
	}

	order := defendersByDistance(in.Ball, &in.Defenders)
	if len(order) == 0 {
		return
	}
	presser := &m.states[order[0]]
	presser.IsEmergencyPresser = true
	presser.Mode = MarkTight
	presser.LastReassignTick = in.Tick

	if m.budget.CoverBudget > 0 && len(order) > 1 {
		cover := &m.states[order[1]]
		cover.IsCover = true
		cover.Mode = MarkNormal
		cover.LastReassignTick = in.Tick
	}
}

func (m *Manager) possessionChange(in *Inputs) {
	for def := 1; def < TeamSize; def++ {
		if att := nearestAttacker(in.Defenders[def], &in.Attackers, nil); att >= 0 {
			m.assign(def, att, MarkLoose, in.Tick)
		}
	}
}

func (m *Manager) ballSwitch(in *Inputs) {
	for def := 1; def < TeamSize; def++ {
		if in.Defenders[def].Dist(in.Ball) >= ballSwitchReassignRadiusM {
			continue
		}
		if att := nearestAttacker(in.Defenders[def], &in.Attackers, nil); att >= 0 {
			m.states[def].PrimaryMarkID = att
			m.states[def].LastReassignTick = in.Tick
		}
	}
}

func (m *Manager) updateBrokenDurations(in *Inputs) {
	for def := 1; def < TeamSize; def++ {
		s := &m.states[def]
		if s.IsEmergencyPresser || s.IsCover || !s.HasMark() {
			s.BrokenDurationTicks = 0
			continue
		}
		if isMarkBroken(in.Defenders[def], in.Attackers[s.PrimaryMarkID], in.Ball) {
			if s.BrokenDurationTicks < math.MaxUint8 {
				s.BrokenDurationTicks++
			}
		} else {
			s.BrokenDurationTicks = 0
		}
	}
}

// enforceBudget downgrades the pressers and covers furthest from the ball
// until both counts fit the budget.
func (m *Manager) enforceBudget(ball geometry.Vec2, defenders *[TeamSize]geometry.Vec2) {
	byDistanceDesc := func(idx []int) {
		slices.SortStableFunc(idx, func(a, b int) int {
			return cmp.Compare(defenders[b].Dist(ball), defenders[a].Dist(ball))
		})
	}

	var pressers, covers []int
	for i, s := range m.states {
		if s.IsEmergencyPresser {
			pressers = append(pressers, i)
		}
		if s.IsCover {
			covers = append(covers, i)
		}
	}

	if limit := m.budget.EffectivePressBudget(); len(pressers) > limit {
		byDistanceDesc(pressers)
		for _, i := range pressers[:len(pressers)-limit] {
			m.states[i].IsEmergencyPresser = false
			m.states[i].Mode = MarkNormal
		}
	}
	if limit := m.budget.CoverBudget; len(covers) > limit {
		byDistanceDesc(covers)
		for _, i := range covers[:len(covers)-limit] {
			m.states[i].IsCover = false
		}
	}
}
