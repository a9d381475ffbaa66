package positioning

import (
	"strings"

	"github.com/yellowhama/matchsim/internal/match/geometry"
)

// OffBallIntent is a richer off-ball objective that can pull a player's
// target away from the role-based position.
type OffBallIntent int

const (
	IntentNone OffBallIntent = iota
	IntentLinkPlayer
	IntentSpaceAttacker
	IntentLurker
	IntentWidthHolder
	IntentShapeHolder
	IntentTrackBack
	IntentScreen
	IntentPressSupport
)

var intentNames = map[OffBallIntent]string{
	IntentNone:          "NONE",
	IntentLinkPlayer:    "LINK_PLAYER",
	IntentSpaceAttacker: "SPACE_ATTACKER",
	IntentLurker:        "LURKER",
	IntentWidthHolder:   "WIDTH_HOLDER",
	IntentShapeHolder:   "SHAPE_HOLDER",
	IntentTrackBack:     "TRACK_BACK",
	IntentScreen:        "SCREEN",
	IntentPressSupport:  "PRESS_SUPPORT",
}

func (i OffBallIntent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsDefensive is true for intents used without the ball.
func (i OffBallIntent) IsDefensive() bool {
	return i == IntentTrackBack || i == IntentScreen || i == IntentPressSupport
}

// Priority ranks intents when several compete for one player.
func (i OffBallIntent) Priority() uint8 {
	switch i {
	case IntentSpaceAttacker:
		return 3
	case IntentLinkPlayer, IntentLurker, IntentScreen, IntentPressSupport, IntentTrackBack, IntentShapeHolder:
		return 2
	case IntentWidthHolder:
		return 1
	default:
		return 0
	}
}

// weightMultiplier scales the blend weight per intent. ok is false for
// IntentNone.
func (i OffBallIntent) weightMultiplier(w float64) (float64, bool) {
	switch i {
	case IntentShapeHolder:
		return min(w*1.3, 0.9), true
	case IntentSpaceAttacker:
		return w * 1.1, true
	case IntentLinkPlayer, IntentLurker:
		return w, true
	case IntentWidthHolder:
		return w * 0.9, true
	case IntentTrackBack, IntentScreen, IntentPressSupport:
		return w * 1.2, true
	default:
		return 0, false
	}
}

// Urgency is how fast a player should reach an off-ball target.
type Urgency int

const (
	UrgencyJog Urgency = iota
	UrgencyWalk
	UrgencySprint
)

// SpeedMPS is the nominal speed for the urgency in meters per second.
func (u Urgency) SpeedMPS() float64 {
	switch u {
	case UrgencyWalk:
		return 2
	case UrgencySprint:
		return 8
	default:
		return 5
	}
}

// OffBallObjective is a timed target for one player.
type OffBallObjective struct {
	Intent     OffBallIntent
	Target     geometry.Vec2
	Urgency    Urgency
	ExpireTick uint64
	Priority   uint8
	Confidence float64
}

// NewOffBallObjective fills in the intent's priority.
func NewOffBallObjective(intent OffBallIntent, target geometry.Vec2, urgency Urgency, expireTick uint64, confidence float64) OffBallObjective {
	return OffBallObjective{
		Intent:     intent,
		Target:     target,
		Urgency:    urgency,
		ExpireTick: expireTick,
		Priority:   intent.Priority(),
		Confidence: confidence,
	}
}

// Expired reports whether the objective has run out at tick.
func (o OffBallObjective) Expired(tick uint64) bool {
	return tick >= o.ExpireTick
}

// Valid reports whether the objective carries an intent.
func (o OffBallObjective) Valid() bool {
	return o.Intent != IntentNone
}

// TacticalPreset names a team shape.
type TacticalPreset int

const (
	PresetBalanced TacticalPreset = iota
	PresetPossession
	PresetHighPress
	PresetCounter
	PresetParkTheBus
)

var presetNames = map[TacticalPreset]string{
	PresetBalanced:   "balanced",
	PresetPossession: "possession",
	PresetHighPress:  "high_press",
	PresetCounter:    "counter",
	PresetParkTheBus: "park_the_bus",
}

func (p TacticalPreset) String() string {
	if name, ok := presetNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePreset resolves a preset name, defaulting to balanced.
func ParsePreset(name string) TacticalPreset {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range presetNames {
		if n == name {
			return p
		}
	}
	return PresetBalanced
}

// ShapeBias controls how strongly off-ball intents and line spacing shape the
// team.
type ShapeBias struct {
	IntentBlendWeight    float64
	DefMidGap            float64
	MidFwdGap            float64
	LineSpacingStrength  float64
	WidthFactor          float64
	PressTriggerDistance float64
	CompactnessTarget    float64
}

// ShapeBiasFor returns the tuned values of a preset.
func ShapeBiasFor(p TacticalPreset) ShapeBias {
	switch p {
	case PresetPossession:
		return ShapeBias{0.6, 12, 12, 0.8, 0.8, 6, 28}
	case PresetHighPress:
		return ShapeBias{0.7, 10, 10, 0.9, 0.5, 12, 25}
	case PresetCounter:
		return ShapeBias{0.4, 18, 20, 0.5, 0.4, 5, 38}
	case PresetParkTheBus:
		return ShapeBias{0.3, 8, 22, 1.0, 0.3, 3, 22}
	default:
		return ShapeBias{0.5, 14, 16, 0.7, 0.6, 8, 32}
	}
}

// BlendWeight derives how far to pull towards an intent target from the
// objective's confidence and the player's distance to it.
func (b ShapeBias) BlendWeight(confidence, distance float64) float64 {
	distMod := 0.7
	switch {
	case distance < 5:
		distMod = 1.0
	case distance < 15:
		distMod = 0.85
	}
	return geometry.Clamp(b.IntentBlendWeight*(0.5+confidence)*distMod, 0, 0.9)
}
