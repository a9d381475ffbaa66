// Package geometry holds pitch constants and the coordinate forms shared by
// the tactical subsystems: meters, 0.1 m fixed point, normalized and team view.
package geometry

import "math"

// Pitch dimensions in meters.
const (
	FieldLength = 105.0
	FieldWidth  = 68.0
	CenterX     = FieldLength / 2
	CenterY     = FieldWidth / 2

	// PenaltyAreaDepth is the distance from the goal line to the edge of the box.
	PenaltyAreaDepth = 16.5

	// ChannelCount splits the pitch width into lanes for width holding.
	ChannelCount = 5
	ChannelWidth = FieldWidth / ChannelCount
)

// Vec2 is a position or direction on the pitch in meters.
type Vec2 struct {
	X float64 `msgpack:"x" json:"x"`
	Y float64 `msgpack:"y" json:"y"`
}

// Center is the kickoff spot.
var Center = Vec2{X: CenterX, Y: CenterY}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Length() float64 { return math.Sqrt(v.LengthSq()) }
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Length() }
func (v Vec2) DistSq(o Vec2) float64 { return v.Sub(o).LengthSq() }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Normalized returns the unit vector, or the zero vector when v is zero.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Clamp restricts x and y to the given inclusive ranges.
func (v Vec2) Clamp(minX, maxX, minY, maxY float64) Vec2 {
	return Vec2{Clamp(v.X, minX, maxX), Clamp(v.Y, minY, maxY)}
}

// ClampToField keeps v on the pitch.
func (v Vec2) ClampToField() Vec2 {
	return v.Clamp(0, FieldLength, 0, FieldWidth)
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ToNormalized converts meters into (width, length) fractions of the pitch.
// Width runs along y and length along x.
func (v Vec2) ToNormalized() (width, length float64) {
	return v.Y / FieldWidth, v.X / FieldLength
}

// FromNormalized is the inverse of ToNormalized.
func FromNormalized(width, length float64) Vec2 {
	return Vec2{X: length * FieldLength, Y: width * FieldWidth}
}

// TeamView mirrors x so that forward is always increasing x for the team.
func (v Vec2) TeamView(attacksRight bool) Vec2 {
	if attacksRight {
		return v
	}
	return Vec2{X: FieldLength - v.X, Y: v.Y}
}

// DistanceToGoal is the distance in meters to the centre of the goal the
// team attacks.
func (v Vec2) DistanceToGoal(attacksRight bool) float64 {
	return v.TeamView(attacksRight).Dist(Vec2{X: FieldLength, Y: CenterY})
}

// InAttackingThird reports whether v lies in the final third for the team.
func (v Vec2) InAttackingThird(attacksRight bool) bool {
	_, length := v.TeamView(attacksRight).ToNormalized()
	return length > 2.0/3.0
}

// InOwnHalf reports whether v lies in the half the team defends.
func (v Vec2) InOwnHalf(attacksRight bool) bool {
	return v.TeamView(attacksRight).X < CenterX
}

// GoalCenter returns the centre of the goal the team attacks.
func GoalCenter(attacksRight bool) Vec2 {
	if attacksRight {
		return Vec2{X: FieldLength, Y: CenterY}
	}
	return Vec2{X: 0, Y: CenterY}
}

// GoodShootingAngle is true when the lateral position is within a quarter of
// the pitch width of the centre line.
func (v Vec2) GoodShootingAngle() bool {
	width, _ := v.ToNormalized()
	return math.Abs(width-0.5) < 0.25
}

// Channel returns the width lane index in [0, ChannelCount).
func (v Vec2) Channel() int {
	c := int(v.Y / ChannelWidth)
	if c < 0 {
		return 0
	}
	if c >= ChannelCount {
		return ChannelCount - 1
	}
	return c
}

// ChannelCenterY returns the y centre of the given lane.
func ChannelCenterY(channel int) float64 {
	return (float64(channel) + 0.5) * ChannelWidth
}
