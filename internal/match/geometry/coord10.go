package geometry

import "math"

// Coord10 is a fixed-point pitch position in 0.1 m units.
type Coord10 struct {
	X int32 `msgpack:"x"`
	Y int32 `msgpack:"y"`
}

const coordScale = 10.0

// Coord10Center is the kickoff spot in fixed point.
var Coord10Center = Coord10{X: 525, Y: 340}

// FromMeters rounds a meter position to the nearest 0.1 m.
func FromMeters(v Vec2) Coord10 {
	return Coord10{
		X: int32(math.Round(v.X * coordScale)),
		Y: int32(math.Round(v.Y * coordScale)),
	}
}

// Meters converts back to meters.
func (c Coord10) Meters() Vec2 {
	return Vec2{X: float64(c.X) / coordScale, Y: float64(c.Y) / coordScale}
}

// DistanceTo returns the rounded distance in 0.1 m units.
func (c Coord10) DistanceTo(o Coord10) int32 {
	dx := float64(c.X - o.X)
	dy := float64(c.Y - o.Y)
	return int32(math.Round(math.Sqrt(dx*dx + dy*dy)))
}

// DistanceM returns the distance in meters.
func (c Coord10) DistanceM(o Coord10) float64 {
	return float64(c.DistanceTo(o)) / coordScale
}
