// Package rng provides the single seeded random stream a match draws from.
// Every consumer receives the same *Stream from the engine; no other source of
// randomness is used on the tick path.
package rng

import (
	"math/rand/v2"
)

// Category labels what a draw was spent on.
type Category int

const (
	CategoryTackle Category = iota
	CategorySoftmax
	CategoryLongShot
	CategoryOutcome
	categoryCount
)

var categoryNames = [...]string{
	CategoryTackle:   "tackle",
	CategorySoftmax:  "softmax",
	CategoryLongShot: "long_shot",
	CategoryOutcome:  "outcome",
}

func (c Category) String() string {
	if c >= 0 && c < categoryCount {
		return categoryNames[c]
	}
	return "unknown"
}

// PlayerSlots is the number of players tracked per match.
const PlayerSlots = 22

// Stream is a deterministic PCG generator with per-player draw accounting.
type Stream struct {
	seed  uint64
	r     *rand.Rand
	draws uint64
	usage [PlayerSlots][categoryCount]uint32
}

// New seeds a stream. Two streams created with the same seed produce the
// same sequence.
func New(seed uint64) *Stream {
	return &Stream{
		seed: seed,
		r:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() uint64 { return s.seed }

// Draws returns the total number of values consumed.
func (s *Stream) Draws() uint64 { return s.draws }

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 {
	s.draws++
	return s.r.Float64()
}

// Bool returns true with probability p.
func (s *Stream) Bool(p float64) bool {
	return s.Float64() < p
}

// Uint64 returns a full-width value, used to derive child seeds.
func (s *Stream) Uint64() uint64 {
	s.draws++
	return s.r.Uint64()
}

// IntN returns a value in [0, n).
func (s *Stream) IntN(n int) int {
	s.draws++
	return s.r.IntN(n)
}

// Tracked draws a float and records it against player and category.
// Out-of-range player indices still draw but are not recorded.
func (s *Stream) Tracked(player int, c Category) float64 {
	v := s.Float64()
	if player >= 0 && player < PlayerSlots && c >= 0 && c < categoryCount {
		s.usage[player][c]++
	}
	return v
}

// Usage returns how many tracked draws a player spent on a category.
func (s *Stream) Usage(player int, c Category) uint32 {
	if player < 0 || player >= PlayerSlots || c < 0 || c >= categoryCount {
		return 0
	}
	return s.usage[player][c]
}

// TotalUsage sums tracked draws for a category across all players.
func (s *Stream) TotalUsage(c Category) uint32 {
	if c < 0 || c >= categoryCount {
		return 0
	}
	var total uint32
	for i := range s.usage {
		total += s.usage[i][c]
	}
	return total
}
