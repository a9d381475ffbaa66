package store

import "time"

// Match is one simulated match with its headline statistics.
type Match struct {
	ID string `gorm:"primaryKey;size:36"`
	// Seed is stored bit-cast to int64 since Postgres has no unsigned bigint.
	Seed        int64
	Home        string `gorm:"size:128"`
	Away        string `gorm:"size:128"`
	HomeGoals   int
	AwayGoals   int
	HomeShots   int
	AwayShots   int
	HomeXG      float64
	AwayXG      float64
	HomePasses  int
	AwayPasses  int
	Possession  float64
	Ticks       int64
	RandomDraws int64
	CreatedAt   time.Time
}

// MatchEvent is one event of a match in publication order.
type MatchEvent struct {
	ID      uint   `gorm:"primaryKey"`
	MatchID string `gorm:"size:36;index:idx_match_seq,priority:1"`
	Seq     int    `gorm:"index:idx_match_seq,priority:2"`
	Tick    int64
	Minute  int
	Type    string `gorm:"size:32;index"`
	Team    string `gorm:"size:8"`
	Player  int
	Target  int
	X       float64
	Y       float64
	Success bool
	Value   float64
	Detail  string `gorm:"size:64"`
}

// Models lists every table for migration.
var Models = []any{&Match{}, &MatchEvent{}}
