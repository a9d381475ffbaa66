// Package league runs a round-robin competition between rosters on top of
// the match engine and keeps the standings table.
package league

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yellowhama/matchsim/internal/match/engine"
	"github.com/yellowhama/matchsim/internal/match/rng"
	"github.com/yellowhama/matchsim/internal/roster"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAlreadyStarted  = errors.New("league already started")
	ErrNotStarted      = errors.New("league not started")
	ErrDuplicateTeam   = errors.New("team already entered")
	ErrNotEnoughTeams  = errors.New("not enough teams")
	ErrFixtureNotFound = errors.New("fixture not found")
)

// State represents the state of a league
type State int

const (
	StateWaiting State = iota
	StateInProgress
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "WAITING"
	case StateInProgress:
		return "IN_PROGRESS"
	case StateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Points awarded per result.
const (
	PointsWin  = 3
	PointsDraw = 1
)

// Standing is one row of the league table.
type Standing struct {
	Team         string
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Points       int
}

// GoalDifference is goals scored minus goals conceded.
func (s Standing) GoalDifference() int { return s.GoalsFor - s.GoalsAgainst }

// Fixture is a scheduled match. Seed is fixed when the schedule is drawn.
type Fixture struct {
	Round     int
	Home      string
	Away      string
	Seed      uint64
	Played    bool
	HomeGoals int
	AwayGoals int
	MatchID   uuid.UUID
}

// Snapshot captures a consistent view of a league.
type Snapshot struct {
	ID        string
	Name      string
	State     State
	Table     []Standing
	Rounds    [][]Fixture
	StartTime *time.Time
	EndTime   *time.Time
}

// League is a round-robin competition.
type League struct {
	ID     string
	Name   string
	State  State
	Seed   uint64
	Double bool

	teams     map[string]*roster.Team
	order     []string
	standings map[string]*Standing
	rounds    [][]*Fixture
	startTime *time.Time
	endTime   *time.Time
	mu        sync.RWMutex
	logger    *zap.Logger
}

// New creates a league in the waiting state. Double schedules every
// pairing twice with home and away swapped.
func New(name string, seed uint64, double bool, logger *zap.Logger) *League {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &League{
		ID:        uuid.New().String(),
		Name:      name,
		State:     StateWaiting,
		Seed:      seed,
		Double:    double,
		teams:     make(map[string]*roster.Team),
		standings: make(map[string]*Standing),
		logger:    logger,
	}
}

// AddTeam enters a validated roster.
func (l *League) AddTeam(team *roster.Team) error {
	if err := team.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.State != StateWaiting {
		return ErrAlreadyStarted
	}
	if _, exists := l.teams[team.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTeam, team.Name)
	}

	l.teams[team.Name] = team
	l.order = append(l.order, team.Name)
	l.standings[team.Name] = &Standing{Team: team.Name}
	return nil
}

// TeamCount returns the number of entered teams.
func (l *League) TeamCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.teams)
}

// Start draws the schedule and moves the league into progress.
func (l *League) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.State != StateWaiting {
		return ErrAlreadyStarted
	}
	if len(l.teams) < 2 {
		return fmt.Errorf("%w: have %d, need 2", ErrNotEnoughTeams, len(l.teams))
	}

	l.rounds = l.schedule()
	now := time.Now()
	l.startTime = &now
	l.State = StateInProgress

	l.logger.Info("league started",
		zap.String("league_id", l.ID),
		zap.String("name", l.Name),
		zap.Int("teams", len(l.teams)),
		zap.Int("rounds", len(l.rounds)),
	)
	return nil
}

// schedule builds rounds with the circle method. With an odd number of
// teams one side sits out each round.
func (l *League) schedule() [][]*Fixture {
	names := append([]string(nil), l.order...)
	if len(names)%2 == 1 {
		names = append(names, "")
	}
	n := len(names)
	seeds := rng.New(l.Seed)

	var rounds [][]*Fixture
	for r := 0; r < n-1; r++ {
		var round []*Fixture
		for i := 0; i < n/2; i++ {
			home, away := names[i], names[n-1-i]
			if home == "" || away == "" {
				continue
			}
			// Alternate so the fixed team is not always at home.
			if (r+i)%2 == 1 {
				home, away = away, home
			}
			round = append(round, &Fixture{Round: len(rounds) + 1, Home: home, Away: away})
		}
		rounds = append(rounds, round)

		// Rotate every slot but the first.
		last := names[n-1]
		copy(names[2:], names[1:n-1])
		names[1] = last
	}

	if l.Double {
		first := len(rounds)
		for r := 0; r < first; r++ {
			var round []*Fixture
			for _, f := range rounds[r] {
				round = append(round, &Fixture{Round: len(rounds) + 1, Home: f.Away, Away: f.Home})
			}
			rounds = append(rounds, round)
		}
	}

	for _, round := range rounds {
		for _, f := range round {
			f.Seed = seeds.Uint64()
		}
	}
	return rounds
}

// RecordResult applies a finished match to the fixture and the table.
func (l *League) RecordResult(round int, home, away string, homeGoals, awayGoals int, matchID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.State == StateWaiting {
		return ErrNotStarted
	}
	if round <= 0 || round > len(l.rounds) {
		return fmt.Errorf("invalid round number %d", round)
	}

	for _, f := range l.rounds[round-1] {
		if f.Home != home || f.Away != away {
			continue
		}
		if f.Played {
			return fmt.Errorf("fixture %s v %s in round %d already played", home, away, round)
		}
		f.Played = true
		f.HomeGoals = homeGoals
		f.AwayGoals = awayGoals
		f.MatchID = matchID

		h, a := l.standings[home], l.standings[away]
		h.Played++
		a.Played++
		h.GoalsFor += homeGoals
		h.GoalsAgainst += awayGoals
		a.GoalsFor += awayGoals
		a.GoalsAgainst += homeGoals
		switch {
		case homeGoals > awayGoals:
			h.Won++
			h.Points += PointsWin
			a.Lost++
		case awayGoals > homeGoals:
			a.Won++
			a.Points += PointsWin
			h.Lost++
		default:
			h.Drawn++
			a.Drawn++
			h.Points += PointsDraw
			a.Points += PointsDraw
		}

		if l.allPlayed() {
			now := time.Now()
			l.endTime = &now
			l.State = StateFinished
		}
		return nil
	}

	return fmt.Errorf("%w: %s v %s in round %d", ErrFixtureNotFound, home, away, round)
}

func (l *League) allPlayed() bool {
	for _, round := range l.rounds {
		for _, f := range round {
			if !f.Played {
				return false
			}
		}
	}
	return true
}

// Play simulates every remaining fixture round by round. Matches within a
// round run on up to workers goroutines; results are applied in fixture
// order so the table does not depend on scheduling. onResult, when set, is
// called for each finished match from the calling goroutine.
func (l *League) Play(ctx context.Context, cfg engine.Config, workers int, onResult func(*engine.Result)) error {
	l.mu.RLock()
	state := l.State
	rounds := l.rounds
	l.mu.RUnlock()

	if state == StateWaiting {
		return ErrNotStarted
	}
	if workers <= 0 {
		workers = 1
	}

	for _, round := range rounds {
		if err := ctx.Err(); err != nil {
			return err
		}

		results := make([]*engine.Result, len(round))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, f := range round {
			l.mu.RLock()
			played := f.Played
			home, away := l.teams[f.Home], l.teams[f.Away]
			l.mu.RUnlock()
			if played {
				continue
			}

			mc := cfg
			mc.Seed = f.Seed
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				eng, err := engine.New(mc, home, away, l.logger.Named("engine"))
				if err != nil {
					return fmt.Errorf("round %d %s v %s: %w", f.Round, f.Home, f.Away, err)
				}
				results[i] = eng.Run()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, f := range round {
			res := results[i]
			if res == nil {
				continue
			}
			if err := l.RecordResult(f.Round, f.Home, f.Away, res.HomeGoals, res.AwayGoals, res.MatchID); err != nil {
				return err
			}
			if onResult != nil {
				onResult(res)
			}
		}
	}

	l.logger.Info("league finished",
		zap.String("league_id", l.ID),
		zap.String("name", l.Name),
	)
	return nil
}

// Table returns the standings ordered by points, goal difference, goals
// scored and then name.
func (l *League) Table() []Standing {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.table()
}

func (l *League) table() []Standing {
	rows := make([]Standing, 0, len(l.order))
	for _, name := range l.order {
		rows = append(rows, *l.standings[name])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Team < b.Team
	})
	return rows
}

// Snapshot returns a consistent copy of the league state.
func (l *League) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rounds := make([][]Fixture, 0, len(l.rounds))
	for _, r := range l.rounds {
		fixtures := make([]Fixture, 0, len(r))
		for _, f := range r {
			fixtures = append(fixtures, *f)
		}
		rounds = append(rounds, fixtures)
	}

	return Snapshot{
		ID:        l.ID,
		Name:      l.Name,
		State:     l.State,
		Table:     l.table(),
		Rounds:    rounds,
		StartTime: cloneTime(l.startTime),
		EndTime:   cloneTime(l.endTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
