package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yellowhama/matchsim/internal/match/engine"
	"github.com/yellowhama/matchsim/internal/roster"
	"go.uber.org/zap/zaptest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "matches.db")}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func runMatch(t *testing.T, seed uint64) *engine.Result {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Seed = seed
	cfg.TicksPerHalf = 100
	e, err := engine.New(cfg, roster.Default("Reds", 70), roster.Default("Blues", 70), nil)
	require.NoError(t, err)
	return e.Run()
}

func TestSaveAndLoadResult(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	res := runMatch(t, 1)

	require.NoError(t, s.SaveResult(ctx, res))

	m, err := s.GetMatch(ctx, res.MatchID.String())
	require.NoError(t, err)
	assert.Equal(t, "Reds", m.Home)
	assert.Equal(t, "Blues", m.Away)
	assert.Equal(t, res.HomeGoals, m.HomeGoals)
	assert.Equal(t, res.AwayGoals, m.AwayGoals)
	assert.Equal(t, uint64(1), uint64(m.Seed))
	assert.Equal(t, int64(res.Ticks), m.Ticks)

	events, err := s.ListEvents(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, events, len(res.Events))
	for i, ev := range events {
		assert.Equal(t, i, ev.Seq)
		assert.Equal(t, string(res.Events[i].Type), ev.Type)
	}
	assert.Equal(t, string(engine.EventKickoff), events[0].Type)
	assert.Equal(t, string(engine.EventFullTime), events[len(events)-1].Type)
}

func TestSeedAboveInt64Survives(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	res := runMatch(t, 1<<63+5)

	require.NoError(t, s.SaveResult(ctx, res))
	m, err := s.GetMatch(ctx, res.MatchID.String())
	require.NoError(t, err)
	assert.Equal(t, res.Seed, uint64(m.Seed))
}

func TestGetMatchNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetMatch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveResultTwiceFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	res := runMatch(t, 2)

	require.NoError(t, s.SaveResult(ctx, res))
	assert.Error(t, s.SaveResult(ctx, res))

	events, err := s.ListEvents(ctx, res.MatchID.String())
	require.NoError(t, err)
	assert.Len(t, events, len(res.Events))
}

func TestListMatches(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for seed := uint64(1); seed <= 3; seed++ {
		require.NoError(t, s.SaveResult(ctx, runMatch(t, seed)))
	}

	all, err := s.ListMatches(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	two, err := s.ListMatches(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mongo"}, nil)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
