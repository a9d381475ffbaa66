package replay

import (
	"compress/gzip"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/yellowhama/matchsim/internal/match/geometry"
	"go.uber.org/zap/zaptest"
)

func frameAt(tick uint64) Frame {
	f := Frame{
		Tick:   tick,
		Ball:   geometry.Coord10{X: int32(500 + tick), Y: 340},
		Holder: int(tick % 22),
	}
	for i := range f.Positions {
		f.Positions[i] = geometry.Coord10{X: int32(i * 40), Y: int32(100 + i)}
	}
	return f
}

func TestNewReplay(t *testing.T) {
	r := New("match-1")
	assert.Equal(t, "match-1", r.MatchID)
	assert.Equal(t, 0, r.CurrentIndex)
	assert.Equal(t, 0, r.Size())
}

func TestReplayNavigation(t *testing.T) {
	r := New("match-1")
	for i := uint64(1); i <= 5; i++ {
		r.Record(frameAt(i))
	}
	require.Equal(t, 5, r.Size())

	r.Start()
	f, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(1), f.Tick)
	assert.Equal(t, 1, r.CurrentIndex)

	f, ok = r.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(2), f.Tick)

	f, ok = r.Previous()
	require.True(t, ok)
	assert.Equal(t, uint64(2), f.Tick)
	assert.Equal(t, 1, r.CurrentIndex)

	f, ok = r.Skip(10)
	require.True(t, ok)
	assert.Equal(t, uint64(5), f.Tick)
	assert.Equal(t, 4, r.CurrentIndex)

	f, ok = r.Skip(-10)
	require.True(t, ok)
	assert.Equal(t, uint64(1), f.Tick)

	_, ok = r.At(7)
	assert.False(t, ok)
	f, ok = r.At(2)
	require.True(t, ok)
	assert.Equal(t, uint64(3), f.Tick)
}

func TestReplayEndsAndEmptySkip(t *testing.T) {
	r := New("match-1")
	_, ok := r.Skip(1)
	assert.False(t, ok)
	_, ok = r.Previous()
	assert.False(t, ok)

	r.Record(frameAt(1))
	_, ok = r.Next()
	assert.True(t, ok)
	_, ok = r.Next()
	assert.False(t, ok)
}

func TestReplayAtTick(t *testing.T) {
	r := New("match-1")
	for _, tick := range []uint64{10, 20, 30} {
		r.Record(frameAt(tick))
	}

	_, ok := r.AtTick(5)
	assert.False(t, ok)

	f, ok := r.AtTick(25)
	require.True(t, ok)
	assert.Equal(t, uint64(20), f.Tick)

	f, ok = r.AtTick(30)
	require.True(t, ok)
	assert.Equal(t, uint64(30), f.Tick)
}

func TestReplaySaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	r := New("match-42")
	for i := uint64(0); i < 3; i++ {
		r.Record(frameAt(i))
	}
	require.NoError(t, r.SaveToFile(dir))

	loaded, err := LoadFromFile(dir, "match-42")
	require.NoError(t, err)
	assert.Equal(t, "match-42", loaded.MatchID)
	assert.Equal(t, r.Frames, loaded.Frames)
}

func TestLoadRejectsOtherVersions(t *testing.T) {
	dir := t.TempDir()

	file, err := os.Create(Path(dir, "old"))
	require.NoError(t, err)
	zw := gzip.NewWriter(file)
	require.NoError(t, msgpack.NewEncoder(zw).Encode(&metadata{MatchID: "old", Version: 99}))
	require.NoError(t, zw.Close())
	require.NoError(t, file.Close())

	_, err = LoadFromFile(dir, "old")
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFromFile(t.TempDir(), "nope")
	assert.Error(t, err)
}

func TestRecorderLifecycle(t *testing.T) {
	dir := t.TempDir()
	rr := NewRecorder(zaptest.NewLogger(t), dir)

	rr.RecordFrame("m", frameAt(0))
	_, ok := rr.Replay("m")
	assert.False(t, ok)

	rr.StartRecording("m")
	assert.True(t, rr.IsRecording("m"))
	rr.RecordFrame("m", frameAt(1))
	rr.RecordFrame("m", frameAt(2))

	rr.StopRecording("m")
	assert.False(t, rr.IsRecording("m"))
	rr.RecordFrame("m", frameAt(3))

	r, ok := rr.Replay("m")
	require.True(t, ok)
	assert.Equal(t, 2, r.Size())

	require.NoError(t, rr.Save("m"))
	_, ok = rr.Replay("m")
	assert.False(t, ok)

	loaded, err := rr.Load("m")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Size())

	assert.Error(t, rr.Save("m"))
}

func TestRecorderClear(t *testing.T) {
	rr := NewRecorder(nil, t.TempDir())
	rr.StartRecording("m")
	rr.Clear("m")
	assert.False(t, rr.IsRecording("m"))
	_, ok := rr.Replay("m")
	assert.False(t, ok)
}
