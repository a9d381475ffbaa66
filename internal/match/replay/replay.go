// Package replay records match frames for playback and stores them as
// gzip-compressed msgpack files.
package replay

import (
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/yellowhama/matchsim/internal/match/geometry"
)

// FormatVersion is written into every replay file.
const FormatVersion = 1

const fileExt = ".replay"

// ErrUnsupportedVersion is returned for files written in another format.
var ErrUnsupportedVersion = errors.New("unsupported replay version")

// NoHolder marks a frame with a loose ball.
const NoHolder = -1

// Frame is the pitch at one tick.
type Frame struct {
	Tick       uint64               `msgpack:"tick"`
	Ball       geometry.Coord10     `msgpack:"ball"`
	BallHeight float64              `msgpack:"ball_h"`
	Positions  [22]geometry.Coord10 `msgpack:"pos"`
	Holder     int                  `msgpack:"holder"`
	HomeGoals  int                  `msgpack:"home"`
	AwayGoals  int                  `msgpack:"away"`
}

// Replay is an ordered list of frames with a playback cursor.
type Replay struct {
	MatchID      string
	Frames       []Frame
	CurrentIndex int
	mu           sync.RWMutex
}

// New creates an empty replay.
func New(matchID string) *Replay {
	return &Replay{
		MatchID: matchID,
		Frames:  make([]Frame, 0),
	}
}

// Record appends a frame.
func (r *Replay) Record(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Frames = append(r.Frames, f)
}

// Start rewinds playback to the first frame.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the frame under the cursor and advances it.
func (r *Replay) Next() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.Frames) {
		f := r.Frames[r.CurrentIndex]
		r.CurrentIndex++
		return f, true
	}
	return Frame{}, false
}

// Previous steps the cursor back and returns that frame.
func (r *Replay) Previous() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.Frames[r.CurrentIndex], true
	}
	return Frame{}, false
}

// Skip moves the cursor by count frames, clamped to the recording.
func (r *Replay) Skip(count int) (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	r.CurrentIndex = min(max(r.CurrentIndex+count, 0), len(r.Frames)-1)
	return r.Frames[r.CurrentIndex], true
}

// Size returns the number of frames.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Frames)
}

// At returns the frame at index.
func (r *Replay) At(index int) (Frame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.Frames) {
		return r.Frames[index], true
	}
	return Frame{}, false
}

// AtTick returns the last frame recorded at or before tick.
func (r *Replay) AtTick(tick uint64) (Frame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lo, hi := 0, len(r.Frames)
	for lo < hi {
		mid := (lo + hi) / 2
		if r.Frames[mid].Tick <= tick {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return Frame{}, false
	}
	return r.Frames[lo-1], true
}

type metadata struct {
	MatchID    string    `msgpack:"match_id"`
	RecordedAt time.Time `msgpack:"recorded_at"`
	Version    int       `msgpack:"version"`
	FrameCount int       `msgpack:"frames"`
}

// Path returns the file a replay for matchID is stored in.
func Path(directory, matchID string) string {
	return filepath.Join(directory, matchID+fileExt)
}

// SaveToFile writes the replay into directory, creating it if needed.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(Path(directory, r.MatchID))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	enc := msgpack.NewEncoder(zw)

	meta := metadata{
		MatchID:    r.MatchID,
		RecordedAt: time.Now().UTC(),
		Version:    FormatVersion,
		FrameCount: len(r.Frames),
	}
	if err := enc.Encode(&meta); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range r.Frames {
		if err := enc.Encode(&r.Frames[i]); err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", i, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return nil
}

// LoadFromFile reads the replay for matchID from directory.
func LoadFromFile(directory, matchID string) (*Replay, error) {
	file, err := os.Open(Path(directory, matchID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer zr.Close()

	dec := msgpack.NewDecoder(zr)
	var meta metadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if meta.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, meta.Version)
	}

	r := New(meta.MatchID)
	r.Frames = make([]Frame, meta.FrameCount)
	for i := range r.Frames {
		if err := dec.Decode(&r.Frames[i]); err != nil {
			return nil, fmt.Errorf("failed to decode frame %d: %w", i, err)
		}
	}
	return r, nil
}
