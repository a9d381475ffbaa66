package replay

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Recorder keeps in-memory replays per match and persists them on demand.
type Recorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	enabled map[string]bool
	saveDir string
}

// NewRecorder creates a recorder that saves into saveDir.
func NewRecorder(logger *zap.Logger, saveDir string) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
		saveDir: saveDir,
	}
}

// Directory is where replays are saved.
func (rr *Recorder) Directory() string { return rr.saveDir }

// StartRecording begins a fresh replay for matchID.
func (rr *Recorder) StartRecording(matchID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[matchID] = New(matchID)
	rr.enabled[matchID] = true

	rr.logger.Info("started replay recording", zap.String("match_id", matchID))
}

// StopRecording stops accepting frames; the replay stays in memory.
func (rr *Recorder) StopRecording(matchID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.enabled[matchID] = false

	rr.logger.Info("stopped replay recording", zap.String("match_id", matchID))
}

// IsRecording reports whether frames for matchID are accepted.
func (rr *Recorder) IsRecording(matchID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	return rr.enabled[matchID]
}

// RecordFrame appends f when recording is enabled for matchID.
func (rr *Recorder) RecordFrame(matchID string, f Frame) {
	rr.mu.RLock()
	enabled := rr.enabled[matchID]
	r := rr.replays[matchID]
	rr.mu.RUnlock()

	if !enabled || r == nil {
		return
	}
	r.Record(f)
}

// Replay returns the in-memory replay for matchID.
func (rr *Recorder) Replay(matchID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	r, ok := rr.replays[matchID]
	return r, ok
}

// Save writes the replay to disk and drops it from memory.
func (rr *Recorder) Save(matchID string) error {
	rr.mu.Lock()
	r, ok := rr.replays[matchID]
	if !ok {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for match %s", matchID)
	}
	delete(rr.replays, matchID)
	delete(rr.enabled, matchID)
	rr.mu.Unlock()

	if err := r.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}

	rr.logger.Info("saved replay to disk",
		zap.String("match_id", matchID),
		zap.Int("frame_count", r.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// Load reads a saved replay.
func (rr *Recorder) Load(matchID string) (*Replay, error) {
	r, err := LoadFromFile(rr.saveDir, matchID)
	if err != nil {
		return nil, err
	}

	rr.logger.Info("loaded replay from disk",
		zap.String("match_id", matchID),
		zap.Int("frame_count", r.Size()),
	)
	return r, nil
}

// Clear drops a replay without saving it.
func (rr *Recorder) Clear(matchID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.replays, matchID)
	delete(rr.enabled, matchID)

	rr.logger.Debug("cleared replay from memory", zap.String("match_id", matchID))
}
