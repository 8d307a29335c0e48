// Package tracker turns raw player sampling into a bounded stream of progress reports.
//
// A Tracker serves one video session. The player adapter feeds it Ready and StateChange
// signals; while the player is playing the tracker samples the position on a fixed
// interval, keeps a short history and hands throttled samples to a Reporter without
// waiting for the result.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

const (
	DefaultInterval        = 3 * time.Second
	DefaultHeartbeat       = 10 * time.Second
	DefaultNotifyThreshold = 70.0
	DefaultHistorySize     = 50
)

// ErrDurationUnavailable is returned while the player does not know the video length yet
var ErrDurationUnavailable = errors.New("duration unavailable")

// boundaries are the percentages whose crossing always triggers a report
var boundaries = []float64{25, 50, 70, 100}

// State is the sampling state of a tracker
type State string

const (
	StateIdle    State = "idle"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
)

// PlayerState is a state code reported by the player, numbered like the YouTube IFrame API
type PlayerState int

const (
	PlayerUnstarted PlayerState = -1
	PlayerEnded     PlayerState = 0
	PlayerPlaying   PlayerState = 1
	PlayerPaused    PlayerState = 2
	PlayerBuffering PlayerState = 3
	PlayerCued      PlayerState = 5
)

// Player is the handle delivered by the player adapter once it is ready
type Player interface {
	// Method CurrentTime returns the playback position in seconds.
	CurrentTime() (float64, error)
	// Method Duration returns the video length in seconds, or 0 while it is unknown.
	Duration() (float64, error)
}

// Reporter persists progress samples, typically over HTTP
type Reporter interface {
	// Method Report persists one sample. Errors are logged by the tracker and never retried.
	Report(ctx context.Context, sample Sample) error
}

// Session identifies the viewer and the lesson video being tracked
type Session struct {
	ViewerID int
	CourseID int
	LessonID int
	VideoID  string
}

// Sample is one progress report produced by the tracker
type Sample struct {
	Session
	CurrentTime float64
	Duration    float64
	Percent     float64
	Event       models.ProgressEvent
	Timestamp   time.Time
}

// HistoryEntry is one sampling tick kept in memory
type HistoryEntry struct {
	Timestamp   time.Time
	Percent     float64
	CurrentTime float64
}

// Status is a point-in-time copy of the tracker state
type Status struct {
	Session     Session
	State       State
	CurrentTime float64
	Duration    float64
	Percent     float64
	Completed   bool
}

// Config holds tracker settings; zero values fall back to the defaults
type Config struct {
	Interval        time.Duration
	Heartbeat       time.Duration
	NotifyThreshold float64
	HistorySize     int

	// OnProgressUpdate is called after every successfully reported sample
	OnProgressUpdate func(Sample)
	// OnVideoCompleted is called once per session when the notify threshold is first reached
	OnVideoCompleted func(Sample)

	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Heartbeat <= 0 {
		c.Heartbeat = DefaultHeartbeat
	}
	if c.NotifyThreshold <= 0 {
		c.NotifyThreshold = DefaultNotifyThreshold
	}
	if c.HistorySize <= 0 {
		c.HistorySize = DefaultHistorySize
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Tracker tracks a single video session. It is safe for concurrent use.
type Tracker struct {
	cfg      Config
	reporter Reporter
	logger   *zap.Logger

	// reports outlive the sampling loop but not the tracker
	ctx    context.Context
	cancel context.CancelFunc

	now      func() time.Time
	dispatch func(func())

	mu          sync.Mutex
	session     Session
	generation  uint64
	player      Player
	state       State
	closed      bool
	stopLoop    context.CancelFunc
	currentTime float64
	duration    float64
	percent     float64
	completed   bool
	history     []HistoryEntry

	lastSentPercent float64
	lastSentTime    time.Time
}

// New creates a tracker for a session. Sampling starts once a player is ready and playing.
func New(session Session, reporter Reporter, cfg Config) *Tracker {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	return &Tracker{
		cfg:      cfg,
		reporter: reporter,
		logger:   cfg.Logger,
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
		dispatch: func(f func()) { go f() },
		session:  session,
		state:    StateIdle,
		history:  make([]HistoryEntry, 0, cfg.HistorySize),
	}
}

// Ready attaches the player handle delivered by the adapter
func (t *Tracker) Ready(player Player) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.player = player
	if t.state == StateIdle {
		t.state = StatePaused
	}
}

// StateChange applies a player state code. Playing starts the sampling loop,
// any other code stops it without flushing the last sample.
func (t *Tracker) StateChange(code PlayerState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	if code != PlayerPlaying {
		t.stopLocked()
		if t.player != nil {
			t.state = StatePaused
		}
		return
	}

	if t.player == nil {
		t.logger.Warn("playing state before player is ready", zap.String("video_id", t.session.VideoID))
		return
	}
	if t.state == StatePlaying {
		return
	}
	t.state = StatePlaying
	t.startLocked()
}

// Load switches the tracker to another video. All in-memory progress is reset and
// any sample not yet sent is dropped.
func (t *Tracker) Load(session Session) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.stopLocked()
	t.session = session
	t.generation++
	t.state = StateIdle
	if t.player != nil {
		t.state = StatePaused
	}
	t.currentTime = 0
	t.duration = 0
	t.percent = 0
	t.completed = false
	t.history = make([]HistoryEntry, 0, t.cfg.HistorySize)
	t.lastSentPercent = 0
	t.lastSentTime = time.Time{}
}

// Close stops sampling and cancels reports still in flight
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.stopLocked()
	t.closed = true
	t.state = StateIdle
	t.generation++
	t.cancel()
}

// Status returns a copy of the current tracker state
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Status{
		Session:     t.session,
		State:       t.state,
		CurrentTime: t.currentTime,
		Duration:    t.duration,
		Percent:     t.percent,
		Completed:   t.completed,
	}
}

// History returns the retained samples, oldest first
func (t *Tracker) History() []HistoryEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	history := make([]HistoryEntry, len(t.history))
	copy(history, t.history)
	return history
}

func (t *Tracker) startLocked() {
	if t.stopLoop != nil {
		return
	}
	ctx, cancel := context.WithCancel(t.ctx)
	t.stopLoop = cancel
	go t.run(ctx)
}

func (t *Tracker) stopLocked() {
	if t.stopLoop != nil {
		t.stopLoop()
		t.stopLoop = nil
	}
}

func (t *Tracker) run(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

// tick takes one sample. A cancelled loop context means the tick lost a race with a stop.
func (t *Tracker) tick(loop context.Context) {
	t.mu.Lock()
	if loop.Err() != nil || t.state != StatePlaying || t.player == nil {
		t.mu.Unlock()
		return
	}

	videoID := t.session.VideoID
	report, completed, generation, err := t.sampleLocked()
	t.mu.Unlock()

	if err != nil {
		t.logger.Debug("skipping sample", zap.Error(err), zap.String("video_id", videoID))
		return
	}
	if report != nil {
		t.send(*report, generation)
	}
	if completed != nil && t.cfg.OnVideoCompleted != nil {
		t.cfg.OnVideoCompleted(*completed)
	}
}

// sampleLocked reads the player, updates the in-memory state and decides what to emit
func (t *Tracker) sampleLocked() (report, completed *Sample, generation uint64, err error) {
	currentTime, err := t.player.CurrentTime()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to read current time: %w", err)
	}
	duration, err := t.player.Duration()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to read duration: %w", err)
	}
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) || math.IsNaN(currentTime) {
		return nil, nil, 0, ErrDurationUnavailable
	}

	now := t.now()
	percent := math.Min(100, math.Max(0, currentTime*100/duration))

	t.currentTime = currentTime
	t.duration = duration
	t.percent = percent
	t.appendHistoryLocked(HistoryEntry{Timestamp: now, Percent: percent, CurrentTime: currentTime})

	sample := Sample{
		Session:     t.session,
		CurrentTime: currentTime,
		Duration:    duration,
		Percent:     percent,
		Event:       models.ProgressEventProgress,
		Timestamp:   now,
	}
	if percent >= t.cfg.NotifyThreshold {
		sample.Event = models.ProgressEventCompleted
	}

	if t.shouldReportLocked(percent, now) {
		t.lastSentPercent = percent
		t.lastSentTime = now
		s := sample
		report = &s
	}

	if percent >= t.cfg.NotifyThreshold && !t.completed {
		t.completed = true
		s := sample
		completed = &s
	}

	return report, completed, t.generation, nil
}

// shouldReportLocked applies the throttling policy: a boundary crossing since the last
// report, or the heartbeat elapsed. Nothing sent yet counts as elapsed.
func (t *Tracker) shouldReportLocked(percent float64, now time.Time) bool {
	for _, boundary := range boundaries {
		if t.lastSentPercent < boundary && percent >= boundary {
			return true
		}
	}
	return t.lastSentTime.IsZero() || now.Sub(t.lastSentTime) >= t.cfg.Heartbeat
}

func (t *Tracker) appendHistoryLocked(entry HistoryEntry) {
	if len(t.history) >= t.cfg.HistorySize {
		copy(t.history, t.history[1:])
		t.history = t.history[:len(t.history)-1]
	}
	t.history = append(t.history, entry)
}

// send hands a sample to the reporter without blocking the sampling loop.
// Callbacks of a session replaced by Load or Close are dropped.
func (t *Tracker) send(sample Sample, generation uint64) {
	t.dispatch(func() {
		if err := t.reporter.Report(t.ctx, sample); err != nil {
			t.logger.Warn("failed to report progress",
				zap.Error(err),
				zap.Int("lesson_id", sample.LessonID),
				zap.String("video_id", sample.VideoID),
				zap.Float64("percent", sample.Percent),
			)
			return
		}

		t.mu.Lock()
		current := t.generation == generation
		t.mu.Unlock()

		if current && t.cfg.OnProgressUpdate != nil {
			t.cfg.OnProgressUpdate(sample)
		}
	})
}
