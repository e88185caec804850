// Package tracker accumulates a user's interaction signals into per-day
// "minutes active" measurements. It runs on the client side of the app and
// reports through the activity flush endpoint; an idle browser tab earns
// nothing because the open session is closed once interactions stop.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tbn01-acc/lifefocus-sub002/internal/config"
)

// Flusher delivers accumulated minutes for one calendar day. Flushes are
// additive on the receiving side, so repeating a flush never overwrites.
type Flusher interface {
	Flush(ctx context.Context, userID int64, day time.Time, minutes int) error
}

// Clock is injected so state transitions can be tested without waiting.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Config struct {
	// InactivityThreshold closes the session when no interaction arrives
	// within it.
	InactivityThreshold time.Duration
	// SaveInterval periodically flushes the open session so a crash loses
	// at most one interval of minutes.
	SaveInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		InactivityThreshold: config.InactivityThreshold,
		SaveInterval:        config.SessionSaveInterval,
	}
}

// Tracker holds at most one open session per user. All transitions are
// synchronous and driven by the injected clock; Run wires them to real
// timers.
type Tracker struct {
	userID  int64
	cfg     Config
	clock   Clock
	flusher Flusher
	beacon  Flusher
	log     *logrus.Logger

	mu           sync.Mutex
	open         bool
	sessionStart time.Time
	lastActivity time.Time
}

// New creates a tracker. beacon is the fire-and-forget teardown channel and
// may equal flusher in tests.
func New(userID int64, cfg Config, clock Clock, flusher, beacon Flusher, log *logrus.Logger) *Tracker {
	if clock == nil {
		clock = systemClock{}
	}
	return &Tracker{
		userID:  userID,
		cfg:     cfg,
		clock:   clock,
		flusher: flusher,
		beacon:  beacon,
		log:     log,
	}
}

// Touch records a qualifying interaction. If no session is open one is
// opened at the interaction time; rapid repeated interactions extend the
// same session rather than opening new ones.
func (t *Tracker) Touch() {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.open {
		t.open = true
		t.sessionStart = now
	}
	t.lastActivity = now
}

// checkIdle closes the session once the inactivity threshold has passed
// without interaction, flushing the time up to the last observed
// interaction, not up to the threshold boundary.
func (t *Tracker) checkIdle(ctx context.Context) {
	now := t.clock.Now()

	t.mu.Lock()
	if !t.open || now.Sub(t.lastActivity) < t.cfg.InactivityThreshold {
		t.mu.Unlock()
		return
	}

	minutes := wholeMinutes(t.lastActivity.Sub(t.sessionStart))
	day := t.sessionStart
	t.open = false
	t.mu.Unlock()

	t.flush(ctx, t.flusher, day, minutes)
}

// flushTick flushes the open session's elapsed time and restarts the
// session at "now" so the same minutes are never counted twice.
func (t *Tracker) flushTick(ctx context.Context) {
	now := t.clock.Now()

	t.mu.Lock()
	if !t.open {
		t.mu.Unlock()
		return
	}

	minutes := wholeMinutes(now.Sub(t.sessionStart))
	day := t.sessionStart
	if minutes > 0 {
		t.sessionStart = now
	}
	t.mu.Unlock()

	t.flush(ctx, t.flusher, day, minutes)
}

// Close performs the best-effort teardown flush over the beacon channel.
// Delivery is not guaranteed; at most one inactivity threshold's worth of
// minutes can be lost.
func (t *Tracker) Close(ctx context.Context) {
	t.mu.Lock()
	if !t.open {
		t.mu.Unlock()
		return
	}

	minutes := wholeMinutes(t.lastActivity.Sub(t.sessionStart))
	day := t.sessionStart
	t.open = false
	t.mu.Unlock()

	t.flush(ctx, t.beacon, day, minutes)
}

func (t *Tracker) flush(ctx context.Context, via Flusher, day time.Time, minutes int) {
	if minutes <= 0 {
		return
	}
	if err := via.Flush(ctx, t.userID, day, minutes); err != nil {
		t.log.WithError(err).WithField("user_id", t.userID).Warn("activity flush failed")
	}
}

// Run drives the two timers until ctx is cancelled, then performs the
// teardown flush.
func (t *Tracker) Run(ctx context.Context) {
	saveTicker := time.NewTicker(t.cfg.SaveInterval)
	defer saveTicker.Stop()

	// The idle check only needs to be as fine-grained as the threshold
	// itself; a quarter of it keeps the close timely enough.
	idleTicker := time.NewTicker(t.cfg.InactivityThreshold / 4)
	defer idleTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Close(context.Background())
			return
		case <-idleTicker.C:
			t.checkIdle(ctx)
		case <-saveTicker.C:
			t.flushTick(ctx)
		}
	}
}

func wholeMinutes(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
