// Package watchgate tracks genuinely watched playback seconds to gate the
// star action client-side. Scrubbing back over seconds already seen adds
// nothing, and seeking ahead does not count the seconds skipped over; only
// integer seconds the playhead actually visits are recorded.
package watchgate

import (
	"math"
	"sync"
)

// StarThresholdFraction is the share of the video that must be watched
// before starring unlocks. The server enforces the same fraction.
const StarThresholdFraction = 0.20

// Tracker accumulates distinct watched seconds for one playback session
type Tracker struct {
	mu       sync.Mutex
	duration float64
	seen     map[int]struct{}
	onUpdate func(watched int)
}

// NewTracker builds a tracker for a video of the given duration in seconds.
// A zero duration means the threshold is zero and the gate is always open.
func NewTracker(duration float64) *Tracker {
	return &Tracker{
		duration: duration,
		seen:     make(map[int]struct{}),
	}
}

// OnUpdate registers a listener invoked with the new distinct-seconds total
// every time a previously unseen second is recorded
func (t *Tracker) OnUpdate(fn func(watched int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUpdate = fn
}

// Observe records a playback time-update event at the given position in
// seconds. It returns the current distinct watched-seconds total.
func (t *Tracker) Observe(position float64) int {
	if position < 0 {
		position = 0
	}
	second := int(math.Floor(position))

	t.mu.Lock()
	_, already := t.seen[second]
	if !already {
		t.seen[second] = struct{}{}
	}
	watched := len(t.seen)
	notify := t.onUpdate
	t.mu.Unlock()

	if !already && notify != nil {
		notify(watched)
	}
	return watched
}

// WatchedSeconds returns the distinct seconds recorded so far
func (t *Tracker) WatchedSeconds() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

// RequiredSeconds returns how many watched seconds unlock the star
func (t *Tracker) RequiredSeconds() int {
	return int(StarThresholdFraction * t.duration)
}

// StarUnlocked reports whether watching alone unlocks the star button.
// A video the viewer has already starred stays clickable to un-star
// regardless of this gate; that exemption is the caller's to apply.
func (t *Tracker) StarUnlocked() bool {
	return t.WatchedSeconds() >= t.RequiredSeconds()
}

// Reset clears the session, e.g. when playback switches to another video
func (t *Tracker) Reset(duration float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.duration = duration
	t.seen = make(map[int]struct{})
}
