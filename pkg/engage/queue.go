// Package engage implements the client-side engagement core: the interaction
// queue that dedupes in-flight requests and retries rate-limited actions, the
// per-action state machine behind optimistic toggles, and the controller that
// ties them to the network.
package engage

import (
	"sync"
	"time"

	"github.com/clipstream/clipstream/pkg/client"
)

// ActionType names one engagement action
type ActionType string

const (
	ActionLike           ActionType = "like"
	ActionDislike        ActionType = "dislike"
	ActionStar           ActionType = "star"
	ActionCommentLike    ActionType = "comment_like"
	ActionCommentDislike ActionType = "comment_dislike"
)

// Key identifies one logical action on one target. All queue and controller
// state is tracked per key; different keys never interact.
type Key struct {
	Action   ActionType
	TargetID string
}

// Fixed retry delays. They sit just above the server cooldown windows so a
// queued retry lands after the window opens instead of burning attempts
// against a still-closed one.
const (
	DefaultRetryDelay = 1100 * time.Millisecond
	StarRetryDelay    = 3100 * time.Millisecond
)

// QueueOptions configures a Queue. Zero values take the defaults above.
type QueueOptions struct {
	RetryDelay     time.Duration // non-star actions
	StarRetryDelay time.Duration
	// MaxAttempts caps how many times a rate-limited action is retried
	// before it is handed to onError. Zero means retry for as long as the
	// server keeps answering 429, matching the wait-it-out policy.
	MaxAttempts int
}

// RetryFunc re-issues the original network call
type RetryFunc func() error

type pendingRetry struct {
	timer    *time.Timer
	attempts int
}

// Queue prevents duplicate concurrent requests for the same key and retries
// rate-limited actions on a fixed delay. Construct one per session and share
// it between controllers; there is no package-level instance.
type Queue struct {
	mu       sync.Mutex
	inFlight map[Key]struct{}
	pending  map[Key]*pendingRetry
	opts     QueueOptions
}

// NewQueue builds a Queue
func NewQueue(opts QueueOptions) *Queue {
	if opts.RetryDelay == 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.StarRetryDelay == 0 {
		opts.StarRetryDelay = StarRetryDelay
	}
	return &Queue{
		inFlight: make(map[Key]struct{}),
		pending:  make(map[Key]*pendingRetry),
		opts:     opts,
	}
}

// IsRequestInFlight reports whether a request for key is outstanding
func (q *Queue) IsRequestInFlight(key Key) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.inFlight[key]
	return ok
}

// BeginRequest claims the in-flight slot for key, returning false when a
// request is already outstanding. A successful claim must be paired with
// EndRequest on every path; that pairing is the sole cleanup, so callers
// defer it immediately.
func (q *Queue) BeginRequest(key Key) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.inFlight[key]; ok {
		return false
	}
	q.inFlight[key] = struct{}{}
	return true
}

// EndRequest releases the in-flight slot for key
func (q *Queue) EndRequest(key Key) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inFlight, key)
}

// delayFor picks the fixed retry delay for an action
func (q *Queue) delayFor(action ActionType) time.Duration {
	if action == ActionStar {
		return q.opts.StarRetryDelay
	}
	return q.opts.RetryDelay
}

// QueueForRetry schedules retry to run after the key's fixed delay,
// replacing any retry already scheduled for the same key. On success the
// entry is cleared and onSuccess runs; while the server keeps answering 429
// the retry is rescheduled on the same delay; any other failure clears the
// entry and routes the error to onError. The queue itself never returns an
// error to the caller.
func (q *Queue) QueueForRetry(key Key, retry RetryFunc, onSuccess func(), onError func(error)) {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Replace-on-requeue: at most one pending retry per key
	if existing, ok := q.pending[key]; ok {
		existing.timer.Stop()
	}

	entry := &pendingRetry{}
	entry.timer = time.AfterFunc(q.delayFor(key.Action), func() {
		q.runRetry(key, entry, retry, onSuccess, onError)
	})
	q.pending[key] = entry
}

func (q *Queue) runRetry(key Key, entry *pendingRetry, retry RetryFunc, onSuccess func(), onError func(error)) {
	q.mu.Lock()
	if q.pending[key] != entry {
		// Replaced or cleared after this timer fired
		q.mu.Unlock()
		return
	}
	entry.attempts++
	attempts := entry.attempts
	q.mu.Unlock()

	err := retry()

	q.mu.Lock()
	if q.pending[key] != entry {
		q.mu.Unlock()
		return
	}

	if err == nil {
		delete(q.pending, key)
		q.mu.Unlock()
		if onSuccess != nil {
			onSuccess()
		}
		return
	}

	if _, rateLimited := client.IsRateLimited(err); rateLimited {
		if q.opts.MaxAttempts == 0 || attempts < q.opts.MaxAttempts {
			entry.timer = time.AfterFunc(q.delayFor(key.Action), func() {
				q.runRetry(key, entry, retry, onSuccess, onError)
			})
			q.mu.Unlock()
			return
		}
		// Attempt cap reached; fall through to the terminal path
	}

	delete(q.pending, key)
	q.mu.Unlock()
	if onError != nil {
		onError(err)
	}
}

// HasPendingRetry reports whether a retry is scheduled for key
func (q *Queue) HasPendingRetry(key Key) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.pending[key]
	return ok
}

// Cancel drops any retry scheduled for key without firing its callbacks. A
// timer that already fired notices the removal and abandons its attempt.
func (q *Queue) Cancel(key Key) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if entry, ok := q.pending[key]; ok {
		entry.timer.Stop()
		delete(q.pending, key)
	}
}

// ClearAll cancels every scheduled retry and forgets all in-flight claims.
// Used on teardown; no callbacks fire for cancelled entries.
func (q *Queue) ClearAll() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, entry := range q.pending {
		entry.timer.Stop()
	}
	q.pending = make(map[Key]*pendingRetry)
	q.inFlight = make(map[Key]struct{})
}
