package engage

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clipstream/clipstream/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHooks struct {
	mu       sync.Mutex
	prompts  int
	toasts   []string
	animates []Key
}

func (r *recordingHooks) hooks() Hooks {
	return Hooks{
		OnPromptSignIn: func() {
			r.mu.Lock()
			r.prompts++
			r.mu.Unlock()
		},
		OnToast: func(msg string) {
			r.mu.Lock()
			r.toasts = append(r.toasts, msg)
			r.mu.Unlock()
		},
		OnAnimate: func(key Key) {
			r.mu.Lock()
			r.animates = append(r.animates, key)
			r.mu.Unlock()
		},
	}
}

func (r *recordingHooks) toastCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.toasts)
}

func newTestController(maxAttempts int) (*Controller, *Queue, *recordingHooks) {
	q := fastQueue(maxAttempts)
	rec := &recordingHooks{}
	c := NewController(q, rec.hooks())
	c.SetAuthenticated(true)
	return c, q, rec
}

func likeKey(target string) Key {
	return Key{Action: ActionLike, TargetID: target}
}

func TestToggleHappyPath(t *testing.T) {
	c, _, rec := newTestController(0)
	key := likeKey("v1")
	c.Seed(key, false, false, 10, 2)

	c.Toggle(key, func() (Outcome, error) {
		return Outcome{Active: true, ActiveCount: 11, Counterpart: false, CounterpartCount: 2}, nil
	})

	state := c.State(key)
	assert.Equal(t, PhaseReconciled, state.Phase)
	assert.True(t, state.Active)
	assert.Equal(t, 11, state.ActiveCount)
	assert.False(t, state.Loading)

	rec.mu.Lock()
	assert.Equal(t, []Key{key}, rec.animates)
	rec.mu.Unlock()
}

func TestToggleRequiresAuth(t *testing.T) {
	c, _, rec := newTestController(0)
	c.SetAuthenticated(false)
	key := likeKey("v1")

	dispatched := false
	c.Toggle(key, func() (Outcome, error) {
		dispatched = true
		return Outcome{}, nil
	})

	assert.False(t, dispatched, "unauthenticated toggles never hit the network")
	rec.mu.Lock()
	assert.Equal(t, 1, rec.prompts)
	rec.mu.Unlock()
}

func TestRapidClicksDispatchOnce(t *testing.T) {
	c, _, _ := newTestController(0)
	key := likeKey("v1")
	c.Seed(key, false, false, 0, 0)

	var dispatches int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Toggle(key, func() (Outcome, error) {
				atomic.AddInt32(&dispatches, 1)
				<-release
				return Outcome{Active: true, ActiveCount: 1}, nil
			})
		}()
	}

	// Let the goroutines race for the in-flight slot, then release the winner
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&dispatches),
		"at most one request in flight for one key")
}

func TestRateLimitedStaysSpeculativeThenReconciles(t *testing.T) {
	c, q, rec := newTestController(0)
	key := likeKey("v1")
	c.Seed(key, false, false, 10, 0)

	var calls int32
	reconciled := make(chan struct{})
	c.hooks.OnStateChange = func(k Key, s State) {
		if s.Phase == PhaseReconciled {
			close(reconciled)
		}
	}

	c.Toggle(key, func() (Outcome, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return Outcome{}, rateLimitedErr()
		}
		return Outcome{Active: true, ActiveCount: 11}, nil
	})

	// After the blocking first attempt the UI is still optimistic and a
	// retry is queued
	state := c.State(key)
	assert.Equal(t, PhaseSpeculative, state.Phase)
	assert.True(t, state.Active)
	assert.True(t, q.HasPendingRetry(key))

	select {
	case <-reconciled:
	case <-time.After(time.Second):
		t.Fatal("queued retry never reconciled")
	}

	state = c.State(key)
	assert.Equal(t, PhaseReconciled, state.Phase)
	assert.Equal(t, 11, state.ActiveCount)
	assert.False(t, q.HasPendingRetry(key))
	assert.Equal(t, 0, rec.toastCount(), "rate limits resolve silently")
}

func TestFreshToggleSuccessCancelsQueuedRetry(t *testing.T) {
	// Long enough that the second toggle resolves before the queued timer
	q := NewQueue(QueueOptions{
		RetryDelay:     80 * time.Millisecond,
		StarRetryDelay: 80 * time.Millisecond,
	})
	rec := &recordingHooks{}
	c := NewController(q, rec.hooks())
	c.SetAuthenticated(true)

	key := likeKey("v1")
	c.Seed(key, false, false, 10, 0)

	var staleDispatches int32
	c.Toggle(key, func() (Outcome, error) {
		atomic.AddInt32(&staleDispatches, 1)
		return Outcome{}, rateLimitedErr()
	})
	require.True(t, q.HasPendingRetry(key))

	// The user toggles again before the queued retry fires, and this one
	// lands. The stale retry must not re-dispatch and flip the state back.
	c.Toggle(key, func() (Outcome, error) {
		return Outcome{Active: false, ActiveCount: 10}, nil
	})
	assert.False(t, q.HasPendingRetry(key))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&staleDispatches),
		"superseded retry must not reach the network")

	state := c.State(key)
	assert.Equal(t, PhaseReconciled, state.Phase)
	assert.False(t, state.Active)
	assert.Equal(t, 10, state.ActiveCount)
}

func TestQueuedRetryTerminalFailureRollsBack(t *testing.T) {
	c, q, rec := newTestController(0)
	key := likeKey("v1")
	c.Seed(key, false, true, 10, 4)

	rolledBack := make(chan struct{})
	c.hooks.OnStateChange = func(k Key, s State) {
		if s.Phase == PhaseRolledBack {
			close(rolledBack)
		}
	}

	var calls int32
	c.Toggle(key, func() (Outcome, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return Outcome{}, rateLimitedErr()
		}
		return Outcome{}, &client.APIError{Kind: client.KindNotFound, Message: "video not found", StatusCode: 404}
	})

	select {
	case <-rolledBack:
	case <-time.After(time.Second):
		t.Fatal("terminal retry failure never rolled back")
	}

	// Exact pre-click state: boolean, counterpart, and both counts
	state := c.State(key)
	assert.Equal(t, PhaseRolledBack, state.Phase)
	assert.False(t, state.Active)
	assert.Equal(t, 10, state.ActiveCount)
	assert.True(t, state.Counterpart)
	assert.Equal(t, 4, state.CounterpartCount)
	assert.False(t, q.HasPendingRetry(key))
	assert.Equal(t, 1, rec.toastCount())
}

func TestNonRateLimitFailureRollsBackImmediately(t *testing.T) {
	c, q, rec := newTestController(0)
	key := likeKey("v1")
	c.Seed(key, false, false, 3, 0)

	c.Toggle(key, func() (Outcome, error) {
		return Outcome{}, errors.New("connection reset")
	})

	state := c.State(key)
	assert.Equal(t, PhaseRolledBack, state.Phase)
	assert.False(t, state.Active)
	assert.Equal(t, 3, state.ActiveCount)
	assert.False(t, q.HasPendingRetry(key), "non-429 failures are never queued")
	assert.Equal(t, 1, rec.toastCount())
}

func TestRetryCapEscalatesToRollback(t *testing.T) {
	c, _, rec := newTestController(2)
	key := likeKey("v1")
	c.Seed(key, false, false, 1, 0)

	rolledBack := make(chan struct{})
	c.hooks.OnStateChange = func(k Key, s State) {
		if s.Phase == PhaseRolledBack {
			close(rolledBack)
		}
	}

	// Every attempt stays rate limited; the cap turns it terminal
	c.Toggle(key, func() (Outcome, error) {
		return Outcome{}, rateLimitedErr()
	})

	select {
	case <-rolledBack:
	case <-time.After(time.Second):
		t.Fatal("attempt cap never rolled back")
	}

	state := c.State(key)
	assert.False(t, state.Active)
	assert.Equal(t, 1, state.ActiveCount)
	assert.Equal(t, 1, rec.toastCount())
}

func TestKeysAreIndependent(t *testing.T) {
	c, _, _ := newTestController(0)
	keyA := likeKey("vA")
	keyB := likeKey("vB")
	c.Seed(keyA, false, false, 0, 0)
	c.Seed(keyB, false, false, 5, 0)

	c.Toggle(keyA, func() (Outcome, error) {
		return Outcome{}, errors.New("boom")
	})
	c.Toggle(keyB, func() (Outcome, error) {
		return Outcome{Active: true, ActiveCount: 6}, nil
	})

	assert.Equal(t, PhaseRolledBack, c.State(keyA).Phase)
	assert.Equal(t, PhaseReconciled, c.State(keyB).Phase)
	assert.Equal(t, 6, c.State(keyB).ActiveCount)
}

func TestStarToggleLeavesLikeAlone(t *testing.T) {
	c, _, _ := newTestController(0)
	starKey := Key{Action: ActionStar, TargetID: "v1"}
	likeK := likeKey("v1")
	c.Seed(likeK, true, false, 9, 0)
	c.Seed(starKey, false, false, 2, 0)

	c.Toggle(starKey, func() (Outcome, error) {
		return Outcome{Active: true, ActiveCount: 3}, nil
	})

	// Star state moved; the like key's state is untouched
	require.True(t, c.State(starKey).Active)
	assert.True(t, c.State(likeK).Active)
	assert.Equal(t, 9, c.State(likeK).ActiveCount)
}

func TestToastSurfacesServerMessage(t *testing.T) {
	c, _, rec := newTestController(0)
	key := Key{Action: ActionStar, TargetID: "v1"}
	c.Seed(key, false, false, 0, 0)

	c.Toggle(key, func() (Outcome, error) {
		return Outcome{}, &client.APIError{
			Kind:       client.KindPrecondition,
			Message:    "watch at least 24 seconds before starring (watched 3)",
			StatusCode: 403,
		}
	})

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.toasts, 1)
	assert.Equal(t, "watch at least 24 seconds before starring (watched 3)", rec.toasts[0])
}
