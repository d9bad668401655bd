package engage

import (
	"sync"

	"github.com/clipstream/clipstream/pkg/client"
)

// Outcome is the server's authoritative answer to a toggle
type Outcome struct {
	Active           bool
	ActiveCount      int
	Counterpart      bool
	CounterpartCount int
}

// DispatchFunc issues the network call for a toggle and returns the
// authoritative outcome. The controller calls it once up front and again
// inside queued retries; it must be safe to call repeatedly.
type DispatchFunc func() (Outcome, error)

// Hooks are the controller's UI callbacks. All are optional; nil hooks are
// skipped. They may be invoked from retry timer goroutines, so wire them to
// something that marshals onto the render path.
type Hooks struct {
	// OnPromptSignIn fires when an unauthenticated viewer tries to toggle
	OnPromptSignIn func()
	// OnToast surfaces a transient error message
	OnToast func(message string)
	// OnAnimate fires when a speculative toggle turns a state on
	OnAnimate func(key Key)
	// OnStateChange fires after every state transition with the new state
	OnStateChange func(key Key, state State)
}

// Controller runs the optimistic toggle cycle for any number of
// action-target pairs. Each key gets its own state, snapshot, and rollback;
// keys never share anything. One controller typically serves a page, with
// the queue shared across controllers in the session.
type Controller struct {
	queue *Queue
	hooks Hooks

	mu            sync.Mutex
	states        map[Key]State
	snapshots     map[Key]State
	authenticated bool
}

// NewController builds a controller on top of a shared queue
func NewController(queue *Queue, hooks Hooks) *Controller {
	return &Controller{
		queue:     queue,
		hooks:     hooks,
		states:    make(map[Key]State),
		snapshots: make(map[Key]State),
	}
}

// SetAuthenticated records whether the viewer is signed in
func (c *Controller) SetAuthenticated(authed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authenticated = authed
}

// Seed installs the known server state for a key, typically from the page
// load payload, so the first toggle speculates from real values
func (c *Controller) Seed(key Key, active, counterpart bool, activeCount, counterpartCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[key] = State{
		Active:           active,
		ActiveCount:      activeCount,
		Counterpart:      counterpart,
		CounterpartCount: counterpartCount,
	}
}

// State returns the current view state for a key
func (c *Controller) State(key Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[key]
}

// Toggle runs one optimistic toggle for key: guard, speculate, dispatch,
// resolve. It blocks for the first network attempt; rate-limited follow-ups
// continue on the queue's timers after it returns. Repeat calls while a
// request is in flight are no-ops.
func (c *Controller) Toggle(key Key, dispatch DispatchFunc) {
	// Guard
	c.mu.Lock()
	if !c.authenticated {
		c.mu.Unlock()
		if c.hooks.OnPromptSignIn != nil {
			c.hooks.OnPromptSignIn()
		}
		return
	}
	c.mu.Unlock()

	if !c.queue.BeginRequest(key) {
		return
	}
	defer c.queue.EndRequest(key)

	// Speculate
	c.mu.Lock()
	snapshot := c.states[key]
	speculative := snapshot.Speculate()
	c.states[key] = speculative
	c.snapshots[key] = snapshot
	c.mu.Unlock()

	if speculative.Active && c.hooks.OnAnimate != nil {
		c.hooks.OnAnimate(key)
	}
	c.notify(key, speculative)

	// Dispatch
	outcome, err := dispatch()

	// Resolve
	if err == nil {
		c.reconcile(key, outcome)
		return
	}

	if _, rateLimited := client.IsRateLimited(err); rateLimited {
		// Stay speculative and let the queue wait out the cooldown. The
		// retry closure claims the in-flight slot itself since this call
		// frame releases it on return.
		c.queue.QueueForRetry(key,
			func() error {
				return c.retryAttempt(key, dispatch)
			},
			nil, // retryAttempt reconciles on success
			func(terminalErr error) {
				c.rollback(key, terminalErr)
			},
		)
		return
	}

	c.rollback(key, err)
}

// retryAttempt is the queued re-dispatch: claim the slot, call the network,
// reconcile on success. The returned error drives the queue's
// reschedule-or-terminate decision.
func (c *Controller) retryAttempt(key Key, dispatch DispatchFunc) error {
	if !c.queue.BeginRequest(key) {
		// A fresh user-initiated toggle owns the slot; let it win
		return nil
	}
	defer c.queue.EndRequest(key)

	outcome, err := dispatch()
	if err != nil {
		return err
	}
	c.reconcile(key, outcome)
	return nil
}

func (c *Controller) reconcile(key Key, outcome Outcome) {
	// A reconciled toggle supersedes any retry still queued for the key; a
	// stale timer firing later would re-toggle the state just settled.
	c.queue.Cancel(key)

	c.mu.Lock()
	next := c.states[key].Reconcile(outcome.Active, outcome.Counterpart, outcome.ActiveCount, outcome.CounterpartCount)
	c.states[key] = next
	delete(c.snapshots, key)
	c.mu.Unlock()

	c.notify(key, next)
}

func (c *Controller) rollback(key Key, err error) {
	c.mu.Lock()
	snapshot, ok := c.snapshots[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	next := c.states[key].Rollback(snapshot)
	c.states[key] = next
	delete(c.snapshots, key)
	c.mu.Unlock()

	c.notify(key, next)

	if c.hooks.OnToast != nil {
		c.hooks.OnToast(toastMessage(err))
	}
}

func (c *Controller) notify(key Key, state State) {
	if c.hooks.OnStateChange != nil {
		c.hooks.OnStateChange(key, state)
	}
}

// toastMessage picks the user-facing text for a terminal failure. Server
// messages are surfaced verbatim where they exist.
func toastMessage(err error) string {
	var apiErr *client.APIError
	if e, ok := err.(*client.APIError); ok {
		apiErr = e
	}
	if apiErr == nil {
		return "something went wrong, please try again"
	}
	switch apiErr.Kind {
	case client.KindNotFound:
		return "that content is no longer available"
	case client.KindPrecondition, client.KindRateLimited:
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return "something went wrong, please try again"
}
