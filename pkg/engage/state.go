package engage

// Phase tracks where one action-target pair sits in the optimistic cycle
type Phase int

const (
	// PhaseIdle means no toggle is outstanding; state reflects the last
	// known server truth
	PhaseIdle Phase = iota
	// PhaseSpeculative means a local guess is showing while the network
	// call (or a queued retry) is outstanding
	PhaseSpeculative
	// PhaseReconciled means the server answered and its values overwrote
	// the guess
	PhaseReconciled
	// PhaseRolledBack means the toggle failed terminally and state was
	// restored to the pre-action snapshot
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSpeculative:
		return "speculative"
	case PhaseReconciled:
		return "reconciled"
	case PhaseRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// State is the view state for one action-target pair. Active is the toggled
// boolean (liked, disliked, or starred); Counterpart is the mutually
// exclusive opposite where one exists (like vs dislike) and stays false for
// star. States are values: every transition returns a new State, leaving the
// input untouched so snapshots stay intact for rollback.
type State struct {
	Phase            Phase
	Active           bool
	ActiveCount      int
	Counterpart      bool
	CounterpartCount int
	Loading          bool
}

// Speculate applies the local toggle guess: flip Active, adjust its count,
// and clear the counterpart (with its count) when turning Active on. The
// returned state is speculative and loading; the receiver is the snapshot to
// roll back to.
func (s State) Speculate() State {
	next := s
	next.Phase = PhaseSpeculative
	next.Loading = true

	if s.Active {
		next.Active = false
		next.ActiveCount--
	} else {
		next.Active = true
		next.ActiveCount++
		if s.Counterpart {
			next.Counterpart = false
			next.CounterpartCount--
		}
	}
	return next
}

// Reconcile overwrites the speculative guess with server truth. Server
// values win even when they disagree with the guess, which corrects for
// races with the same account on other devices.
func (s State) Reconcile(active, counterpart bool, activeCount, counterpartCount int) State {
	next := s
	next.Phase = PhaseReconciled
	next.Active = active
	next.ActiveCount = activeCount
	next.Counterpart = counterpart
	next.CounterpartCount = counterpartCount
	next.Loading = false
	return next
}

// Rollback restores the pre-action snapshot after a terminal failure
func (s State) Rollback(snapshot State) State {
	next := snapshot
	next.Phase = PhaseRolledBack
	next.Loading = false
	return next
}
