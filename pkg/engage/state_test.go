package engage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeculateTogglesOn(t *testing.T) {
	s := State{Active: false, ActiveCount: 10}

	next := s.Speculate()
	assert.Equal(t, PhaseSpeculative, next.Phase)
	assert.True(t, next.Active)
	assert.Equal(t, 11, next.ActiveCount)
	assert.True(t, next.Loading)

	// The receiver is untouched and usable as the rollback snapshot
	assert.False(t, s.Active)
	assert.Equal(t, 10, s.ActiveCount)
}

func TestSpeculateTogglesOff(t *testing.T) {
	s := State{Active: true, ActiveCount: 11}

	next := s.Speculate()
	assert.False(t, next.Active)
	assert.Equal(t, 10, next.ActiveCount)
}

func TestSpeculateClearsCounterpart(t *testing.T) {
	// Liking while disliked: dislike clears locally in the same step
	s := State{Active: false, ActiveCount: 5, Counterpart: true, CounterpartCount: 3}

	next := s.Speculate()
	assert.True(t, next.Active)
	assert.Equal(t, 6, next.ActiveCount)
	assert.False(t, next.Counterpart)
	assert.Equal(t, 2, next.CounterpartCount)
}

func TestSpeculateOffLeavesCounterpart(t *testing.T) {
	// Un-liking never resurrects a dislike
	s := State{Active: true, ActiveCount: 5, Counterpart: false, CounterpartCount: 3}

	next := s.Speculate()
	assert.False(t, next.Active)
	assert.False(t, next.Counterpart)
	assert.Equal(t, 3, next.CounterpartCount)
}

func TestReconcileServerTruthWins(t *testing.T) {
	// The guess said 6 likes; another device raced us and the server
	// reports 8
	s := State{Phase: PhaseSpeculative, Active: true, ActiveCount: 6, Loading: true}

	next := s.Reconcile(true, false, 8, 1)
	assert.Equal(t, PhaseReconciled, next.Phase)
	assert.True(t, next.Active)
	assert.Equal(t, 8, next.ActiveCount)
	assert.Equal(t, 1, next.CounterpartCount)
	assert.False(t, next.Loading)
}

func TestRollbackRestoresSnapshot(t *testing.T) {
	snapshot := State{Active: false, ActiveCount: 10, Counterpart: true, CounterpartCount: 4}
	speculative := snapshot.Speculate()

	back := speculative.Rollback(snapshot)
	assert.Equal(t, PhaseRolledBack, back.Phase)
	assert.Equal(t, snapshot.Active, back.Active)
	assert.Equal(t, snapshot.ActiveCount, back.ActiveCount)
	assert.Equal(t, snapshot.Counterpart, back.Counterpart)
	assert.Equal(t, snapshot.CounterpartCount, back.CounterpartCount)
	assert.False(t, back.Loading)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "speculative", PhaseSpeculative.String())
	assert.Equal(t, "reconciled", PhaseReconciled.String())
	assert.Equal(t, "rolled-back", PhaseRolledBack.String())
}
