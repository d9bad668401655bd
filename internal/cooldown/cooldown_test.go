package cooldown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "cooldown:u1:like:v1", Key("u1", "like", "v1"))
	assert.NotEqual(t, Key("u1", "like", "v1"), Key("u1", "like", "v2"))
	assert.NotEqual(t, Key("u1", "like", "v1"), Key("u1", "star", "v1"))
}

func TestMemoryStoreClaimsWindow(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()
	ctx := context.Background()

	allowed, remaining, err := store.Attempt(ctx, "k", time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, remaining)

	// Second attempt inside the window is rejected with the remaining wait
	allowed, remaining, err = store.Attempt(ctx, "k", time.Second)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, time.Second)
}

func TestMemoryStoreIndependentKeys(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()
	ctx := context.Background()

	allowed, _, err := store.Attempt(ctx, "a", time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = store.Attempt(ctx, "b", time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryStoreWindowExpires(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()
	ctx := context.Background()

	allowed, _, err := store.Attempt(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)
	require.True(t, allowed)

	time.Sleep(30 * time.Millisecond)

	allowed, _, err = store.Attempt(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryStoreConcurrentAttempts(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()
	ctx := context.Background()

	const goroutines = 32
	results := make(chan bool, goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			allowed, _, _ := store.Attempt(ctx, "contended", time.Second)
			results <- allowed
		}()
	}

	winners := 0
	for i := 0; i < goroutines; i++ {
		if <-results {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one attempt should claim the window")
}
