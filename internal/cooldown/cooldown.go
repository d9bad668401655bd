// Package cooldown enforces the per-(user, target, action) cooldowns behind
// the engagement toggle endpoints. An Attempt either claims the window or
// reports how long the caller must wait, so handlers can return 429 with the
// exact remaining time.
package cooldown

import (
	"context"
	"fmt"
	"time"
)

// Server-enforced cooldown windows. Client retry delays must exceed these
// to avoid thrashing (the SDK waits 1.1s / 3.1s).
const (
	WindowLike         = 1 * time.Second
	WindowStar         = 3 * time.Second
	WindowCommentReact = 3 * time.Second
	WindowComment      = 5 * time.Second
)

// Store claims cooldown windows atomically
type Store interface {
	// Attempt claims the window for key. It returns allowed=true when the key
	// was free (the window is now claimed), or allowed=false plus the
	// remaining wait when a previous claim is still live.
	Attempt(ctx context.Context, key string, window time.Duration) (allowed bool, remaining time.Duration, err error)
}

// Key builds the composite cooldown key for a user action on a target
func Key(userID, action, targetID string) string {
	return fmt.Sprintf("cooldown:%s:%s:%s", userID, action, targetID)
}
