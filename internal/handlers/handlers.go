package handlers

import (
	"github.com/clipstream/clipstream/internal/cooldown"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	cooldowns cooldown.Store
}

// NewHandlers creates a new handlers instance
func NewHandlers(cooldowns cooldown.Store) *Handlers {
	return &Handlers{
		cooldowns: cooldowns,
	}
}
