package server

import "time"

const (
	// writeWait bounds a single websocket write.
	writeWait = 10 * time.Second

	// idleWindowMs is the recency window that counts a player as active.
	idleWindowMs = 30 * 1000
)

// HubConfig carries the tunables of the game hub.
type HubConfig struct {
	// SweepInterval is the cadence of the persistence/eviction sweep.
	SweepInterval time.Duration
	// EvictAfterSweeps is how many consecutive zero-socket sweeps a game
	// survives in memory before being flushed and unloaded.
	EvictAfterSweeps int
}

// DefaultHubConfig returns the tunables used in production.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		SweepInterval:    20 * time.Second,
		EvictAfterSweeps: 3,
	}
}
