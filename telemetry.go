package server

import "sync/atomic"

// Telemetry tracks hub counters exposed on the diagnostics endpoint.
type Telemetry struct {
	eventsProcessed atomic.Uint64
	broadcasts      atomic.Uint64
	broadcastBytes  atomic.Uint64
	evictions       atomic.Uint64
	persistErrors   atomic.Uint64
}

// TelemetrySnapshot is a point-in-time copy of the counters.
type TelemetrySnapshot struct {
	EventsProcessed uint64 `json:"eventsProcessed"`
	Broadcasts      uint64 `json:"broadcasts"`
	BroadcastBytes  uint64 `json:"broadcastBytes"`
	Evictions       uint64 `json:"evictions"`
	PersistErrors   uint64 `json:"persistErrors"`
}

func (t *Telemetry) recordEvent() { t.eventsProcessed.Add(1) }

func (t *Telemetry) recordBroadcast(bytes int) {
	t.broadcasts.Add(1)
	t.broadcastBytes.Add(uint64(bytes))
}

func (t *Telemetry) recordEviction() { t.evictions.Add(1) }

func (t *Telemetry) recordPersistError() { t.persistErrors.Add(1) }

// Snapshot copies the counters.
func (t *Telemetry) Snapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		EventsProcessed: t.eventsProcessed.Load(),
		Broadcasts:      t.broadcasts.Load(),
		BroadcastBytes:  t.broadcastBytes.Load(),
		Evictions:       t.evictions.Load(),
		PersistErrors:   t.persistErrors.Load(),
	}
}
