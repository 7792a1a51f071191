// Package telemetry provides ambient observability for a run: windowed
// stats, per-phase tick timing, and automatic bookmarking of notable
// moments, all exported to CSV for offline analysis. Grounded on the
// teacher's telemetry package (collector.go, perf.go, bookmark.go,
// output.go), generalized from ecosystem bite/birth/death tracking to
// wave/combat/mining events.
package telemetry

// EventType identifies a telemetry event.
type EventType uint8

const (
	EventEnemySpawned EventType = iota
	EventEnemyKilled
	EventPlayerDamaged
	EventPortalDamaged
	EventBlockMined
	EventBlockPlaced
	EventProjectileFired
)

// Event represents a single telemetry event within a window.
type Event struct {
	Type     EventType
	Tick     int64
	EntityID uint32
	Amount   float64 // damage dealt, or 0 for non-amount events
}
