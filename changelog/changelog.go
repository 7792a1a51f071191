// Package changelog implements ChangeLog (C9): a deduplicated set of
// (col,row) invalidations accumulated across a tick by aging, damage,
// placement, and water propagation, drained by the renderer each frame.
// Grounded on telemetry/collector.go's accumulate-within-a-window-then-
// flush shape, adapted from time-windowed event counters to a
// per-tick coordinate set.
package changelog

import (
	"sort"

	"github.com/holdline-games/warden/aging"
)

// Coord is a (col,row) grid coordinate.
type Coord struct {
	Col, Row int
}

// Log accumulates changed coordinates. Zero value is ready to use.
type Log struct {
	changed map[Coord]struct{}
}

// NewLog constructs an empty Log.
func NewLog() *Log {
	return &Log{changed: make(map[Coord]struct{})}
}

// Mark records (col,row) as changed this tick. Marking an already-marked
// coordinate is a no-op (§4.9: deduplicated).
func (l *Log) Mark(col, row int) {
	if l.changed == nil {
		l.changed = make(map[Coord]struct{})
	}
	l.changed[Coord{Col: col, Row: row}] = struct{}{}
}

// Len reports how many distinct coordinates are pending.
func (l *Log) Len() int {
	return len(l.changed)
}

// Drain returns every pending coordinate sorted by row descending (§4.9:
// "aging additionally returns its changes sorted by row descending so
// consumers can update cascading dependencies bottom-up" — applied here to
// every drain, not just aging's, since any consumer benefits from a stable
// bottom-up order), then clears the log for the next tick.
func (l *Log) Drain() []Coord {
	out := make([]Coord, 0, len(l.changed))
	for c := range l.changed {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row > out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	l.changed = make(map[Coord]struct{})
	return out
}

// MarkAll records every coordinate in coords as changed. Convenience for
// consumers that already hold a batch of coordinates.
func (l *Log) MarkAll(coords []Coord) {
	for _, c := range coords {
		l.Mark(c.Col, c.Row)
	}
}

// MarkAging records every coordinate touched by an aging pass (§4.9: aging
// feeds ChangeLog directly from its committed Change list).
func (l *Log) MarkAging(changes []aging.Change) {
	for _, c := range changes {
		l.Mark(c.Col, c.Row)
	}
}
