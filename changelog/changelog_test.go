package changelog

import (
	"testing"

	"github.com/holdline-games/warden/aging"
	"github.com/holdline-games/warden/cell"
)

func TestMarkDeduplicates(t *testing.T) {
	l := NewLog()
	l.Mark(3, 4)
	l.Mark(3, 4)
	l.Mark(5, 4)
	if n := l.Len(); n != 2 {
		t.Fatalf("expected 2 distinct coordinates, got %d", n)
	}
}

func TestDrainSortsByRowDescendingThenColAscending(t *testing.T) {
	l := NewLog()
	l.Mark(1, 2)
	l.Mark(5, 9)
	l.Mark(0, 9)
	l.Mark(2, 5)

	out := l.Drain()
	want := []Coord{{Col: 0, Row: 9}, {Col: 5, Row: 9}, {Col: 2, Row: 5}, {Col: 1, Row: 2}}
	if len(out) != len(want) {
		t.Fatalf("expected %d coords, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: expected %+v, got %+v", i, want[i], out[i])
		}
	}
}

func TestDrainClearsTheLog(t *testing.T) {
	l := NewLog()
	l.Mark(1, 1)
	l.Drain()
	if n := l.Len(); n != 0 {
		t.Fatalf("expected empty log after Drain, got len=%d", n)
	}
	if out := l.Drain(); len(out) != 0 {
		t.Fatalf("expected a second Drain on an empty log to return nothing, got %v", out)
	}
}

func TestMarkAgingRecordsEveryChange(t *testing.T) {
	l := NewLog()
	changes := []aging.Change{
		{Col: 1, Row: 1, OldKind: cell.Dirt, NewKind: cell.Vegetation},
		{Col: 2, Row: 2, OldKind: cell.Stone, NewKind: cell.Diamond},
	}
	l.MarkAging(changes)
	if n := l.Len(); n != 2 {
		t.Fatalf("expected 2 marked coordinates, got %d", n)
	}
}
