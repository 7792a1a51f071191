package telemetry

import (
	"testing"

	"github.com/holdline-games/warden/config"
)

func init() {
	config.MustInit("")
}

func TestBookmarkDetector_PortalCritical(t *testing.T) {
	bd := NewBookmarkDetector(10)

	stats := WindowStats{
		WindowEndTick: 600,
		PortalHP:      15,
		PortalMaxHP:   100,
		PortalHPRatio: 0.15, // below the 0.2 default threshold
	}
	bookmarks := bd.Check(stats)

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkPortalCritical {
			found = true
		}
	}
	if !found {
		t.Error("expected portal_critical bookmark")
	}
}

func TestBookmarkDetector_PlayerLowHP(t *testing.T) {
	bd := NewBookmarkDetector(10)

	stats := WindowStats{
		WindowEndTick: 600,
		PlayerHP:      10,
		PlayerMaxHP:   100, // 10% < 25% default threshold
	}
	bookmarks := bd.Check(stats)

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkPlayerLowHP {
			found = true
		}
	}
	if !found {
		t.Error("expected player_low_hp bookmark")
	}
}

func TestBookmarkDetector_EnemySurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 600), LiveEnemies: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1800, LiveEnemies: 8})

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkEnemySurge {
			found = true
		}
	}
	if !found {
		t.Error("expected enemy_surge bookmark")
	}
}

func TestBookmarkDetector_FastClear(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 600, WaveIndex: 0, EnemiesKilled: 3, LiveEnemies: 0})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 1200, WaveIndex: 0, EnemiesKilled: 1, LiveEnemies: 0})

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkFastClear {
			found = true
		}
	}
	if !found {
		t.Error("expected fast_clear bookmark after 2 consecutive all-killed windows")
	}
}

func TestBookmarkDetector_Stalemate(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var bookmarks []Bookmark
	for i := 0; i < 6; i++ {
		bookmarks = bd.Check(WindowStats{WindowEndTick: int64(i * 600), LiveEnemies: 3})
	}

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkStalemate {
			found = true
		}
	}
	if !found {
		t.Error("expected stalemate bookmark after 6 windows with no kills or spawns and live enemies present")
	}
}

func TestBookmarkDetector_QuietWindowTriggersNothing(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 600,
		PortalHP:      100, PortalMaxHP: 100, PortalHPRatio: 1.0,
		PlayerHP: 100, PlayerMaxHP: 100,
		LiveEnemies: 0,
	})
	if len(bookmarks) != 0 {
		t.Errorf("expected no bookmarks for a healthy quiet window, got %v", bookmarks)
	}
}
