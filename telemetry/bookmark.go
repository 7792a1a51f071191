package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/holdline-games/warden/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPortalCritical BookmarkType = "portal_critical"
	BookmarkPlayerLowHP    BookmarkType = "player_low_hp"
	BookmarkEnemySurge     BookmarkType = "enemy_surge"
	BookmarkFastClear      BookmarkType = "fast_clear"
	BookmarkStalemate      BookmarkType = "stalemate"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType
	Tick        int64
	Description string
}

// LogBookmark logs the bookmark via slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable moments in a run from a rolling history
// of WindowStats. Grounded on the teacher's BookmarkDetector
// (telemetry/bookmark.go), generalized from ecosystem population swings
// to portal/player health crises and enemy-pressure swings.
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentEnemyMin   int
	stalemateWindows int
	fastClearStreak  int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkPortalCritical(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPlayerLowHP(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkEnemySurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFastClear(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStalemate(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.LiveEnemies < bd.recentEnemyMin || bd.recentEnemyMin == 0 {
		bd.recentEnemyMin = stats.LiveEnemies
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) checkPortalCritical(stats WindowStats) *Bookmark {
	cfg := config.Cfg().Bookmarks
	if stats.PortalMaxHP <= 0 || stats.PortalHPRatio > cfg.PortalCriticalHPRatio {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPortalCritical,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Portal HP at %.0f%% of max", stats.PortalHPRatio*100),
	}
}

func (bd *BookmarkDetector) checkPlayerLowHP(stats WindowStats) *Bookmark {
	cfg := config.Cfg().Bookmarks
	if stats.PlayerMaxHP <= 0 {
		return nil
	}
	ratio := float64(stats.PlayerHP) / float64(stats.PlayerMaxHP)
	if ratio > cfg.PlayerLowHPRatio {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPlayerLowHP,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Player HP at %.0f%% of max", ratio*100),
	}
}

func (bd *BookmarkDetector) checkEnemySurge(stats WindowStats) *Bookmark {
	cfg := config.Cfg().Bookmarks
	if bd.recentEnemyMin == 0 {
		return nil
	}
	threshold := float64(bd.recentEnemyMin) * cfg.EnemySurgeMultiplier
	if float64(stats.LiveEnemies) >= threshold && stats.LiveEnemies >= cfg.EnemySurgeMinLive {
		oldMin := bd.recentEnemyMin
		bd.recentEnemyMin = stats.LiveEnemies
		return &Bookmark{
			Type:        BookmarkEnemySurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Live enemies surged from %d to %d", oldMin, stats.LiveEnemies),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkFastClear(stats WindowStats) *Bookmark {
	cfg := config.Cfg().Bookmarks
	if stats.EnemiesKilled == 0 || stats.LiveEnemies > 0 {
		bd.fastClearStreak = 0
		return nil
	}
	bd.fastClearStreak++
	if bd.fastClearStreak == cfg.FastClearWindows {
		bd.fastClearStreak = 0
		return &Bookmark{
			Type:        BookmarkFastClear,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Wave %d's enemies cleared within %d windows", stats.WaveIndex, cfg.FastClearWindows),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStalemate(stats WindowStats) *Bookmark {
	cfg := config.Cfg().Bookmarks
	if stats.EnemiesKilled > 0 || stats.EnemiesSpawned > 0 {
		bd.stalemateWindows = 0
		return nil
	}
	if stats.LiveEnemies == 0 {
		return nil
	}
	bd.stalemateWindows++
	if bd.stalemateWindows == cfg.StalemateWindows {
		return &Bookmark{
			Type:        BookmarkStalemate,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d live enemies with no kills or spawns over %d windows", stats.LiveEnemies, cfg.StalemateWindows),
		}
	}
	return nil
}
