package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for one telemetry window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	WaveIndex int    `csv:"wave_index"`
	WaveState string `csv:"wave_state"`

	PortalHP       int32   `csv:"portal_hp"`
	PortalMaxHP    int32   `csv:"portal_max_hp"`
	PortalHPRatio  float64 `csv:"portal_hp_ratio"`
	PlayerHP       int32   `csv:"player_hp"`
	PlayerMaxHP    int32   `csv:"player_max_hp"`
	LiveEnemies    int     `csv:"live_enemies"`

	EnemiesSpawned     int `csv:"enemies_spawned"`
	EnemiesKilled      int `csv:"enemies_killed"`
	BlocksMined        int `csv:"blocks_mined"`
	BlocksPlaced       int `csv:"blocks_placed"`
	ProjectilesFired   int `csv:"projectiles_fired"`
	AgingPassesRun     int `csv:"aging_passes_run"`
	CellsChanged       int `csv:"cells_changed"`

	EnemyHPMean float64 `csv:"enemy_hp_mean"`
	EnemyHPP10  float64 `csv:"enemy_hp_p10"`
	EnemyHPP50  float64 `csv:"enemy_hp_p50"`
	EnemyHPP90  float64 `csv:"enemy_hp_p90"`
}

// Percentile computes the p-th percentile (p in [0,1]) of a sorted slice
// via linear interpolation. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeHPStats calculates mean and percentiles from a set of HP ratios.
func ComputeHPStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("wave_index", s.WaveIndex),
		slog.String("wave_state", s.WaveState),
		slog.Int("portal_hp", int(s.PortalHP)),
		slog.Float64("portal_hp_ratio", s.PortalHPRatio),
		slog.Int("player_hp", int(s.PlayerHP)),
		slog.Int("live_enemies", s.LiveEnemies),
		slog.Int("enemies_spawned", s.EnemiesSpawned),
		slog.Int("enemies_killed", s.EnemiesKilled),
		slog.Int("blocks_mined", s.BlocksMined),
		slog.Int("blocks_placed", s.BlocksPlaced),
		slog.Int("projectiles_fired", s.ProjectilesFired),
		slog.Int("aging_passes_run", s.AgingPassesRun),
		slog.Int("cells_changed", s.CellsChanged),
		slog.Float64("enemy_hp_mean", s.EnemyHPMean),
	)
}

// LogStats logs the window stats via slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"wave_index", s.WaveIndex,
		"wave_state", s.WaveState,
		"portal_hp", s.PortalHP,
		"portal_hp_ratio", s.PortalHPRatio,
		"player_hp", s.PlayerHP,
		"live_enemies", s.LiveEnemies,
		"enemies_spawned", s.EnemiesSpawned,
		"enemies_killed", s.EnemiesKilled,
		"blocks_mined", s.BlocksMined,
		"blocks_placed", s.BlocksPlaced,
		"projectiles_fired", s.ProjectilesFired,
		"aging_passes_run", s.AgingPassesRun,
		"cells_changed", s.CellsChanged,
		"enemy_hp_mean", s.EnemyHPMean,
	)
}
