package telemetry

// Collector accumulates events within a tick window and produces
// WindowStats. Grounded on the teacher's Collector (collector.go), which
// follows the same accumulate-then-Flush shape over ecosystem bite/birth/
// death counters.
type Collector struct {
	windowDurationTicks int64
	dt                  float64

	windowStartTick int64

	enemiesSpawned   int
	enemiesKilled    int
	blocksMined      int
	blocksPlaced     int
	projectilesFired int
	agingPassesRun   int
	cellsChanged     int
}

// NewCollector creates a Collector flushing every windowDurationSec of
// simulation time, at dt seconds per tick.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{windowDurationTicks: ticksPerWindow, dt: dt}
}

func (c *Collector) RecordEnemySpawned()          { c.enemiesSpawned++ }
func (c *Collector) RecordEnemyKilled()           { c.enemiesKilled++ }
func (c *Collector) RecordBlockMined()            { c.blocksMined++ }
func (c *Collector) RecordBlockPlaced()           { c.blocksPlaced++ }
func (c *Collector) RecordProjectileFired()       { c.projectilesFired++ }
func (c *Collector) RecordAgingPasses(n int)      { c.agingPassesRun += n }
func (c *Collector) RecordCellsChanged(n int)     { c.cellsChanged += n }

// ShouldFlush reports whether enough ticks have passed to flush the
// current window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 { return c.windowDurationTicks }

// Flush produces a WindowStats from the accumulated counters plus the
// caller-supplied instantaneous state, then resets counters for the next
// window.
func (c *Collector) Flush(
	currentTick int64,
	waveIndex int,
	waveState string,
	portalHP, portalMaxHP int32,
	playerHP, playerMaxHP int32,
	liveEnemies int,
	enemyHPRatios []float64,
) WindowStats {
	var portalRatio float64
	if portalMaxHP > 0 {
		portalRatio = float64(portalHP) / float64(portalMaxHP)
	}

	mean, p10, p50, p90 := ComputeHPStats(enemyHPRatios)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		WaveIndex: waveIndex,
		WaveState: waveState,

		PortalHP:      portalHP,
		PortalMaxHP:   portalMaxHP,
		PortalHPRatio: portalRatio,
		PlayerHP:      playerHP,
		PlayerMaxHP:   playerMaxHP,
		LiveEnemies:   liveEnemies,

		EnemiesSpawned:   c.enemiesSpawned,
		EnemiesKilled:    c.enemiesKilled,
		BlocksMined:      c.blocksMined,
		BlocksPlaced:     c.blocksPlaced,
		ProjectilesFired: c.projectilesFired,
		AgingPassesRun:   c.agingPassesRun,
		CellsChanged:     c.cellsChanged,

		EnemyHPMean: mean,
		EnemyHPP10:  p10,
		EnemyHPP50:  p50,
		EnemyHPP90:  p90,
	}

	c.windowStartTick = currentTick
	c.enemiesSpawned = 0
	c.enemiesKilled = 0
	c.blocksMined = 0
	c.blocksPlaced = 0
	c.projectilesFired = 0
	c.agingPassesRun = 0
	c.cellsChanged = 0

	return stats
}
