// Package sim implements the World orchestrator (§5): the single-threaded
// cooperative tick pipeline that ties C1–C11 plus C12 WorldGen together.
// Grounded on game/game.go's Game struct (the teacher's single aggregate
// owning the ECS world, RNG, and every subsystem, with one Update method
// sequencing phases) and game/simulation.go's per-tick ordering, adapted
// from the teacher's flow-field/behavior/physics/feeding/energy/
// reproduction/cleanup/telemetry phase sequence to §5's input→AI→physics→
// projectiles→scheduler→lighting→ChangeLog sequence. Per §9's "aggregate
// into a World value owned by main; pass explicitly" redesign flag, World
// holds every subsystem directly rather than through package-level globals.
package sim

import (
	"math"
	"math/rand"

	"github.com/holdline-games/warden/aging"
	"github.com/holdline-games/warden/ai"
	"github.com/holdline-games/warden/cell"
	"github.com/holdline-games/warden/changelog"
	"github.com/holdline-games/warden/collision"
	"github.com/holdline-games/warden/config"
	"github.com/holdline-games/warden/entity"
	"github.com/holdline-games/warden/grid"
	"github.com/holdline-games/warden/lighting"
	"github.com/holdline-games/warden/physics"
	"github.com/holdline-games/warden/portal"
	"github.com/holdline-games/warden/projectile"
	"github.com/holdline-games/warden/telemetry"
	"github.com/holdline-games/warden/wave"
	"github.com/holdline-games/warden/worldgen"

	"github.com/mlange-42/ark/ecs"
)

// Player/projectile tuning not named by any §6 Configuration field — the
// spec only lists the input surface and world-level constants, not the
// player's own footprint or attack stats. Decided here rather than left
// to a guess scattered across call sites.
const (
	playerHalfWidth  = 8.0
	playerHalfHeight = 16.0
	playerMaxHP      = int32(100)
	playerMoveSpeed  = 90.0
	playerJumpSpeed  = 220.0
	ropeClimbSpeed   = 60.0

	miningDamagePerAttack   = 20
	projectileSpeed         = 260.0
	projectileDamage       = int32(12)
	projectileGravityFactor = 0.3

	enemyHalfWidth  = 8.0
	enemyHalfHeight = 8.0
)

// Input is one tick's worth of host-provided control state (§6 External
// Interfaces).
type Input struct {
	Left, Right, Jump, Down, Attack bool
	MaterialSelect, WeaponSelect    int
	AimWorldX, AimWorldY            float64
}

// EntityView is the read-only projection of an entity the renderer
// consumes (§6: "entities() -> Iterator<&EntityView>").
type EntityView struct {
	Kind                         entity.Kind
	AI                           entity.AIKind
	X, Y                         float64
	MinX, MinY, MaxX, MaxY       float64
	Facing                       int8
	OnGround, InWater, OnRope    bool
	HPRatio                      float64
}

// PortalView is the read-only projection of the portal the renderer
// consumes (§6: "portal_view()").
type PortalView struct {
	Col, Row     float64
	HP, MaxHP    int32
	SafetyRadius float64
	Alive        bool
}

// WaveInfo is the read-only projection of scheduler state the renderer
// consumes (§6: "wave_info() (state, time-remaining, wave number)").
type WaveInfo struct {
	State         wave.State
	WaveIndex     int
	TimeRemaining float64
}

// World owns every subsystem for one run. Construct with NewWorld, then
// call Tick once per simulation step.
type World struct {
	cfg *config.Config

	grid     *grid.Grid
	arena    *entity.Arena
	resolver *collision.Resolver
	physics  *physics.Step
	projectiles *projectile.Sim
	agingEngine *aging.Engine
	scheduler   *wave.Scheduler
	portal      *portal.Portal
	changes     *changelog.Log

	sun      lighting.Source
	lightCfg lighting.Config

	entityRNG *rand.Rand
	clocks    map[uint32]*ai.Clock

	telemetryCollector *telemetry.Collector
	bookmarks          *telemetry.BookmarkDetector
	pendingWindow      *telemetry.WindowStats
	pendingBookmarks   []telemetry.Bookmark

	player ecs.Entity
	paused bool
	tick   int64
}

// NewWorld constructs a fresh run from cfg: generates the grid, wires
// every subsystem, runs the configured number of initial aging passes,
// and spawns the player. Per SPEC_FULL.md's open question 4, world
// genesis, aging, and entity spawning each draw from their own RNG
// stream derived from the same seed so each is independently
// reproducible regardless of how the others are exercised.
func NewWorld(cfg *config.Config) *World {
	g := grid.New(cfg.Grid.Cols, cfg.Grid.Rows)

	wgParams := worldgen.DefaultParams()
	wgParams.CaveThreshold = cfg.WorldGen.CaveThreshold
	wgParams.IslandCount = cfg.WorldGen.IslandCount
	wgParams.NoiseFrequency = cfg.WorldGen.NoiseFrequency
	worldgen.Generate(g, cfg.Seed+1, wgParams)

	resolver := collision.NewResolver(g, cfg.Grid.BlockWidth, cfg.Grid.BlockHeight, cfg.Physics)
	arena := entity.NewArena()
	bounds := physics.Bounds{
		Width:  float64(cfg.Grid.Cols) * cfg.Grid.BlockWidth,
		Height: float64(cfg.Grid.Rows) * cfg.Grid.BlockHeight,
	}
	pstep := physics.NewStep(arena, resolver, cfg, bounds)
	proj := projectile.NewSim(arena, resolver, cfg)

	agingCfg := aging.Config{
		ProbDiamondFormation:           cfg.Aging.ProbDiamondFormation,
		ProbVegetationToWoodSurrounded: cfg.Aging.ProbVegetationToWoodSurrounded,
		ProbDirtGrowsVegetation:        cfg.Aging.ProbDirtGrowsVegetation,
		MinTreeSpacingRadius:           cfg.Aging.MinTreeSpacingRadius,
	}
	agingEngine := aging.NewEngine(uint64(cfg.Seed), aging.DefaultRuleSet(), agingCfg)

	scheduler := wave.NewScheduler(cfg.Waves, cfg.Scheduler.WaveStartDelay, cfg.Scheduler.WarpPhaseDuration, cfg.Scheduler.LiveEnemyThreshold)

	portalCol := float64(cfg.Grid.Cols) / 2
	portalRow := float64(cfg.WorldGen.SeaLevelRow) - 10
	if portalRow < 2 {
		portalRow = 2
	}
	p := portal.New(portalCol, portalRow, 3, 3, cfg.Portal)

	lightCfg := lighting.Config{
		MinLightThreshold:      cfg.Lighting.MinLightThreshold,
		InitialLightRayPower:   cfg.Lighting.InitialLightRayPower,
		SunRaysPerPosition:     cfg.Lighting.SunRaysPerPosition,
		MaxLightRayLengthCells: cfg.Lighting.MaxLightRayLengthBlocks,
		SunMovementStepColumns: cfg.Lighting.SunMovementStepColumns,
		SunMovementYRowOffset:  cfg.Lighting.SunMovementYRowOffset,
	}
	sun := lighting.Source{}
	lighting.Recompute(g, sun, lightCfg)

	w := &World{
		cfg:         cfg,
		grid:        g,
		arena:       arena,
		resolver:    resolver,
		physics:     pstep,
		projectiles: proj,
		agingEngine: agingEngine,
		scheduler:   scheduler,
		portal:      p,
		changes:     changelog.NewLog(),
		sun:         sun,
		lightCfg:    lightCfg,
		entityRNG:   rand.New(rand.NewSource(cfg.Seed + 2)),
		clocks:      make(map[uint32]*ai.Clock),

		telemetryCollector: telemetry.NewCollector(cfg.Telemetry.WindowDurationSec, cfg.Physics.MaxDeltaTime),
		bookmarks:          telemetry.NewBookmarkDetector(20),
	}
	pstep.SetReactionHook(w.reactToCollision)

	for i := 0; i < cfg.Aging.InitialPasses; i++ {
		w.runAgingPass()
	}

	spawnX := portalCol * cfg.Grid.BlockWidth
	spawnY := (portalRow - 4) * cfg.Grid.BlockHeight
	w.player = arena.Spawn(
		entity.Position{X: spawnX, Y: spawnY},
		entity.Velocity{},
		entity.Extent{HalfWidth: playerHalfWidth, HalfHeight: playerHalfHeight},
		entity.KindPlayer, entity.AINone, playerMaxHP,
	)

	return w
}

// CurrentTick reports the number of ticks this run has advanced,
// for host display/logging — not consulted by any simulation rule.
func (w *World) CurrentTick() int64 { return w.tick }

// Paused reports whether Tick is currently a no-op.
func (w *World) Paused() bool { return w.paused }

// Pause suspends ticking (§5: "a pause flag short-circuits the tick
// before AI, leaving state untouched").
func (w *World) Pause() { w.paused = true }

// Resume un-suspends ticking.
func (w *World) Resume() { w.paused = false }

// Tick advances the simulation by dt seconds, applying the host's input
// for the player this tick. A no-op while paused.
func (w *World) Tick(dt float64, in Input) {
	if w.paused {
		return
	}
	dt = clampDT(dt, w.cfg.Physics.MaxDeltaTime)
	w.tick++

	w.applyInput(in, dt)
	w.decideEnemies(dt)
	ai.Separate(w.arena, w.cfg.Entity.SeparationRadiusFactor, w.cfg.Entity.SeparationStrength, dt)

	w.physics.Run(w.grid, dt)
	w.projectiles.Step(w.grid, dt, projectileGravityFactor)

	step := w.scheduler.Step(dt)
	for i := 0; i < step.AgingPasses; i++ {
		w.runAgingPass()
	}
	if step.GrowPortalRadius {
		w.portal.GrowRadius()
	}
	for _, req := range step.Spawns {
		w.spawnEnemy(req.Type)
	}
	w.scheduler.SetLiveEnemies(w.countLiveEnemies())

	if w.sun.Advance(w.grid.Cols(), w.lightCfg) {
		lighting.Recompute(w.grid, w.sun, w.lightCfg)
	}

	w.sweepDead()

	if !w.portal.Alive() {
		w.scheduler.PortalDied()
	}
	if w.arena.Alive(w.player) && w.arena.HealthOf(w.player).HP <= 0 {
		w.scheduler.PlayerDied()
	}

	if w.telemetryCollector.ShouldFlush(w.tick) {
		stats := w.flushTelemetry()
		w.pendingWindow = &stats
		w.pendingBookmarks = append(w.pendingBookmarks, w.bookmarks.Check(stats)...)
	}
}

// flushTelemetry gathers the current instantaneous state and asks the
// telemetry.Collector to produce one WindowStats record.
func (w *World) flushTelemetry() telemetry.WindowStats {
	info := w.WaveInfo()
	playerHealth := w.arena.HealthOf(w.player)

	var enemyHPRatios []float64
	w.arena.Each(func(e ecs.Entity, pos *entity.Position, vel *entity.Velocity, ext *entity.Extent, flags *entity.Flags, health *entity.Health, variant *entity.Variant, inv *entity.Inventory) bool {
		if variant.Kind == entity.KindEnemy && health.MaxHP > 0 {
			enemyHPRatios = append(enemyHPRatios, float64(health.HP)/float64(health.MaxHP))
		}
		return true
	})

	return w.telemetryCollector.Flush(
		w.tick,
		info.WaveIndex, string(info.State),
		w.portal.HP(), w.portal.MaxHP(),
		playerHealth.HP, playerHealth.MaxHP,
		w.countLiveEnemies(),
		enemyHPRatios,
	)
}

// DrainTelemetryWindow returns the most recently completed telemetry
// window, if one has flushed since the last call.
func (w *World) DrainTelemetryWindow() (telemetry.WindowStats, bool) {
	if w.pendingWindow == nil {
		return telemetry.WindowStats{}, false
	}
	s := *w.pendingWindow
	w.pendingWindow = nil
	return s, true
}

// DrainBookmarks returns and clears every bookmark triggered since the
// last call.
func (w *World) DrainBookmarks() []telemetry.Bookmark {
	out := w.pendingBookmarks
	w.pendingBookmarks = nil
	return out
}

// GridSnapshot exposes the grid for read-only rendering (§6:
// "grid_snapshot() -> &Grid").
func (w *World) GridSnapshot() *grid.Grid { return w.grid }

// DrainChanges returns and clears every coordinate mutated since the last
// call (§6: "drain_changes() -> Iterator<(c,r,old_kind,new_kind)>" —
// old/new kind is available to the caller via GridSnapshot; ChangeLog
// itself only tracks coordinates per §4.9).
func (w *World) DrainChanges() []changelog.Coord { return w.changes.Drain() }

// Entities returns a snapshot view of every live entity for rendering.
func (w *World) Entities() []EntityView {
	var out []EntityView
	w.arena.Each(func(e ecs.Entity, pos *entity.Position, vel *entity.Velocity, ext *entity.Extent, flags *entity.Flags, health *entity.Health, variant *entity.Variant, inv *entity.Inventory) bool {
		minX, minY, maxX, maxY := pos.X-ext.HalfWidth, pos.Y-ext.HalfHeight, pos.X+ext.HalfWidth, pos.Y+ext.HalfHeight
		ratio := 0.0
		if health.MaxHP > 0 {
			ratio = float64(health.HP) / float64(health.MaxHP)
		}
		out = append(out, EntityView{
			Kind: variant.Kind, AI: variant.AI,
			X: pos.X, Y: pos.Y,
			MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY,
			Facing:   variant.Facing,
			OnGround: flags.OnGround, InWater: flags.InWater, OnRope: flags.OnRope,
			HPRatio: ratio,
		})
		return true
	})
	return out
}

// PortalView exposes the portal's renderable state.
func (w *World) PortalView() PortalView {
	col, row := w.portal.Center()
	return PortalView{
		Col: col, Row: row,
		HP: w.portal.HP(), MaxHP: w.portal.MaxHP(),
		SafetyRadius: w.portal.SafetyRadius(),
		Alive:        w.portal.Alive(),
	}
}

// WaveInfo exposes the scheduler's renderable state.
func (w *World) WaveInfo() WaveInfo {
	elapsed := w.scheduler.StateElapsed()
	var remaining float64
	switch w.scheduler.State() {
	case wave.StateActive:
		remaining = w.scheduler.CurrentWaveDuration() - elapsed
	case wave.StatePreGame:
		remaining = w.cfg.Scheduler.WaveStartDelay - elapsed
	case wave.StateWarp:
		remaining = w.cfg.Scheduler.WarpPhaseDuration - elapsed
	case wave.StateIntermission:
		idx := w.scheduler.WaveIndex()
		if idx >= 0 && idx < len(w.cfg.Waves) {
			remaining = w.cfg.Waves[idx].IntermissionDuration - elapsed
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	return WaveInfo{State: w.scheduler.State(), WaveIndex: w.scheduler.WaveIndex(), TimeRemaining: remaining}
}

// Reset discards every entity, regenerates the grid, and flushes the
// ChangeLog (§5: "a reset discards all entities and regenerates the
// grid; the ChangeLog is flushed").
func (w *World) Reset() {
	*w = *NewWorld(w.cfg)
}

func (w *World) runAgingPass() {
	changes := w.agingEngine.RunPass(w.grid, w.portal)
	w.changes.MarkAging(changes)
	w.telemetryCollector.RecordAgingPasses(1)
	w.telemetryCollector.RecordCellsChanged(len(changes))
}

func (w *World) countLiveEnemies() int {
	n := 0
	w.arena.Each(func(e ecs.Entity, pos *entity.Position, vel *entity.Velocity, ext *entity.Extent, flags *entity.Flags, health *entity.Health, variant *entity.Variant, inv *entity.Inventory) bool {
		if variant.Kind == entity.KindEnemy && health.HP > 0 {
			n++
		}
		return true
	})
	return n
}

func (w *World) sweepDead() {
	var dead []ecs.Entity
	w.arena.Each(func(e ecs.Entity, pos *entity.Position, vel *entity.Velocity, ext *entity.Extent, flags *entity.Flags, health *entity.Health, variant *entity.Variant, inv *entity.Inventory) bool {
		if variant.Kind == entity.KindPlayer {
			return true
		}
		if health.MaxHP > 0 && health.HP <= 0 {
			dead = append(dead, e)
			delete(w.clocks, variant.ID)
			if variant.Kind == entity.KindEnemy {
				w.telemetryCollector.RecordEnemyKilled()
			}
		}
		return true
	})
	for _, e := range dead {
		w.arena.Remove(e)
	}
}

func (w *World) clockFor(id uint32) *ai.Clock {
	c, ok := w.clocks[id]
	if !ok {
		c = ai.NewClock()
		w.clocks[id] = c
	}
	return c
}

func (w *World) decideEnemies(dt float64) {
	playerPos := *w.arena.Position(w.player)
	w.arena.Each(func(e ecs.Entity, pos *entity.Position, vel *entity.Velocity, ext *entity.Extent, flags *entity.Flags, health *entity.Health, variant *entity.Variant, inv *entity.Inventory) bool {
		if variant.Kind != entity.KindEnemy || health.HP <= 0 {
			return true
		}
		clock := w.clockFor(variant.ID)
		intent := ai.Decide(variant.AI, clock, *pos, playerPos, w.grid, dt, w.cfg.Grid.BlockWidth)
		ai.Apply(variant.AI, vel, intent)
		if intent.Jump && flags.OnGround {
			vel.Y = -playerJumpSpeed * 0.6
		}
		if intent.TargetVX > 0 {
			variant.Facing = 1
		} else if intent.TargetVX < 0 {
			variant.Facing = -1
		}
		return true
	})
}

// reactToCollision is wired into physics.Step via SetReactionHook so
// AI-driven entities can flip direction on a blocked horizontal move
// (§4.7's react_to_collision) without physics depending on ai.
func (w *World) reactToCollision(e ecs.Entity, res collision.Result) {
	if !w.arena.Alive(e) {
		return
	}
	variant := w.arena.VariantOf(e)
	if variant.Kind != entity.KindEnemy {
		return
	}
	clock := w.clockFor(variant.ID)
	ai.ReactToCollision(variant.AI, clock, res)
}

// spawnEnemy creates one enemy of the given wave-config type string,
// mapped to an entity.AIKind. Unrecognized types are ignored per §7's
// SpawnFailure policy (skip the spawn; scheduler continues).
func (w *World) spawnEnemy(kind string) {
	aiKind, ok := enemyAIKinds[kind]
	if !ok {
		return
	}

	col := 2 + w.entityRNG.Intn(w.grid.Cols()-4)
	row := w.spawnRowFor(aiKind)
	pos := entity.Position{
		X: (float64(col) + 0.5) * w.cfg.Grid.BlockWidth,
		Y: (float64(row) + 0.5) * w.cfg.Grid.BlockHeight,
	}
	maxHP := enemyMaxHP[aiKind]
	w.arena.Spawn(pos, entity.Velocity{}, entity.Extent{HalfWidth: enemyHalfWidth, HalfHeight: enemyHalfHeight}, entity.KindEnemy, aiKind, maxHP)
	w.telemetryCollector.RecordEnemySpawned()
}

var enemyAIKinds = map[string]entity.AIKind{
	"seek_center":  entity.AISeekCenter,
	"chase_player": entity.AIChasePlayer,
	"flop":         entity.AIFlop,
	"fish":         entity.AIFish,
	"dunkleosteus": entity.AIDunkleosteus,
}

var enemyMaxHP = map[entity.AIKind]int32{
	entity.AISeekCenter:  20,
	entity.AIChasePlayer: 25,
	entity.AIFlop:        20,
	entity.AIFish:        30,
	entity.AIDunkleosteus: 90,
}

// spawnRowFor picks a plausible row for a spawning enemy: swimmers spawn
// within the water table, land-walkers spawn above the sea-level band.
func (w *World) spawnRowFor(k entity.AIKind) int {
	switch k {
	case entity.AIFish, entity.AIDunkleosteus:
		return w.cfg.WorldGen.SeaLevelRow + 5
	default:
		row := w.cfg.WorldGen.SeaLevelRow - 8
		if row < 1 {
			row = 1
		}
		return row
	}
}

// applyInput translates the host's per-tick Input into the player
// entity's velocity and actions. The §6 Input interface doesn't fully
// specify how attack/material_select/weapon_select compose; this
// resolves it as: weapon_select selects what "attack" does this tick —
// 0 mines the aimed cell, 1 places material_select's block there, 2+
// fires a projectile toward the aim point.
func (w *World) applyInput(in Input, dt float64) {
	if !w.arena.Alive(w.player) {
		return
	}
	pos := w.arena.Position(w.player)
	vel := w.arena.Velocity(w.player)
	flags := w.arena.FlagsOf(w.player)
	variant := w.arena.VariantOf(w.player)

	aimX, aimY := sanitizeAim(in.AimWorldX, in.AimWorldY, pos.X, pos.Y)

	col, row := w.resolver.ColAt(pos.X), w.resolver.RowAt(pos.Y)
	onRope := w.grid.IsRope(col, row)

	if in.Down && onRope && flags.RopeGrabCooldown <= 0 {
		flags.OnRope = true
	}
	if flags.OnRope && (in.Left || in.Right) {
		flags.OnRope = false
		flags.RopeGrabCooldown = w.cfg.Entity.RopeGrabCooldownDuration
	}

	if flags.OnRope {
		switch {
		case in.Jump:
			vel.Y = -ropeClimbSpeed
		case in.Down:
			vel.Y = ropeClimbSpeed
		default:
			vel.Y = 0
		}
	} else {
		switch {
		case in.Left && !in.Right:
			vel.X = -playerMoveSpeed
			variant.Facing = -1
		case in.Right && !in.Left:
			vel.X = playerMoveSpeed
			variant.Facing = 1
		default:
			vel.X = 0
		}
		if in.Jump && flags.OnGround {
			vel.Y = -playerJumpSpeed
		}
	}

	if in.Attack {
		w.playerAttack(in.WeaponSelect, in.MaterialSelect, aimX, aimY)
	}
}

func (w *World) playerAttack(weaponSelect, materialSelect int, aimX, aimY float64) {
	col, row := w.resolver.ColAt(aimX), w.resolver.RowAt(aimY)

	switch {
	case weaponSelect <= 0:
		destroyed, dropped, _ := w.grid.Damage(col, row, miningDamagePerAttack)
		w.changes.Mark(col, row)
		w.telemetryCollector.RecordCellsChanged(1)
		if destroyed && dropped != "" {
			inv := w.arena.InventoryOf(w.player)
			if inv.Items == nil {
				inv.Items = make(map[string]int)
			}
			inv.Items[dropped]++
			w.telemetryCollector.RecordBlockMined()
		}
	case weaponSelect == 1:
		k := cell.Kind(materialSelect)
		if materialSelect < 1 || materialSelect > int(cell.Diamond) {
			return
		}
		if existing, ok := w.grid.Get(col, row); !ok || existing.Kind != cell.Air {
			return
		}
		inv := w.arena.InventoryOf(w.player)
		key := cell.PropertiesFor(k).DroppedItem
		if key == "" || inv.Items[key] <= 0 {
			return
		}
		if w.grid.Set(col, row, k, true) {
			inv.Items[key]--
			w.changes.Mark(col, row)
			w.telemetryCollector.RecordCellsChanged(1)
			w.telemetryCollector.RecordBlockPlaced()
		}
	default:
		pos := w.arena.Position(w.player)
		dx, dy := aimX-pos.X, aimY-pos.Y
		dist := math.Hypot(dx, dy)
		if dist < 1e-6 {
			dist = 1
		}
		vel := entity.Velocity{X: dx / dist * projectileSpeed, Y: dy / dist * projectileSpeed}
		w.projectiles.Spawn(*pos, vel, projectileDamage)
		w.telemetryCollector.RecordProjectileFired()
	}
}

// sanitizeAim substitutes the player's own position for a NaN or
// non-finite aim point (§7 InvalidInputState: "clamp or substitute
// last-known-valid value; never propagate NaN into state").
func sanitizeAim(x, y, fallbackX, fallbackY float64) (float64, float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		x = fallbackX
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		y = fallbackY
	}
	return x, y
}

func clampDT(dt, maxDT float64) float64 {
	if dt < 0 || math.IsNaN(dt) {
		return 0
	}
	if dt > maxDT {
		return maxDT
	}
	return dt
}
