// Package ai implements EntityAI (C7): a polymorphic decision module over
// the tagged AIKind variant set {SeekCenter, ChasePlayer, Flop, Fish,
// Dunkleosteus} producing movement intents, plus the scheduler-applied
// separation force. Grounded on systems/behavior.go's per-entity filter
// loop and constants-block convention. ChasePlayer is a simplified greedy
// horizontal chase toward the player's x that does not query the grid,
// rather than the teacher's systems/navgrid.go flow-field pathfinding (see
// DESIGN.md). Dispatch is by switch over entity.AIKind rather than one
// struct per variant (§9 REDESIGN FLAGS offers both shapes; a tagged
// switch keeps every variant's tuning constants in one place, matching how
// the teacher groups per-behavior constants into one block at the top of
// behavior.go instead of scattering them across per-kind types).
package ai

import (
	"math"

	"github.com/holdline-games/warden/collision"
	"github.com/holdline-games/warden/entity"
	"github.com/holdline-games/warden/grid"

	"github.com/mlange-42/ark/ecs"
)

// Tuning constants per variant, grouped the way the teacher groups
// behavior.go's flow/thrust/turn constants into one block.
const (
	seekCenterSpeed   = 60.0
	chasePlayerSpeed  = 70.0
	flopHopSpeed      = 50.0
	flopHopInterval   = 0.6 // seconds between direction flips
	fishWanderSpeed   = 45.0
	fishChaseRadius   = 200.0
	dunkleosteusSpeed = 110.0
)

// Neighbor is a nearby entity's position and AI tag, as seen by a decider
// (used for separation and for swimmers noticing each other).
type Neighbor struct {
	Pos entity.Position
	AI  entity.AIKind
}

// Intent is the movement decision produced by Decide (§4.7).
type Intent struct {
	TargetVX, TargetVY float64
	Jump               bool
}

// Clock tracks per-entity timers a stateless Decide call alone can't carry
// (e.g. Flop's hop-direction flip cadence). Callers own one Clock per
// entity and pass its pointer in; Decide mutates it.
type Clock struct {
	elapsed float64
	sign    float64
}

// NewClock returns a Clock in its initial state (facing positive x).
func NewClock() *Clock { return &Clock{sign: 1} }

// Decide computes the movement intent for one entity this tick (§4.7:
// decide_movement(player_pos, neighbors, dt) -> Intent). For land-walking
// variants (SeekCenter, ChasePlayer, Flop) Apply drops TargetVY and
// PhysicsStep controls the vertical axis via gravity; swimmers (Fish,
// Dunkleosteus) have both axes honored directly.
func Decide(kind entity.AIKind, clock *Clock, self, player entity.Position, g *grid.Grid, dt float64, blockWidth float64) Intent {
	switch kind {
	case entity.AISeekCenter:
		return decideSeekCenter(self, g, blockWidth)
	case entity.AIChasePlayer:
		return decideChasePlayer(self, player)
	case entity.AIFlop:
		return decideFlop(clock, dt)
	case entity.AIFish:
		return decideFish(self, player)
	case entity.AIDunkleosteus:
		return decideDunkleosteus(self, player)
	default:
		return Intent{}
	}
}

func decideSeekCenter(self entity.Position, g *grid.Grid, blockWidth float64) Intent {
	centerX := float64(g.Cols()) * blockWidth / 2
	if math.Abs(self.X-centerX) < 1 {
		return Intent{}
	}
	if self.X < centerX {
		return Intent{TargetVX: seekCenterSpeed}
	}
	return Intent{TargetVX: -seekCenterSpeed}
}

func decideChasePlayer(self, player entity.Position) Intent {
	dx := player.X - self.X
	if math.Abs(dx) < 1 {
		return Intent{}
	}
	if dx > 0 {
		return Intent{TargetVX: chasePlayerSpeed}
	}
	return Intent{TargetVX: -chasePlayerSpeed}
}

func decideFlop(clock *Clock, dt float64) Intent {
	clock.elapsed += dt
	if clock.elapsed >= flopHopInterval {
		clock.elapsed = 0
		clock.sign = -clock.sign
	}
	return Intent{TargetVX: flopHopSpeed * clock.sign, Jump: true}
}

func decideFish(self, player entity.Position) Intent {
	dx, dy := player.X-self.X, player.Y-self.Y
	dist := math.Hypot(dx, dy)
	if dist > fishChaseRadius || dist < 1 {
		return Intent{TargetVX: 0, TargetVY: -fishWanderSpeed / 4}
	}
	return Intent{TargetVX: fishWanderSpeed * dx / dist, TargetVY: fishWanderSpeed * dy / dist}
}

func decideDunkleosteus(self, player entity.Position) Intent {
	dx, dy := player.X-self.X, player.Y-self.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return Intent{}
	}
	return Intent{TargetVX: dunkleosteusSpeed * dx / dist, TargetVY: dunkleosteusSpeed * dy / dist}
}

// ReactToCollision is the AI capability's other half (§4.7): on a blocked
// horizontal move, Flop reverses its hop direction instead of pushing into
// the wall forever. SeekCenter's clock is flipped too, but
// decideSeekCenter does not read it, so a blocked SeekCenter keeps heading
// for the center column; other kinds are left unchanged.
func ReactToCollision(kind entity.AIKind, clock *Clock, res collision.Result) {
	if !res.CollidedX {
		return
	}
	switch kind {
	case entity.AIFlop, entity.AISeekCenter:
		if clock != nil {
			clock.sign = -clock.sign
			clock.elapsed = 0
		}
	}
}

// Apply writes an Intent into the entity's velocity, honoring the
// land-walker rule that TargetVY is ignored (physics controls the
// vertical axis via gravity for SeekCenter, ChasePlayer and Flop).
func Apply(kind entity.AIKind, vel *entity.Velocity, intent Intent) {
	vel.X = intent.TargetVX
	switch kind {
	case entity.AIFish, entity.AIDunkleosteus:
		vel.Y = intent.TargetVY
	}
}

// Separate applies the shared reciprocal separation force (§4.7) to every
// pair of entities within radius = SeparationRadiusFactor * combined AABB
// half-width, run by the scheduler after per-AI decisions and before
// PhysicsStep integrates.
func Separate(arena *entity.Arena, radiusFactor, strength, dt float64) {
	type snap struct {
		pos    entity.Position
		ext    entity.Extent
		velPtr *entity.Velocity
	}
	var snaps []snap
	arena.Each(func(e ecs.Entity, pos *entity.Position, vel *entity.Velocity, ext *entity.Extent, flags *entity.Flags, health *entity.Health, variant *entity.Variant, inv *entity.Inventory) bool {
		snaps = append(snaps, snap{pos: *pos, ext: *ext, velPtr: vel})
		return true
	})

	for i := range snaps {
		for j := i + 1; j < len(snaps); j++ {
			a, b := snaps[i], snaps[j]
			dx := b.pos.X - a.pos.X
			dy := b.pos.Y - a.pos.Y
			dist := math.Hypot(dx, dy)
			radius := radiusFactor * (a.ext.HalfWidth + b.ext.HalfWidth)
			if dist >= radius || dist < 1e-6 {
				continue
			}
			push := strength * (1 - dist/radius) * dt
			nx, ny := dx/dist, dy/dist
			a.velPtr.X -= nx * push
			a.velPtr.Y -= ny * push
			b.velPtr.X += nx * push
			b.velPtr.Y += ny * push
		}
	}
}
