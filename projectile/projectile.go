// Package projectile implements ProjectileSim (C8): ballistic arrows
// integrated with reduced gravity that stick on hitting a solid cell and
// deal damage then deactivate on intersecting an enemy's AABB. Grounded on
// systems/physics.go's integration shape (velocity clamp, position
// integrate, collision response) generalized to projectile-specific rules
// — stick-on-solid instead of wall-slide, deactivate-on-hit instead of
// friction.
package projectile

import (
	"github.com/holdline-games/warden/collision"
	"github.com/holdline-games/warden/config"
	"github.com/holdline-games/warden/entity"
	"github.com/holdline-games/warden/grid"

	"github.com/mlange-42/ark/ecs"
)

const (
	// arrowHalfWidth/arrowHalfHeight size the projectile's AABB; arrows are
	// thin compared to a living entity.
	arrowHalfWidth  = 2.0
	arrowHalfHeight = 2.0
)

// Sim tracks the per-projectile damage payload (not one of entity.Arena's
// fixed seven components) in a side-table keyed by the entity's stable
// Variant.ID, mirroring the teacher's game.Game.brains map keyed by
// organism ID rather than by ecs.Entity handle (handles get reused across
// spawns; the stable ID does not).
type Sim struct {
	arena    *entity.Arena
	resolver *collision.Resolver
	cfg      *config.Config

	damage map[uint32]int32
}

// NewSim constructs a ProjectileSim wired to the shared arena and grid
// resolver.
func NewSim(arena *entity.Arena, resolver *collision.Resolver, cfg *config.Config) *Sim {
	return &Sim{arena: arena, resolver: resolver, cfg: cfg, damage: make(map[uint32]int32)}
}

// Spawn creates an arrow entity with a ballistic velocity and records its
// damage payload.
func (s *Sim) Spawn(pos entity.Position, vel entity.Velocity, damage int32) ecs.Entity {
	e := s.arena.Spawn(pos, vel, entity.Extent{HalfWidth: arrowHalfWidth, HalfHeight: arrowHalfHeight}, entity.KindProjectile, entity.AINone, 1)
	id := s.arena.VariantOf(e).ID
	s.damage[id] = damage
	return e
}

// Step advances every live projectile by dt: reduced-gravity integration,
// grid collision (stick on solid), then an enemy-intersection damage
// check. Projectiles that stuck or hit something have their health
// zeroed so the caller's standard dead-entity sweep removes them.
func (s *Sim) Step(g *grid.Grid, dt float64, reducedGravityFactor float64) {
	s.arena.Each(func(e ecs.Entity, pos *entity.Position, vel *entity.Velocity, ext *entity.Extent, flags *entity.Flags, health *entity.Health, variant *entity.Variant, inv *entity.Inventory) bool {
		if variant.Kind != entity.KindProjectile || health.HP <= 0 {
			return true
		}

		vel.Y += s.cfg.Physics.GravityAcceleration * reducedGravityFactor * dt

		box := collision.NewAABB(pos.X, pos.Y, ext.HalfWidth, ext.HalfHeight)
		moved, res := s.resolver.Resolve(box, vel.X*dt, vel.Y*dt)
		pos.X, pos.Y = moved.Center()

		if res.CollidedX || res.CollidedY {
			vel.X, vel.Y = 0, 0
			health.HP = 0
			delete(s.damage, variant.ID)
			return true
		}

		if hit, ok := s.firstEnemyHit(*pos, *ext); ok {
			s.applyHit(hit, variant.ID)
			health.HP = 0
		}

		return true
	})
}

// firstEnemyHit returns the first enemy entity whose AABB overlaps the
// projectile's box.
func (s *Sim) firstEnemyHit(pos entity.Position, ext entity.Extent) (ecs.Entity, bool) {
	minX, minY := pos.X-ext.HalfWidth, pos.Y-ext.HalfHeight
	maxX, maxY := pos.X+ext.HalfWidth, pos.Y+ext.HalfHeight

	var found ecs.Entity
	hit := false
	s.arena.Each(func(e ecs.Entity, epos *entity.Position, evel *entity.Velocity, eext *entity.Extent, eflags *entity.Flags, ehealth *entity.Health, evariant *entity.Variant, einv *entity.Inventory) bool {
		if evariant.Kind != entity.KindEnemy || ehealth.HP <= 0 {
			return true
		}
		eMinX, eMinY := epos.X-eext.HalfWidth, epos.Y-eext.HalfHeight
		eMaxX, eMaxY := epos.X+eext.HalfWidth, epos.Y+eext.HalfHeight
		if minX < eMaxX && maxX > eMinX && minY < eMaxY && maxY > eMinY {
			found = e
			hit = true
			return false
		}
		return true
	})
	return found, hit
}

func (s *Sim) applyHit(target ecs.Entity, projectileID uint32) {
	if !s.arena.Alive(target) {
		return
	}
	amount := s.damage[projectileID]
	delete(s.damage, projectileID)
	s.arena.Damage(target, amount)
}
