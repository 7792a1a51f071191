// Package physics implements PhysicsStep (C6): per-entity gravity/buoyancy
// integration, medium-specific damping, rope mode, and world-bounds
// handling, calling into collision.Resolver for the grid sweep. Grounded on
// the teacher's systems.PhysicsSystem (systems/physics.go), which runs the
// same shape of per-entity loop — velocity clamp, position integrate,
// terrain collision, friction, bounds handling — generalized here from the
// teacher's organism-drift model to §4.6's gravity/water/rope model.
package physics

import (
	"math"

	"github.com/holdline-games/warden/collision"
	"github.com/holdline-games/warden/config"
	"github.com/holdline-games/warden/entity"
	"github.com/holdline-games/warden/grid"

	"github.com/mlange-42/ark/ecs"
)

// Bounds is the world's fixed extent in world units (§4.6 step 6).
type Bounds struct {
	Width, Height float64
}

// Step runs PhysicsStep (C6) over every entity in arena for one tick of
// length dt (already clamped to MAX_DELTA_TIME by the caller's scheduler,
// per §4.6's closing note — Step clamps again defensively).
type Step struct {
	arena    *entity.Arena
	resolver *collision.Resolver
	cfg      *config.Config
	bounds   Bounds

	reactionHook func(ecs.Entity, collision.Result)
}

// NewStep constructs a Step wired to the given arena, grid-backed
// resolver, and loaded configuration.
func NewStep(arena *entity.Arena, resolver *collision.Resolver, cfg *config.Config, bounds Bounds) *Step {
	return &Step{arena: arena, resolver: resolver, cfg: cfg, bounds: bounds}
}

// SetReactionHook registers a callback invoked for every entity whose grid
// resolution collided on X or Y this tick, after the collision response
// (friction/clamp) has already been applied. Used by the caller's AI layer
// to implement react_to_collision (§4.7) without PhysicsStep depending on
// the ai package. A nil hook (the default) disables the callback.
func (s *Step) SetReactionHook(fn func(ecs.Entity, collision.Result)) {
	s.reactionHook = fn
}

// Run advances every entity by dt, following §4.6's six numbered steps.
// Entities falling below FallOutY are killed (hp zeroed) rather than
// removed directly, so the caller's standard death-processing pass (§3
// lifecycle: removed after its death-animation timer, or here immediately
// since physics has no animation concept) can pick them up uniformly with
// combat deaths.
func (s *Step) Run(g *grid.Grid, dt float64) {
	dt = clampDT(dt, s.cfg.Physics.MaxDeltaTime)

	s.arena.Each(func(e ecs.Entity, pos *entity.Position, vel *entity.Velocity, ext *entity.Extent, flags *entity.Flags, health *entity.Health, variant *entity.Variant, inv *entity.Inventory) bool {
		if variant.Kind == entity.KindItem {
			// Items are inert freight: no gravity step of their own in this
			// model, physics only moves things with a velocity-driving AI
			// or explicit impulse. Skip them here; drops are placed
			// directly by the caller that destroyed their source block.
			return true
		}

		if health.DamageCooldown > 0 {
			health.DamageCooldown -= dt
			if health.DamageCooldown < 0 {
				health.DamageCooldown = 0
			}
		}

		box := collision.NewAABB(pos.X, pos.Y, ext.HalfWidth, ext.HalfHeight)

		// Step 4: rope mode pre-empts gravity/damping entirely while active.
		onRope := flags.OnRope && g.IsRope(s.resolver.ColAt(pos.X), s.resolver.RowAt(pos.Y))
		if flags.RopeGrabCooldown > 0 {
			flags.RopeGrabCooldown -= dt
			if flags.RopeGrabCooldown < 0 {
				flags.RopeGrabCooldown = 0
			}
		}

		if onRope {
			s.applyRopeMode(pos, vel, flags, s.resolver.ColAt(pos.X))
		} else {
			// Step 1: query in_water, pick gravity.
			inWater := g.IsWater(s.resolver.ColAt(pos.X), s.resolver.RowAt(pos.Y))
			gAccel := s.cfg.Physics.GravityAcceleration
			if inWater {
				gAccel *= s.cfg.Water.GravityFactor
			}

			// Step 2: integrate vertical velocity, clamp to terminal speed.
			vel.Y += gAccel * dt
			if inWater {
				if vel.Y > s.cfg.Water.MaxSinkSpeed {
					vel.Y = s.cfg.Water.MaxSinkSpeed
				}
				if vel.Y < -s.cfg.Water.MaxSwimUpSpeed {
					vel.Y = -s.cfg.Water.MaxSwimUpSpeed
				}
			} else if vel.Y > s.cfg.Physics.MaxFallSpeed {
				vel.Y = s.cfg.Physics.MaxFallSpeed
			}

			// Step 3: medium-specific damping.
			if inWater {
				vel.X *= math.Pow(s.cfg.Water.HorizontalDamping, dt)
				vel.Y *= math.Pow(s.cfg.Water.VerticalDamping, dt)
			}

			flags.InWater = inWater
		}

		// Step 5: resolve against the grid.
		moved, res := s.resolver.Resolve(box, vel.X*dt, vel.Y*dt)
		pos.X, pos.Y = moved.Center()
		flags.OnGround = res.OnGround
		flags.InWater = res.InWater

		switch {
		case res.Step == collision.StepTier2:
			vel.X *= s.cfg.Physics.StepTier2HorizontalFriction
		case res.CollidedX:
			vel.X = 0
		}
		if res.CollidedY {
			vel.Y = 0
		}

		if s.reactionHook != nil && (res.CollidedX || res.CollidedY) {
			s.reactionHook(e, res)
		}

		if !res.InWater && !flags.OnRope {
			// Swimmers caught out of water accumulate damage (§4.7).
			if variant.AI == entity.AIFish || variant.AI == entity.AIDunkleosteus {
				dmg := int32(s.cfg.Entity.OutOfWaterDamagePerSecond * dt)
				if dmg > 0 {
					health.HP -= dmg
					if health.HP < 0 {
						health.HP = 0
					}
				}
			}
		}

		// Step 6: clamp to world bounds; kill below the fall-out threshold.
		if pos.X < ext.HalfWidth {
			pos.X = ext.HalfWidth
			vel.X = 0
		}
		if pos.X > s.bounds.Width-ext.HalfWidth {
			pos.X = s.bounds.Width - ext.HalfWidth
			vel.X = 0
		}
		if pos.Y > s.cfg.Entity.FallOutY {
			health.HP = 0
		}

		return true
	})
}

func (s *Step) applyRopeMode(pos *entity.Position, vel *entity.Velocity, flags *entity.Flags, col int) {
	blockWidth := s.resolver.BlockWidth()
	pos.X = (float64(col) + 0.5) * blockWidth
	vel.X = 0
	// Climb/slide/detach input rules are applied by the AI/input layer
	// before physics runs (it sets vel.Y directly to a climb/slide speed);
	// physics's contribution to rope mode is purely the column snap and
	// zeroing horizontal drift, matching §4.6 step 4's "snap x to rope
	// column, zero vx" clause. Detach is handled by the caller clearing
	// flags.OnRope and setting flags.RopeGrabCooldown before the next Run.
	_ = flags
}

func clampDT(dt, maxDT float64) float64 {
	if dt > maxDT {
		return maxDT
	}
	if dt < 0 || math.IsNaN(dt) {
		return 0
	}
	return dt
}
