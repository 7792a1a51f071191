package physics

import (
	"testing"

	"github.com/holdline-games/warden/cell"
	"github.com/holdline-games/warden/collision"
	"github.com/holdline-games/warden/config"
	"github.com/holdline-games/warden/entity"
	"github.com/holdline-games/warden/grid"
)

func testConfig() *config.Config {
	return &config.Config{
		Physics: config.PhysicsConfig{
			GravityAcceleration:         980.0,
			MaxFallSpeed:                900.0,
			MaxDeltaTime:                0.05,
			StepTier1MaxHeightFactor:    0.25,
			StepTier2MaxHeightFactor:    0.5,
			StepTier2HorizontalFriction: 0.6,
			Epsilon:                     0.0001,
		},
		Water: config.WaterConfig{
			GravityFactor:     0.25,
			HorizontalDamping: 0.05,
			VerticalDamping:   0.08,
			MaxSwimUpSpeed:    140.0,
			MaxSinkSpeed:      90.0,
		},
		Entity: config.EntityConfig{
			FallOutY:                  4000.0,
			OutOfWaterDamagePerSecond: 4.0,
		},
	}
}

func newTestStep(g *grid.Grid) (*Step, *entity.Arena) {
	cfg := testConfig()
	resolver := collision.NewResolver(g, 16, 16, cfg.Physics)
	arena := entity.NewArena()
	bounds := Bounds{Width: float64(g.Cols()) * 16, Height: float64(g.Rows()) * 16}
	return NewStep(arena, resolver, cfg, bounds), arena
}

// A falling entity accelerates downward under gravity and comes to rest,
// OnGround true, once it reaches a solid floor (§4.6 steps 1-2, 5).
func TestGravityAndLanding(t *testing.T) {
	g := grid.New(20, 20)
	for c := 0; c < 20; c++ {
		g.Set(c, 15, cell.Stone, false)
	}
	step, arena := newTestStep(g)

	e := arena.Spawn(entity.Position{X: 5 * 16, Y: 5 * 16}, entity.Velocity{}, entity.Extent{HalfWidth: 6, HalfHeight: 6}, entity.KindEnemy, entity.AIFlop, 10)

	for i := 0; i < 200; i++ {
		step.Run(g, 0.016)
	}

	flags := arena.FlagsOf(e)
	if !flags.OnGround {
		t.Fatalf("expected entity to settle OnGround after falling, flags=%+v", flags)
	}
	pos := arena.Position(e)
	if pos.Y > 15*16 {
		t.Fatalf("entity penetrated the floor: y=%v", pos.Y)
	}
}

// A swimmer variant out of water for multiple ticks accumulates damage
// (§4.7 "swimmers that leave water accumulate out_of_water_damage_per_second").
func TestOutOfWaterDamageAccumulates(t *testing.T) {
	g := grid.New(20, 20)
	for c := 0; c < 20; c++ {
		g.Set(c, 15, cell.Stone, false)
	}
	step, arena := newTestStep(g)

	e := arena.Spawn(entity.Position{X: 5 * 16, Y: 14*16 - 8}, entity.Velocity{}, entity.Extent{HalfWidth: 6, HalfHeight: 6}, entity.KindEnemy, entity.AIFish, 100)

	startHP := arena.HealthOf(e).HP
	for i := 0; i < 120; i++ {
		step.Run(g, 0.016)
	}
	endHP := arena.HealthOf(e).HP
	if endHP >= startHP {
		t.Fatalf("expected out-of-water damage to reduce hp, start=%d end=%d", startHP, endHP)
	}
}

// dt is clamped to MaxDeltaTime so a huge dt never produces an unbounded
// velocity change in a single Run call.
func TestDeltaTimeClamp(t *testing.T) {
	g := grid.New(20, 20)
	step, arena := newTestStep(g)
	e := arena.Spawn(entity.Position{X: 5 * 16, Y: 5 * 16}, entity.Velocity{}, entity.Extent{HalfWidth: 6, HalfHeight: 6}, entity.KindEnemy, entity.AIFlop, 10)

	step.Run(g, 10.0)

	vel := arena.Velocity(e)
	maxVY := step.cfg.Physics.GravityAcceleration * step.cfg.Physics.MaxDeltaTime * 1.01
	if vel.Y > maxVY {
		t.Fatalf("expected dt clamp to bound vy, got %v (max %v)", vel.Y, maxVY)
	}
}

// An entity that falls below FallOutY has its health zeroed (§4.6 step 6).
func TestFallOutKills(t *testing.T) {
	g := grid.New(5, 5)
	step, arena := newTestStep(g)
	step.cfg.Entity.FallOutY = 50
	e := arena.Spawn(entity.Position{X: 2 * 16, Y: 0}, entity.Velocity{Y: 0}, entity.Extent{HalfWidth: 6, HalfHeight: 6}, entity.KindEnemy, entity.AIFlop, 10)

	for i := 0; i < 10; i++ {
		step.Run(g, 0.05)
	}

	if hp := arena.HealthOf(e).HP; hp != 0 {
		t.Fatalf("expected fall-out to zero hp, got %d", hp)
	}
}

// Items are inert to PhysicsStep: it never moves or damages them.
func TestItemsUntouchedByPhysics(t *testing.T) {
	g := grid.New(20, 20)
	step, arena := newTestStep(g)
	e := arena.Spawn(entity.Position{X: 100, Y: 100}, entity.Velocity{X: 5, Y: -5}, entity.Extent{HalfWidth: 2, HalfHeight: 2}, entity.KindItem, entity.AINone, 0)

	step.Run(g, 0.016)

	pos := arena.Position(e)
	if pos.X != 100 || pos.Y != 100 {
		t.Fatalf("expected item position untouched, got %+v", pos)
	}
}
