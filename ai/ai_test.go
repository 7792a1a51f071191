package ai

import (
	"math"
	"testing"

	"github.com/holdline-games/warden/collision"
	"github.com/holdline-games/warden/entity"
	"github.com/holdline-games/warden/grid"
)

func TestSeekCenterMovesTowardCenterColumn(t *testing.T) {
	g := grid.New(20, 10) // center x = 20*16/2 = 160
	clock := NewClock()

	left := Decide(entity.AISeekCenter, clock, entity.Position{X: 10}, entity.Position{}, g, 0.1, 16)
	if left.TargetVX <= 0 {
		t.Fatalf("expected positive vx moving right toward center, got %v", left.TargetVX)
	}

	right := Decide(entity.AISeekCenter, clock, entity.Position{X: 300}, entity.Position{}, g, 0.1, 16)
	if right.TargetVX >= 0 {
		t.Fatalf("expected negative vx moving left toward center, got %v", right.TargetVX)
	}
}

func TestChasePlayerFollowsSign(t *testing.T) {
	g := grid.New(20, 10)
	clock := NewClock()

	toward := Decide(entity.AIChasePlayer, clock, entity.Position{X: 0}, entity.Position{X: 100}, g, 0.1, 16)
	if toward.TargetVX <= 0 {
		t.Fatalf("expected to chase toward a player to the right, got %v", toward.TargetVX)
	}

	away := Decide(entity.AIChasePlayer, clock, entity.Position{X: 100}, entity.Position{X: 0}, g, 0.1, 16)
	if away.TargetVX >= 0 {
		t.Fatalf("expected to chase toward a player to the left, got %v", away.TargetVX)
	}
}

func TestFlopFlipsDirectionOnInterval(t *testing.T) {
	g := grid.New(20, 10)
	clock := NewClock()

	first := Decide(entity.AIFlop, clock, entity.Position{}, entity.Position{}, g, flopHopInterval/2, 16)
	second := Decide(entity.AIFlop, clock, entity.Position{}, entity.Position{}, g, flopHopInterval/2+0.01, 16)

	if math.Signbit(first.TargetVX) == math.Signbit(second.TargetVX) {
		t.Fatalf("expected direction to flip after exceeding the hop interval: first=%v second=%v", first.TargetVX, second.TargetVX)
	}
	if !first.Jump || !second.Jump {
		t.Fatal("Flop always requests a jump intent")
	}
}

func TestFishTargetsBothAxesTowardNearbyPlayer(t *testing.T) {
	g := grid.New(20, 10)
	clock := NewClock()
	intent := Decide(entity.AIFish, clock, entity.Position{X: 0, Y: 0}, entity.Position{X: 30, Y: 40}, g, 0.1, 16)
	if intent.TargetVX <= 0 || intent.TargetVY <= 0 {
		t.Fatalf("expected fish to target both axes toward the player, got %+v", intent)
	}
}

func TestDunkleosteusChasesDirectly(t *testing.T) {
	g := grid.New(20, 10)
	clock := NewClock()
	intent := Decide(entity.AIDunkleosteus, clock, entity.Position{X: 0, Y: 0}, entity.Position{X: 0, Y: 50}, g, 0.1, 16)
	if intent.TargetVX != 0 || intent.TargetVY <= 0 {
		t.Fatalf("expected pure vertical pursuit, got %+v", intent)
	}
}

func TestApplyIgnoresVYForLandWalkers(t *testing.T) {
	vel := &entity.Velocity{}
	Apply(entity.AIFlop, vel, Intent{TargetVX: 10, TargetVY: 999})
	if vel.X != 10 || vel.Y != 0 {
		t.Fatalf("expected land-walker Apply to ignore TargetVY, got %+v", vel)
	}

	vel2 := &entity.Velocity{}
	Apply(entity.AIFish, vel2, Intent{TargetVX: 5, TargetVY: 7})
	if vel2.X != 5 || vel2.Y != 7 {
		t.Fatalf("expected swimmer Apply to honor both axes, got %+v", vel2)
	}
}

func TestReactToCollisionFlipsFlopOnBlock(t *testing.T) {
	clock := &Clock{sign: 1}
	ReactToCollision(entity.AIFlop, clock, collision.Result{CollidedX: true})
	if clock.sign != -1 {
		t.Fatalf("expected a blocked Flop to flip sign, got %v", clock.sign)
	}

	clock2 := &Clock{sign: 1}
	ReactToCollision(entity.AIFlop, clock2, collision.Result{CollidedX: false})
	if clock2.sign != 1 {
		t.Fatal("expected no flip when not collided")
	}
}

// Two entities spawned within each other's separation radius are pushed
// apart; entities farther than the radius are left alone.
func TestSeparatePushesOverlappingEntitiesApart(t *testing.T) {
	arena := entity.NewArena()

	close1 := arena.Spawn(entity.Position{X: 100, Y: 100}, entity.Velocity{}, entity.Extent{HalfWidth: 8, HalfHeight: 8}, entity.KindEnemy, entity.AIFlop, 10)
	close2 := arena.Spawn(entity.Position{X: 106, Y: 100}, entity.Velocity{}, entity.Extent{HalfWidth: 8, HalfHeight: 8}, entity.KindEnemy, entity.AIFlop, 10)
	far := arena.Spawn(entity.Position{X: 500, Y: 500}, entity.Velocity{}, entity.Extent{HalfWidth: 8, HalfHeight: 8}, entity.KindEnemy, entity.AIFlop, 10)

	Separate(arena, 2.0, 100.0, 0.1)

	v1 := arena.Velocity(close1)
	v2 := arena.Velocity(close2)
	vFar := arena.Velocity(far)

	if v1.X >= 0 {
		t.Fatalf("expected the left entity to be pushed further left, got vx=%v", v1.X)
	}
	if v2.X <= 0 {
		t.Fatalf("expected the right entity to be pushed further right, got vx=%v", v2.X)
	}
	if vFar.X != 0 || vFar.Y != 0 {
		t.Fatalf("expected the far entity to be untouched, got %+v", vFar)
	}
}
