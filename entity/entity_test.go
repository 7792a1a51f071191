package entity

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
)

func TestSpawnAssignsComponents(t *testing.T) {
	a := NewArena()
	e := a.Spawn(Position{X: 10, Y: 20}, Velocity{X: 1, Y: 0}, Extent{HalfWidth: 4, HalfHeight: 8}, KindEnemy, AIFlop, 30)

	if !a.Alive(e) {
		t.Fatal("expected spawned entity to be alive")
	}
	pos := a.Position(e)
	if pos.X != 10 || pos.Y != 20 {
		t.Fatalf("position not set: %+v", pos)
	}
	health := a.HealthOf(e)
	if health.HP != 30 || health.MaxHP != 30 {
		t.Fatalf("expected full health 30/30, got %+v", health)
	}
	variant := a.VariantOf(e)
	if variant.Kind != KindEnemy || variant.AI != AIFlop || variant.Facing != 1 {
		t.Fatalf("unexpected variant: %+v", variant)
	}
	if inv := a.InventoryOf(e); inv.Items != nil {
		t.Fatalf("expected nil inventory items for a non-player entity, got %+v", inv)
	}
}

func TestSpawnPlayerGetsInventory(t *testing.T) {
	a := NewArena()
	e := a.Spawn(Position{}, Velocity{}, Extent{HalfWidth: 4, HalfHeight: 8}, KindPlayer, AINone, 100)
	inv := a.InventoryOf(e)
	if inv.Items == nil {
		t.Fatal("expected a player entity to get an initialized inventory map")
	}
	inv.Items["arrow"] = 5
	if a.InventoryOf(e).Items["arrow"] != 5 {
		t.Fatal("inventory mutation through the returned pointer did not persist")
	}
}

func TestSpawnIncrementsID(t *testing.T) {
	a := NewArena()
	e1 := a.Spawn(Position{}, Velocity{}, Extent{HalfWidth: 1, HalfHeight: 1}, KindItem, AINone, 0)
	e2 := a.Spawn(Position{}, Velocity{}, Extent{HalfWidth: 1, HalfHeight: 1}, KindItem, AINone, 0)
	id1 := a.VariantOf(e1).ID
	id2 := a.VariantOf(e2).ID
	if id2 != id1+1 {
		t.Fatalf("expected sequential IDs, got %d then %d", id1, id2)
	}
}

func TestRemoveMarksDead(t *testing.T) {
	a := NewArena()
	e := a.Spawn(Position{}, Velocity{}, Extent{HalfWidth: 1, HalfHeight: 1}, KindEnemy, AISeekCenter, 10)
	a.Remove(e)
	if a.Alive(e) {
		t.Fatal("expected entity to be dead after Remove")
	}
}

func TestAABBDerivedFromPositionAndExtent(t *testing.T) {
	a := NewArena()
	e := a.Spawn(Position{X: 100, Y: 50}, Velocity{}, Extent{HalfWidth: 8, HalfHeight: 16}, KindEnemy, AIFish, 20)
	minX, minY, maxX, maxY := a.AABB(e)
	if minX != 92 || maxX != 108 || minY != 34 || maxY != 66 {
		t.Fatalf("unexpected AABB: (%v,%v)-(%v,%v)", minX, minY, maxX, maxY)
	}
}

func TestDamageClampsAtZeroAndReportsDeath(t *testing.T) {
	a := NewArena()
	e := a.Spawn(Position{}, Velocity{}, Extent{HalfWidth: 1, HalfHeight: 1}, KindEnemy, AIFlop, 10)

	if died := a.Damage(e, 4); died {
		t.Fatal("6 remaining hp should not report death")
	}
	if hp := a.HealthOf(e).HP; hp != 6 {
		t.Fatalf("expected hp=6, got %d", hp)
	}

	died := a.Damage(e, 100)
	if !died {
		t.Fatal("expected death once hp reaches zero")
	}
	if hp := a.HealthOf(e).HP; hp != 0 {
		t.Fatalf("expected hp clamped to 0, got %d", hp)
	}
}

func TestHealClampsAtMaxHP(t *testing.T) {
	a := NewArena()
	e := a.Spawn(Position{}, Velocity{}, Extent{HalfWidth: 1, HalfHeight: 1}, KindPlayer, AINone, 50)
	a.Damage(e, 40)
	a.Heal(e, 1000)
	if hp := a.HealthOf(e).HP; hp != 50 {
		t.Fatalf("expected heal clamped to MaxHP=50, got %d", hp)
	}
}

func TestCountAndEach(t *testing.T) {
	a := NewArena()
	a.Spawn(Position{}, Velocity{}, Extent{HalfWidth: 1, HalfHeight: 1}, KindEnemy, AIFlop, 10)
	a.Spawn(Position{}, Velocity{}, Extent{HalfWidth: 1, HalfHeight: 1}, KindEnemy, AIFish, 10)
	dead := a.Spawn(Position{}, Velocity{}, Extent{HalfWidth: 1, HalfHeight: 1}, KindItem, AINone, 0)
	a.Remove(dead)

	if n := a.Count(); n != 2 {
		t.Fatalf("expected 2 live entities, got %d", n)
	}

	seen := 0
	a.Each(func(e ecs.Entity, pos *Position, vel *Velocity, ext *Extent, flags *Flags, health *Health, variant *Variant, inv *Inventory) bool {
		seen++
		return true
	})
	if seen != 2 {
		t.Fatalf("expected Each to visit 2 live entities, got %d", seen)
	}
}
