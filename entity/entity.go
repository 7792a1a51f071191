// Package entity implements the per-tick simulation arena (§3 Ownership):
// player, enemies, projectiles, and items all live as entries in one ark
// World, addressed only by opaque ecs.Entity handles — never by pointer.
// Grounded on the teacher's game.Game, which wires a single fixed-arity
// Map7/Filter7 tuple over components.{Position,Velocity,Rotation,Body,
// Energy,Capabilities,Organism} plus individual Map1 accessors for direct
// lookups; this package follows the same Map7/Filter7 shape over the new
// domain's component set.
package entity

import (
	"github.com/mlange-42/ark/ecs"
)

// Kind is the coarse entity category.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindEnemy
	KindProjectile
	KindItem
)

// AIKind is the EntityAI variant (C7) an enemy is dispatched on. Zero value
// AINone marks entities C7 never decides for (player, projectiles, items).
type AIKind uint8

const (
	AINone AIKind = iota
	AISeekCenter
	AIChasePlayer
	AIFlop
	AIFish
	AIDunkleosteus
)

// Position is the entity's continuous world-space coordinate (§3).
type Position struct {
	X, Y float64
}

// Velocity is the entity's continuous velocity in world units per second.
type Velocity struct {
	X, Y float64
}

// Extent holds the entity's AABB half-width/half-height, centered on
// Position.
type Extent struct {
	HalfWidth, HalfHeight float64
}

// Flags are the boolean medium/support state C6 and C3 maintain each tick,
// plus the rope re-grab cooldown that gates re-entering rope mode (§4.6
// step 4).
type Flags struct {
	OnGround         bool
	InWater          bool
	OnRope           bool
	RopeGrabCooldown float64
}

// Health is the entity's damage resource (§3: hp > 0 for all living
// entities; hp <= 0 triggers removal in the same tick) plus the
// damage-invulnerability window following the last hit.
type Health struct {
	HP, MaxHP      int32
	DamageCooldown float64
}

// Variant carries the identity fields that don't belong to a more specific
// component: category, AI dispatch tag, facing, and the stable numeric ID
// used by ChangeLog-adjacent systems that need an identity surviving
// ecs.Entity generation reuse.
type Variant struct {
	Kind   Kind
	AI     AIKind
	Facing int8 // -1 or +1
	ID     uint32
}

// Inventory is populated only for KindPlayer entities; Items is nil for
// every other kind.
type Inventory struct {
	Items map[string]int
}

type entityTuple = ecs.Map7[Position, Velocity, Extent, Flags, Health, Variant, Inventory]
type entityFilter = ecs.Filter7[Position, Velocity, Extent, Flags, Health, Variant, Inventory]

// Arena owns the ark World and every accessor onto it. One Arena per
// simulation instance.
type Arena struct {
	world *ecs.World

	Map    *entityTuple
	Filter *entityFilter

	posMap     *ecs.Map1[Position]
	velMap     *ecs.Map1[Velocity]
	extMap     *ecs.Map1[Extent]
	flagsMap   *ecs.Map1[Flags]
	healthMap  *ecs.Map1[Health]
	variantMap *ecs.Map1[Variant]
	invMap     *ecs.Map1[Inventory]

	nextID uint32
}

// NewArena constructs an empty arena.
func NewArena() *Arena {
	world := ecs.NewWorld()
	return &Arena{
		world: world,
		Map: ecs.NewMap7[
			Position, Velocity, Extent, Flags, Health, Variant, Inventory,
		](world),
		Filter: ecs.NewFilter7[
			Position, Velocity, Extent, Flags, Health, Variant, Inventory,
		](world),
		posMap:     ecs.NewMap1[Position](world),
		velMap:     ecs.NewMap1[Velocity](world),
		extMap:     ecs.NewMap1[Extent](world),
		flagsMap:   ecs.NewMap1[Flags](world),
		healthMap:  ecs.NewMap1[Health](world),
		variantMap: ecs.NewMap1[Variant](world),
		invMap:     ecs.NewMap1[Inventory](world),
	}
}

// Spawn creates a new entity and returns its handle. maxHP <= 0 marks an
// indestructible entity (e.g. a dropped item); callers that want a
// damageable entity pass a positive maxHP.
func (a *Arena) Spawn(pos Position, vel Velocity, ext Extent, kind Kind, ai AIKind, maxHP int32) ecs.Entity {
	id := a.nextID
	a.nextID++

	flags := Flags{}
	health := Health{HP: maxHP, MaxHP: maxHP}
	variant := Variant{Kind: kind, AI: ai, Facing: 1, ID: id}

	var inv Inventory
	if kind == KindPlayer {
		inv.Items = make(map[string]int)
	}

	return a.Map.NewEntity(&pos, &vel, &ext, &flags, &health, &variant, &inv)
}

// Remove deletes an entity from the arena. Removing an already-removed or
// zero-value entity is a caller error; guard with Alive first.
func (a *Arena) Remove(e ecs.Entity) {
	a.Map.Remove(e)
}

// Alive reports whether e still refers to a live entity.
func (a *Arena) Alive(e ecs.Entity) bool {
	return a.world.Alive(e)
}

// Position returns the live pointer to e's position component.
func (a *Arena) Position(e ecs.Entity) *Position { return a.posMap.Get(e) }

// Velocity returns the live pointer to e's velocity component.
func (a *Arena) Velocity(e ecs.Entity) *Velocity { return a.velMap.Get(e) }

// ExtentOf returns the live pointer to e's AABB extent component.
func (a *Arena) ExtentOf(e ecs.Entity) *Extent { return a.extMap.Get(e) }

// FlagsOf returns the live pointer to e's medium/support flags.
func (a *Arena) FlagsOf(e ecs.Entity) *Flags { return a.flagsMap.Get(e) }

// HealthOf returns the live pointer to e's health resource.
func (a *Arena) HealthOf(e ecs.Entity) *Health { return a.healthMap.Get(e) }

// VariantOf returns the live pointer to e's identity/dispatch fields.
func (a *Arena) VariantOf(e ecs.Entity) *Variant { return a.variantMap.Get(e) }

// InventoryOf returns the live pointer to e's inventory (nil Items unless
// e is a KindPlayer entity).
func (a *Arena) InventoryOf(e ecs.Entity) *Inventory { return a.invMap.Get(e) }

// AABB reports e's current world-space bounding box, derived from Position
// and Extent.
func (a *Arena) AABB(e ecs.Entity) (minX, minY, maxX, maxY float64) {
	pos := a.posMap.Get(e)
	ext := a.extMap.Get(e)
	return pos.X - ext.HalfWidth, pos.Y - ext.HalfHeight, pos.X + ext.HalfWidth, pos.Y + ext.HalfHeight
}

// Count returns the number of live entities in the arena.
func (a *Arena) Count() int {
	n := 0
	query := a.Filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Each calls fn once per live entity with direct pointers to all seven
// components, stopping early if fn returns false. Grounded on the
// teacher's entityFilter.Query()/query.Next()/query.Get() loop shape
// (game/game.go, game/lifecycle.go).
func (a *Arena) Each(fn func(e ecs.Entity, pos *Position, vel *Velocity, ext *Extent, flags *Flags, health *Health, variant *Variant, inv *Inventory) bool) {
	query := a.Filter.Query()
	for query.Next() {
		pos, vel, ext, flags, health, variant, inv := query.Get()
		if !fn(query.Entity(), pos, vel, ext, flags, health, variant, inv) {
			return
		}
	}
}

// Damage applies amount to e's health, clamping at zero, and reports
// whether e died as a result (§3: hp <= 0 removes the entity in the same
// tick; callers are responsible for calling Remove after observing died).
func (a *Arena) Damage(e ecs.Entity, amount int32) (died bool) {
	h := a.healthMap.Get(e)
	if amount <= 0 {
		return h.HP <= 0
	}
	h.HP -= amount
	if h.HP < 0 {
		h.HP = 0
	}
	return h.HP <= 0
}

// Heal applies amount to e's health, clamping at MaxHP.
func (a *Arena) Heal(e ecs.Entity, amount int32) {
	h := a.healthMap.Get(e)
	h.HP += amount
	if h.HP > h.MaxHP {
		h.HP = h.MaxHP
	}
}
