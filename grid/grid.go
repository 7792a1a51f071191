// Package grid implements the authoritative grid (C1) and the pure
// cell-neighborhood helpers (C2) that the aging, lighting, and collision
// passes are built on. Grounded on the teacher's systems/terrain.go, which
// owns an analogous flat row-major grid with bounds-checked accessors.
package grid

import (
	"log/slog"

	"github.com/holdline-games/warden/cell"
)

// Grid is a fixed-size row-major array of Cell. Dimensions are fixed at
// construction; the grid never resizes (§3 invariant).
type Grid struct {
	cols, rows int
	cells      []cell.Cell

	oobWriteCount int
}

// New constructs a grid of the given dimensions, every cell initialized to
// Air. cols and rows must both be > 0; violating that is a
// FatalInvariantBroken condition per §7 and the caller should abort
// construction (this constructor panics, matching config.MustInit's
// startup-only panic policy).
func New(cols, rows int) *Grid {
	if cols <= 0 || rows <= 0 {
		panic("grid: cols and rows must be > 0")
	}
	g := &Grid{
		cols:  cols,
		rows:  rows,
		cells: make([]cell.Cell, cols*rows),
	}
	for i := range g.cells {
		g.cells[i] = cell.NewAir()
	}
	return g
}

// Cols returns the grid width in cells.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height in cells.
func (g *Grid) Rows() int { return g.rows }

// InBounds reports whether (c,r) addresses a valid cell.
func (g *Grid) InBounds(c, r int) bool {
	return c >= 0 && c < g.cols && r >= 0 && r < g.rows
}

func (g *Grid) index(c, r int) int {
	return r*g.cols + c
}

// Get returns the cell at (c,r) and true, or the zero Cell and false if
// out of bounds. Callers interpret a false result as solid-for-boundary
// unless the call site says otherwise (§4.1).
func (g *Grid) Get(c, r int) (cell.Cell, bool) {
	if !g.InBounds(c, r) {
		return cell.Cell{}, false
	}
	return g.cells[g.index(c, r)], true
}

// Set creates or replaces the cell at (c,r), preserving nothing of the
// prior cell. Returns whether the kind actually changed. Out-of-bounds
// writes fail silently and are logged (§4.1, §7 BoundsViolation).
func (g *Grid) Set(c, r int, kind cell.Kind, playerPlaced bool) bool {
	if !g.InBounds(c, r) {
		g.oobWriteCount++
		slog.Debug("grid: out-of-bounds write ignored", "col", c, "row", r, "kind", kind)
		return false
	}
	idx := g.index(c, r)
	old := g.cells[idx]
	if old.Kind == kind && old.PlayerPlaced == playerPlaced {
		return false
	}
	if kind == cell.Air {
		g.cells[idx] = cell.NewAir()
	} else if kind == cell.Water {
		g.cells[idx] = cell.NewWater()
	} else {
		g.cells[idx] = cell.NewMaterial(kind, playerPlaced)
	}
	return old.Kind != kind
}

// SetCell installs a fully-formed cell value directly, preserving whatever
// state the caller constructed (used by aging's commit phase, which must
// preserve player_placed, and by damage application, which must preserve
// light state). Returns whether the kind changed.
func (g *Grid) SetCell(c, r int, v cell.Cell) bool {
	if !g.InBounds(c, r) {
		g.oobWriteCount++
		slog.Debug("grid: out-of-bounds write ignored", "col", c, "row", r, "kind", v.Kind)
		return false
	}
	idx := g.index(c, r)
	old := g.cells[idx]
	g.cells[idx] = v
	return old.Kind != v.Kind
}

// BlockType returns the kind at (c,r), or Air for out-of-bounds.
func (g *Grid) BlockType(c, r int) cell.Kind {
	v, ok := g.Get(c, r)
	if !ok {
		return cell.Air
	}
	return v.Kind
}

// IsSolid folds the per-kind physics solidity predicate, treating
// out-of-bounds as solid (world-boundary policy, §4.1).
func (g *Grid) IsSolid(c, r int) bool {
	v, ok := g.Get(c, r)
	if !ok {
		return true
	}
	return cell.SolidForPhysics(v)
}

// IsRope reports whether (c,r) is a rope cell. Out-of-bounds is not rope.
func (g *Grid) IsRope(c, r int) bool {
	v, ok := g.Get(c, r)
	if !ok {
		return false
	}
	return cell.PropertiesFor(v.Kind).IsRope
}

// IsWater reports whether (c,r) is the Water variant.
func (g *Grid) IsWater(c, r int) bool {
	v, ok := g.Get(c, r)
	return ok && v.Kind == cell.Water
}

// Damage applies hp damage to the cell at (c,r). Indestructible cells
// (Air, Water) are a no-op. Returns whether the cell was destroyed this
// call (hp <= 0), the dropped item kind if so, and the prior kind for
// ChangeLog bookkeeping by the caller.
func (g *Grid) Damage(c, r int, amount int32) (destroyed bool, dropped string, oldKind cell.Kind) {
	v, ok := g.Get(c, r)
	if !ok || v.Indestructible() || amount <= 0 {
		return false, "", cell.Air
	}
	oldKind = v.Kind
	v.HP -= amount
	if v.HP <= 0 {
		dropped = cell.DroppedItem(v)
		g.SetCell(c, r, cell.NewAir())
		return true, dropped, oldKind
	}
	g.SetCell(c, r, v)
	return false, "", oldKind
}

// Heal restores hp to a cell, clamped to MaxHP. Used by the round-trip
// testable property in §8 (damage then restore is identity).
func (g *Grid) Heal(c, r int, amount int32) {
	v, ok := g.Get(c, r)
	if !ok || v.Indestructible() {
		return
	}
	v.HP += amount
	if v.HP > v.MaxHP {
		v.HP = v.MaxHP
	}
	g.SetCell(c, r, v)
}

// OOBWriteCount returns the number of out-of-bounds writes rejected since
// construction, for diagnostics.
func (g *Grid) OOBWriteCount() int { return g.oobWriteCount }

// ResetLight clears light_level and lit on every cell. Called once before
// each lighting recompute (§4.5 recomputes the whole field on sun move).
func (g *Grid) ResetLight() {
	for i := range g.cells {
		g.cells[i].LightLevel = 0
		g.cells[i].Lit = false
	}
}

// AddLight accumulates power into (c,r)'s light_level, saturating at 1,
// and updates Lit against minLit. Out-of-bounds is a no-op.
func (g *Grid) AddLight(c, r int, power, minLit float32) {
	if !g.InBounds(c, r) {
		return
	}
	idx := g.index(c, r)
	lvl := g.cells[idx].LightLevel + power
	if lvl > 1 {
		lvl = 1
	}
	g.cells[idx].LightLevel = lvl
	g.cells[idx].Lit = lvl >= minLit
}

// LightLevel returns the accumulated light level at (c,r), or 0 OOB.
func (g *Grid) LightLevel(c, r int) float32 {
	v, ok := g.Get(c, r)
	if !ok {
		return 0
	}
	return v.LightLevel
}

// IsLit reports the cached lit flag at (c,r).
func (g *Grid) IsLit(c, r int) bool {
	v, ok := g.Get(c, r)
	return ok && v.Lit
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(c, r int, v cell.Cell)) {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			fn(c, r, g.cells[g.index(c, r)])
		}
	}
}
