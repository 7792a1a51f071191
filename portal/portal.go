// Package portal implements Portal (C11): the singleton objective entity a
// wave's enemies converge on. Unlike player/enemy/projectile/item, the
// portal is not one of entity.Arena's population — there is exactly one
// per run — so it is modeled as a plain struct rather than an ECS
// component, grounded on components/organism.go's health-resource shape
// (Energy.Alive plus a derived-value method like MaxMet) adapted from a
// population field to a standalone object's own health and safety-radius
// state.
package portal

import "github.com/holdline-games/warden/config"

// Portal is the objective enemies path toward and the player defends. Its
// center and safety radius are tracked in grid-cell units (matching the
// (col,row) space aging.SafetyRegion is queried in); callers convert to
// world coordinates for rendering or entity placement.
type Portal struct {
	col, row        float64
	halfWidthCells  float64
	halfHeightCells float64

	hp, maxHP int32

	safetyRadius        float64
	radiusGrowthPerWave float64
}

// New constructs a Portal centered at grid cell (col,row) with a fixed
// footprint (in cells) and the starting health/safety radius from cfg.
func New(col, row, halfWidthCells, halfHeightCells float64, cfg config.PortalConfig) *Portal {
	return &Portal{
		col:                 col,
		row:                 row,
		halfWidthCells:      halfWidthCells,
		halfHeightCells:     halfHeightCells,
		hp:                  cfg.InitialHealth,
		maxHP:               cfg.InitialHealth,
		safetyRadius:        cfg.SafetyRadius,
		radiusGrowthPerWave: cfg.RadiusGrowthPerWave,
	}
}

// Center returns the portal's grid-cell center coordinate.
func (p *Portal) Center() (col, row float64) { return p.col, p.row }

// AABB reports the portal's bounding box in grid-cell units.
func (p *Portal) AABB() (minCol, minRow, maxCol, maxRow float64) {
	return p.col - p.halfWidthCells, p.row - p.halfHeightCells, p.col + p.halfWidthCells, p.row + p.halfHeightCells
}

// WorldCenter converts the portal's center to world coordinates given a
// cell size.
func (p *Portal) WorldCenter(blockWidth, blockHeight float64) (x, y float64) {
	return p.col * blockWidth, p.row * blockHeight
}

// HP reports current health.
func (p *Portal) HP() int32 { return p.hp }

// MaxHP reports the portal's starting (and maximum) health.
func (p *Portal) MaxHP() int32 { return p.maxHP }

// Alive reports whether the portal still has health remaining.
func (p *Portal) Alive() bool { return p.hp > 0 }

// Damage applies amount of damage, clamped at zero, and reports whether
// this hit brought the portal down.
func (p *Portal) Damage(amount int32) (destroyed bool) {
	if amount <= 0 || p.hp <= 0 {
		return p.hp <= 0
	}
	p.hp -= amount
	if p.hp < 0 {
		p.hp = 0
	}
	return p.hp == 0
}

// SafetyRadius reports the portal's current safety-region radius, in
// grid cells.
func (p *Portal) SafetyRadius() float64 { return p.safetyRadius }

// GrowRadius widens the safety radius by the per-wave growth amount
// configured at construction (§4.10: the safety region grows as waves
// progress so later, denser waves still give aging room to settle near the
// portal).
func (p *Portal) GrowRadius() {
	p.safetyRadius += p.radiusGrowthPerWave
}

// Active reports whether the portal currently suppresses aging in its
// safety region — satisfies aging.SafetyRegion. A destroyed portal stops
// protecting its surroundings.
func (p *Portal) Active() bool {
	return p.Alive()
}

// Contains reports whether grid cell (col,row) falls within the portal's
// circular safety region — satisfies aging.SafetyRegion.
func (p *Portal) Contains(col, row int) bool {
	dx := float64(col) - p.col
	dy := float64(row) - p.row
	r := p.safetyRadius
	return dx*dx+dy*dy <= r*r
}
