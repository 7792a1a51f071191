// Package worldgen populates a freshly constructed grid with initial
// terrain (C12). This is not named by spec.md — the original spec
// describes aging an existing grid, not its genesis — but SPEC_FULL.md's
// expansion adds it since a grid has to come from somewhere. Grounded on
// the teacher's systems/terrain.go layered-noise generation passes
// (sea floor / islands / outcrops / cave carving / edge clearing), with
// opensimplex-go swapped in for the 2D coherent noise field per
// SPEC_FULL.md's DOMAIN STACK table.
package worldgen

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/holdline-games/warden/cell"
	"github.com/holdline-games/warden/grid"
)

// Params controls the generation passes. Zero-value Params lays down no
// floor or islands and fills every row below the top two with Water;
// DefaultParams gives the standard layout, and callers normally derive
// these from config.
type Params struct {
	// FloorHeightMinRatio/MaxRatio bound the sea-floor-analog stone band
	// height as a fraction of grid rows.
	FloorHeightMinRatio, FloorHeightMaxRatio float64
	// IslandCount is the number of floating Rock islands generateIslands
	// seeds in the mid-grid band.
	IslandCount int
	// CaveThreshold: noise values above this carve a solid cell back to
	// air, producing connective passages.
	CaveThreshold float64
	// NoiseFrequency scales world-space coordinates before every
	// opensimplex sample (floor, islands, caves alike) — lower values
	// stretch features wider, higher values make them choppier.
	NoiseFrequency float64
	// DirtBandRatio is the fraction of the floor band (from its surface)
	// that becomes Dirt instead of Stone, giving vegetation something to
	// grow from per §4.4's Dirt→Vegetation rule.
	DirtBandRatio float64
	// WaterLevelRatio: rows below this fraction of grid height that are
	// still Air after terrain passes are filled with Water (a standing
	// water table under the surface).
	WaterLevelRatio float64
}

// DefaultParams returns the generation parameters the teacher's terrain
// generator effectively hard-codes (see systems/terrain.go's named
// constants), lifted into a reusable struct.
func DefaultParams() Params {
	return Params{
		FloorHeightMinRatio: 0.10,
		FloorHeightMaxRatio: 0.20,
		IslandCount:         5,
		CaveThreshold:       0.65,
		NoiseFrequency:      0.08,
		DirtBandRatio:       0.4,
		WaterLevelRatio:     0.88,
	}
}

// Generate fills g in place using a dedicated noise stream seeded from
// seed. Per SPEC_FULL.md open question 4, this seed must be distinct
// from both the entity RNG seed and the aging RNG seed so that world
// genesis is independently reproducible.
func Generate(g *grid.Grid, seed int64, p Params) {
	noise := opensimplex.New(seed)
	cols, rows := g.Cols(), g.Rows()

	generateFloor(g, noise, cols, rows, p)
	generateIslands(g, noise, cols, rows, p)
	carveCaves(g, noise, cols, rows, p)
	fillWaterTable(g, cols, rows, p)
	clearEdges(g, cols, rows)
}

func generateFloor(g *grid.Grid, noise opensimplex.Noise, cols, rows int, p Params) {
	for c := 0; c < cols; c++ {
		n := noise.Eval2(float64(c)*p.NoiseFrequency, 0)
		heightRatio := p.FloorHeightMinRatio + (n+1)*0.5*(p.FloorHeightMaxRatio-p.FloorHeightMinRatio)
		floorHeight := int(float64(rows) * heightRatio)
		dirtRows := int(float64(floorHeight) * p.DirtBandRatio)

		for i := 0; i < floorHeight; i++ {
			r := rows - 1 - i
			if r < 0 {
				break
			}
			if i < dirtRows {
				g.Set(c, r, cell.Dirt, false)
			} else {
				g.Set(c, r, cell.Stone, false)
			}
		}
	}
}

// generateIslands seeds p.IslandCount floating Rock islands in the
// mid-grid band, spacing their centers evenly across the columns and
// using the noise field to jitter each center's row and radius.
func generateIslands(g *grid.Grid, noise opensimplex.Noise, cols, rows int, p Params) {
	if p.IslandCount <= 0 || cols <= 0 {
		return
	}
	minR := rows / 6
	maxR := rows * 7 / 10
	spacing := cols / p.IslandCount
	if spacing < 1 {
		spacing = 1
	}

	for i := 0; i < p.IslandCount; i++ {
		centerC := i*spacing + spacing/2
		n := noise.Eval2(float64(centerC)*p.NoiseFrequency, 50)
		unit := (n + 1) * 0.5 // [0,1]
		centerR := minR + int(unit*float64(maxR-minR))
		radius := 3 + int(unit*6)

		for dr := -radius; dr <= radius; dr++ {
			for dc := -radius; dc <= radius; dc++ {
				if dc*dc+dr*dr > radius*radius {
					continue
				}
				c, r := centerC+dc, centerR+dr
				if c < 0 || c >= cols || r < 0 || r >= rows {
					continue
				}
				if g.BlockType(c, r) != cell.Air {
					continue
				}
				g.Set(c, r, cell.Rock, false)
			}
		}
	}
}

func carveCaves(g *grid.Grid, noise opensimplex.Noise, cols, rows int, p Params) {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if g.BlockType(c, r) == cell.Air {
				continue
			}
			n := noise.Eval2(float64(c)*p.NoiseFrequency+300, float64(r)*p.NoiseFrequency+300)
			if n > p.CaveThreshold {
				g.Set(c, r, cell.Air, false)
			}
		}
	}
}

func fillWaterTable(g *grid.Grid, cols, rows int, p Params) {
	waterRow := int(float64(rows) * p.WaterLevelRatio)
	for r := waterRow; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if g.BlockType(c, r) == cell.Air {
				g.Set(c, r, cell.Water, false)
			}
		}
	}
}

func clearEdges(g *grid.Grid, cols, rows int) {
	for r := 0; r < 2; r++ {
		for c := 0; c < cols; c++ {
			g.Set(c, r, cell.Air, false)
		}
	}
}
