package grid

import "github.com/holdline-games/warden/cell"

// Offset4 is the 4-connected neighbor offsets (N, E, S, W).
var Offset4 = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Offset8 is the 8-connected neighbor offsets, ring order starting north
// and proceeding clockwise.
var Offset8 = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Neighbors4 returns the 4-connected neighbor cells of (c,r). Out-of-bounds
// neighbors are reported as Air (§4.4 failure semantics: missing neighbor
// treated as Air).
func (g *Grid) Neighbors4(c, r int) [4]cell.Cell {
	var out [4]cell.Cell
	for i, off := range Offset4 {
		v, ok := g.Get(c+off[0], r+off[1])
		if ok {
			out[i] = v
		} else {
			out[i] = cell.NewAir()
		}
	}
	return out
}

// Neighbors8 returns the 8-connected neighbor cells of (c,r), same
// out-of-bounds policy as Neighbors4.
func (g *Grid) Neighbors8(c, r int) [8]cell.Cell {
	var out [8]cell.Cell
	for i, off := range Offset8 {
		v, ok := g.Get(c+off[0], r+off[1])
		if ok {
			out[i] = v
		} else {
			out[i] = cell.NewAir()
		}
	}
	return out
}

// ExposedTo reports whether (c,r) has any 4-connected neighbor of the
// given kind.
func (g *Grid) ExposedTo(c, r int, k cell.Kind) bool {
	for _, off := range Offset4 {
		if g.BlockType(c+off[0], r+off[1]) == k {
			return true
		}
	}
	return false
}

// Homogeneous8 reports whether (c,r) and all 8 neighbors share the center's
// kind (§4.4 homogeneity check H(c,r)).
func (g *Grid) Homogeneous8(c, r int) bool {
	center := g.BlockType(c, r)
	for _, off := range Offset8 {
		if g.BlockType(c+off[0], r+off[1]) != center {
			return false
		}
	}
	return true
}

// ContiguousRun counts cells of kind k starting at (c,r) and walking in
// direction (dc,dr) until a non-matching cell or the grid edge is hit.
// Used by water-depth style heuristics (§4.2).
func (g *Grid) ContiguousRun(c, r, dc, dr int, k cell.Kind) int {
	n := 0
	for {
		if g.BlockType(c, r) != k {
			return n
		}
		n++
		c += dc
		r += dr
		if !g.InBounds(c, r) {
			return n
		}
	}
}

// RingCells returns the coordinates of the outer shell of the square ring
// at Chebyshev distance `radius` from (c,r) — i.e. cells at exactly that
// distance, not the filled square. radius must be >= 1. Used by aging's
// ring-weighted influence scoring (§4.4): "only the outer shell of each
// ring is walked."
func RingCells(c, r, radius int) [][2]int {
	if radius < 1 {
		return nil
	}
	out := make([][2]int, 0, 8*radius)
	for dx := -radius; dx <= radius; dx++ {
		out = append(out, [2]int{c + dx, r - radius}, [2]int{c + dx, r + radius})
	}
	for dy := -radius + 1; dy <= radius-1; dy++ {
		out = append(out, [2]int{c - radius, r + dy}, [2]int{c + radius, r + dy})
	}
	return out
}
