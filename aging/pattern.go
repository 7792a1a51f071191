package aging

import (
	"github.com/holdline-games/warden/cell"
	"github.com/holdline-games/warden/grid"
)

// maxTreeScanDepth bounds the downward anchor search so tree formation's
// locality stays bounded (§8 property 2 calls this out explicitly: "plus
// the tree-formation vertical scan whose depth is bounded").
const maxTreeScanDepth = 16

// attemptTreeFormation implements §4.4's tree formation pattern, invoked
// when a Vegetation cell is homogeneous (surrounded by Vegetation). It
// scans downward for a Dirt anchor, checks spacing against existing and
// already-proposed Wood, and on success proposes the full multi-cell
// rewrite. nearWood is consulted for the spacing check and must include both natural Wood already on the grid and Wood proposed
// earlier in this same pass.
func attemptTreeFormation(g *grid.Grid, c, r int, spacingRadius int, nearWood func(c, r int) bool) ([]Proposal, bool) {
	anchorRow := -1
	for d := 1; d <= maxTreeScanDepth; d++ {
		row := r + d
		if !g.InBounds(c, row) {
			break
		}
		if g.BlockType(c, row) == cell.Dirt {
			anchorRow = row
			break
		}
		if g.BlockType(c, row) != cell.Vegetation {
			// Anything other than a Vegetation trunk column or the Dirt
			// anchor breaks the downward scan.
			break
		}
	}
	if anchorRow == -1 {
		return nil, false
	}

	if nearWood(c, r) {
		return nil, false
	}
	_ = spacingRadius

	proposals := make([]Proposal, 0, anchorRow-r+1+2)
	for row := r; row <= anchorRow; row++ {
		proposals = append(proposals, Proposal{Col: c, Row: row, Kind: cell.Wood})
	}
	proposals = append(proposals,
		Proposal{Col: c - 1, Row: r, Kind: cell.Air},
		Proposal{Col: c + 1, Row: r, Kind: cell.Air},
	)
	return proposals, true
}

// withinChebyshev reports whether (c,r) lies within radius (inclusive,
// Chebyshev distance) of (centerC, centerR).
func withinChebyshev(c, r, centerC, centerR, radius int) bool {
	dx := c - centerC
	if dx < 0 {
		dx = -dx
	}
	dy := r - centerR
	if dy < 0 {
		dy = -dy
	}
	return dx <= radius && dy <= radius
}
