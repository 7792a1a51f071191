// Package aging implements C5, the centerpiece two-phase probabilistic
// cellular automaton described in spec.md §4.4. Grounded on the teacher's
// systems/cells.go and systems/breeding.go (rule-table + probability-roll
// shape) and systems/noise.go (dedicated, fixed-seed RNG pattern) — the
// teacher seeds a PerlinNoise table from its own seed independent of the
// simulation's entity RNG; this package does the analogous thing with a
// dedicated aging RNG (see rng.go).
package aging

import (
	"sort"

	"github.com/holdline-games/warden/cell"
	"github.com/holdline-games/warden/grid"
)

// Proposal is a single candidate mutation produced during Collect.
type Proposal struct {
	Col, Row int
	Kind     cell.Kind
}

// Change is a committed mutation, as returned to the caller for ChangeLog
// bookkeeping (C9).
type Change struct {
	Col, Row         int
	OldKind, NewKind cell.Kind
}

// Config holds the aging constants from §6's Configuration.
type Config struct {
	ProbDiamondFormation           float64
	ProbVegetationToWoodSurrounded float64
	ProbDirtGrowsVegetation        float64
	MinTreeSpacingRadius           int
}

// DefaultConfig returns representative defaults; real runs load these from
// the config package.
func DefaultConfig() Config {
	return Config{
		ProbDiamondFormation:           0.02,
		ProbVegetationToWoodSurrounded: 0.015,
		ProbDirtGrowsVegetation:        0.01,
		MinTreeSpacingRadius:           6,
	}
}

// SafetyRegion is the minimal borrowed view aging needs of the portal
// (§9: "Cyclic references (Portal ↔ WorldManager ↔ WaveManager) → break
// with explicit parameter passing into the aging call"). The portal
// package implements this; aging never imports portal and never stores
// the reference beyond a single RunPass call.
type SafetyRegion interface {
	Active() bool
	Contains(col, row int) bool
}

// roller is the minimal random interface Engine depends on. *RNG
// satisfies it; tests substitute a deterministic fake to force specific
// rule outcomes without needing to search for a seed that happens to
// produce them.
type roller interface {
	Roll(p float64) bool
	Uniform01() float64
}

// Engine runs aging passes against a grid. It owns the fixed-seed RNG and
// rule table; it holds no reference to any Grid between calls (plain
// value semantics keep it safe to share across the tick pipeline).
type Engine struct {
	rng   roller
	rules RuleSet
	cfg   Config
}

// NewEngine constructs an aging engine with the given fixed seed, rule
// table, and constants.
func NewEngine(seed uint64, rules RuleSet, cfg Config) *Engine {
	return &Engine{rng: NewRNG(seed), rules: rules, cfg: cfg}
}

// NewEngineWithRoller constructs an engine around a caller-supplied
// random source, used by tests that need to force a specific roll
// outcome deterministically.
func NewEngineWithRoller(rng roller, rules RuleSet, cfg Config) *Engine {
	return &Engine{rng: rng, rules: rules, cfg: cfg}
}

// RunPass advances the grid one epoch tick (§4.4), returning the
// committed changes sorted by row descending (§4.9) so a renderer can
// update cascading dependencies bottom-up. A nil or inactive safety
// region means no cell is skipped for portal proximity.
func (e *Engine) RunPass(g *grid.Grid, safety SafetyRegion) []Change {
	proposals := e.collect(g, safety)
	return e.commit(g, proposals)
}

func (e *Engine) collect(g *grid.Grid, safety SafetyRegion) []Proposal {
	var proposals []Proposal
	var proposedWood [][2]int

	spacing := e.cfg.MinTreeSpacingRadius
	nearWood := func(c, r int) bool {
		for dx := -spacing; dx <= spacing; dx++ {
			for dy := -spacing; dy <= spacing; dy++ {
				if g.BlockType(c+dx, r+dy) == cell.Wood {
					return true
				}
			}
		}
		for _, pw := range proposedWood {
			if withinChebyshev(pw[0], pw[1], c, r, spacing) {
				return true
			}
		}
		return false
	}

	cols, rows := g.Cols(), g.Rows()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			// 1. Safety region skip.
			if safety != nil && safety.Active() && safety.Contains(c, r) {
				continue
			}

			v, _ := g.Get(c, r)

			// 2. Inert skip.
			if v.Kind == cell.Air || v.Kind == cell.Water {
				continue
			}

			// 3. Vegetation growth seed rule.
			if v.Kind == cell.Dirt && v.Lit && g.BlockType(c, r-1) == cell.Air {
				if e.rng.Roll(e.cfg.ProbDirtGrowsVegetation) {
					proposals = append(proposals, Proposal{Col: c, Row: r - 1, Kind: cell.Vegetation})
					continue
				}
			}

			// 4. Homogeneity check.
			if g.Homogeneous8(c, r) {
				switch v.Kind {
				case cell.Stone:
					if e.rng.Roll(e.cfg.ProbDiamondFormation) {
						proposals = append(proposals, Proposal{Col: c, Row: r, Kind: cell.Diamond})
					}
				case cell.Vegetation:
					if e.rng.Roll(e.cfg.ProbVegetationToWoodSurrounded) {
						if ps, ok := attemptTreeFormation(g, c, r, spacing, nearWood); ok {
							proposals = append(proposals, ps...)
							for _, p := range ps {
								if p.Kind == cell.Wood {
									proposedWood = append(proposedWood, [2]int{p.Col, p.Row})
								}
							}
						}
					}
				default:
					// cheap skip — no probability drawn (§8 property 3).
				}
				continue
			}

			// Wood's aging rule only fires on natural (non-player-placed)
			// wood; player-placed wood is exempt from erosion entirely.
			if v.Kind == cell.Wood && v.PlayerPlaced {
				continue
			}

			// 5. Border cell: consult the rule table, first success wins.
			for _, rule := range e.rules[v.Kind] {
				if rule.RequiresLit != nil && v.Lit != *rule.RequiresLit {
					continue
				}

				if rule.NeighborFilter != nil {
					fired := false
					for _, off := range grid.Offset4 {
						nc, nr := c+off[0], r+off[1]
						if g.BlockType(nc, nr) != *rule.NeighborFilter {
							continue
						}
						p := probability(g, c, r, rule)
						if e.rng.Roll(p) {
							outcome := resolveOutcome(rule, e.rng)
							proposals = append(proposals, Proposal{Col: nc, Row: nr, Kind: outcome})
							fired = true
						}
					}
					if fired {
						break
					}
					continue
				}

				p := probability(g, c, r, rule)
				if e.rng.Roll(p) {
					outcome := resolveOutcome(rule, e.rng)
					proposals = append(proposals, Proposal{Col: c, Row: r, Kind: outcome})
					break
				}
			}
		}
	}

	return proposals
}

func (e *Engine) commit(g *grid.Grid, proposals []Proposal) []Change {
	final := make(map[[2]int]cell.Kind, len(proposals))
	order := make([][2]int, 0, len(proposals))
	for _, p := range proposals {
		key := [2]int{p.Col, p.Row}
		if _, seen := final[key]; !seen {
			order = append(order, key)
		}
		final[key] = p.Kind // last proposal for a cell wins (§4.4 Ties).
	}

	changes := make([]Change, 0, len(order))
	for _, key := range order {
		c, r := key[0], key[1]
		old, ok := g.Get(c, r)
		if !ok {
			continue
		}
		newKind := final[key]
		newCell := buildCommitCell(old, newKind)
		if g.SetCell(c, r, newCell) {
			changes = append(changes, Change{Col: c, Row: r, OldKind: old.Kind, NewKind: newKind})
		}
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Row > changes[j].Row
	})
	return changes
}

// buildCommitCell constructs the replacement cell for a commit, preserving
// player_placed (§4.4 commit phase) except for aging-produced Wood, which
// §9's open-question resolution fixes to player_placed = false (natural
// wood is non-solid for physics).
func buildCommitCell(old cell.Cell, newKind cell.Kind) cell.Cell {
	if newKind == cell.Air {
		return cell.NewAir()
	}
	if newKind == cell.Water {
		return cell.NewWater()
	}
	playerPlaced := old.PlayerPlaced
	if newKind == cell.Wood {
		playerPlaced = false
	}
	return cell.NewMaterial(newKind, playerPlaced)
}
