package aging

import (
	"gonum.org/v1/gonum/floats"

	"github.com/holdline-games/warden/cell"
	"github.com/holdline-games/warden/grid"
)

// ringRadii is the fixed set of ring radii the ring-weighted influence sum
// walks (§4.4).
var ringRadii = [3]int{3, 5, 7}

// SplitOutcome is one branch of a probabilistic post-success split (§4.4:
// "the successful outcome is further split").
type SplitOutcome struct {
	Kind        cell.Kind
	Probability float64 // must sum to 1 across a rule's SplitOutcomes
}

// Rule is one entry of AGING_RULES[kind] (§6 Configuration).
type Rule struct {
	// TargetKind is the candidate target kind this rule is keyed under —
	// what the affected cell becomes on success (subject to SplitOutcomes
	// overriding it).
	TargetKind cell.Kind

	BaseProbability float64
	Influences      map[cell.Kind]float64
	RingWeights     map[int]float64

	// NeighborFilter, if set, turns this into an "infect a specific
	// neighbor kind in the 4-neighborhood" rule (§4.4): the center cell
	// itself is never converted; instead each 4-neighbor whose kind
	// equals *NeighborFilter is rolled independently.
	NeighborFilter *cell.Kind

	// RequiresLit gates the rule on the center cell's Lit flag: nil means
	// no gate, non-nil requires Lit == *RequiresLit.
	RequiresLit *bool

	// SplitOutcomes, if non-empty, replaces TargetKind on success: one of
	// these kinds is chosen by a uniform roll instead.
	SplitOutcomes []SplitOutcome
}

// RuleSet maps a cell kind to its ordered list of candidate rules. Order is
// the rule priority: the first rule whose gate passes and whose roll
// succeeds wins, and no further rules are evaluated for that cell (§4.4:
// "Rule evaluation stops at the first success per cell").
type RuleSet map[cell.Kind][]Rule

func litPtr(b bool) *bool   { return &b }
func kindPtr(k cell.Kind) *cell.Kind { return &k }

// DefaultRuleSet returns the erosion/aging rule table this module ships
// with. Exact per-kind probabilities and influence weights are an
// implementation decision (spec.md leaves the concrete table to
// configuration); each rule below carries a comment naming what it models.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		cell.Stone: {
			{
				// Calcification: a Stone cell bordering Dirt slowly
				// petrifies the adjacent Dirt into Stone.
				TargetKind:      cell.Stone,
				NeighborFilter:  kindPtr(cell.Dirt),
				BaseProbability: 0.0015,
				Influences:      map[cell.Kind]float64{cell.Stone: 0.01},
				RingWeights:     map[int]float64{3: 0.05},
			},
			{
				// Exposure to water erodes Stone toward loose Gravel.
				TargetKind:      cell.Gravel,
				BaseProbability: 0.0006,
				Influences:      map[cell.Kind]float64{cell.Water: 0.02, cell.Sand: 0.01},
				RingWeights:     map[int]float64{3: 0.02, 5: 0.01},
			},
		},
		cell.Gravel: {
			{
				TargetKind:      cell.Sand,
				BaseProbability: 0.003,
				Influences:      map[cell.Kind]float64{cell.Water: 0.03},
				RingWeights:     map[int]float64{3: 0.02},
			},
		},
		cell.Sand: {
			{
				// Washed away entirely when persistently adjacent to water.
				TargetKind:      cell.Air,
				BaseProbability: 0.0004,
				Influences:      map[cell.Kind]float64{cell.Water: 0.02},
				RingWeights:     map[int]float64{3: 0.015},
			},
		},
		cell.Dirt: {
			{
				// Desiccation near sand/water turns dirt sandy.
				TargetKind:      cell.Sand,
				BaseProbability: 0.0003,
				Influences:      map[cell.Kind]float64{cell.Sand: 0.01, cell.Water: 0.01},
				RingWeights:     map[int]float64{3: 0.01},
			},
		},
		cell.Vegetation: {
			{
				// Unlit vegetation decays; §4.4 splits the outcome.
				TargetKind:      cell.Air,
				RequiresLit:     litPtr(false),
				BaseProbability: 0.01,
				SplitOutcomes: []SplitOutcome{
					{Kind: cell.Dirt, Probability: 0.10},
					{Kind: cell.Air, Probability: 0.90},
				},
			},
		},
		cell.Wood: {
			{
				// Natural (non-player-placed) wood slowly rots back to
				// dirt; player-placed wood is excluded at the call site
				// (the collect pass checks PlayerPlaced before consulting
				// this table for Wood).
				TargetKind:      cell.Dirt,
				BaseProbability: 0.0003,
				Influences:      map[cell.Kind]float64{cell.Vegetation: 0.005},
				RingWeights:     map[int]float64{3: 0.01},
			},
		},
	}
}

// probability computes p = base + Σ_ring ring_weight[ring] · Σ_cells influences[kind]
// for a rule evaluated at (c,r), walking only the outer shell of each ring
// (§4.4). Out-of-bounds/unknown neighbors are treated as Air (§4.4 failure
// semantics), which BlockType already guarantees.
func probability(g *grid.Grid, c, r int, rule Rule) float64 {
	p := rule.BaseProbability
	for _, radius := range ringRadii {
		rw, ok := rule.RingWeights[radius]
		if !ok || rw == 0 {
			continue
		}
		coords := grid.RingCells(c, r, radius)
		contributions := make([]float64, 0, len(coords))
		for _, xy := range coords {
			k := g.BlockType(xy[0], xy[1])
			if w, ok := rule.Influences[k]; ok {
				contributions = append(contributions, w)
			}
		}
		p += rw * floats.Sum(contributions)
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// resolveOutcome picks the resulting kind for a successful rule: either
// TargetKind, or a draw among SplitOutcomes.
func resolveOutcome(rule Rule, rng roller) cell.Kind {
	if len(rule.SplitOutcomes) == 0 {
		return rule.TargetKind
	}
	roll := rng.Uniform01()
	cum := 0.0
	for _, so := range rule.SplitOutcomes {
		cum += so.Probability
		if roll < cum {
			return so.Kind
		}
	}
	return rule.SplitOutcomes[len(rule.SplitOutcomes)-1].Kind
}
