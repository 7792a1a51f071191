package aging

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// RNG is the aging pass's dedicated, fixed-seed random source. §5 requires
// a second, fixed-seed RNG distinct from the entity RNG so that pattern
// formation is reproducible independent of entity-driven randomness.
// Grounded on other pack examples' use of gonum's distuv distributions for
// weighted draws (distuv.Bernoulli/Uniform over a golang.org/x/exp/rand.Source;
// the teacher itself has no distuv usage) rather than a bare rng.Float64()
// comparison.
type RNG struct {
	src rand.Source
}

// NewRNG constructs the aging RNG from a fixed seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{src: rand.NewSource(seed)}
}

// Roll returns true with probability p (clamped to [0,1]).
func (r *RNG) Roll(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	b := distuv.Bernoulli{P: p, Src: r.src}
	return b.Rand() == 1
}

// Uniform01 draws a uniform sample in [0,1), used for the split-outcome
// rolls (e.g. unlit Vegetation decay's 10%/90% split).
func (r *RNG) Uniform01() float64 {
	u := distuv.Uniform{Min: 0, Max: 1, Src: r.src}
	return u.Rand()
}
