// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package hmm

import (
	"math"
	"math/rand/v2"

	"github.com/js-arias/genorec/cross"
)

// Simulate returns a sequence of true genotypes
// along the chromosome
// for each individual,
// drawn from the model,
// indexed as [individual][position].
func (m *Model) Simulate(rng *rand.Rand, ictx []cross.Context) [][]int {
	tm := m.transMap(ictx)

	states := make([][]int, len(ictx))
	for i, ctx := range ictx {
		gen := m.Cross.PossibleGeno(ctx)
		tt := tm[ContextKey(ctx)]

		path := make([]int, m.NumPos())
		init := make([]float64, len(gen))
		for k, g := range gen {
			init[k] = math.Exp(m.Cross.InitLog(g, ctx))
		}
		arg := pick(rng, init)
		path[0] = gen[arg]

		prob := make([]float64, len(gen))
		for p := 1; p < len(path); p++ {
			for j := range gen {
				prob[j] = math.Exp(tt[p-1][arg][j])
			}
			arg = pick(rng, prob)
			path[p] = gen[arg]
		}
		states[i] = path
	}
	return states
}

func pick(rng *rand.Rand, prob []float64) int {
	var sum float64
	for _, p := range prob {
		sum += p
	}
	u := rng.Float64() * sum
	for i, p := range prob {
		u -= p
		if u < 0 {
			return i
		}
	}
	return len(prob) - 1
}

// Observed returns the genotypes
// that would be scored at the markers
// for the given sequences of true genotypes,
// adding genotyping errors
// at the error probability of the model.
// Positions at which the observation
// is uninformative about the true genotype
// (as with a missing founder genotype)
// are returned as missing.
func (m *Model) Observed(rng *rand.Rand, states [][]int, ictx []cross.Context) [][]int {
	obs := make([][]int, len(states))
	for i, path := range states {
		ctx := ictx[i]
		row := make([]int, len(path))
		valid := m.validObs(ctx)
		for p, g := range path {
			o := m.trueObs(g, p, valid, ctx)
			if o == cross.Missing {
				row[p] = cross.Missing
				continue
			}
			if m.ErrProb > 0 && rng.Float64() < m.ErrProb {
				o = wrongObs(rng, o, valid)
			}
			row[p] = o
		}
		obs[i] = row
	}
	return obs
}

// Only the full genotype codes
// (homozygous for each allele and heterozygous)
// can be scored at a marker.
const maxObsCode = 3

func (m *Model) validObs(ctx cross.Context) []int {
	var valid []int
	for o := 1; o <= maxObsCode; o++ {
		if m.Cross.CheckGeno(o, true, ctx) {
			valid = append(valid, o)
		}
	}
	return valid
}

// trueObs returns the observed genotype
// that an error free genotyping
// would score for a true genotype,
// that is the code with the largest emission probability.
func (m *Model) trueObs(g, pos int, valid []int, ctx cross.Context) int {
	best := cross.Missing
	bestLg := math.Inf(-1)
	informative := false
	for _, o := range valid {
		lg := m.emitLog(o, g, pos, ctx)
		if lg > bestLg {
			if best != cross.Missing {
				informative = true
			}
			best = o
			bestLg = lg
			continue
		}
		if lg < bestLg {
			informative = true
		}
	}
	if !informative {
		return cross.Missing
	}
	return best
}

func wrongObs(rng *rand.Rand, o int, valid []int) int {
	other := make([]int, 0, len(valid))
	for _, v := range valid {
		if v != o {
			other = append(other, v)
		}
	}
	if len(other) == 0 {
		return o
	}
	return other[rng.IntN(len(other))]
}
