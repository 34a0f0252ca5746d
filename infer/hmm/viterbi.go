// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package hmm

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/exascience/pargo/parallel"
	"github.com/js-arias/genorec/cross"
)

func (m *Model) viterbi(obs []int, ictx cross.Context, tt TransTable) ([]int, error) {
	gen := m.Cross.PossibleGeno(ictx)

	delta := make([][]float64, len(obs))
	from := make([][]int, len(obs))
	d := make([]float64, len(gen))
	for k, g := range gen {
		d[k] = m.Cross.InitLog(g, ictx) + m.emitLog(obs[0], g, 0, ictx)
	}
	delta[0] = d

	for p := 1; p < len(obs); p++ {
		prev := delta[p-1]
		d = make([]float64, len(gen))
		f := make([]int, len(gen))
		for j, g := range gen {
			best := prev[0] + tt[p-1][0][j]
			arg := 0
			for i := 1; i < len(gen); i++ {
				// on ties the first state wins
				if v := prev[i] + tt[p-1][i][j]; v > best {
					best = v
					arg = i
				}
			}
			d[j] = best + m.emitLog(obs[p], g, p, ictx)
			f[j] = arg
		}
		delta[p] = d
		from[p] = f
	}

	last := len(obs) - 1
	best := delta[last][0]
	arg := 0
	for k := 1; k < len(gen); k++ {
		if delta[last][k] > best {
			best = delta[last][k]
			arg = k
		}
	}
	if math.IsInf(best, -1) || math.IsNaN(best) {
		return nil, fmt.Errorf("invalid likelihood: the data is inconsistent with the model")
	}

	path := make([]int, len(obs))
	path[last] = gen[arg]
	for p := last; p > 0; p-- {
		arg = from[p][arg]
		path[p-1] = gen[arg]
	}
	return path, nil
}

// Paths returns the most probable sequence
// of true genotypes of each individual
// along the chromosome,
// indexed as [individual][position].
// Ties are solved in favor
// of the lowest numbered genotype.
//
// The individuals are processed in parallel;
// the context is checked for cancellation
// between individuals.
func (m *Model) Paths(ctx context.Context, obs [][]int, ictx []cross.Context) ([][]int, error) {
	if err := m.validate(obs, ictx); err != nil {
		return nil, err
	}
	tm := m.transMap(ictx)

	paths := make([][]int, len(obs))
	errs := make([]error, len(obs))
	parallel.Range(0, len(obs), 0, func(low, high int) {
		for i := low; i < high; i++ {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			p, err := m.viterbi(obs[i], ictx[i], tm[ContextKey(ictx[i])])
			if err != nil {
				errs[i] = fmt.Errorf("individual %d: %v", i, err)
				continue
			}
			paths[i] = p
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return paths, nil
}
