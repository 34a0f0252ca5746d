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
	"gonum.org/v1/gonum/floats"
)

func (m *Model) forward(obs []int, gen []int, tt TransTable, ctx cross.Context) [][]float64 {
	alpha := make([][]float64, len(obs))
	a := make([]float64, len(gen))
	for k, g := range gen {
		a[k] = m.Cross.InitLog(g, ctx) + m.emitLog(obs[0], g, 0, ctx)
	}
	alpha[0] = a

	sum := make([]float64, len(gen))
	for p := 1; p < len(obs); p++ {
		prev := alpha[p-1]
		a = make([]float64, len(gen))
		for j, g := range gen {
			for i := range gen {
				sum[i] = prev[i] + tt[p-1][i][j]
			}
			a[j] = floats.LogSumExp(sum) + m.emitLog(obs[p], g, p, ctx)
		}
		alpha[p] = a
	}
	return alpha
}

func (m *Model) backward(obs []int, gen []int, tt TransTable, ctx cross.Context) [][]float64 {
	beta := make([][]float64, len(obs))
	last := len(obs) - 1
	beta[last] = make([]float64, len(gen))

	sum := make([]float64, len(gen))
	for p := last - 1; p >= 0; p-- {
		next := beta[p+1]
		b := make([]float64, len(gen))
		for i := range gen {
			for j, g := range gen {
				sum[j] = tt[p][i][j] + m.emitLog(obs[p+1], g, p+1, ctx) + next[j]
			}
			b[i] = floats.LogSumExp(sum)
		}
		beta[p] = b
	}
	return beta
}

// posterior returns the posterior genotype probabilities
// of a single individual,
// as a matrix indexed as [position][genotype-1]
// over the full genotype state space,
// and the log likelihood of the individual.
func (m *Model) posterior(obs []int, ictx cross.Context, tt TransTable) ([][]float64, float64, error) {
	gen := m.Cross.PossibleGeno(ictx)
	alpha := m.forward(obs, gen, tt, ictx)
	beta := m.backward(obs, gen, tt, ictx)

	logLik := floats.LogSumExp(alpha[len(obs)-1])
	if math.IsNaN(logLik) || math.IsInf(logLik, 1) {
		return nil, 0, fmt.Errorf("invalid likelihood: the data is inconsistent with the model")
	}

	ng := m.Cross.NumGeno(ictx.XChr)
	post := make([][]float64, len(obs))
	for p := range obs {
		row := make([]float64, ng)
		var sum float64
		for k, g := range gen {
			v := math.Exp(alpha[p][k] + beta[p][k] - logLik)
			if math.IsNaN(v) {
				return nil, 0, fmt.Errorf("position %d: undefined posterior probability", p)
			}
			row[g-1] = v
			sum += v
		}
		if sum == 0 {
			return nil, 0, fmt.Errorf("position %d: undefined posterior probability", p)
		}
		for k := range row {
			row[k] /= sum
		}
		post[p] = row
	}
	return post, logLik, nil
}

// Probs returns the posterior probability
// of each true genotype
// at each position of the chromosome,
// for each individual,
// indexed as [individual][position][genotype-1].
// The genotype axis spans the full state space
// of the cross type
// (states that are impossible for an individual
// have zero probability).
//
// The individuals are processed in parallel;
// the context is checked for cancellation
// between individuals.
func (m *Model) Probs(ctx context.Context, obs [][]int, ictx []cross.Context) ([][][]float64, error) {
	if err := m.validate(obs, ictx); err != nil {
		return nil, err
	}
	tm := m.transMap(ictx)

	post := make([][][]float64, len(obs))
	errs := make([]error, len(obs))
	parallel.Range(0, len(obs), 0, func(low, high int) {
		for i := low; i < high; i++ {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			p, _, err := m.posterior(obs[i], ictx[i], tm[ContextKey(ictx[i])])
			if err != nil {
				errs[i] = fmt.Errorf("individual %d: %v", i, err)
				continue
			}
			post[i] = p
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return post, nil
}

// LogLik returns the log likelihood of the data,
// summed over the individuals.
func (m *Model) LogLik(ctx context.Context, obs [][]int, ictx []cross.Context) (float64, error) {
	if err := m.validate(obs, ictx); err != nil {
		return 0, err
	}
	tm := m.transMap(ictx)

	logLik := make([]float64, len(obs))
	errs := make([]error, len(obs))
	parallel.Range(0, len(obs), 0, func(low, high int) {
		for i := low; i < high; i++ {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			gen := m.Cross.PossibleGeno(ictx[i])
			alpha := m.forward(obs[i], gen, tm[ContextKey(ictx[i])], ictx[i])
			ll := floats.LogSumExp(alpha[len(obs[i])-1])
			if math.IsNaN(ll) || math.IsInf(ll, 1) {
				errs[i] = fmt.Errorf("individual %d: invalid likelihood: the data is inconsistent with the model", i)
				continue
			}
			logLik[i] = ll
		}
	})
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := errors.Join(errs...); err != nil {
		return 0, err
	}
	return floats.Sum(logLik), nil
}

// PairProbs returns the joint posterior probability
// of the true genotypes
// at the two ends of each interval of the chromosome
// for a single individual,
// indexed as [interval][genotype-1][genotype-1]
// over the full genotype state space,
// and the log likelihood of the individual.
func (m *Model) PairProbs(obs []int, ictx cross.Context, tt TransTable) ([][][]float64, float64, error) {
	gen := m.Cross.PossibleGeno(ictx)
	alpha := m.forward(obs, gen, tt, ictx)
	beta := m.backward(obs, gen, tt, ictx)

	logLik := floats.LogSumExp(alpha[len(obs)-1])
	if math.IsNaN(logLik) || math.IsInf(logLik, 1) {
		return nil, 0, fmt.Errorf("invalid likelihood: the data is inconsistent with the model")
	}

	ng := m.Cross.NumGeno(ictx.XChr)
	gamma := make([][][]float64, len(m.RF))
	for p := range m.RF {
		gp := make([][]float64, ng)
		for i := range gp {
			gp[i] = make([]float64, ng)
		}
		var sum float64
		for i, g1 := range gen {
			for j, g2 := range gen {
				lp := alpha[p][i] + tt[p][i][j] +
					m.emitLog(obs[p+1], g2, p+1, ictx) + beta[p+1][j] - logLik
				v := math.Exp(lp)
				if math.IsNaN(v) {
					return nil, 0, fmt.Errorf("interval %d: undefined posterior probability", p)
				}
				gp[g1-1][g2-1] = v
				sum += v
			}
		}
		if sum == 0 {
			return nil, 0, fmt.Errorf("interval %d: undefined posterior probability", p)
		}
		for i := range gp {
			for j := range gp[i] {
				gp[i][j] /= sum
			}
		}
		gamma[p] = gp
	}
	return gamma, logLik, nil
}

// TransTables returns the log transition tables
// of each distinct individual context,
// keyed by ContextKey.
func (m *Model) TransTables(ictx []cross.Context) map[string]TransTable {
	return m.transMap(ictx)
}
