// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package estmap implements the re-estimation
// of the recombination fractions of a genetic map
// from the observed genotypes
// of the individuals of an experimental cross,
// by an expectation-maximization algorithm
// over the hidden Markov model of the cross.
package estmap

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/exascience/pargo/parallel"
	"github.com/js-arias/genorec/cross"
	"github.com/js-arias/genorec/infer/hmm"
)

// A Result is the result of a map re-estimation
// on a chromosome.
type Result struct {
	// Re-estimated recombination fractions,
	// one per marker interval
	RF []float64

	// Log likelihood of the data
	// under the re-estimated fractions
	LogLik float64

	// Number of iterations used
	Iterations int

	// False if the algorithm stopped
	// at the maximum number of iterations
	// without converging
	Converged bool
}

// Estimate re-estimates the recombination fractions
// of the chromosome of model m
// from the observed genotypes,
// starting from the fractions of the model.
// It stops when the improvement of the log likelihood
// in an iteration is smaller than tol,
// or after maxIt iterations.
//
// The model is not modified.
//
// The expectation step is computed in parallel
// over the individuals;
// the context is checked for cancellation
// on each iteration.
func Estimate(ctx context.Context, m *hmm.Model, obs [][]int, ictx []cross.Context, maxIt int, tol float64) (*Result, error) {
	if maxIt < 1 {
		return nil, fmt.Errorf("invalid maximum number of iterations %d", maxIt)
	}
	if tol <= 0 {
		return nil, fmt.Errorf("invalid tolerance %.6g", tol)
	}

	// fractions too close to zero
	// make any observed recombinant impossible
	low := tol / 1000

	cm := &hmm.Model{
		Cross:    m.Cross,
		RF:       slices.Clone(m.RF),
		ErrProb:  m.ErrProb,
		Founders: m.Founders,
		XChr:     m.XChr,
	}
	for i, rf := range cm.RF {
		if rf < low {
			cm.RF[i] = low
		}
	}

	est, _ := m.Cross.(cross.RecFracEstimator)

	r := &Result{}
	prevLogLik := math.Inf(-1)
	for it := 0; it < maxIt; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.Iterations = it + 1

		gamma, logLik, err := expectation(ctx, cm, obs, ictx)
		if err != nil {
			return nil, err
		}
		r.LogLik = logLik

		for p := range cm.RF {
			rf, ok := 0.0, false
			if est != nil {
				rf, ok = est.EstRecFrac(gamma[p], ictx)
			}
			if !ok {
				rf = maximize(cm, gamma[p], ictx, tol)
			}
			if rf < low {
				rf = low
			}
			if rf > 0.5 {
				rf = 0.5
			}
			cm.RF[p] = rf
		}

		if logLik-prevLogLik < tol {
			r.Converged = true
			break
		}
		prevLogLik = logLik
	}

	// likelihood of the final fractions
	logLik, err := cm.LogLik(ctx, obs, ictx)
	if err != nil {
		return nil, err
	}
	r.LogLik = logLik
	r.RF = cm.RF
	return r, nil
}

// expectation returns the joint posterior probabilities
// of the true genotypes at the ends of each interval,
// indexed as [interval][individual][genotype-1][genotype-1],
// and the log likelihood of the data.
func expectation(ctx context.Context, m *hmm.Model, obs [][]int, ictx []cross.Context) ([][][][]float64, float64, error) {
	tm := m.TransTables(ictx)

	gamma := make([][][][]float64, len(m.RF))
	for p := range gamma {
		gamma[p] = make([][][]float64, len(obs))
	}
	logLik := make([]float64, len(obs))
	errs := make([]error, len(obs))
	parallel.Range(0, len(obs), 0, func(low, high int) {
		for i := low; i < high; i++ {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			g, ll, err := m.PairProbs(obs[i], ictx[i], tm[hmm.ContextKey(ictx[i])])
			if err != nil {
				errs[i] = fmt.Errorf("individual %d: %v", i, err)
				continue
			}
			for p := range g {
				gamma[p][i] = g[p]
			}
			logLik[i] = ll
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, 0, err
	}

	var sum float64
	for _, ll := range logLik {
		sum += ll
	}
	return gamma, sum, nil
}

// maximize returns the recombination fraction
// that maximizes the expected complete data log likelihood
// of an interval,
// searched by Brent's method.
func maximize(m *hmm.Model, gamma [][][]float64, ictx []cross.Context, tol float64) float64 {
	f := func(rf float64) float64 {
		var sum float64
		for ind, g := range gamma {
			for i, row := range g {
				for j, p := range row {
					if p == 0 {
						continue
					}
					sum += p * m.Cross.StepLog(i+1, j+1, rf, ictx[ind])
				}
			}
		}
		return -sum
	}
	return fmin(tol/1000, 0.5, f, tol/100)
}
