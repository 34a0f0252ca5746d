// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package hmm implements the hidden Markov model
// used to reconstruct the true genotypes
// of the individuals of an experimental cross.
//
// The hidden states are the true genotypes
// at a sequence of positions of a chromosome,
// the observations are the genotypes scored at the markers,
// and the transition probabilities are given
// by the recombination fractions
// between consecutive positions.
package hmm

import (
	"fmt"
	"math"

	"github.com/js-arias/genorec/cross"
	"github.com/js-arias/genorec/genmap"
	"github.com/js-arias/genorec/geno"
)

// A Model is a hidden Markov model
// for a chromosome of an experimental cross.
//
// The positions of the chromosome
// are given implicitly
// by the recombination fractions RF,
// one per interval between consecutive positions,
// so a model with n positions
// has n-1 recombination fractions.
//
// Founders stores the founder genotypes
// at each position
// (a slice with one genotype per founder line);
// it should be defined only for cross types
// that require founder genotypes.
type Model struct {
	Cross    cross.Cross
	RF       []float64
	ErrProb  float64
	Founders [][]int
	XChr     bool
}

// NewChrom returns the model of a chromosome
// of a genetic map,
// for the given cross type,
// genotype data,
// and genotyping error probability.
//
// If the cross type cannot model an X chromosome
// the chromosome is treated as an autosome.
func NewChrom(c cross.Cross, d *geno.Data, chrom string, errProb float64) *Model {
	handleX, _ := c.CheckHandleX(d.AnyX())
	m := &Model{
		Cross:   c,
		RF:      d.Map().RecFrac(chrom),
		ErrProb: errProb,
		XChr:    genmap.IsX(chrom) && handleX,
	}
	if c.NeedFounderGeno() {
		m.Founders = d.FounderColumns(chrom)
	}
	return m
}

// NumPos returns the number of positions
// of the model.
func (m *Model) NumPos() int {
	return len(m.RF) + 1
}

func (m *Model) validate(obs [][]int, ictx []cross.Context) error {
	if len(obs) != len(ictx) {
		return fmt.Errorf("got %d individuals but %d contexts", len(obs), len(ictx))
	}
	for i, rf := range m.RF {
		if rf < 0 || rf > 0.5 || math.IsNaN(rf) {
			return fmt.Errorf("interval %d: invalid recombination fraction %.6f", i, rf)
		}
	}
	if m.ErrProb < 0 || m.ErrProb >= 1 {
		return fmt.Errorf("invalid genotyping error probability %.6f", m.ErrProb)
	}
	np := m.NumPos()
	if m.Founders != nil && len(m.Founders) != np {
		return fmt.Errorf("got founder genotypes at %d positions, want %d", len(m.Founders), np)
	}
	for i, row := range obs {
		if len(row) != np {
			return fmt.Errorf("individual %d: got %d observations, want %d", i, len(row), np)
		}
	}
	return nil
}

func (m *Model) emitLog(obs, g, pos int, ctx cross.Context) float64 {
	var fg []int
	if m.Founders != nil {
		fg = m.Founders[pos]
	}
	return m.Cross.EmitLog(obs, g, m.ErrProb, fg, ctx)
}

// A TransTable stores the log transition probabilities
// of each interval
// for a given individual context,
// indexed as [interval][from][to]
// over the possible genotype states.
type TransTable [][][]float64

func (m *Model) transitions(gen []int, ctx cross.Context) TransTable {
	tt := make(TransTable, len(m.RF))
	for p, rf := range m.RF {
		tr := make([][]float64, len(gen))
		for i, g1 := range gen {
			row := make([]float64, len(gen))
			for j, g2 := range gen {
				row[j] = m.Cross.StepLog(g1, g2, rf, ctx)
			}
			tr[i] = row
		}
		tt[p] = tr
	}
	return tt
}

// Individuals that share a context
// also share the transition tables,
// so the tables are computed once per distinct context.
func (m *Model) transMap(ictx []cross.Context) map[string]TransTable {
	tm := make(map[string]TransTable)
	for _, ctx := range ictx {
		k := ContextKey(ctx)
		if _, ok := tm[k]; ok {
			continue
		}
		tm[k] = m.transitions(m.Cross.PossibleGeno(ctx), ctx)
	}
	return tm
}

// ContextKey returns the key used to group individuals
// that share transition tables.
func ContextKey(ctx cross.Context) string {
	return fmt.Sprintf("%v-%v", ctx.Female, ctx.CrossInfo)
}
