// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package cross provides the genetic models
// for the different experimental cross designs
// (backcross, intercross, recombinant inbred lines,
// advanced intercross lines, and their multi-founder variants).
//
// A cross type defines the latent genotype states
// along a chromosome,
// the probability of each state at the start of the chromosome,
// the probability of the observed marker genotypes
// given a latent state,
// and the probability of a change of state
// between adjacent map positions
// at a given recombination fraction.
// All probabilities are stored as logarithms.
//
// Genotype codes are small positive integers;
// the code 0 always indicates a missing observation.
package cross

import (
	"fmt"
	"strconv"
	"strings"
)

// Missing is the genotype code
// used for a missing observation.
const Missing = 0

// A Context gives the conditions
// used to interpret a genotype state:
// the type of the chromosome,
// the sex of the individual,
// and the breeding history of the individual
// (the cross information).
type Context struct {
	XChr      bool
	Female    bool
	CrossInfo []int
}

// A Cross is a model for an experimental cross design.
//
// The probability methods
// (InitLog, EmitLog, and StepLog)
// expect valid latent genotype codes,
// as produced by PossibleGeno;
// data validation must be done up front
// with the check methods.
type Cross interface {
	// Type returns the tag of the cross type.
	Type() string

	// NumGeno returns the number of latent genotype states
	// for the indicated chromosome type.
	NumGeno(xChr bool) int

	// NumAlleles returns the number of founder alleles.
	NumAlleles() int

	// NeedFounderGeno returns true if the cross type
	// requires founder genotype data.
	NeedFounderGeno() bool

	// CheckGeno returns true if a genotype code is valid.
	// Observed genotypes admit ambiguity codes
	// that are not part of the latent state space.
	CheckGeno(g int, observed bool, ctx Context) bool

	// PossibleGeno returns the latent genotype states
	// for the given context.
	// The order of the states defines the indexing
	// used by all probability arrays.
	PossibleGeno(ctx Context) []int

	// InitLog returns the log-probability of a genotype state
	// at the first position of a chromosome.
	InitLog(g int, ctx Context) float64

	// EmitLog returns the log-probability
	// of an observed genotype
	// given a latent genotype state
	// and a genotyping error probability.
	// For founder based cross types,
	// founder is the column of founder genotypes
	// at the marker
	// (nil at positions without founder data).
	EmitLog(obs, g int, errProb float64, founder []int, ctx Context) float64

	// StepLog returns the log-probability of a transition
	// between genotype states at adjacent positions,
	// separated by the given recombination fraction.
	StepLog(g1, g2 int, rf float64, ctx Context) float64

	// NumRec returns the number of recombination events
	// implied by a transition between two genotype states.
	NumRec(g1, g2 int, ctx Context) int

	// CheckCrossInfo checks the cross information
	// of a set of individuals,
	// one row per individual.
	CheckCrossInfo(ci [][]int, anyX bool) error

	// CheckFounderGenoSize checks the dimensions
	// of a founder genotype matrix
	// (founders x markers).
	CheckFounderGenoSize(fg [][]int, numMarkers int) error

	// CheckFounderGenoValues checks the values
	// of a founder genotype matrix.
	CheckFounderGenoValues(fg [][]int) error

	// CheckHandleX reports whether the cross type
	// can model an X chromosome.
	// If it cannot,
	// the returned message explains the fallback
	// (the chromosome is treated as an autosome)
	// and should be reported as a warning,
	// not as an error.
	CheckHandleX(anyX bool) (bool, string)

	// GenoNames returns the display names
	// of the genotype states,
	// built from the given allele labels.
	GenoNames(alleles []string, xChr bool) ([]string, error)
}

// A RecFracEstimator is a cross type
// with a closed form maximum likelihood update
// for a recombination fraction,
// used by map re-estimation.
//
// EstRecFrac receives the expected joint probabilities
// of the genotype states at the two ends
// of a marker interval,
// one matrix per individual,
// indexed by genotype code
// (minus one)
// over the full state space,
// and the context of each individual.
// It returns false if there is no closed form
// for the given contexts,
// in which case a numerical update is used instead.
type RecFracEstimator interface {
	EstRecFrac(gamma [][][]float64, ctx []Context) (float64, bool)
}

var crosses = map[string]func() Cross{
	"bc":       func() Cross { return Backcross{} },
	"f2":       func() Cross { return Intercross{} },
	"riself":   func() Cross { return RISelf{} },
	"risib":    func() Cross { return RISib{} },
	"riself4":  func() Cross { return RISelfN{n: 4} },
	"riself8":  func() Cross { return RISelfN{n: 8} },
	"riself16": func() Cross { return RISelfN{n: 16} },
	"risib8":   func() Cross { return RISib8{} },
	"ail":      func() Cross { return AIL{} },
	"do":       func() Cross { return GenAIL{n: 8, tag: "do"} },
}

// New returns the cross model for a cross type tag.
// Valid tags are
// "bc", "f2", "riself", "risib",
// "riself4", "riself8", "riself16",
// "risib8", "ail", "do",
// and "genail<n>" for a general advanced intercross
// with n founders
// (for example "genail8").
func New(tag string) (Cross, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if f, ok := crosses[tag]; ok {
		return f(), nil
	}
	if s, ok := strings.CutPrefix(tag, "genail"); ok {
		n, err := strconv.Atoi(s)
		if err != nil || n < 2 {
			return nil, fmt.Errorf("invalid number of founders in cross type %q", tag)
		}
		return GenAIL{n: n, tag: tag}, nil
	}
	return nil, fmt.Errorf("unknown cross type %q", tag)
}

// Types returns the tags of the fixed cross types.
func Types() []string {
	return []string{
		"ail", "bc", "do", "f2",
		"riself", "riself16", "riself4", "riself8",
		"risib", "risib8",
	}
}
