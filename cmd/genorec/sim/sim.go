// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sim implements a command to simulate
// the genotypes of an experimental cross.
package sim

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/genorec/geno"
	"github.com/js-arias/genorec/infer/hmm"
	"github.com/js-arias/genorec/project"
)

var Command = &command.Command{
	Usage: `sim [--num <number>] [--seed <number>]
	[-o|--output <file>] [--paths <file>] <project>`,
	Short: "simulate the genotypes of a cross",
	Long: `
Command sim reads a GenoRec project and simulates observed genotypes for the
individuals of the cross, drawing the true genotypes from the cross model over
the genetic map of the project, and adding genotyping errors at the error
probability of the settings.

The argument of the command is the name of the project file.

If the project defines an individual file, or observed genotypes, the
simulation uses the individuals of the project (with their sex and cross
information). Otherwise, new individuals will be created; set their number
with the flag --num (100 by default).

The random seed is read from the project settings; use the flag --seed to set
a different seed. If the seed is zero, the seed is taken from the clock.

The simulated genotypes are written as an observed genotype file. By default,
the output file is the name of the project file with the suffix "-sim.tab";
use the flag --output, or -o, to set a different name. If the flag --paths is
defined, the simulated true genotypes are written to the indicated file, with
the same format, using the genotype state codes of the cross type.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var numInd int
var seed int64
var output string
var pathFile string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&numInd, "num", 100, "")
	c.Flags().Int64Var(&seed, "seed", 0, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().StringVar(&pathFile, "paths", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	s, err := p.Settings()
	if err != nil {
		return err
	}
	ct, err := s.Cross()
	if err != nil {
		return fmt.Errorf("on project %q: %v", args[0], err)
	}
	m, err := p.GenMap()
	if err != nil {
		return err
	}

	d := geno.New(m)
	if gf := p.Path(project.Geno); gf != "" {
		if err := d.ReadObs(gf); err != nil {
			return err
		}
	}
	if ff := p.Path(project.Founders); ff != "" {
		if err := d.ReadFounders(ff); err != nil {
			return err
		}
	}
	if in := p.Path(project.Individuals); in != "" {
		if err := d.ReadIndividuals(in); err != nil {
			return err
		}
	}
	if len(d.Inds()) == 0 {
		if numInd < 1 {
			return c.UsageError(fmt.Sprintf("invalid number of individuals %d", numInd))
		}
		digits := len(fmt.Sprintf("%d", numInd))
		for i := 1; i <= numInd; i++ {
			d.SetSex(fmt.Sprintf("sim%0*d", digits, i), true)
		}
	}
	warns, err := d.Validate(ct)
	for _, w := range warns {
		fmt.Fprintf(c.Stderr(), "WARNING: %s\n", w)
	}
	if err != nil {
		return fmt.Errorf("on project %q: %v", args[0], err)
	}

	sd := uint64(seed)
	if sd == 0 {
		sd = s.Seed
	}
	if sd == 0 {
		sd = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(sd, sd))

	sim := geno.New(m)
	var truth *geno.Data
	if pathFile != "" {
		truth = geno.New(m)
	}

	inds := d.Inds()
	for _, chrom := range m.Chroms() {
		model := hmm.NewChrom(ct, d, chrom, s.ErrProb)
		ictx := d.Contexts(model.XChr)

		states := model.Simulate(rng, ictx)
		obs := model.Observed(rng, states, ictx)

		markers := m.Markers(chrom)
		for i, ind := range inds {
			for pos, mk := range markers {
				if obs[i][pos] != 0 {
					if err := sim.AddObs(ind, chrom, mk, obs[i][pos]); err != nil {
						return err
					}
				}
				if truth != nil {
					if err := truth.AddObs(ind, chrom, mk, states[i][pos]); err != nil {
						return err
					}
				}
			}
		}
	}

	if output == "" {
		output = trimExt(args[0]) + "-sim.tab"
	}
	if err := sim.WriteObs(output); err != nil {
		return err
	}
	if truth != nil {
		if err := truth.WriteObs(pathFile); err != nil {
			return err
		}
	}
	return nil
}

func trimExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
