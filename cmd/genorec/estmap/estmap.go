// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package estmap implements a command to re-estimate
// the genetic map of a GenoRec project.
package estmap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/js-arias/command"
	est "github.com/js-arias/genorec/infer/estmap"
	"github.com/js-arias/genorec/infer/hmm"
	"github.com/js-arias/genorec/project"
)

var Command = &command.Command{
	Usage: `estmap [-o|--output <file>] [--cpu <number>]
	<project>`,
	Short: "re-estimate the genetic map",
	Long: `
Command estmap reads a GenoRec project and re-estimates the recombination
fractions between the markers of the genetic map from the observed genotypes,
by maximum likelihood.

The argument of the command is the name of the project file.

The maximum number of iterations and the convergence tolerance are read from
the project settings. If a chromosome does not converge, a warning is printed
and the last estimate is reported.

The output is a genetic map file with the re-estimated marker positions (in
centimorgans, using the Haldane map function, with the first marker of each
chromosome at its original position). By default, the output file is the name
of the project file with the suffix "-map.tab"; use the flag --output, or -o,
to set a different name.

By default, all available CPUs will be used in the calculations. Set the flag
--cpu to use a different number of CPUs.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var numCPU int
var output string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&numCPU, "cpu", runtime.GOMAXPROCS(0), "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	runtime.GOMAXPROCS(numCPU)

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
	d, err := p.Data(m)
	if err != nil {
		return err
	}
	warns, err := d.Validate(ct)
	for _, w := range warns {
		fmt.Fprintf(c.Stderr(), "WARNING: %s\n", w)
	}
	if err != nil {
		return fmt.Errorf("on project %q: %v", args[0], err)
	}

	if output == "" {
		output = trimExt(args[0]) + "-map.tab"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	nm := m
	for _, chrom := range m.Chroms() {
		if len(m.Markers(chrom)) < 2 {
			continue
		}
		model := hmm.NewChrom(ct, d, chrom, s.ErrProb)
		r, err := est.Estimate(ctx, model, d.Obs(chrom), d.Contexts(model.XChr), s.MaxIterations, s.Tol)
		if err != nil {
			return fmt.Errorf("on chromosome %q: %v", chrom, err)
		}
		if !r.Converged {
			fmt.Fprintf(c.Stderr(), "WARNING: chromosome %q: no convergence after %d iterations\n", chrom, r.Iterations)
		}
		nm, err = nm.WithRecFrac(chrom, r.RF)
		if err != nil {
			return fmt.Errorf("on chromosome %q: %v", chrom, err)
		}
		fmt.Fprintf(c.Stdout(), "chromosome %s: logLike %.6f, %d iterations\n", chrom, r.LogLik, r.Iterations)
	}

	if err := nm.Write(output); err != nil {
		return err
	}
	return nil
}

func trimExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
