// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prob implements a command to calculate
// the posterior probabilities of the true genotypes
// of the individuals of a GenoRec project.
package prob

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/genorec/infer/hmm"
	"github.com/js-arias/genorec/project"
)

var Command = &command.Command{
	Usage: `prob [-o|--output <file>] [--cpu <number>]
	<project>`,
	Short: "calculate posterior genotype probabilities",
	Long: `
Command prob reads a GenoRec project and calculates the posterior probability
of each true genotype, at each marker, for each individual, given all the
observed genotypes of the chromosome.

The argument of the command is the name of the project file.

The output is a TSV file with the following columns:

	- individual   the name of the individual
	- chromosome   the name of the chromosome
	- marker       the name of the marker
	- genotype     the name of the true genotype
	- probability  the posterior probability of the genotype

By default, the output file is the name of the project file with the suffix
"-probs.tab"; use the flag --output, or -o, to set a different name.

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
		output = trimExt(args[0]) + "-probs.tab"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# posterior genotype probabilities\n")
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	if err := tsv.Write([]string{"individual", "chromosome", "marker", "genotype", "probability"}); err != nil {
		return fmt.Errorf("on file %q: %v", output, err)
	}

	inds := d.Inds()
	for _, chrom := range m.Chroms() {
		model := hmm.NewChrom(ct, d, chrom, s.ErrProb)
		names, err := ct.GenoNames(s.AlleleLabels(ct.NumAlleles()), model.XChr)
		if err != nil {
			return err
		}

		post, err := model.Probs(ctx, d.Obs(chrom), d.Contexts(model.XChr))
		if err != nil {
			return fmt.Errorf("on chromosome %q: %v", chrom, err)
		}

		markers := m.Markers(chrom)
		for i, pi := range post {
			for pos, row := range pi {
				for g, v := range row {
					if v == 0 {
						continue
					}
					out := []string{
						inds[i],
						chrom,
						markers[pos],
						names[g],
						strconv.FormatFloat(v, 'f', 6, 64),
					}
					if err := tsv.Write(out); err != nil {
						return fmt.Errorf("on file %q: %v", output, err)
					}
				}
			}
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: %v", output, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: %v", output, err)
	}
	return nil
}

func trimExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
