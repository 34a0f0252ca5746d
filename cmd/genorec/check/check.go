// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package check implements a command to validate
// the data of a GenoRec project.
package check

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/genorec/project"
)

var Command = &command.Command{
	Usage: "check <project>",
	Short: "validate the data of a project",
	Long: `
Command check reads all the data files of a GenoRec project and validates the
data against the cross type defined in the project settings.

The argument of the command is the name of the project file.

The command prints a summary of the data into the standard output. Conditions
that do not prevent an analysis (such as founder genotypes for a cross type
that does not use them) are reported as warnings in the standard error; any
other problem is an error.
	`,
	Run: run,
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

	fmt.Fprintf(c.Stdout(), "cross type: %s\n", ct.Type())
	fmt.Fprintf(c.Stdout(), "individuals: %d\n", len(d.Inds()))
	if d.HasFounders() {
		fmt.Fprintf(c.Stdout(), "founders: %d\n", d.NumFounders())
	}
	for _, chrom := range m.Chroms() {
		fmt.Fprintf(c.Stdout(), "chromosome %s: %d markers\n", chrom, len(m.Markers(chrom)))
	}
	return nil
}
