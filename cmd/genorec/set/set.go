// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package set implements a command to set the data files
// of a GenoRec project.
package set

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/genorec/genmap"
	"github.com/js-arias/genorec/project"
	"github.com/js-arias/genorec/settings"
)

var Command = &command.Command{
	Usage: "set <project> <dataset> [<file>]",
	Short: "set the data files of a project",
	Long: `
Command set adds a data file to a GenoRec project, creating the project file
if it does not exist.

The first argument of the command is the name of the project file. The second
argument is the dataset keyword, one of:

	genmap       the genetic map
	geno         the observed genotypes
	founders     the founder genotypes
	individuals  the sex and cross information of the individuals
	settings     the analysis settings

The third argument is the path of the data file. If the dataset is "settings"
and the file does not exist, a settings file with default values will be
created. If no file is given, the dataset will be removed from the project.

Use "genorec help projects" for a description of the file formats.
	`,
	Run: run,
}

var datasets = []project.Dataset{
	project.Founders,
	project.Geno,
	project.GenMap,
	project.Individuals,
	project.Settings,
}

func run(c *command.Command, args []string) error {
	if len(args) < 2 {
		return c.UsageError("expecting project file and dataset")
	}

	set := project.Dataset(args[1])
	ok := false
	for _, s := range datasets {
		if s == set {
			ok = true
			break
		}
	}
	if !ok {
		return c.UsageError(fmt.Sprintf("invalid dataset %q", args[1]))
	}

	p, err := project.Read(args[0])
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		p = project.New()
		p.SetName(args[0])
	}

	if len(args) < 3 {
		p.Add(set, "")
		return p.Write()
	}
	path := args[2]

	switch set {
	case project.GenMap:
		if _, err := genmap.Read(path); err != nil {
			return err
		}
	case project.Settings:
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			s := settings.Default()
			if err := s.Write(path); err != nil {
				return err
			}
			fmt.Fprintf(c.Stdout(), "default settings written to %q: set the cross type before any analysis\n", path)
		} else if _, err := settings.Read(path); err != nil {
			return err
		}
	default:
		if _, err := os.Stat(path); err != nil {
			return err
		}
	}

	p.Add(set, path)
	return p.Write()
}
