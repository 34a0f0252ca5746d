// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// GenoRec is a tool to reconstruct the true genotypes
// of the individuals of an experimental genetic cross.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/genorec/cmd/genorec/check"
	"github.com/js-arias/genorec/cmd/genorec/estmap"
	"github.com/js-arias/genorec/cmd/genorec/pathcmd"
	"github.com/js-arias/genorec/cmd/genorec/prob"
	"github.com/js-arias/genorec/cmd/genorec/set"
	"github.com/js-arias/genorec/cmd/genorec/sim"
)

var app = &command.Command{
	Usage: "genorec <command> [<argument>...]",
	Short: "a tool for genotype reconstruction in experimental crosses",
}

func init() {
	app.Add(check.Command)
	app.Add(estmap.Command)
	app.Add(pathcmd.Command)
	app.Add(prob.Command)
	app.Add(set.Command)
	app.Add(sim.Command)
}

func main() {
	app.Main()
}
