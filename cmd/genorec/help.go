// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(crossTypesGuide)
	app.Add(genotypeFilesGuide)
	app.Add(projectsGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
GenoRec requires several files to read and process the data of an experimental
cross. To reduce the burden of keeping track of many files, a single project
file is used to hold the reference of all files required in the analysis.
This guide explains the structure of the file, but most of the time, the best
way to edit this file is by using the command "genorec set".

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# genorec project files
	dataset	path
	genmap	genetic-map.tab
	geno	genotypes.tab
	founders	founder-genotypes.tab
	individuals	individuals.tab
	settings	settings.toml

The valid file types are:

- Genetic maps. Defined by the dataset keyword "genmap". This file contains
  the chromosome, name, and position (in centimorgans) of each marker, in the
  form of a tab-delimited file. A chromosome named "x" (of any case) is
  treated as the X chromosome.
- Observed genotypes. Defined by the dataset keyword "geno". This file
  contains the genotypes scored for each individual at each marker, in the
  form of a tab-delimited file.
- Founder genotypes. Defined by the dataset keyword "founders". This file
  contains the genotypes of the founder lines of the cross, and is required
  by multi-way cross types such as "riself8" or "do".
- Individuals. Defined by the dataset keyword "individuals". This file
  contains the sex and the cross information of each individual. It is
  required when the data contains an X chromosome, or when the cross type
  requires cross information (such as the cross direction, or the order of
  the founders).
- Analysis settings. Defined by the dataset keyword "settings". This file
  contains the cross type and the parameters of the analysis, in the form of
  a TOML file.
	`,
}

var genotypeFilesGuide = &command.Command{
	Usage: "geno-files",
	Short: "about genotype files",
	Long: `
Genotype files store the genotypes scored at the markers of a genetic map, as
tab-delimited files.

An observed genotype file (dataset keyword "geno") contains the following
fields:

	- individual  the name of the individual
	- chromosome  the name of the chromosome
	- marker      the name of the marker
	- genotype    the observed genotype code

The valid observed genotype codes are:

	0  missing
	1  homozygous for the first allele (A)
	2  heterozygous (H)
	3  homozygous for the second allele (B)
	4  not homozygous for the second allele (not B)
	5  not homozygous for the first allele (not A)

Rows with a missing genotype can be omitted. Here is an example file:

	# observed genotypes
	individual	chromosome	marker	genotype
	ind001	1	D1M1	1
	ind001	1	D1M2	2
	ind002	1	D1M1	3

A founder genotype file (dataset keyword "founders") contains the fields
founder (the number of the founder line, from 1), chromosome, marker, and
genotype. As the founder lines are inbred, only the codes 0, 1, and 3 are
valid for a founder.

An individual file (dataset keyword "individuals") contains the fields
individual, sex ("f" or "female", "m" or "male", or "-" if unknown), and
cross_info, with the cross information as a comma separated list of numbers
(or "-" if empty). The meaning of the cross information depends on the cross
type; use "genorec help cross-types" for a description.
	`,
}

var crossTypesGuide = &command.Command{
	Usage: "cross-types",
	Short: "about cross types",
	Long: `
The cross type defines the expected genotypes of the individuals of an
experimental cross, the frequency of each genotype, and the probability of a
recombination between linked positions. The cross type of a project is set in
the settings file with the key "cross_type".

The valid cross types are:

- bc, a backcross between an F1 individual and one of its parental lines. The
  genotypes are AA and AB (and AY and BY for males on the X chromosome).
- f2, an intercross between two F1 individuals. The genotypes are AA, AB, and
  BB. With an X chromosome, the cross information of each individual is a
  single value with the direction of the cross (0 or 1).
- riself, a two-way recombinant inbred line by selfing. The genotypes are the
  two homozygous lines AA and BB.
- risib, a two-way recombinant inbred line by sibling mating. With an X
  chromosome, the cross information of each individual is a single value with
  the direction of the cross (0 or 1).
- riself4, riself8, riself16, multi-way recombinant inbred lines by selfing.
  The genotypes are the homozygous genotypes of the founder lines. The cross
  information of each individual is the order of the founders in the breeding
  funnel, and founder genotypes are required.
- risib8, an eight-way recombinant inbred line by sibling mating (as in the
  Collaborative Cross). The cross information and founder requirements are as
  in riself8.
- ail, an advanced intercross line, produced by repeated random mating after
  an F2. The genotypes are as in f2. The cross information of each individual
  is the number of generations of the line.
- genail<n>, a general advanced intercross with n founders (for example,
  "genail4"). The genotypes are all the unordered pairs of founder
  haplotypes. The cross information of each individual is the number of
  generations; founder genotypes are required.
- do, a diversity outbred population derived from eight founder lines,
  treated as a general advanced intercross with eight founders.

Cross types that do not model an X chromosome (riself, riself4, riself8,
riself16, risib8, ail, genail<n>, and do) treat any X chromosome in the map
as an autosome and report a warning.
	`,
}
