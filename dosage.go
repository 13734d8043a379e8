// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import "errors"

// Missing marks an individual without a called genotype in a dosage vector.
const Missing int8 = -1

// MissingAllele is the leading character of an uncalled genotype.
const MissingAllele = '.'

var (
	// ErrUnsupportedPloidy is returned for genotypes that are not diploid,
	// tetraploid, hexaploid or octoploid.
	ErrUnsupportedPloidy = errors.New("allowed ploidy-levels are 2, 4, 6, and 8")
	// ErrUnknownAllele is returned for allele symbols other than 0 and 1.
	ErrUnknownAllele = errors.New("unknown alleles found, only 0 and 1 are allowed")
	// ErrSampleCount is returned when a site does not carry one genotype
	// per individual of the run.
	ErrSampleCount = errors.New("number of genotypes differs from the number of individuals")
)

// Ploidy infers the number of allele copies from the length of a genotype
// token such as "0/1" or "0/0/1/1".  It returns 0 for unsupported lengths.
func Ploidy(token []byte) int {
	switch len(token) {
	case 3:
		return 2
	case 7:
		return 4
	case 11:
		return 6
	case 15:
		return 8
	}
	return 0
}

// Tally extracts dosages for the individuals of one site and keeps the
// running sums the missing-data and allele frequency filters need.
type Tally struct {
	// Alt is the number of alternative alleles over called individuals
	Alt int
	// Alleles is the summed ploidy of called individuals
	Alleles int
	// Missing is the number of uncalled individuals
	Missing int
	// Individuals is the number of genotypes seen
	Individuals int
}

// Reset prepares the tally for a new site.
func (t *Tally) Reset() {
	*t = Tally{}
}

// Add extracts the alternative allele dosage of a single genotype token and
// accumulates it.  The ploidy returned is 0 for missing genotypes.
func (t *Tally) Add(token []byte) (dosage int8, ploidy int, err error) {
	t.Individuals++
	if len(token) > 0 && token[0] == MissingAllele {
		t.Missing++
		return Missing, 0, nil
	}
	ploidy = Ploidy(token)
	if ploidy == 0 {
		return 0, 0, ErrUnsupportedPloidy
	}
	for i := 0; i < len(token); i += 2 {
		switch token[i] {
		case '0':
		case '1':
			dosage++
		default:
			return 0, 0, ErrUnknownAllele
		}
	}
	t.Alt += int(dosage)
	t.Alleles += ploidy
	return dosage, ploidy, nil
}

// AltFrequency is the frequency of the alternative allele over called
// individuals.
func (t *Tally) AltFrequency() float64 {
	return float64(t.Alt) / float64(t.Alleles)
}

// MissingFraction is the proportion of uncalled individuals.
func (t *Tally) MissingFraction() float64 {
	return float64(t.Missing) / float64(t.Individuals)
}
