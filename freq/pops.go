// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

// Package freq computes population specific allele counts and frequencies
// from mixed ploidy VCF rows.
package freq

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vertgenlab/gonomics/fileio"
	gvcf "github.com/vertgenlab/gonomics/vcf"

	polyld "github.com/facebookincubator/go-polyld"
	"github.com/facebookincubator/go-polyld/vcf"
)

// ErrNoIndividuals is returned when none of the listed individuals appear in
// the VCF header.
var ErrNoIndividuals = errors.New("individuals in pops file were not found in the VCF file")

// Populations maps individuals to populations.  Populations are numbered in
// the order they first appear in the file.
type Populations struct {
	Names []string
	// Individuals lists individual ids in file order
	Individuals []string
	index       map[string]int
	member      map[string]int
}

// LoadPopulations reads a tab separated individual/population file.
func LoadPopulations(path string) (*Populations, error) {
	er, err := vcf.OpenText(path)
	if err != nil {
		return nil, err
	}
	defer er.Close()
	p, err := readPopulations(er)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ReadPopulations parses a population file.  Blank lines and lines starting
// with # are skipped.
func ReadPopulations(r io.Reader) (*Populations, error) {
	return readPopulations(vcf.TextReader(r))
}

func readPopulations(er *fileio.EasyReader) (*Populations, error) {
	p := &Populations{
		index:  map[string]int{},
		member: map[string]int{},
	}
	err := vcf.EachLine(er, func(n int, line string) error {
		cols := strings.Split(line, "\t")
		if len(cols) < 2 || cols[1] == "" {
			return fmt.Errorf("line %d: expected individual and population", n)
		}
		ind, pop := cols[0], cols[1]
		idx, ok := p.index[pop]
		if !ok {
			idx = len(p.Names)
			p.index[pop] = idx
			p.Names = append(p.Names, pop)
		}
		p.member[ind] = idx
		p.Individuals = append(p.Individuals, ind)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(p.Names) == 0 {
		return nil, errors.New("no individuals listed")
	}
	return p, nil
}

// Of returns the population index of an individual.
func (p *Populations) Of(ind string) (int, bool) {
	idx, ok := p.member[ind]
	return idx, ok
}

// Layout assigns the sample columns of one VCF file to populations.
type Layout struct {
	// Column holds the population index of each sample column, or -1 for
	// samples that are not used
	Column []int
	// Individuals is the number of used samples
	Individuals int
	// Populations is the number of populations
	Populations int
}

// Layout matches the samples named by the #CHROM line of a VCF header.  It
// fails if no sample is listed; Individuals tells how many were found.
func (p *Populations) Layout(header gvcf.Header) (*Layout, error) {
	n := sampleColumns(header)
	if n < 0 {
		return nil, fmt.Errorf("%w: header has no #CHROM line", vcf.ErrMalformed)
	}
	samples, err := sampleIndex(header)
	if err != nil {
		return nil, err
	}
	l := &Layout{Column: make([]int, n), Populations: len(p.Names)}
	for i := range l.Column {
		l.Column[i] = -1
	}
	for name, col := range samples {
		if col < 0 || col >= n {
			continue
		}
		if idx, ok := p.member[name]; ok {
			l.Column[col] = idx
			l.Individuals++
		}
	}
	if l.Individuals == 0 {
		return nil, ErrNoIndividuals
	}
	return l, nil
}

// sampleColumns counts the sample columns of the last #CHROM line, or -1.
func sampleColumns(header gvcf.Header) int {
	for i := len(header.Text) - 1; i >= 0; i-- {
		line := header.Text[i]
		if strings.HasPrefix(line, "#CHROM") {
			return max(strings.Count(line, "\t")+1-vcf.FixedColumns, 0)
		}
	}
	return -1
}

func sampleIndex(header gvcf.Header) (samples map[string]int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", vcf.ErrMalformed, r)
		}
	}()
	index := gvcf.HeaderToMaps(header).GIndex
	samples = make(map[string]int, len(index))
	for name, i := range index {
		samples[name] = int(i)
	}
	return samples, nil
}

// Counts holds, per population, the number of called alleles and how many
// of them are alternative.
type Counts struct {
	Alleles []int
	Alt     []int
}

// NewCounts allocates counts for n populations.
func NewCounts(n int) *Counts {
	return &Counts{Alleles: make([]int, n), Alt: make([]int, n)}
}

// Reset zeroes all counts.
func (c *Counts) Reset() {
	for i := range c.Alleles {
		c.Alleles[i] = 0
		c.Alt[i] = 0
	}
}

// Frequency is the alternative allele frequency of population i.  It is NaN
// when every individual of the population is missing.
func (c *Counts) Frequency(i int) float64 {
	return float64(c.Alt[i]) / float64(c.Alleles[i])
}

// Tally extracts the used samples of a data row.  Dosages go to dst (nil
// skips them, otherwise one slot per used sample), per population counts to
// c and site sums to t.
func (l *Layout) Tally(rec *vcf.Record, t *polyld.Tally, c *Counts, dst []int8) error {
	samples := rec.Samples()
	if len(samples) != len(l.Column) {
		return fmt.Errorf("site %s:%s: %w (%d, expected %d)",
			rec.Chrom(), rec.Fields[1], polyld.ErrSampleCount, len(samples), len(l.Column))
	}
	k := 0
	for i, sample := range samples {
		pop := l.Column[i]
		if pop < 0 {
			continue
		}
		d, ploidy, err := t.Add(vcf.GT(sample))
		if err != nil {
			return fmt.Errorf("site %s:%s: %w", rec.Chrom(), rec.Fields[1], err)
		}
		if dst != nil {
			dst[k] = d
		}
		k++
		if d == polyld.Missing {
			continue
		}
		c.Alleles[pop] += ploidy
		c.Alt[pop] += int(d)
	}
	return nil
}
