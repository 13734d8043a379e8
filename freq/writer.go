// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package freq

import (
	"fmt"
	"io"
	"strings"

	polyld "github.com/facebookincubator/go-polyld"
	"github.com/facebookincubator/go-polyld/vcf"
)

// Writer renders per population counts.  As a polyld.Sink it recounts the
// row stored with a kept site.
type Writer interface {
	polyld.Sink
	WriteHeader() error
	WriteCounts(l polyld.Locus, c *Counts) error
}

var (
	_ Writer = (*FrequencyWriter)(nil)
	_ Writer = (*BaypassWriter)(nil)
)

// recounter re-derives counts from the raw row of an emitted site.
type recounter struct {
	layout *Layout
	rec    vcf.Record
	tally  polyld.Tally
	counts *Counts
}

func newRecounter(layout *Layout) recounter {
	return recounter{layout: layout, counts: NewCounts(layout.Populations)}
}

func (r *recounter) recount(s *polyld.Site) (*Counts, error) {
	r.rec.SetLine(s.Locus.Chrom, s.Record)
	r.tally.Reset()
	r.counts.Reset()
	if err := r.layout.Tally(&r.rec, &r.tally, r.counts, nil); err != nil {
		return nil, err
	}
	return r.counts, nil
}

// FrequencyWriter writes one row per site: "chr:pos" followed by the
// alternative allele frequency of each population.
// Each row is a single Write.
type FrequencyWriter struct {
	w    io.Writer
	pops *Populations
	buf  []byte
	recounter
}

// NewFrequencyWriter writes frequencies to w, typically a fileio.EasyWriter.
func NewFrequencyWriter(w io.Writer, pops *Populations, layout *Layout) *FrequencyWriter {
	return &FrequencyWriter{
		w:         w,
		pops:      pops,
		recounter: newRecounter(layout),
	}
}

// WriteHeader writes the tab separated population names.
func (f *FrequencyWriter) WriteHeader() error {
	_, err := fmt.Fprintf(f.w, "\t%s\n", strings.Join(f.pops.Names, "\t"))
	return err
}

// WriteCounts writes the frequencies of one site.
func (f *FrequencyWriter) WriteCounts(l polyld.Locus, c *Counts) error {
	b := fmt.Appendf(f.buf[:0], "%s:%d", l.Chrom, l.Pos)
	for i := range c.Alleles {
		b = fmt.Appendf(b, "\t%f", c.Frequency(i))
	}
	f.buf = append(b, '\n')
	_, err := f.w.Write(f.buf)
	return err
}

// Emit writes a kept site.
func (f *FrequencyWriter) Emit(s *polyld.Site) error {
	c, err := f.recount(s)
	if err != nil {
		return err
	}
	return f.WriteCounts(s.Locus, c)
}

// BaypassWriter writes reference and alternative allele counts per
// population, space separated, in the input format of BayPass.  The
// population names and site locations go to a separate info stream.
type BaypassWriter struct {
	w, info io.Writer
	pops    *Populations
	buf     []byte
	recounter
}

// NewBaypassWriter writes counts to w and locations to info.
func NewBaypassWriter(w, info io.Writer, pops *Populations, layout *Layout) *BaypassWriter {
	return &BaypassWriter{
		w:         w,
		info:      info,
		pops:      pops,
		recounter: newRecounter(layout),
	}
}

// WriteHeader writes the population names to the info stream.
func (b *BaypassWriter) WriteHeader() error {
	_, err := fmt.Fprintf(b.info, "#%s\n", strings.Join(b.pops.Names, "\t"))
	return err
}

// WriteCounts writes the counts of one site.
func (b *BaypassWriter) WriteCounts(l polyld.Locus, c *Counts) error {
	if _, err := fmt.Fprintf(b.info, "%s\t%d\n", l.Chrom, l.Pos); err != nil {
		return err
	}
	buf := b.buf[:0]
	for i := range c.Alleles {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = fmt.Appendf(buf, "%d %d", c.Alleles[i]-c.Alt[i], c.Alt[i])
	}
	b.buf = append(buf, '\n')
	_, err := b.w.Write(b.buf)
	return err
}

// Emit writes a kept site.
func (b *BaypassWriter) Emit(s *polyld.Site) error {
	c, err := b.recount(s)
	if err != nil {
		return err
	}
	return b.WriteCounts(s.Locus, c)
}
