// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package vcf

import (
	"fmt"
	"io"

	gvcf "github.com/vertgenlab/gonomics/vcf"

	polyld "github.com/facebookincubator/go-polyld"
)

// FilterStatus is appended to every genotype of an emitted row.
const FilterStatus = "PASS"

// PrunedWriter renders kept sites as VCF rows with the QUAL and INFO columns
// cleared, FILTER set to PASS and every genotype tagged with an FT sub-field.
// Each row is a single Write; buffering is up to w.
type PrunedWriter struct {
	w      io.Writer
	fields [][]byte
	buf    []byte
}

var _ polyld.Sink = (*PrunedWriter)(nil)

// NewPrunedWriter writes to w, typically a fileio.EasyWriter.
func NewPrunedWriter(w io.Writer) *PrunedWriter {
	return &PrunedWriter{w: w}
}

// WriteHeader copies the meta and #CHROM lines verbatim.
func (p *PrunedWriter) WriteHeader(h gvcf.Header) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("writing header: %v", r)
		}
	}()
	gvcf.NewWriteHeader(p.w, h)
	return nil
}

// Emit writes the row held in s.Record.
func (p *PrunedWriter) Emit(s *polyld.Site) error {
	p.fields = splitTabs(p.fields, s.Record)
	if len(p.fields) <= FixedColumns {
		return fmt.Errorf("%w: %s has no samples", ErrMalformed, s.Locus)
	}
	b := fmt.Appendf(p.buf[:0], "%s\t%d\t%s\t%s\t%s\t.\t%s\t.\tGT:FT", s.Locus.Chrom, s.Locus.Pos,
		p.fields[2], p.fields[3], p.fields[4], FilterStatus)
	for _, sample := range p.fields[FixedColumns:] {
		b = append(b, '\t')
		b = append(b, GT(sample)...)
		b = append(b, ':')
		b = append(b, FilterStatus...)
	}
	p.buf = append(b, '\n')
	_, err := p.w.Write(p.buf)
	return err
}
