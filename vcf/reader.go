// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

// Package vcf reads and writes the subset of the variant call format the
// polyld tools work with: tab separated rows whose sample columns start with
// a GT sub-field.
package vcf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/vertgenlab/gonomics/fileio"
	gvcf "github.com/vertgenlab/gonomics/vcf"

	polyld "github.com/facebookincubator/go-polyld"
)

// FixedColumns is the number of columns before the first sample.
const FixedColumns = 9

// ErrMalformed is returned for rows that lack the fixed VCF columns.
var ErrMalformed = errors.New("malformed VCF row")

// Kind classifies a line of a VCF file.
type Kind uint8

const (
	// Meta lines start with ##
	Meta Kind = iota
	// Header is the #CHROM line
	Header
	// Data rows hold one site each
	Data
)

// Record is one line of the input.  It is reused by the next call to
// Reader.Next.
type Record struct {
	Kind Kind
	// Line is the raw line without its line terminator
	Line   []byte
	Fields [][]byte
	chrom  string
}

// Chrom is the chromosome of a data row.
func (r *Record) Chrom() string {
	return r.chrom
}

// Pos parses the position column of a data row.
func (r *Record) Pos() (int, error) {
	pos, err := strconv.Atoi(string(r.Fields[1]))
	if err != nil {
		return 0, fmt.Errorf("%w: bad position %q", ErrMalformed, r.Fields[1])
	}
	return pos, nil
}

// Locus returns the chromosome and position of a data row.
func (r *Record) Locus() (polyld.Locus, error) {
	pos, err := r.Pos()
	if err != nil {
		return polyld.Locus{}, err
	}
	return polyld.Locus{Chrom: r.chrom, Pos: pos}, nil
}

// Samples returns the sample columns of a header or data row.
func (r *Record) Samples() [][]byte {
	if len(r.Fields) <= FixedColumns {
		return nil
	}
	return r.Fields[FixedColumns:]
}

// GT returns the genotype sub-field of a sample column.
func GT(sample []byte) []byte {
	if i := bytes.IndexByte(sample, ':'); i >= 0 {
		return sample[:i]
	}
	return sample
}

// Reader yields the lines of a plain or gzip compressed VCF file.  Meta and
// header lines are also kept so the header can be handed on as a whole.
type Reader struct {
	src    *fileio.EasyReader
	closer []io.Closer
	rec    Record
	line   int
	chrom  string
	header gvcf.Header
}

// Open opens path for reading.  "-" reads standard input.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin)
	}
	er, err := OpenText(path)
	if err != nil {
		return nil, err
	}
	r, err := newReader(er.BuffReader)
	if err != nil {
		er.Close()
		return nil, fmt.Errorf("cannot read file %s: %w", path, err)
	}
	r.closer = append(r.closer, er)
	return r, nil
}

// NewReader wraps r, decompressing it if it starts with the gzip magic
// number.  Block gzip (bgzip) files are read as concatenated members.
func NewReader(r io.Reader) (*Reader, error) {
	return newReader(bufio.NewReaderSize(r, readBufferSize))
}

func newReader(br *bufio.Reader) (*Reader, error) {
	rdr := &Reader{src: &fileio.EasyReader{BuffReader: br}}
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		rdr.src = TextReader(zr)
		rdr.closer = append(rdr.closer, zr)
	}
	return rdr, nil
}

// Line is the 1-based number of the last line returned.
func (r *Reader) Line() int {
	return r.line
}

// Header holds the meta and #CHROM lines read so far.
func (r *Reader) Header() gvcf.Header {
	return r.header
}

// Next returns the next non-empty line, or io.EOF.
func (r *Reader) Next() (*Record, error) {
	for {
		line, done, err := NextLine(r.src)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line+1, err)
		}
		if done {
			return nil, io.EOF
		}
		r.line++
		if line == "" {
			continue
		}
		if err := r.parse(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		return &r.rec, nil
	}
}

func (r *Reader) parse(line string) error {
	rec := &r.rec
	rec.Line = append(rec.Line[:0], line...)
	switch {
	case strings.HasPrefix(line, "##"):
		rec.Kind = Meta
		rec.Fields = rec.Fields[:0]
		r.header.Text = append(r.header.Text, line)
		return nil
	case line[0] == '#':
		rec.Kind = Header
		r.header.Text = append(r.header.Text, line)
	default:
		rec.Kind = Data
	}
	rec.Fields = splitTabs(rec.Fields, rec.Line)
	if rec.Kind != Data {
		return nil
	}
	if len(rec.Fields) < 2 {
		return fmt.Errorf("%w: %d columns", ErrMalformed, len(rec.Fields))
	}
	// comparing without converting keeps a chromosome run allocation free
	if string(rec.Fields[0]) != r.chrom {
		r.chrom = string(rec.Fields[0])
	}
	rec.chrom = r.chrom
	return nil
}

// splitTabs appends the tab separated columns of line to dst[:0].
func splitTabs(dst [][]byte, line []byte) [][]byte {
	dst = dst[:0]
	for {
		i := bytes.IndexByte(line, '\t')
		if i < 0 {
			return append(dst, line)
		}
		dst = append(dst, line[:i])
		line = line[i+1:]
	}
}

// Close releases the underlying file and decompressor.
func (r *Reader) Close() error {
	var first error
	for i := len(r.closer) - 1; i >= 0; i-- {
		if err := r.closer[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closer = nil
	return first
}

// SetLine points r at a data row held elsewhere, such as the record buffer
// of a window slot.  line is not copied.
func (r *Record) SetLine(chrom string, line []byte) {
	r.Kind = Data
	r.Line = line
	r.Fields = splitTabs(r.Fields, line)
	r.chrom = chrom
}
