// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package vcf

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	murmur "github.com/aviddiviner/go-murmur"
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/vertgenlab/gonomics/fileio"

	polyld "github.com/facebookincubator/go-polyld"
)

// falsePositiveRate of the bloom pre-check; false positives only cost a
// cursor scan.
const falsePositiveRate = 0.01

// SiteList restricts a run to listed sites.  Both the list and the VCF must
// be sorted, so membership is answered by a cursor that only moves forward.
// A bloom filter answers most misses without touching the cursor.
type SiteList struct {
	sites  []polyld.Locus
	filter *bloom.BloomFilter
	cursor int

	key       [16]byte
	lastChrom string
	lastHash  uint64
}

// LoadSiteList reads a tab separated chromosome/position file, plain or
// gzip compressed.
func LoadSiteList(path string) (*SiteList, error) {
	er, err := OpenText(path)
	if err != nil {
		return nil, err
	}
	defer er.Close()
	s, err := readSiteList(er)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReadSiteList parses a site list.  Blank lines and lines starting with #
// are skipped.
func ReadSiteList(r io.Reader) (*SiteList, error) {
	return readSiteList(TextReader(r))
}

func readSiteList(er *fileio.EasyReader) (*SiteList, error) {
	var sites []polyld.Locus
	err := EachLine(er, func(n int, line string) error {
		cols := strings.SplitN(line, "\t", 3)
		if len(cols) < 2 {
			return fmt.Errorf("line %d: expected chromosome and position", n)
		}
		pos, err := strconv.Atoi(strings.TrimSpace(cols[1]))
		if err != nil {
			return fmt.Errorf("line %d: bad position %q", n, cols[1])
		}
		l := polyld.Locus{Chrom: cols[0], Pos: pos}
		if len(sites) > 0 {
			prev := sites[len(sites)-1]
			if l.Compare(prev) < 0 {
				return fmt.Errorf("line %d: %w: %s follows %s (use: sort -k1,1 -k2,2n list.sites > sorted.sites)",
					n, polyld.ErrUnsorted, l, prev)
			}
			if prev.Chrom == l.Chrom {
				l.Chrom = prev.Chrom
			}
		}
		sites = append(sites, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s := &SiteList{
		sites:  sites,
		filter: bloom.NewWithEstimates(uint(len(sites)+1), falsePositiveRate),
	}
	for _, l := range sites {
		s.filter.Add(s.keyOf(l))
	}
	return s, nil
}

// Len is the number of listed sites.
func (s *SiteList) Len() int {
	return len(s.sites)
}

// keyOf packs the chromosome hash and position into the reused key buffer.
func (s *SiteList) keyOf(l polyld.Locus) []byte {
	if l.Chrom != s.lastChrom || s.lastChrom == "" {
		s.lastChrom = l.Chrom
		s.lastHash = murmur.MurmurHash64A([]byte(l.Chrom), 0)
	}
	binary.LittleEndian.PutUint64(s.key[:8], s.lastHash)
	binary.LittleEndian.PutUint64(s.key[8:], uint64(l.Pos))
	return s.key[:]
}

// Contains reports whether l is listed.  Calls must come in sorted order.
func (s *SiteList) Contains(l polyld.Locus) bool {
	if !s.filter.Test(s.keyOf(l)) {
		return false
	}
	for s.cursor < len(s.sites) {
		switch l.Compare(s.sites[s.cursor]) {
		case 0:
			return true
		case -1:
			return false
		}
		s.cursor++
	}
	return false
}
