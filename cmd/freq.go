// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package main

import (
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	polyld "github.com/facebookincubator/go-polyld"
	"github.com/facebookincubator/go-polyld/freq"
	"github.com/facebookincubator/go-polyld/vcf"
)

var errNoHeader = errors.New("data row before the #CHROM header line")

// runFreq writes population allele frequencies, or BayPass counts, of
// p.VCF to stdout, optionally LD pruning the sites first.  It returns the
// number of sites written.
func runFreq(p polyld.Params, stdout io.Writer, logger log.FieldLogger) (kept int, err error) {
	if p.VCF == "" || p.Pops == "" {
		return 0, fmt.Errorf("%w: --vcf and --pops are required", polyld.ErrInvalidConfig)
	}
	if p.Out != 0 && p.Out != 1 {
		return 0, fmt.Errorf("%w: --out %d, allowed are 0 (allele frequencies) and 1 (allele counts)",
			polyld.ErrInvalidConfig, p.Out)
	}
	cfg, filters := p.Config(), p.Filters()
	if p.Pruning() {
		if err := cfg.Validate(); err != nil {
			return 0, err
		}
		if p.MAF == 0 {
			logger.Warn("doing LD-pruning, setting -maf to 0.05")
			p.MAF = 0.05
			filters.MAF = p.MAF
		}
	}
	if err := filters.Validate(); err != nil {
		return 0, err
	}
	explain(logger, p)

	sites, err := loadSites(p, logger)
	if err != nil {
		return 0, err
	}
	pops, err := freq.LoadPopulations(p.Pops)
	if err != nil {
		return 0, err
	}
	rdr, err := vcf.Open(p.VCF)
	if err != nil {
		return 0, err
	}
	defer rdr.Close()

	var info io.Writer
	if p.Out == 1 {
		ew, cerr := vcf.CreateText(p.Info)
		if cerr != nil {
			return 0, cerr
		}
		defer func() {
			if cerr := ew.Close(); cerr != nil && err == nil {
				kept, err = 0, fmt.Errorf("closing %s: %w", p.Info, cerr)
			}
		}()
		info = ew
	}

	prog := newProgress(logger)
	var (
		layout *freq.Layout
		out    freq.Writer
		pruner *polyld.Pruner
		counts *freq.Counts
		tally  polyld.Tally
		order  polyld.Order
	)
	for {
		rec, err := rdr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%s: %w", p.VCF, err)
		}
		switch rec.Kind {
		case vcf.Meta:
			continue
		case vcf.Header:
			if layout, err = pops.Layout(rdr.Header()); err != nil {
				return 0, err
			}
			if layout.Individuals < len(pops.Individuals) {
				logger.WithFields(log.Fields{
					"listed": len(pops.Individuals),
					"found":  layout.Individuals,
				}).Warn("pops file contains individuals that are not in the VCF file")
			}
			if p.Out == 1 {
				out = freq.NewBaypassWriter(stdout, info, pops, layout)
			} else {
				out = freq.NewFrequencyWriter(stdout, pops, layout)
			}
			if err := out.WriteHeader(); err != nil {
				return 0, err
			}
			counts = freq.NewCounts(layout.Populations)
			if p.Pruning() {
				if pruner, err = polyld.NewPruner(cfg, layout.Individuals, out, polyld.WithLogger(logger)); err != nil {
					return 0, err
				}
				cfg.Explain(logger, layout.Individuals)
			}
			continue
		}
		if layout == nil {
			return 0, fmt.Errorf("%s line %d: %w", p.VCF, rdr.Line(), errNoHeader)
		}
		locus, err := rec.Locus()
		if err != nil {
			return 0, fmt.Errorf("%s line %d: %w", p.VCF, rdr.Line(), err)
		}
		prog.tick(locus)
		// rows the site list skips must still be sorted
		if err := order.Check(locus); err != nil {
			return 0, err
		}
		if sites != nil && !sites.Contains(locus) {
			continue
		}
		tally.Reset()
		counts.Reset()
		if pruner == nil {
			if err := layout.Tally(rec, &tally, counts, nil); err != nil {
				return 0, err
			}
			if filters.Pass(&tally) {
				if err := out.WriteCounts(locus, counts); err != nil {
					return 0, err
				}
				kept++
			}
			continue
		}
		site, err := pruner.Next(locus)
		if err != nil {
			return 0, err
		}
		if err := layout.Tally(rec, &tally, counts, site.Dosage); err != nil {
			return 0, err
		}
		site.Record = append(site.Record, rec.Line...)
		if filters.Pass(&tally) {
			if err := pruner.Place(); err != nil {
				return 0, err
			}
		} else {
			pruner.Drop()
		}
	}
	if pruner != nil {
		if err := pruner.Close(); err != nil {
			return 0, err
		}
		kept = pruner.Kept()
	}
	logger.WithField("kept", kept).Info("kept variants")
	return kept, nil
}
