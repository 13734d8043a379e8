// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package main

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	polyld "github.com/facebookincubator/go-polyld"
	"github.com/facebookincubator/go-polyld/vcf"
)

// loadSites reads the optional site list.
func loadSites(p polyld.Params, logger log.FieldLogger) (*vcf.SiteList, error) {
	if p.Sites == "" {
		return nil, nil
	}
	sites, err := vcf.LoadSiteList(p.Sites)
	if err != nil {
		return nil, err
	}
	logger.WithField("sites", sites.Len()).Info("read site list")
	return sites, nil
}

// runPrune LD prunes p.VCF and writes the header and kept rows to stdout.
// It returns the number of kept sites.
func runPrune(p polyld.Params, stdout io.Writer, logger log.FieldLogger) (int, error) {
	if p.VCF == "" || p.Window == 0 || p.Step == 0 || p.Threshold < 0 {
		return 0, fmt.Errorf("%w: --vcf and --window, --step, --r2 are required", polyld.ErrInvalidConfig)
	}
	if p.MAF == 0 {
		logger.Warn("doing LD-pruning, setting -maf to 0.05")
		p.MAF = 0.05
	}
	if p.Mis == 0 {
		logger.Warn("doing LD-pruning, setting -mis to 0.6")
		p.Mis = 0.6
	}
	cfg, filters := p.Config(), p.Filters()
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := filters.Validate(); err != nil {
		return 0, err
	}
	explain(logger, p)

	sites, err := loadSites(p, logger)
	if err != nil {
		return 0, err
	}
	rdr, err := vcf.Open(p.VCF)
	if err != nil {
		return 0, err
	}
	defer rdr.Close()

	out := vcf.NewPrunedWriter(stdout)
	prog := newProgress(logger)
	var (
		pruner *polyld.Pruner
		tally  polyld.Tally
		order  polyld.Order
		header bool
	)
	for {
		rec, err := rdr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%s: %w", p.VCF, err)
		}
		if rec.Kind != vcf.Data {
			continue
		}
		if !header {
			if err := out.WriteHeader(rdr.Header()); err != nil {
				return 0, err
			}
			header = true
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
		if pruner == nil {
			// the window is sized by the first row
			n := len(rec.Samples())
			if pruner, err = polyld.NewPruner(cfg, n, out, polyld.WithLogger(logger)); err != nil {
				return 0, err
			}
			cfg.Explain(logger, n)
		}
		site, err := pruner.Next(locus)
		if err != nil {
			return 0, err
		}
		tally.Reset()
		if err := rec.Dosages(&tally, site.Dosage); err != nil {
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
	if !header {
		if err := out.WriteHeader(rdr.Header()); err != nil {
			return 0, err
		}
	}
	kept := 0
	if pruner != nil {
		if err := pruner.Close(); err != nil {
			return 0, err
		}
		kept = pruner.Kept()
	}
	logger.WithField("kept", kept).Info("after pruning")
	return kept, nil
}
