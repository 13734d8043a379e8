// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	polyld "github.com/facebookincubator/go-polyld"
	"github.com/facebookincubator/go-polyld/vcf"
)

// defaults of the pruning tool: pruning is mandatory and requires some
// filtering, so MAF and missingness have non-zero defaults
var pruneDefaults = polyld.Params{
	Mis:       0.6,
	MAF:       0.05,
	Threshold: -1,
}

// defaults of the frequency tool: no filtering and no pruning
var freqDefaults = polyld.Params{
	Threshold: 1,
	Info:      "info.txt",
}

func commonFlags(d polyld.Params) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "TOML file with run parameters; flags override it",
		},
		&cli.StringFlag{
			Name:  "vcf",
			Usage: "VCF file containing biallelic sites, optionally gzip compressed. Allowed ploidies are 2, 4, 6, and 8",
		},
		&cli.StringFlag{
			Name:  "sites",
			Usage: "tab delimited file listing sites to use (format: chr, pos)",
		},
		&cli.Float64Flag{
			Name:  "mis",
			Value: d.Mis,
			Usage: "required proportion of called individuals (0 = all missing allowed, 1 = no missing data allowed)",
		},
		&cli.Float64Flag{
			Name:  "maf",
			Value: d.MAF,
			Usage: "minimum minor allele frequency allowed",
		},
		&cli.IntFlag{
			Name:  "window",
			Usage: "LD pruning window size in number of SNPs",
		},
		&cli.IntFlag{
			Name:  "step",
			Usage: "LD pruning step size in number of SNPs",
		},
		&cli.Float64Flag{
			Name:  "r2",
			Value: d.Threshold,
			Usage: "maximum squared genotypic correlation between kept SNPs",
		},
	}
}

// params merges the defaults, the optional parameter file and explicitly
// set flags, in that order.
func params(c *cli.Context, defaults polyld.Params) (polyld.Params, error) {
	p := defaults
	if c.IsSet("config") {
		var err error
		if p, err = polyld.LoadParams(c.String("config"), defaults); err != nil {
			return p, err
		}
	}
	for name, set := range map[string]func(){
		"vcf":    func() { p.VCF = c.String("vcf") },
		"sites":  func() { p.Sites = c.String("sites") },
		"pops":   func() { p.Pops = c.String("pops") },
		"mis":    func() { p.Mis = c.Float64("mis") },
		"maf":    func() { p.MAF = c.Float64("maf") },
		"window": func() { p.Window = c.Int("window") },
		"step":   func() { p.Step = c.Int("step") },
		"r2":     func() { p.Threshold = c.Float64("r2") },
		"out":    func() { p.Out = c.Int("out") },
		"info":   func() { p.Info = c.String("info") },
	} {
		if c.IsSet(name) {
			set()
		}
	}
	return p, nil
}

func explain(logger log.FieldLogger, p polyld.Params) {
	fields := log.Fields{"vcf": p.VCF, "mis": p.Mis, "maf": p.MAF}
	if p.Sites != "" {
		fields["sites"] = p.Sites
	}
	if p.Pops != "" {
		fields["pops"] = p.Pops
		fields["out"] = p.Out
	}
	if p.Pruning() {
		fields["r2"] = fmt.Sprintf("%d %d %g", p.Window, p.Step, p.Threshold)
	}
	logger.WithFields(fields).Info("parameters")
}

// toStdout runs fn against a buffered standard output, flushed on return.
func toStdout(fn func(io.Writer) (int, error)) (kept int, err error) {
	stdout, err := vcf.CreateText("stdout")
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stdout.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("writing output: %w", cerr)
		}
	}()
	return fn(stdout)
}

func main() {
	app := &cli.App{
		Name:  "polyld",
		Usage: "LD pruning and allele frequencies for mixed ploidy VCF files",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every pruning pass",
			},
		},
		Before: func(c *cli.Context) error {
			log.SetOutput(os.Stderr)
			log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
			if c.Bool("verbose") {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "prune",
				Usage:     "LD prune a mixed ploidy VCF file, writing the kept sites as VCF",
				UsageText: "polyld prune --vcf in.vcf --sites 4fold.sites --mis 0.8 --maf 0.05 --window 100 --step 50 --r2 0.1 > 4fold_ld_pruned.vcf",
				Flags:     commonFlags(pruneDefaults),
				Action: func(c *cli.Context) error {
					if c.NArg() > 0 {
						return fmt.Errorf("unexpected command line arguments: %q", c.Args().Slice())
					}
					p, err := params(c, pruneDefaults)
					if err != nil {
						return err
					}
					start := time.Now()
					kept, err := toStdout(func(w io.Writer) (int, error) {
						return runPrune(p, w, log.StandardLogger())
					})
					if err != nil {
						return err
					}
					log.WithFields(log.Fields{
						"kept":    kept,
						"elapsed": time.Since(start).Round(time.Second),
					}).Info("done")
					return nil
				},
			},
			{
				Name:      "freq",
				Usage:     "estimate population allele frequencies, or BayPass allele counts, from a mixed ploidy VCF file",
				UsageText: "polyld freq --vcf in.vcf --pops pops.txt --sites 4fold.sites --mis 0.8 --maf 0.05 --window 100 --step 50 --r2 0.1 --out 1 --info 4fold_ld_pruned.info > 4fold_ld_pruned.baypass",
				Flags: append(commonFlags(freqDefaults),
					&cli.StringFlag{
						Name:  "pops",
						Usage: "tab delimited file listing individuals to use and their populations (format: individual id, population id)",
					},
					&cli.IntFlag{
						Name:  "out",
						Usage: "write allele frequencies (0) or allele counts in the BayPass format (1)",
					},
					&cli.StringFlag{
						Name:  "info",
						Value: freqDefaults.Info,
						Usage: "with --out 1, file recording the populations and locations of used SNPs",
					},
				),
				Action: func(c *cli.Context) error {
					if c.NArg() > 0 {
						return fmt.Errorf("unexpected command line arguments: %q", c.Args().Slice())
					}
					p, err := params(c, freqDefaults)
					if err != nil {
						return err
					}
					start := time.Now()
					kept, err := toStdout(func(w io.Writer) (int, error) {
						return runFreq(p, w, log.StandardLogger())
					})
					if err != nil {
						return err
					}
					log.WithFields(log.Fields{
						"kept":    kept,
						"elapsed": time.Since(start).Round(time.Second),
					}).Info("done")
					return nil
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
