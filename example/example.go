package main

import (
	"fmt"
	"os"

	polyld "github.com/facebookincubator/go-polyld"
)

func main() {
	// dosages of three individuals at five SNPs on two chromosomes
	data := []struct {
		locus  polyld.Locus
		dosage []int8
	}{
		{polyld.Locus{Chrom: "1", Pos: 10}, []int8{0, 1, 2}},
		{polyld.Locus{Chrom: "1", Pos: 20}, []int8{2, 1, 0}},
		{polyld.Locus{Chrom: "1", Pos: 30}, []int8{0, 0, 0}},
		{polyld.Locus{Chrom: "2", Pos: 5}, []int8{0, 2, polyld.Missing}},
		{polyld.Locus{Chrom: "2", Pos: 15}, []int8{1, 1, 2}},
	}

	sink := polyld.SinkFunc(func(s *polyld.Site) error {
		fmt.Printf("kept %s\n", s.Locus)
		return nil
	})
	pruner, err := polyld.NewPruner(polyld.Config{Window: 3, Step: 1, Threshold: 0.1}, 3, sink)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, d := range data {
		site, err := pruner.Next(d.locus)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		copy(site.Dosage, d.dosage)
		if err := pruner.Place(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if err := pruner.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Dump the window in textual form
	pruner.Window().DebugDump(os.Stdout)
	fmt.Printf("%d sites kept\n", pruner.Kept())
}
