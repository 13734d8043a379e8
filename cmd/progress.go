// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package main

import (
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	polyld "github.com/facebookincubator/go-polyld"
)

const progressInterval = 10 * time.Second

// progress logs how far into the input a run is, at most once per interval.
type progress struct {
	logger  log.FieldLogger
	every   rate.Sometimes
	records int64
}

func newProgress(logger log.FieldLogger) *progress {
	return &progress{
		logger: logger,
		every:  rate.Sometimes{Interval: progressInterval},
	}
}

func (p *progress) tick(l polyld.Locus) {
	p.records++
	p.every.Do(func() {
		p.logger.WithFields(log.Fields{
			"records": humanize.Comma(p.records),
			"at":      l.String(),
		}).Info("reading")
	})
}
