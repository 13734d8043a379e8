// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ErrClosed is returned when sites are fed to a pruner after Close.
var ErrClosed = errors.New("pruner is closed")

// Phase is the state of the stream driver.
type Phase uint8

const (
	// Filling until the window holds Window-1 sites
	Filling Phase = iota
	// SteadyState evaluates every Step placements
	SteadyState
	// Draining evaluates and flushes at a chromosome change or end of input
	Draining
	// Done after the final drain
	Done
)

func (p Phase) String() string {
	switch p {
	case Filling:
		return "filling"
	case SteadyState:
		return "steady"
	case Draining:
		return "draining"
	case Done:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

type event uint8

const (
	placed event = iota
	boundary
	eof
)

// Pruner drives the LD pruning window over one sorted stream of sites.
//
// For each input record call Next with its locus, fill the returned site's
// dosages and record, then call Place if the site passed the filters or
// Drop if it did not.  Close flushes what is left.
type Pruner struct {
	cfg    Config
	win    *Window
	sink   Sink
	logger log.FieldLogger

	phase Phase
	// population counts placed sites since the last reset, capped at
	// Window-1 once the window is full
	population int
	// steps counts placements since the last evaluation
	steps int
	chrom string
	order Order
	kept  int
	evals int
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithLogger sets the logger used for debug output.
func WithLogger(l log.FieldLogger) Option {
	return func(p *Pruner) {
		p.logger = l
	}
}

// NewPruner allocates a pruner whose window holds cfg.Window sites of the
// given number of individuals.  Kept sites are handed to sink.
func NewPruner(cfg Config, individuals int, sink Sink, opts ...Option) (*Pruner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if individuals < 1 {
		return nil, fmt.Errorf("%w: no individuals", ErrInvalidConfig)
	}
	p := &Pruner{
		cfg:    cfg,
		win:    NewWindow(cfg.Window, individuals),
		sink:   sink,
		logger: log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Window exposes the underlying buffer.
func (p *Pruner) Window() *Window {
	return p.win
}

// Phase reports the current driver state.
func (p *Pruner) Phase() Phase {
	return p.phase
}

// Kept is the number of sites emitted so far.
func (p *Pruner) Kept() int {
	return p.kept
}

// Next starts a new site at locus and returns the slot to fill.  A change of
// chromosome first drains the window.
func (p *Pruner) Next(l Locus) (*Site, error) {
	if p.phase == Done {
		return nil, ErrClosed
	}
	if err := p.order.Check(l); err != nil {
		return nil, err
	}
	if p.chrom != "" && l.Chrom != p.chrom {
		if err := p.transition(boundary); err != nil {
			return nil, err
		}
	}
	p.chrom = l.Chrom
	return p.win.Begin(l), nil
}

// Place commits the site returned by the last call to Next.
func (p *Pruner) Place() error {
	p.win.Place()
	return p.transition(placed)
}

// Drop discards the site returned by the last call to Next.  Its slot is
// reused by the next site.
func (p *Pruner) Drop() {
	p.win.Tombstone()
}

// Close evaluates and flushes the remaining window.
func (p *Pruner) Close() error {
	if p.phase == Done {
		return nil
	}
	return p.transition(eof)
}

func (p *Pruner) transition(ev event) error {
	w := p.cfg.Window
	switch ev {
	case placed:
		if (p.population == w-1 && p.steps >= p.cfg.Step) ||
			(w == p.cfg.Step && p.win.Cursor() == w-1) {
			p.evaluate()
			p.steps = 0
		}
		if p.population < w-1 {
			p.population++
		}
		p.steps++
		p.win.Advance()
		if p.population == w-1 {
			p.phase = SteadyState
			return p.emit(p.win.Cursor())
		}
		return nil
	case boundary, eof:
		p.phase = Draining
		if ev == boundary {
			// the incoming site already claims the cursor slot
			p.win.Vacate()
		}
		p.evaluate()
		for i := 0; i < w; i++ {
			if err := p.emit(p.win.Cursor()); err != nil {
				return err
			}
			p.win.Advance()
		}
		p.population, p.steps = 0, 0
		p.win.Reset()
		if ev == eof {
			p.phase = Done
		} else {
			p.phase = Filling
		}
	}
	return nil
}

func (p *Pruner) evaluate() {
	n := Evaluate(p.win, p.population+1, p.cfg.Threshold)
	p.evals++
	p.logger.WithFields(log.Fields{
		"chrom":  p.chrom,
		"pass":   p.evals,
		"active": p.win.Active(),
		"kept":   n,
	}).Debug("evaluated window")
}

func (p *Pruner) emit(i int) error {
	if !p.win.Occupied(i) {
		return nil
	}
	s := p.win.Site(i)
	if s.State != Kept {
		return nil
	}
	if err := p.sink.Emit(s); err != nil {
		return fmt.Errorf("emitting %s: %w", s.Locus, err)
	}
	s.State = Emitted
	p.kept++
	return nil
}
