// Package parserpool provides a pool of gnparser instances that derive
// canonical forms of species names. This is a pure package, parsing is
// computation, not I/O.
package parserpool

import (
	"runtime"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
)

// Pool hands out parsers to concurrent callers.
type Pool interface {
	// Canonical returns the simple canonical form of a name, or an empty
	// string if the name could not be parsed. Safe for concurrent use.
	Canonical(name string) string

	// Close releases parsers. The pool must not be used afterwards.
	Close()
}

type pool struct {
	ch chan gnparser.GNparser
}

// NewPool creates a pool of jobsNum botanical parsers. The botanical
// code keeps names like "Aus (Bus)" from being read as subgenera.
// If jobsNum is 0, it defaults to runtime.NumCPU().
func NewPool(jobsNum int) Pool {
	if jobsNum <= 0 {
		jobsNum = runtime.NumCPU()
	}
	cfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Botanical))
	return &pool{ch: gnparser.NewPool(cfg, jobsNum)}
}

func (p *pool) Canonical(name string) string {
	parser := <-p.ch
	res := parser.ParseName(name)
	p.ch <- parser

	if !res.Parsed || res.Canonical == nil {
		return ""
	}
	return res.Canonical.Simple
}

func (p *pool) Close() {
	close(p.ch)
	for range p.ch {
	}
}
