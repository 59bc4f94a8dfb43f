package unify

import (
	"sync"

	"github.com/gnames/gnamed/pkg/entity"
)

// IDAllocator hands out monotonic entity ids, one counter per kind.
type IDAllocator struct {
	mu   sync.Mutex
	last map[entity.Kind]int64
}

// IDMark is a snapshot of an IDAllocator.
type IDMark struct {
	gene, protein int64
}

// NewIDAllocator starts counters after the given maximal existing ids.
func NewIDAllocator(maxGene, maxProtein int64) *IDAllocator {
	return &IDAllocator{
		last: map[entity.Kind]int64{
			entity.Gene:    maxGene,
			entity.Protein: maxProtein,
		},
	}
}

// Next returns a fresh id for a kind.
func (a *IDAllocator) Next(k entity.Kind) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last[k]++
	return a.last[k]
}

// Last returns the most recently allocated id of a kind.
func (a *IDAllocator) Last(k entity.Kind) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last[k]
}

// Mark takes a snapshot that Reset can return to.
func (a *IDAllocator) Mark() IDMark {
	a.mu.Lock()
	defer a.mu.Unlock()
	return IDMark{gene: a.last[entity.Gene], protein: a.last[entity.Protein]}
}

// Reset returns counters to a mark, releasing ids taken by a unit of
// work that was rolled back.
func (a *IDAllocator) Reset(m IDMark) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last[entity.Gene] = m.gene
	a.last[entity.Protein] = m.protein
}
