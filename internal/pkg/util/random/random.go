// Package random provides injectable sources of uniform random numbers.
package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source yields uniformly distributed values in [0, 1).
type Source interface {
	Float64() float64
}

// Locked is a seeded PCG source safe for concurrent use.
type Locked struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Locked source. A zero seed is replaced by the current time.
func New(seed uint64) *Locked {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Locked{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Float64()
}

// Sequence replays a fixed list of values, cycling when exhausted.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence returns a Sequence over values. It panics if values is empty
// or holds a value outside [0, 1).
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		panic("random: empty sequence")
	}
	for _, v := range values {
		if v < 0 || v >= 1 {
			panic("random: sequence value out of [0, 1)")
		}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
