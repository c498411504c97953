package selector

import (
	"math/rand/v2"
	"sync"
)

// Rand is the randomness source of the selector.
type Rand interface {
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

// NewRand returns a Rand safe for concurrent use. A zero seed uses the runtime's random source.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		return globalRand{}
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed))}
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
