package persona

import "math/rand/v2"

// Rand is the randomness the generator draws on for humanization and canned
// phrase choice. Implementations must be safe for concurrent use.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type processRand struct{}

func (processRand) Float64() float64 { return rand.Float64() }
func (processRand) IntN(n int) int   { return rand.IntN(n) }

// ProcessRand returns the process-wide source backed by math/rand/v2.
func ProcessRand() Rand { return processRand{} }
