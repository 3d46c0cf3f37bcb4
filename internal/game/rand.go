package game

import "math/rand/v2"

// Rand is the only source of randomness in a match. Float32 returns a value
// in [0, 1).
type Rand interface {
	Float32() float32
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
