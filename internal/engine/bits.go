package engine

import "math"

// float32bits/float32frombits bit-cast a float32 parameter to/from the
// uint32 an atomic.Uint32 can store, the same lock-free-parameter pattern
// effects.EQ5Band uses for its per-band gains.
func float32bits(v float32) uint32   { return math.Float32bits(v) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }
