// Package thd measures the harmonic content of a processed test tone.
//
// The analysis windows the signal, transforms it and integrates each
// harmonic's main lobe as a root-sum-square over a few bins either side of
// its center, so the result does not depend on exact bin alignment.
// Levels are reported relative to the fundamental.
package thd
