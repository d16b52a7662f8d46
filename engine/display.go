package engine

import "github.com/cwbudde/algo-mbdist/dsp/spectrum"

// Display receives fftSize/2+1 analyzer bins once per processed block.
//
// SendFFT is called from the audio path with the engine lock held. The
// slice is reused on the next block: implementations copy what they keep
// and must not block.
type Display interface {
	SendFFT(bins []spectrum.Bin)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(bins []spectrum.Bin)

// SendFFT calls f(bins).
func (f DisplayFunc) SendFFT(bins []spectrum.Bin) { f(bins) }
