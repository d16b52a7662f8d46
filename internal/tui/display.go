package tui

import (
	"sync"

	"github.com/cwbudde/algo-mbdist/dsp/spectrum"
)

// Display is an engine.Display that keeps the latest bins for the UI.
// SendFFT copies under a short lock and never blocks on the UI.
type Display struct {
	mu     sync.Mutex
	bins   []spectrum.Bin
	frames uint64
}

// SendFFT stores a copy of bins.
func (d *Display) SendFFT(bins []spectrum.Bin) {
	d.mu.Lock()
	d.bins = append(d.bins[:0], bins...)
	d.frames++
	d.mu.Unlock()
}

// Snapshot copies the latest bins into dst and returns them with the
// number of pushes received so far.
func (d *Display) Snapshot(dst []spectrum.Bin) ([]spectrum.Bin, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append(dst[:0], d.bins...), d.frames
}
