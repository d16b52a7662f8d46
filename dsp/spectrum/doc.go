// Package spectrum provides the streaming spectral analyzer feed and
// magnitude helpers for complex FFT bins.
//
// [Analyzer] accumulates one sample at a time into a ring buffer of fftSize
// samples. Every hop samples (fftSize/overlap) once the ring is full, the
// most recent fftSize samples are windowed, transformed and reduced to linear
// magnitudes. Stored magnitudes are raw; the dB floor and the per-octave
// display compensation are applied only on the read path used by displays
// ([Analyzer.DisplayDB], [Analyzer.Bins]).
package spectrum
