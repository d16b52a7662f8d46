// Package level computes amplitude statistics of processed audio: peak,
// RMS and crest factor, one-shot or as a streaming meter.
package level

import (
	"math"

	"github.com/cwbudde/algo-mbdist/dsp/core"
)

// Peak returns the largest absolute sample value.
func Peak(signal []float64) float64 {
	peak := 0.0
	for _, x := range signal {
		peak = math.Max(peak, math.Abs(x))
	}

	return peak
}

// RMS returns the root-mean-square of signal, or 0 if it is empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range signal {
		sum += x * x
	}

	return math.Sqrt(sum / float64(len(signal)))
}

// CrestFactor returns peak / RMS, or 0 for silence.
func CrestFactor(signal []float64) float64 {
	rms := RMS(signal)
	if rms == 0 {
		return 0
	}

	return Peak(signal) / rms
}

// Reading is one meter snapshot.
type Reading struct {
	Peak    float64
	RMS     float64
	PeakDB  float64
	RMSDB   float64
	Crest   float64
	Samples int
	// Clipped counts samples at or above full scale.
	Clipped int
}

// Meter accumulates peak and RMS over blocks until Reset.
type Meter struct {
	peak    float64
	sumSq   float64
	samples int
	clipped int
}

// Update adds a block.
func (m *Meter) Update(block []float64) {
	for _, x := range block {
		a := math.Abs(x)
		m.peak = math.Max(m.peak, a)
		m.sumSq += x * x

		if a >= 1 {
			m.clipped++
		}
	}

	m.samples += len(block)
}

// Reading returns the statistics accumulated so far.
func (m *Meter) Reading() Reading {
	r := Reading{Peak: m.peak, Samples: m.samples, Clipped: m.clipped}
	if m.samples > 0 {
		r.RMS = math.Sqrt(m.sumSq / float64(m.samples))
	}

	if r.RMS > 0 {
		r.Crest = r.Peak / r.RMS
	}

	r.PeakDB = core.LinearToDB(r.Peak)
	r.RMSDB = core.LinearToDB(r.RMS)

	return r
}

// Reset clears the meter.
func (m *Meter) Reset() {
	*m = Meter{}
}
