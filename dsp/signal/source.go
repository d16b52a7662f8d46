package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-mbdist/dsp/core"
)

// Source produces a continuous mono stream, one block at a time.
type Source interface {
	Fill(dst []float64)
}

// Tone is a phase-continuous sine oscillator.
type Tone struct {
	freq       float64
	amplitude  float64
	sampleRate float64
	phase      float64
	step       float64
}

// NewTone creates a sine oscillator. freqHz must lie in [0, sampleRate/2].
func NewTone(freqHz, amplitude, sampleRate float64) (*Tone, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("tone: %w", err)
	}

	t := &Tone{amplitude: amplitude, sampleRate: sampleRate}
	if err := t.SetFrequency(freqHz); err != nil {
		return nil, err
	}

	return t, nil
}

// SetFrequency changes the frequency without resetting phase.
func (t *Tone) SetFrequency(freqHz float64) error {
	if !core.IsFinite(freqHz) || freqHz < 0 || freqHz > t.sampleRate/2 {
		return fmt.Errorf("tone frequency must be in [0, %f]: %f", t.sampleRate/2, freqHz)
	}

	t.freq = freqHz
	t.step = 2 * math.Pi * freqHz / t.sampleRate

	return nil
}

// Frequency returns the oscillator frequency in Hz.
func (t *Tone) Frequency() float64 { return t.freq }

// SetAmplitude sets the peak amplitude.
func (t *Tone) SetAmplitude(a float64) { t.amplitude = a }

// Reset returns the phase to zero.
func (t *Tone) Reset() { t.phase = 0 }

// Fill writes the next len(dst) samples.
func (t *Tone) Fill(dst []float64) {
	for i := range dst {
		dst[i] = t.amplitude * math.Sin(t.phase)

		t.phase += t.step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
}

// Noise is a seeded white or pink noise source.
type Noise struct {
	rng       *rand.Rand
	amplitude float64
	pink      bool

	// Paul Kellet's economy pink filter state.
	b0, b1, b2 float64
}

// NewNoise creates a noise source. Pink noise uses a three-pole
// approximation of a -3 dB/octave slope.
func NewNoise(seed int64, amplitude float64, pink bool) (*Noise, error) {
	if amplitude < 0 || !core.IsFinite(amplitude) {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	return &Noise{rng: newRand(seed), amplitude: amplitude, pink: pink}, nil
}

// Fill writes the next len(dst) samples.
func (n *Noise) Fill(dst []float64) {
	for i := range dst {
		white := n.rng.Float64()*2 - 1
		if !n.pink {
			dst[i] = white * n.amplitude
			continue
		}

		n.b0 = 0.99765*n.b0 + white*0.0990460
		n.b1 = 0.96300*n.b1 + white*0.2965164
		n.b2 = 0.57000*n.b2 + white*1.0526913
		pink := n.b0 + n.b1 + n.b2 + white*0.1848

		dst[i] = core.Clamp(pink*0.25, -1, 1) * n.amplitude
	}
}
