package effects

import (
	"fmt"

	"github.com/cwbudde/algo-mbdist/dsp/core"
	"github.com/cwbudde/algo-mbdist/dsp/smooth"
)

const (
	// MinGainDB and MaxGainDB bound the input and output gain controls.
	MinGainDB = -36.0
	MaxGainDB = 36.0

	// outputCeilingDB is where the output clipper lands: just under unity.
	outputCeilingDB = -0.1
)

// Settings is the set of cached control values read once per sample by
// GainStage.Process.
type Settings struct {
	Mode         Mode
	Order        int
	InputGainDB  float64
	OutputGainDB float64
	AutoGain     bool
	Clip         bool
}

// DefaultSettings mirrors the host parameter defaults.
func DefaultSettings() Settings {
	return Settings{
		Mode:     ModeSoftAsymmetric,
		Order:    3,
		AutoGain: true,
	}
}

// GainStageOption mutates construction-time parameters.
type GainStageOption func(*gainStageConfig) error

type gainStageConfig struct {
	smoothingMs float64
}

// WithSmoothingTime sets the gain smoother time constant in milliseconds.
func WithSmoothingTime(ms float64) GainStageOption {
	return func(cfg *gainStageConfig) error {
		if ms <= 0 || !core.IsFinite(ms) {
			return fmt.Errorf("gain stage smoothing time must be > 0 and finite: %f", ms)
		}

		cfg.smoothingMs = ms

		return nil
	}
}

// GainStage wraps Shape with smoothed input gain, smoothed output gain (or
// automatic compensation of the input gain) and an optional output clipper.
// It exclusively owns its two smoothers.
type GainStage struct {
	input     *smooth.OnePole
	output    *smooth.OnePole
	clipLevel float64
}

// NewGainStage creates a gain stage for sampleRate.
func NewGainStage(sampleRate float64, opts ...GainStageOption) (*GainStage, error) {
	cfg := gainStageConfig{smoothingMs: smooth.DefaultTimeConstantMs}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	in, err := smooth.New(sampleRate, smooth.WithTimeConstant(cfg.smoothingMs))
	if err != nil {
		return nil, fmt.Errorf("gain stage input smoother: %w", err)
	}

	out, err := smooth.New(sampleRate, smooth.WithTimeConstant(cfg.smoothingMs))
	if err != nil {
		return nil, fmt.Errorf("gain stage output smoother: %w", err)
	}

	return &GainStage{
		input:     in,
		output:    out,
		clipLevel: core.DBToLinear(outputCeilingDB),
	}, nil
}

// Process runs one sample through input gain, the selected shaper, output
// gain and the optional clipper. Both smoothers advance exactly once.
func (g *GainStage) Process(x float64, s Settings) float64 {
	x *= core.DBToLinear(g.input.Process(s.InputGainDB))

	x = core.Sanitize(Shape(x, s.Mode, s.Order))

	target := s.OutputGainDB
	if s.AutoGain {
		target = -s.InputGainDB
	}

	x *= core.DBToLinear(g.output.Process(target))

	// Engages at the ceiling, not at unity: nothing above -0.1 dBFS leaves.
	if s.Clip {
		if x > g.clipLevel {
			x = g.clipLevel
		} else if x < -g.clipLevel {
			x = -g.clipLevel
		}
	}

	return core.Sanitize(x)
}

// ProcessInPlace runs buf through Process with fixed settings.
func (g *GainStage) ProcessInPlace(buf []float64, s Settings) {
	for i := range buf {
		buf[i] = g.Process(buf[i], s)
	}
}

// SetSampleRate re-derives both smoother coefficients.
func (g *GainStage) SetSampleRate(sampleRate float64) error {
	if err := g.input.SetSampleRate(sampleRate); err != nil {
		return err
	}

	return g.output.SetSampleRate(sampleRate)
}

// Reset jumps both smoothers to the targets implied by s.
func (g *GainStage) Reset(s Settings) {
	g.input.Reset(s.InputGainDB)

	if s.AutoGain {
		g.output.Reset(-s.InputGainDB)
	} else {
		g.output.Reset(s.OutputGainDB)
	}
}

// InputGainDB returns the current smoothed input gain.
func (g *GainStage) InputGainDB() float64 { return g.input.Value() }

// OutputGainDB returns the current smoothed output gain.
func (g *GainStage) OutputGainDB() float64 { return g.output.Value() }

// ClipLevel returns the magnitude the output clipper clamps to.
func (g *GainStage) ClipLevel() float64 { return g.clipLevel }

// SampleRate returns the sample rate in Hz.
func (g *GainStage) SampleRate() float64 { return g.input.SampleRate() }
