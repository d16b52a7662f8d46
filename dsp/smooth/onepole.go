package smooth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-mbdist/dsp/core"
)

// DefaultTimeConstantMs is the smoothing time constant used for gain controls.
const DefaultTimeConstantMs = 5.0

// Option configures an OnePole smoother.
type Option func(*config) error

type config struct {
	timeConstantMs float64
	initial        float64
}

// WithTimeConstant sets the time constant in milliseconds (> 0).
func WithTimeConstant(ms float64) Option {
	return func(cfg *config) error {
		if ms <= 0 || !core.IsFinite(ms) {
			return fmt.Errorf("smoother time constant must be > 0 and finite: %f", ms)
		}

		cfg.timeConstantMs = ms

		return nil
	}
}

// WithInitialValue sets the state the smoother starts from.
func WithInitialValue(v float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(v) {
			return fmt.Errorf("smoother initial value must be finite: %f", v)
		}

		cfg.initial = v

		return nil
	}
}

// OnePole is a one-pole exponential parameter smoother.
type OnePole struct {
	timeConstantMs float64
	sampleRate     float64
	coef           float64
	current        float64
}

// New creates a smoother for the given sample rate.
func New(sampleRate float64, opts ...Option) (*OnePole, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("smoother: %w", err)
	}

	cfg := config{timeConstantMs: DefaultTimeConstantMs}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	s := &OnePole{
		timeConstantMs: cfg.timeConstantMs,
		sampleRate:     sampleRate,
		current:        cfg.initial,
	}
	s.updateCoefficient()

	return s, nil
}

// Process advances the smoother one sample toward target and returns the new value.
func (s *OnePole) Process(target float64) float64 {
	s.current += s.coef * (target - s.current)
	return s.current
}

// SetSampleRate re-derives the coefficient for a new sample rate. The current
// value is kept so an in-flight ramp continues from where it was.
func (s *OnePole) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return fmt.Errorf("smoother: %w", err)
	}

	s.sampleRate = sampleRate
	s.updateCoefficient()

	return nil
}

// Reset jumps the smoother state to v.
func (s *OnePole) Reset(v float64) {
	s.current = v
}

// Value returns the current smoothed value without advancing.
func (s *OnePole) Value() float64 { return s.current }

// Coefficient returns the per-sample smoothing coefficient in (0, 1].
func (s *OnePole) Coefficient() float64 { return s.coef }

// TimeConstant returns the time constant in milliseconds.
func (s *OnePole) TimeConstant() float64 { return s.timeConstantMs }

// SampleRate returns the sample rate in Hz.
func (s *OnePole) SampleRate() float64 { return s.sampleRate }

func (s *OnePole) updateCoefficient() {
	tauSeconds := s.timeConstantMs / 1000
	s.coef = 1 - math.Exp(-1/(tauSeconds*s.sampleRate))
	s.coef = core.Clamp(s.coef, 0, 1)
}
