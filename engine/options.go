package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-mbdist/dsp/core"
	"github.com/cwbudde/algo-mbdist/dsp/smooth"
	"github.com/cwbudde/algo-mbdist/dsp/spectrum"
	"github.com/cwbudde/algo-mbdist/param"
)

// Option mutates engine construction parameters.
type Option func(*config) error

type config struct {
	channels     int
	smoothingMs  float64
	analyzerOpts []spectrum.Option
	display      Display
	logger       logrus.FieldLogger
	registry     *param.Registry
}

func defaultConfig() config {
	return config{
		channels:    core.DefaultProcessorConfig().Channels,
		smoothingMs: smooth.DefaultTimeConstantMs,
		logger:      logrus.StandardLogger(),
	}
}

// WithChannels sets the nominal channel count hosts allocate buffers for.
func WithChannels(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("engine channels must be >= 1: %d", n)
		}

		c.channels = n

		return nil
	}
}

// WithSmoothingTime sets the gain smoother time constant in milliseconds.
func WithSmoothingTime(ms float64) Option {
	return func(c *config) error {
		if ms <= 0 || !core.IsFinite(ms) {
			return fmt.Errorf("engine smoothing time must be > 0 and finite: %f", ms)
		}

		c.smoothingMs = ms

		return nil
	}
}

// WithAnalyzerOptions forwards options to the spectral analyzer.
func WithAnalyzerOptions(opts ...spectrum.Option) Option {
	return func(c *config) error {
		c.analyzerOpts = append(c.analyzerOpts, opts...)
		return nil
	}
}

// WithDisplay attaches a display at construction.
func WithDisplay(d Display) Option {
	return func(c *config) error {
		c.display = d
		return nil
	}
}

// WithLogger sets the logger. Process never logs.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) error {
		if l == nil {
			return fmt.Errorf("engine logger must not be nil")
		}

		c.logger = l

		return nil
	}
}

// WithRegistry uses r instead of a fresh NewRegistry. r must hold every
// parameter ID this package declares.
func WithRegistry(r *param.Registry) Option {
	return func(c *config) error {
		if r == nil {
			return fmt.Errorf("engine registry must not be nil")
		}

		c.registry = r

		return nil
	}
}
