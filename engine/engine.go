package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-mbdist/dsp/core"
	"github.com/cwbudde/algo-mbdist/dsp/effects"
	"github.com/cwbudde/algo-mbdist/dsp/spectrum"
	"github.com/cwbudde/algo-mbdist/param"
)

// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
var ErrInvalidSampleRate = errors.New("invalid sample rate")

// Snapshot is a consistent copy of the cached control values.
type Snapshot struct {
	effects.Settings

	// Drive and Mix are cached but not applied to audio.
	Drive [4]float64
	Mix   [4]float64
}

// Engine is the distortion processor. It exclusively owns one gain stage
// (shared by all channels, as the smoothers advance once per processed
// sample) and one analyzer.
type Engine struct {
	mu sync.Mutex

	sampleRate float64
	channels   int
	registry   *param.Registry
	logger     logrus.FieldLogger

	stage    *effects.GainStage
	analyzer *spectrum.Analyzer
	display  Display
	bins     []spectrum.Bin

	snap Snapshot
}

// NewEngine creates an engine for sampleRate and subscribes it to the
// parameter registry.
func NewEngine(sampleRate float64, opts ...Option) (*Engine, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.registry == nil {
		cfg.registry = NewRegistry()
	}

	for id := range param.ID(NumParams) {
		if _, err := cfg.registry.Lookup(id); err != nil {
			return nil, fmt.Errorf("engine registry: %w", err)
		}
	}

	stage, err := effects.NewGainStage(sampleRate, effects.WithSmoothingTime(cfg.smoothingMs))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	analyzer, err := spectrum.NewAnalyzer(sampleRate, cfg.analyzerOpts...)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{
		sampleRate: sampleRate,
		channels:   cfg.channels,
		registry:   cfg.registry,
		logger:     cfg.logger,
		stage:      stage,
		analyzer:   analyzer,
		display:    cfg.display,
		bins:       make([]spectrum.Bin, analyzer.BinCount()),
		snap:       Snapshot{Settings: effects.DefaultSettings()},
	}

	for id := range param.ID(NumParams) {
		e.cache(id)
	}

	e.stage.Reset(e.snap.Settings)
	e.registry.Subscribe(e.OnParamChange)

	e.logger.WithFields(logrus.Fields{
		"sample_rate": sampleRate,
		"channels":    e.channels,
		"fft_size":    analyzer.FFTSize(),
		"mode":        e.snap.Mode.String(),
	}).Info("engine ready")

	return e, nil
}

// Process runs one block. Each channel is processed in order, frame by
// frame, and every processed sample is fed to the analyzer, so the analyzer
// sees the channel blocks back to back. inputs and outputs may alias.
// Channels beyond min(len(inputs), len(outputs)) and frames beyond the
// shorter of a channel's input and output are left untouched.
func (e *Engine) Process(inputs, outputs [][]float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.snap.Settings
	channels := min(len(inputs), len(outputs))

	for c := range channels {
		in, out := inputs[c], outputs[c]
		n := min(len(in), len(out))

		for i := range n {
			y := e.stage.Process(in[i], s)
			e.analyzer.SendInput(y)
			out[i] = y
		}
	}

	if e.display != nil {
		e.bins = e.analyzer.Bins(e.bins)
		e.display.SendFFT(e.bins)
	}
}

// Reset adopts a new sample rate: smoother coefficients are re-derived
// and the analyzer is cleared with its window regenerated.
func (e *Engine) Reset(sampleRate float64) error {
	if err := validateSampleRate(sampleRate); err != nil {
		return err
	}

	e.mu.Lock()
	old := e.sampleRate

	err := e.stage.SetSampleRate(sampleRate)
	if err == nil {
		err = e.analyzer.Reset(sampleRate)
	}

	if err == nil {
		e.sampleRate = sampleRate
	}
	e.mu.Unlock()

	if err != nil {
		return fmt.Errorf("engine reset: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"from": old,
		"to":   sampleRate,
	}).Info("engine reset")

	return nil
}

// OnParamChange re-reads parameter id from the registry into the cache.
// It is subscribed to the registry by NewEngine.
func (e *Engine) OnParamChange(id param.ID) {
	e.mu.Lock()
	applied := e.cache(id)
	e.mu.Unlock()

	p := e.registry.Get(id)
	if p == nil {
		return
	}

	fields := logrus.Fields{"param": p.Name, "value": p.Format()}
	if !applied {
		e.logger.WithFields(fields).Debug("parameter change ignored")
		return
	}

	e.logger.WithFields(fields).Debug("parameter changed")
}

// cache copies one registry value into the snapshot. The caller holds
// e.mu or owns e exclusively. It reports false for notifications the
// engine ignores.
func (e *Engine) cache(id param.ID) bool {
	p := e.registry.Get(id)
	if p == nil {
		return false
	}

	switch id {
	case ParamDistType:
		e.snap.Mode = effects.Mode(p.Int())
	case ParamNumPolynomials:
		e.snap.Order = p.Int()
	case ParamInputGain:
		e.snap.InputGainDB = p.Value()
	case ParamOutputGain:
		e.snap.OutputGainDB = p.Value()
	case ParamAutoGain:
		e.snap.AutoGain = p.Bool()
	case ParamOutputClipping:
		e.snap.Clip = p.Bool()
	case ParamDrive2:
		// Drive 2 is declared but never cached.
		return false
	case ParamDrive1, ParamDrive3, ParamDrive4:
		e.snap.Drive[id-ParamDrive1] = p.Value()
	case ParamMix1, ParamMix2, ParamMix3, ParamMix4:
		e.snap.Mix[id-ParamMix1] = p.Value()
	default:
		return false
	}

	return true
}

// SetParam writes a parameter through the registry, which notifies the
// engine.
func (e *Engine) SetParam(id param.ID, value float64) error {
	if err := e.registry.Set(id, value); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	return nil
}

// Settings returns a copy of the cached control values.
func (e *Engine) Settings() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snap
}

// AttachDisplay sets or, with nil, removes the display.
func (e *Engine) AttachDisplay(d Display) {
	e.mu.Lock()
	e.display = d
	e.mu.Unlock()
}

// Spectrum copies the current display bins into dst.
func (e *Engine) Spectrum(dst []spectrum.Bin) []spectrum.Bin {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.analyzer.Bins(dst)
}

// DisplayRange returns the display axis bounds and dB floor.
func (e *Engine) DisplayRange() (minHz, maxHz, floorDB float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.analyzer.MinFrequency(), e.analyzer.MaxFrequency(), e.analyzer.FloorDB()
}

// AnalyzerFrames returns the number of transforms run since the last reset.
func (e *Engine) AnalyzerFrames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.analyzer.Frames()
}

// FFTSize returns the analyzer transform length.
func (e *Engine) FFTSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.analyzer.FFTSize()
}

// SampleRate returns the current sample rate.
func (e *Engine) SampleRate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sampleRate
}

// Channels returns the nominal channel count.
func (e *Engine) Channels() int { return e.channels }

// Registry returns the parameter registry the engine listens to.
func (e *Engine) Registry() *param.Registry { return e.registry }

func validateSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, err)
	}

	return nil
}
