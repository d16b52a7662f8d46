package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-mbdist/dsp/core"
	"github.com/cwbudde/algo-mbdist/dsp/window"
)

const (
	DefaultFFTSize      = 2048
	DefaultOverlap      = 2
	DefaultFloorDB      = -60.0
	DefaultMinFrequency = 20.0
	DefaultMaxFrequency = 20000.0
	DefaultOctaveGainDB = 3.0
	DefaultOctaveRefHz  = 1000.0

	minFFTSize = 16
	maxFFTSize = 1 << 16
)

// ErrInvalidFFTSize is returned for FFT sizes that are not a power of two
// in [16, 65536].
var ErrInvalidFFTSize = errors.New("fft size must be a power of two in [16, 65536]")

// State is the analyzer's accumulation state.
type State int

const (
	// StateIdle means no sample has been received since construction or Reset.
	StateIdle State = iota
	// StateFilling means samples are accumulating toward the next transform.
	StateFilling
	// StateReady means the last received sample completed a transform.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFilling:
		return "filling"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Bin is one display bin: center frequency, raw linear magnitude and the
// display level in dB (octave-compensated, floor-clamped).
type Bin struct {
	Frequency float64
	Magnitude float64
	DB        float64
}

type config struct {
	fftSize      int
	overlap      int
	window       window.Type
	floorDB      float64
	minFrequency float64
	maxFrequency float64
	octaveGainDB float64
	octaveRefHz  float64
}

func defaultConfig() config {
	return config{
		fftSize:      DefaultFFTSize,
		overlap:      DefaultOverlap,
		window:       window.TypeBlackmanHarris4Term,
		floorDB:      DefaultFloorDB,
		minFrequency: DefaultMinFrequency,
		maxFrequency: DefaultMaxFrequency,
		octaveGainDB: DefaultOctaveGainDB,
		octaveRefHz:  DefaultOctaveRefHz,
	}
}

// Option mutates analyzer construction parameters.
type Option func(*config) error

// WithFFTSize sets the transform length. Must be a power of two in [16, 65536].
func WithFFTSize(n int) Option {
	return func(c *config) error {
		if n < minFFTSize || n > maxFFTSize || n&(n-1) != 0 {
			return fmt.Errorf("%w: %d", ErrInvalidFFTSize, n)
		}

		c.fftSize = n

		return nil
	}
}

// WithOverlap sets the overlap factor; the hop is fftSize/overlap.
func WithOverlap(overlap int) Option {
	return func(c *config) error {
		if overlap < 1 {
			return fmt.Errorf("analyzer overlap must be >= 1: %d", overlap)
		}

		c.overlap = overlap

		return nil
	}
}

// WithWindow selects the analysis window.
func WithWindow(t window.Type) Option {
	return func(c *config) error {
		c.window = t
		return nil
	}
}

// WithFloorDB sets the display floor. Must be finite and <= 0.
func WithFloorDB(db float64) Option {
	return func(c *config) error {
		if !core.IsFinite(db) || db > 0 {
			return fmt.Errorf("analyzer floor must be finite and <= 0 dB: %f", db)
		}

		c.floorDB = db

		return nil
	}
}

// WithFrequencyRange sets the display axis bounds.
func WithFrequencyRange(minHz, maxHz float64) Option {
	return func(c *config) error {
		if !core.IsFinite(minHz) || !core.IsFinite(maxHz) || minHz <= 0 || maxHz <= minHz {
			return fmt.Errorf("analyzer frequency range must satisfy 0 < min < max: %f..%f", minHz, maxHz)
		}

		c.minFrequency = minHz
		c.maxFrequency = maxHz

		return nil
	}
}

// WithOctaveGain sets the display slope in dB per octave around refHz.
// Zero disables compensation.
func WithOctaveGain(dbPerOctave, refHz float64) Option {
	return func(c *config) error {
		if !core.IsFinite(dbPerOctave) {
			return fmt.Errorf("analyzer octave gain must be finite: %f", dbPerOctave)
		}

		if !core.IsFinite(refHz) || refHz <= 0 {
			return fmt.Errorf("analyzer octave reference must be > 0: %f", refHz)
		}

		c.octaveGainDB = dbPerOctave
		c.octaveRefHz = refHz

		return nil
	}
}

// Analyzer is the streaming spectral analyzer feed.
//
// All buffers are sized at construction and Reset; SendInput never
// allocates. An Analyzer is not safe for concurrent use; the engine
// serializes access with its processing lock.
type Analyzer struct {
	cfg        config
	sampleRate float64
	hop        int

	plan   *algofft.Plan[complex128]
	coeffs []float64
	norm   float64

	ring     []float64
	writePos int
	filled   int
	sinceHop int

	frame []complex128
	cplx  []complex128
	re    []float64
	im    []float64
	mag   []float64

	state  State
	frames uint64
}

// NewAnalyzer creates an analyzer for sampleRate.
func NewAnalyzer(sampleRate float64, opts ...Option) (*Analyzer, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("analyzer: %w", err)
		}
	}

	if cfg.overlap > cfg.fftSize {
		return nil, fmt.Errorf("analyzer: overlap must not exceed fft size: %d > %d", cfg.overlap, cfg.fftSize)
	}

	plan, err := algofft.NewPlan64(cfg.fftSize)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	n := cfg.fftSize
	bins := n/2 + 1

	a := &Analyzer{
		cfg:        cfg,
		sampleRate: sampleRate,
		hop:        n / cfg.overlap,
		plan:       plan,
		ring:       make([]float64, n),
		frame:      make([]complex128, n),
		cplx:       make([]complex128, n),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		mag:        make([]float64, bins),
	}

	if err := a.initWindow(); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Analyzer) initWindow() error {
	a.coeffs = window.Generate(a.cfg.window, a.cfg.fftSize, window.WithPeriodic())

	gain, err := window.CoherentGain(a.coeffs)
	if err != nil {
		return fmt.Errorf("analyzer: %w", err)
	}

	// A full-scale sine centered on a bin reads as magnitude 1.
	a.norm = 2 / (gain * float64(a.cfg.fftSize))

	return nil
}

// Reset clears all accumulated samples and magnitudes, adopts sampleRate
// and reinitializes the window.
func (a *Analyzer) Reset(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return fmt.Errorf("analyzer: %w", err)
	}

	a.sampleRate = sampleRate

	if err := a.initWindow(); err != nil {
		return err
	}

	core.Zero(a.ring)
	core.Zero(a.mag)
	a.writePos = 0
	a.filled = 0
	a.sinceHop = 0
	a.state = StateIdle
	a.frames = 0

	return nil
}

// SendInput pushes one sample. Once fftSize samples have been seen, a
// transform runs every hop samples.
func (a *Analyzer) SendInput(x float64) {
	n := len(a.ring)
	a.ring[a.writePos] = core.Sanitize(x)

	a.writePos++
	if a.writePos == n {
		a.writePos = 0
	}

	if a.filled < n {
		a.filled++
		if a.filled < n {
			a.state = StateFilling
			return
		}
	} else {
		a.sinceHop++
		if a.sinceHop < a.hop {
			a.state = StateFilling
			return
		}
	}

	a.transform()
	a.sinceHop = 0
	a.state = StateReady
	a.frames++
}

func (a *Analyzer) transform() {
	n := len(a.ring)

	// writePos is the oldest sample.
	for i := range n {
		j := a.writePos + i
		if j >= n {
			j -= n
		}

		a.frame[i] = complex(a.ring[j]*a.coeffs[i], 0)
	}

	if err := a.plan.Forward(a.cplx, a.frame); err != nil {
		// Buffers are sized for the plan; keep the previous magnitudes.
		return
	}

	for k := range a.mag {
		a.re[k] = real(a.cplx[k]) * a.norm
		a.im[k] = imag(a.cplx[k]) * a.norm
	}

	MagnitudeFromParts(a.mag, a.re, a.im)
}

// State returns the current accumulation state.
func (a *Analyzer) State() State { return a.state }

// Frames returns the number of transforms run since construction or Reset.
func (a *Analyzer) Frames() uint64 { return a.frames }

// GetOutput returns the raw linear magnitude of bin from the most recent
// transform. It returns 0 before the first transform and for out-of-range bins.
func (a *Analyzer) GetOutput(bin int) float64 {
	if bin < 0 || bin >= len(a.mag) {
		return 0
	}

	return a.mag[bin]
}

// DisplayDB returns the display level of bin: the magnitude in dB plus
// octave compensation, clamped from below at the floor.
func (a *Analyzer) DisplayDB(bin int) float64 {
	if bin < 0 || bin >= len(a.mag) {
		return a.cfg.floorDB
	}

	return a.displayDB(a.mag[bin], a.BinFrequency(bin))
}

func (a *Analyzer) displayDB(mag, freq float64) float64 {
	db := core.LinearToDB(mag)
	if a.cfg.octaveGainDB != 0 && freq > 0 {
		db += a.cfg.octaveGainDB * math.Log2(freq/a.cfg.octaveRefHz)
	}

	if math.IsNaN(db) || db < a.cfg.floorDB {
		return a.cfg.floorDB
	}

	return db
}

// BinFrequency returns the center frequency of bin in Hz.
func (a *Analyzer) BinFrequency(bin int) float64 {
	return float64(bin) * a.sampleRate / float64(a.cfg.fftSize)
}

// NearestBin returns the bin whose center is closest to freq.
func (a *Analyzer) NearestBin(freq float64) int {
	bin := int(math.Round(freq * float64(a.cfg.fftSize) / a.sampleRate))
	return core.ClampInt(bin, 0, len(a.mag)-1)
}

// Bins fills dst with all fftSize/2+1 display bins and returns it. dst is
// reused when its capacity suffices, so steady-state calls do not allocate.
func (a *Analyzer) Bins(dst []Bin) []Bin {
	if cap(dst) < len(a.mag) {
		dst = make([]Bin, len(a.mag))
	}

	dst = dst[:len(a.mag)]
	for k, m := range a.mag {
		f := a.BinFrequency(k)
		dst[k] = Bin{Frequency: f, Magnitude: m, DB: a.displayDB(m, f)}
	}

	return dst
}

// Magnitudes returns the stored magnitudes. The slice is owned by the
// analyzer and is overwritten by the next transform.
func (a *Analyzer) Magnitudes() []float64 { return a.mag }

// BinCount returns fftSize/2+1.
func (a *Analyzer) BinCount() int { return len(a.mag) }

// FFTSize returns the transform length.
func (a *Analyzer) FFTSize() int { return a.cfg.fftSize }

// Hop returns the number of samples between transforms once the ring is full.
func (a *Analyzer) Hop() int { return a.hop }

// SampleRate returns the current sample rate in Hz.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// FloorDB returns the display floor.
func (a *Analyzer) FloorDB() float64 { return a.cfg.floorDB }

// MinFrequency returns the lower display bound in Hz.
func (a *Analyzer) MinFrequency() float64 { return a.cfg.minFrequency }

// MaxFrequency returns the upper display bound in Hz.
func (a *Analyzer) MaxFrequency() float64 { return a.cfg.maxFrequency }

// Window returns the analysis window type.
func (a *Analyzer) Window() window.Type { return a.cfg.window }
