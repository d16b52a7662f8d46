package thd

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-mbdist/dsp/core"
	"github.com/cwbudde/algo-mbdist/dsp/spectrum"
	"github.com/cwbudde/algo-mbdist/dsp/window"
)

const (
	defaultRangeLowerHz = 20.0
	defaultRangeUpperHz = 20000.0
	defaultMaxHarmonics = 9
)

// Config holds analysis parameters.
type Config struct {
	SampleRate float64
	// FFTSize defaults to the next power of two >= len(signal).
	FFTSize int
	// FundamentalFreq pins the fundamental; zero searches the range for
	// the strongest bin.
	FundamentalFreq float64
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	// MaxHarmonics counts harmonics from the 2nd upward.
	MaxHarmonics int
	Window       window.Type
	// CaptureBins is the half-width of each integrated lobe; zero picks a
	// width matching Window's main lobe.
	CaptureBins int
}

// DefaultConfig returns a Blackman-Harris analysis over 20 Hz..20 kHz.
func DefaultConfig(sampleRate float64) Config {
	return Config{
		SampleRate:     sampleRate,
		RangeLowerFreq: defaultRangeLowerHz,
		RangeUpperFreq: defaultRangeUpperHz,
		MaxHarmonics:   defaultMaxHarmonics,
		Window:         window.TypeBlackmanHarris4Term,
	}
}

// Harmonic is one measured harmonic.
type Harmonic struct {
	Order     int
	Frequency float64
	// Level is relative to the fundamental.
	Level float64
	DB    float64
}

// Result holds the measurement.
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDdB            float64
	// THDN includes every non-fundamental bin in range.
	THDN   float64
	THDNdB float64
	OddHD  float64
	EvenHD float64

	Harmonics []Harmonic
}

// Analyze windows and transforms signal, then measures it.
func Analyze(signal []float64, cfg Config) (Result, error) {
	if len(signal) == 0 {
		return Result{}, fmt.Errorf("thd: signal must not be empty")
	}

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(signal))
	}

	if fftSize < len(signal) {
		return Result{}, fmt.Errorf("thd: fft size %d shorter than signal %d", fftSize, len(signal))
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("thd: %w", err)
	}

	coeffs := window.Generate(cfg.Window, len(signal), window.WithPeriodic())

	in := make([]complex128, fftSize)
	for i, x := range signal {
		in[i] = complex(x*coeffs[i], 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, fmt.Errorf("thd: %w", err)
	}

	cfg.FFTSize = fftSize

	return AnalyzeMagnitudes(spectrum.Magnitude(out[:fftSize/2+1]), cfg)
}

// AnalyzeMagnitudes measures linear magnitudes of bins 0..FFTSize/2, such
// as those held by a spectrum.Analyzer.
func AnalyzeMagnitudes(mag []float64, cfg Config) (Result, error) {
	if len(mag) < 2 {
		return Result{}, fmt.Errorf("thd: need at least 2 bins: %d", len(mag))
	}

	if err := core.ValidateSampleRate(cfg.SampleRate); err != nil {
		return Result{}, fmt.Errorf("thd: %w", err)
	}

	cfg = normalizeConfig(cfg, len(mag))

	maxBin := len(mag) - 1
	binHz := cfg.SampleRate / float64(cfg.FFTSize)
	lower := core.ClampInt(int(math.Round(cfg.RangeLowerFreq/binHz)), 1, maxBin)
	upper := core.ClampInt(int(math.Round(cfg.RangeUpperFreq/binHz)), lower, maxBin)

	fundamental := findFundamental(mag, lower, upper, cfg.FundamentalFreq/binHz)

	capture := cfg.CaptureBins
	if capture == 0 {
		capture = lobeHalfWidth(cfg.Window)
	}

	// Keep neighbouring harmonic lobes apart.
	capture = min(capture, max(fundamental/2-1, 0))

	fundLevel := lobeLevel(mag, fundamental, capture)

	res := Result{FundamentalFreq: float64(fundamental) * binHz, FundamentalLevel: fundLevel}
	if fundLevel <= 0 {
		res.THDdB = math.Inf(-1)
		res.THDNdB = math.Inf(-1)

		return res, nil
	}

	var thdSq, oddSq, evenSq float64

	for k := 2; k-2 < cfg.MaxHarmonics; k++ {
		bin := k * fundamental
		if bin > upper {
			break
		}

		rel := lobeLevel(mag, bin, capture) / fundLevel
		thdSq += rel * rel

		if k%2 == 0 {
			evenSq += rel * rel
		} else {
			oddSq += rel * rel
		}

		res.Harmonics = append(res.Harmonics, Harmonic{
			Order:     k,
			Frequency: float64(bin) * binHz,
			Level:     rel,
			DB:        core.LinearToDB(rel),
		})
	}

	var totalSq float64
	for i := lower; i <= upper; i++ {
		totalSq += mag[i] * mag[i]
	}

	residualSq := math.Max(totalSq-fundLevel*fundLevel, 0)

	res.THD = math.Sqrt(thdSq)
	res.OddHD = math.Sqrt(oddSq)
	res.EvenHD = math.Sqrt(evenSq)
	res.THDN = math.Sqrt(residualSq) / fundLevel
	res.THDdB = core.LinearToDB(res.THD)
	res.THDNdB = core.LinearToDB(res.THDN)

	return res, nil
}

func normalizeConfig(cfg Config, bins int) Config {
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 2 * (bins - 1)
	}

	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = defaultRangeLowerHz
	}

	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = defaultRangeUpperHz
	}

	if cfg.RangeUpperFreq < cfg.RangeLowerFreq {
		cfg.RangeUpperFreq = cfg.RangeLowerFreq
	}

	if cfg.MaxHarmonics <= 0 {
		cfg.MaxHarmonics = defaultMaxHarmonics
	}

	cfg.CaptureBins = max(cfg.CaptureBins, 0)

	return cfg
}

func findFundamental(mag []float64, lower, upper int, pinned float64) int {
	if pinned > 0 {
		return core.ClampInt(int(math.Round(pinned)), lower, upper)
	}

	best := lower
	for i := lower + 1; i <= upper; i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}

	return best
}

func lobeHalfWidth(t window.Type) int {
	switch t {
	case window.TypeRectangular:
		return 1
	case window.TypeHann, window.TypeHamming:
		return 2
	case window.TypeBlackman:
		return 3
	case window.TypeBlackmanHarris4Term:
		return 4
	case window.TypeFlatTop:
		return 5
	default:
		return 3
	}
}

// lobeLevel is the root-sum-square of the bins within capture of center.
func lobeLevel(mag []float64, center, capture int) float64 {
	lo := max(center-capture, 0)
	hi := min(center+capture, len(mag)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += mag[i] * mag[i]
	}

	return math.Sqrt(sum)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
