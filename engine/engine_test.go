package engine

import (
	"math"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-mbdist/dsp/core"
	"github.com/cwbudde/algo-mbdist/dsp/effects"
	"github.com/cwbudde/algo-mbdist/dsp/spectrum"
	"github.com/cwbudde/algo-mbdist/internal/testutil"
	"github.com/cwbudde/algo-mbdist/param"
)

const fs = 48000.0

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	logger, _ := logtest.NewNullLogger()
	opts = append([]Option{WithLogger(logger)}, opts...)

	e, err := NewEngine(fs, opts...)
	require.NoError(t, err)

	return e
}

func processMono(e *Engine, in []float64) []float64 {
	out := make([]float64, len(in))
	e.Process([][]float64{in}, [][]float64{out})

	return out
}

func TestDefaults(t *testing.T) {
	e := newTestEngine(t)

	s := e.Settings()
	assert.Equal(t, effects.ModeSoftAsymmetric, s.Mode)
	assert.Equal(t, 3, s.Order)
	assert.True(t, s.AutoGain)
	assert.False(t, s.Clip)
	assert.Zero(t, s.InputGainDB)
	assert.Zero(t, s.OutputGainDB)
	assert.Equal(t, 2, e.Channels())
	assert.Equal(t, NumParams, e.Registry().Count())

	minHz, maxHz, floor := e.DisplayRange()
	assert.Equal(t, 20.0, minHz)
	assert.Equal(t, 20000.0, maxHz)
	assert.Equal(t, -60.0, floor)
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(0)
	require.ErrorIs(t, err, ErrInvalidSampleRate)

	_, err = NewEngine(math.Inf(1))
	require.ErrorIs(t, err, ErrInvalidSampleRate)

	_, err = NewEngine(fs, WithChannels(0))
	require.Error(t, err)

	_, err = NewEngine(fs, WithSmoothingTime(-1))
	require.Error(t, err)

	_, err = NewEngine(fs, WithAnalyzerOptions(spectrum.WithFFTSize(1000)))
	require.ErrorIs(t, err, spectrum.ErrInvalidFFTSize)

	_, err = NewEngine(fs, WithRegistry(param.NewRegistry()))
	require.ErrorIs(t, err, param.ErrUnknownParameter)
}

func TestArctanEndToEnd(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.SetParam(ParamDistType, 2))
	require.NoError(t, e.SetParam(ParamOutputClipping, 0))

	out := processMono(e, []float64{0.5})
	assert.InDelta(t, 1.5/1.63, out[0], 1e-6)
	assert.InDelta(t, 0.9202, out[0], 1e-4)
}

func TestAutoGainNetUnity(t *testing.T) {
	for _, g := range []float64{-24, -6, 0, 9, 30} {
		e := newTestEngine(t)

		// Reserved mode passes through, isolating the gain staging.
		require.NoError(t, e.SetParam(ParamDistType, 6))
		require.NoError(t, e.SetParam(ParamInputGain, g))

		in := testutil.DC(0.01, int(fs))
		out := processMono(e, in)

		assert.InDelta(t, 1.0, out[len(out)-1]/in[len(in)-1], 1e-9, "input gain %v dB", g)
	}
}

func TestManualOutputGain(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.SetParam(ParamDistType, 6))
	require.NoError(t, e.SetParam(ParamAutoGain, 0))
	require.NoError(t, e.SetParam(ParamOutputGain, -6))

	out := processMono(e, testutil.DC(0.5, int(fs)))
	assert.InDelta(t, 0.5*core.DBToLinear(-6), out[len(out)-1], 1e-9)
}

func TestOutputClipping(t *testing.T) {
	ceiling := math.Pow(10, -0.1/20)
	in := testutil.DeterministicSine(440, fs, 0.9, int(fs/4))

	e := newTestEngine(t)
	require.NoError(t, e.SetParam(ParamDistType, 6))
	require.NoError(t, e.SetParam(ParamAutoGain, 0))
	require.NoError(t, e.SetParam(ParamInputGain, 12))
	require.NoError(t, e.SetParam(ParamOutputClipping, 1))

	for _, y := range processMono(e, in) {
		require.LessOrEqual(t, math.Abs(y), ceiling+1e-15)
	}

	require.NoError(t, e.SetParam(ParamOutputClipping, 0))

	out := processMono(e, in)
	assert.Greater(t, testutil.MaxAbs(out), 1.0, "clip off must not clamp")
}

func TestModeChangeTakesEffectNextBlock(t *testing.T) {
	e := newTestEngine(t)

	first := processMono(e, []float64{0.5})
	assert.InDelta(t, 0.5, first[0], 1e-12, "soft clip is identity below threshold")

	require.NoError(t, e.SetParam(ParamDistType, 4))
	require.NoError(t, e.SetParam(ParamInputGain, 0))

	second := processMono(e, []float64{0.95})
	assert.InDelta(t, effects.Foldback(0.95), second[0], 1e-12)
}

func TestChebyshevOrderParameter(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.SetParam(ParamDistType, 5))
	require.NoError(t, e.SetParam(ParamNumPolynomials, 1))

	out := processMono(e, []float64{0.3, -0.7})
	assert.InDelta(t, 0.3, out[0], 1e-12)
	assert.InDelta(t, -0.7, out[1], 1e-12)

	require.NoError(t, e.SetParam(ParamNumPolynomials, 5))

	out = processMono(e, []float64{0.3})
	assert.InDelta(t, effects.ChebyshevBlend(0.3, 5), out[0], 1e-12)
}

func TestNonFiniteInputBecomesZero(t *testing.T) {
	e := newTestEngine(t)

	for _, mode := range effects.Modes() {
		require.NoError(t, e.SetParam(ParamDistType, float64(mode)))

		out := processMono(e, []float64{math.NaN(), math.Inf(1), math.Inf(-1)})
		assert.Equal(t, []float64{0, 0, 0}, out, "mode %v", mode)
	}
}

func TestDisplayPushedOncePerBlock(t *testing.T) {
	var (
		calls int
		size  int
	)

	e := newTestEngine(t,
		WithAnalyzerOptions(spectrum.WithFFTSize(256)),
		WithDisplay(DisplayFunc(func(bins []spectrum.Bin) {
			calls++
			size = len(bins)
		})),
	)

	in := testutil.DeterministicSine(1000, fs, 0.5, 64)
	for range 5 {
		processMono(e, in)
	}

	assert.Equal(t, 5, calls)
	assert.Equal(t, 129, size)

	e.AttachDisplay(nil)
	processMono(e, in)
	assert.Equal(t, 5, calls)
}

func TestDisplayDoesNotAffectAudio(t *testing.T) {
	in := testutil.DeterministicNoise(3, 0.8, 4096)

	plain := newTestEngine(t)
	withDisplay := newTestEngine(t, WithDisplay(DisplayFunc(func([]spectrum.Bin) {})))

	for _, e := range []*Engine{plain, withDisplay} {
		require.NoError(t, e.SetParam(ParamDistType, 3))
	}

	assert.Equal(t, processMono(plain, in), processMono(withDisplay, in))
}

func TestAnalyzerSeesEveryChannel(t *testing.T) {
	e := newTestEngine(t, WithAnalyzerOptions(spectrum.WithFFTSize(256)))

	left := testutil.DeterministicSine(1000, fs, 0.5, 128)
	right := testutil.DeterministicSine(1000, fs, 0.5, 128)

	e.Process([][]float64{left, right}, [][]float64{make([]float64, 128), make([]float64, 128)})
	assert.Equal(t, uint64(1), e.AnalyzerFrames())
}

func TestInPlaceProcessing(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.SetParam(ParamDistType, 2))

	buf := []float64{0.5, -0.5}
	e.Process([][]float64{buf}, [][]float64{buf})

	assert.InDelta(t, 0.9202, buf[0], 1e-4)
	assert.InDelta(t, -0.9202, buf[1], 1e-4)
}

func TestDrive2Ignored(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	e, err := NewEngine(fs, WithLogger(logger))
	require.NoError(t, err)

	require.NoError(t, e.SetParam(ParamDrive1, 0.25))
	require.NoError(t, e.SetParam(ParamDrive2, 0.75))
	require.NoError(t, e.SetParam(ParamMix2, 0.5))

	s := e.Settings()
	assert.Equal(t, 0.25, s.Drive[0])
	assert.Zero(t, s.Drive[1])
	assert.Equal(t, 0.5, s.Mix[1])
	assert.Equal(t, 0.75, e.Registry().Get(ParamDrive2).Value())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "parameter changed", entry.Message)

	found := false
	for _, en := range hook.AllEntries() {
		if en.Message == "parameter change ignored" && en.Data["param"] == "Drive 2" {
			found = true
		}
	}

	assert.True(t, found, "Drive 2 notification must be logged as ignored")
}

func TestReset(t *testing.T) {
	e := newTestEngine(t, WithAnalyzerOptions(spectrum.WithFFTSize(256)))
	processMono(e, testutil.DeterministicSine(1000, fs, 0.5, 512))
	require.NotZero(t, e.AnalyzerFrames())

	require.NoError(t, e.Reset(96000))
	assert.Equal(t, 96000.0, e.SampleRate())
	assert.Zero(t, e.AnalyzerFrames())

	bins := e.Spectrum(nil)
	require.Len(t, bins, 129)
	assert.InDelta(t, 48000, bins[128].Frequency, 1e-9)

	require.ErrorIs(t, e.Reset(-1), ErrInvalidSampleRate)
	assert.Equal(t, 96000.0, e.SampleRate())
}

func TestSharedRegistry(t *testing.T) {
	r := NewRegistry()
	e := newTestEngine(t, WithRegistry(r))

	require.NoError(t, r.Set(ParamInputGain, 6))
	assert.Equal(t, 6.0, e.Settings().InputGainDB)
}

func TestConcurrentParamChanges(t *testing.T) {
	e := newTestEngine(t)
	in := testutil.DeterministicNoise(1, 0.5, 512)
	out := make([]float64, len(in))

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := range 200 {
			_ = e.SetParam(ParamDistType, float64(i%8+1))
			_ = e.SetParam(ParamInputGain, float64(i%24))
		}
	}()

	for range 200 {
		e.Process([][]float64{in}, [][]float64{out})
		testutil.RequireFinite(t, out)
	}

	wg.Wait()

	s := e.Settings()
	assert.True(t, s.Mode.Valid())
}
