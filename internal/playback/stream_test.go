package playback

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-mbdist/dsp/signal"
	"github.com/cwbudde/algo-mbdist/engine"
)

func newEngine(t *testing.T, channels int) *engine.Engine {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	e, err := engine.NewEngine(48000, engine.WithChannels(channels), engine.WithLogger(logger))
	require.NoError(t, err)

	return e
}

func TestNewStreamValidation(t *testing.T) {
	tone, err := signal.NewTone(440, 0.5, 48000)
	require.NoError(t, err)

	_, err = NewStream(nil, tone, 64)
	assert.Error(t, err)

	_, err = NewStream(newEngine(t, 2), tone, 0)
	assert.Error(t, err)
}

func TestReadInterleavesChannels(t *testing.T) {
	eng := newEngine(t, 2)
	require.NoError(t, eng.SetParam(engine.ParamDistType, 2))

	tone, err := signal.NewTone(1000, 0.5, 48000)
	require.NoError(t, err)

	s, err := NewStream(eng, tone, 32)
	require.NoError(t, err)

	// Read a size that is not a multiple of the block.
	buf := make([]byte, 100*2*BytesPerSample)
	n, err := s.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)

	ref, err := signal.NewTone(1000, 0.5, 48000)
	require.NoError(t, err)

	want := make([]float64, 100)
	ref.Fill(want)

	refEng := newEngine(t, 1)
	require.NoError(t, refEng.SetParam(engine.ParamDistType, 2))

	// Smoothers are shared across channels and static at 0 dB, so a mono
	// engine gives the same per-sample values.
	out := make([]float64, 100)
	refEng.Process([][]float64{want}, [][]float64{out})

	for f := range 100 {
		l := math.Float32frombits(binary.LittleEndian.Uint32(buf[(2*f)*BytesPerSample:]))
		r := math.Float32frombits(binary.LittleEndian.Uint32(buf[(2*f+1)*BytesPerSample:]))

		assert.Equal(t, l, r, "frame %d", f)
		assert.InDelta(t, out[f], float64(l), 1e-6, "frame %d", f)
	}
}

func TestLevels(t *testing.T) {
	eng := newEngine(t, 1)
	require.NoError(t, eng.SetParam(engine.ParamDistType, 6))

	tone, err := signal.NewTone(1000, 0.5, 48000)
	require.NoError(t, err)

	s, err := NewStream(eng, tone, 480)
	require.NoError(t, err)

	for range 10 {
		s.Next()
	}

	r := s.Levels()
	assert.Equal(t, 4800, r.Samples)
	assert.InDelta(t, 0.5, r.Peak, 1e-3)
	assert.InDelta(t, 0.5/math.Sqrt2, r.RMS, 1e-3)

	s.ResetLevels()
	assert.Zero(t, s.Levels().Samples)
}
