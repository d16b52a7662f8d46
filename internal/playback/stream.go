// Package playback renders a signal source through an engine into a PCM
// byte stream and plays it through the system audio device.
package playback

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-mbdist/dsp/core"
	"github.com/cwbudde/algo-mbdist/dsp/signal"
	"github.com/cwbudde/algo-mbdist/engine"
	"github.com/cwbudde/algo-mbdist/stats/level"
)

// BytesPerSample is the size of one float32 LE sample.
const BytesPerSample = 4

// Stream feeds a mono source to every engine channel, block by block, and
// exposes the result as interleaved float32 little-endian PCM.
type Stream struct {
	eng       *engine.Engine
	src       signal.Source
	channels  int
	blockSize int

	in  [][]float64
	out [][]float64

	pending []byte
	offset  int

	mu    sync.Mutex
	meter level.Meter
}

// NewStream creates a stream rendering blockSize frames per engine call
// across the engine's channel count.
func NewStream(eng *engine.Engine, src signal.Source, blockSize int) (*Stream, error) {
	if eng == nil || src == nil {
		return nil, fmt.Errorf("stream requires an engine and a source")
	}

	if blockSize < 1 {
		return nil, fmt.Errorf("stream block size must be >= 1: %d", blockSize)
	}

	channels := eng.Channels()

	return &Stream{
		eng:       eng,
		src:       src,
		channels:  channels,
		blockSize: blockSize,
		in:        core.EnsureChannels(nil, channels, blockSize),
		out:       core.EnsureChannels(nil, channels, blockSize),
		pending:   make([]byte, blockSize*channels*BytesPerSample),
		offset:    blockSize * channels * BytesPerSample,
	}, nil
}

// Next renders one block and returns the engine output buffers. The
// buffers are reused by the next call.
func (s *Stream) Next() [][]float64 {
	s.src.Fill(s.in[0])

	for c := 1; c < s.channels; c++ {
		copy(s.in[c], s.in[0])
	}

	s.eng.Process(s.in, s.out)

	s.mu.Lock()
	for _, ch := range s.out {
		s.meter.Update(ch)
	}
	s.mu.Unlock()

	return s.out
}

// Read implements io.Reader. It never returns an error.
func (s *Stream) Read(p []byte) (int, error) {
	n := 0

	for n < len(p) {
		if s.offset == len(s.pending) {
			s.encode(s.Next())
		}

		c := copy(p[n:], s.pending[s.offset:])
		s.offset += c
		n += c
	}

	return n, nil
}

func (s *Stream) encode(block [][]float64) {
	i := 0

	for f := range s.blockSize {
		for c := range s.channels {
			v := float32(block[c][f])
			binary.LittleEndian.PutUint32(s.pending[i:], math.Float32bits(v))
			i += BytesPerSample
		}
	}

	s.offset = 0
}

// Levels returns the output meter reading since the last ResetLevels.
func (s *Stream) Levels() level.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.meter.Reading()
}

// ResetLevels clears the output meter.
func (s *Stream) ResetLevels() {
	s.mu.Lock()
	s.meter.Reset()
	s.mu.Unlock()
}

// Channels returns the interleaved channel count.
func (s *Stream) Channels() int { return s.channels }

// BlockSize returns the frames rendered per engine call.
func (s *Stream) BlockSize() int { return s.blockSize }
