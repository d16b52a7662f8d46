package core

import (
	"fmt"
	"math"
)

// Processing limits shared by the engine and its hosts.
const (
	MinSampleRate = 8000
	MaxSampleRate = 384000
	MaxBlockSize  = 8192
	MaxChannels   = 8
)

// ProcessorConfig describes how a host drives the engine.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	Channels   int
}

// ProcessorOption mutates a ProcessorConfig. Non-positive values are ignored
// so hosts can pass unset flags straight through.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the defaults used by the engine and demo host.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  512,
		Channels:   2,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the frames per processing call.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the channel count.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports the first field outside the supported limits.
func (c ProcessorConfig) Validate() error {
	if math.IsNaN(c.SampleRate) || c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("sample rate must be in [%d, %d]: %v", MinSampleRate, MaxSampleRate, c.SampleRate)
	}
	if c.BlockSize < 1 || c.BlockSize > MaxBlockSize {
		return fmt.Errorf("block size must be in [1, %d]: %d", MaxBlockSize, c.BlockSize)
	}
	if c.Channels < 1 || c.Channels > MaxChannels {
		return fmt.Errorf("channels must be in [1, %d]: %d", MaxChannels, c.Channels)
	}
	return nil
}
