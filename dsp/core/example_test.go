package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-mbdist/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Channels)

	// Output:
	// sampleRate=44100 blockSize=256 channels=2
}

func ExampleDBToLinear() {
	fmt.Printf("%.4f\n", core.DBToLinear(-0.1))

	// Output:
	// 0.9886
}
