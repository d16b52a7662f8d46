package effects

import "testing"

func BenchmarkShape(b *testing.B) {
	for _, mode := range Modes()[:5] {
		b.Run(mode.String(), func(b *testing.B) {
			x := -1.0
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				_ = Shape(x, mode, 5)

				x += 1e-3
				if x > 1 {
					x = -1
				}
			}
		})
	}
}

func BenchmarkGainStageProcess(b *testing.B) {
	g, err := NewGainStage(48000)
	if err != nil {
		b.Fatal(err)
	}

	s := Settings{Mode: ModeChebyshev, Order: 5, InputGainDB: 6, AutoGain: true, Clip: true}
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = g.Process(0.3, s)
	}
}
