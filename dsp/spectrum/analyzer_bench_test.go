package spectrum

import (
	"math"
	"testing"
)

func BenchmarkAnalyzerSendInput(b *testing.B) {
	a, err := NewAnalyzer(48000)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		a.SendInput(math.Sin(float64(i) * 0.01))
	}
}

func BenchmarkAnalyzerBins(b *testing.B) {
	a, err := NewAnalyzer(48000)
	if err != nil {
		b.Fatal(err)
	}

	dst := make([]Bin, a.BinCount())
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		dst = a.Bins(dst)
	}
}
