package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mbdist/dsp/core"
)

func TestSineLength(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))

	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}

	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
}

func TestSineValidation(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))

	if _, err := g.Sine(1000, 1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}

	if _, err := g.Sine(30000, 1, 16); err == nil {
		t.Fatal("expected error above Nyquist")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(42))
	g2 := NewGeneratorWithOptions(nil, WithSeed(42))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	n2, err := g2.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}

		if math.Abs(n1[i]) > 1 {
			t.Fatalf("noise[%d]=%v exceeds amplitude", i, n1[i])
		}
	}
}

func TestSetSeed(t *testing.T) {
	g := NewGenerator()
	g.SetSeed(99)

	if g.Seed() != 99 {
		t.Fatalf("Seed()=%d, want 99", g.Seed())
	}

	if _, err := g.WhiteNoise(-1, 8); err == nil {
		t.Fatal("expected error for negative amplitude")
	}
}

func TestPinkNoiseBounded(t *testing.T) {
	g := NewGenerator()

	p, err := g.PinkNoise(0.5, 48000)
	if err != nil {
		t.Fatalf("PinkNoise() error = %v", err)
	}

	sum := 0.0
	for i, v := range p {
		if math.Abs(v) > 0.5 {
			t.Fatalf("pink[%d]=%v exceeds amplitude", i, v)
		}

		sum += v * v
	}

	if sum == 0 {
		t.Fatal("pink noise is silent")
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{0, 0}, 1)
	if err != nil || out[0] != 0 || out[1] != 0 {
		t.Fatalf("Normalize silent = %v, %v", out, err)
	}

	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("expected error for empty input")
	}

	if _, err := Normalize([]float64{1}, -1); err == nil {
		t.Fatal("expected error for negative target")
	}
}
