package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mbdist/internal/testutil"
)

func newTestStage(t *testing.T) *GainStage {
	t.Helper()

	g, err := NewGainStage(48000)
	if err != nil {
		t.Fatalf("NewGainStage() error = %v", err)
	}

	return g
}

func TestGainStageValidation(t *testing.T) {
	if _, err := NewGainStage(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	if _, err := NewGainStage(48000, WithSmoothingTime(-1)); err == nil {
		t.Fatal("expected error for negative smoothing time")
	}
}

func TestGainStageUnityPassesShaper(t *testing.T) {
	g := newTestStage(t)
	s := Settings{Mode: ModeArctan, Order: 1}

	got := g.Process(0.5, s)
	testutil.RequireNearlyEqual(t, got, 0.5*3/(1+0.28*2.25), 1e-6, "arctan at 0 dB")
}

func TestGainStageAutoCompensationConverges(t *testing.T) {
	for _, gain := range []float64{-36, -12, -0.5, 6, 24, 36} {
		g := newTestStage(t)
		s := Settings{Mode: ModeReserved6, InputGainDB: gain, OutputGainDB: 17, AutoGain: true}

		var y float64
		for range 48000 {
			y = g.Process(0.25, s)
		}

		testutil.RequireNearlyEqual(t, g.InputGainDB(), gain, 1e-9, "input smoother")
		testutil.RequireNearlyEqual(t, g.OutputGainDB(), -gain, 1e-9, "output smoother")
		testutil.RequireNearlyEqual(t, y/0.25, 1, 1e-9, "net linear gain")
	}
}

func TestGainStageManualOutputGain(t *testing.T) {
	g := newTestStage(t)
	s := Settings{Mode: ModeReserved6, OutputGainDB: -6}

	var y float64
	for range 48000 {
		y = g.Process(1, s)
	}

	testutil.RequireNearlyEqual(t, y, math.Pow(10, -6.0/20), 1e-9, "manual output gain")
}

func TestGainStageSmoothsGainChanges(t *testing.T) {
	g := newTestStage(t)
	s := Settings{Mode: ModeReserved6, InputGainDB: 24, AutoGain: false}

	// The first sample must move only a fraction of the step.
	y := g.Process(1, s)
	if y > 1.2 {
		t.Fatalf("first sample after +24 dB step jumped to %g", y)
	}
}

func TestGainStageClipping(t *testing.T) {
	in := testutil.DeterministicSine(997, 48000, 1, 48000)
	ceiling := math.Pow(10, -0.1/20)

	clipped := newTestStage(t)
	clipped.Reset(Settings{InputGainDB: 12})
	s := Settings{Mode: ModeReserved6, InputGainDB: 12, Clip: true}

	out := make([]float64, len(in))
	copy(out, in)
	clipped.ProcessInPlace(out, s)

	if peak := testutil.MaxAbs(out); peak > ceiling+1e-15 {
		t.Fatalf("clipped peak %g exceeds ceiling %g", peak, ceiling)
	}

	free := newTestStage(t)
	free.Reset(Settings{InputGainDB: 12})
	s.Clip = false

	copy(out, in)
	free.ProcessInPlace(out, s)

	if peak := testutil.MaxAbs(out); peak < 3.9 {
		t.Fatalf("unclipped peak %g, want ~%g", peak, math.Pow(10, 12.0/20))
	}
}

func TestGainStageClipLevel(t *testing.T) {
	g := newTestStage(t)
	testutil.RequireNearlyEqual(t, g.ClipLevel(), math.Pow(10, -0.1/20), 1e-15, "clip level")
}

func TestGainStageReplacesNonFinite(t *testing.T) {
	g := newTestStage(t)

	for _, mode := range Modes() {
		for _, clip := range []bool{false, true} {
			s := Settings{Mode: mode, Order: 5, Clip: clip}
			for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				if got := g.Process(x, s); got != 0 {
					t.Fatalf("mode=%v clip=%v x=%v: got %v, want 0", mode, clip, x, got)
				}
			}
		}
	}
}

func TestGainStageSetSampleRate(t *testing.T) {
	g := newTestStage(t)
	if err := g.SetSampleRate(96000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}
	if g.SampleRate() != 96000 {
		t.Fatalf("SampleRate() = %g, want 96000", g.SampleRate())
	}
	if err := g.SetSampleRate(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Mode != ModeSoftAsymmetric || s.Order != 3 || !s.AutoGain || s.Clip {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}
