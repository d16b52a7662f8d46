package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mbdist/internal/testutil"
)

func TestOneShot(t *testing.T) {
	sine := testutil.DeterministicSine(1000, 48000, 0.5, 48000)

	testutil.RequireNearlyEqual(t, Peak(sine), 0.5, 1e-6, "peak")
	testutil.RequireNearlyEqual(t, RMS(sine), 0.5/math.Sqrt2, 1e-6, "rms")
	testutil.RequireNearlyEqual(t, CrestFactor(sine), math.Sqrt2, 1e-5, "crest")

	if RMS(nil) != 0 || CrestFactor(make([]float64, 8)) != 0 || Peak(nil) != 0 {
		t.Fatal("empty and silent input must measure 0")
	}
}

func TestMeterMatchesOneShot(t *testing.T) {
	noise := testutil.DeterministicNoise(9, 0.7, 4096)

	var m Meter
	for i := 0; i < len(noise); i += 300 {
		m.Update(noise[i:min(i+300, len(noise))])
	}

	r := m.Reading()
	if r.Samples != len(noise) {
		t.Fatalf("samples=%d, want %d", r.Samples, len(noise))
	}

	testutil.RequireNearlyEqual(t, r.Peak, Peak(noise), 0, "peak")
	testutil.RequireNearlyEqual(t, r.RMS, RMS(noise), 1e-12, "rms")
	testutil.RequireNearlyEqual(t, r.PeakDB, 20*math.Log10(r.Peak), 1e-12, "peak dB")
}

func TestMeterClippedAndReset(t *testing.T) {
	var m Meter
	m.Update([]float64{0.5, 1, -1.2, 0.99})

	if got := m.Reading().Clipped; got != 2 {
		t.Fatalf("clipped=%d, want 2", got)
	}

	m.Reset()

	r := m.Reading()
	if r.Samples != 0 || r.Peak != 0 || !math.IsInf(r.RMSDB, -1) {
		t.Fatalf("after reset: %+v", r)
	}
}
