// Package frequency computes spectral shape descriptors from one-sided
// linear magnitude spectra (bins 0..N/2).
package frequency

import "math"

// Shape summarizes a magnitude spectrum.
type Shape struct {
	Centroid float64
	Spread   float64
	Flatness float64
	Rolloff  float64
	PeakFreq float64
}

// Describe computes every descriptor of Shape. Rolloff uses 85% energy.
func Describe(magnitude []float64, sampleRate float64) Shape {
	s := Shape{
		Centroid: Centroid(magnitude, sampleRate),
		Flatness: Flatness(magnitude),
		Rolloff:  Rolloff(magnitude, sampleRate, 0.85),
	}
	s.Spread = Spread(magnitude, sampleRate, s.Centroid)

	peak := 0
	for i, m := range magnitude {
		if m > magnitude[peak] {
			peak = i
		}
	}

	if len(magnitude) > 1 {
		s.PeakFreq = binFreq(peak, sampleRate, len(magnitude))
	}

	return s
}

// Centroid returns the magnitude-weighted mean frequency in Hz.
func Centroid(magnitude []float64, sampleRate float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}

	var num, den float64
	for i, m := range magnitude {
		num += binFreq(i, sampleRate, len(magnitude)) * m
		den += m
	}

	if den == 0 {
		return 0
	}

	return num / den
}

// Spread returns the magnitude-weighted standard deviation around centroid.
func Spread(magnitude []float64, sampleRate, centroid float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}

	var num, den float64
	for i, m := range magnitude {
		d := binFreq(i, sampleRate, len(magnitude)) - centroid
		num += d * d * m
		den += m
	}

	if den == 0 {
		return 0
	}

	return math.Sqrt(num / den)
}

// Flatness returns the geometric over arithmetic mean of the bins above
// DC, in [0, 1]. A zero bin makes the spectrum maximally tonal (0).
func Flatness(magnitude []float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}

	bins := magnitude[1:]

	var logSum, sum float64
	for _, m := range bins {
		if m <= 0 {
			return 0
		}

		logSum += math.Log(m)
		sum += m
	}

	n := float64(len(bins))

	return math.Exp(logSum/n) / (sum / n)
}

// Rolloff returns the lowest frequency below which fraction of the total
// energy lies.
func Rolloff(magnitude []float64, sampleRate, fraction float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}

	total := 0.0
	for _, m := range magnitude {
		total += m * m
	}

	if total == 0 {
		return 0
	}

	target := fraction * total
	acc := 0.0

	for i, m := range magnitude {
		acc += m * m
		if acc >= target {
			return binFreq(i, sampleRate, len(magnitude))
		}
	}

	return binFreq(len(magnitude)-1, sampleRate, len(magnitude))
}

func binFreq(i int, sampleRate float64, bins int) float64 {
	return float64(i) * sampleRate / float64(2*(bins-1))
}
