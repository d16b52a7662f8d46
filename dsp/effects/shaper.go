package effects

import (
	"math"

	"github.com/cwbudde/algo-mbdist/dsp/core"
)

const (
	softClipThreshold = 0.9
	foldbackThreshold = 0.9
	arctanDrive       = 3.0
	sineAmount        = 1.6
	sinePull          = 0.8

	// MinChebyshevOrder and MaxChebyshevOrder bound the polynomial order.
	MinChebyshevOrder = 1
	MaxChebyshevOrder = 5
)

// TransferFunc is a memoryless waveshaper. order is only read by the
// Chebyshev shaper.
type TransferFunc func(x float64, order int) float64

// transferTable holds one function per implemented mode. Reserved modes
// stay nil and pass through.
var transferTable = [MaxMode + 1]TransferFunc{
	ModeSoftAsymmetric: func(x float64, _ int) float64 { return SoftAsymmetricClip(x) },
	ModeArctan:         func(x float64, _ int) float64 { return ArctanShape(x) },
	ModeSine:           func(x float64, _ int) float64 { return SineShape(x) },
	ModeFoldback:       func(x float64, _ int) float64 { return Foldback(x) },
	ModeChebyshev:      ChebyshevBlend,
}

// Precomputed constants of the fixed-amount sine shaper.
var (
	sineZ      = math.Pi * sineAmount / 4
	sineScale  = 1 / math.Sin(sineZ)
	sineKnee   = 1 / sineAmount
	sineMakeup = math.Pow(10, -sineAmount/20)
)

// Shape applies the transfer function selected by mode. Out-of-range and
// reserved modes return x unchanged.
func Shape(x float64, mode Mode, order int) float64 {
	if !mode.Valid() {
		return x
	}

	fn := transferTable[mode]
	if fn == nil {
		return x
	}

	return fn(x, order)
}

// SoftAsymmetricClip saturates only above +0.9; everything below passes.
func SoftAsymmetricClip(x float64) float64 {
	const t = softClipThreshold

	if x > t {
		d := x - t
		r := d / (1 - t)

		return t + d/(1+r*r)
	}

	// Never taken: any x > 1 already exceeds the threshold. Kept so the
	// branch structure matches the published algorithm.
	if x > 1 {
		return (x + 1) / 2
	}

	return x
}

// FastAtan is the rational approximation x / (1 + 0.28x²). It is not a true
// arctangent and is not bounded for large |x|.
func FastAtan(x float64) float64 {
	return x / (1.0 + 0.28*(x*x))
}

// ArctanShape drives x by 3 into FastAtan.
func ArctanShape(x float64) float64 {
	return FastAtan(x * arctanDrive)
}

// SineShape is the sine waveshaper with its fixed amount of 1.6.
func SineShape(x float64) float64 {
	switch {
	case x > sineKnee:
		x += (1 - x) * sinePull
	case x < -sineKnee:
		x += (-1 - x) * sinePull
	default:
		x = math.Sin(sineZ*x) * sineScale
	}

	return x * sineMakeup
}

// SineShapeAmount is the sine waveshaper for an arbitrary amount. When the
// amount yields a non-finite scale or knee (amount == 0, or sin(z) == 0) the
// shaper is bypassed and x is returned unchanged.
func SineShapeAmount(x, amount float64) float64 {
	z := math.Pi * amount / 4
	s := 1 / math.Sin(z)
	b := 1 / amount
	makeup := math.Pow(10, -amount/20)

	if !core.IsFinite(s) || !core.IsFinite(b) || !core.IsFinite(makeup) {
		return x
	}

	switch {
	case x > b:
		x += (1 - x) * sinePull
	case x < -b:
		x += (-1 - x) * sinePull
	default:
		x = math.Sin(z*x) * s
	}

	return x * makeup
}

// Foldback reflects any overshoot beyond ±0.9 back into range.
func Foldback(x float64) float64 {
	const t = foldbackThreshold

	if x > t || x < -t {
		return math.Abs(math.Abs(math.Mod(x-t, t*4))-t*2) - t
	}

	return x
}

// ChebyshevTerms returns T1..T5 of x. The fifth term uses -7x instead of the
// canonical +5x; that variant is what the mode was tuned with.
func ChebyshevTerms(x float64) [MaxChebyshevOrder]float64 {
	x2 := x * x
	x3 := x2 * x

	return [MaxChebyshevOrder]float64{
		x,
		2*x2 - 1,
		4*x3 - 3*x,
		8*x2*x2 - 8*x2 + 1,
		16*x3*x2 - 20*x3 - 7*x,
	}
}

// ChebyshevBlend folds T2..T_order into x as a running average:
// y = (y + T_i) / 2 for i = 2..order. Order 1 is the identity. order is
// clamped to [1, 5].
func ChebyshevBlend(x float64, order int) float64 {
	order = core.ClampInt(order, MinChebyshevOrder, MaxChebyshevOrder)
	if order == 1 {
		return x
	}

	terms := ChebyshevTerms(x)

	y := x
	for i := 1; i < order; i++ {
		y = (y + terms[i]) * 0.5
	}

	return y
}
