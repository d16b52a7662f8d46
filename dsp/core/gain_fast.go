//go:build fastmath

package core

import (
	"github.com/meko-christian/algo-approx"
)

// ln10Over20 converts a dB value into the exponent of e: 10^(db/20) = e^(db*ln10/20).
const ln10Over20 = 0.115129254649702284200899572734218210380055074431438648801

// DBToLinear converts dB to linear amplitude using a fast exponential
// approximation. Intended for builds where per-sample gain conversion
// dominates and ~1e-4 relative error is acceptable.
func DBToLinear(db float64) float64 {
	return approx.FastExp(db * ln10Over20)
}
