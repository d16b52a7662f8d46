package engine

import "github.com/cwbudde/algo-mbdist/param"

// Parameter IDs, in host declaration order.
const (
	ParamDistType param.ID = iota
	ParamNumPolynomials
	ParamInputGain
	ParamDrive1
	ParamDrive2
	ParamDrive3
	ParamDrive4
	ParamMix1
	ParamMix2
	ParamMix3
	ParamMix4
	ParamOutputGain
	ParamAutoGain
	ParamOutputClipping

	NumParams = int(ParamOutputClipping) + 1
)

const gainStep = 0.0001

// NewRegistry returns a registry holding the full parameter table with
// defaults.
func NewRegistry() *param.Registry {
	r := param.NewRegistry()

	params := []*param.Parameter{
		param.Int(ParamDistType, "Distortion Type", 1, 8, 1),
		param.Int(ParamNumPolynomials, "Num Chebyshev Polynomials", 1, 5, 3),
		param.Float(ParamInputGain, "Input Gain", "dB", -36, 36, gainStep, 0),
	}

	for i := range 4 {
		params = append(params, param.Float(ParamDrive1+param.ID(i), driveNames[i], "", 0, 1, 0, 0))
	}

	for i := range 4 {
		params = append(params, param.Float(ParamMix1+param.ID(i), mixNames[i], "", 0, 1, 0, 0))
	}

	params = append(params,
		param.Float(ParamOutputGain, "Output Gain", "dB", -36, 36, gainStep, 0),
		param.Bool(ParamAutoGain, "Auto Gain Compensation", true),
		param.Bool(ParamOutputClipping, "Output Clipping", false),
	)

	// IDs are unique by construction.
	_ = r.Add(params...)

	return r
}

var (
	driveNames = [4]string{"Drive 1", "Drive 2", "Drive 3", "Drive 4"}
	mixNames   = [4]string{"Mix 1", "Mix 2", "Mix 3", "Mix 4"}
)
