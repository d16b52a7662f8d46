// Package smooth provides per-sample parameter smoothing.
//
// OnePole turns a step-changed control value into an exponentially
// approached one. The coefficient is derived from a time constant tau and
// the sample rate fs as
//
//	a = 1 - exp(-1 / (tau * fs))
//
// so that a step is covered to ~63% after tau seconds. Process must be
// called exactly once per sample to keep ramps sample-accurate.
package smooth
