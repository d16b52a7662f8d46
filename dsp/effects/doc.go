// Package effects provides the distortion kernels of the multiband
// distortion engine.
//
// The package is split in two layers:
//   - Transfer functions: memoryless waveshapers, one pure function per
//     [Mode], dispatched through a table by [Shape].
//   - GainStage: smoothed input/output gain around the shaper, automatic
//     gain compensation and optional output clipping.
//
// All per-sample paths are allocation free and never return errors. Any
// non-finite intermediate value is replaced with 0 before it leaves the
// stage.
package effects
