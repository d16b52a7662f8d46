// Package engine runs the per-sample distortion pipeline over multi-channel
// audio blocks and feeds the processed stream to a spectral analyzer.
//
// Lock discipline: an Engine owns one mutex. Process holds it for the whole
// block. OnParamChange, Reset, AttachDisplay and the read accessors hold it
// briefly. A parameter change is therefore never partially visible within a
// block. The lock is never held across I/O; the Display callback runs under
// it and must copy and return.
package engine
