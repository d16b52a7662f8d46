// Package param implements bounded, lock-free readable control values and
// a registry that notifies listeners when a value changes.
//
// The registry is the host-facing side of the engine's parameter contract:
// UI or automation code calls [Registry.Set], which clamps and quantizes
// the value and then calls every subscribed [Listener] with the parameter
// ID. Listeners re-read the value they care about.
package param
