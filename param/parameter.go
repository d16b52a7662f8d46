package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// ID identifies a parameter within a registry.
type ID uint32

// Kind describes how a parameter value is interpreted.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Parameter is a named control value bounded to [Min, Max] and quantized to
// Step. The value is stored atomically so audio code can read it without
// locking.
type Parameter struct {
	ID      ID
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Step    float64
	Default float64
	Kind    Kind

	value atomic.Uint64
}

// Float creates a continuous parameter.
func Float(id ID, name, unit string, minValue, maxValue, step, def float64) *Parameter {
	return newParameter(id, name, unit, minValue, maxValue, step, def, KindFloat)
}

// Int creates an integer parameter with step 1.
func Int(id ID, name string, minValue, maxValue, def int) *Parameter {
	return newParameter(id, name, "", float64(minValue), float64(maxValue), 1, float64(def), KindInt)
}

// Bool creates an on/off parameter stored as 0 or 1.
func Bool(id ID, name string, def bool) *Parameter {
	d := 0.0
	if def {
		d = 1
	}

	return newParameter(id, name, "", 0, 1, 1, d, KindBool)
}

func newParameter(id ID, name, unit string, minValue, maxValue, step, def float64, kind Kind) *Parameter {
	if minValue > maxValue {
		minValue, maxValue = maxValue, minValue
	}

	p := &Parameter{
		ID:   id,
		Name: name,
		Unit: unit,
		Min:  minValue,
		Max:  maxValue,
		Step: step,
		Kind: kind,
	}
	p.Default = p.constrain(def)
	p.value.Store(math.Float64bits(p.Default))

	return p
}

// Value returns the current plain value.
func (p *Parameter) Value() float64 {
	return math.Float64frombits(p.value.Load())
}

// Int returns the value rounded to the nearest integer.
func (p *Parameter) Int() int {
	return int(math.Round(p.Value()))
}

// Bool reports whether the value is at least one half.
func (p *Parameter) Bool() bool {
	return p.Value() >= 0.5
}

// Set clamps v to [Min, Max], quantizes it to Step and stores it.
// Non-finite values are ignored. It returns the stored value.
func (p *Parameter) Set(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return p.Value()
	}

	v = p.constrain(v)
	p.value.Store(math.Float64bits(v))

	return v
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.value.Store(math.Float64bits(p.Default))
}

// Normalized maps the value to [0, 1].
func (p *Parameter) Normalized() float64 {
	if p.Max <= p.Min {
		return 0
	}

	return (p.Value() - p.Min) / (p.Max - p.Min)
}

// Format renders the value with its unit.
func (p *Parameter) Format() string {
	v := p.Value()

	var s string

	switch p.Kind {
	case KindBool:
		if p.Bool() {
			return "on"
		}

		return "off"
	case KindInt:
		s = strconv.Itoa(p.Int())
	default:
		s = strconv.FormatFloat(v, 'f', 2, 64)
	}

	if p.Unit != "" {
		s += " " + p.Unit
	}

	return s
}

func (p *Parameter) constrain(v float64) float64 {
	if p.Step > 0 {
		v = p.Min + math.Round((v-p.Min)/p.Step)*p.Step
	}

	return math.Max(p.Min, math.Min(p.Max, v))
}
