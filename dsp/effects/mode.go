package effects

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the transfer function used by Shape. Values match the
// host-facing "Distortion Type" parameter (1..8).
type Mode int

const (
	ModeSoftAsymmetric Mode = iota + 1
	ModeArctan
	ModeSine
	ModeFoldback
	ModeChebyshev
	ModeReserved6
	ModeReserved7
	ModeReserved8
)

// MinMode and MaxMode bound the selectable mode range.
const (
	MinMode = ModeSoftAsymmetric
	MaxMode = ModeReserved8
)

var modeNames = [...]string{
	ModeSoftAsymmetric: "soft-asymmetric",
	ModeArctan:         "arctan",
	ModeSine:           "sine",
	ModeFoldback:       "foldback",
	ModeChebyshev:      "chebyshev",
	ModeReserved6:      "reserved-6",
	ModeReserved7:      "reserved-7",
	ModeReserved8:      "reserved-8",
}

// String returns the mode's short name.
func (m Mode) String() string {
	if !m.Valid() {
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}

	return modeNames[m]
}

// Valid reports whether m is inside the selectable range.
func (m Mode) Valid() bool {
	return m >= MinMode && m <= MaxMode
}

// Implemented reports whether m has a transfer function. Reserved modes are
// selectable but pass samples through unchanged.
func (m Mode) Implemented() bool {
	return m.Valid() && transferTable[m] != nil
}

// Modes returns all selectable modes in parameter order.
func Modes() []Mode {
	out := make([]Mode, 0, int(MaxMode))
	for m := MinMode; m <= MaxMode; m++ {
		out = append(out, m)
	}

	return out
}

// ParseMode accepts a mode name ("foldback") or its parameter number ("4").
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if n, err := strconv.Atoi(s); err == nil {
		m := Mode(n)
		if !m.Valid() {
			return 0, fmt.Errorf("distortion mode must be in [%d, %d]: %d", MinMode, MaxMode, n)
		}

		return m, nil
	}

	for m := MinMode; m <= MaxMode; m++ {
		if modeNames[m] == s {
			return m, nil
		}
	}

	return 0, fmt.Errorf("unknown distortion mode: %q", s)
}
