package cli

import (
	"fmt"
	"io"

	"github.com/cwbudde/algo-mbdist/dsp/effects"
)

// ModesCmd lists the distortion modes.
type ModesCmd struct{}

// Run prints one line per mode.
func (m *ModesCmd) Run(out io.Writer) error {
	fmt.Fprintln(out, titleStyle.Render("Distortion modes"))

	for _, mode := range effects.Modes() {
		note := ""
		if !mode.Implemented() {
			note = keyStyle.Render(" (pass-through)")
		}

		fmt.Fprintf(out, "  %s %s%s\n", valueStyle.Render(fmt.Sprint(int(mode))), mode, note)
	}

	return nil
}
