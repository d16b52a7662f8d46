package tui

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-mbdist/dsp/spectrum"
)

var barRunes = []rune(" ▁▂▃▄▅▆▇█")

// Axis describes the display bounds of a spectrum plot.
type Axis struct {
	MinHz   float64
	MaxHz   float64
	FloorDB float64
	CeilDB  float64
}

// Columns reduces bins to width log-spaced columns between MinHz and MaxHz.
// Each column holds the loudest bin DB that falls into it; empty columns
// take the value of the nearest bin to their center.
func Columns(bins []spectrum.Bin, width int, axis Axis) []float64 {
	if width < 1 || len(bins) == 0 || axis.MinHz <= 0 || axis.MaxHz <= axis.MinHz {
		return nil
	}

	cols := make([]float64, width)
	for i := range cols {
		cols[i] = math.Inf(-1)
	}

	span := math.Log(axis.MaxHz / axis.MinHz)

	for _, b := range bins {
		if b.Frequency < axis.MinHz || b.Frequency > axis.MaxHz {
			continue
		}

		c := min(int(math.Log(b.Frequency/axis.MinHz)/span*float64(width)), width-1)
		cols[c] = math.Max(cols[c], b.DB)
	}

	binHz := 0.0
	if len(bins) > 1 {
		binHz = bins[1].Frequency - bins[0].Frequency
	}

	for i, v := range cols {
		if !math.IsInf(v, -1) || binHz <= 0 {
			continue
		}

		center := axis.MinHz * math.Exp((float64(i)+0.5)/float64(width)*span)
		k := min(int(math.Round(center/binHz)), len(bins)-1)
		cols[i] = bins[k].DB
	}

	return cols
}

// Plot renders columns as height rows of block characters, top row first.
func Plot(cols []float64, height int, axis Axis) []string {
	if height < 1 {
		return nil
	}

	ceil := axis.CeilDB
	if ceil <= axis.FloorDB {
		ceil = 0
	}

	rangeDB := ceil - axis.FloorDB
	steps := len(barRunes) - 1

	rows := make([][]rune, height)
	for r := range rows {
		rows[r] = []rune(strings.Repeat(" ", len(cols)))
	}

	for c, db := range cols {
		frac := 0.0
		if rangeDB > 0 && !math.IsNaN(db) {
			frac = math.Max(0, math.Min(1, (db-axis.FloorDB)/rangeDB))
		}

		level := int(math.Round(frac * float64(height*steps)))

		for r := range height {
			fromBottom := height - 1 - r
			fill := level - fromBottom*steps
			fill = max(0, min(steps, fill))
			rows[r][c] = barRunes[fill]
		}
	}

	out := make([]string, height)
	for r := range rows {
		out[r] = string(rows[r])
	}

	return out
}
