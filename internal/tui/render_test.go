package tui

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-mbdist/dsp/spectrum"
)

func linearBins(n int, binHz, db float64) []spectrum.Bin {
	bins := make([]spectrum.Bin, n)
	for i := range bins {
		bins[i] = spectrum.Bin{Frequency: float64(i) * binHz, DB: db}
	}

	return bins
}

func TestColumnsPicksLoudestBin(t *testing.T) {
	bins := linearBins(1025, 23.4375, -60)
	bins[43].DB = -6 // ~1 kHz

	axis := Axis{MinHz: 20, MaxHz: 20000, FloorDB: -60}
	cols := Columns(bins, 30, axis)
	require.Len(t, cols, 30)

	loudest := 0
	for i, v := range cols {
		if v > cols[loudest] {
			loudest = i
		}
	}

	assert.Equal(t, -6.0, cols[loudest])
	// ~1 kHz sits at log(50)/log(1000) of a 20 Hz..20 kHz log axis.
	assert.InDelta(t, 17, loudest, 1)

	for _, v := range cols {
		assert.GreaterOrEqual(t, v, -60.0)
	}
}

func TestColumnsInvalidAxis(t *testing.T) {
	assert.Nil(t, Columns(linearBins(8, 10, 0), 10, Axis{MinHz: 0, MaxHz: 100}))
	assert.Nil(t, Columns(nil, 10, Axis{MinHz: 20, MaxHz: 100}))
	assert.Nil(t, Columns(linearBins(8, 10, 0), 0, Axis{MinHz: 20, MaxHz: 100}))
}

func TestPlotLevels(t *testing.T) {
	axis := Axis{FloorDB: -60}
	rows := Plot([]float64{-60, 0, -30}, 2, axis)
	require.Len(t, rows, 2)

	for _, r := range rows {
		assert.Equal(t, 3, utf8.RuneCountInString(r))
	}

	top := []rune(rows[0])
	bottom := []rune(rows[1])

	assert.Equal(t, ' ', top[0])
	assert.Equal(t, ' ', bottom[0])
	assert.Equal(t, '█', top[1])
	assert.Equal(t, '█', bottom[1])
	assert.Equal(t, ' ', top[2])
	assert.Equal(t, '█', bottom[2])
}

func TestDisplaySnapshotCopies(t *testing.T) {
	var d Display

	src := linearBins(4, 10, -20)
	d.SendFFT(src)
	src[0].DB = 0

	got, frames := d.Snapshot(nil)
	require.Len(t, got, 4)
	assert.Equal(t, uint64(1), frames)
	assert.Equal(t, -20.0, got[0].DB)

	got[1].DB = 5

	again, _ := d.Snapshot(nil)
	assert.Equal(t, -20.0, again[1].DB)
}
