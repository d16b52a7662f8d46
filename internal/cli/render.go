package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-mbdist/dsp/core"
	"github.com/cwbudde/algo-mbdist/internal/playback"
	"github.com/cwbudde/algo-mbdist/internal/tui"
	"github.com/cwbudde/algo-mbdist/measure/thd"
	"github.com/cwbudde/algo-mbdist/stats/frequency"
)

const thdLength = 8192

// RenderCmd processes a test signal offline.
type RenderCmd struct {
	EngineFlags
	SourceFlags

	Duration time.Duration `default:"1s" help:"Length of signal to process."`
	Height   int           `default:"12" help:"Spectrum plot height in rows."`
}

// Run renders the signal and prints the spectrum and a report to out.
func (r *RenderCmd) Run(proc core.ProcessorConfig, logger *logrus.Logger, out io.Writer) error {
	if r.Duration <= 0 {
		return fmt.Errorf("duration must be > 0: %s", r.Duration)
	}

	eng, err := r.EngineFlags.build(proc, logger)
	if err != nil {
		return err
	}

	src, err := r.SourceFlags.build(proc.SampleRate)
	if err != nil {
		return err
	}

	stream, err := playback.NewStream(eng, src, proc.BlockSize)
	if err != nil {
		return err
	}

	frames := int(r.Duration.Seconds() * proc.SampleRate)
	tail := make([]float64, 0, frames)
	start := time.Now()

	for rendered := 0; rendered < frames; rendered += proc.BlockSize {
		block := stream.Next()
		n := min(proc.BlockSize, frames-rendered)
		tail = append(tail, block[0][:n]...)
	}

	logger.WithFields(logrus.Fields{
		"frames":  frames,
		"elapsed": time.Since(start).String(),
	}).Info("render complete")

	s := eng.Settings()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("mbdist: %s", s.Mode)))

	bins := eng.Spectrum(nil)
	minHz, maxHz, floor := eng.DisplayRange()
	axis := tui.Axis{MinHz: minHz, MaxHz: maxHz, FloorDB: floor}
	width := max(terminalWidth(out)-2, 10)

	fmt.Fprintln(out, strings.Join(tui.Plot(tui.Columns(bins, width, axis), max(r.Height, 1), axis), "\n"))
	fmt.Fprintf(out, "%s%s%s\n",
		keyStyle.Render(fmt.Sprintf("%.0f Hz", minHz)),
		strings.Repeat(" ", max(width-14, 1)),
		keyStyle.Render(fmt.Sprintf("%.0f kHz", maxHz/1000)))

	fmt.Fprintln(out, sectionStyle.Render("Levels"))

	lv := stream.Levels()
	printKV(out, "Peak", "%.2f dBFS", lv.PeakDB)
	printKV(out, "RMS", "%.2f dBFS", lv.RMSDB)
	printKV(out, "Crest", "%.2f", lv.Crest)
	printKV(out, "Overs", "%d", lv.Clipped)

	mags := make([]float64, len(bins))
	for i, b := range bins {
		mags[i] = b.Magnitude
	}

	shape := frequency.Describe(mags, proc.SampleRate)

	fmt.Fprintln(out, sectionStyle.Render("Spectrum"))
	printKV(out, "Peak", "%.1f Hz", shape.PeakFreq)
	printKV(out, "Centroid", "%.1f Hz", shape.Centroid)
	printKV(out, "Flatness", "%.3f", shape.Flatness)
	printKV(out, "Rolloff 85%", "%.1f Hz", shape.Rolloff)

	if r.Source != "tone" || len(tail) < thdLength {
		return nil
	}

	cfg := thd.DefaultConfig(proc.SampleRate)
	cfg.FundamentalFreq = r.Freq

	res, err := thd.Analyze(tail[len(tail)-thdLength:], cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, sectionStyle.Render("Harmonics"))
	printKV(out, "THD", "%.3f%% (%.1f dB)", 100*res.THD, res.THDdB)
	printKV(out, "Odd / even", "%.3f%% / %.3f%%", 100*res.OddHD, 100*res.EvenHD)

	for _, h := range res.Harmonics {
		if h.DB < floor {
			continue
		}

		printKV(out, fmt.Sprintf("H%d", h.Order), "%.1f dB @ %.0f Hz", h.DB, h.Frequency)
	}

	return nil
}
