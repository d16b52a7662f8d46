// Package cli implements the mbdist command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/cwbudde/algo-mbdist/dsp/core"
	"github.com/cwbudde/algo-mbdist/dsp/effects"
	"github.com/cwbudde/algo-mbdist/dsp/signal"
	"github.com/cwbudde/algo-mbdist/dsp/spectrum"
	"github.com/cwbudde/algo-mbdist/dsp/window"
	"github.com/cwbudde/algo-mbdist/engine"
	"github.com/cwbudde/algo-mbdist/param"
)

// Version is reported by --version.
var Version = "0.1.0"

const fallbackWidth = 80

// Globals are flags shared by every command.
type Globals struct {
	LogLevel   string           `name:"log-level" default:"warn" enum:"trace,debug,info,warn,error" help:"Log level."`
	LogJSON    bool             `name:"log-json" help:"Log as JSON."`
	Config     kong.ConfigFlag  `help:"JSON file with flag defaults (keys use underscores)." type:"path"`
	SampleRate float64          `name:"sample-rate" default:"48000" help:"Sample rate in Hz."`
	BlockSize  int              `name:"block-size" default:"512" help:"Frames per processing block."`
	Channels   int              `default:"2" help:"Channel count."`
	Version    kong.VersionFlag `short:"v" help:"Show version."`
}

// CLI is the root command.
type CLI struct {
	Globals

	Render RenderCmd `cmd:"" help:"Process a test signal offline and print its spectrum and a report."`
	Play   PlayCmd   `cmd:"" help:"Play a test signal through the engine with a live spectrum."`
	Modes  ModesCmd  `cmd:"" help:"List distortion modes."`
}

// EngineFlags configure the engine and its analyzer.
type EngineFlags struct {
	Mode       string  `short:"m" default:"soft-asymmetric" help:"Distortion mode, by name or number 1-8."`
	Order      int     `default:"3" help:"Chebyshev polynomial count (1-5)."`
	InputGain  float64 `name:"input-gain" default:"0" help:"Input gain in dB (-36..36)."`
	OutputGain float64 `name:"output-gain" default:"0" help:"Output gain in dB, used when auto gain is off."`
	AutoGain   bool    `name:"auto-gain" default:"true" negatable:"" help:"Invert the input gain after the shaper."`
	Clip       bool    `help:"Clip output just under full scale."`
	FFTSize    int     `name:"fft-size" default:"2048" help:"Analyzer FFT size."`
	Overlap    int     `default:"2" help:"Analyzer overlap factor."`
	Window     string  `default:"blackmanharris" enum:"rectangular,hann,hamming,blackman,blackmanharris,flattop" help:"Analyzer window."`
	Floor      float64 `default:"-60" help:"Display floor in dB."`
	OctaveGain float64 `name:"octave-gain" default:"3" help:"Display slope in dB per octave around 1 kHz."`
}

// SourceFlags select the test signal.
type SourceFlags struct {
	Source    string  `default:"tone" enum:"tone,white,pink" help:"Test signal."`
	Freq      float64 `default:"440" help:"Tone frequency in Hz."`
	Amplitude float64 `default:"0.5" help:"Peak amplitude."`
	Seed      int64   `default:"1" help:"Noise seed."`
}

// Main parses args and runs the selected command. It returns the process
// exit code.
func Main(args []string, stdout, stderr io.Writer) int {
	var c CLI

	parser, err := kong.New(&c,
		kong.Name("mbdist"),
		kong.Description("Per-sample distortion engine with a live spectrum."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Configuration(kong.JSON),
		kong.Vars{"version": Version},
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		PrintError(stderr, err.Error())
		return 2
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		PrintError(stderr, err.Error())
		return 2
	}

	logger, err := newLogger(&c.Globals, stderr)
	if err != nil {
		PrintError(stderr, err.Error())
		return 2
	}

	proc, err := c.processor()
	if err != nil {
		PrintError(stderr, err.Error())
		return 2
	}

	ctx.BindTo(stdout, (*io.Writer)(nil))

	if err := ctx.Run(proc, logger); err != nil {
		logger.WithError(err).WithField("command", ctx.Command()).Debug("command failed")
		PrintError(stderr, err.Error())

		return 1
	}

	return 0
}

func newLogger(g *Globals, w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(g.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)

	if g.LogJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	return logger, nil
}

func (g *Globals) processor() (core.ProcessorConfig, error) {
	proc := core.ApplyProcessorOptions(
		core.WithSampleRate(g.SampleRate),
		core.WithBlockSize(g.BlockSize),
		core.WithChannels(g.Channels),
	)

	return proc, proc.Validate()
}

func (f *EngineFlags) build(proc core.ProcessorConfig, logger logrus.FieldLogger, opts ...engine.Option) (*engine.Engine, error) {
	mode, err := effects.ParseMode(f.Mode)
	if err != nil {
		return nil, err
	}

	win, err := window.ParseType(f.Window)
	if err != nil {
		return nil, err
	}

	base := []engine.Option{
		engine.WithChannels(proc.Channels),
		engine.WithLogger(logger),
		engine.WithAnalyzerOptions(
			spectrum.WithFFTSize(f.FFTSize),
			spectrum.WithOverlap(f.Overlap),
			spectrum.WithWindow(win),
			spectrum.WithFloorDB(f.Floor),
			spectrum.WithOctaveGain(f.OctaveGain, spectrum.DefaultOctaveRefHz),
		),
	}

	eng, err := engine.NewEngine(proc.SampleRate, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	values := []struct {
		id param.ID
		v  float64
	}{
		{engine.ParamDistType, float64(mode)},
		{engine.ParamNumPolynomials, float64(f.Order)},
		{engine.ParamInputGain, f.InputGain},
		{engine.ParamOutputGain, f.OutputGain},
		{engine.ParamAutoGain, boolValue(f.AutoGain)},
		{engine.ParamOutputClipping, boolValue(f.Clip)},
	}

	for _, pv := range values {
		if err := eng.SetParam(pv.id, pv.v); err != nil {
			return nil, err
		}
	}

	return eng, nil
}

func (s *SourceFlags) build(sampleRate float64) (signal.Source, error) {
	if s.Source == "white" || s.Source == "pink" {
		noise, err := signal.NewNoise(s.Seed, s.Amplitude, s.Source == "pink")
		if err != nil {
			return nil, err
		}

		return noise, nil
	}

	tone, err := signal.NewTone(s.Freq, s.Amplitude, sampleRate)
	if err != nil {
		return nil, err
	}

	return tone, nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallbackWidth
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}

	return width
}
