package cli

import (
	"context"
	"os"
	ossignal "os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-mbdist/engine"
	"github.com/cwbudde/algo-mbdist/dsp/core"
	"github.com/cwbudde/algo-mbdist/internal/playback"
	"github.com/cwbudde/algo-mbdist/internal/tui"
)

// PlayCmd plays a test signal through the engine in real time.
type PlayCmd struct {
	EngineFlags
	SourceFlags

	Duration time.Duration `default:"0s" help:"Stop after this long (without the TUI); 0 plays until interrupted."`
	NoTUI    bool          `name:"no-tui" help:"Play without the live spectrum."`
}

// Run opens the audio device and plays until quit, interrupt or Duration.
func (p *PlayCmd) Run(proc core.ProcessorConfig, logger *logrus.Logger) error {
	display := &tui.Display{}

	var opts []engine.Option
	if !p.NoTUI {
		opts = append(opts, engine.WithDisplay(display))
	}

	eng, err := p.EngineFlags.build(proc, logger, opts...)
	if err != nil {
		return err
	}

	src, err := p.SourceFlags.build(proc.SampleRate)
	if err != nil {
		return err
	}

	stream, err := playback.NewStream(eng, src, proc.BlockSize)
	if err != nil {
		return err
	}

	player, err := playback.NewPlayer(stream, int(proc.SampleRate), stream.Channels())
	if err != nil {
		return err
	}

	defer func() {
		if err := player.Close(); err != nil {
			logger.WithError(err).Warn("close audio device")
		}
	}()

	player.Start()
	logger.WithFields(logrus.Fields{
		"source": p.Source,
		"mode":   eng.Settings().Mode.String(),
	}).Info("playback started")

	if !p.NoTUI {
		_, err := tea.NewProgram(tui.NewModel(eng, display, stream.Levels), tea.WithAltScreen()).Run()
		return err
	}

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if p.Duration > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.Duration)
		defer cancel()
	}

	<-ctx.Done()

	return nil
}
