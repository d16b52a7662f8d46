// Package tui provides the live terminal spectrum display and keyboard
// control surface for the distortion engine.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-mbdist/dsp/effects"
	"github.com/cwbudde/algo-mbdist/dsp/spectrum"
	"github.com/cwbudde/algo-mbdist/engine"
	"github.com/cwbudde/algo-mbdist/stats/level"
)

const (
	refreshInterval = 50 * time.Millisecond
	gainStepDB      = 1.0
	defaultWidth    = 80
	defaultHeight   = 24
	chromeLines     = 9
)

type tickMsg time.Time

// LevelFunc reports the current output level.
type LevelFunc func() level.Reading

// Model is the bubbletea model for the live view.
type Model struct {
	eng     *engine.Engine
	display *Display
	levels  LevelFunc

	bins   []spectrum.Bin
	frames uint64
	width  int
	height int
	err    error
}

// NewModel creates a model reading spectra from display. levels may be nil.
func NewModel(eng *engine.Engine, display *Display, levels LevelFunc) Model {
	return Model{
		eng:     eng,
		display: display,
		levels:  levels,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles key presses, resizes and refresh ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		m.err = m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.bins, m.frames = m.display.Snapshot(m.bins)
		return m, tick()
	}

	return m, nil
}

func (m Model) handleKey(key string) error {
	s := m.eng.Settings()

	switch key {
	case "1", "2", "3", "4", "5", "6", "7", "8":
		return m.eng.SetParam(engine.ParamDistType, float64(key[0]-'0'))
	case "[":
		return m.eng.SetParam(engine.ParamNumPolynomials, float64(s.Order-1))
	case "]":
		return m.eng.SetParam(engine.ParamNumPolynomials, float64(s.Order+1))
	case "+", "=":
		return m.eng.SetParam(engine.ParamInputGain, s.InputGainDB+gainStepDB)
	case "-":
		return m.eng.SetParam(engine.ParamInputGain, s.InputGainDB-gainStepDB)
	case ">", ".":
		return m.eng.SetParam(engine.ParamOutputGain, s.OutputGainDB+gainStepDB)
	case "<", ",":
		return m.eng.SetParam(engine.ParamOutputGain, s.OutputGainDB-gainStepDB)
	case "a":
		return m.eng.SetParam(engine.ParamAutoGain, boolValue(!s.AutoGain))
	case "c":
		return m.eng.SetParam(engine.ParamOutputClipping, boolValue(!s.Clip))
	}

	return nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

// View renders the header, spectrum, meter and key help.
func (m Model) View() string {
	s := m.eng.Settings()
	minHz, maxHz, floor := m.eng.DisplayRange()

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("mbdist"))
	sb.WriteString("  ")
	sb.WriteString(settingsLine(s))
	sb.WriteString("\n")

	plotWidth := max(m.width-4, 10)
	plotHeight := max(m.height-chromeLines, 4)
	axis := Axis{MinHz: minHz, MaxHz: maxHz, FloorDB: floor}

	rows := Plot(Columns(m.bins, plotWidth, axis), plotHeight, axis)
	plot := barStyle.Render(strings.Join(rows, "\n"))
	sb.WriteString(frameStyle.Render(plot))
	sb.WriteString("\n")

	sb.WriteString(keyStyle.Render(fmt.Sprintf("%.0f Hz", minHz)))
	sb.WriteString(strings.Repeat(" ", max(plotWidth-14, 1)))
	sb.WriteString(keyStyle.Render(fmt.Sprintf("%.0f kHz", maxHz/1000)))
	sb.WriteString("\n")

	if m.levels != nil {
		sb.WriteString(meterLine(m.levels()))
		sb.WriteString("\n")
	}

	if m.err != nil {
		sb.WriteString(clipStyle.Render(m.err.Error()))
		sb.WriteString("\n")
	}

	sb.WriteString(helpStyle.Render("1-8 mode  [ ] order  + - input  < > output  a auto  c clip  q quit"))

	return sb.String()
}

func settingsLine(s engine.Snapshot) string {
	mode := s.Mode.String()
	if !s.Mode.Implemented() {
		mode += " (bypass)"
	}

	pairs := []string{
		kv("mode", fmt.Sprintf("%d %s", int(s.Mode), mode)),
	}

	if s.Mode == effects.ModeChebyshev {
		pairs = append(pairs, kv("order", fmt.Sprint(s.Order)))
	}

	pairs = append(pairs,
		kv("in", fmt.Sprintf("%+.1f dB", s.InputGainDB)),
		kv("out", outputLabel(s)),
		kv("clip", onOff(s.Clip)),
	)

	return strings.Join(pairs, "  ")
}

func outputLabel(s engine.Snapshot) string {
	if s.AutoGain {
		return fmt.Sprintf("auto (%+.1f dB)", -s.InputGainDB)
	}

	return fmt.Sprintf("%+.1f dB", s.OutputGainDB)
}

func meterLine(r level.Reading) string {
	line := kv("peak", fmt.Sprintf("%.1f dBFS", r.PeakDB)) + "  " + kv("rms", fmt.Sprintf("%.1f dBFS", r.RMSDB))
	if r.Clipped > 0 {
		line += "  " + clipStyle.Render(fmt.Sprintf("%d over", r.Clipped))
	}

	return line
}

func kv(k, v string) string {
	return keyStyle.Render(k+":") + " " + valueStyle.Render(v)
}

func onOff(b bool) string {
	if b {
		return "on"
	}

	return "off"
}
