//go:build !headless

package playback

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

const playerBuffer = 50 * time.Millisecond

// Player plays an interleaved float32 LE reader on the default device.
// Only one Player may exist per process.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewPlayer opens the audio device and prepares r for playback.
func NewPlayer(r io.Reader, sampleRate, channels int) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   playerBuffer,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}

	<-ready

	return &Player{ctx: ctx, player: ctx.NewPlayer(r)}, nil
}

// Start begins playback.
func (p *Player) Start() {
	p.player.Play()
}

// Close stops playback.
func (p *Player) Close() error {
	return p.player.Close()
}
