//go:build headless

package playback

import (
	"errors"
	"io"
)

// ErrHeadless is returned by NewPlayer in headless builds.
var ErrHeadless = errors.New("audio playback is not available in headless builds")

// Player is a stub in headless builds.
type Player struct{}

// NewPlayer always fails in headless builds.
func NewPlayer(io.Reader, int, int) (*Player, error) {
	return nil, ErrHeadless
}

// Start does nothing.
func (p *Player) Start() {}

// Close does nothing.
func (p *Player) Close() error { return nil }
