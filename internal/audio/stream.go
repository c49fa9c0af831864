// Package audio owns the single seam where graphsynth's render output
// crosses into ebitengine/oto: a Player wraps the shared audio context and
// plays an io.ReadCloser of interleaved stereo float32 PCM bytes. The
// interleaving itself belongs to the caller that actually has frames to
// interleave (engine.NewCallbackAdapter); this package only knows about bytes.
package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// Player drives playback of a PCM byte stream through the shared ebiten
// audio context.
type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// sharedAudioContext lazily creates the process-wide ebiten audio context.
// ebiten only permits one context per process, so a second call at a
// different sample rate is rejected rather than silently ignored.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// NewPlayer opens a Player against the shared audio context, pulling
// interleaved stereo float32 PCM bytes from reader on every device callback.
func NewPlayer(sampleRate int, reader io.ReadCloser) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &Player{player: pl, reader: reader}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

// Position returns the current playback position (what the listener actually hears).
func (p *Player) Position() time.Duration {
	return p.player.Position()
}

func (p *Player) Stop() error {
	p.player.Pause()
	p.player.Close()
	return p.reader.Close()
}
