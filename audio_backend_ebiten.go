//go:build !headless

// audio_backend_ebiten.go - Ebiten audio output implementation

package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const ebitenBufferDuration = 100 * time.Millisecond

func init() {
	registerAudioBackend("ebiten", func(sampleRate int) (AudioBackend, error) {
		return NewEbitenPlayer(sampleRate)
	})
}

// EbitenPlayer plays through ebiten's audio context. Ebiten allows one
// context per process, so the first rate requested wins.
type EbitenPlayer struct {
	ctx     *audio.Context
	player  *audio.Player
	started bool
	mutex   sync.Mutex
}

var (
	ebitenContextOnce sync.Once
	ebitenContext     *audio.Context
)

func NewEbitenPlayer(sampleRate int) (*EbitenPlayer, error) {
	ebitenContextOnce.Do(func() {
		ebitenContext = audio.NewContext(sampleRate)
	})
	if ebitenContext.SampleRate() != sampleRate {
		return nil, fmt.Errorf("ebiten audio context already running at %d Hz", ebitenContext.SampleRate())
	}
	return &EbitenPlayer{ctx: ebitenContext}, nil
}

func (ep *EbitenPlayer) SetupPlayer(src StereoSource) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	player, err := ep.ctx.NewPlayerF32(&stereoByteReader{src: src, buf: make([]float32, AUDIO_BUFFER_SIZE)})
	if err != nil {
		warnf("audio_backend_ebiten: %v\n", err)
		return
	}
	player.SetBufferSize(ebitenBufferDuration)
	ep.player = player
}

func (ep *EbitenPlayer) Start() {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if !ep.started && ep.player != nil {
		ep.player.Play()
		ep.started = true
	}
}

func (ep *EbitenPlayer) Stop() {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if ep.started && ep.player != nil {
		ep.player.Pause()
		ep.started = false
	}
}

func (ep *EbitenPlayer) Close() {
	ep.Stop()
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if ep.player != nil {
		_ = ep.player.Close()
		ep.player = nil
	}
}

func (ep *EbitenPlayer) IsStarted() bool {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	return ep.started
}
