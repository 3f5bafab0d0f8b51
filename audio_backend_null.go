// audio_backend_null.go - Clocked output that discards samples

package main

import (
	"fmt"
	"sync"
	"time"
)

func init() {
	registerAudioBackend("null", func(sampleRate int) (AudioBackend, error) {
		return NewHeadlessPlayer(sampleRate)
	})
}

// HeadlessPlayer pulls from its source at the realtime rate and throws the
// samples away, so playback timing holds without an audio device.
type HeadlessPlayer struct {
	rate    int
	period  time.Duration
	src     StereoSource
	buf     []float32
	started bool
	stopCh  chan struct{}
	done    chan struct{}
	pulled  uint64
	mutex   sync.Mutex
}

func NewHeadlessPlayer(sampleRate int) (*HeadlessPlayer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	return &HeadlessPlayer{
		rate:   sampleRate,
		period: 10 * time.Millisecond,
	}, nil
}

func (hp *HeadlessPlayer) SetupPlayer(src StereoSource) {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()
	hp.src = src
}

func (hp *HeadlessPlayer) Start() {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()
	if hp.started || hp.src == nil {
		return
	}
	frames := hp.rate * int(hp.period) / int(time.Second)
	hp.buf = make([]float32, max(frames, 1)*AUDIO_CHANNELS)
	hp.stopCh = make(chan struct{})
	hp.done = make(chan struct{})
	hp.started = true
	go hp.run(hp.src, hp.stopCh, hp.done)
}

func (hp *HeadlessPlayer) run(src StereoSource, stopCh, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(hp.period)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			src.ReadStereo(hp.buf)
			hp.mutex.Lock()
			hp.pulled += uint64(len(hp.buf) / AUDIO_CHANNELS)
			hp.mutex.Unlock()
		}
	}
}

func (hp *HeadlessPlayer) Stop() {
	hp.mutex.Lock()
	if !hp.started {
		hp.mutex.Unlock()
		return
	}
	hp.started = false
	close(hp.stopCh)
	done := hp.done
	hp.mutex.Unlock()
	<-done
}

func (hp *HeadlessPlayer) Close() {
	hp.Stop()
}

func (hp *HeadlessPlayer) IsStarted() bool {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()
	return hp.started
}

// Pulled is the number of frames consumed so far.
func (hp *HeadlessPlayer) Pulled() uint64 {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()
	return hp.pulled
}
