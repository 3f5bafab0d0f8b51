// audio_backend.go - Realtime output backends for the stereo mixer

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2026 Zayn Otley
https://github.com/IntuitionAmiga/ChipMix
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"sort"
	"sync"
	"unsafe"
)

const (
	AUDIO_CHANNELS    = 2
	AUDIO_BUFFER_SIZE = 4096 // float32 values per pull
)

// AudioBackend plays a StereoSource in realtime.
type AudioBackend interface {
	SetupPlayer(src StereoSource)
	Start()
	Stop()
	Close()
	IsStarted() bool
}

type audioBackendFactory func(sampleRate int) (AudioBackend, error)

var (
	audioBackendsMu sync.Mutex
	audioBackends   = map[string]audioBackendFactory{}
)

// registerAudioBackend is called from the init() of each compiled backend.
func registerAudioBackend(name string, factory audioBackendFactory) {
	audioBackendsMu.Lock()
	defer audioBackendsMu.Unlock()
	audioBackends[name] = factory
	compiledFeatures = append(compiledFeatures, "audio:"+name)
}

func audioBackendNames() []string {
	audioBackendsMu.Lock()
	defer audioBackendsMu.Unlock()
	names := make([]string, 0, len(audioBackends))
	for name := range audioBackends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewAudioBackend(name string, sampleRate int) (AudioBackend, error) {
	audioBackendsMu.Lock()
	factory, ok := audioBackends[name]
	audioBackendsMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown audio backend %q (compiled: %v)", name, audioBackendNames())
	}
	return factory(sampleRate)
}

// stereoByteReader exposes a StereoSource as little-endian float32 bytes,
// the layout both oto and ebiten's float32 players consume.
type stereoByteReader struct {
	src StereoSource
	buf []float32
}

func (r *stereoByteReader) Read(p []byte) (int, error) {
	n := len(p) / 4 &^ (AUDIO_CHANNELS - 1)
	if n == 0 {
		clear(p)
		return len(p), nil
	}
	if len(r.buf) < n {
		r.buf = make([]float32, n)
	}
	samples := r.buf[:n]
	r.src.ReadStereo(samples)
	copy(p, unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), n*4))
	clear(p[n*4:])
	return len(p), nil
}
