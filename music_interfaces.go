// music_interfaces.go - Common interfaces for music players and audio sources

package main

// MusicPlayer is implemented by all music players
// Provides a common interface for playback control
type MusicPlayer interface {
	// Load loads a music file from the given path
	Load(path string) error
	// LoadData loads music data from a byte slice
	LoadData(data []byte) error
	// Play starts playback
	Play()
	// Stop stops playback
	Stop()
	// IsPlaying returns true if currently playing
	IsPlaying() bool
	// DurationSeconds returns the duration in seconds (0 if looping/unknown)
	DurationSeconds() float64
	// DurationText returns a formatted duration string (e.g., "3:45")
	DurationText() string
}

// StereoSource feeds the audio backends. ReadStereo fills dst with
// interleaved left/right float32 samples in [-1, 1] and returns how many
// values it wrote; the remainder is left silent.
type StereoSource interface {
	ReadStereo(dst []float32) int
}
