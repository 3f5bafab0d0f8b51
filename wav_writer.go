// wav_writer.go - Renders stereo chip output to a 16-bit PCM WAV file

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	WAV_BIT_DEPTH  = 16
	WAV_CHANNELS   = 2
	WAV_PCM_FORMAT = 1
	wavChunkFrames = 4096
)

// WavWriter streams interleaved stereo int32 frames into a WAV encoder.
// Samples are clamped to the 16-bit range on the way in.
type WavWriter struct {
	rate    int
	out     io.WriteSeeker
	closer  io.Closer
	enc     *wav.Encoder
	buf     *audio.IntBuffer
	frames  int
	clipped int
}

// NewWavWriter creates filename and prepares it for rate Hz stereo output.
func NewWavWriter(filename string, rate int) (*WavWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("wav_writer: %w", err)
	}
	w, err := newWavWriter(f, rate)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

func newWavWriter(out io.WriteSeeker, rate int) (*WavWriter, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("wav_writer: invalid sample rate %d", rate)
	}
	return &WavWriter{
		rate: rate,
		out:  out,
		enc:  wav.NewEncoder(out, rate, WAV_BIT_DEPTH, WAV_CHANNELS, WAV_PCM_FORMAT),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: WAV_CHANNELS, SampleRate: rate},
			SourceBitDepth: WAV_BIT_DEPTH,
		},
	}, nil
}

// Append writes interleaved left/right frames. A trailing odd sample is
// ignored.
func (w *WavWriter) Append(samples []int32) error {
	n := len(samples) &^ 1
	if n == 0 {
		return nil
	}
	data := w.buf.Data[:0]
	for _, s := range samples[:n] {
		c := clampInt16(s)
		if int32(c) != s {
			w.clipped++
		}
		data = append(data, int(c))
	}
	w.buf.Data = data
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("wav_writer: %w", err)
	}
	w.frames += n / 2
	return nil
}

// Frames is the number of stereo frames written so far.
func (w *WavWriter) Frames() int { return w.frames }

// Clipped counts samples that had to be clamped.
func (w *WavWriter) Clipped() int { return w.clipped }

// Close finalises the WAV header and closes the file if this writer opened it.
func (w *WavWriter) Close() error {
	err := w.enc.Close()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("wav_writer: %w", err)
	}
	return nil
}

// RenderToWAV drains player into filename until it stops or maxFrames have
// been written. maxFrames <= 0 means no limit; callers must then make sure
// the player ends.
func RenderToWAV(player *VGMPlayer, filename string, rate int, maxFrames int) (int, error) {
	w, err := NewWavWriter(filename, rate)
	if err != nil {
		return 0, err
	}
	player.Play()
	chunk := make([]int32, wavChunkFrames*2)
	for player.IsPlaying() {
		want := wavChunkFrames
		if maxFrames > 0 {
			left := maxFrames - w.Frames()
			if left <= 0 {
				break
			}
			want = min(want, left)
		}
		n := player.Render(chunk[:want*2])
		if n == 0 {
			break
		}
		if err := w.Append(chunk[:n*2]); err != nil {
			w.Close()
			return w.Frames(), err
		}
	}
	player.Stop()
	if w.Clipped() > 0 {
		warnf("wav_writer: %d samples clipped\n", w.Clipped())
	}
	return w.Frames(), w.Close()
}
