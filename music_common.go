// music_common.go - Shared utilities for music players

package main

import (
	"fmt"
	"math"
)

// MusicMetadata contains common metadata fields across all music formats
type MusicMetadata struct {
	Title    string
	Author   string
	System   string // "Sega Mega Drive", "NEC PC-9801", etc.
	Date     string
	Duration float64
}

// formatDuration renders seconds as m:ss, or "" when unknown.
func formatDuration(secs float64) string {
	if secs <= 0 {
		return ""
	}
	total := int(math.Round(secs))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// sampleToFloat converts a mixed integer sample to [-1, 1].
func sampleToFloat(v int32) float32 {
	var f float32
	if v < 0 {
		f = float32(v) / 32768
	} else {
		f = float32(v) / 32767
	}
	if f > 1 {
		return 1
	}
	if f < -1 {
		return -1
	}
	return f
}

// clampInt16 saturates a mixed sample to the 16-bit range.
func clampInt16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
