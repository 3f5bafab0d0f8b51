// memory_region.go - Per-chip sample memory (PCM / ADPCM-A / ADPCM-B)

package main

import (
	"fmt"
	"math"
	"slices"
)

// AccessClass names one of a chip's external memory address spaces.
type AccessClass uint8

const (
	ACCESS_IO AccessClass = iota
	ACCESS_ADPCM_A
	ACCESS_ADPCM_B
	ACCESS_PCM
	ACCESS_CLASSES
)

func (c AccessClass) String() string {
	switch c {
	case ACCESS_IO:
		return "io"
	case ACCESS_ADPCM_A:
		return "adpcm-a"
	case ACCESS_ADPCM_B:
		return "adpcm-b"
	case ACCESS_PCM:
		return "pcm"
	default:
		return fmt.Sprintf("access(%d)", uint8(c))
	}
}

// Host access codes, as used by VGM data block types.
const (
	ROM_YM2608_DELTA_T = 0x81
	ROM_YM2610_ADPCM   = 0x82
	ROM_YM2610_DELTA_T = 0x83
	ROM_YMF278B_ROM    = 0x84
	ROM_YMF278B_RAM    = 0x87
	ROM_Y8950_ROM      = 0x88
)

// AccessClassForCode maps a host ROM access code to its region class.
func AccessClassForCode(code uint16) (AccessClass, bool) {
	switch code {
	case ROM_YM2608_DELTA_T, ROM_YM2610_DELTA_T, ROM_Y8950_ROM:
		return ACCESS_ADPCM_B, true
	case ROM_YM2610_ADPCM:
		return ACCESS_ADPCM_A, true
	case ROM_YMF278B_ROM, ROM_YMF278B_RAM:
		return ACCESS_PCM, true
	default:
		return 0, false
	}
}

// MemoryRegions holds one growable buffer per access class plus the PCM
// stream cursor. Buffers only ever grow.
type MemoryRegions struct {
	data      [ACCESS_CLASSES][]byte
	pcmOffset uint32
}

// grow extends a region to end bytes with amortized capacity. Bytes past
// len are never written, so a reslice within cap always exposes zeros.
func (m *MemoryRegions) grow(class AccessClass, end uint32) []byte {
	buf := m.data[class]
	if n := int(end) - len(buf); n > 0 {
		buf = slices.Grow(buf, n)[:end]
		m.data[class] = buf
	}
	return buf
}

// Write copies src to base, zero-extending the region first if needed.
func (m *MemoryRegions) Write(class AccessClass, base uint32, src []byte) {
	if class >= ACCESS_CLASSES || len(src) == 0 {
		return
	}
	if uint64(base)+uint64(len(src)) > math.MaxUint32 {
		return
	}
	end := base + uint32(len(src))
	buf := m.grow(class, end)
	copy(buf[base:end], src)
}

// Store writes a single byte, growing the region as needed.
func (m *MemoryRegions) Store(class AccessClass, address uint32, data uint8) {
	if class >= ACCESS_CLASSES || address == math.MaxUint32 {
		return
	}
	buf := m.grow(class, address+1)
	buf[address] = data
}

// Read returns the byte at offset, or zero past the end of the region.
func (m *MemoryRegions) Read(class AccessClass, offset uint32) uint8 {
	if class >= ACCESS_CLASSES {
		return 0
	}
	buf := m.data[class]
	if uint64(offset) < uint64(len(buf)) {
		return buf[offset]
	}
	return 0
}

// Size reports the current length of a region.
func (m *MemoryRegions) Size(class AccessClass) int {
	if class >= ACCESS_CLASSES {
		return 0
	}
	return len(m.data[class])
}

// SeekPCM positions the PCM stream cursor.
func (m *MemoryRegions) SeekPCM(pos uint32) {
	m.pcmOffset = pos
}

// ReadPCM returns the next PCM byte and advances the cursor. Once the cursor
// is past the end it stays put and zero is returned.
func (m *MemoryRegions) ReadPCM() uint8 {
	pcm := m.data[ACCESS_PCM]
	if uint64(m.pcmOffset) < uint64(len(pcm)) {
		b := pcm[m.pcmOffset]
		m.pcmOffset++
		return b
	}
	return 0
}

// PCMOffset returns the stream cursor position.
func (m *MemoryRegions) PCMOffset() uint32 {
	return m.pcmOffset
}
