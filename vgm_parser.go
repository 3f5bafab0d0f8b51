// vgm_parser.go - VGM/VGZ parser for Yamaha FM/PSG register streams.
//
// Supported chips (events extracted as ChipEvents):
//   - YM2413 (cmd 0x51), YM2612 (cmd 0x52-0x53), YM2151 (cmd 0x54)
//   - YM2203 (cmd 0x55), YM2608 (cmd 0x56-0x57), YM2610/B (cmd 0x58-0x59)
//   - YM3812 (cmd 0x5A), YM3526 (cmd 0x5B), Y8950 (cmd 0x5C)
//   - YMF262 (cmd 0x5E-0x5F), YMF278B (cmd 0xD0), AY-3-8910 / YM2149 (cmd 0xA0)
//   - Second chips through cmd 0xA1-0xAF and the high bit of 0xA0/0xD0 operands
//   - YM2612 PCM bank: data block type 0x00, seek (cmd 0xE0), DAC writes (cmd 0x80-0x8F)
//   - ROM/RAM images: data block types 0x81-0x88
//
// Ignored chips (commands skipped gracefully):
//   - SN76489 (cmd 0x50), GG stereo (cmd 0x4F), YMZ280B (cmd 0x5D)
//   - Sega PCM and other 3-operand chips (cmd 0xC0-0xDF except 0xD0)
//   - DAC stream control (cmd 0x90-0x95), PCM RAM writes (cmd 0x68)
//   - Compressed and RAM-write data blocks
//
// Rejected: truncated commands. Unknown commands are skipped with 1-byte advancement.

package main

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	VGM_TICK_RATE   = 44100
	VGM_WAIT_60HZ   = 735
	VGM_WAIT_50HZ   = 882
	VGM_DATA_OFFSET = 0x40
)

type VGMEventKind uint8

const (
	VGM_EVENT_WRITE     VGMEventKind = iota // register write
	VGM_EVENT_ROM                           // ROM/RAM image for a chip region
	VGM_EVENT_PCM_BANK                      // YM2612 PCM bank data
	VGM_EVENT_PCM_SEEK                      // YM2612 PCM bank seek
	VGM_EVENT_PCM_WRITE                     // YM2612 DAC write from the PCM bank
)

// ChipEvent is one timed action from a VGM stream.
type ChipEvent struct {
	Sample uint64
	Kind   VGMEventKind
	Family ChipFamily
	Index  uint16
	Reg    uint32
	Value  uint8
	Code   uint16 // ROM access code for VGM_EVENT_ROM
	Start  uint32 // ROM start address, PCM bank offset or seek position
	Data   []byte
}

type VGMFile struct {
	Version      uint32
	Clocks       [CHIP_FAMILIES]uint32 // raw header clock words, flags included
	Events       []ChipEvent
	TotalSamples uint64
	LoopSamples  uint64
	LoopSample   uint64
	HasLoop      bool
	GD3          GD3Tags
}

// vgmWriteCommands maps the first-chip write commands to their family and
// register port.
var vgmWriteCommands = map[byte]struct {
	family ChipFamily
	port   uint32
}{
	0x51: {CHIP_YM2413, 0},
	0x52: {CHIP_YM2612, 0},
	0x53: {CHIP_YM2612, 1},
	0x54: {CHIP_YM2151, 0},
	0x55: {CHIP_YM2203, 0},
	0x56: {CHIP_YM2608, 0},
	0x57: {CHIP_YM2608, 1},
	0x58: {CHIP_YM2610, 0},
	0x59: {CHIP_YM2610, 1},
	0x5A: {CHIP_YM3812, 0},
	0x5B: {CHIP_YM3526, 0},
	0x5C: {CHIP_Y8950, 0},
	0x5E: {CHIP_YMF262, 0},
	0x5F: {CHIP_YMF262, 1},
}

// Clock returns the raw header clock word of a family, flags included, and
// how many chips of it the stream drives.
func (v *VGMFile) Clock(family ChipFamily) (clock uint32, count int) {
	if !family.Valid() {
		return 0, 0
	}
	raw := v.Clocks[family]
	if raw&CLOCK_MASK == 0 {
		return 0, 0
	}
	count = 1
	if raw&CLOCK_DUAL_CHIP != 0 {
		count = 2
	}
	return raw, count
}

// DurationSeconds is the length of one pass through the stream.
func (v *VGMFile) DurationSeconds() float64 {
	return float64(v.TotalSamples) / VGM_TICK_RATE
}

func ParseVGMFile(path string) (*VGMFile, error) {
	data, err := readVGMData(path)
	if err != nil {
		return nil, err
	}
	return ParseVGMData(data)
}

func ParseVGMData(data []byte) (*VGMFile, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("vgm too short")
	}
	if data[0] == 0x1F && data[1] == 0x8B {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		data, err = io.ReadAll(gz)
		if err != nil {
			return nil, err
		}
	}
	if len(data) < 0x40 {
		return nil, fmt.Errorf("vgm too short")
	}
	if !bytes.Equal(data[0:4], []byte("Vgm ")) {
		return nil, fmt.Errorf("invalid vgm header")
	}

	version := binary.LittleEndian.Uint32(data[0x08:0x0C])
	totalSamples := uint64(binary.LittleEndian.Uint32(data[0x18:0x1C]))
	loopSamples := binary.LittleEndian.Uint32(data[0x20:0x24])
	loopOffset := binary.LittleEndian.Uint32(data[0x1C:0x20])
	gd3Offset := binary.LittleEndian.Uint32(data[0x14:0x18])

	dataOffset := binary.LittleEndian.Uint32(data[0x34:0x38])
	dataStart := uint32(VGM_DATA_OFFSET)
	if dataOffset != 0 {
		dataStart = 0x34 + dataOffset
	}
	if int(dataStart) >= len(data) {
		return nil, fmt.Errorf("vgm data offset out of range")
	}

	vgm := &VGMFile{Version: version}

	// Header fields past the data start belong to the command stream.
	for family := ChipFamily(0); family < CHIP_FAMILIES; family++ {
		off := chipFamilies[family].vgmClock
		if off == 0 || uint32(off)+4 > dataStart || off+4 > len(data) {
			continue
		}
		vgm.Clocks[family] = binary.LittleEndian.Uint32(data[off : off+4])
	}

	if gd3Offset != 0 {
		tags, err := parseGD3(data, int(0x14+gd3Offset))
		if err != nil {
			warnf("vgm_parser: ignoring gd3 tags: %v\n", err)
		} else {
			vgm.GD3 = tags
		}
	}

	events := make([]ChipEvent, 0, 1024)
	samplePos := uint64(0)
	loopSample := uint64(0)
	loopFound := false
	loopStart := uint32(0)
	if loopOffset != 0 {
		loopStart = 0x1C + loopOffset
	}
	pcmBankSize := uint32(0)

	for i := int(dataStart); i < len(data); {
		if loopStart != 0 && !loopFound && uint32(i) == loopStart {
			loopSample = samplePos
			loopFound = true
		}
		cmd := data[i]
		switch {
		case cmd == 0x66:
			i = len(data)
			continue
		case cmd >= 0x51 && cmd <= 0x5F && cmd != 0x5D,
			cmd >= 0xA1 && cmd <= 0xAF && cmd != 0xAD:
			if i+2 >= len(data) {
				return nil, fmt.Errorf("vgm truncated chip write at offset %d", i)
			}
			base := cmd
			if cmd >= 0xA1 {
				base = cmd - 0x50
			}
			target := vgmWriteCommands[base]
			events = append(events, ChipEvent{
				Sample: samplePos,
				Kind:   VGM_EVENT_WRITE,
				Family: target.family,
				Index:  uint16(cmd >> 7),
				Reg:    target.port<<8 | uint32(data[i+1]),
				Value:  data[i+2],
			})
			i += 3
			continue
		case cmd == 0xA0:
			if i+2 >= len(data) {
				return nil, fmt.Errorf("vgm truncated AY write")
			}
			reg := data[i+1]
			events = append(events, ChipEvent{
				Sample: samplePos,
				Kind:   VGM_EVENT_WRITE,
				Family: CHIP_YM2149,
				Index:  uint16(reg >> 7),
				Reg:    uint32(reg & 0x7F),
				Value:  data[i+2],
			})
			i += 3
			continue
		case cmd == 0xD0:
			if i+3 >= len(data) {
				return nil, fmt.Errorf("vgm truncated YMF278B write at offset %d", i)
			}
			port := data[i+1]
			events = append(events, ChipEvent{
				Sample: samplePos,
				Kind:   VGM_EVENT_WRITE,
				Family: CHIP_YMF278B,
				Index:  uint16(port >> 7),
				Reg:    uint32(port&0x03)<<8 | uint32(data[i+2]),
				Value:  data[i+3],
			})
			i += 4
			continue
		case cmd == 0x61:
			if i+2 >= len(data) {
				return nil, fmt.Errorf("vgm truncated wait")
			}
			wait := binary.LittleEndian.Uint16(data[i+1 : i+3])
			samplePos += uint64(wait)
			i += 3
			continue
		case cmd == 0x62:
			samplePos += VGM_WAIT_60HZ
			i++
			continue
		case cmd == 0x63:
			samplePos += VGM_WAIT_50HZ
			i++
			continue
		case cmd >= 0x70 && cmd <= 0x7F:
			samplePos += uint64(cmd&0x0F) + 1
			i++
			continue
		case cmd == 0x67:
			if i+6 >= len(data) {
				return nil, fmt.Errorf("vgm truncated data block")
			}
			if data[i+1] != 0x66 {
				return nil, fmt.Errorf("vgm invalid data block")
			}
			blockType := data[i+2]
			blockLen := binary.LittleEndian.Uint32(data[i+3 : i+7])
			body := i + 7
			if uint64(body)+uint64(blockLen) > uint64(len(data)) {
				return nil, fmt.Errorf("vgm truncated data block at offset %d", i)
			}
			block := data[body : body+int(blockLen)]
			switch {
			case blockType == 0x00:
				events = append(events, ChipEvent{
					Sample: samplePos,
					Kind:   VGM_EVENT_PCM_BANK,
					Family: CHIP_YM2612,
					Start:  pcmBankSize,
					Data:   block,
				})
				pcmBankSize += blockLen
			case blockType >= 0x80 && blockType <= 0xBF:
				if _, ok := AccessClassForCode(uint16(blockType)); !ok {
					break
				}
				if len(block) < 8 {
					return nil, fmt.Errorf("vgm rom block too short at offset %d", i)
				}
				events = append(events, ChipEvent{
					Sample: samplePos,
					Kind:   VGM_EVENT_ROM,
					Family: romBlockFamily(blockType),
					Code:   uint16(blockType),
					Start:  binary.LittleEndian.Uint32(block[4:8]),
					Data:   block[8:],
				})
			}
			i = body + int(blockLen)
			continue
		case cmd == 0x68:
			// PCM RAM write: 12 bytes total
			if i+12 > len(data) {
				return nil, fmt.Errorf("vgm truncated PCM RAM write at offset %d", i)
			}
			i += 12
			continue
		case cmd >= 0x80 && cmd <= 0x8F:
			// YM2612 port 0 address 2A write from the PCM bank + wait n
			events = append(events, ChipEvent{
				Sample: samplePos,
				Kind:   VGM_EVENT_PCM_WRITE,
				Family: CHIP_YM2612,
				Reg:    0x2A,
			})
			samplePos += uint64(cmd & 0x0F)
			i++
			continue
		case cmd == 0xE0:
			if i+5 > len(data) {
				return nil, fmt.Errorf("vgm truncated PCM seek at offset %d", i)
			}
			events = append(events, ChipEvent{
				Sample: samplePos,
				Kind:   VGM_EVENT_PCM_SEEK,
				Family: CHIP_YM2612,
				Start:  binary.LittleEndian.Uint32(data[i+1 : i+5]),
			})
			i += 5
			continue
		case cmd == 0x90 || cmd == 0x91 || cmd == 0x95:
			// DAC stream setup/set data/start fast: 5 bytes total
			if i+5 > len(data) {
				return nil, fmt.Errorf("vgm truncated DAC stream command at offset %d", i)
			}
			i += 5
			continue
		case cmd == 0x92:
			// DAC stream set frequency: 6 bytes total
			if i+6 > len(data) {
				return nil, fmt.Errorf("vgm truncated DAC stream frequency at offset %d", i)
			}
			i += 6
			continue
		case cmd == 0x93:
			// DAC stream start: 11 bytes total
			if i+11 > len(data) {
				return nil, fmt.Errorf("vgm truncated DAC stream start at offset %d", i)
			}
			i += 11
			continue
		case cmd == 0x94:
			// DAC stream stop: 2 bytes total
			if i+2 > len(data) {
				return nil, fmt.Errorf("vgm truncated DAC stream stop at offset %d", i)
			}
			i += 2
			continue
		case cmd >= 0x30 && cmd <= 0x3F, cmd == 0x4F, cmd == 0x50:
			// One-operand commands (reserved, GG stereo, SN76489): 2 bytes total
			if i+2 > len(data) {
				return nil, fmt.Errorf("vgm truncated command 0x%02X at offset %d", cmd, i)
			}
			i += 2
			continue
		case cmd >= 0x40 && cmd <= 0x4E, cmd == 0x5D, cmd >= 0xB0 && cmd <= 0xBF, cmd == 0xAD:
			// Two-operand writes for chips without a core: 3 bytes total
			if i+3 > len(data) {
				return nil, fmt.Errorf("vgm truncated command 0x%02X at offset %d", cmd, i)
			}
			i += 3
			continue
		case cmd >= 0xC0 && cmd <= 0xDF:
			// Three-operand chip writes: 4 bytes total
			if i+4 > len(data) {
				return nil, fmt.Errorf("vgm truncated command 0x%02X at offset %d", cmd, i)
			}
			i += 4
			continue
		case cmd >= 0xE1 && cmd <= 0xFF:
			// Four-operand commands: 5 bytes total
			if i+5 > len(data) {
				return nil, fmt.Errorf("vgm truncated command 0x%02X at offset %d", cmd, i)
			}
			i += 5
			continue
		default:
			// Unknown command: skip 1 byte
			i++
			continue
		}
	}

	if len(events) > 0 {
		totalSamples = max(totalSamples, events[len(events)-1].Sample+1)
	}
	totalSamples = max(totalSamples, samplePos)
	if !loopFound && loopSamples > 0 && totalSamples >= uint64(loopSamples) {
		loopSample = totalSamples - uint64(loopSamples)
		loopFound = true
	}

	vgm.Events = events
	vgm.TotalSamples = totalSamples
	vgm.LoopSamples = uint64(loopSamples)
	vgm.LoopSample = loopSample
	vgm.HasLoop = loopFound && loopOffset != 0
	return vgm, nil
}

// romBlockFamily is the chip a VGM ROM data block type belongs to.
func romBlockFamily(blockType byte) ChipFamily {
	switch blockType {
	case ROM_YM2608_DELTA_T:
		return CHIP_YM2608
	case ROM_YM2610_ADPCM, ROM_YM2610_DELTA_T:
		return CHIP_YM2610
	case ROM_YMF278B_ROM, ROM_YMF278B_RAM:
		return CHIP_YMF278B
	case ROM_Y8950_ROM:
		return CHIP_Y8950
	}
	return CHIP_FAMILIES
}

func readVGMData(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := make([]byte, 2)
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	if header[0] == 0x1F && header[1] == 0x8B {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(gz)
	}

	return io.ReadAll(f)
}

func isVGMExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vgm", ".vgz":
		return true
	default:
		return false
	}
}
