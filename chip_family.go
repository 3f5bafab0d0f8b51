// chip_family.go - Supported Yamaha chip families and their fixed topology

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
	"strconv"
	"strings"
)

// ChipFamily identifies an emulated chip model. The numeric values are the
// ids hosts pass across the boundary and must not be reordered.
type ChipFamily uint16

const (
	CHIP_YM2149 ChipFamily = iota
	CHIP_YM2151
	CHIP_YM2203
	CHIP_YM2413
	CHIP_YM2608
	CHIP_YM2610
	CHIP_YM2612
	CHIP_YM3526
	CHIP_Y8950
	CHIP_YM3812
	CHIP_YMF262
	CHIP_YMF278B
	CHIP_FAMILIES
)

const (
	CLOCK_MASK      = 0x3FFFFFFF
	CLOCK_DUAL_CHIP = 0x40000000 // VGM header: two chips of this family
	CLOCK_REVISION  = 0x80000000 // YM2610: select YM2610B
)

// MixRule selects the downmix applied to a family's raw outputs.
type MixRule int

const (
	MIX_STEREO       MixRule = iota // L=c0, R=c1
	MIX_OPN_SSG                     // L=R=c0+(c1+c2+c3)/2
	MIX_ADPCM_DUAL                  // L=c0+c2/2, R=c1+c2/2
	MIX_SSG                         // L=R=(c0+c1+c2)/2
	MIX_OPL4_PCM                    // L=c4, R=c5
	MIX_OPLL                        // L=R=c0+c1
	MIX_MONO_HALVED                 // L=R=c0/2
)

type chipFamilyInfo struct {
	name      string
	outputs   int
	divisor   uint32
	mix       MixRule
	portStep  uint32 // data port offset from the address port
	vgmClock  int    // header offset of the clock word, 0 if absent
	needsROM  string // built-in ROM image loaded on add
	romClass  AccessClass
	variantOf string
}

var chipFamilies = [CHIP_FAMILIES]chipFamilyInfo{
	CHIP_YM2149:  {name: "YM2149", outputs: 3, divisor: 8, mix: MIX_SSG, portStep: 2, vgmClock: 0x74},
	CHIP_YM2151:  {name: "YM2151", outputs: 2, divisor: 64, mix: MIX_STEREO, portStep: 1, vgmClock: 0x30},
	CHIP_YM2203:  {name: "YM2203", outputs: 4, divisor: 72, mix: MIX_OPN_SSG, portStep: 1, vgmClock: 0x44},
	CHIP_YM2413:  {name: "YM2413", outputs: 2, divisor: 72, mix: MIX_OPLL, portStep: 1, vgmClock: 0x10},
	CHIP_YM2608:  {name: "YM2608", outputs: 3, divisor: 144, mix: MIX_ADPCM_DUAL, portStep: 1, vgmClock: 0x48, needsROM: YM2608_ROM_NAME, romClass: ACCESS_ADPCM_A},
	CHIP_YM2610:  {name: "YM2610", outputs: 3, divisor: 144, mix: MIX_ADPCM_DUAL, portStep: 1, vgmClock: 0x4C, variantOf: "YM2610B"},
	CHIP_YM2612:  {name: "YM2612", outputs: 2, divisor: 144, mix: MIX_STEREO, portStep: 1, vgmClock: 0x2C},
	CHIP_YM3526:  {name: "YM3526", outputs: 1, divisor: 72, mix: MIX_MONO_HALVED, portStep: 1, vgmClock: 0x54},
	CHIP_Y8950:   {name: "Y8950", outputs: 1, divisor: 72, mix: MIX_MONO_HALVED, portStep: 1, vgmClock: 0x58},
	CHIP_YM3812:  {name: "YM3812", outputs: 1, divisor: 72, mix: MIX_MONO_HALVED, portStep: 1, vgmClock: 0x50},
	CHIP_YMF262:  {name: "YMF262", outputs: 4, divisor: 288, mix: MIX_STEREO, portStep: 1, vgmClock: 0x5C},
	CHIP_YMF278B: {name: "YMF278B", outputs: 6, divisor: 768, mix: MIX_OPL4_PCM, portStep: 1, vgmClock: 0x60},
}

// Valid reports whether f is one of the supported families.
func (f ChipFamily) Valid() bool {
	return f < CHIP_FAMILIES
}

func (f ChipFamily) String() string {
	if !f.Valid() {
		return fmt.Sprintf("CHIP(%d)", uint16(f))
	}
	return chipFamilies[f].name
}

// Outputs is the number of raw channels the family's core produces per frame.
func (f ChipFamily) Outputs() int {
	if !f.Valid() {
		return 0
	}
	return chipFamilies[f].outputs
}

// MixRule returns the downmix used for the family.
func (f ChipFamily) MixRule() MixRule {
	if !f.Valid() {
		return MIX_STEREO
	}
	return chipFamilies[f].mix
}

// SampleRate derives the native output rate in Hz from a masked clock.
func (f ChipFamily) SampleRate(clock uint32) uint32 {
	if !f.Valid() {
		return 0
	}
	return (clock & CLOCK_MASK) / chipFamilies[f].divisor
}

// PortStep is the distance between the address and data register ports.
func (f ChipFamily) PortStep() uint32 {
	if !f.Valid() {
		return 1
	}
	return chipFamilies[f].portStep
}

// VariantName returns the display name for the sub-revision selected by the
// clock's high flag bit.
func (f ChipFamily) VariantName(clock uint32) string {
	if f.Valid() && clock&CLOCK_REVISION != 0 && chipFamilies[f].variantOf != "" {
		return chipFamilies[f].variantOf
	}
	return f.String()
}

// ParseChipFamily accepts a family name (case insensitive) or its numeric id.
func ParseChipFamily(name string) (ChipFamily, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i := range chipFamilies {
		if chipFamilies[i].name == upper || (chipFamilies[i].variantOf != "" && chipFamilies[i].variantOf == upper) {
			return ChipFamily(i), nil
		}
	}
	if id, err := strconv.ParseUint(upper, 10, 16); err == nil && ChipFamily(id).Valid() {
		return ChipFamily(id), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
}
