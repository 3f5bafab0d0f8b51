// chip_registry.go - Ordered collection of active chip instances

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
	"errors"
	"fmt"
)

var (
	ErrUnknownFamily = errors.New("unknown chip family")
	ErrChipNotFound  = errors.New("chip not found")
)

// ChipRegistry owns every active chip instance in creation order. Instances
// of one family are addressed by their ordinal among that family.
//
// The registry is not safe for concurrent use; callers serialize access.
type ChipRegistry struct {
	chips  []*ChipInstance
	romDir string
}

func NewChipRegistry() *ChipRegistry {
	return &ChipRegistry{}
}

// SetROMDir sets the directory built-in ROM images are read from. Empty
// means the working directory.
func (r *ChipRegistry) SetROMDir(dir string) {
	r.romDir = dir
}

// Add creates an instance for family and returns its native sample rate.
// Families with a built-in ROM have it loaded into every active instance of
// that family; a missing ROM file only produces a warning.
func (r *ChipRegistry) Add(family ChipFamily, clock uint32) (uint32, error) {
	if !family.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownFamily, uint16(family))
	}
	chip := newChipInstance(family, clock)
	r.chips = append(r.chips, chip)

	info := chipFamilies[family]
	if info.needsROM != "" {
		r.preloadROM(family, info.needsROM, info.romClass)
	}
	return chip.SampleRate(), nil
}

func (r *ChipRegistry) preloadROM(family ChipFamily, name string, class AccessClass) {
	rom, err := loadROMImage(r.romDir, name)
	if err != nil {
		warnf("chip_registry: %s enabled but %s not loaded: %v\n", family, name, err)
		return
	}
	for _, chip := range r.chips {
		if chip.family == family {
			chip.LoadRegion(class, 0, rom)
		}
	}
}

// Find returns the ordinal-th active instance of family.
func (r *ChipRegistry) Find(family ChipFamily, ordinal int) (*ChipInstance, bool) {
	if ordinal < 0 {
		return nil, false
	}
	for _, chip := range r.chips {
		if chip.family != family {
			continue
		}
		if ordinal == 0 {
			return chip, true
		}
		ordinal--
	}
	return nil, false
}

// Remove destroys the ordinal-th instance of family. It reports whether an
// instance was removed.
func (r *ChipRegistry) Remove(family ChipFamily, ordinal int) bool {
	chip, ok := r.Find(family, ordinal)
	if !ok {
		return false
	}
	for i, c := range r.chips {
		if c == chip {
			copy(r.chips[i:], r.chips[i+1:])
			r.chips[len(r.chips)-1] = nil
			r.chips = r.chips[:len(r.chips)-1]
			break
		}
	}
	return true
}

// Len is the number of active instances.
func (r *ChipRegistry) Len() int {
	return len(r.chips)
}

// Count is the number of active instances of one family.
func (r *ChipRegistry) Count(family ChipFamily) int {
	n := 0
	for _, chip := range r.chips {
		if chip.family == family {
			n++
		}
	}
	return n
}

// Each calls fn for every instance in creation order.
func (r *ChipRegistry) Each(fn func(chip *ChipInstance)) {
	for _, chip := range r.chips {
		fn(chip)
	}
}

// Clear drops every instance.
func (r *ChipRegistry) Clear() {
	r.chips = nil
}
