// chip_host.go - Host boundary: raw family ids and access codes onto the registry

package main

import "fmt"

// ChipHost is the narrow call surface a host drives. It speaks in the raw
// numeric family ids and ROM access codes hosts pass around and resolves
// them against its registry.
type ChipHost struct {
	registry *ChipRegistry
}

func NewChipHost(registry *ChipRegistry) *ChipHost {
	if registry == nil {
		registry = NewChipRegistry()
	}
	return &ChipHost{registry: registry}
}

func (h *ChipHost) Registry() *ChipRegistry {
	return h.registry
}

// AddChip creates a chip and returns its sample rate, or 0 when the family
// id is unknown.
func (h *ChipHost) AddChip(id uint16, clock uint32) uint32 {
	rate, err := h.registry.Add(ChipFamily(id), clock)
	if err != nil {
		return 0
	}
	return rate
}

func (h *ChipHost) lookup(id, index uint16) (*ChipInstance, error) {
	chip, ok := h.registry.Find(ChipFamily(id), int(index))
	if !ok {
		return nil, fmt.Errorf("%w: %s #%d", ErrChipNotFound, ChipFamily(id), index)
	}
	return chip, nil
}

// Write queues a register write on the index-th chip of a family.
func (h *ChipHost) Write(id, index uint16, reg uint32, data uint8) error {
	chip, err := h.lookup(id, index)
	if err != nil {
		return err
	}
	chip.Write(reg, data)
	return nil
}

// Generate accumulates len(buf)/2 stereo frames into buf.
func (h *ChipHost) Generate(id, index uint16, buf []int32) error {
	chip, err := h.lookup(id, index)
	if err != nil {
		return err
	}
	chip.Generate(buf)
	return nil
}

// RemoveChip removes the first chip of a family.
func (h *ChipHost) RemoveChip(id uint16) {
	h.registry.Remove(ChipFamily(id), 0)
}

// AddROMData copies data into the region selected by accessCode on the first
// two chips of a family.
func (h *ChipHost) AddROMData(id, accessCode uint16, data []byte, start uint32) {
	class, ok := AccessClassForCode(accessCode)
	if !ok {
		warnf("chip_host: unsupported rom access code 0x%02X for %s\n", accessCode, ChipFamily(id))
		return
	}
	for index := 0; index < 2; index++ {
		if chip, found := h.registry.Find(ChipFamily(id), index); found {
			chip.LoadRegion(class, start, data)
		}
	}
}

// SeekPCM positions the PCM stream cursor of a chip.
func (h *ChipHost) SeekPCM(id, index uint16, pos uint32) error {
	chip, err := h.lookup(id, index)
	if err != nil {
		return err
	}
	chip.SeekPCM(pos)
	return nil
}

// ReadPCM returns the next byte of a chip's PCM stream.
func (h *ChipHost) ReadPCM(id, index uint16) (uint8, error) {
	chip, err := h.lookup(id, index)
	if err != nil {
		return 0, err
	}
	return chip.ReadPCM(), nil
}

// ResetChip drops a chip's queued writes and resets its core.
func (h *ChipHost) ResetChip(id, index uint16) error {
	chip, err := h.lookup(id, index)
	if err != nil {
		return err
	}
	chip.Reset()
	return nil
}

// ReadRegister reads a chip's read port. ok is false when the core has none.
func (h *ChipHost) ReadRegister(id, index uint16, offset uint32) (value uint8, ok bool, err error) {
	chip, err := h.lookup(id, index)
	if err != nil {
		return 0, false, err
	}
	value, ok = chip.ReadRegister(offset)
	return value, ok, nil
}

// LoadPCM copies data into a chip's PCM region at base.
func (h *ChipHost) LoadPCM(id, index uint16, base uint32, data []byte) error {
	chip, err := h.lookup(id, index)
	if err != nil {
		return err
	}
	chip.LoadRegion(ACCESS_PCM, base, data)
	return nil
}
