// chip_instance.go - One emulated chip: core, pending writes and sample memory

package main

import "fmt"

// logChipWrites prints every register write as it reaches a core.
var logChipWrites = false

// ChipInstance adapts one synthesis core to the registry. Host writes are
// queued and applied one per generated frame so register changes land on the
// same sample boundaries the host issued them against.
type ChipInstance struct {
	family   ChipFamily
	name     string
	clock    uint32
	revision bool

	core    SynthCore
	queue   WriteQueue
	regions MemoryRegions
	output  []int32
	frames  uint64
}

func newChipInstance(family ChipFamily, clockWord uint32) *ChipInstance {
	chip := &ChipInstance{
		family:   family,
		name:     family.VariantName(clockWord),
		clock:    clockWord & CLOCK_MASK,
		revision: clockWord&CLOCK_REVISION != 0,
	}
	chip.core = newSynthCore(family, chip.clock, chip.revision, chip)
	chip.output = make([]int32, chip.core.Outputs())
	chip.core.Reset()
	return chip
}

func (c *ChipInstance) Family() ChipFamily { return c.family }
func (c *ChipInstance) Name() string       { return c.name }
func (c *ChipInstance) Clock() uint32      { return c.clock }
func (c *ChipInstance) Revision() bool     { return c.revision }

// Frames is the number of frames generated since creation.
func (c *ChipInstance) Frames() uint64 { return c.frames }

// SampleRate is the core's native output rate for this instance's clock.
func (c *ChipInstance) SampleRate() uint32 {
	return c.core.SampleRate(c.clock)
}

// Write queues a register write; it reaches the core during Generate.
func (c *ChipInstance) Write(addr uint32, data uint8) {
	c.queue.Enqueue(addr, data)
}

// Pending reports how many writes are still queued.
func (c *ChipInstance) Pending() int {
	return c.queue.Len()
}

// apply turns a host write into the core's address/data port pair.
func (c *ChipInstance) apply(w RegisterWrite) {
	addr1 := 2 * w.Port()
	addr2 := addr1 + c.family.PortStep()
	if logChipWrites {
		fmt.Printf("%10.5f: %s %03X=%02X\n", c.seconds(), c.name, w.Addr&0x3FF, w.Data)
	}
	c.core.Write(addr1, w.Reg())
	c.core.Write(addr2, w.Data)
}

func (c *ChipInstance) seconds() float64 {
	rate := c.SampleRate()
	if rate == 0 {
		return 0
	}
	return float64(c.frames) / float64(rate)
}

// Generate renders len(buf)/2 stereo frames, adding into buf. Each frame
// applies at most one queued write, then steps the core once. It returns
// the number of frames produced.
func (c *ChipInstance) Generate(buf []int32) int {
	frames := len(buf) / 2
	for i := 0; i < frames; i++ {
		c.generateFrame(buf, i*2)
	}
	return frames
}

func (c *ChipInstance) generateFrame(buf []int32, pos int) {
	if w, ok := c.queue.DrainOne(); ok {
		c.apply(w)
	}
	c.core.Generate(c.output)
	MixInto(c.family, c.output, buf, pos)
	c.frames++
}

// LoadRegion copies data into one of the instance's sample memories.
func (c *ChipInstance) LoadRegion(class AccessClass, base uint32, data []byte) {
	c.regions.Write(class, base, data)
}

// RegionSize reports the current size of a sample memory.
func (c *ChipInstance) RegionSize(class AccessClass) int {
	return c.regions.Size(class)
}

func (c *ChipInstance) SeekPCM(pos uint32) { c.regions.SeekPCM(pos) }
func (c *ChipInstance) ReadPCM() uint8     { return c.regions.ReadPCM() }

// ExternalRead implements MemoryAccess for the core.
func (c *ChipInstance) ExternalRead(class AccessClass, offset uint32) uint8 {
	return c.regions.Read(class, offset)
}

// ExternalWrite implements MemoryAccess for cores that record into their
// own sample memory.
func (c *ChipInstance) ExternalWrite(class AccessClass, address uint32, data uint8) {
	c.regions.Store(class, address, data)
}

// ReadRegister reads back through the core when it supports reads.
func (c *ChipInstance) ReadRegister(offset uint32) (uint8, bool) {
	r, ok := c.core.(interface{ Read(offset uint32) uint8 })
	if !ok {
		return 0, false
	}
	return r.Read(offset), true
}

// Reset clears pending writes and resets the core. Sample memory is kept.
func (c *ChipInstance) Reset() {
	c.queue.Clear()
	c.core.Reset()
}
