package main

import "testing"

type coreWrite struct {
	offset uint32
	data   uint8
}

// recordingCore logs every port write and emits a fixed output vector.
type recordingCore struct {
	family  ChipFamily
	clock   uint32
	mem     MemoryAccess
	writes  []coreWrite
	out     []int32
	steps   int
	resets  int
	// writesAtStep[i] is len(writes) when step i generated
	writesAtStep []int
}

func (c *recordingCore) Reset() { c.resets++ }

func (c *recordingCore) Write(offset uint32, data uint8) {
	c.writes = append(c.writes, coreWrite{offset, data})
}

func (c *recordingCore) Generate(out []int32) {
	copy(out, c.out)
	c.writesAtStep = append(c.writesAtStep, len(c.writes))
	c.steps++
}

func (c *recordingCore) SampleRate(clock uint32) uint32 { return c.family.SampleRate(clock) }
func (c *recordingCore) Outputs() int                   { return c.family.Outputs() }

// useRecordingCore swaps in a recordingCore factory for family until the
// test ends. Every core built is appended to the returned slice.
func useRecordingCore(t *testing.T, family ChipFamily, out []int32) *[]*recordingCore {
	t.Helper()
	cores := &[]*recordingCore{}
	RegisterSynthCore(family, func(f ChipFamily, clock uint32, revision bool, mem MemoryAccess) SynthCore {
		c := &recordingCore{family: f, clock: clock, mem: mem, out: out}
		*cores = append(*cores, c)
		return c
	})
	t.Cleanup(func() { RegisterSynthCore(family, nil) })
	return cores
}
