// synth_core.go - Contract between a chip instance and its synthesis core

package main

import "sync"

// SynthCore is the opaque per-family synthesis unit. It decodes register
// writes, steps its generators and reports raw channel outputs. One call to
// Generate advances exactly one native sample step.
type SynthCore interface {
	Reset()
	Write(offset uint32, data uint8)
	Generate(out []int32)
	SampleRate(clock uint32) uint32
	Outputs() int
}

// MemoryAccess is the capability a core uses to reach its instance's sample
// memory. Reads past the end of a region return zero.
type MemoryAccess interface {
	ExternalRead(class AccessClass, offset uint32) uint8
	ExternalWrite(class AccessClass, address uint32, data uint8)
}

// SynthCoreFactory builds a core for one instance. clock is already masked;
// revision carries the clock's sub-revision flag.
type SynthCoreFactory func(family ChipFamily, clock uint32, revision bool, mem MemoryAccess) SynthCore

var (
	synthCoreMu        sync.RWMutex
	synthCoreFactories = map[ChipFamily]SynthCoreFactory{}
)

// RegisterSynthCore installs a factory for a family, replacing the default
// register-file core. Passing nil restores the default.
func RegisterSynthCore(family ChipFamily, factory SynthCoreFactory) {
	synthCoreMu.Lock()
	defer synthCoreMu.Unlock()
	if factory == nil {
		delete(synthCoreFactories, family)
		return
	}
	synthCoreFactories[family] = factory
}

// hasSynthCore reports whether a factory other than the default is installed.
func hasSynthCore(family ChipFamily) bool {
	synthCoreMu.RLock()
	defer synthCoreMu.RUnlock()
	return synthCoreFactories[family] != nil
}

func newSynthCore(family ChipFamily, clock uint32, revision bool, mem MemoryAccess) SynthCore {
	synthCoreMu.RLock()
	factory := synthCoreFactories[family]
	synthCoreMu.RUnlock()
	if factory != nil {
		return factory(family, clock, revision, mem)
	}
	return newRegisterCore(family, revision, mem)
}
