// synth_register_core.go - Default core: register file and ADPCM-B memory port

package main

// deltaTPort models the ADPCM-B (delta-T) external memory port found on the
// YM2608 and Y8950: the CPU can stream bytes into or out of sample memory
// through the data register when the memory bit is set in control1.
type deltaTPort struct {
	port       uint32
	ctrlReg    uint8
	startLoReg uint8
	startHiReg uint8
	dataReg    uint8
	shift      uint

	control1 uint8
	start    uint16
	address  uint32
}

const (
	DELTAT_CTRL_START  = 0x80
	DELTAT_CTRL_RECORD = 0x40
	DELTAT_CTRL_MEMORY = 0x20
	DELTAT_CTRL_RESET  = 0x01
)

func newDeltaTPort(family ChipFamily) *deltaTPort {
	switch family {
	case CHIP_YM2608:
		return &deltaTPort{port: 1, ctrlReg: 0x00, startLoReg: 0x02, startHiReg: 0x03, dataReg: 0x08, shift: 5}
	case CHIP_Y8950:
		return &deltaTPort{port: 0, ctrlReg: 0x07, startLoReg: 0x09, startHiReg: 0x0A, dataReg: 0x0F, shift: 2}
	}
	return nil
}

func (d *deltaTPort) recording() bool {
	return d.control1&(DELTAT_CTRL_START|DELTAT_CTRL_RECORD|DELTAT_CTRL_MEMORY) == DELTAT_CTRL_RECORD|DELTAT_CTRL_MEMORY
}

func (d *deltaTPort) reading() bool {
	return d.control1&(DELTAT_CTRL_START|DELTAT_CTRL_RECORD|DELTAT_CTRL_MEMORY) == DELTAT_CTRL_MEMORY
}

func (d *deltaTPort) write(reg uint8, data uint8, mem MemoryAccess) {
	switch reg {
	case d.ctrlReg:
		d.control1 = data
		if data&DELTAT_CTRL_RESET != 0 {
			d.control1 = 0
		}
		d.address = uint32(d.start) << d.shift
	case d.startLoReg:
		d.start = d.start&0xFF00 | uint16(data)
		d.address = uint32(d.start) << d.shift
	case d.startHiReg:
		d.start = d.start&0x00FF | uint16(data)<<8
		d.address = uint32(d.start) << d.shift
	case d.dataReg:
		if d.recording() && mem != nil {
			mem.ExternalWrite(ACCESS_ADPCM_B, d.address, data)
			d.address++
		}
	}
}

func (d *deltaTPort) read(mem MemoryAccess) (uint8, bool) {
	if !d.reading() || mem == nil {
		return 0, false
	}
	v := mem.ExternalRead(ACCESS_ADPCM_B, d.address)
	d.address++
	return v, true
}

// registerCore is used when no synthesis core has been registered for a
// family. It follows the chip's address/data port protocol into a register
// file and produces silence.
type registerCore struct {
	family   ChipFamily
	revision bool
	mem      MemoryAccess

	regs  [4][256]uint8
	latch [4]uint8

	deltaT *deltaTPort
}

func newRegisterCore(family ChipFamily, revision bool, mem MemoryAccess) *registerCore {
	c := &registerCore{
		family:   family,
		revision: revision,
		mem:      mem,
		deltaT:   newDeltaTPort(family),
	}
	return c
}

func (c *registerCore) Reset() {
	c.regs = [4][256]uint8{}
	c.latch = [4]uint8{}
	if c.deltaT != nil {
		c.deltaT = newDeltaTPort(c.family)
	}
}

// decode splits a core offset into its port and whether it addresses the
// data register.
func (c *registerCore) decode(offset uint32) (port uint32, isData bool) {
	if c.family.PortStep() == 2 {
		return 0, offset&2 != 0
	}
	return (offset >> 1) & 3, offset&1 != 0
}

func (c *registerCore) Write(offset uint32, data uint8) {
	port, isData := c.decode(offset)
	if !isData {
		c.latch[port] = data
		return
	}
	reg := c.latch[port]
	c.regs[port][reg] = data
	if c.deltaT != nil && c.deltaT.port == port {
		c.deltaT.write(reg, data, c.mem)
	}
}

// Read returns the latched register, or streams a byte from ADPCM-B memory
// when the delta-T data register is latched in memory read mode.
func (c *registerCore) Read(offset uint32) uint8 {
	port, _ := c.decode(offset)
	reg := c.latch[port]
	if c.deltaT != nil && c.deltaT.port == port && reg == c.deltaT.dataReg {
		if v, ok := c.deltaT.read(c.mem); ok {
			return v
		}
	}
	return c.regs[port][reg]
}

func (c *registerCore) Generate(out []int32) {
	for i := range out {
		out[i] = 0
	}
}

func (c *registerCore) SampleRate(clock uint32) uint32 {
	return c.family.SampleRate(clock)
}

func (c *registerCore) Outputs() int {
	return c.family.Outputs()
}

// Register returns the stored value of a register on a port.
func (c *registerCore) Register(port uint32, reg uint8) uint8 {
	return c.regs[port&3][reg]
}
