// vgm_player.go - Replays a parsed VGM stream through the chip host.

package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// vgmChipRef is one chip instance the current stream drives.
type vgmChipRef struct {
	Family     ChipFamily
	Index      uint16
	Name       string
	Clock      uint32
	SampleRate uint32
}

// vgmChipStream converts one chip's native frame stream to the tick rate.
// acc counts native frames owed in units of 1/VGM_TICK_RATE; a chip faster
// than the tick rate holds its newest frame, a slower one is interpolated
// linearly between its last two frames.
type vgmChipStream struct {
	rate      uint64
	acc       uint64
	prev, now [2]int32
}

func (s *vgmChipStream) reset() {
	s.acc = 0
	s.prev = [2]int32{}
	s.now = [2]int32{}
}

// advance steps the chip through the native frames due for one tick and
// adds the resulting output frame to out.
func (s *vgmChipStream) advance(host *ChipHost, ref vgmChipRef, out *[2]int32) {
	s.acc += s.rate
	for s.acc >= VGM_TICK_RATE {
		s.acc -= VGM_TICK_RATE
		s.prev = s.now
		s.now = [2]int32{}
		_ = host.Generate(uint16(ref.Family), ref.Index, s.now[:])
	}
	if s.rate >= VGM_TICK_RATE {
		out[0] += s.now[0]
		out[1] += s.now[1]
		return
	}
	frac := int64(s.acc)
	for ch := 0; ch < 2; ch++ {
		prev, now := int64(s.prev[ch]), int64(s.now[ch])
		out[ch] += int32(prev + (now-prev)*frac/VGM_TICK_RATE)
	}
}

// VGMPlayer drives a ChipHost from VGM events at the 44100 Hz VGM tick
// rate. Every tick applies the events due at that sample, then steps each
// chip at its native rate and sums the converted frames.
type VGMPlayer struct {
	mutex sync.Mutex
	host  *ChipHost

	file     *VGMFile
	chips    []vgmChipRef
	streams  []vgmChipStream
	metadata MusicMetadata

	eventIndex     int
	currentSample  uint64
	loopEventIndex int
	maxLoops       int // extra passes through the loop; negative loops forever
	loopCount      int
	playing        bool
	dropped        int

	frame [2]int32
}

func NewVGMPlayer(host *ChipHost) *VGMPlayer {
	if host == nil {
		host = NewChipHost(nil)
	}
	return &VGMPlayer{host: host}
}

func (p *VGMPlayer) Load(path string) error {
	if !isVGMExtension(path) {
		return fmt.Errorf("unsupported VGM file type: %s", path)
	}
	file, err := ParseVGMFile(path)
	if err != nil {
		return err
	}
	return p.setFile(file)
}

func (p *VGMPlayer) LoadData(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("vgm data empty")
	}
	file, err := ParseVGMData(data)
	if err != nil {
		return err
	}
	return p.setFile(file)
}

// vgmAYClock picks the YM2149 clock the way VGM players do: the AY is driven
// from the FM chip's master clock when one is present.
func vgmAYClock(file *VGMFile) uint32 {
	raw := file.Clocks[CHIP_YM2149]
	switch {
	case file.Clocks[CHIP_YM2151]&CLOCK_MASK != 0:
		return file.Clocks[CHIP_YM2151] & CLOCK_MASK
	case file.Clocks[CHIP_YM2413]&CLOCK_MASK != 0:
		return file.Clocks[CHIP_YM2413] & CLOCK_MASK
	default:
		return (raw & CLOCK_MASK) * 2
	}
}

type vgmChipPlan struct {
	family ChipFamily
	clock  uint32
	count  int
}

// vgmChipPlans lists the chips a stream's header declares.
func vgmChipPlans(file *VGMFile) []vgmChipPlan {
	var plans []vgmChipPlan
	for family := ChipFamily(0); family < CHIP_FAMILIES; family++ {
		raw, count := file.Clock(family)
		if count == 0 {
			continue
		}
		clock := raw & (CLOCK_MASK | CLOCK_REVISION)
		if family == CHIP_YM2149 {
			clock = vgmAYClock(file)
		}
		plans = append(plans, vgmChipPlan{family: family, clock: clock, count: count})
	}
	return plans
}

func (p *VGMPlayer) setFile(file *VGMFile) error {
	plans := vgmChipPlans(file)
	if len(plans) == 0 {
		return fmt.Errorf("vgm stream uses no supported chips")
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.host.Registry().Clear()
	p.chips = p.chips[:0]
	for _, plan := range plans {
		for index := 0; index < plan.count; index++ {
			rate := p.host.AddChip(uint16(plan.family), plan.clock)
			p.chips = append(p.chips, vgmChipRef{
				Family:     plan.family,
				Index:      uint16(index),
				Name:       plan.family.VariantName(plan.clock),
				Clock:      plan.clock & CLOCK_MASK,
				SampleRate: rate,
			})
		}
	}
	p.streams = make([]vgmChipStream, len(p.chips))
	for i, ref := range p.chips {
		p.streams[i].rate = uint64(ref.SampleRate)
	}

	p.file = file
	p.metadata = MusicMetadata{
		Title:    file.GD3.Title(),
		Author:   file.GD3.Author,
		System:   file.GD3.SystemName,
		Date:     file.GD3.Date,
		Duration: file.DurationSeconds(),
	}
	p.rewind()
	p.dropped = 0
	p.loopEventIndex = len(file.Events)
	if file.HasLoop {
		for i, ev := range file.Events {
			if ev.Sample >= file.LoopSample {
				p.loopEventIndex = i
				break
			}
		}
	}
	return nil
}

func (p *VGMPlayer) rewind() {
	p.eventIndex = 0
	p.currentSample = 0
	p.loopCount = 0
	for i := range p.streams {
		p.streams[i].reset()
	}
}

// Restart rewinds the stream to its first sample and resets every chip.
// Sample memory is kept; the stream's data blocks reload it as they replay.
func (p *VGMPlayer) Restart() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.file == nil {
		return
	}
	p.host.Registry().Each(func(chip *ChipInstance) { chip.Reset() })
	p.rewind()
}

// SetLoops sets how many times the loop section repeats after the first
// pass. A negative value loops forever.
func (p *VGMPlayer) SetLoops(n int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.maxLoops = n
}

func (p *VGMPlayer) Play() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.playing = p.file != nil
}

func (p *VGMPlayer) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.playing = false
}

func (p *VGMPlayer) IsPlaying() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.playing
}

// DurationSeconds covers the first pass plus any finite loop repeats.
func (p *VGMPlayer) DurationSeconds() float64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.file == nil {
		return 0
	}
	if p.file.HasLoop && p.maxLoops < 0 {
		return 0
	}
	total := float64(p.file.TotalSamples)
	if p.file.HasLoop && p.maxLoops > 0 {
		total += float64(p.maxLoops) * float64(p.file.TotalSamples-p.file.LoopSample)
	}
	return total / VGM_TICK_RATE
}

func (p *VGMPlayer) DurationText() string {
	return formatDuration(p.DurationSeconds())
}

func (p *VGMPlayer) Metadata() MusicMetadata {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.metadata
}

// Chips lists the chip instances the loaded stream drives.
func (p *VGMPlayer) Chips() []vgmChipRef {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]vgmChipRef(nil), p.chips...)
}

// Position is the current tick within the stream.
func (p *VGMPlayer) Position() uint64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.currentSample
}

// Dropped counts events addressed to chips the header never declared.
func (p *VGMPlayer) Dropped() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.dropped
}

func vgmDebugEnabled() bool {
	value := strings.ToLower(os.Getenv("VGM_DEBUG"))
	return value == "1" || value == "true" || value == "yes"
}

func (p *VGMPlayer) applyEvent(ev ChipEvent) {
	var err error
	id := uint16(ev.Family)
	switch ev.Kind {
	case VGM_EVENT_WRITE:
		err = p.host.Write(id, ev.Index, ev.Reg, ev.Value)
	case VGM_EVENT_ROM:
		p.host.AddROMData(id, ev.Code, ev.Data, ev.Start)
	case VGM_EVENT_PCM_BANK:
		err = p.host.LoadPCM(id, 0, ev.Start, ev.Data)
	case VGM_EVENT_PCM_SEEK:
		err = p.host.SeekPCM(id, 0, ev.Start)
	case VGM_EVENT_PCM_WRITE:
		var b uint8
		if b, err = p.host.ReadPCM(id, 0); err == nil {
			err = p.host.Write(id, 0, ev.Reg, b)
		}
	}
	if err != nil {
		p.dropped++
		if vgmDebugEnabled() {
			fmt.Fprintf(os.Stderr, "vgm_player: %v\n", err)
		}
	}
}

// tick advances the stream by one sample and returns the mixed frame. It
// must be called with the mutex held.
func (p *VGMPlayer) tick() (int32, int32) {
	events := p.file.Events
	for p.eventIndex < len(events) && events[p.eventIndex].Sample <= p.currentSample {
		p.applyEvent(events[p.eventIndex])
		p.eventIndex++
	}

	p.frame = [2]int32{}
	for i, ref := range p.chips {
		p.streams[i].advance(p.host, ref, &p.frame)
	}

	p.currentSample++
	if p.currentSample >= p.file.TotalSamples && p.eventIndex >= len(events) {
		if p.file.HasLoop && (p.maxLoops < 0 || p.loopCount < p.maxLoops) {
			p.currentSample = p.file.LoopSample
			p.eventIndex = p.loopEventIndex
			p.loopCount++
		} else {
			p.playing = false
		}
	}
	return p.frame[0], p.frame[1]
}

// Render fills buf with interleaved stereo frames until the stream ends and
// returns the number of frames written. buf is overwritten, not mixed into.
func (p *VGMPlayer) Render(buf []int32) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	frames := 0
	for i := 0; i+1 < len(buf); i += 2 {
		if !p.playing {
			break
		}
		buf[i], buf[i+1] = p.tick()
		frames++
	}
	return frames
}

// ReadStereo implements StereoSource. Once playback stops the rest of dst
// is silence.
func (p *VGMPlayer) ReadStereo(dst []float32) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	n := 0
	for ; n+1 < len(dst); n += 2 {
		if !p.playing {
			break
		}
		l, r := p.tick()
		dst[n] = sampleToFloat(l)
		dst[n+1] = sampleToFloat(r)
	}
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return n
}
