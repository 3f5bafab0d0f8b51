package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVGMParse_AYOnly(t *testing.T) {
	header := buildVGMHeader(735, 1773400)
	cmds := []byte{
		0xA0, 0x00, 0xFF, // AY reg 0 = 0xFF
		0xA0, 0x07, 0x3E, // AY reg 7 = 0x3E
		0x62, // wait 735 samples
		0x66, // end
	}
	data := append(header, cmds...)

	vgm, err := ParseVGMData(data)
	if err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}
	if len(vgm.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(vgm.Events))
	}
	if vgm.Events[0].Family != CHIP_YM2149 || vgm.Events[0].Reg != 0x00 || vgm.Events[0].Value != 0xFF {
		t.Errorf("event 0: %+v", vgm.Events[0])
	}
	if vgm.Events[1].Reg != 0x07 || vgm.Events[1].Value != 0x3E {
		t.Errorf("event 1: reg=%d val=%d", vgm.Events[1].Reg, vgm.Events[1].Value)
	}
	if vgm.TotalSamples != 735 {
		t.Errorf("TotalSamples = %d, want 735", vgm.TotalSamples)
	}
	clock, count := vgm.Clock(CHIP_YM2149)
	if clock != 1773400 || count != 1 {
		t.Errorf("Clock(YM2149) = %d,%d", clock, count)
	}
}

func TestVGMParse_WriteCommandsPerFamily(t *testing.T) {
	tests := []struct {
		cmd    byte
		family ChipFamily
		index  uint16
		reg    uint32
	}{
		{0x51, CHIP_YM2413, 0, 0x020},
		{0x52, CHIP_YM2612, 0, 0x020},
		{0x53, CHIP_YM2612, 0, 0x120},
		{0x54, CHIP_YM2151, 0, 0x020},
		{0x55, CHIP_YM2203, 0, 0x020},
		{0x56, CHIP_YM2608, 0, 0x020},
		{0x57, CHIP_YM2608, 0, 0x120},
		{0x58, CHIP_YM2610, 0, 0x020},
		{0x59, CHIP_YM2610, 0, 0x120},
		{0x5A, CHIP_YM3812, 0, 0x020},
		{0x5B, CHIP_YM3526, 0, 0x020},
		{0x5C, CHIP_Y8950, 0, 0x020},
		{0x5E, CHIP_YMF262, 0, 0x020},
		{0x5F, CHIP_YMF262, 0, 0x120},
		{0xA1, CHIP_YM2413, 1, 0x020},
		{0xA2, CHIP_YM2612, 1, 0x020},
		{0xA3, CHIP_YM2612, 1, 0x120},
		{0xA4, CHIP_YM2151, 1, 0x020},
		{0xAF, CHIP_YMF262, 1, 0x120},
	}
	for _, tt := range tests {
		data := append(buildVGMHeader(10, 0), tt.cmd, 0x20, 0x5A, 0x66)
		vgm, err := ParseVGMData(data)
		if err != nil {
			t.Fatalf("cmd 0x%02X: %v", tt.cmd, err)
		}
		if len(vgm.Events) != 1 {
			t.Fatalf("cmd 0x%02X: expected 1 event, got %d", tt.cmd, len(vgm.Events))
		}
		ev := vgm.Events[0]
		if ev.Kind != VGM_EVENT_WRITE || ev.Family != tt.family || ev.Index != tt.index || ev.Reg != tt.reg || ev.Value != 0x5A {
			t.Errorf("cmd 0x%02X: got %+v", tt.cmd, ev)
		}
	}
}

func TestVGMParse_SecondChipSelectors(t *testing.T) {
	data := append(buildVGMHeader(10, 1773400),
		0xA0, 0x87, 0x38, // second AY, reg 7
		0xD0, 0x82, 0x10, 0x55, // second YMF278B, port 2
		0x66)
	vgm, err := ParseVGMData(data)
	if err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}
	if len(vgm.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(vgm.Events))
	}
	ay := vgm.Events[0]
	if ay.Family != CHIP_YM2149 || ay.Index != 1 || ay.Reg != 0x07 {
		t.Errorf("AY event: %+v", ay)
	}
	opl4 := vgm.Events[1]
	if opl4.Family != CHIP_YMF278B || opl4.Index != 1 || opl4.Reg != 0x210 || opl4.Value != 0x55 {
		t.Errorf("YMF278B event: %+v", opl4)
	}
}

func TestVGMParse_HeaderClocksAndDualFlag(t *testing.T) {
	header := buildVGMHeader(10, 0)
	setVGMClock(header, CHIP_YM2612, 7670453|CLOCK_DUAL_CHIP)
	setVGMClock(header, CHIP_YM2610, 8000000|CLOCK_REVISION)
	setVGMClock(header, CHIP_YMF278B, 33868800)
	vgm, err := ParseVGMData(append(header, 0x66))
	if err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}

	if raw, count := vgm.Clock(CHIP_YM2612); raw&CLOCK_MASK != 7670453 || count != 2 {
		t.Errorf("YM2612 clock = %#x count %d", raw, count)
	}
	if raw, count := vgm.Clock(CHIP_YM2610); raw&CLOCK_REVISION == 0 || count != 1 {
		t.Errorf("YM2610 clock = %#x count %d", raw, count)
	}
	if raw, _ := vgm.Clock(CHIP_YMF278B); raw != 33868800 {
		t.Errorf("YMF278B clock = %d", raw)
	}
	if _, count := vgm.Clock(CHIP_YM2151); count != 0 {
		t.Errorf("YM2151 should be absent, count %d", count)
	}
}

func TestVGMParse_ClocksPastDataStartIgnored(t *testing.T) {
	header := buildVGMHeader(10, 1773400)
	// data offset 0x0C: commands begin at 0x40, so 0x74 is stream data
	header[0x34] = 0x0C
	header[0x40] = 0x66
	vgm, err := ParseVGMData(header)
	if err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}
	if vgm.Clocks[CHIP_YM2149] != 0 {
		t.Errorf("AY clock read from command stream: %d", vgm.Clocks[CHIP_YM2149])
	}
}

func TestVGMParse_Waits(t *testing.T) {
	data := append(buildVGMHeader(0, 1773400),
		0x61, 0x10, 0x00, // wait 16
		0xA0, 0x00, 0x01,
		0x70, // wait 1
		0x7F, // wait 16
		0xA0, 0x01, 0x02,
		0x63, // wait 882
		0x66)
	vgm, err := ParseVGMData(data)
	if err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}
	if vgm.Events[0].Sample != 16 || vgm.Events[1].Sample != 33 {
		t.Errorf("event samples = %d, %d", vgm.Events[0].Sample, vgm.Events[1].Sample)
	}
	if vgm.TotalSamples != 33+882 {
		t.Errorf("TotalSamples = %d, want %d", vgm.TotalSamples, 33+882)
	}
}

func TestVGMParse_PCMBankSeekAndDACWrites(t *testing.T) {
	cmds := vgmDataBlock(0x00, []byte{1, 2, 3})
	cmds = append(cmds, vgmDataBlock(0x00, []byte{4, 5})...)
	cmds = append(cmds,
		0xE0, 0x02, 0x00, 0x00, 0x00, // seek 2
		0x82, // DAC write + wait 2
		0x80, // DAC write + wait 0
		0x66)
	vgm, err := ParseVGMData(append(buildVGMHeader(0, 0), cmds...))
	if err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}
	if len(vgm.Events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(vgm.Events))
	}
	if ev := vgm.Events[0]; ev.Kind != VGM_EVENT_PCM_BANK || ev.Start != 0 || len(ev.Data) != 3 {
		t.Errorf("first bank: %+v", ev)
	}
	if ev := vgm.Events[1]; ev.Kind != VGM_EVENT_PCM_BANK || ev.Start != 3 || len(ev.Data) != 2 {
		t.Errorf("second bank: %+v", ev)
	}
	if ev := vgm.Events[2]; ev.Kind != VGM_EVENT_PCM_SEEK || ev.Start != 2 {
		t.Errorf("seek: %+v", ev)
	}
	if ev := vgm.Events[3]; ev.Kind != VGM_EVENT_PCM_WRITE || ev.Reg != 0x2A || ev.Family != CHIP_YM2612 || ev.Sample != 0 {
		t.Errorf("dac write: %+v", ev)
	}
	if ev := vgm.Events[4]; ev.Sample != 2 {
		t.Errorf("second dac write at sample %d, want 2", ev.Sample)
	}
}

func TestVGMParse_ROMBlocks(t *testing.T) {
	cmds := vgmROMBlock(0x81, 0x40000, 0x100, []byte{0xAA, 0xBB})
	cmds = append(cmds, vgmROMBlock(0x82, 0x80000, 0, []byte{0x01})...)
	cmds = append(cmds, vgmROMBlock(0x85, 0x10, 0, []byte{0x02})...) // no region
	cmds = append(cmds, 0x66)
	vgm, err := ParseVGMData(append(buildVGMHeader(0, 0), cmds...))
	if err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}
	if len(vgm.Events) != 2 {
		t.Fatalf("expected 2 ROM events, got %d", len(vgm.Events))
	}
	ev := vgm.Events[0]
	if ev.Kind != VGM_EVENT_ROM || ev.Family != CHIP_YM2608 || ev.Code != 0x81 || ev.Start != 0x100 {
		t.Errorf("YM2608 rom: %+v", ev)
	}
	if len(ev.Data) != 2 || ev.Data[0] != 0xAA {
		t.Errorf("YM2608 rom data = %v", ev.Data)
	}
	if ev := vgm.Events[1]; ev.Family != CHIP_YM2610 || ev.Code != 0x82 {
		t.Errorf("YM2610 rom: %+v", ev)
	}
}

func TestVGMParse_ROMBlockTooShort(t *testing.T) {
	cmds := append(vgmDataBlock(0x81, []byte{1, 2, 3}), 0x66)
	if _, err := ParseVGMData(append(buildVGMHeader(0, 0), cmds...)); err == nil {
		t.Fatal("expected error for ROM block without its header")
	}
}

func TestVGMParse_SkipDACStreamCommands(t *testing.T) {
	header := buildVGMHeader(735, 1773400)
	cmds := []byte{
		0xA0, 0x00, 0x10, // AY write
		0x90, 0x00, 0x00, 0x00, 0x00, // DAC setup (5 bytes)
		0x91, 0x00, 0x00, 0x00, 0x00, // DAC set data (5 bytes)
		0x92, 0x00, 0x00, 0x00, 0x00, 0x00, // DAC set freq (6 bytes)
		0x93, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // DAC start (11 bytes)
		0x94, 0x00, // DAC stop (2 bytes)
		0x95, 0x00, 0x00, 0x00, 0x00, // DAC start fast (5 bytes)
		0xA0, 0x01, 0x20, // AY write
		0x62,
		0x66,
	}
	vgm, err := ParseVGMData(append(header, cmds...))
	if err != nil {
		t.Fatalf("ParseVGMData should skip DAC stream commands, got error: %v", err)
	}
	if len(vgm.Events) != 2 {
		t.Fatalf("expected 2 AY events, got %d", len(vgm.Events))
	}
}

func TestVGMParse_SkipUnsupportedChips(t *testing.T) {
	header := buildVGMHeader(735, 1773400)
	cmds := []byte{
		0x50, 0x9F, // SN76489
		0x4F, 0xFF, // GG stereo
		0x5D, 0x01, 0x02, // YMZ280B
		0xB0, 0x01, 0x02, // RF5C68
		0xC0, 0x01, 0x02, 0x03, // Sega PCM
		0x68, 0x66, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // PCM RAM write (12 bytes)
		0xA0, 0x07, 0x3E, // AY write (kept)
		0x66,
	}
	vgm, err := ParseVGMData(append(header, cmds...))
	if err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}
	if len(vgm.Events) != 1 || vgm.Events[0].Reg != 0x07 {
		t.Fatalf("expected only the AY event, got %+v", vgm.Events)
	}
}

func TestVGMParse_Loop(t *testing.T) {
	header := buildVGMHeader(0, 1773400)
	cmds := []byte{
		0xA0, 0x00, 0x01,
		0x62, // intro: 735
		0xA0, 0x00, 0x02, // loop starts here (offset 4)
		0x62,
		0x66,
	}
	setVGMLoop(header, 4, 735)
	vgm, err := ParseVGMData(append(header, cmds...))
	if err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}
	if !vgm.HasLoop {
		t.Fatal("expected loop")
	}
	if vgm.LoopSample != 735 {
		t.Errorf("LoopSample = %d, want 735", vgm.LoopSample)
	}
	if vgm.TotalSamples != 1470 {
		t.Errorf("TotalSamples = %d, want 1470", vgm.TotalSamples)
	}
}

func TestVGMParse_GzipAndFile(t *testing.T) {
	data := append(buildVGMHeader(735, 1773400), 0xA0, 0x00, 0x42, 0x62, 0x66)
	packed := gzipBytes(t, data)

	vgm, err := ParseVGMData(packed)
	if err != nil {
		t.Fatalf("ParseVGMData(gzip) failed: %v", err)
	}
	if len(vgm.Events) != 1 || vgm.Events[0].Value != 0x42 {
		t.Fatalf("gzip events: %+v", vgm.Events)
	}

	path := filepath.Join(t.TempDir(), "tune.vgz")
	if err := os.WriteFile(path, packed, 0o644); err != nil {
		t.Fatal(err)
	}
	vgm, err = ParseVGMFile(path)
	if err != nil {
		t.Fatalf("ParseVGMFile failed: %v", err)
	}
	if len(vgm.Events) != 1 {
		t.Fatalf("file events: %d", len(vgm.Events))
	}
}

func TestVGMParse_GD3(t *testing.T) {
	cmds := []byte{0x62, 0x66}
	data := append(buildVGMHeader(735, 1773400), cmds...)
	gd3At := len(data)
	data = append(data, buildGD3("Opening", "オープニング", "Space Game", "", "Sega Mega Drive", "", "Composer")...)
	data[0x14] = byte(gd3At - 0x14)

	vgm, err := ParseVGMData(data)
	if err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}
	if vgm.GD3.TrackName != "Opening" || vgm.GD3.TrackNameJ != "オープニング" {
		t.Errorf("track names = %q / %q", vgm.GD3.TrackName, vgm.GD3.TrackNameJ)
	}
	if vgm.GD3.SystemName != "Sega Mega Drive" || vgm.GD3.Author != "Composer" {
		t.Errorf("gd3 = %+v", vgm.GD3)
	}
	if got := vgm.GD3.Title(); got != "Space Game - Opening" {
		t.Errorf("Title() = %q", got)
	}
}

func TestVGMParse_BadGD3Ignored(t *testing.T) {
	data := append(buildVGMHeader(735, 1773400), 0x62, 0x66)
	data[0x14] = 0x70 // points into the header, not at "Gd3 "
	warnings := captureWarnings(t)

	if _, err := ParseVGMData(data); err != nil {
		t.Fatalf("ParseVGMData failed: %v", err)
	}
	if warnings.Len() == 0 {
		t.Error("expected a gd3 warning")
	}
}

func TestParseVGMData_InvalidInput(t *testing.T) {
	if _, err := ParseVGMData([]byte{0x00}); err == nil {
		t.Error("expected error for tiny input")
	}
	bad := buildVGMHeader(1, 0)
	copy(bad[0:4], "Xgm ")
	if _, err := ParseVGMData(bad); err == nil {
		t.Error("expected error for bad magic")
	}
	short := buildVGMHeader(1, 0)
	short[0x34] = 0xF0
	if _, err := ParseVGMData(short); err == nil {
		t.Error("expected error for data offset past the end")
	}
}

func TestParseVGMData_TruncatedCommandErrors(t *testing.T) {
	header := buildVGMHeader(1, 44100)

	tests := []struct {
		name string
		cmds []byte
	}{
		{"truncated 2-byte cmd", []byte{0x30}},
		{"truncated 3-byte cmd", []byte{0x51, 0x00}},
		{"truncated 4-byte cmd", []byte{0xC0, 0x00, 0x00}},
		{"truncated YMF278B write", []byte{0xD0, 0x00, 0x00}},
		{"truncated 5-byte cmd", []byte{0xE0, 0x00, 0x00, 0x00}},
		{"truncated DAC stream", []byte{0x90, 0x00, 0x00, 0x00}},
		{"truncated data block", []byte{0x67, 0x66, 0x00, 0x10, 0x00, 0x00, 0x00, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append(append([]byte{}, header...), tt.cmds...)
			if _, err := ParseVGMData(data); err == nil {
				t.Error("expected error for truncated command")
			}
		})
	}
}
