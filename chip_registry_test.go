package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChipRegistry_AddAndFind(t *testing.T) {
	r := NewChipRegistry()
	rate, err := r.Add(CHIP_YM2612, 7670453)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rate != 53267 {
		t.Errorf("rate = %d", rate)
	}
	r.Add(CHIP_YM2151, 3579545)
	r.Add(CHIP_YM2612, 7670453|CLOCK_DUAL_CHIP)

	first, ok := r.Find(CHIP_YM2612, 0)
	if !ok {
		t.Fatal("first YM2612 missing")
	}
	second, ok := r.Find(CHIP_YM2612, 1)
	if !ok || second == first {
		t.Fatal("second YM2612 missing")
	}
	if second.Clock() != 7670453 {
		t.Errorf("flag bits kept in clock: %d", second.Clock())
	}
	if _, ok := r.Find(CHIP_YM2612, 2); ok {
		t.Error("ordinal past count should not be found")
	}
	if _, ok := r.Find(CHIP_YM2612, -1); ok {
		t.Error("negative ordinal should not be found")
	}
	if _, ok := r.Find(CHIP_YM3812, 0); ok {
		t.Error("absent family should not be found")
	}
	if r.Len() != 3 || r.Count(CHIP_YM2612) != 2 {
		t.Errorf("Len %d Count %d", r.Len(), r.Count(CHIP_YM2612))
	}
}

func TestChipRegistry_UnknownFamily(t *testing.T) {
	r := NewChipRegistry()
	rate, err := r.Add(ChipFamily(99), 1000000)
	if rate != 0 || !errors.Is(err, ErrUnknownFamily) {
		t.Errorf("rate %d err %v", rate, err)
	}
	if r.Len() != 0 {
		t.Error("unknown family must not add an instance")
	}
}

func TestChipRegistry_RemoveRenumbers(t *testing.T) {
	r := NewChipRegistry()
	r.Add(CHIP_YM3812, 3579545)
	r.Add(CHIP_YM3812, 3579545)
	second, _ := r.Find(CHIP_YM3812, 1)

	if !r.Remove(CHIP_YM3812, 0) {
		t.Fatal("Remove returned false")
	}
	now, ok := r.Find(CHIP_YM3812, 0)
	if !ok || now != second {
		t.Error("remaining instance should become ordinal 0")
	}
	r.Remove(CHIP_YM3812, 0)
	if r.Remove(CHIP_YM3812, 0) {
		t.Error("Remove on empty family should report false")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d", r.Len())
	}
}

func TestChipRegistry_EachAndClear(t *testing.T) {
	r := NewChipRegistry()
	r.Add(CHIP_YM2151, 3579545)
	r.Add(CHIP_YM2413, 3579545)
	var names []string
	r.Each(func(c *ChipInstance) { names = append(names, c.Name()) })
	if strings.Join(names, ",") != "YM2151,YM2413" {
		t.Errorf("order = %v", names)
	}
	r.Clear()
	if r.Len() != 0 {
		t.Error("Clear left instances")
	}
}

func TestChipRegistry_YM2608ROMPreload(t *testing.T) {
	dir := t.TempDir()
	rom := []byte{0x01, 0x02, 0x03, 0x04}
	if err := os.WriteFile(filepath.Join(dir, YM2608_ROM_NAME), rom, 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewChipRegistry()
	r.SetROMDir(dir)
	r.Add(CHIP_YM2608, 7987200)
	r.Add(CHIP_YM2608, 7987200)

	for i := 0; i < 2; i++ {
		chip, _ := r.Find(CHIP_YM2608, i)
		if chip.RegionSize(ACCESS_ADPCM_A) != len(rom) {
			t.Errorf("chip %d ADPCM-A size = %d", i, chip.RegionSize(ACCESS_ADPCM_A))
		}
		if chip.ExternalRead(ACCESS_ADPCM_A, 3) != 0x04 {
			t.Errorf("chip %d ROM contents wrong", i)
		}
	}
}

func TestChipRegistry_MissingROMWarns(t *testing.T) {
	warnings := captureWarnings(t)
	r := NewChipRegistry()
	r.SetROMDir(t.TempDir())
	rate, err := r.Add(CHIP_YM2608, 7987200)
	if err != nil || rate == 0 {
		t.Fatalf("Add should succeed without the ROM: rate %d err %v", rate, err)
	}
	if !strings.Contains(warnings.String(), YM2608_ROM_NAME) {
		t.Errorf("warning = %q", warnings.String())
	}
	chip, _ := r.Find(CHIP_YM2608, 0)
	if chip.RegionSize(ACCESS_ADPCM_A) != 0 {
		t.Error("ADPCM-A should stay empty")
	}
}

func TestLoadROMImage_Empty(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "empty.bin"), nil, 0o644)
	if _, err := loadROMImage(dir, "empty.bin"); err == nil {
		t.Error("expected error for empty ROM")
	}
}
