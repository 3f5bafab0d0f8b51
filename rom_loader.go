// rom_loader.go - Built-in ROM images read from disk

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const YM2608_ROM_NAME = "ym2608_adpcm_rom.bin"

// loadROMImage reads a ROM image from dir, or the working directory when dir
// is empty.
func loadROMImage(dir, name string) ([]byte, error) {
	path := name
	if dir != "" {
		path = filepath.Join(dir, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return data, nil
}
