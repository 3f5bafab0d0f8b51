package main

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"testing"
	"unicode/utf16"
)

// buildVGMHeader creates a minimal VGM header with data starting at offset 0x80.
func buildVGMHeader(totalSamples uint32, ayClock uint32) []byte {
	header := make([]byte, 0x80)
	copy(header[0:4], []byte("Vgm "))
	binary.LittleEndian.PutUint32(header[0x08:0x0C], 0x00000171) // version 1.71
	binary.LittleEndian.PutUint32(header[0x18:0x1C], totalSamples)
	binary.LittleEndian.PutUint32(header[0x34:0x38], 0x4C) // data offset: 0x34+0x4C=0x80
	binary.LittleEndian.PutUint32(header[0x74:0x78], ayClock)
	return header
}

// setVGMClock stores a family's clock word in its header slot.
func setVGMClock(header []byte, family ChipFamily, clock uint32) {
	off := chipFamilies[family].vgmClock
	binary.LittleEndian.PutUint32(header[off:off+4], clock)
}

// setVGMLoop points the loop offset at a position in the command stream.
func setVGMLoop(header []byte, cmdOffset, loopSamples uint32) {
	binary.LittleEndian.PutUint32(header[0x1C:0x20], 0x80+cmdOffset-0x1C)
	binary.LittleEndian.PutUint32(header[0x20:0x24], loopSamples)
}

// vgmDataBlock encodes a 0x67 data block.
func vgmDataBlock(blockType byte, payload []byte) []byte {
	out := []byte{0x67, 0x66, blockType, 0, 0, 0, 0}
	binary.LittleEndian.PutUint32(out[3:7], uint32(len(payload)))
	return append(out, payload...)
}

// vgmROMBlock encodes a ROM data block with its 8-byte size/start prefix.
func vgmROMBlock(blockType byte, romSize, start uint32, payload []byte) []byte {
	body := make([]byte, 8, 8+len(payload))
	binary.LittleEndian.PutUint32(body[0:4], romSize)
	binary.LittleEndian.PutUint32(body[4:8], start)
	return vgmDataBlock(blockType, append(body, payload...))
}

// buildGD3 encodes a GD3 block from its eleven fields in order.
func buildGD3(fields ...string) []byte {
	var body bytes.Buffer
	for i := 0; i < 11; i++ {
		var s string
		if i < len(fields) {
			s = fields[i]
		}
		for _, u := range utf16.Encode([]rune(s)) {
			binary.Write(&body, binary.LittleEndian, u)
		}
		body.Write([]byte{0, 0})
	}
	out := []byte("Gd3 ")
	out = binary.LittleEndian.AppendUint32(out, 0x100)
	out = binary.LittleEndian.AppendUint32(out, uint32(body.Len()))
	return append(out, body.Bytes()...)
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}
