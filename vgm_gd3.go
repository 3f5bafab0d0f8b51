// vgm_gd3.go - GD3 tag block (UTF-16LE track metadata) for VGM files

package main

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

type GD3Tags struct {
	TrackName   string
	TrackNameJ  string
	GameName    string
	GameNameJ   string
	SystemName  string
	SystemNameJ string
	Author      string
	AuthorJ     string
	Date        string
	Converter   string
	Notes       string
}

func parseGD3(data []byte, offset int) (GD3Tags, error) {
	var tags GD3Tags
	if offset < 0 || offset+12 > len(data) {
		return tags, fmt.Errorf("gd3 offset out of range")
	}
	if !bytes.Equal(data[offset:offset+4], []byte("Gd3 ")) {
		return tags, fmt.Errorf("invalid gd3 header")
	}
	length := binary.LittleEndian.Uint32(data[offset+8 : offset+12])
	body := data[offset+12:]
	if uint64(length) < uint64(len(body)) {
		body = body[:length]
	}

	fields := []*string{
		&tags.TrackName, &tags.TrackNameJ,
		&tags.GameName, &tags.GameNameJ,
		&tags.SystemName, &tags.SystemNameJ,
		&tags.Author, &tags.AuthorJ,
		&tags.Date, &tags.Converter, &tags.Notes,
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	for _, field := range fields {
		end := utf16Terminator(body)
		if end < 0 {
			break
		}
		text, err := decoder.Bytes(body[:end])
		if err != nil {
			return tags, fmt.Errorf("gd3 decode: %w", err)
		}
		*field = string(text)
		body = body[end+2:]
	}
	return tags, nil
}

// utf16Terminator finds the byte offset of the next 16-bit NUL.
func utf16Terminator(b []byte) int {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}
	return -1
}

// Title picks the most descriptive English title available.
func (t GD3Tags) Title() string {
	switch {
	case t.TrackName != "" && t.GameName != "":
		return t.GameName + " - " + t.TrackName
	case t.TrackName != "":
		return t.TrackName
	default:
		return t.GameName
	}
}
