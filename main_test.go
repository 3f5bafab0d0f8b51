package main

import (
	"errors"
	"flag"
	"testing"
)

func TestParseArgs_DefaultsToPlay(t *testing.T) {
	opts, err := parseArgs([]string{"tune.vgm"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !opts.play || opts.filename != "tune.vgm" {
		t.Errorf("opts = %+v", opts)
	}
	if opts.rate != VGM_TICK_RATE {
		t.Errorf("rate = %d", opts.rate)
	}
}

func TestParseArgs_WavOnly(t *testing.T) {
	opts, err := parseArgs([]string{"-wav", "out.wav", "-loops", "2", "-seconds", "1.5", "tune.vgz"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if opts.play {
		t.Error("-wav alone should not enable realtime playback")
	}
	if opts.wavPath != "out.wav" || opts.loops != 2 || opts.seconds != 1.5 {
		t.Errorf("opts = %+v", opts)
	}
}

func TestParseArgs_LuaFileRunsAsScript(t *testing.T) {
	opts, err := parseArgs([]string{"demo.lua"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if opts.scriptPath != "demo.lua" || opts.filename != "" || opts.play {
		t.Errorf("opts = %+v", opts)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	if _, err := parseArgs(nil); !errors.Is(err, errUsage) {
		t.Errorf("no input: err = %v", err)
	}
	if _, err := parseArgs([]string{"song.mod"}); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := parseArgs([]string{"-seconds", "-1", "tune.vgm"}); err == nil {
		t.Error("expected error for negative -seconds")
	}
	if _, err := parseArgs([]string{"-bogus"}); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, err := parseArgs([]string{"-h"}); err != flag.ErrHelp {
		t.Errorf("-h: err = %v", err)
	}
}

func TestParseArgs_FeaturesNeedsNoInput(t *testing.T) {
	opts, err := parseArgs([]string{"-features"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !opts.features {
		t.Error("features flag not set")
	}
}
