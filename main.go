// main.go - Command line entry point for ChipMix

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2026 Zayn Otley
https://github.com/IntuitionAmiga/ChipMix
License: GPLv3 or later
*/

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

// Version is overridden at link time with -ldflags "-X main.Version=...".
var Version = "dev"

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147mChipMix\033[0m - Yamaha FM and PSG chip mixer")
	fmt.Println("(c) 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/ChipMix")
	fmt.Println("License: GPLv3 or later")
}

type cliOptions struct {
	wavPath    string
	play       bool
	backend    string
	loops      int
	seconds    float64
	scriptPath string
	romDir     string
	rate       int
	info       bool
	features   bool
	trace      bool
	filename   string
}

var errUsage = errors.New("usage")

func defaultBackend() string {
	for _, name := range []string{"oto", "ebiten"} {
		for _, compiled := range audioBackendNames() {
			if compiled == name {
				return name
			}
		}
	}
	return "null"
}

func parseArgs(args []string) (*cliOptions, error) {
	opts := &cliOptions{}

	flagSet := flag.NewFlagSet("chipmix", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.wavPath, "wav", "", "Render to a 16-bit stereo WAV file")
	flagSet.BoolVar(&opts.play, "play", false, "Play through an audio backend")
	flagSet.StringVar(&opts.backend, "backend", defaultBackend(), "Audio backend (oto, ebiten, null)")
	flagSet.IntVar(&opts.loops, "loops", 0, "Extra loop passes for looped VGMs (-1 loops forever)")
	flagSet.Float64Var(&opts.seconds, "seconds", 0, "Stop after this many seconds (0 = end of stream)")
	flagSet.StringVar(&opts.scriptPath, "script", "", "Run a Lua script against the chip host")
	flagSet.StringVar(&opts.romDir, "rom-dir", "", "Directory holding chip ROM images")
	flagSet.IntVar(&opts.rate, "rate", VGM_TICK_RATE, "Output rate for script renders")
	flagSet.BoolVar(&opts.info, "info", false, "Print stream information and exit")
	flagSet.BoolVar(&opts.features, "features", false, "List compiled features and exit")
	flagSet.BoolVar(&opts.trace, "trace", false, "Log every register write as it reaches a chip")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./chipmix [-wav out.wav] [-play] [-backend oto] [-loops n] [-seconds n] [-rom-dir dir] file.vgm|file.vgz")
		fmt.Println("       ./chipmix -script file.lua [-wav out.wav]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	opts.filename = flagSet.Arg(0)

	if opts.features {
		return opts, nil
	}
	if opts.scriptPath == "" && opts.filename != "" {
		mode, err := modeFromExtension(opts.filename)
		if err != nil {
			return nil, err
		}
		if mode == "script" {
			opts.scriptPath, opts.filename = opts.filename, ""
		}
	}
	if opts.scriptPath == "" && opts.filename == "" {
		return nil, fmt.Errorf("%w: a VGM file or -script is required", errUsage)
	}
	if opts.seconds < 0 {
		return nil, fmt.Errorf("-seconds must not be negative")
	}
	if opts.rate <= 0 {
		return nil, fmt.Errorf("-rate must be positive")
	}
	if opts.scriptPath == "" && !opts.info && opts.wavPath == "" {
		opts.play = true
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if opts.features {
		printFeatures()
		return
	}
	boilerPlate()
	logChipWrites = opts.trace

	if opts.scriptPath != "" {
		err = runScript(opts)
	} else {
		err = runVGM(opts)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func runScript(opts *cliOptions) error {
	registry := NewChipRegistry()
	registry.SetROMDir(opts.romDir)
	lh := NewLuaHost(NewChipHost(registry))
	defer lh.Close()

	if err := lh.RunFile(opts.scriptPath); err != nil {
		return err
	}
	out := lh.Output()
	fmt.Printf("Script rendered %d frames\n", len(out)/2)
	if opts.wavPath == "" {
		return nil
	}
	w, err := NewWavWriter(opts.wavPath, opts.rate)
	if err != nil {
		return err
	}
	if err := w.Append(out); err != nil {
		w.Close()
		return err
	}
	fmt.Printf("Wrote %s (%d frames)\n", opts.wavPath, w.Frames())
	return w.Close()
}

func printVGMInfo(path string, player *VGMPlayer) {
	meta := player.Metadata()
	if meta.Title != "" || meta.Author != "" {
		fmt.Printf("Playing VGM: %s - %s\n", meta.Title, meta.Author)
	} else {
		fmt.Printf("Playing VGM file: %s\n", path)
	}
	if meta.System != "" {
		fmt.Printf("  System:   %s\n", meta.System)
	}
	if meta.Date != "" {
		fmt.Printf("  Date:     %s\n", meta.Date)
	}
	if d := player.DurationText(); d != "" {
		fmt.Printf("  Duration: %s\n", d)
	}
	for _, ref := range player.Chips() {
		fmt.Printf("  Chip:     %s #%d @ %d Hz (output %d Hz)\n", ref.Name, ref.Index, ref.Clock, ref.SampleRate)
	}
}

func runVGM(opts *cliOptions) error {
	registry := NewChipRegistry()
	registry.SetROMDir(opts.romDir)
	player := NewVGMPlayer(NewChipHost(registry))
	player.SetLoops(opts.loops)
	if err := player.Load(opts.filename); err != nil {
		return fmt.Errorf("loading VGM file: %w", err)
	}
	printVGMInfo(opts.filename, player)
	if opts.info {
		return nil
	}

	maxFrames := int(opts.seconds * VGM_TICK_RATE)
	if opts.wavPath != "" {
		if maxFrames == 0 && opts.loops < 0 {
			return fmt.Errorf("endless loop: set -seconds or -loops for WAV output")
		}
		frames, err := RenderToWAV(player, opts.wavPath, VGM_TICK_RATE, maxFrames)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%s)\n", opts.wavPath, formatDuration(float64(frames)/VGM_TICK_RATE))
		if opts.play {
			player.Restart()
		}
	}
	if opts.play {
		return playRealtime(player, opts.backend, opts.seconds)
	}
	return nil
}

// playRealtime blocks until the stream ends, the time limit passes or the
// user quits from the keyboard.
func playRealtime(player *VGMPlayer, backendName string, seconds float64) error {
	backend, err := NewAudioBackend(backendName, VGM_TICK_RATE)
	if err != nil {
		return fmt.Errorf("failed to initialize sound: %w", err)
	}
	defer backend.Close()

	backend.SetupPlayer(player)
	player.Play()
	backend.Start()

	quit := make(chan struct{}, 1)
	keys := NewKeyWatcher(func(cmd KeyCommand) {
		switch cmd {
		case KEY_QUIT:
			select {
			case quit <- struct{}{}:
			default:
			}
		case KEY_RESTART:
			player.Restart()
			player.Play()
		case KEY_PAUSE:
			if backend.IsStarted() {
				backend.Stop()
			} else {
				backend.Start()
			}
		}
	})
	keys.Start()
	defer keys.Stop()

	var deadline <-chan time.Time
	if seconds > 0 {
		timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
		defer timer.Stop()
		deadline = timer.C
	}
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-quit:
			player.Stop()
			return nil
		case <-deadline:
			player.Stop()
			return nil
		case <-poll.C:
			if !player.IsPlaying() {
				return nil
			}
		}
	}
}
