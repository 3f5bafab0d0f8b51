//go:build windows

package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// KeyWatcher puts stdin in raw mode during playback and turns key presses
// into playback commands.
type KeyWatcher struct {
	onKey        func(KeyCommand)
	stopCh       chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
}

func NewKeyWatcher(onKey func(KeyCommand)) *KeyWatcher {
	return &KeyWatcher{
		onKey:  onKey,
		stopCh: make(chan struct{}),
	}
}

// Start does nothing when stdin is not a terminal. The console read blocks,
// so the reader goroutine is left parked on exit.
func (w *KeyWatcher) Start() {
	w.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(w.fd) {
		return
	}
	oldState, err := term.MakeRaw(w.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal_keys: failed to set raw mode: %v\n", err)
		return
	}
	w.oldTermState = oldState

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			select {
			case <-w.stopCh:
				return
			default:
			}
			if err != nil {
				return
			}
			if n > 0 {
				if cmd := keyCommandFor(buf[0]); cmd != KEY_NONE {
					w.onKey(cmd)
				}
			}
		}
	}()
}

func (w *KeyWatcher) Stop() {
	w.stopped.Do(func() {
		close(w.stopCh)
	})
	if w.oldTermState != nil {
		_ = term.Restore(w.fd, w.oldTermState)
		w.oldTermState = nil
	}
}
