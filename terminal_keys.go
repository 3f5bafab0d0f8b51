//go:build !windows

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// KeyWatcher puts stdin in raw mode during playback and turns key presses
// into playback commands.
type KeyWatcher struct {
	onKey        func(KeyCommand)
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

func NewKeyWatcher(onKey func(KeyCommand)) *KeyWatcher {
	return &KeyWatcher{
		onKey:  onKey,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start does nothing when stdin is not a terminal.
func (w *KeyWatcher) Start() {
	w.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(w.fd) {
		close(w.done)
		return
	}

	oldState, err := term.MakeRaw(w.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal_keys: failed to set raw mode: %v\n", err)
		close(w.done)
		return
	}
	w.oldTermState = oldState

	if err := syscall.SetNonblock(w.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "terminal_keys: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(w.fd, w.oldTermState)
		w.oldTermState = nil
		close(w.done)
		return
	}
	w.nonblockSet = true

	go func() {
		defer close(w.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-w.stopCh:
				return
			default:
			}

			n, err := syscall.Read(w.fd, buf)
			if n > 0 {
				if cmd := keyCommandFor(buf[0]); cmd != KEY_NONE {
					w.onKey(cmd)
				}
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
		}
	}()
}

// Stop ends the reader goroutine and restores the terminal.
func (w *KeyWatcher) Stop() {
	w.stopped.Do(func() {
		close(w.stopCh)
	})
	<-w.done
	if w.nonblockSet {
		_ = syscall.SetNonblock(w.fd, false)
		w.nonblockSet = false
	}
	if w.oldTermState != nil {
		_ = term.Restore(w.fd, w.oldTermState)
		w.oldTermState = nil
	}
}
