// terminal_key_commands.go - Key bindings for interactive playback

package main

type KeyCommand int

const (
	KEY_NONE KeyCommand = iota
	KEY_QUIT
	KEY_PAUSE
	KEY_RESTART
)

func keyCommandFor(b byte) KeyCommand {
	switch b {
	case 'q', 'Q', 0x1B, 0x03: // Esc, Ctrl-C
		return KEY_QUIT
	case ' ', 'p', 'P':
		return KEY_PAUSE
	case 'r', 'R':
		return KEY_RESTART
	}
	return KEY_NONE
}
