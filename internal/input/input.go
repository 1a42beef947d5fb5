// Package input turns raw terminal bytes, browser key names and touch swipes into
// discrete keys, and binds keys to controller commands.
package input

import (
	"io"
)

// Key is a single discrete key press.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyConfirm // Space or Enter
	KeyPause   // P or Esc
	KeyQuit    // Q or Ctrl-C
	KeyMode1
	KeyMode2
	KeyMode3
	KeyResetStats // X
	KeyMute       // M
)

var keyNames = [...]string{
	KeyNone:       "none",
	KeyUp:         "up",
	KeyDown:       "down",
	KeyLeft:       "left",
	KeyRight:      "right",
	KeyConfirm:    "confirm",
	KeyPause:      "pause",
	KeyQuit:       "quit",
	KeyMode1:      "mode1",
	KeyMode2:      "mode2",
	KeyMode3:      "mode3",
	KeyResetStats: "reset-stats",
	KeyMute:       "mute",
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "unknown"
	}
	return keyNames[k]
}

const (
	keyEsc   = '\x1b'
	keyCtrlC = '\x03'
)

// Stream delivers input bytes via a channel so the frame loop can poll without blocking.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The stream is closed when r returns an error.
func StartStream(r io.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				s.ch <- b
			}
			if err != nil {
				close(s.ch)
				return
			}
		}
	}()
	return s
}

// ReadKeys drains all available bytes (non-blocking) and returns the keys they encode,
// in order. ok is false once the underlying reader has failed and every byte has
// been consumed.
func ReadKeys(s *Stream) (keys []Key, ok bool) {
	if s.closed {
		return nil, false
	}
	var buf []byte
drain:
	for {
		select {
		case b, open := <-s.ch:
			if !open {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	return ParseBytes(buf), !s.closed || len(buf) > 0
}

// ParseBytes decodes a chunk of terminal input. Arrow keys arrive as CSI (ESC [ X)
// or SS3 (ESC O X) sequences; a lone ESC is the pause key. Unknown sequences are
// skipped.
func ParseBytes(buf []byte) []Key {
	var keys []Key
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == keyEsc && i+1 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			end := i + 2
			// Parameters and intermediates run until the final byte in 0x40..0x7e.
			for end < len(buf) && (buf[end] < 0x40 || buf[end] > 0x7e) {
				end++
			}
			if end < len(buf) {
				if k := arrow(buf[end]); k != KeyNone {
					keys = append(keys, k)
				}
			}
			i = end
			continue
		}
		if k := byteKey(b); k != KeyNone {
			keys = append(keys, k)
		}
	}
	return keys
}

func arrow(final byte) Key {
	switch final {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	}
	return KeyNone
}

func byteKey(b byte) Key {
	switch b {
	case 'q', 'Q', keyCtrlC:
		return KeyQuit
	case 'a', 'A', 'h', 'H':
		return KeyLeft
	case 'd', 'D', 'l', 'L':
		return KeyRight
	case 'w', 'W', 'k', 'K':
		return KeyUp
	case 's', 'S', 'j', 'J':
		return KeyDown
	case ' ', '\n', '\r':
		return KeyConfirm
	case 'p', 'P', keyEsc:
		return KeyPause
	case '1':
		return KeyMode1
	case '2':
		return KeyMode2
	case '3':
		return KeyMode3
	case 'x', 'X':
		return KeyResetStats
	case 'm', 'M':
		return KeyMute
	}
	return KeyNone
}
