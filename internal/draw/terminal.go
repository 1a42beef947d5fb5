package draw

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// flushChunk caps a single write to the terminal. SSH sessions stay responsive when a
// full redraw goes out as several packets.
const flushChunk = 1400

// Frame collects the escape sequences and text of one redraw. Screens write into it
// with cell coordinates, and Flush sends everything to the terminal at once.
type Frame struct {
	out    io.Writer
	buf    []byte
	offCol int
	offRow int
}

// NewFrame returns a Frame writing to out. The offset is added to every position.
func NewFrame(out io.Writer, offsetCol, offsetRow int) *Frame {
	return &Frame{out: out, buf: make([]byte, 0, 8192), offCol: offsetCol, offRow: offsetRow}
}

// SetOffset moves the origin, e.g. to recenter the board after a resize.
func (f *Frame) SetOffset(offsetCol, offsetRow int) {
	f.offCol = offsetCol
	f.offRow = offsetRow
}

// MoveCursor positions the cursor at 1-based col, row relative to the origin.
func (f *Frame) MoveCursor(col, row int) {
	f.buf = append(f.buf, "\033["...)
	f.buf = strconv.AppendInt(f.buf, int64(row+f.offRow), 10)
	f.buf = append(f.buf, ';')
	f.buf = strconv.AppendInt(f.buf, int64(col+f.offCol), 10)
	f.buf = append(f.buf, 'H')
}

func (f *Frame) WriteString(s string) {
	f.buf = append(f.buf, s...)
}

func (f *Frame) WriteAt(col, row int, s string) {
	f.MoveCursor(col, row)
	f.buf = append(f.buf, s...)
}

// Len reports how many bytes are waiting for Flush.
func (f *Frame) Len() int {
	return len(f.buf)
}

// Flush sends the pending redraw in writes of at most flushChunk bytes and empties
// the frame, even when a write fails.
func (f *Frame) Flush() error {
	data := f.buf
	f.buf = f.buf[:0]
	for len(data) > 0 {
		n := min(len(data), flushChunk)
		if _, err := f.out.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// TextWidth counts the columns s occupies, skipping ANSI escapes. Block glyphs are
// one column wide.
func TextWidth(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		switch {
		case inEsc:
			if r >= 0x40 && r <= 0x7e && r != '[' {
				inEsc = false
			}
		case r == '\033':
			inEsc = true
		default:
			n++
		}
	}
	return n
}

// TermSizeFunc reports the terminal size in columns and rows.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc asks the terminal behind os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FixedSize is used by SSH sessions, which learn their size from window events.
func FixedSize(width, height int) TermSizeFunc {
	return func() (int, int, error) { return width, height, nil }
}

func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}
