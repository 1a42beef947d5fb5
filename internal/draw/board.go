package draw

import "strings"

// CellWidth is the number of terminal columns per board cell. Terminal glyphs are
// roughly twice as tall as wide, so two columns make a square-looking cell.
const CellWidth = 2

// Cell is one board square: a glyph pair and an optional color prefix.
type Cell struct {
	Glyph string // Exactly CellWidth columns wide
	Color string
}

// Empty is the blank cell.
var Empty = Cell{Glyph: "  "}

// Board is a fixed-size grid of cells drawn inside a box border. Render only emits
// the cells that changed since the previous frame.
type Board struct {
	cols, rows int
	cells      []Cell
	prev       []Cell
	redraw     bool
}

// NewBoard creates an empty board of cols x rows cells.
func NewBoard(cols, rows int) *Board {
	b := &Board{
		cols:   cols,
		rows:   rows,
		cells:  make([]Cell, cols*rows),
		prev:   make([]Cell, cols*rows),
		redraw: true,
	}
	b.Clear()
	return b
}

// Cols returns the board width in cells.
func (b *Board) Cols() int { return b.cols }

// Rows returns the board height in cells.
func (b *Board) Rows() int { return b.rows }

// Width is the board's terminal width including the border.
func (b *Board) Width() int {
	return b.cols*CellWidth + 2
}

// Height is the board's terminal height including the border.
func (b *Board) Height() int {
	return b.rows + 2
}

// Clear resets every cell to Empty.
func (b *Board) Clear() {
	for i := range b.cells {
		b.cells[i] = Empty
	}
}

// Set writes a cell. Out-of-range coordinates are ignored.
func (b *Board) Set(x, y int, c Cell) {
	if x >= 0 && x < b.cols && y >= 0 && y < b.rows {
		b.cells[y*b.cols+x] = c
	}
}

// At returns the cell at x, y, or Empty when out of range.
func (b *Board) At(x, y int) Cell {
	if x >= 0 && x < b.cols && y >= 0 && y < b.rows {
		return b.cells[y*b.cols+x]
	}
	return Empty
}

// ForceRedraw makes the next Render emit every cell and the border, e.g. after the
// terminal was cleared.
func (b *Board) ForceRedraw() {
	b.redraw = true
}

// CellPosition converts a cell to its 1-based terminal position relative to the
// board's top-left border corner.
func (b *Board) CellPosition(x, y int) (col, row int) {
	return 2 + x*CellWidth, 2 + y
}

// Render writes changed cells to cw. Coordinates are relative to the frame's origin,
// with the border's top-left corner at (1, 1).
func (b *Board) Render(cw *Frame) {
	full := b.redraw
	if full {
		b.renderBorder(cw)
	}
	for y := range b.rows {
		for x := range b.cols {
			i := y*b.cols + x
			c := b.cells[i]
			if !full && c == b.prev[i] {
				continue
			}
			col, row := b.CellPosition(x, y)
			cw.MoveCursor(col, row)
			if c.Color != "" {
				cw.WriteString(c.Color)
				cw.WriteString(c.Glyph)
				cw.WriteString(ColorReset)
			} else {
				cw.WriteString(c.Glyph)
			}
		}
	}
	copy(b.prev, b.cells)
	b.redraw = false
}

func (b *Board) renderBorder(cw *Frame) {
	inner := strings.Repeat("─", b.cols*CellWidth)
	cw.WriteAt(1, 1, "┌"+inner+"┐")
	for y := range b.rows {
		row := y + 2
		cw.WriteAt(1, row, "│")
		cw.WriteAt(b.Width(), row, "│")
	}
	cw.WriteAt(1, b.Height(), "└"+inner+"┘")
}

// Layout centers a box of width x height inside a terminal of termWidth x termHeight.
// It returns the 0-based offset of the box and whether it fits.
func Layout(termWidth, termHeight, width, height int) (offsetCol, offsetRow int, fits bool) {
	offsetCol = max((termWidth-width)/2, 0)
	offsetRow = max((termHeight-height)/2, 0)
	return offsetCol, offsetRow, termWidth >= width && termHeight >= height
}
