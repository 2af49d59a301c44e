package layout

import (
	"github.com/bodgit/pixelcode/code"
	"github.com/bodgit/pixelcode/palette"
)

func (r *Renderer) cell(seq []string, i int) Cell {
	if i < 0 || i >= len(seq) {
		return Cell{Empty: true}
	}

	s := seq[i]
	hex := palette.Unresolved
	if c, err := code.Parse(s); err == nil {
		hex = palette.Resolve(c.Color)
	}

	return Cell{
		Code:      s,
		Hex:       hex,
		Text:      hex,
		TextColor: palette.Contrast(hex),
		Metadata:  r.metadata(s),
	}
}

// Row renders the first size elements of seq as a single row
func (r *Renderer) Row(seq []string, size int) [][]Cell {
	if size <= 0 {
		return nil
	}
	row := make([]Cell, size)
	for c := range row {
		row[c] = r.cell(seq, c)
	}
	return [][]Cell{row}
}

// Grid renders seq as a size by size grid in row-major order
func (r *Renderer) Grid(seq []string, size int) [][]Cell {
	if size <= 0 {
		return nil
	}
	grid := make([][]Cell, size)
	for y := range grid {
		grid[y] = make([]Cell, size)
		for x := range grid[y] {
			grid[y][x] = r.cell(seq, y*size+x)
		}
	}
	return grid
}
