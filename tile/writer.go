package tile

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/bodgit/pixelcode/layout"
	"github.com/bodgit/pixelcode/palette"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

var (
	errNoCells     = errors.New("tile: no cells")
	errBadCellSize = errors.New("tile: invalid cell size")
)

func dimensions(cells [][]layout.Cell) (int, int) {
	var w int
	for _, row := range cells {
		if len(row) > w {
			w = len(row)
		}
	}
	return w, len(cells)
}

// Image draws cells as blocks of cellSize pixels
func Image(cells [][]layout.Cell, cellSize int) (*image.NRGBA, error) {
	if cellSize == 0 {
		cellSize = DefaultCellSize
	}
	if cellSize < 0 || cellSize > maxCellSize {
		return nil, errBadCellSize
	}

	w, h := dimensions(cells)
	if w == 0 || h == 0 {
		return nil, errNoCells
	}

	m := image.NewNRGBA(image.Rect(0, 0, w*cellSize, h*cellSize))
	for y, row := range cells {
		for x, cell := range row {
			if cell.Empty {
				continue
			}
			c := palette.RGB(cell.Hex)
			r := image.Rect(x*cellSize, y*cellSize, (x+1)*cellSize, (y+1)*cellSize)
			draw.Draw(m, r, image.NewUniform(c), image.Point{}, draw.Src)
		}
	}

	return m, nil
}

func uniqueColors(m image.Image) color.Palette {
	seen := make(map[color.Color]struct{})
	var p color.Palette
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.At(x, y)
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				p = append(p, c)
			}
		}
	}
	return p
}

// Paletted converts m to a paletted image, quantizing when it holds more
// colors than fit in a PNG palette
func Paletted(m image.Image) *image.Paletted {
	b := m.Bounds()

	p := uniqueColors(m)
	if len(p) > maxColors {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, maxColors), m)
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

// Encode writes cells to w as a PNG
func Encode(w io.Writer, cells [][]layout.Cell, cellSize int) error {
	m, err := Image(cells, cellSize)
	if err != nil {
		return err
	}
	return png.Encode(w, Paletted(m))
}
