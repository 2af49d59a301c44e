package image

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/pixelcode/code"
	"github.com/bodgit/pixelcode/palette"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

var errWrongSize = errors.New("image: image is wrong size")

// Options are the encoding parameters
type Options struct {
	// Size is the width and height of the encoded image, DefaultSize when
	// zero
	Size int
	// Colors reduces the image to at most this many colors when positive
	Colors int
	// Named writes the nearest basic color name instead of hex
	Named bool
	// NoResize fails rather than scaling an image of the wrong size
	NoResize bool
}

func (o *Options) size() (int, error) {
	size := DefaultSize
	if o != nil && o.Size != 0 {
		size = o.Size
	}
	switch {
	case size < 0:
		return 0, errBadSize
	case size > MaxSize:
		return 0, errTooLarge
	}
	return size, nil
}

// RecommendSize picks a size for an image with bounds b: the image's own
// size when it is already square at an allowed size, otherwise the nearest
// allowed size to its longer side
func RecommendSize(b image.Rectangle) int {
	w, h := b.Dx(), b.Dy()
	for _, s := range allowedSizes {
		if w == h && w == s {
			return s
		}
	}

	target := w
	if h > target {
		target = h
	}

	best := allowedSizes[0]
	for _, s := range allowedSizes[1:] {
		if abs(s-target) < abs(best-target) {
			best = s
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func resize(m image.Image, size int) image.Image {
	b := m.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return m
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

func reduce(m image.Image, colors int) image.Image {
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

func token(c color.Color, named bool) string {
	if named {
		return palette.Nearest(c)
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("%02X%02X%02X", n.R, n.G, n.B)
	}
	return fmt.Sprintf("%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}

// Rows converts m into Pixel-Codes grouped by row label
func Rows(m image.Image, o *Options) (code.Rows, error) {
	size, err := o.size()
	if err != nil {
		return nil, err
	}

	b := m.Bounds()
	if b.Dx() != size || b.Dy() != size {
		if o != nil && o.NoResize {
			return nil, errWrongSize
		}
		m = resize(m, size)
	}

	if o != nil && o.Colors > 0 {
		m = reduce(m, o.Colors)
	}

	named := o != nil && o.Named

	b = m.Bounds()
	rows := make(code.Rows, size)
	for y := 0; y < size; y++ {
		label := code.RowLabels[y]
		codes := make([]string, 0, size)
		for x := 0; x < size; x++ {
			codes = append(codes, code.Code{
				Size:   size,
				Row:    label,
				Column: x,
				Color:  token(m.At(b.Min.X+x, b.Min.Y+y), named),
			}.String())
		}
		rows[string(label)] = codes
	}

	return rows, nil
}

// Encode writes the Image m to w as a pixel-code document
func Encode(w io.Writer, m image.Image, o *Options) error {
	rows, err := Rows(m, o)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(file{Rows: rows})
}
