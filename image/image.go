/*
Package image implements a pixel-code JSON decoder and encoder.

The format is a JSON object with a single "rows" key mapping each row label
to the Pixel-Codes of that row, for example:

	{"rows": {"A": ["2A0_FFFFFF", "2A1_FF000080"], "B": ["2B0_Red", "2B1_Blue"]}}

Every code carries the image size, so the size is read from the first code
of the first row. Colors are written as RRGGBB, with a trailing AA pair only
when the pixel is not fully opaque. As there are only 32 row labels, images
are at most 32 by 32 pixels.
*/
package image

import "github.com/bodgit/pixelcode/code"

const (
	// DefaultSize is used when Options.Size is zero
	DefaultSize = 32
	// MaxSize is limited by the number of row labels
	MaxSize = 32
)

var allowedSizes = []int{8, 16, 24, 32}

type file struct {
	Rows code.Rows `json:"rows"`
}
