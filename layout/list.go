package layout

import (
	"fmt"

	"github.com/bodgit/pixelcode/code"
	"github.com/bodgit/pixelcode/palette"
)

func (r *Renderer) authoritativeRow(c code.Code) ([]string, bool) {
	if r.src == nil {
		return nil, false
	}
	if codes, ok := r.src.Row(c.Label()); ok {
		return codes, true
	}
	return r.src.Row(string(c.Row))
}

// Sample returns the codes listed for first, either the authoritative row
// from the metadata source or a synthesized row or column. A synthesized
// row or column never holds more than len(code.RowLabels) codes. The
// boolean is true when the codes run along a row.
func (r *Renderer) Sample(first code.Code) ([]string, bool) {
	if codes, ok := r.authoritativeRow(first); ok {
		return append([]string(nil), codes...), true
	}

	var codes []string
	if r.choose() {
		for x := 0; x < first.Size && x < len(code.RowLabels); x++ {
			c := first
			c.Column = x
			codes = append(codes, c.String())
		}
		return codes, true
	}

	for y := 0; y < first.Size && y < len(code.RowLabels); y++ {
		c := first
		c.Row = code.RowLabels[y]
		codes = append(codes, c.String())
	}
	return codes, false
}

// Sampled renders the fallback list for a sequence whose length is neither a
// row nor a grid
func (r *Renderer) Sampled(first code.Code) (string, []Chip) {
	codes, isRow := r.Sample(first)

	heading := fmt.Sprintf("Showing column %d", first.Column)
	if isRow {
		heading = fmt.Sprintf("Showing row %s", first.Label())
	}

	chips := make([]Chip, 0, len(codes))
	for _, s := range codes {
		hex := palette.Unresolved
		if c, err := code.Parse(s); err == nil {
			hex = palette.Resolve(c.Color)
		}
		chips = append(chips, Chip{
			Code:     s,
			Hex:      hex,
			Metadata: r.metadata(s),
		})
	}

	return heading, chips
}
