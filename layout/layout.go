/*
Package layout turns a sequence of Pixel-Codes into a visual result.

The size encoded in the first code decides the layout: a sequence of exactly
size codes is a single row, exactly size*size codes is a full grid, and
anything else falls back to a sampled list of color chips along one row or
one column. Rendering never fails; malformed codes degrade to a placeholder
or to the palette.Unresolved color.
*/
package layout

import (
	"encoding/json"
	"math/rand"

	"github.com/bodgit/pixelcode/code"
	"github.com/bodgit/pixelcode/palette"
)

// UnknownFormat is shown in place of a code that does not parse
const UnknownFormat = "unknown format (expected: 32H11Red)"

// Kind is the layout chosen for a sequence
type Kind int

const (
	// KindNone renders the items only
	KindNone Kind = iota
	// KindRow renders a single row of cells
	KindRow
	// KindGrid renders a square grid of cells
	KindGrid
	// KindList renders a sampled list of chips
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindRow:
		return "row"
	case KindGrid:
		return "grid"
	case KindList:
		return "list"
	default:
		return "none"
	}
}

// Source provides the optional per-code metadata and the authoritative rows.
// *metadata.DB implements it.
type Source interface {
	Metadata(code string) (json.RawMessage, bool)
	Row(label string) ([]string, bool)
}

// Chooser decides which way a list is sampled; true picks a row, false a
// column
type Chooser func() bool

// CoinFlip returns a Chooser that picks either way with equal probability
func CoinFlip(r *rand.Rand) Chooser {
	return func() bool {
		return r.Intn(2) == 0
	}
}

// Item is one element of the sequence as it was given
type Item struct {
	Code     string
	Parsed   bool
	Row      string
	Column   int
	Hex      string
	Metadata json.RawMessage
}

// Cell is a single cell of a row or grid
type Cell struct {
	Code      string
	Hex       string
	Text      string
	TextColor string
	Empty     bool
	Metadata  json.RawMessage
}

// Chip is a single entry of a sampled list
type Chip struct {
	Code     string
	Hex      string
	Metadata json.RawMessage
}

// Result is everything rendered for one sequence
type Result struct {
	Kind  Kind
	Size  int
	Items []Item

	// Set for KindRow and KindGrid
	Cells [][]Cell

	// Set for KindList
	Heading string
	Chips   []Chip
}

// Renderer renders sequences against a metadata source
type Renderer struct {
	src    Source
	choose Chooser
}

// New returns a Renderer. A nil src behaves as an empty mapping and a nil
// choose flips a coin.
func New(src Source, choose Chooser) *Renderer {
	if choose == nil {
		choose = CoinFlip(rand.New(rand.NewSource(rand.Int63())))
	}
	return &Renderer{
		src:    src,
		choose: choose,
	}
}

func (r *Renderer) metadata(c string) json.RawMessage {
	if r.src == nil {
		return nil
	}
	if v, ok := r.src.Metadata(c); ok {
		return v
	}
	return nil
}

// Select decides the layout of seq and returns the size parsed from its
// first element
func (r *Renderer) Select(seq []string) (Kind, int) {
	if len(seq) == 0 {
		return KindNone, 0
	}

	first, err := code.Parse(seq[0])
	if err != nil {
		return KindNone, 0
	}

	size := first.Size
	switch {
	case size <= 0:
		return KindList, size
	case len(seq) == size:
		return KindRow, size
	case len(seq)/size == size && len(seq)%size == 0:
		return KindGrid, size
	default:
		return KindList, size
	}
}

// Items lists every element of seq with its parsed fields
func (r *Renderer) Items(seq []string) []Item {
	items := make([]Item, 0, len(seq))
	for _, s := range seq {
		item := Item{
			Code:     s,
			Metadata: r.metadata(s),
		}
		if c, err := code.Parse(s); err == nil {
			item.Parsed = true
			item.Row = c.Label()
			item.Column = c.Column
			item.Hex = palette.Resolve(c.Color)
		}
		items = append(items, item)
	}
	return items
}

// Render lists every element of seq and then draws it using the selected
// layout. An empty sequence renders nothing.
func (r *Renderer) Render(seq []string) *Result {
	kind, size := r.Select(seq)

	result := &Result{
		Kind:  kind,
		Size:  size,
		Items: r.Items(seq),
	}

	switch kind {
	case KindRow:
		result.Cells = r.Row(seq, size)
	case KindGrid:
		result.Cells = r.Grid(seq, size)
	case KindList:
		first, _ := code.Parse(seq[0])
		result.Heading, result.Chips = r.Sampled(first)
	}

	return result
}
