/*
Package ansi writes a rendered layout.Result to a terminal.

Cells of a row or grid are drawn as blocks with the resolved color as the
background and the contrast color as text. Sampled lists are drawn as
tinted chips wrapped to the terminal width. Metadata blocks are shown as
indented JSON, highlighted when color is enabled.
*/
package ansi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/bodgit/pixelcode/layout"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

const (
	// DefaultWidth is used when Options.Width is not positive
	DefaultWidth = 80
	// DefaultStyle is the chroma style used for metadata
	DefaultStyle = "monokai"

	swatch  = "██"
	chipGap = " "
)

// Options control the output
type Options struct {
	Width int
	Color bool
	Style string
}

// Writer renders results to an io.Writer
type Writer struct {
	w        io.Writer
	width    int
	color    bool
	style    string
	renderer *lipgloss.Renderer
}

// New returns a Writer for w
func New(w io.Writer, o Options) *Writer {
	r := lipgloss.NewRenderer(w)
	if o.Color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	width := o.Width
	if width <= 0 {
		width = DefaultWidth
	}

	style := o.Style
	if style == "" {
		style = DefaultStyle
	}

	return &Writer{
		w:        w,
		width:    width,
		color:    o.Color,
		style:    style,
		renderer: r,
	}
}

// Write renders result
func (aw *Writer) Write(result *layout.Result) error {
	if result == nil {
		return nil
	}

	var b strings.Builder

	aw.items(&b, result.Items)

	switch result.Kind {
	case layout.KindRow, layout.KindGrid:
		b.WriteString("\n")
		b.WriteString(aw.Table(result.Cells))
		b.WriteString("\n")
	case layout.KindList:
		b.WriteString("\n")
		b.WriteString(aw.List(result.Heading, result.Chips))
		b.WriteString("\n")
	}

	_, err := io.WriteString(aw.w, b.String())
	return err
}

func (aw *Writer) items(b *strings.Builder, items []layout.Item) {
	var w int
	for _, item := range items {
		if n := runewidth.StringWidth(item.Code); n > w {
			w = n
		}
	}

	for _, item := range items {
		b.WriteString(runewidth.FillRight(item.Code, w))
		b.WriteString("  ")
		if item.Parsed {
			fmt.Fprintf(b, "Row: %s  •  Col: %d  ", item.Row, item.Column)
			b.WriteString(aw.renderer.NewStyle().Foreground(lipgloss.Color(item.Hex)).Render(swatch))
			b.WriteString(" ")
			b.WriteString(item.Hex)
		} else {
			b.WriteString(layout.UnknownFormat)
		}
		b.WriteString("\n")

		if item.Metadata != nil {
			b.WriteString(aw.Metadata(item.Metadata))
		}
	}
}

// Metadata formats a metadata block as indented JSON
func (aw *Writer) Metadata(raw json.RawMessage) string {
	var indented bytes.Buffer
	if err := json.Indent(&indented, raw, "  ", "  "); err != nil {
		return "  " + string(raw) + "\n"
	}
	text := "  " + indented.String() + "\n"

	if !aw.color {
		return text
	}

	var highlighted strings.Builder
	if err := quick.Highlight(&highlighted, text, "json", "terminal16m", aw.style); err != nil {
		return text
	}
	return highlighted.String()
}

func (aw *Writer) cell(c layout.Cell) string {
	style := aw.renderer.NewStyle().Padding(0, 1)
	if c.Empty {
		return style.Render(strings.Repeat(" ", len("#000000")))
	}
	return style.
		Background(lipgloss.Color(c.Hex)).
		Foreground(lipgloss.Color(c.TextColor)).
		Render(c.Text)
}

// Table draws rows of cells
func (aw *Writer) Table(cells [][]layout.Cell) string {
	lines := make([]string, 0, len(cells))
	for _, row := range cells {
		rendered := make([]string, 0, len(row))
		for _, c := range row {
			rendered = append(rendered, aw.cell(c))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (aw *Writer) chip(c layout.Chip) (string, int) {
	text := " " + c.Hex + " "
	return aw.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex)).Render(text), runewidth.StringWidth(text)
}

// List draws the heading and the chips wrapped to the width
func (aw *Writer) List(heading string, chips []layout.Chip) string {
	lines := []string{aw.renderer.PlaceHorizontal(aw.width, lipgloss.Center, heading)}

	var line strings.Builder
	var used int
	for _, c := range chips {
		s, w := aw.chip(c)
		if used > 0 && used+len(chipGap)+w > aw.width {
			lines = append(lines, line.String())
			line.Reset()
			used = 0
		}
		if used > 0 {
			line.WriteString(chipGap)
			used += len(chipGap)
		}
		line.WriteString(s)
		used += w
	}
	if used > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}
