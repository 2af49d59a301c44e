package view

import (
	"context"
	"fmt"

	"github.com/bodgit/pixelcode/layout"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const (
	margin    = 1
	cellWidth = len(" #RRGGBB ")
	closeMark = "✕"
)

// Overlay shows one layout.Result full screen until it is dismissed with
// the close mark, the Escape or q keys, or a click outside the content
type Overlay struct {
	result  *layout.Result
	content rect
	close   rect
}

// NewOverlay returns an Overlay for result
func NewOverlay(result *layout.Result) *Overlay {
	return &Overlay{result: result}
}

func (o *Overlay) line(s tcell.Screen, x, y int, str string, style tcell.Style) {
	end := put(s, x, y, str, style)
	o.content.extend(x, y, end, y+1)
}

func (o *Overlay) drawItems(s tcell.Screen, y int) int {
	var w int
	for _, item := range o.result.Items {
		if n := runewidth.StringWidth(item.Code); n > w {
			w = n
		}
	}

	plain := tcell.StyleDefault
	for _, item := range o.result.Items {
		x := margin
		o.line(s, x, y, item.Code, plain.Bold(true))
		x += w + 2
		if !item.Parsed {
			o.line(s, x, y, layout.UnknownFormat, plain)
			y++
			continue
		}
		text := fmt.Sprintf("Row: %s  •  Col: %d  ", item.Row, item.Column)
		o.line(s, x, y, text, plain)
		x += runewidth.StringWidth(text)
		o.line(s, x, y, "██", plain.Foreground(tcell.GetColor(item.Hex)))
		o.line(s, x+3, y, item.Hex, plain)
		y++
		if item.Metadata != nil {
			o.line(s, x, y, string(item.Metadata), plain.Dim(true))
			y++
		}
	}
	return y
}

func (o *Overlay) drawCells(s tcell.Screen, y int) int {
	for _, row := range o.result.Cells {
		x := margin
		for _, c := range row {
			style := tcell.StyleDefault
			text := ""
			if !c.Empty {
				style = style.Background(tcell.GetColor(c.Hex)).Foreground(textColor(c.TextColor))
				text = c.Text
			}
			label := fmt.Sprintf(" %-*s ", cellWidth-2, text)
			o.line(s, x, y, label, style)
			x += cellWidth
		}
		y++
	}
	return y
}

func (o *Overlay) drawChips(s tcell.Screen, y int) int {
	w, _ := s.Size()

	o.line(s, margin, y, o.result.Heading, tcell.StyleDefault.Bold(true).Foreground(tcell.GetColor("#bfffcf")))
	y++

	x := margin
	for _, c := range o.result.Chips {
		if x > margin && x+cellWidth > w-margin {
			x = margin
			y++
		}
		o.line(s, x, y, " "+c.Hex+" ", tcell.StyleDefault.Bold(true).Foreground(tcell.GetColor(c.Hex)))
		x += cellWidth + 1
	}
	return y + 1
}

// Draw renders the overlay on s
func (o *Overlay) Draw(s tcell.Screen) {
	s.Clear()
	o.content = rect{}

	w, _ := s.Size()
	put(s, w-1-runewidth.StringWidth(closeMark), 0, closeMark, tcell.StyleDefault.Bold(true))
	o.close = rect{w - 1 - runewidth.StringWidth(closeMark), 0, w - 1, 1}

	if o.result == nil {
		return
	}

	y := o.drawItems(s, margin)
	switch o.result.Kind {
	case layout.KindRow, layout.KindGrid:
		o.drawCells(s, y+1)
	case layout.KindList:
		o.drawChips(s, y+1)
	}
}

// HandleEvent processes ev and reports whether the overlay was dismissed
func (o *Overlay) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyRune && ev.Rune() == 'q'
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return false
		}
		x, y := ev.Position()
		return o.close.contains(x, y) || !o.content.contains(x, y)
	}
	return false
}

// Show draws the overlay and blocks until it is dismissed or ctx is done.
// The screen is cleared on return so the caller can restore what was there
// before.
func (o *Overlay) Show(ctx context.Context, s tcell.Screen) error {
	s.EnableMouse()
	defer s.DisableMouse()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go s.ChannelEvents(events, quit)

	o.Draw(s)
	s.Show()

	for {
		select {
		case <-ctx.Done():
			s.Clear()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				o.Draw(s)
				s.Sync()
				continue
			}
			if o.HandleEvent(ev) {
				s.Clear()
				s.Show()
				return nil
			}
		}
	}
}
