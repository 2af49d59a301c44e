/*
Package view draws rendered results and the decorative rain background on a
tcell screen.
*/
package view

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type rect struct {
	x0, y0, x1, y1 int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

func (r *rect) extend(x0, y0, x1, y1 int) {
	if r.x1 == r.x0 || r.y1 == r.y0 {
		*r = rect{x0, y0, x1, y1}
		return
	}
	if x0 < r.x0 {
		r.x0 = x0
	}
	if y0 < r.y0 {
		r.y0 = y0
	}
	if x1 > r.x1 {
		r.x1 = x1
	}
	if y1 > r.y1 {
		r.y1 = y1
	}
}

// put draws s starting at (x, y) and returns the column after it
func put(s tcell.Screen, x, y int, str string, style tcell.Style) int {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

func textColor(contrast string) tcell.Color {
	if contrast == "#000" {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}
