/*
Package code implements the Pixel-Code grammar.

A Pixel-Code describes a single colored cell of a square grid as
{size}{row}{column}_{color}, for example 32H11_Red or 32A0_FFFFFF. The
separator is optional when parsing and always written when formatting.
*/
package code

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalid is returned for any string that does not match the grammar
var ErrInvalid = errors.New("code: invalid pixel code")

// RowLabels is the ordered alphabet of row labels
var RowLabels = func() []rune {
	l := make([]rune, 0, 32)
	for r := 'A'; r <= 'Z'; r++ {
		l = append(l, r)
	}
	return append(l, 'a', 'b', 'c', 'd', 'e', 'f')
}()

// RowIndex returns the position of label within RowLabels
func RowIndex(label rune) (int, bool) {
	for i, r := range RowLabels {
		if r == label {
			return i, true
		}
	}
	return 0, false
}

// Code is a parsed Pixel-Code. Values are never range-checked: a column
// beyond Size or a row outside RowLabels is kept as-is.
type Code struct {
	Size   int
	Row    rune
	Column int
	Color  string
}

// Label returns the row upper-cased for display
func (c Code) Label() string {
	return strings.ToUpper(string(c.Row))
}

func (c Code) String() string {
	return Format(c)
}

// Format renders c in canonical form
func Format(c Code) string {
	return fmt.Sprintf("%d%c%d_%s", c.Size, c.Row, c.Column, c.Color)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isColor(b byte) bool {
	return isLetter(b) || isDigit(b) || b == '#'
}

func digits(s string, i int) int {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	return j
}

// Parse reads a Pixel-Code, accepting surrounding whitespace and an optional
// underscore between the column and the color.
func Parse(s string) (Code, error) {
	s = strings.TrimFunc(s, isSpace)

	// Size
	i := digits(s, 0)
	if i == 0 {
		return Code{}, ErrInvalid
	}
	size, err := strconv.Atoi(s[:i])
	if err != nil {
		return Code{}, ErrInvalid
	}

	// Row
	if i >= len(s) || !isLetter(s[i]) {
		return Code{}, ErrInvalid
	}
	row := rune(s[i])
	i++

	// Column
	j := digits(s, i)
	if j == i {
		return Code{}, ErrInvalid
	}
	if j == len(s) {
		// Nothing left for the color, so the last column digit becomes
		// the color, provided at least one digit remains
		if j-i < 2 {
			return Code{}, ErrInvalid
		}
		j--
	}
	column, err := strconv.Atoi(s[i:j])
	if err != nil {
		return Code{}, ErrInvalid
	}

	// Color
	color := s[j:]
	if strings.HasPrefix(color, "_") {
		color = color[1:]
	}
	if color == "" {
		return Code{}, ErrInvalid
	}
	for k := 0; k < len(color); k++ {
		if !isColor(color[k]) {
			return Code{}, ErrInvalid
		}
	}

	return Code{
		Size:   size,
		Row:    row,
		Column: column,
		Color:  color,
	}, nil
}

// Valid reports whether s is a Pixel-Code
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}
