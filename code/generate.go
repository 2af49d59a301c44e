package code

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// GeneratedColors is the ordered list of colors Generate picks from
var GeneratedColors = []string{"Red", "Green", "Blue", "Purple", "Cyan", "Yellow", "Pink", "Orange", "Magenta"}

func generatedSize(length int) int {
	switch {
	case length <= 2:
		return 8
	case length <= 4:
		return 16
	case length <= 8:
		return 24
	case length <= 12:
		return 32
	case length <= 20:
		return 48
	default:
		return 64
	}
}

// Generate derives a Pixel-Code from arbitrary text. The result depends only
// on text; lengths and sums are counted in UTF-16 code units so previously
// generated codes stay reproducible.
func Generate(text string) Code {
	s := strings.TrimFunc(text, isSpace)
	units := utf16.Encode([]rune(s))

	size := generatedSize(len(units))

	row := 'M'
	for i := 0; i < len(s); i++ {
		if isLetter(s[i]) {
			row = unicode.ToUpper(rune(s[i]))
			break
		}
	}

	var sum int
	for _, u := range units {
		sum += int(u)
	}

	m := size
	if m < 1 {
		m = 1
	}

	return Code{
		Size:   size,
		Row:    row,
		Column: sum%m + 1,
		Color:  GeneratedColors[sum%len(GeneratedColors)],
	}
}
