/*
Package palette resolves the color token of a Pixel-Code into a canonical
hex color.

A token is either six hex digits, eight hex digits where the trailing pair
is an alpha channel that gets dropped, or one of a small table of basic
color names. Anything else resolves to Unresolved, a bright magenta that
doubles as a visible error indicator.
*/
package palette

import (
	"image/color"
	"strconv"
	"strings"
)

// Unresolved is returned for any token that cannot be resolved
const Unresolved = "#FF00FF"

// Names maps the lower case basic color names to their hex value
var Names = map[string]string{
	"black":   "#000000",
	"white":   "#FFFFFF",
	"red":     "#FF0000",
	"green":   "#00FF00",
	"blue":    "#0000FF",
	"yellow":  "#FFFF00",
	"magenta": "#FF00FF",
	"cyan":    "#00FFFF",
	"gray":    "#808080",
	"pink":    "#FF5EA8",
	"purple":  "#8A2BE2",
	"orange":  "#FFA500",
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Resolve maps token to a color of the form #RRGGBB. It never fails; an
// unrecognized token returns Unresolved.
func Resolve(token string) string {
	p := strings.TrimSpace(token)
	if p == "" {
		return Unresolved
	}
	p = strings.TrimPrefix(p, "#")

	switch {
	case len(p) == 6 && isHex(p):
		return "#" + strings.ToUpper(p)
	case len(p) == 8 && isHex(p):
		return "#" + strings.ToUpper(p[:6])
	}

	if hex, ok := Names[strings.ToLower(p)]; ok {
		return hex
	}

	return Unresolved
}

func channel(s string) (uint8, bool) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

func decode(hex string) (color.RGBA, bool) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) < 6 {
		return color.RGBA{}, false
	}
	r, ok1 := channel(h[0:2])
	g, ok2 := channel(h[2:4])
	b, ok3 := channel(h[4:6])
	if !ok1 || !ok2 || !ok3 {
		return color.RGBA{}, false
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, true
}

// RGB decodes a #RRGGBB string. Anything undecodable yields the Unresolved
// color.
func RGB(hex string) color.RGBA {
	if c, ok := decode(hex); ok {
		return c
	}
	c, _ := decode(Unresolved)
	return c
}

// Luminance returns the relative luminance of hex in the range [0, 1]
func Luminance(hex string) (float64, bool) {
	c, ok := decode(hex)
	if !ok {
		return 0, false
	}
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255, true
}

// Contrast returns the text color that stays legible on a background of hex,
// either "#000" or "#fff"
func Contrast(hex string) string {
	lum, ok := Luminance(hex)
	if !ok || lum > 0.6 {
		return "#000"
	}
	return "#fff"
}

// ResolveRGBA is like Resolve but keeps the alpha channel of an eight digit
// token and understands "transparent". It is used when reconstructing
// images, where alpha matters.
func ResolveRGBA(token string) color.NRGBA {
	p := strings.TrimPrefix(strings.TrimSpace(token), "#")
	if strings.EqualFold(p, "transparent") {
		return color.NRGBA{}
	}

	c := RGB(Resolve(token))
	n := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	if len(p) == 8 && isHex(p) {
		n.A, _ = channel(p[6:8])
	}
	return n
}
