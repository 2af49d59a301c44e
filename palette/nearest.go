package palette

import (
	"image/color"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type named struct {
	name  string
	color colorful.Color
}

var table = func() []named {
	t := make([]named, 0, len(Names))
	for name, hex := range Names {
		c, _ := colorful.Hex(hex)
		t = append(t, named{name, c})
	}
	// Stable iteration so ties always resolve the same way
	sort.Slice(t, func(i, j int) bool { return t[i].name < t[j].name })
	return t
}()

// Nearest returns the basic color name closest to c, measured as a distance
// in CIE L*a*b* space. The name is capitalized the same way the code
// generator capitalizes its colors.
func Nearest(c color.Color) string {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		// Fully transparent
		return "Black"
	}

	best, bestDist := table[0].name, cc.DistanceLab(table[0].color)
	for _, n := range table[1:] {
		if d := cc.DistanceLab(n.color); d < bestDist {
			best, bestDist = n.name, d
		}
	}

	return string(best[0]-'a'+'A') + best[1:]
}
