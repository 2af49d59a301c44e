package view

import (
	"context"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	// DefaultInterval is roughly ten frames a second
	DefaultInterval = 100 * time.Millisecond

	glyphs        = "01@#%"
	columnSpacing = 2
	minColumns    = 4
	fadeSteps     = 4
)

var (
	rainColor      = tcell.GetColor("#00ff80")
	highlightColor = tcell.GetColor("#b6ffb3")
	fadeColors     = []tcell.Color{
		tcell.GetColor("#003d1f"),
		tcell.GetColor("#006633"),
		tcell.GetColor("#00a352"),
	}
)

type trail struct {
	r   rune
	age int
}

// Rain is the falling glyph background. It keeps one drop per column and a
// short trail per screen cell that fades out over a few steps.
type Rain struct {
	rng           *rand.Rand
	width, height int
	drops         []int
	trails        []trail
}

// NewRain returns a Rain drawing its randomness from rng
func NewRain(rng *rand.Rand) *Rain {
	return &Rain{rng: rng}
}

// Columns returns the number of rain columns
func (r *Rain) Columns() int {
	return len(r.drops)
}

// Resize rebuilds the columns for a screen of w by h cells
func (r *Rain) Resize(w, h int) {
	r.width, r.height = w, h

	columns := w / columnSpacing
	if columns < minColumns {
		columns = minColumns
	}

	r.drops = make([]int, columns)
	for i := range r.drops {
		if h > 0 {
			r.drops[i] = r.rng.Intn(h)
		}
	}
	r.trails = make([]trail, w*h)
}

func (r *Rain) fade(s tcell.Screen) {
	for i := range r.trails {
		t := &r.trails[i]
		if t.r == 0 {
			continue
		}
		t.age++
		x, y := i%r.width, i/r.width
		if t.age >= fadeSteps {
			t.r = 0
			s.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(tcell.ColorBlack))
			continue
		}
		style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(fadeColors[len(fadeColors)-t.age])
		s.SetContent(x, y, t.r, nil, style)
	}
}

// Step advances the rain by one frame and draws it on s
func (r *Rain) Step(s tcell.Screen) {
	r.fade(s)

	for i := range r.drops {
		// Only some columns draw each frame
		if r.rng.Float64() > 0.68 {
			continue
		}

		g := rune(glyphs[r.rng.Intn(len(glyphs))])
		fg := rainColor
		if r.rng.Float64() > 0.98 {
			fg = highlightColor
		}

		x, y := i*columnSpacing, r.drops[i]
		if x < r.width && y >= 0 && y < r.height {
			s.SetContent(x, y, g, nil, tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(fg))
			r.trails[y*r.width+x] = trail{r: g}
		}

		r.drops[i]++
		if r.drops[i] > r.height && r.rng.Float64() > 0.98 {
			r.drops[i] = 0
		}
	}
}

// Run animates the rain until ctx is done or a key is pressed
func (r *Rain) Run(ctx context.Context, s tcell.Screen, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go s.ChannelEvents(events, quit)

	s.Clear()
	r.Resize(s.Size())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.Clear()
				r.Resize(ev.Size())
				s.Sync()
			case *tcell.EventKey:
				return nil
			}
		case <-ticker.C:
			r.Step(s)
			s.Show()
		}
	}
}
