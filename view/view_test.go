package view

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/bodgit/pixelcode/layout"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func readScreenLine(s tcell.Screen, x, y, width int) string {
	runes := make([]rune, width)
	for i := 0; i < width; i++ {
		ch, _, _, _ := s.GetContent(x+i, y)
		if ch == 0 {
			ch = ' '
		}
		runes[i] = ch
	}
	return strings.TrimRight(string(runes), " ")
}

func always(b bool) layout.Chooser {
	return func() bool { return b }
}

func TestOverlayDrawGrid(t *testing.T) {
	s := newScreen(t, 60, 20)

	result := layout.New(nil, always(true)).Render([]string{"2A0_White", "2A1_Black", "2B0_Red", "2B1_Blue"})
	o := NewOverlay(result)
	o.Draw(s)

	assert.Equal(t, "2A0_White  Row: A  •  Col: 0  ██ #FFFFFF", readScreenLine(s, margin, margin, 58))

	// Four items, a blank line, then the grid
	y := margin + len(result.Items) + 1
	assert.Equal(t, " #FFFFFF  #000000", readScreenLine(s, margin, y, 30))
	assert.Equal(t, " #FF0000  #0000FF", readScreenLine(s, margin, y+1, 30))

	_, _, style, _ := s.GetContent(margin+1, y+1)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.GetColor("#FF0000"), bg)
	assert.Equal(t, tcell.ColorWhite, fg)

	_, _, style, _ = s.GetContent(margin+1, y)
	fg, _, _ = style.Decompose()
	assert.Equal(t, tcell.ColorBlack, fg)
}

func TestOverlayDrawList(t *testing.T) {
	s := newScreen(t, 40, 20)

	result := layout.New(nil, always(false)).Render([]string{"3B1_Green", "junk"})
	o := NewOverlay(result)
	o.Draw(s)

	assert.Equal(t, "junk       "+layout.UnknownFormat[:20], readScreenLine(s, margin, margin+1, 31))
	assert.Equal(t, "Showing column 1", readScreenLine(s, margin, margin+3, 38))
	assert.Equal(t, " #00FF00   #00FF00   #00FF00", readScreenLine(s, margin, margin+4, 38))
}

func TestOverlayHandleEvent(t *testing.T) {
	s := newScreen(t, 40, 10)

	o := NewOverlay(layout.New(nil, always(true)).Render([]string{"1A0_Red"}))
	o.Draw(s)

	assert.True(t, o.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, o.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, o.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))

	// Inside the content
	assert.False(t, o.HandleEvent(tcell.NewEventMouse(margin+1, margin, tcell.Button1, tcell.ModNone)))
	// Outside the content
	assert.True(t, o.HandleEvent(tcell.NewEventMouse(35, 8, tcell.Button1, tcell.ModNone)))
	// Close mark
	assert.True(t, o.HandleEvent(tcell.NewEventMouse(38, 0, tcell.Button1, tcell.ModNone)))
	// Movement without a button
	assert.False(t, o.HandleEvent(tcell.NewEventMouse(35, 8, tcell.ButtonNone, tcell.ModNone)))
}

func TestOverlayShow(t *testing.T) {
	s := newScreen(t, 40, 10)

	o := NewOverlay(layout.New(nil, always(true)).Render([]string{"1A0_Red"}))

	errc := make(chan error, 1)
	go func() {
		errc <- o.Show(context.Background(), s)
	}()

	// Keep injecting until the overlay is listening
	deadline := time.After(5 * time.Second)
	for {
		s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
		select {
		case err := <-errc:
			assert.NoError(t, err)
			return
		case <-deadline:
			t.Fatal("overlay not dismissed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestOverlayShowCancel(t *testing.T) {
	s := newScreen(t, 40, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewOverlay(nil).Show(ctx, s)
	assert.Equal(t, context.Canceled, err)
}

func TestRainResize(t *testing.T) {
	r := NewRain(rand.New(rand.NewSource(1)))

	r.Resize(80, 24)
	assert.Equal(t, 40, r.Columns())
	for _, d := range r.drops {
		assert.True(t, d >= 0 && d < 24)
	}

	r.Resize(3, 3)
	assert.Equal(t, minColumns, r.Columns())
}

func TestRainStep(t *testing.T) {
	s := newScreen(t, 20, 10)

	r := NewRain(rand.New(rand.NewSource(42)))
	r.Resize(20, 10)

	drawn := func() int {
		var n int
		for y := 0; y < 10; y++ {
			for x := 0; x < 20; x++ {
				ch, _, _, _ := s.GetContent(x, y)
				if strings.ContainsRune(glyphs, ch) {
					n++
				}
			}
		}
		return n
	}

	for i := 0; i < 5; i++ {
		r.Step(s)
	}
	assert.Greater(t, drawn(), 0)

	// Glyphs only ever land on rain columns
	for y := 0; y < 10; y++ {
		for x := 1; x < 20; x += columnSpacing {
			ch, _, _, _ := s.GetContent(x, y)
			assert.False(t, strings.ContainsRune(glyphs, ch), "(%d, %d)", x, y)
		}
	}
}

func TestRainFade(t *testing.T) {
	s := newScreen(t, 4, 4)

	r := NewRain(rand.New(rand.NewSource(1)))
	r.Resize(4, 4)
	r.trails[0] = trail{r: '@'}
	s.SetContent(0, 0, '@', nil, tcell.StyleDefault)

	for i := 0; i < fadeSteps-1; i++ {
		r.fade(s)
		ch, _, _, _ := s.GetContent(0, 0)
		assert.Equal(t, '@', ch)
	}
	r.fade(s)
	ch, _, _, _ := s.GetContent(0, 0)
	assert.Equal(t, ' ', ch)
}

func TestRainRun(t *testing.T) {
	s := newScreen(t, 20, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewRain(rand.New(rand.NewSource(1))).Run(ctx, s, time.Millisecond)
	assert.Equal(t, context.DeadlineExceeded, err)
}
