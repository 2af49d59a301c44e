package ansi

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bodgit/pixelcode/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func always(b bool) layout.Chooser {
	return func() bool { return b }
}

func TestWriteRow(t *testing.T) {
	result := layout.New(nil, always(true)).Render([]string{"4A1_Red", "4A2_Blue", "4A3_Green", "4A4_Yellow"})

	b := new(bytes.Buffer)
	require.NoError(t, New(b, Options{}).Write(result))

	out := b.String()
	assert.Contains(t, out, "4A1_Red     Row: A  •  Col: 1")
	assert.Contains(t, out, "4A4_Yellow  Row: A  •  Col: 4")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	table := lines[len(lines)-1]
	assert.Equal(t, " #FF0000  #0000FF  #00FF00  #FFFF00 ", table)
}

func TestWriteGrid(t *testing.T) {
	result := layout.New(nil, always(true)).Render([]string{"2A0_White", "2A1_Black", "2B0_Red", "junk"})

	b := new(bytes.Buffer)
	require.NoError(t, New(b, Options{}).Write(result))

	out := b.String()
	assert.Contains(t, out, "junk       "+layout.UnknownFormat)
	assert.Contains(t, out, " #FFFFFF  #000000 \n #FF0000  #FF00FF ")
}

func TestWriteList(t *testing.T) {
	result := layout.New(nil, always(true)).Render([]string{"4B0_Cyan", "4B1_Cyan"})

	b := new(bytes.Buffer)
	require.NoError(t, New(b, Options{Width: 20}).Write(result))

	out := b.String()
	assert.Contains(t, out, "Showing row B")
	// Two chips of nine columns plus a gap fit in twenty
	assert.Equal(t, 2, strings.Count(out, " #00FFFF   #00FFFF "))
}

func TestList(t *testing.T) {
	w := New(new(bytes.Buffer), Options{Width: 10})

	chips := []layout.Chip{{Hex: "#000000"}, {Hex: "#FFFFFF"}, {Hex: "#FF0000"}}
	lines := strings.Split(w.List("Heading", chips), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Heading", strings.TrimSpace(lines[0]))
	assert.Equal(t, " #000000 ", lines[1])
	assert.Equal(t, " #FFFFFF ", lines[2])
	assert.Equal(t, " #FF0000 ", lines[3])
}

func TestTableEmptyCell(t *testing.T) {
	w := New(new(bytes.Buffer), Options{})
	table := w.Table([][]layout.Cell{{{Hex: "#000000", Text: "#000000"}, {Empty: true}}})
	assert.Equal(t, " #000000          ", table)
}

func TestMetadata(t *testing.T) {
	w := New(new(bytes.Buffer), Options{})
	assert.Equal(t, "  {\n    \"a\": 1\n  }\n", w.Metadata(json.RawMessage(`{"a":1}`)))
	assert.Equal(t, "  {oops\n", w.Metadata(json.RawMessage(`{oops`)))

	colored := New(new(bytes.Buffer), Options{Color: true}).Metadata(json.RawMessage(`{"a":1}`))
	assert.Contains(t, colored, "\x1b[")
	assert.Contains(t, colored, "\"a\"")
}

func TestWriteNil(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, New(b, Options{}).Write(nil))
	assert.Empty(t, b.String())
}
