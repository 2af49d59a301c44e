package pixelcode

import (
	"io/ioutil"
	"log"
	"path/filepath"
	"testing"

	"github.com/bodgit/pixelcode/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = log.New(ioutil.Discard, "", 0)

func always(b bool) layout.Chooser {
	return func() bool { return b }
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	file := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(file, []byte(content), 0644))
	return file
}

func TestSnapshotHello(t *testing.T) {
	s := NewSnapshot(map[string][]string{
		"HELLO": {"4A1_Red", "4A2_Blue", "4A3_Green", "4A4_Yellow"},
	}, nil)

	seq, ok := s.Lookup("  hello ")
	require.True(t, ok)
	assert.Len(t, seq, 4)

	result, ok := s.Render("Hello", always(true))
	require.True(t, ok)
	require.Equal(t, layout.KindRow, result.Kind)
	require.Len(t, result.Cells, 1)

	var hexes []string
	for _, c := range result.Cells[0] {
		hexes = append(hexes, c.Hex)
	}
	assert.Equal(t, []string{"#FF0000", "#0000FF", "#00FF00", "#FFFF00"}, hexes)
}

func TestSnapshotMiss(t *testing.T) {
	s := NewSnapshot(nil, nil)

	_, ok := s.Lookup("anything")
	assert.False(t, ok)

	result, ok := s.Render("anything", always(true))
	assert.False(t, ok)
	assert.Nil(t, result)
}

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	codes := writeFile(t, dir, CodesFilename, `{"ROW_A": ["2A0_Red", "2A1_Blue", "2B0_Red"]}`)
	pixels := writeFile(t, dir, "pixels.json", `{"2A0_Red": {"n": 1}, "rows": {"A": ["2A0_Red", "2A1_Red"]}}`)

	s, err := LoadSnapshot(codes, pixels, discard)
	require.NoError(t, err)

	result, ok := s.Render("row_a", always(false))
	require.True(t, ok)
	assert.Equal(t, layout.KindList, result.Kind)
	assert.Equal(t, "Showing row A", result.Heading)
	assert.Len(t, result.Chips, 2)
	assert.JSONEq(t, `{"n": 1}`, string(result.Items[0].Metadata))
}

func TestLoadSnapshotMissing(t *testing.T) {
	dir := t.TempDir()

	s, err := LoadSnapshot(filepath.Join(dir, "nope.json"), "", discard)
	require.NoError(t, err)
	assert.Empty(t, s.Codes)
	assert.Equal(t, 0, s.Metadata.Length())
}

func TestLoadSnapshotMalformed(t *testing.T) {
	dir := t.TempDir()
	codes := writeFile(t, dir, CodesFilename, `{"ROW_A": `)

	_, err := LoadSnapshot(codes, "", discard)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "HELLO", Key(" hello\n"))
	assert.Equal(t, "", Key(""))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, map[string][]string{
		"HELLO": {"canonical"},
		"LOVE":  {"Love"},
		"SUN":   {"spaced"},
	}, Normalize(map[string][]string{
		"hello":  {"lower"},
		"HELLO":  {"canonical"},
		"Hello ": {"mixed"},
		"love":   {"love"},
		"Love":   {"Love"},
		" sun\t": {"spaced"},
		"sun":    {"sun"},
	}))
}

func TestLoadSnapshotNormalizesKeys(t *testing.T) {
	dir := t.TempDir()
	codes := writeFile(t, dir, CodesFilename, `{"hello": ["4A1_Red", "4A2_Blue", "4A3_Green", "4A4_Yellow"], "Bye": ["1A0_Red"], "BYE": ["1A0_Blue"]}`)

	s, err := LoadSnapshot(codes, "", discard)
	require.NoError(t, err)

	seq, ok := s.Lookup("HELLO")
	require.True(t, ok)
	assert.Len(t, seq, 4)

	seq, ok = s.Lookup("bye")
	require.True(t, ok)
	assert.Equal(t, []string{"1A0_Blue"}, seq)
	assert.Len(t, s.Codes, 2)
}
