package pixelcode

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodeDB(t *testing.T) *CodeDB {
	t.Helper()
	db, err := NewCodeDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCodeDBSequence(t *testing.T) {
	db := newCodeDB(t)

	require.NoError(t, db.AddSequence("hello", []string{"4A1_Red", "4A2_Blue"}))

	seq, ok, err := db.Sequence("HELLO")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"4A1_Red", "4A2_Blue"}, seq)

	// Replacing keeps only the new sequence
	require.NoError(t, db.AddSequence("Hello", []string{"1A0_Green"}))
	seq, ok, err = db.Sequence("hello")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"1A0_Green"}, seq)

	_, ok, err = db.Sequence("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.AddSequence("EMPTY", nil))
	seq, ok, err = db.Sequence("empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, seq)
}

func TestCodeDBImport(t *testing.T) {
	db := newCodeDB(t)
	dir := t.TempDir()

	require.NoError(t, db.AddSequence("STALE", []string{"1A0_Red"}))

	codes := writeFile(t, dir, CodesFilename, `{"love": ["2A0_Red", "2A1_Red"], "REVEAL_ALL": ["2A0_Red", "2A1_Red", "2B0_Red", "2B1_Blue"]}`)
	require.NoError(t, db.ImportCodes(codes))

	pixels := writeFile(t, dir, "pixels.json", `{"2B1_Blue": ["x"], "rows": {"B": ["2B0_Red", "2B1_Blue"]}}`)
	require.NoError(t, db.ImportPixels(pixels))

	s, err := db.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"LOVE":       {"2A0_Red", "2A1_Red"},
		"REVEAL_ALL": {"2A0_Red", "2A1_Red", "2B0_Red", "2B1_Blue"},
	}, s.Codes)

	v, ok := s.Metadata.Metadata("2B1_Blue")
	require.True(t, ok)
	assert.JSONEq(t, `["x"]`, string(v))

	row, ok := s.Metadata.Row("B")
	require.True(t, ok)
	assert.Equal(t, []string{"2B0_Red", "2B1_Blue"}, row)

	// Importing again replaces the metadata
	pixels = writeFile(t, dir, "pixels2.json", `{}`)
	require.NoError(t, db.ImportPixels(pixels))
	s, err = db.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Metadata.Length())
	assert.Empty(t, s.Metadata.Rows())
}

func TestCodeDBImportCollision(t *testing.T) {
	db := newCodeDB(t)
	dir := t.TempDir()

	codes := writeFile(t, dir, CodesFilename, `{"love": ["1A0_Red"], "LOVE": ["1A0_Blue"], "Love": ["1A0_Green"]}`)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.ImportCodes(codes))

		seq, ok, err := db.Sequence("love")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []string{"1A0_Blue"}, seq)
	}
}

func TestCodeDBImportErrors(t *testing.T) {
	db := newCodeDB(t)
	dir := t.TempDir()

	assert.Error(t, db.ImportCodes(filepath.Join(dir, "missing.json")))
	assert.Error(t, db.ImportCodes(writeFile(t, dir, "bad.json", `[1, 2]`)))
	assert.Error(t, db.ImportPixels(writeFile(t, dir, "bad2.json", `{"rows": 5}`)))
}

func TestCodeDBExport(t *testing.T) {
	db := newCodeDB(t)

	require.NoError(t, db.AddSequence("b", []string{"1A0_Red"}))
	require.NoError(t, db.AddSequence("a", []string{"2A0_Red", "2A1_Red"}))

	b := new(bytes.Buffer)
	require.NoError(t, db.ExportCodes(b))

	var got map[string][]string
	require.NoError(t, json.Unmarshal(b.Bytes(), &got))
	assert.Equal(t, map[string][]string{
		"A": {"2A0_Red", "2A1_Red"},
		"B": {"1A0_Red"},
	}, got)
}
