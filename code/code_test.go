package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tables := []struct {
		input string
		want  Code
	}{
		{"32H11Red", Code{32, 'H', 11, "Red"}},
		{"32H11_Red", Code{32, 'H', 11, "Red"}},
		{"  32A0_FFFFFF \n", Code{32, 'A', 0, "FFFFFF"}},
		{"4a1_#ff0000", Code{4, 'a', 1, "#ff0000"}},
		{"8f7_1a2b3c4d", Code{8, 'f', 7, "1a2b3c4d"}},
		{"4A12", Code{4, 'A', 1, "2"}},
		{"4A1_2", Code{4, 'A', 1, "2"}},
		{"4A123_Red", Code{4, 'A', 123, "Red"}},
		{"04A01Blue", Code{4, 'A', 1, "Blue"}},
		{"0Z0_x", Code{0, 'Z', 0, "x"}},
		{"999q999_Nope", Code{999, 'q', 999, "Nope"}},
	}

	for _, table := range tables {
		t.Run(table.input, func(t *testing.T) {
			c, err := Parse(table.input)
			require.NoError(t, err)
			assert.Equal(t, table.want, c)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"Red",
		"A1Red",
		"32Red",
		"32H",
		"32HRed",
		"4A1",
		"4A1_",
		"4A12_",
		"4A1__Red",
		"4A1 Red",
		"4A1_Re-d",
		"4ÄA1_Red",
		"4A1_Rød",
		"99999999999999999999999A1_Red",
		"4A99999999999999999999999_Red",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Equal(t, ErrInvalid, err)
			assert.False(t, Valid(input))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "32H11_Red", Format(Code{32, 'H', 11, "Red"}))
	assert.Equal(t, "4a0_#00FF00", Code{4, 'a', 0, "#00FF00"}.String())
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Code{
		{32, 'H', 11, "Red"},
		{8, 'a', 0, "FFFFFF80"},
		{1, 'z', 1234, "#abc"},
		{64, 'M', 65, "0"},
		{0, 'A', 0, "x"},
	} {
		got, err := Parse(Format(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "F", Code{Row: 'f'}.Label())
	assert.Equal(t, "H", Code{Row: 'H'}.Label())
}

func TestRowLabels(t *testing.T) {
	require.Len(t, RowLabels, 32)
	assert.Equal(t, 'A', RowLabels[0])
	assert.Equal(t, 'Z', RowLabels[25])
	assert.Equal(t, 'a', RowLabels[26])
	assert.Equal(t, 'f', RowLabels[31])

	i, ok := RowIndex('c')
	assert.True(t, ok)
	assert.Equal(t, 28, i)

	_, ok = RowIndex('g')
	assert.False(t, ok)
}
