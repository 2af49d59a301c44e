package pixelcode

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bodgit/pixelcode/code"
)

// RevealAll is the key suffix holding every code of an image
const RevealAll = "REVEAL_ALL"

// Sequences builds a code mapping from rows: one key per row, prefix+ROW_n
// counting from one in label order, plus prefix+REVEAL_ALL holding every
// code in row-major order
func Sequences(prefix string, rows code.Rows) map[string][]string {
	labels := rows.Labels()

	m := make(map[string][]string, len(labels)+1)
	for i, l := range labels {
		m[Key(fmt.Sprintf("%sROW_%d", prefix, i+1))] = append([]string{}, rows[l]...)
	}
	m[Key(prefix+RevealAll)] = append([]string{}, rows.Flatten()...)

	return m
}

const rowPrefix = "ROW_"

func rowNumber(key string) (int, bool) {
	i := strings.LastIndex(key, rowPrefix)
	if i < 0 || (i > 0 && key[i-1] != '_') {
		return 0, false
	}
	n, err := strconv.Atoi(key[i+len(rowPrefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func isRevealAll(key string) bool {
	return key == RevealAll || strings.HasSuffix(key, "_"+RevealAll)
}

// Remap renames the ROW_n keys of codes to words, in ROW_n order. Rows
// beyond the last word, blank words and any other keys keep their names,
// and extra words are ignored. A renamed key replaces a kept key of the
// same name and a repeated word keeps the later row. REVEAL_ALL is kept when present, otherwise it is rebuilt from
// the rows in ROW_n order.
func Remap(codes map[string][]string, words []string) map[string][]string {
	type row struct {
		key string
		n   int
	}

	var rows []row
	hasRevealAll := false
	m := make(map[string][]string, len(codes)+1)
	for k, seq := range codes {
		if n, ok := rowNumber(Key(k)); ok {
			rows = append(rows, row{k, n})
			continue
		}
		if isRevealAll(Key(k)) {
			hasRevealAll = true
		}
		m[k] = seq
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].n != rows[j].n {
			return rows[i].n < rows[j].n
		}
		return rows[i].key < rows[j].key
	})

	all := []string{}
	renamed := make(map[string][]string)
	for i, r := range rows {
		seq := codes[r.key]
		all = append(all, seq...)

		if i < len(words) && Key(words[i]) != "" {
			renamed[Key(words[i])] = seq
			continue
		}
		m[r.key] = seq
	}

	for k, seq := range renamed {
		m[k] = seq
	}

	if !hasRevealAll && len(rows) > 0 {
		m[RevealAll] = all
	}

	return m
}

// Parsed is the structured form of one code, null when it does not parse
type Parsed struct {
	Size   int    `json:"size"`
	Row    string `json:"row"`
	Column int    `json:"col"`
	Color  string `json:"color"`
}

// Extraction is a flat listing of every code in a pixel file
type Extraction struct {
	Source string             `json:"source"`
	Count  int                `json:"count"`
	Codes  []string           `json:"codes"`
	Map    map[string]*Parsed `json:"map"`
}

// Extract lists every code of rows in label order together with its parsed
// fields
func Extract(source string, rows code.Rows) *Extraction {
	e := &Extraction{
		Source: source,
		Codes:  []string{},
		Map:    make(map[string]*Parsed),
	}

	for _, s := range rows.Flatten() {
		e.Codes = append(e.Codes, s)

		c, err := code.Parse(s)
		if err != nil {
			e.Map[s] = nil
			continue
		}
		e.Map[s] = &Parsed{
			Size:   c.Size,
			Row:    string(c.Row),
			Column: c.Column,
			Color:  c.Color,
		}
	}
	e.Count = len(e.Codes)

	return e
}
