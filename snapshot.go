package pixelcode

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/bodgit/pixelcode/layout"
	"github.com/bodgit/pixelcode/metadata"
)

// CodesFilename is the conventional filename of the code mapping
const CodesFilename = "codes.json"

// Snapshot is an immutable view of both mappings for one or more render
// passes
type Snapshot struct {
	Codes    map[string][]string
	Metadata *metadata.DB
}

// NewSnapshot returns a Snapshot, treating nil mappings as empty
func NewSnapshot(codes map[string][]string, meta *metadata.DB) *Snapshot {
	if codes == nil {
		codes = make(map[string][]string)
	}
	if meta == nil {
		meta = metadata.New()
	}
	return &Snapshot{
		Codes:    codes,
		Metadata: meta,
	}
}

func readJSON(file string, v interface{}, logger *log.Logger) error {
	if file == "" {
		return nil
	}

	b, err := ioutil.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Printf("No mapping at \"%s\", using an empty one\n", file)
			return nil
		}
		return err
	}

	return json.Unmarshal(b, v)
}

// LoadSnapshot reads the code mapping and the metadata mapping from JSON
// files. A missing file or an empty path leaves that mapping empty. Keys
// are normalized as by Normalize.
func LoadSnapshot(codesFile, pixelsFile string, logger *log.Logger) (*Snapshot, error) {
	codes := make(map[string][]string)
	if err := readJSON(codesFile, &codes, logger); err != nil {
		return nil, err
	}
	codes = Normalize(codes)

	meta := metadata.New()
	if err := readJSON(pixelsFile, meta, logger); err != nil {
		return nil, err
	}

	return NewSnapshot(codes, meta), nil
}

// Key normalizes user input into a mapping key
func Key(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// Normalize returns codes with every key passed through Key. When several
// keys normalize to the same key, a key already in normalized form wins,
// otherwise the lexically smallest one does.
func Normalize(codes map[string][]string) map[string][]string {
	m := make(map[string][]string, len(codes))
	from := make(map[string]string, len(codes))
	for k, seq := range codes {
		key := Key(k)
		if prev, ok := from[key]; ok && (prev == key || (k != key && prev < k)) {
			continue
		}
		m[key] = seq
		from[key] = k
	}
	return m
}

// Lookup returns the sequence stored for input, matched case-insensitively
func (s *Snapshot) Lookup(input string) ([]string, bool) {
	seq, ok := s.Codes[Key(input)]
	return seq, ok
}

// Render lays out the sequence stored for input. Nothing is rendered when
// there is no match.
func (s *Snapshot) Render(input string, choose layout.Chooser) (*layout.Result, bool) {
	seq, ok := s.Lookup(input)
	if !ok {
		return nil, false
	}
	return layout.New(s.Metadata, choose).Render(seq), true
}
