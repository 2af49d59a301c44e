/*
Package pixelcode is a library for rendering Pixel-Codes, the compact
{size}{row}{column}_{color} encoding of one colored cell of a square grid.

A Snapshot holds the code mapping, which maps a lookup key to an ordered
sequence of codes, and the optional per-code metadata. It renders the
sequence for a key as a row, a grid or a sampled list. A CodeDB stores the
mappings in SQLite, and PixelCode fills it by scanning directories of
images.
*/
package pixelcode

import "log"

// PixelCode maintains the mappings stored in a CodeDB
type PixelCode struct {
	db     *CodeDB
	logger *log.Logger
}

// New returns a PixelCode backed by db, logging to logger
func New(db *CodeDB, logger *log.Logger) *PixelCode {
	return &PixelCode{
		db:     db,
		logger: logger,
	}
}
