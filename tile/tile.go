/*
Package tile rasterizes a rendered row or grid of cells.

Each cell becomes a square block of CellSize pixels filled with the cell's
resolved color. Empty cells stay transparent. The result is written as a
paletted PNG; grids with more colors than a PNG palette can hold are
reduced first.
*/
package tile

const (
	// DefaultCellSize is the block size used when none is given
	DefaultCellSize = 16
	maxCellSize     = 256
	maxColors       = 256
)
