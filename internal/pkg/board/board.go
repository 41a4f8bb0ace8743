// Package board implements the shared canvas grid.
//
// A Board is the single source of truth for the painted state of every
// cell. It is deliberately not synchronized: Apply and Snapshot must only
// be called while holding the broadcast core's exclusion lock, so that a
// snapshot is causally ordered against every apply.
package board

import "time"

// PaletteSize is the number of colors in the fixed palette.
const PaletteSize = 16

// Color is an index into the fixed 16-color palette.
type Color uint8

// Valid reports whether c is within the palette.
func (c Color) Valid() bool {
	return c < PaletteSize
}

// Tile is the painted state of one cell. A Tile is immutable once
// constructed; repainting a cell replaces the Tile wholesale.
type Tile struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Owner string `json:"owner"`
	Color Color  `json:"color"`
	// Time is the commit time in milliseconds since the Unix epoch.
	Time int64 `json:"time"`
}

// Change is a request to repaint one cell. It is validated against the
// board before becoming a committed Tile.
type Change struct {
	Row   int
	Col   int
	Color Color
	Owner string
}

// Board is a DIM x DIM grid of tiles. Created once at server start and
// mutated in place for the lifetime of the process, never resized.
type Board struct {
	dim   int
	tiles [][]Tile
}

// New creates a dim x dim board with every cell holding the default tile
// (color 0, no owner). dim must be >= 1; New panics otherwise, since the
// dimension is validated at process startup.
func New(dim int) *Board {
	if dim < 1 {
		panic("board: dimension must be >= 1")
	}
	tiles := make([][]Tile, dim)
	for row := range tiles {
		tiles[row] = make([]Tile, dim)
		for col := range tiles[row] {
			tiles[row][col] = Tile{Row: row, Col: col}
		}
	}
	return &Board{dim: dim, tiles: tiles}
}

// Dim returns the board dimension.
func (b *Board) Dim() int {
	return b.dim
}

// Validate reports whether the change addresses a cell on the board.
// The color is not checked here: the wire codec guarantees it is within
// the palette, and anyone may paint any valid cell.
func (b *Board) Validate(change Change) bool {
	return change.Row >= 0 && change.Row < b.dim &&
		change.Col >= 0 && change.Col < b.dim
}

// Apply commits the change, stamping it with the current wall clock, and
// returns the stored tile. The caller must hold the exclusion lock and
// must have called Validate first.
func (b *Board) Apply(change Change) Tile {
	tile := Tile{
		Row:   change.Row,
		Col:   change.Col,
		Owner: change.Owner,
		Color: change.Color,
		Time:  time.Now().UnixMilli(),
	}
	b.tiles[change.Row][change.Col] = tile
	return tile
}

// Get returns the tile at (row, col). Coordinates must be on the board.
func (b *Board) Get(row, col int) Tile {
	return b.tiles[row][col]
}

// Snapshot returns a value copy of the full grid. The caller must hold
// the exclusion lock so no apply interleaves inside the copy.
func (b *Board) Snapshot() [][]Tile {
	tiles := make([][]Tile, b.dim)
	for row := range tiles {
		tiles[row] = make([]Tile, b.dim)
		copy(tiles[row], b.tiles[row])
	}
	return tiles
}
