package tetris

import (
	"slices"

	"github.com/kamstrup/intmap"
)

const (
	Width  = 10
	Height = 20
)

// Board is the playfield. It only tracks landed blocks, keyed by their
// coordinate; a coordinate is in the map iff a landed block occupies it.
//
//	.	0 1 2 3 4 5 6 7 8 9
//	0	X X X X X X X X X X		spawn row
//	..
//	19	X X X X X X X X X X		floor
type Board struct {
	cells *intmap.Map[int, *Block]
}

func NewBoard() *Board {
	return &Board{cells: intmap.New[int, *Block](Width * Height)}
}

func key(x, y int) int { return y*Width + x }

func inBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// CanMove reports whether (x, y) is inside the board and not occupied.
func (b *Board) CanMove(x, y int) bool {
	return inBounds(x, y) && !b.cells.Has(key(x, y))
}

// Fits reports whether the piece can sit where it currently is.
// It is the side-effect-free game over query used at spawn time.
func (b *Board) Fits(p *Piece) bool {
	return p.CanMove(b, 0, 0)
}

// Place lands the piece: its blocks become board blocks. Callers make sure
// the piece fits first and must not use the piece afterwards.
func (b *Board) Place(p *Piece) {
	for _, blk := range p.blocks {
		b.cells.Put(key(blk.X, blk.Y), blk)
	}
}

// IsRowComplete reports whether every column of row y is occupied.
func (b *Board) IsRowComplete(y int) bool {
	for x := range Width {
		if !b.cells.Has(key(x, y)) {
			return false
		}
	}
	return true
}

// ClearRow removes every landed block in row y.
func (b *Board) ClearRow(y int) {
	for x := range Width {
		b.cells.Del(key(x, y))
	}
}

// CompactAbove moves every landed block strictly above row y down by one.
// Rows are walked from y-1 up to 0 so a row always lands on a row that has
// already been vacated.
func (b *Board) CompactAbove(y int) {
	for r := y - 1; r >= 0; r-- {
		for x := range Width {
			blk, ok := b.cells.Get(key(x, r))
			if !ok {
				continue
			}
			b.cells.Del(key(x, r))
			blk.Move(0, 1)
			b.cells.Put(key(blk.X, blk.Y), blk)
		}
	}
}

// RemoveCompleteRows clears every complete row, compacting after each one,
// and returns how many rows were removed.
func (b *Board) RemoveCompleteRows() int {
	removed := 0
	for y := range Height {
		if b.IsRowComplete(y) {
			b.ClearRow(y)
			b.CompactAbove(y)
			removed++
		}
	}
	return removed
}

// At returns the shape landed at (x, y), if any.
func (b *Board) At(x, y int) (Shape, bool) {
	if !inBounds(x, y) {
		return "", false
	}
	blk, ok := b.cells.Get(key(x, y))
	if !ok {
		return "", false
	}
	return blk.Shape, true
}

// Len is the number of landed blocks.
func (b *Board) Len() int { return b.cells.Len() }

// Blocks returns a row-major copy of every landed block.
func (b *Board) Blocks() []Block {
	out := make([]Block, 0, b.cells.Len())
	for _, blk := range b.cells.All() {
		out = append(out, *blk)
	}
	slices.SortFunc(out, func(a, b Block) int {
		return key(a.X, a.Y) - key(b.X, b.Y)
	})
	return out
}
