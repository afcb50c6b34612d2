package tetris

import "fmt"

// Point is a cell coordinate on the board.
// X grows left to right (0 > 9), Y grows top to bottom (0 > 19).
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Block is one unit cell. It belongs either to the falling Piece or,
// once landed, to the Board. Shape is the color tag it renders with.
type Block struct {
	X, Y  int
	Shape Shape
}

// CanMove reports whether the block can be translated by dx, dy.
func (b *Block) CanMove(board *Board, dx, dy int) bool {
	return board.CanMove(b.X+dx, b.Y+dy)
}

// Move translates the block without checking the board.
func (b *Block) Move(dx, dy int) {
	b.X += dx
	b.Y += dy
}

func (b *Block) point() Point { return Point{b.X, b.Y} }
