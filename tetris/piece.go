package tetris

// Piece is the falling group of four blocks. It rotates 90 degrees about
// its pivot block; dir is the handedness (+1 clockwise, -1 counterclockwise
// with y growing downward).
type Piece struct {
	Shape Shape

	blocks     [4]*Block
	pivot      *Block
	dir        int
	alternates bool
	rotates    bool
}

// CanMove reports whether every block can be translated by dx, dy.
func (p *Piece) CanMove(board *Board, dx, dy int) bool {
	for _, b := range p.blocks {
		if !b.CanMove(board, dx, dy) {
			return false
		}
	}
	return true
}

// Move translates every block. Callers check CanMove first.
func (p *Piece) Move(dx, dy int) {
	for _, b := range p.blocks {
		b.Move(dx, dy)
	}
}

// CanRotate reports whether a rotation in the current handedness is legal.
// It never mutates the piece. Pieces that don't rotate report false.
func (p *Piece) CanRotate(board *Board) bool {
	if !p.rotates {
		return false
	}
	for _, b := range p.blocks {
		dx, dy := p.rotationDelta(b)
		if !b.CanMove(board, dx, dy) {
			return false
		}
	}
	return true
}

// Rotate turns the piece about its pivot when the rotation is legal and
// does nothing otherwise. An alternating piece flips its handedness on
// every call, legal or not.
func (p *Piece) Rotate(board *Board) {
	if !p.rotates {
		return
	}
	if p.CanRotate(board) {
		var deltas [4]Point
		for i, b := range p.blocks {
			dx, dy := p.rotationDelta(b)
			deltas[i] = Point{dx, dy}
		}
		for i, b := range p.blocks {
			b.Move(deltas[i].X, deltas[i].Y)
		}
	}
	if p.alternates {
		p.dir = -p.dir
	}
}

// rotationDelta returns how far b travels when rotated about the pivot.
//
//	x' = px - d*py + d*y
//	y' = py + d*px - d*x
func (p *Piece) rotationDelta(b *Block) (int, int) {
	d := p.dir
	px, py := p.pivot.X, p.pivot.Y
	x := px - d*py + d*b.Y
	y := py + d*px - d*b.X
	return x - b.X, y - b.Y
}

// Blocks returns a copy of the piece's blocks, safe to hand to a renderer.
func (p *Piece) Blocks() []Block {
	out := make([]Block, len(p.blocks))
	for i, b := range p.blocks {
		out[i] = *b
	}
	return out
}

// Points returns the coordinates the piece occupies.
func (p *Piece) Points() []Point {
	out := make([]Point, len(p.blocks))
	for i, b := range p.blocks {
		out[i] = b.point()
	}
	return out
}

func (p *Piece) Pivot() Point   { return p.pivot.point() }
func (p *Piece) Direction() int { return p.dir }

// dropDistance is how many rows the piece can fall before it lands.
func (p *Piece) dropDistance(board *Board) int {
	n := 0
	for p.CanMove(board, 0, n+1) {
		n++
	}
	return n
}
