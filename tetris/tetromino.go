package tetris

import (
	"errors"
	"fmt"
)

// Shape names a tetromino variant. It doubles as the color tag of every
// block the variant produces. An empty Shape is an empty cell.
type Shape string

const (
	I Shape = "I"
	J Shape = "J"
	L Shape = "L"
	O Shape = "O"
	S Shape = "S"
	T Shape = "T"
	Z Shape = "Z"
)

// Shapes lists every variant a Source can draw from.
var Shapes = []Shape{I, J, L, O, S, T, Z}

var ErrUnknownShape = errors.New("unknown shape")

// variant is the only per-shape data. Geometry is shared by every Piece.
type variant struct {
	offsets    [4]Point
	pivot      int
	dir        int
	alternates bool
	rotates    bool
}

/*
.	Spawn Location, centered on (5,0)

.	0 1 2 3 4 5 6 7 8 9
0	X X X X O P O O X X		I: pivot P, d = -1, alternates
1	X X X X X X X X X X
*/
var variantI = variant{
	offsets:    [4]Point{{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
	pivot:      1,
	dir:        -1,
	alternates: true,
	rotates:    true,
}

/*
.	0 1 2 3 4 5 6 7 8 9
0	X X X X O P O X X X		J: pivot P
1	X X X X X X O X X X
*/
var variantJ = variant{
	offsets: [4]Point{{-1, 0}, {0, 0}, {1, 0}, {1, 1}},
	pivot:   1,
	dir:     1,
	rotates: true,
}

/*
.	0 1 2 3 4 5 6 7 8 9
0	X X X X O P O X X X		L: pivot P
1	X X X X O X X X X X
*/
var variantL = variant{
	offsets: [4]Point{{-1, 0}, {0, 0}, {1, 0}, {-1, 1}},
	pivot:   1,
	dir:     1,
	rotates: true,
}

/*
.	0 1 2 3 4 5 6 7 8 9
0	X X X X O P X X X X		O: never rotates
1	X X X X O O X X X X
*/
var variantO = variant{
	offsets: [4]Point{{0, 0}, {-1, 0}, {0, 1}, {-1, 1}},
	pivot:   0,
	dir:     1,
}

/*
.	0 1 2 3 4 5 6 7 8 9
0	X X X X X P O X X X		S: pivot P, alternates
1	X X X X O O X X X X
*/
var variantS = variant{
	offsets:    [4]Point{{0, 0}, {0, 1}, {1, 0}, {-1, 1}},
	pivot:      0,
	dir:        1,
	alternates: true,
	rotates:    true,
}

/*
.	0 1 2 3 4 5 6 7 8 9
0	X X X X O P O X X X		T: pivot P
1	X X X X X O X X X X
*/
var variantT = variant{
	offsets: [4]Point{{-1, 0}, {0, 0}, {1, 0}, {0, 1}},
	pivot:   1,
	dir:     1,
	rotates: true,
}

/*
.	0 1 2 3 4 5 6 7 8 9
0	X X X X O P X X X X		Z: pivot P, alternates
1	X X X X X O O X X X
*/
var variantZ = variant{
	offsets:    [4]Point{{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
	pivot:      1,
	dir:        1,
	alternates: true,
	rotates:    true,
}

var variants = map[Shape]variant{
	I: variantI,
	J: variantJ,
	L: variantL,
	O: variantO,
	S: variantS,
	T: variantT,
	Z: variantZ,
}

func ParseShape(s string) (Shape, error) {
	if _, ok := variants[Shape(s)]; !ok {
		return "", fmt.Errorf("parse shape %q: %w", s, ErrUnknownShape)
	}
	return Shape(s), nil
}

// NewPiece builds the variant's canonical layout around center.
func NewPiece(s Shape, center Point) (*Piece, error) {
	v, ok := variants[s]
	if !ok {
		return nil, fmt.Errorf("new piece %q: %w", s, ErrUnknownShape)
	}
	p := &Piece{
		Shape:      s,
		dir:        v.dir,
		alternates: v.alternates,
		rotates:    v.rotates,
	}
	for i, o := range v.offsets {
		p.blocks[i] = &Block{X: center.X + o.X, Y: center.Y + o.Y, Shape: s}
	}
	p.pivot = p.blocks[v.pivot]
	return p, nil
}
