package tetris

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// land puts a single landed block on the board.
func land(b *Board, x, y int) {
	b.cells.Put(key(x, y), &Block{X: x, Y: y, Shape: J})
}

// fillRow lands a block on every column of row y except the skipped ones.
func fillRow(b *Board, y int, skip ...int) {
	for x := range Width {
		skipped := false
		for _, s := range skip {
			if s == x {
				skipped = true
			}
		}
		if !skipped {
			land(b, x, y)
		}
	}
}

func points(blocks []Block) []Point {
	out := make([]Point, len(blocks))
	for i, b := range blocks {
		out[i] = Point{b.X, b.Y}
	}
	return out
}

func TestBoardCanMove(t *testing.T) {
	// 		0 1 2 3 4 5 6 7 8 9
	// 17	X X X X X C X X X X
	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{name: "empty cell", x: 0, y: 0, want: true},
		{name: "bottom right corner", x: 9, y: 19, want: true},
		{name: "occupied cell", x: 5, y: 17},
		{name: "left bound", x: -1, y: 5},
		{name: "right bound", x: 10, y: 5},
		{name: "upper bound", x: 5, y: -1},
		{name: "bottom bound", x: 5, y: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := NewBoard()
			land(b, 5, 17)
			assert.Equal(t, tt.want, b.CanMove(tt.x, tt.y))
		})
	}
}

func TestPlace(t *testing.T) {
	b := NewBoard()
	p, err := NewPiece(J, spawnPoint)
	require.NoError(t, err)
	require.True(t, b.Fits(p))

	b.Place(p)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, []Point{{4, 0}, {5, 0}, {6, 0}, {6, 1}}, points(b.Blocks()))
	for _, pt := range p.Points() {
		shape, ok := b.At(pt.X, pt.Y)
		assert.True(t, ok)
		assert.Equal(t, J, shape)
		assert.False(t, b.CanMove(pt.X, pt.Y))
	}
	assert.False(t, b.Fits(p), "a landed piece occupies its own cells")
}

func TestIsRowComplete(t *testing.T) {
	b := NewBoard()
	fillRow(b, 19, 0)
	assert.False(t, b.IsRowComplete(19))
	land(b, 0, 19)
	assert.True(t, b.IsRowComplete(19))
	assert.False(t, b.IsRowComplete(18))
}

func TestRemoveCompleteRows(t *testing.T) {
	t.Run("a piece completing the bottom row clears it and shifts everything down", func(t *testing.T) {
		// 		0 1 2 3 4 5 6 7 8 9
		// 0	. . . . . . . . . X
		// ..
		// 18	L L L . . . . . . .
		// 19	L X X X X X X X X X
		b := NewBoard()
		fillRow(b, 19, 0)
		land(b, 9, 0)
		p, err := NewPiece(L, Point{1, 18})
		require.NoError(t, err)
		require.True(t, b.Fits(p))
		b.Place(p)
		require.True(t, b.IsRowComplete(19))
		before := b.Len()

		removed := b.RemoveCompleteRows()

		assert.Equal(t, 1, removed)
		assert.Equal(t, before-Width*removed, b.Len())
		assert.Equal(t, []Point{{9, 1}, {0, 19}, {1, 19}, {2, 19}}, points(b.Blocks()))
		for x := range Width {
			_, ok := b.At(x, 0)
			assert.False(t, ok, "row 0 should be empty, found a block at x=%d", x)
		}
	})

	t.Run("consecutive complete rows", func(t *testing.T) {
		b := NewBoard()
		fillRow(b, 18)
		fillRow(b, 19)
		land(b, 4, 17)
		assert.Equal(t, 2, b.RemoveCompleteRows())
		assert.Equal(t, []Point{{4, 19}}, points(b.Blocks()))
	})

	t.Run("complete rows split by a partial one", func(t *testing.T) {
		b := NewBoard()
		land(b, 7, 16)
		fillRow(b, 17)
		land(b, 2, 18)
		fillRow(b, 19)
		assert.Equal(t, 2, b.RemoveCompleteRows())
		assert.Equal(t, []Point{{7, 18}, {2, 19}}, points(b.Blocks()))
	})

	t.Run("no complete rows", func(t *testing.T) {
		b := NewBoard()
		fillRow(b, 19, 3)
		assert.Equal(t, 0, b.RemoveCompleteRows())
		assert.Equal(t, Width-1, b.Len())
	})
}

func TestCompactAbove(t *testing.T) {
	for _, y := range []int{1, 10, 19} {
		t.Run(fmt.Sprintf("cleared row %d", y), func(t *testing.T) {
			b := NewBoard()
			for r := range Height {
				if r != y {
					land(b, r%Width, r)
				}
			}
			before := b.Blocks()

			b.CompactAbove(y)

			want := make([]Point, 0, len(before))
			for _, blk := range before {
				if blk.Y < y {
					blk.Y++
				}
				want = append(want, Point{blk.X, blk.Y})
			}
			assert.ElementsMatch(t, want, points(b.Blocks()))
			assert.Equal(t, len(before), b.Len())
		})
	}
}
