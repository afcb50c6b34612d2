package terminal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wtptetris/tetris"
)

const blueCell = "\x1b[7m\x1b[34m[]\x1b[0m"

func emptyBoard() [tetris.Height][tetris.Width]string {
	want := [tetris.Height][tetris.Width]string{}
	for y := range want {
		for x := range want[y] {
			want[y][x] = "  "
		}
	}
	return want
}

func TestBoard(t *testing.T) {
	td := &templateData{Snapshot: tetris.NewTestTetris(tetris.J).Snapshot()}

	want := emptyBoard()
	want[0][4] = blueCell
	want[0][5] = blueCell
	want[0][6] = blueCell
	want[1][6] = blueCell
	want[18][4] = "[]"
	want[18][5] = "[]"
	want[18][6] = "[]"
	want[19][6] = "[]"
	assert.Equal(t, want, board(td))

	td.NoGhost = true
	for x := 4; x <= 6; x++ {
		want[18][x] = "  "
	}
	want[19][6] = "  "
	assert.Equal(t, want, board(td))
}

func TestBoardIgnoresCellsOutside(t *testing.T) {
	td := &templateData{Snapshot: tetris.Snapshot{
		Board: []tetris.Block{{X: -1, Y: 3, Shape: tetris.J}, {X: 2, Y: 20, Shape: tetris.J}, {X: 2, Y: 19, Shape: tetris.J}},
	}}
	want := emptyBoard()
	want[19][2] = blueCell
	assert.Equal(t, want, board(td))
}

func TestNextPiece(t *testing.T) {
	yellow := "\x1b[7m\x1b[33m[]\x1b[0m"
	cyan := "\x1b[7m\x1b[36m[]\x1b[0m"
	tests := []struct {
		shape tetris.Shape
		want  []string
	}{
		{tetris.J, []string{blueCell + blueCell + blueCell + "  ", "    " + blueCell + "  "}},
		{tetris.O, []string{yellow + yellow + "    ", yellow + yellow + "    "}},
		{tetris.I, []string{cyan + cyan + cyan + cyan, "        "}},
		{"", []string{"        ", "        "}},
	}
	for _, tt := range tests {
		t.Run(string(tt.shape), func(t *testing.T) {
			td := &templateData{Snapshot: tetris.Snapshot{Next: tt.shape}}
			assert.Equal(t, tt.want, nextPiece(td))
		})
	}
}

func TestRender(t *testing.T) {
	w := &strings.Builder{}
	r, err := New(&Options{Writer: w})
	require.NoError(t, err)

	r.SetTitle("abc")
	r.Game(tetris.NewTestTetris(tetris.J, tetris.O).Snapshot())
	out := w.String()

	assert.True(t, strings.HasPrefix(out, resetPos))
	assert.Contains(t, out, "\033[1mTerminal Tetris\033[0m  abc\r\n")
	assert.Contains(t, out, "|  next  |")
	assert.Equal(t, 2, strings.Count(out, "+--------------------+"))
	assert.Equal(t, 4, strings.Count(out, blueCell))
	assert.Equal(t, 4, strings.Count(out, "\x1b[7m\x1b[33m[]\x1b[0m"), "the next piece preview")
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n", "every new line has a carriage return")
}

func TestLobby(t *testing.T) {
	w := &strings.Builder{}
	r, err := New(&Options{Writer: w})
	require.NoError(t, err)

	r.Lobby(Welcome...)
	out := w.String()
	assert.Contains(t, out, "\033[10;9H+--------------------------------------+")
	assert.Contains(t, out, "\033[11;9H|      Welcome to Terminal Tetris      |")
	assert.Contains(t, out, "\033[12;9H|                                      |")
	assert.Contains(t, out, "\033[13;9H|      (p)lay   (o)nline   (q)uit      |")
	assert.Contains(t, out, "\033[14;9H+--------------------------------------+")

	w.Reset()
	r.Clear()
	assert.Equal(t, clearScreen, w.String())
}

func TestCenter(t *testing.T) {
	assert.Equal(t, " ab ", center("ab", 4))
	assert.Equal(t, " ab  ", center("ab", 5))
	assert.Equal(t, "abc", center("abcdef", 3))
}
