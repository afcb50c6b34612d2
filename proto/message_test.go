package proto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"wtptetris/tetris"
)

func TestActRequest(t *testing.T) {
	id, a, err := ParseActRequest(NewActRequest("abc", tetris.RotatePiece))
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
	assert.Equal(t, tetris.RotatePiece, a)

	_, _, err = ParseActRequest(NewActRequest("", tetris.MoveLeft))
	assert.True(t, errors.Is(err, ErrMissingGameID))

	_, _, err = ParseActRequest(NewActRequest("abc", "hold"))
	assert.True(t, errors.Is(err, tetris.ErrUnknownAction))

	_, _, err = ParseActRequest(nil)
	assert.True(t, errors.Is(err, ErrMissingGameID))
}

func TestSnapshot(t *testing.T) {
	game := tetris.NewTestTetris(tetris.O, tetris.T)
	game.Drop()
	want := game.Snapshot()

	st, err := SnapshotToStruct(want)
	require.NoError(t, err)
	got, err := SnapshotFromStruct(st)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, tetris.T, got.Piece[0].Shape)
	assert.Len(t, got.Board, 4)
}

func TestSnapshotGameOver(t *testing.T) {
	st, err := SnapshotToStruct(tetris.Snapshot{GameOver: true})
	require.NoError(t, err)
	got, err := SnapshotFromStruct(st)
	require.NoError(t, err)
	assert.True(t, got.GameOver)
	assert.Nil(t, got.Piece)
	assert.Nil(t, got.Ghost)
}

func TestSnapshotFromStructErrors(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want error
	}{
		{
			name: "unknown shape",
			in:   map[string]any{"board": []any{map[string]any{"x": 1, "y": 2, "shape": "X"}}},
			want: tetris.ErrUnknownShape,
		},
		{
			name: "block without coordinates",
			in:   map[string]any{"piece": []any{map[string]any{"shape": "I"}}},
			want: ErrMalformed,
		},
		{
			name: "ghost without y",
			in:   map[string]any{"ghost": []any{map[string]any{"x": 1}}},
			want: ErrMalformed,
		},
		{
			name: "unknown next shape",
			in:   map[string]any{"next": "W"},
			want: tetris.ErrUnknownShape,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := structpb.NewStruct(tt.in)
			require.NoError(t, err)
			_, err = SnapshotFromStruct(st)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
