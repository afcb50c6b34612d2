package tetris_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wtptetris/tetris"
)

func next(t *testing.T, game *tetris.Game) tetris.Snapshot {
	t.Helper()
	select {
	case s := <-game.Updates():
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for an update")
	}
	return tetris.Snapshot{}
}

func rows(blocks []tetris.Block) []int {
	out := make([]int, len(blocks))
	for i, b := range blocks {
		out[i] = b.Y
	}
	return out
}

func TestUpdates(t *testing.T) {
	game, ticker := tetris.NewTestGame(tetris.J)
	game.Start()
	defer game.Stop()

	s := next(t, game)
	assert.Equal(t, []int{0, 0, 0, 1}, rows(s.Piece))
	assert.Equal(t, tetris.J, s.Next)

	ticker.Tick()
	s = next(t, game)
	assert.Equal(t, []int{1, 1, 1, 2}, rows(s.Piece))
	assert.Equal(t, s, game.Read())

	require.True(t, game.Action(tetris.MoveLeft))
	s = next(t, game)
	assert.Equal(t, 3, s.Piece[0].X)
	assert.False(t, s.GameOver)
}

func TestStartStop(t *testing.T) {
	game, ticker := tetris.NewTestGame()
	assert.False(t, game.Action(tetris.MoveDown), "no game has started")

	game.Start()
	next(t, game)
	require.Eventually(t, ticker.IsReset, time.Second, 10*time.Millisecond)

	game.Stop()
	assert.True(t, ticker.IsStop())
	assert.False(t, game.Action(tetris.MoveDown))

	// a second stop is a no-op.
	game.Stop()
}

func TestRestart(t *testing.T) {
	game, _ := tetris.NewTestGame(tetris.J)
	game.Start()
	next(t, game)
	require.True(t, game.Action(tetris.DropDown))
	s := next(t, game)
	require.Len(t, s.Board, 4)

	game.Start()
	defer game.Stop()
	s = next(t, game)
	assert.Empty(t, s.Board, "a restart begins with an empty board")
	assert.Equal(t, s, game.Read())
}

func TestGameOverEndsTheLoop(t *testing.T) {
	game, _ := tetris.NewTestGame(tetris.O)
	game.Start()
	defer game.Stop()
	next(t, game)

	// ten O pieces stack up to the top of columns 4 and 5.
	for range 10 {
		require.True(t, game.Action(tetris.DropDown))
		next(t, game)
	}

	s := game.Read()
	assert.True(t, s.GameOver)
	assert.Nil(t, s.Piece)
	assert.Len(t, s.Board, 40)
	assert.False(t, game.Action(tetris.MoveLeft), "the loop has returned")
}
