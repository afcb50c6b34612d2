// Package tetris contains the logic of the game: pieces, the board they
// land on and the controller that sequences gravity and player commands.
package tetris

import (
	"errors"
	"fmt"
	"log/slog"
)

type Action string

const (
	MoveLeft    Action = "left"   // Moves the piece one step to the left.
	MoveRight   Action = "right"  // Moves the piece one step to the right.
	MoveDown    Action = "down"   // Moves the piece one step down, landing it if it can't.
	DropDown    Action = "drop"   // Drops the piece down the board and lands it.
	RotatePiece Action = "rotate" // Rotates the piece about its pivot.
)

var ErrUnknownAction = errors.New("unknown action")

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case MoveLeft, MoveRight, MoveDown, DropDown, RotatePiece:
		return a, nil
	}
	return "", fmt.Errorf("parse action %q: %w", s, ErrUnknownAction)
}

// spawnPoint is the top center of the board.
var spawnPoint = Point{Width / 2, 0}

// Snapshot is a copy of the game state that's safe to hand to a renderer.
type Snapshot struct {
	Piece    []Block
	Ghost    []Point
	Board    []Block
	Next     Shape
	GameOver bool
}

// Tetris owns the board and the falling piece. It is not safe for
// concurrent use: one caller drives it one transition at a time.
type Tetris struct {
	board    *Board
	piece    *Piece
	next     Shape
	source   Source
	logger   *slog.Logger
	gameOver bool
}

// New starts a game with a freshly spawned piece.
func New(opts ...Option) *Tetris {
	c := newConfig(opts)
	return newTetris(c)
}

func newTetris(c *config) *Tetris {
	t := &Tetris{
		board:  NewBoard(),
		source: c.source,
		logger: c.logger,
	}
	t.next = t.source.Next()
	t.spawn()
	return t
}

// PlacePiece makes p the falling piece if it fits where it is. When it
// doesn't the board is left untouched and the game is over.
func (t *Tetris) PlacePiece(p *Piece) bool {
	if t.gameOver {
		return false
	}
	if !t.board.Fits(p) {
		t.piece = nil
		t.gameOver = true
		t.logger.Debug("game over", slog.String("shape", string(p.Shape)), slog.Any("at", p.Points()))
		return false
	}
	t.piece = p
	return true
}

func (t *Tetris) Left() bool  { return t.shift(-1, 0) }
func (t *Tetris) Right() bool { return t.shift(1, 0) }

// Down moves the piece one row down. When it can't, the piece lands,
// complete rows are removed and the next piece spawns.
func (t *Tetris) Down() bool {
	if t.shift(0, 1) {
		return true
	}
	if t.piece != nil && !t.gameOver {
		t.lock()
	}
	return false
}

// Tick advances one gravity step.
func (t *Tetris) Tick() bool { return t.Down() }

// Drop moves the piece down until it lands and returns the rows travelled.
func (t *Tetris) Drop() int {
	n := 0
	for t.Down() {
		n++
	}
	return n
}

// Rotate rotates the piece if the rotation is legal.
func (t *Tetris) Rotate() bool {
	if t.gameOver || t.piece == nil {
		return false
	}
	if !t.piece.CanRotate(t.board) {
		return false
	}
	t.piece.Rotate(t.board)
	return true
}

// Apply runs a single command and reports whether it changed the game.
// A drop always commits the piece, so it reports true even from rest.
func (t *Tetris) Apply(a Action) bool {
	switch a {
	case MoveLeft:
		return t.Left()
	case MoveRight:
		return t.Right()
	case MoveDown:
		return t.Down()
	case DropDown:
		if t.gameOver || t.piece == nil {
			return false
		}
		t.Drop()
		return true
	case RotatePiece:
		return t.Rotate()
	}
	return false
}

func (t *Tetris) GameOver() bool { return t.gameOver }

// Piece returns the falling piece's blocks, nil when there is none.
func (t *Tetris) Piece() []Block {
	if t.piece == nil {
		return nil
	}
	return t.piece.Blocks()
}

// Board returns every landed block.
func (t *Tetris) Board() []Block { return t.board.Blocks() }

// Ghost returns where the falling piece would land if dropped now.
func (t *Tetris) Ghost() []Point {
	if t.piece == nil {
		return nil
	}
	n := t.piece.dropDistance(t.board)
	ghost := t.piece.Points()
	for i := range ghost {
		ghost[i].Y += n
	}
	return ghost
}

func (t *Tetris) Snapshot() Snapshot {
	return Snapshot{
		Piece:    t.Piece(),
		Ghost:    t.Ghost(),
		Board:    t.Board(),
		Next:     t.next,
		GameOver: t.gameOver,
	}
}

func (t *Tetris) shift(dx, dy int) bool {
	if t.gameOver || t.piece == nil {
		return false
	}
	if !t.piece.CanMove(t.board, dx, dy) {
		return false
	}
	t.piece.Move(dx, dy)
	return true
}

// lock lands the falling piece and spawns the next one.
func (t *Tetris) lock() {
	t.board.Place(t.piece)
	t.piece = nil
	if n := t.board.RemoveCompleteRows(); n > 0 {
		t.logger.Debug("rows cleared", slog.Int("rows", n))
	}
	t.spawn()
}

func (t *Tetris) spawn() {
	shape := t.next
	t.next = t.source.Next()
	p, err := NewPiece(shape, spawnPoint)
	if err != nil {
		t.logger.Error("unable to spawn piece", slog.String("error", err.Error()))
		t.gameOver = true
		return
	}
	t.PlacePiece(p)
}
