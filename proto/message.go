package proto

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"wtptetris/tetris"
)

// Field names of the Struct messages.
const (
	fieldGameID   = "game_id"
	fieldAction   = "action"
	fieldPiece    = "piece"
	fieldGhost    = "ghost"
	fieldBoard    = "board"
	fieldNext     = "next"
	fieldGameOver = "game_over"
	fieldX        = "x"
	fieldY        = "y"
	fieldShape    = "shape"
)

var (
	ErrMissingGameID = errors.New("missing game id")
	ErrMalformed     = errors.New("malformed message")
)

// NewActRequest builds the message Act expects.
func NewActRequest(gameID string, a tetris.Action) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldGameID: structpb.NewStringValue(gameID),
		fieldAction: structpb.NewStringValue(string(a)),
	}}
}

// ParseActRequest validates an Act message. Unknown actions wrap
// tetris.ErrUnknownAction.
func ParseActRequest(st *structpb.Struct) (string, tetris.Action, error) {
	f := st.GetFields()
	id := f[fieldGameID].GetStringValue()
	if id == "" {
		return "", "", ErrMissingGameID
	}
	a, err := tetris.ParseAction(f[fieldAction].GetStringValue())
	if err != nil {
		return "", "", err
	}
	return id, a, nil
}

// SnapshotToStruct encodes a snapshot for the Watch stream.
func SnapshotToStruct(s tetris.Snapshot) (*structpb.Struct, error) {
	ghost := make([]any, len(s.Ghost))
	for i, p := range s.Ghost {
		ghost[i] = map[string]any{fieldX: p.X, fieldY: p.Y}
	}
	st, err := structpb.NewStruct(map[string]any{
		fieldPiece:    blocksToList(s.Piece),
		fieldGhost:    ghost,
		fieldBoard:    blocksToList(s.Board),
		fieldNext:     string(s.Next),
		fieldGameOver: s.GameOver,
	})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return st, nil
}

// SnapshotFromStruct decodes a snapshot received from the Watch stream.
func SnapshotFromStruct(st *structpb.Struct) (tetris.Snapshot, error) {
	f := st.GetFields()
	var s tetris.Snapshot
	var err error
	if s.Piece, err = blocksFromList(f[fieldPiece]); err != nil {
		return tetris.Snapshot{}, fmt.Errorf("decode piece: %w", err)
	}
	if s.Board, err = blocksFromList(f[fieldBoard]); err != nil {
		return tetris.Snapshot{}, fmt.Errorf("decode board: %w", err)
	}
	for _, v := range f[fieldGhost].GetListValue().GetValues() {
		p, err := pointFromValue(v)
		if err != nil {
			return tetris.Snapshot{}, fmt.Errorf("decode ghost: %w", err)
		}
		s.Ghost = append(s.Ghost, p)
	}
	if next := f[fieldNext].GetStringValue(); next != "" {
		if s.Next, err = tetris.ParseShape(next); err != nil {
			return tetris.Snapshot{}, fmt.Errorf("decode next: %w", err)
		}
	}
	s.GameOver = f[fieldGameOver].GetBoolValue()
	return s, nil
}

func blocksToList(blocks []tetris.Block) []any {
	out := make([]any, len(blocks))
	for i, b := range blocks {
		out[i] = map[string]any{fieldX: b.X, fieldY: b.Y, fieldShape: string(b.Shape)}
	}
	return out
}

func blocksFromList(v *structpb.Value) ([]tetris.Block, error) {
	values := v.GetListValue().GetValues()
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]tetris.Block, 0, len(values))
	for _, bv := range values {
		p, err := pointFromValue(bv)
		if err != nil {
			return nil, err
		}
		shape, err := tetris.ParseShape(bv.GetStructValue().GetFields()[fieldShape].GetStringValue())
		if err != nil {
			return nil, err
		}
		out = append(out, tetris.Block{X: p.X, Y: p.Y, Shape: shape})
	}
	return out, nil
}

func pointFromValue(v *structpb.Value) (tetris.Point, error) {
	f := v.GetStructValue().GetFields()
	x, okX := f[fieldX]
	y, okY := f[fieldY]
	if !okX || !okY {
		return tetris.Point{}, fmt.Errorf("point %v: %w", v, ErrMalformed)
	}
	return tetris.Point{X: int(x.GetNumberValue()), Y: int(y.GetNumberValue())}, nil
}
