package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange は盤面外の座標が指定されたことを表す
	ErrOutOfRange = errors.New("coordinate out of range")
	// ErrOccupiedCell は既にタイルがあるマスに AddTile したことを表す
	ErrOccupiedCell = errors.New("cell is occupied")
	// ErrInvalidValue はタイルの値が正の2の累乗でないことを表す
	ErrInvalidValue = errors.New("tile value must be a positive power of two")
	// ErrInvalidSize は盤面サイズが不正であることを表す
	ErrInvalidSize = errors.New("board size must be positive")
	// ErrMergeMismatch は値の異なるタイル同士をマージしようとしたことを表す
	ErrMergeMismatch = errors.New("merged tiles must have equal values")
	// ErrTileNotOnBoard は盤面上の位置と一致しないタイルを移動しようとしたことを表す
	ErrTileNotOnBoard = errors.New("tile is not stored at its own position")
)

// CellError は特定のマスに対する操作の失敗を表す
type CellError struct {
	Op  string
	Col int
	Row int
	Err error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s (%d,%d): %v", e.Op, e.Col, e.Row, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

func cellError(op string, col, row int, err error) error {
	return &CellError{Op: op, Col: col, Row: row, Err: err}
}
