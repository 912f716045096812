package domain

import (
	"fmt"
	"iter"
	"strings"
)

// Pos は盤面基準の座標を表す
type Pos struct {
	Col int
	Row int
}

// Board は size x size の盤面を表す
// 内部の格納位置は常に盤面基準で、視点（perspective）は座標の読み替えだけを行う
type Board struct {
	size   int
	cells  [][]*Tile // cells[col][row]
	viewer Side
}

// NewBoard は空のBoardを生成する
func NewBoard(size int) (*Board, error) {
	if size < 1 {
		return nil, fmt.Errorf("new board of size %d: %w", size, ErrInvalidSize)
	}
	cells := make([][]*Tile, size)
	for c := range cells {
		cells[c] = make([]*Tile, size)
	}
	return &Board{size: size, cells: cells, viewer: North}, nil
}

// NewBoardFromValues はセルの値を指定してBoardを生成する
// values[0] が最上段（北側）の行で、0 は空マスを表す
func NewBoardFromValues(values [][]int) (*Board, error) {
	size := len(values)
	b, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	for i, line := range values {
		if len(line) != size {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(line), size, ErrInvalidSize)
		}
		row := size - 1 - i
		for col, v := range line {
			if v == 0 {
				continue
			}
			if err := b.AddTile(NewTile(v, col, row)); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// Clone はBoardのコピーを返す。Tileはimmutableなので共有する
func (b *Board) Clone() *Board {
	cells := make([][]*Tile, b.size)
	for c := range cells {
		cells[c] = append([]*Tile(nil), b.cells[c]...)
	}
	return &Board{size: b.size, cells: cells, viewer: b.viewer}
}

// Size は盤面の一辺の長さを返す
func (b *Board) Size() int {
	return b.size
}

// Perspective は現在の視点を返す
func (b *Board) Perspective() Side {
	return b.viewer
}

// SetViewingPerspective は以降の Tile / Move の座標を、side が上になるように読み替える
func (b *Board) SetViewingPerspective(side Side) {
	b.viewer = side
}

// Tile は現在の視点における (col,row) のタイルを返す。空マスなら nil
func (b *Board) Tile(col, row int) (*Tile, error) {
	if !b.inBounds(col, row) {
		return nil, cellError("tile", col, row, ErrOutOfRange)
	}
	return b.at(col, row), nil
}

// Clear は全てのマスを空にする
func (b *Board) Clear() {
	for c := range b.cells {
		clear(b.cells[c])
	}
}

// AddTile はタイル自身の座標にタイルを置く。座標は盤面基準
func (b *Board) AddTile(t *Tile) error {
	if !b.inBounds(t.col, t.row) {
		return cellError("add tile", t.col, t.row, ErrOutOfRange)
	}
	if !validValue(t.value) {
		return cellError("add tile", t.col, t.row, fmt.Errorf("%w: got %d", ErrInvalidValue, t.value))
	}
	if b.cells[t.col][t.row] != nil {
		return cellError("add tile", t.col, t.row, ErrOccupiedCell)
	}
	b.cells[t.col][t.row] = t
	return nil
}

// Move は現在の視点における (col,row) にタイルを移動する
// 移動先にタイルがあればマージし、true を返す
func (b *Board) Move(col, row int, t *Tile) (bool, error) {
	if !b.inBounds(col, row) {
		return false, cellError("move", col, row, ErrOutOfRange)
	}
	if !b.inBounds(t.col, t.row) || b.cells[t.col][t.row] != t {
		return false, cellError("move", t.col, t.row, ErrTileNotOnBoard)
	}
	if dst := b.at(col, row); dst != nil && dst != t && dst.value != t.value {
		return false, cellError("move", col, row, fmt.Errorf("%w: %d into %d", ErrMergeMismatch, t.value, dst.value))
	}
	return b.move(col, row, t), nil
}

// move は検証なしで Move を行う
func (b *Board) move(col, row int, t *Tile) bool {
	pc, pr := b.viewer.toPhysical(col, row, b.size)
	if t.col == pc && t.row == pr {
		return false
	}
	dst := b.cells[pc][pr]
	b.cells[t.col][t.row] = nil
	if dst == nil {
		b.cells[pc][pr] = t.movedTo(pc, pr)
		return false
	}
	b.cells[pc][pr] = t.mergedWith(pc, pr)
	return true
}

// at は検証なしで現在の視点における (col,row) のタイルを返す
func (b *Board) at(col, row int) *Tile {
	pc, pr := b.viewer.toPhysical(col, row, b.size)
	return b.cells[pc][pr]
}

func (b *Board) inBounds(col, row int) bool {
	return col >= 0 && col < b.size && row >= 0 && row < b.size
}

// All は全マスを北側の行から順に、各行は西から東へ列挙する
// 座標は視点によらず盤面基準
func (b *Board) All() iter.Seq2[Pos, *Tile] {
	return func(yield func(Pos, *Tile) bool) {
		for r := b.size - 1; r >= 0; r-- {
			for c := 0; c < b.size; c++ {
				if !yield(Pos{Col: c, Row: r}, b.cells[c][r]) {
					return
				}
			}
		}
	}
}

// EmptyCells は空のセルの座標一覧を返す
func (b *Board) EmptyCells() []Pos {
	var empty []Pos
	for p, t := range b.All() {
		if t == nil {
			empty = append(empty, p)
		}
	}
	return empty
}

// Values は盤面の値を北側の行から順に返す。空マスは 0
func (b *Board) Values() [][]int {
	values := make([][]int, b.size)
	for i := range values {
		values[i] = make([]int, b.size)
	}
	for p, t := range b.All() {
		if t != nil {
			values[b.size-1-p.Row][p.Col] = t.value
		}
	}
	return values
}

// Equal は2つのBoardの内容が等しいかどうかを返す
func (b *Board) Equal(other *Board) bool {
	if b.size != other.size {
		return false
	}
	for c := 0; c < b.size; c++ {
		for r := 0; r < b.size; r++ {
			x, y := b.cells[c][r], other.cells[c][r]
			if (x == nil) != (y == nil) {
				return false
			}
			if x != nil && x.value != y.value {
				return false
			}
		}
	}
	return true
}

// String はBoardをASCIIアートとして表示する
func (b *Board) String() string {
	line := "+" + strings.Repeat("------+", b.size)
	var sb strings.Builder
	sb.WriteString(line + "\n")
	for _, row := range b.Values() {
		sb.WriteString("|")
		for _, v := range row {
			if v == 0 {
				sb.WriteString("      |")
			} else {
				fmt.Fprintf(&sb, "%5d |", v)
			}
		}
		sb.WriteString("\n" + line + "\n")
	}
	return sb.String()
}
